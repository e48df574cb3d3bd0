package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/synapse/internal/snapshot"
	"github.com/abhisek/synapse/internal/wordgraph"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked in TestOpenFile.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synapse.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	// Reopening runs the idempotent migration again.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	s2.Close()
}

func TestAddWordIdempotent(t *testing.T) {
	repo := openTestStore(t).WordRepo()
	ctx := context.Background()

	id, created, err := repo.AddWord(ctx, "1", Word{Word: "talo", Definition: "house", PartOfSpeech: "noun"})
	if err != nil {
		t.Fatalf("AddWord: %v", err)
	}
	if !created {
		t.Error("expected first insert to create the word")
	}

	id2, created, err := repo.AddWord(ctx, "1", Word{Word: "talo"})
	if err != nil {
		t.Fatalf("AddWord again: %v", err)
	}
	if created || id2 != id {
		t.Errorf("second insert: created=%v id=%d, want false %d", created, id2, id)
	}

	w, err := repo.WordByText(ctx, "1", "talo")
	if err != nil {
		t.Fatalf("WordByText: %v", err)
	}
	if w.Status != "ghost" || w.PartOfSpeech != "noun" || w.Definition != "house" {
		t.Errorf("got %+v", w)
	}

	// Same spelling for another user is a different word.
	id3, created, err := repo.AddWord(ctx, "2", Word{Word: "talo"})
	if err != nil || !created || id3 == id {
		t.Errorf("other user: id=%d created=%v err=%v", id3, created, err)
	}
}

func TestWordByText_NotFound(t *testing.T) {
	repo := openTestStore(t).WordRepo()
	_, err := repo.WordByText(context.Background(), "1", "nope")
	if !errors.Is(err, ErrWordNotFound) {
		t.Errorf("got %v, want ErrWordNotFound", err)
	}
}

func TestSetStatus(t *testing.T) {
	repo := openTestStore(t).WordRepo()
	ctx := context.Background()
	id, _, err := repo.AddWord(ctx, "1", Word{Word: "auto"})
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.SetStatus(ctx, "1", id, "solid"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if err := repo.SetStatus(ctx, "2", id, "solid"); !errors.Is(err, ErrWordNotFound) {
		t.Errorf("other user's word: got %v", err)
	}
}

func TestMindMap(t *testing.T) {
	s := openTestStore(t)
	repo := s.WordRepo()
	ctx := context.Background()

	res, err := Seed(ctx, repo, "demo")
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if res.WordsAdded != len(DemoWords) || res.RelationsAdded != len(DemoRelations) {
		t.Errorf("seed result %+v", res)
	}
	if _, _, err := repo.AddWord(ctx, "demo", Word{Word: "sana"}); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Source("demo").Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(snap.Nodes) != len(DemoWords)+1 {
		t.Fatalf("got %d nodes, want %d", len(snap.Nodes), len(DemoWords)+1)
	}
	if len(snap.Links) != len(DemoRelations) {
		t.Fatalf("got %d links, want %d", len(snap.Links), len(DemoRelations))
	}

	byWord := map[string]snapshot.Node{}
	for _, n := range snap.Nodes {
		byWord[n.Word] = n
	}
	if got := byWord["hei"].Status; got != "solid" {
		t.Errorf("hei status = %q, want solid", got)
	}
	if got := byWord["talo"].Status; got != "ghost" {
		t.Errorf("liquid talo status = %q, want ghost", got)
	}
	if got := byWord["sana"].Category; got != snapshot.DefaultCategory {
		t.Errorf("sana category = %q, want %q", got, snapshot.DefaultCategory)
	}

	m := wordgraph.New()
	nodes, edges := snap.Graph()
	if err := m.Load(nodes, edges); err != nil {
		t.Fatalf("Load: %v", err)
	}
	st := m.Stats()
	if st.Solid != 8 || st.Ghost != 15 {
		t.Errorf("stats %+v", st)
	}

	// Reseeding adds nothing new.
	res, err = Seed(ctx, repo, "demo")
	if err != nil {
		t.Fatal(err)
	}
	if res.WordsAdded != 0 || res.WordsExisting != len(DemoWords) {
		t.Errorf("reseed result %+v", res)
	}
	snap, _ = s.Source("demo").Fetch(ctx)
	if len(snap.Links) != len(DemoRelations) {
		t.Errorf("reseed duplicated relations: %d", len(snap.Links))
	}

	empty, err := s.Source("nobody").Fetch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty.Nodes) != 0 {
		t.Errorf("unknown user has %d nodes", len(empty.Nodes))
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SYNAPSE_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "synapse", "synapse.db"); p != want {
		t.Errorf("got %q, want %q", p, want)
	}
	if _, err := os.Stat(filepath.Dir(p)); err != nil {
		t.Errorf("parent dir not created: %v", err)
	}

	custom := filepath.Join(dir, "x", "y.db")
	t.Setenv("SYNAPSE_DB", custom)
	p, err = DefaultDBPath()
	if err != nil || p != custom {
		t.Errorf("got %q, %v", p, err)
	}
}

func TestPostgresMindMap(t *testing.T) {
	dsn := os.Getenv("SYNAPSE_TEST_PG")
	if dsn == "" {
		t.Skip("SYNAPSE_TEST_PG not set")
	}
	ctx := context.Background()
	pg, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	defer pg.Close()
	if _, err := pg.Source("1").Fetch(ctx); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
}
