package store

import (
	"context"
	"errors"

	"github.com/abhisek/synapse/internal/snapshot"
)

// ErrWordNotFound is returned when a word does not exist for the user.
var ErrWordNotFound = errors.New("word not found")

// Word is one vocabulary entry of a user.
type Word struct {
	ID           int64
	Word         string
	Definition   string
	PartOfSpeech string
	Status       string // ghost, liquid or solid
}

// Relation connects two words of the same user.
type Relation struct {
	SourceID     int64
	TargetID     int64
	RelationType string
}

// MindMapper loads a user's vocabulary graph.
type MindMapper interface {
	MindMap(ctx context.Context, userID string) (*snapshot.Snapshot, error)
}

// WordRepo manages a user's words and relations.
type WordRepo interface {
	MindMapper

	// AddWord inserts the word if the user does not have it yet and
	// returns its id either way.
	AddWord(ctx context.Context, userID string, w Word) (id int64, created bool, err error)

	// AddRelation links two existing words. Duplicates are ignored.
	AddRelation(ctx context.Context, userID string, r Relation) error

	// WordByText returns the word with the given spelling.
	WordByText(ctx context.Context, userID, word string) (*Word, error)

	// SetStatus updates the learning state of a word.
	SetStatus(ctx context.Context, userID string, wordID int64, status string) error
}

// wordRow and relationRow are the raw query results shared by the SQLite
// and Postgres backends.
type wordRow struct {
	id           int64
	word         string
	status       string
	partOfSpeech *string
}

type relationRow struct {
	source, target int64
	relationType   string
}

// buildSnapshot maps rows to a snapshot the same way the web API does:
// a missing part of speech becomes the "vocabulary" category, and every
// non-solid learning state is drawn as a ghost.
func buildSnapshot(words []wordRow, relations []relationRow) *snapshot.Snapshot {
	s := &snapshot.Snapshot{
		Nodes: make([]snapshot.Node, 0, len(words)),
		Links: make([]snapshot.Link, 0, len(relations)),
	}
	for _, w := range words {
		category := snapshot.DefaultCategory
		if w.partOfSpeech != nil && *w.partOfSpeech != "" {
			category = *w.partOfSpeech
		}
		s.Nodes = append(s.Nodes, snapshot.Node{
			ID:       idOf(w.id),
			Word:     w.word,
			Status:   snapshot.NormalizeStatus(w.status),
			Category: category,
		})
	}
	for _, r := range relations {
		s.Links = append(s.Links, snapshot.Link{
			Source:       idOf(r.source),
			Target:       idOf(r.target),
			RelationType: r.relationType,
		})
	}
	return s
}
