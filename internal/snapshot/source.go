package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Source supplies snapshots on demand.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
	// Describe names the source for logs and headers.
	Describe() string
}

// Watcher is a Source that can notify about changes.
type Watcher interface {
	Source
	// Watch calls onChange with a freshly fetched snapshot (or the error
	// fetching it) whenever the source changes, until stop is called.
	Watch(onChange func(*Snapshot, error)) (stop func(), err error)
}

// FileSource reads a JSON or YAML snapshot file.
type FileSource struct {
	Path   string
	Logger *slog.Logger
}

// NewFileSource returns a file source; the format follows the extension.
func NewFileSource(path string) (*FileSource, error) {
	if _, err := FormatFromPath(path); err != nil {
		return nil, err
	}
	return &FileSource{Path: path, Logger: slog.Default()}, nil
}

func (s *FileSource) Describe() string { return "file:" + s.Path }

func (s *FileSource) Fetch(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(s.Path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &ErrSourceUnavailable{Source: s.Describe(), Err: err}
	}
	return decode(data, format, s.Describe(), false)
}

// Watch reloads the file whenever it is written or replaced. The parent
// directory is watched so editors that save by rename are seen too.
func (s *FileSource) Watch(onChange func(*Snapshot, error)) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("snapshot watcher: %w", err)
	}
	target := filepath.Clean(s.Path)
	dir := filepath.Dir(target)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("snapshot watcher add %s: %w", dir, err)
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				snap, err := s.Fetch(context.Background())
				if err != nil {
					var unavailable *ErrSourceUnavailable
					if errors.As(err, &unavailable) && ev.Has(fsnotify.Rename) {
						// The file was moved away; wait for its replacement.
						continue
					}
				}
				logger.Debug("snapshot file changed", "path", target, "op", ev.Op.String(), "err", err)
				onChange(snap, err)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("snapshot watcher error", "err", err)
			case <-done:
				return
			}
		}
	}()

	var closed bool
	return func() {
		if !closed {
			closed = true
			close(done)
		}
	}, nil
}

// HTTPSource fetches a user's mind map from the web API:
// GET {BaseURL}/users/{UserID}/synapse/.
type HTTPSource struct {
	BaseURL string
	UserID  string
	Token   string
	Client  *http.Client
}

// NewHTTPSource returns a source with a 10 second client timeout.
func NewHTTPSource(baseURL, userID, token string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		UserID:  userID,
		Token:   token,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSource) endpoint() string {
	return fmt.Sprintf("%s/users/%s/synapse/", s.BaseURL, url.PathEscape(s.UserID))
}

func (s *HTTPSource) Describe() string { return s.endpoint() }

func (s *HTTPSource) Fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &ErrSourceUnavailable{Source: s.Describe(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, &ErrSourceUnavailable{Source: s.Describe(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ErrSourceUnavailable{
			Source: s.Describe(),
			Err:    fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}
	// The API reports learning states (ghost, liquid, solid).
	return decode(body, FormatJSON, s.Describe(), true)
}

// StaticSource serves a fixed snapshot.
type StaticSource struct {
	Name     string
	Snapshot *Snapshot
}

func (s *StaticSource) Describe() string { return s.Name }

func (s *StaticSource) Fetch(context.Context) (*Snapshot, error) {
	return s.Snapshot, nil
}
