package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhisek/synapse/internal/snapshot"
)

// PGStore reads mind maps straight from the web application's Postgres
// database. The schema is owned by that application, so PGStore never
// migrates or writes.
type PGStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to databaseURL and verifies the connection.
func OpenPostgres(ctx context.Context, databaseURL string) (*PGStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	config.MaxConns = 4
	config.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

// MindMap runs the same queries as the web API's mind map endpoint.
// user_id is compared as text so callers can pass the id verbatim.
func (s *PGStore) MindMap(ctx context.Context, userID string) (*snapshot.Snapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, word, status, part_of_speech
		FROM words
		WHERE user_id::text = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	var words []wordRow
	for rows.Next() {
		var w wordRow
		var id int32
		if err := rows.Scan(&id, &w.word, &w.status, &w.partOfSpeech); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan word: %w", err)
		}
		w.id = int64(id)
		words = append(words, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}

	relRows, err := s.pool.Query(ctx, `
		SELECT source_word_id, target_word_id, relation_type
		FROM word_relations
		WHERE user_id::text = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query relations: %w", err)
	}
	defer relRows.Close()

	var relations []relationRow
	for relRows.Next() {
		var src, dst int32
		var rel relationRow
		if err := relRows.Scan(&src, &dst, &rel.relationType); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		rel.source, rel.target = int64(src), int64(dst)
		relations = append(relations, rel)
	}
	if err := relRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relations: %w", err)
	}

	return buildSnapshot(words, relations), nil
}

// Ping checks database connectivity.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
