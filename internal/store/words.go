package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/abhisek/synapse/internal/snapshot"
)

// WordRepo returns a WordRepo backed by this store.
func (s *Store) WordRepo() WordRepo {
	return &wordRepo{db: s.db}
}

type wordRepo struct {
	db *sql.DB
}

func (r *wordRepo) MindMap(ctx context.Context, userID string) (*snapshot.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, word, status, part_of_speech
		FROM words
		WHERE user_id = ?
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	var words []wordRow
	for rows.Next() {
		var w wordRow
		var pos sql.NullString
		if err := rows.Scan(&w.id, &w.word, &w.status, &pos); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		if pos.Valid {
			w.partOfSpeech = &pos.String
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}

	relRows, err := r.db.QueryContext(ctx, `
		SELECT source_word_id, target_word_id, relation_type
		FROM word_relations
		WHERE user_id = ?
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query relations: %w", err)
	}
	defer relRows.Close()

	var relations []relationRow
	for relRows.Next() {
		var rel relationRow
		if err := relRows.Scan(&rel.source, &rel.target, &rel.relationType); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		relations = append(relations, rel)
	}
	if err := relRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relations: %w", err)
	}

	return buildSnapshot(words, relations), nil
}

func (r *wordRepo) AddWord(ctx context.Context, userID string, w Word) (int64, bool, error) {
	status := w.Status
	if status == "" {
		status = "ghost"
	}
	var pos any
	if w.PartOfSpeech != "" {
		pos = w.PartOfSpeech
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO words (user_id, word, definition, part_of_speech, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, word) DO NOTHING`,
		userID, w.Word, w.Definition, pos, status)
	if err != nil {
		return 0, false, fmt.Errorf("insert word %q: %w", w.Word, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("insert word %q: %w", w.Word, err)
	}
	existing, err := r.WordByText(ctx, userID, w.Word)
	if err != nil {
		return 0, false, err
	}
	return existing.ID, n > 0, nil
}

func (r *wordRepo) AddRelation(ctx context.Context, userID string, rel Relation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO word_relations (user_id, source_word_id, target_word_id, relation_type)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		userID, rel.SourceID, rel.TargetID, rel.RelationType)
	if err != nil {
		return fmt.Errorf("insert relation %d→%d: %w", rel.SourceID, rel.TargetID, err)
	}
	return nil
}

func (r *wordRepo) WordByText(ctx context.Context, userID, word string) (*Word, error) {
	var w Word
	var pos sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, word, definition, part_of_speech, status
		FROM words
		WHERE user_id = ? AND word = ?`, userID, word).
		Scan(&w.ID, &w.Word, &w.Definition, &pos, &w.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", word, ErrWordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query word %q: %w", word, err)
	}
	w.PartOfSpeech = pos.String
	return &w, nil
}

func (r *wordRepo) SetStatus(ctx context.Context, userID string, wordID int64, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE words SET status = ? WHERE user_id = ? AND id = ?`, status, userID, wordID)
	if err != nil {
		return fmt.Errorf("update status of word %d: %w", wordID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status of word %d: %w", wordID, err)
	}
	if n == 0 {
		return fmt.Errorf("word %d: %w", wordID, ErrWordNotFound)
	}
	return nil
}

func idOf(id int64) snapshot.ID {
	return snapshot.ID(strconv.FormatInt(id, 10))
}
