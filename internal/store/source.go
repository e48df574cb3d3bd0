package store

import (
	"context"

	"github.com/abhisek/synapse/internal/snapshot"
)

// UserSource adapts a MindMapper to snapshot.Source for one user.
type UserSource struct {
	Mapper MindMapper
	UserID string
	Name   string
}

func (s *UserSource) Describe() string { return s.Name + " user " + s.UserID }

func (s *UserSource) Fetch(ctx context.Context) (*snapshot.Snapshot, error) {
	snap, err := s.Mapper.MindMap(ctx, s.UserID)
	if err != nil {
		return nil, &snapshot.ErrSourceUnavailable{Source: s.Describe(), Err: err}
	}
	return snap, nil
}

// Source returns a snapshot source for userID backed by the local store.
func (s *Store) Source(userID string) *UserSource {
	return &UserSource{Mapper: s.WordRepo(), UserID: userID, Name: "sqlite"}
}

// Source returns a snapshot source for userID backed by Postgres.
func (s *PGStore) Source(userID string) *UserSource {
	return &UserSource{Mapper: s, UserID: userID, Name: "postgres"}
}
