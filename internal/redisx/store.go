package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/redis/go-redis/v9"
)

// Store keeps the cart snapshot and purchase history of each session in Redis.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

var _ checkout.Store = (*Store)(nil)

func (s *Store) SaveSnapshot(ctx context.Context, sessionID string, items []checkout.LineItem) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, fmt.Sprintf(KeySnapshot, sessionID), b, TTLSnapshot).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}

func (s *Store) LoadSnapshot(ctx context.Context, sessionID string) ([]checkout.LineItem, error) {
	var items []checkout.LineItem
	found, err := s.getJSON(ctx, fmt.Sprintf(KeySnapshot, sessionID), &items)
	if err != nil || !found {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteSnapshot(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, fmt.Sprintf(KeySnapshot, sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete snapshot: %w", err)
	}
	return nil
}

func (s *Store) LoadHistory(ctx context.Context, sessionID string) ([]checkout.HistoryEntry, error) {
	var entries []checkout.HistoryEntry
	if _, err := s.getJSON(ctx, fmt.Sprintf(KeyHistory, sessionID), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveHistory replaces the whole history; it has no TTL.
func (s *Store) SaveHistory(ctx context.Context, sessionID string, entries []checkout.HistoryEntry) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := s.rdb.Set(ctx, fmt.Sprintf(KeyHistory, sessionID), b, 0).Err(); err != nil {
		return fmt.Errorf("redis set history: %w", err)
	}
	return nil
}

func (s *Store) getJSON(ctx context.Context, key string, out any) (bool, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}
