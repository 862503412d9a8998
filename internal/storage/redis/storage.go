package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scopecreep/projectgame/internal/model"
	"github.com/scopecreep/projectgame/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	exists, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Summary operations

func (s *Storage) SaveGameSummary(ctx context.Context, summary *model.GameSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	key := summaryKey(summary.ID)

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.RPush(ctx, summaryIndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListGameSummaries(ctx context.Context) ([]*model.GameSummary, error) {
	keys, err := s.client.LRange(ctx, summaryIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return []*model.GameSummary{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.GameSummary, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var summary model.GameSummary
		if err := json.Unmarshal([]byte(val.(string)), &summary); err != nil {
			continue // Skip invalid data
		}
		summaries = append(summaries, &summary)
	}

	return summaries, nil
}

// Content cache operations. Each content set is stored as one JSON
// value; content is read-only after load so per-row access is not
// needed.

func (s *Storage) SaveSpaces(ctx context.Context, spaces []model.Space) error {
	return s.saveContent(ctx, spacesKey(), spaces)
}

func (s *Storage) GetSpaces(ctx context.Context) ([]model.Space, error) {
	var spaces []model.Space
	if err := s.getContent(ctx, spacesKey(), &spaces); err != nil {
		return nil, err
	}
	return spaces, nil
}

func (s *Storage) SaveCards(ctx context.Context, cards []model.Card) error {
	return s.saveContent(ctx, cardsKey(), cards)
}

func (s *Storage) GetCards(ctx context.Context) ([]model.Card, error) {
	var cards []model.Card
	if err := s.getContent(ctx, cardsKey(), &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *Storage) SaveDiceRows(ctx context.Context, rows []model.DiceRow) error {
	return s.saveContent(ctx, diceRowsKey(), rows)
}

func (s *Storage) GetDiceRows(ctx context.Context) ([]model.DiceRow, error) {
	var rows []model.DiceRow
	if err := s.getContent(ctx, diceRowsKey(), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Storage) saveContent(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *Storage) getContent(ctx context.Context, key string, out any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ErrContentNotLoaded
		}
		return err
	}
	return json.Unmarshal(data, out)
}
