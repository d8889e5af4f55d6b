package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kitikazis/ELAC-Lectura/internal/app"
	"github.com/kitikazis/ELAC-Lectura/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultRetention is how long a room-code row stays readable past its
// logical expiry. The window is what lets Validate answer "expired" instead
// of "not found" for a code that did once exist.
const DefaultRetention = time.Hour

// RoomCodeStore persists room codes as JSON values with a retention TTL.
// The logical expiry lives inside the row (expires_at) and is checked by the
// manager on read; the redis TTL only bounds how long stale rows linger.
type RoomCodeStore struct {
	client    *redis.Client
	retention time.Duration
}

var _ app.RoomCodeStore = (*RoomCodeStore)(nil)

func NewRoomCodeStore(client *redis.Client, retention time.Duration) *RoomCodeStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &RoomCodeStore{client: client, retention: retention}
}

func (s *RoomCodeStore) Put(ctx context.Context, code domain.RoomCode) error {
	data, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("marshal room code: %w", err)
	}
	if err := s.client.Set(ctx, s.key(code.Code), data, s.retention).Err(); err != nil {
		return fmt.Errorf("store room code: %w", err)
	}
	return nil
}

func (s *RoomCodeStore) Get(ctx context.Context, code string) (domain.RoomCode, error) {
	data, err := s.client.Get(ctx, s.key(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RoomCode{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.RoomCode{}, fmt.Errorf("load room code: %w", err)
	}
	var rc domain.RoomCode
	if err := json.Unmarshal(data, &rc); err != nil {
		return domain.RoomCode{}, fmt.Errorf("unmarshal room code: %w", err)
	}
	return rc, nil
}

func (s *RoomCodeStore) key(code string) string {
	return "room:code:" + code
}
