package memory

import (
	"context"
	"sync"

	"github.com/kitikazis/ELAC-Lectura/internal/app"
	"github.com/kitikazis/ELAC-Lectura/internal/domain"
)

// RoomCodeStore keeps room codes in a map. Rows are never reaped; expiry is
// detected lazily by the manager on read, so a lapsed code still answers
// with its record instead of disappearing into "not found".
type RoomCodeStore struct {
	mu    sync.RWMutex
	codes map[string]domain.RoomCode
}

var _ app.RoomCodeStore = (*RoomCodeStore)(nil)

func NewRoomCodeStore() *RoomCodeStore {
	return &RoomCodeStore{codes: make(map[string]domain.RoomCode)}
}

func (s *RoomCodeStore) Put(_ context.Context, code domain.RoomCode) error {
	s.mu.Lock()
	s.codes[code.Code] = code
	s.mu.Unlock()
	return nil
}

func (s *RoomCodeStore) Get(_ context.Context, code string) (domain.RoomCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rc, ok := s.codes[code]
	if !ok {
		return domain.RoomCode{}, domain.ErrNotFound
	}
	return rc, nil
}
