package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hackgods/appointment-booking/internal/appointment"
)

// SessionRegistry keeps the most recently used selection sessions.
type SessionRegistry struct {
	cache *lru.Cache[string, *appointment.Session]
	now   func() time.Time
}

func NewSessionRegistry(size int) (*SessionRegistry, error) {
	cache, err := lru.New[string, *appointment.Session](size)
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &SessionRegistry{cache: cache, now: time.Now}, nil
}

func (r *SessionRegistry) Create() (string, *appointment.Session) {
	id := uuid.NewString()
	sess := appointment.NewSession(r.now())
	r.cache.Add(id, sess)
	return id, sess
}

func (r *SessionRegistry) Get(id string) (*appointment.Session, bool) {
	return r.cache.Get(id)
}

func (r *SessionRegistry) Len() int {
	return r.cache.Len()
}
