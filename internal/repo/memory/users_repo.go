package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/geocoder89/userhub/internal/domain/user"
)

// UsersRepo is the process-lifetime user store. Records are never
// updated or deleted; ids encode insertion order. Insert holds the
// lock across the size read and the map write so sequential ids stay
// gap-free under concurrent creates.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.Record
	order []string
	now   func() time.Time
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.Record),
		now:   time.Now,
	}
}

// NewSeededRepo returns a store pre-loaded with the two fixture
// records every deployment starts from.
func NewSeededRepo() *UsersRepo {
	r := NewUsersRepo()

	seed := []user.Record{
		{
			ID:        "user1",
			Contact:   "john@example.com",
			Name:      "John Doe",
			Phone:     "+1-234-567-8900",
			Password:  "hashed_password_123",
			CreatedAt: "2024-01-01T10:00:00Z",
		},
		{
			ID:        "user2",
			Contact:   "jane@example.com",
			Name:      "Jane Smith",
			Phone:     "+1-987-654-3210",
			Password:  "hashed_password_456",
			CreatedAt: "2024-01-02T10:00:00Z",
		},
	}

	for _, rec := range seed {
		r.items[rec.ID] = rec
		r.order = append(r.order, rec.ID)
	}

	return r
}

func (r *UsersRepo) Get(id string) (user.Record, error) {
	r.mu.RLock()
	rec, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return user.Record{}, user.ErrNotFound
	}

	return rec, nil
}

// List returns all records in insertion order.
func (r *UsersRepo) List() []user.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.Record, 0, len(r.order))

	for _, id := range r.order {
		out = append(out, r.items[id])
	}

	return out
}

// Insert allocates the next sequential id from the current store size,
// stamps created_at and appends the record.
func (r *UsersRepo) Insert(in user.CreateInput) (user.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := user.Record{
		ID:        fmt.Sprintf("user%d", len(r.items)+1),
		Contact:   in.Contact,
		Name:      in.Name,
		Phone:     in.Phone,
		Password:  in.Password,
		CreatedAt: user.Timestamp(r.now()),
	}

	r.items[rec.ID] = rec
	r.order = append(r.order, rec.ID)

	return rec, nil
}

// FindByContact scans in insertion order and returns the first record
// whose contact matches. Linear by design; the store never holds more
// than a handful of records.
func (r *UsersRepo) FindByContact(contact string) (user.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if r.items[id].Contact == contact {
			return r.items[id], nil
		}
	}

	return user.Record{}, user.ErrNotFound
}

func (r *UsersRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
