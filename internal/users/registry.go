package users

import (
	"fmt"
	"sync"
)

// Registry is a thread-safe, in-memory user store. Records are kept in
// insertion order so List and FindByName are deterministic. All public
// methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	users map[string]User
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]User),
	}
}

// Put stores u under u.ID. It fails with ErrConflict when the id is already
// present, leaving the stored record untouched.
func (r *Registry) Put(u User) error {
	if u.ID == "" {
		return ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; ok {
		return fmt.Errorf("user_id %s: %w", u.ID, ErrConflict)
	}
	r.users[u.ID] = u.clone()
	r.order = append(r.order, u.ID)
	return nil
}

// Seed stores every record in order, stopping at the first failure.
func (r *Registry) Seed(records ...User) error {
	for _, u := range records {
		if err := r.Put(u); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}

// Get returns the record stored under id.
func (r *Registry) Get(id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, fmt.Errorf("user_id %s: %w", id, ErrNotFound)
	}
	return u.clone(), nil
}

// FindByName returns the earliest inserted record whose name equals name.
// Matching is exact and case-sensitive.
func (r *Registry) FindByName(name string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if u := r.users[id]; u.NameIs(name) {
			return u.clone(), nil
		}
	}
	return User{}, fmt.Errorf("user_name %s: %w", name, ErrNotFound)
}

// Delete removes the record stored under id and returns it.
func (r *Registry) Delete(id string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, fmt.Errorf("user_id %s: %w", id, ErrNotFound)
	}
	delete(r.users, id)
	for i, key := range r.order {
		if key == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return u, nil
}

// List returns a copy of all records in insertion order.
func (r *Registry) List() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.users[id].clone())
	}
	return out
}

// Len returns the number of stored records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
