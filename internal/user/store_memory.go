package user

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// InMemoryStore keeps the user aggregate in process memory. It backs
// tests and local development; it intentionally favors clarity over
// performance.
type InMemoryStore struct {
	mu     sync.RWMutex
	users  map[int64]*User
	nextID int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[int64]*User), nextID: 1}
}

func (s *InMemoryStore) Save(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextID
	s.nextID++
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = clone(u)
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	u.UpdatedAt = time.Now()
	s.users[u.ID] = clone(u)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return clone(u), nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return clone(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) ExistsByNIK(_ context.Context, nik string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.NIK == nik {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) ListCareGivers(ctx context.Context) ([]*User, error) {
	return s.SearchCareGivers(ctx, "", "")
}

func (s *InMemoryStore) SearchCareGivers(_ context.Context, name, speciality string) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*User
	for _, u := range s.users {
		if !u.IsCareGiver() {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(name)) {
			continue
		}
		if speciality != "" && !strings.Contains(strings.ToLower(u.CareGiver.Speciality), strings.ToLower(speciality)) {
			continue
		}
		out = append(out, clone(u))
	}
	// Deterministic order for pagination over map iteration.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) UpdateCareGiverRating(_ context.Context, id int64, average float64, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || !u.IsCareGiver() {
		return ErrNotFound
	}
	u.CareGiver.AverageRating = average
	u.CareGiver.RatingCount = count
	u.UpdatedAt = time.Now()
	return nil
}

func clone(u *User) *User {
	cp := *u
	cp.Roles = append([]Role(nil), u.Roles...)
	if u.Patient != nil {
		p := *u.Patient
		cp.Patient = &p
	}
	if u.CareGiver != nil {
		c := *u.CareGiver
		c.Schedules = append([]WorkingSchedule(nil), u.CareGiver.Schedules...)
		cp.CareGiver = &c
	}
	return &cp
}
