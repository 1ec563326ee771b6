package stubapi

import (
	"sync"

	"github.com/google/uuid"
)

type Membership struct {
	PlanID   string `json:"plan_id"`
	IsActive bool   `json:"is_active"`
}

// User is the backend's user record as served on /user/profile.
type User struct {
	ID              string       `json:"id"`
	Mobile          string       `json:"mobile"`
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	ProfilePhotoURL string       `json:"profile_photo_url"`
	KYCStatus       string       `json:"kyc_status"`
	Memberships     []Membership `json:"memberships"`
}

// Store keeps users keyed by mobile number and the mobiles with an
// outstanding OTP.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byPhone map[string]*User
	pending map[string]struct{}
}

func NewStore() *Store {
	return &Store{
		byID:    make(map[string]*User),
		byPhone: make(map[string]*User),
		pending: make(map[string]struct{}),
	}
}

// Seed adds u, assigning an id when it has none.
func (s *Store) Seed(u User) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.byID[u.ID] = &u
	s.byPhone[u.Mobile] = &u
	return u
}

func (s *Store) MarkOTPSent(mobile string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[mobile] = struct{}{}
}

// ConsumeOTP reports whether an OTP was sent to mobile and forgets it.
func (s *Store) ConsumeOTP(mobile string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.pending[mobile]
	delete(s.pending, mobile)
	return ok
}

// GetOrCreate returns the user registered with mobile, creating a new one
// with pending KYC on first login.
func (s *Store) GetOrCreate(mobile string) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.byPhone[mobile]; ok {
		return *u
	}
	u := &User{ID: uuid.NewString(), Mobile: mobile, KYCStatus: "pending", Memberships: []Membership{}}
	s.byID[u.ID] = u
	s.byPhone[mobile] = u
	return *u
}

func (s *Store) Get(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, false
	}
	return *u, true
}

// Update applies fn to the user with id under the store lock.
func (s *Store) Update(id string, fn func(u *User)) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, false
	}
	fn(u)
	return *u, true
}
