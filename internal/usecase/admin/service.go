// Package admin implements the admin login gate with a failure
// lockout.
package admin

import (
	"crypto/subtle"
	"sync"
	"time"

	"github.com/groupdex/groupdex/internal/domain"
)

// Status describes the current lockout state for the status endpoint.
type Status struct {
	Locked    bool
	Remaining time.Duration
	Attempts  int
}

// Service guards admin login behind an attempt counter. After
// maxAttempts consecutive failures the login locks for lockout; a
// successful login resets the counter. State is process-local.
type Service struct {
	password    string
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time

	mu          sync.Mutex
	attempts    int
	lockedUntil time.Time
}

// New creates an admin service. maxAttempts and lockout fall back to
// 3 attempts and 24 hours when non-positive.
func New(password string, maxAttempts int, lockout time.Duration) *Service {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if lockout <= 0 {
		lockout = 24 * time.Hour
	}
	return &Service{
		password:    password,
		maxAttempts: maxAttempts,
		lockout:     lockout,
		now:         time.Now,
	}
}

// Login checks the password. It returns a LockedError while the
// lockout is active, ErrInvalidCredentials on a wrong password, and
// nil on success (which also clears the failure counter).
func (s *Service) Login(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Before(s.lockedUntil) {
		return domain.NewLocked(s.lockedUntil.Sub(now))
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1 {
		s.attempts = 0
		s.lockedUntil = time.Time{}
		return nil
	}

	s.attempts++
	if s.attempts >= s.maxAttempts {
		s.attempts = 0
		s.lockedUntil = now.Add(s.lockout)
		return domain.NewLocked(s.lockout)
	}
	return domain.ErrInvalidCredentials
}

// Status reports whether login is locked and either the remaining
// lockout time or the failed attempt count so far.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Before(s.lockedUntil) {
		return Status{Locked: true, Remaining: s.lockedUntil.Sub(now)}
	}
	return Status{Attempts: s.attempts}
}

// AttemptsLeft returns how many failures remain before lockout.
func (s *Service) AttemptsLeft() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.now().Before(s.lockedUntil) {
		return 0
	}
	return s.maxAttempts - s.attempts
}
