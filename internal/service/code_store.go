package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultCodeTTL is how long a verification code stays valid
	DefaultCodeTTL = 10 * time.Minute

	// Interval between expiry sweeps
	codeSweepInterval = time.Minute
)

// VerificationCodeStore holds pending email verification and password-reset
// codes. One code per email, last write wins, removed on first successful use
// or when the TTL elapses. Process lifetime only, no durability.
type VerificationCodeStore struct {
	ttl time.Duration
	log *logrus.Logger

	mu    sync.Mutex
	codes map[string]storedCode

	// Graceful shutdown of the sweep goroutine
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

type storedCode struct {
	code      string
	expiresAt time.Time
}

// NewVerificationCodeStore creates the store and starts the expiry sweeper.
// Call Stop() during graceful shutdown.
func NewVerificationCodeStore(ttl time.Duration, log *logrus.Logger) *VerificationCodeStore {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}

	s := &VerificationCodeStore{
		ttl:      ttl,
		log:      log,
		codes:    make(map[string]storedCode),
		stopChan: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.sweepLoop()

	return s
}

// Put stores a code for the given email, replacing any pending one
func (s *VerificationCodeStore) Put(email, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = storedCode{
		code:      code,
		expiresAt: time.Now().Add(s.ttl),
	}
}

// Get returns the pending code for the email. Expired codes are treated as
// absent and removed eagerly.
func (s *VerificationCodeStore) Get(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.codes[email]
	if !ok {
		return "", false
	}
	if time.Now().After(stored.expiresAt) {
		delete(s.codes, email)
		return "", false
	}
	return stored.code, true
}

// Remove deletes the pending code for the email, if any
func (s *VerificationCodeStore) Remove(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
}

// Stop shuts down the sweep goroutine. Safe to call multiple times.
func (s *VerificationCodeStore) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
	}
}

func (s *VerificationCodeStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(codeSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			return
		}
	}
}

func (s *VerificationCodeStore) sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for email, stored := range s.codes {
		if now.After(stored.expiresAt) {
			delete(s.codes, email)
			removed++
		}
	}

	if removed > 0 && s.log != nil {
		s.log.Debugf("Verification code sweep removed %d expired entries", removed)
	}
}
