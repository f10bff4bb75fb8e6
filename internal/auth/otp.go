package auth

import (
	"sync"
	"time"
)

// OTPEntry is one pending one-time code
type OTPEntry struct {
	Code      string
	ExpiresAt time.Time
}

// OTPStore holds pending one-time codes keyed by phone number. The service
// treats it as an opaque collaborator so the in-memory implementation can
// be swapped for a durable expiring store when running more than one
// replica.
type OTPStore interface {
	Put(phone string, entry OTPEntry)
	Get(phone string) (OTPEntry, bool)
	Delete(phone string)
}

// MemoryOTPStore is a process-local OTPStore. Expired entries are dropped
// lazily on read.
type MemoryOTPStore struct {
	mu      sync.RWMutex
	entries map[string]OTPEntry
}

// NewMemoryOTPStore creates a new in-memory OTP store
func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{entries: make(map[string]OTPEntry)}
}

// Put stores a pending code, replacing any previous one for the phone
func (s *MemoryOTPStore) Put(phone string, entry OTPEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[phone] = entry
}

// Get retrieves the pending code for a phone number
func (s *MemoryOTPStore) Get(phone string) (OTPEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[phone]
	return entry, ok
}

// Delete removes the pending code for a phone number
func (s *MemoryOTPStore) Delete(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, phone)
}
