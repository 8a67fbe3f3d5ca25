// Package ident supplies the id and time source injected into every
// service. Document numbers and timestamps never come from ambient
// globals, so tests stay deterministic and rapid successive creations
// cannot collide.
package ident

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Source produces unique identifiers and current timestamps.
type Source interface {
	NewID() uuid.UUID
	Reference(prefix string) string
	Now() time.Time
}

type uuidSource struct{}

// NewUUIDSource returns the production Source backed by random UUIDs and
// the wall clock.
func NewUUIDSource() Source {
	return uuidSource{}
}

func (uuidSource) NewID() uuid.UUID {
	return uuid.New()
}

func (uuidSource) Reference(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s", strings.ToUpper(prefix), strings.ToUpper(raw[:8]))
}

func (uuidSource) Now() time.Time {
	return time.Now().UTC()
}

// SequenceSource is a deterministic Source for tests: ids and references
// count up from a fixed seed and Now walks forward one second per call.
type SequenceSource struct {
	mu   sync.Mutex
	next int
	base time.Time
}

// NewSequenceSource seeds a deterministic source at the given base time.
func NewSequenceSource(base time.Time) *SequenceSource {
	return &SequenceSource{next: 1, base: base}
}

func (s *SequenceSource) NewID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", s.next))
	s.next++
	return id
}

func (s *SequenceSource) Reference(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := fmt.Sprintf("%s-%04d", strings.ToUpper(prefix), 1000+s.next)
	s.next++
	return ref
}

func (s *SequenceSource) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.base.Add(time.Duration(s.next) * time.Second)
	s.next++
	return now
}
