package ids

import (
	"fmt"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a lexicographically sortable identifier suitable for
// correlating requests and audit events.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Sequence hands out deterministic per-entity-type identifiers such as
// P101, P102, ... Each service owns one sequence scoped to its prefix.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	next   uint64
}

// NewSequence creates a sequence whose first issued ID is prefix+base.
func NewSequence(prefix string, base uint64) *Sequence {
	return &Sequence{prefix: prefix, next: base}
}

// Next issues the next identifier in the sequence.
func (s *Sequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("%s%d", s.prefix, s.next)
	s.next++
	return id
}
