package ids

import (
	"strings"
	"sync"
	"testing"
)

func TestNewIsUniqueAndSortable(t *testing.T) {
	a := New()
	b := New()
	if a == b {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}
	if len(a) != 26 {
		t.Fatalf("unexpected ulid length: %d", len(a))
	}
	if a >= b {
		t.Fatalf("expected monotonic ordering: %s then %s", a, b)
	}
}

func TestSequenceStartsAtBase(t *testing.T) {
	seq := NewSequence("P", 101)
	if got := seq.Next(); got != "P101" {
		t.Fatalf("expected P101, got %s", got)
	}
	if got := seq.Next(); got != "P102" {
		t.Fatalf("expected P102, got %s", got)
	}
}

func TestSequenceConcurrentIssueIsUnique(t *testing.T) {
	seq := NewSequence("INV", 101)
	const n = 100

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		seen = make(map[string]struct{}, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := seq.Next()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("expected %d unique ids, got %d", n, len(seen))
	}
	for id := range seen {
		if !strings.HasPrefix(id, "INV") {
			t.Fatalf("id %s missing prefix", id)
		}
	}
}
