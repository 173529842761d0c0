package reference

import (
	"sync"

	"github.com/ppiankov/wrangle/internal/cache"
)

// Match is the chosen reference company for a query
type Match struct {
	Company Company
	Score   float64
}

// Matcher picks the closest reference company for a filing company name.
// Candidates are restricted to companies sharing the query's first word.
type Matcher struct {
	dir   *Directory
	cache cache.Cache

	mu    sync.Mutex
	hits  int
	calls int
}

// NewMatcher creates a matcher over dir. c memoizes chosen names across
// calls and runs; nil disables memoization.
func NewMatcher(dir *Directory, c cache.Cache) *Matcher {
	if c == nil {
		c = cache.Nop{}
	}
	return &Matcher{dir: dir, cache: c}
}

// BestMatch returns the highest scoring candidate for query. Ties go to the
// candidate listed first in the reference table. ok is false when no
// reference company shares the query's first word.
func (m *Matcher) BestMatch(query string) (Match, bool) {
	first := FirstWord(query)
	if first == "" {
		return Match{}, false
	}

	key := cache.CacheKey(cache.KindMatch, query)
	m.count(false)
	if name, found := m.cache.Get(key); found {
		if c, ok := m.dir.Lookup(string(name)); ok {
			m.count(true)
			return Match{Company: c, Score: Score(query, c.Name)}, true
		}
	}

	best, bestScore, ok := BestMatch(query, m.dir.Candidates(first))
	if !ok {
		return Match{}, false
	}

	_ = m.cache.Set(key, []byte(best), 0)
	c, _ := m.dir.Lookup(best)
	return Match{Company: c, Score: bestScore}, true
}

// Stats reports lookups and memo hits so far
func (m *Matcher) Stats() (calls, hits int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls, m.hits
}

func (m *Matcher) count(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
		return
	}
	m.calls++
}

// BestMatch returns the candidate scoring highest against query. Ties go to
// the earlier candidate. ok is false for an empty candidate list.
func BestMatch(query string, candidates []string) (best string, score float64, ok bool) {
	score = -1
	for _, name := range candidates {
		if s := Score(query, name); s > score {
			best, score, ok = name, s, true
		}
	}
	return best, score, ok
}
