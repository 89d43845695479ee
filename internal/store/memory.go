package store

import (
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/AngelCh415/wb-ads-analytics/internal/models"
)

// Snapshot is a read-only view of the current dataset. Rows is nil when
// nothing has been loaded.
type Snapshot struct {
	Rows        []models.RawRow
	Fingerprint uint64
	LoadedAt    time.Time
}

// MemoryStore keeps the latest parsed ads export. Rows handed out by
// Snapshot must not be mutated by callers.
type MemoryStore struct {
	mu        sync.RWMutex
	rows      []models.RawRow
	fp        uint64
	loadedAt  time.Time
	attempted bool
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Replace swaps in a freshly parsed dataset. A nil slice is stored as empty:
// the dataset is loaded, it just has no rows.
func (s *MemoryStore) Replace(rows []models.RawRow) {
	cp := make([]models.RawRow, len(rows))
	copy(cp, rows)
	fp := fingerprint(cp)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = cp
	s.fp = fp
	s.loadedAt = s.now()
	s.attempted = true
}

// Clear forgets the dataset so analyses report "not loaded".
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
	s.fp = 0
	s.loadedAt = time.Time{}
	s.attempted = true
}

// MarkAttempted records that a load ran, even if it failed.
func (s *MemoryStore) MarkAttempted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempted = true
}

func (s *MemoryStore) Attempted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attempted
}

func (s *MemoryStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Rows: s.rows, Fingerprint: s.fp, LoadedAt: s.loadedAt}
}

// Options lists distinct non-empty selector values in encounter order.
func (s *MemoryStore) Options() models.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		opts                         models.Options
		campaigns, products, sources = map[string]struct{}{}, map[string]struct{}{}, map[string]struct{}{}
	)
	for _, r := range s.rows {
		opts.CampaignIDs = appendDistinct(opts.CampaignIDs, campaigns, r.CampaignID)
		opts.ProductIDs = appendDistinct(opts.ProductIDs, products, r.ProductID)
		opts.TrafficSources = appendDistinct(opts.TrafficSources, sources, r.TrafficSource)
	}
	return opts
}

func appendDistinct(dst []string, seen map[string]struct{}, v string) []string {
	if v == "" {
		return dst
	}
	if _, ok := seen[v]; ok {
		return dst
	}
	seen[v] = struct{}{}
	return append(dst, v)
}

// fingerprint hashes every row field so equal datasets share cache entries
// across processes.
func fingerprint(rows []models.RawRow) uint64 {
	d := xxhash.New()
	for _, r := range rows {
		for _, f := range []string{
			r.CampaignID, r.TrafficSource, r.ProductID, r.ProductName, r.Date,
			strconv.FormatInt(r.Impressions, 10),
			strconv.FormatInt(r.Clicks, 10),
			strconv.FormatInt(r.CartAdds, 10),
			strconv.FormatInt(r.Orders, 10),
			r.Spend.String(),
			r.Revenue.String(),
		} {
			_, _ = d.WriteString(f)
			_, _ = d.Write([]byte{0})
		}
		_, _ = d.Write([]byte{'\n'})
	}
	return d.Sum64()
}
