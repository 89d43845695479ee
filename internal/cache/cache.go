// Package cache stores encoded analysis results keyed by dataset and query.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/AngelCh415/wb-ads-analytics/internal/models"
)

// Cache is safe for concurrent use. Get returns ErrCacheMiss for absent or
// expired keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Error string

func (e Error) Error() string { return string(e) }

const ErrCacheMiss Error = "cache miss"

// Key identifies one analysis: the dataset fingerprint plus the effective
// filters and config.
func Key(fingerprint uint64, f models.Filters, cfg models.AnalyticsConfig) string {
	b, _ := json.Marshal(struct {
		F models.Filters         `json:"f"`
		C models.AnalyticsConfig `json:"c"`
	}{f, cfg})
	return "analysis:" + strconv.FormatUint(fingerprint, 16) + ":" + strconv.FormatUint(xxhash.Sum64(b), 16)
}
