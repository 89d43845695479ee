// Package metrics serves analyses over the loaded dataset.
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/AngelCh415/wb-ads-analytics/internal/analytics"
	"github.com/AngelCh415/wb-ads-analytics/internal/cache"
	"github.com/AngelCh415/wb-ads-analytics/internal/models"
	"github.com/AngelCh415/wb-ads-analytics/internal/prefs"
	"github.com/AngelCh415/wb-ads-analytics/internal/store"
)

// ErrBadQuery wraps every query parameter validation failure.
var ErrBadQuery = errors.New("bad query")

type DailyView struct {
	models.DailyMetricSet
	// Trends compare the day with the previous listed day; absent on the first.
	Trends map[string]analytics.Trend `json:"trends,omitempty"`
}

type ResultView struct {
	models.AnalysisResult
	Daily []DailyView `json:"daily"`
}

// Report is the body of an analysis response. Results is nil when no
// dataset has been loaded.
type Report struct {
	Loaded   bool                   `json:"loaded"`
	Filters  models.Filters         `json:"filters"`
	Config   models.AnalyticsConfig `json:"config"`
	LoadedAt *time.Time             `json:"loaded_at,omitempty"`
	Results  []ResultView           `json:"results"`
}

type Service struct {
	st    *store.MemoryStore
	eng   *analytics.Engine
	prefs *prefs.Manager
	cache cache.Cache
	ttl   time.Duration
	col   *Collectors
	log   *slog.Logger
	sf    singleflight.Group
}

type Options struct {
	Store    *store.MemoryStore
	Engine   *analytics.Engine
	Prefs    *prefs.Manager
	Cache    cache.Cache
	CacheTTL time.Duration
	Metrics  *Collectors
	Logger   *slog.Logger
}

func NewService(o Options) *Service {
	return &Service{
		st:    o.Store,
		eng:   o.Engine,
		prefs: o.Prefs,
		cache: o.Cache,
		ttl:   o.CacheTTL,
		col:   o.Metrics,
		log:   o.Logger,
	}
}

func norm(s string) string { return strings.TrimSpace(s) }

// ParseQuery starts from the saved preferences and overrides whatever the
// query names.
func (s *Service) ParseQuery(ctx context.Context, v url.Values) (models.Filters, models.AnalyticsConfig, error) {
	f, err := s.prefs.Filters(ctx)
	if err != nil {
		return f, models.AnalyticsConfig{}, err
	}
	cfg, err := s.prefs.Config(ctx)
	if err != nil {
		return f, cfg, err
	}

	override := func(dst *string, key string) {
		if p := norm(v.Get(key)); p != "" {
			*dst = p
		}
	}
	override(&f.DateFrom, "from")
	override(&f.DateTo, "to")
	override(&f.CampaignID, "campaign_id")
	override(&f.ProductID, "product_id")
	override(&f.TrafficSource, "traffic_source")

	if p := norm(v.Get("margin_pct")); p != "" {
		m, err := strconv.ParseFloat(strings.Replace(p, ",", ".", 1), 64)
		if err != nil {
			return f, cfg, fmt.Errorf("%w: margin_pct %q", ErrBadQuery, p)
		}
		cfg.MarginPct = m
	}
	if p := norm(v.Get("min_clicks_for_cr")); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return f, cfg, fmt.Errorf("%w: min_clicks_for_cr %q", ErrBadQuery, p)
		}
		cfg.MinClicksForCR = n
	}

	return f, cfg, ValidateFilters(f)
}

// ValidateFilters rejects date bounds that cannot be parsed.
func ValidateFilters(f models.Filters) error {
	if _, ok := analytics.ParseDate(f.DateFrom); !ok {
		return fmt.Errorf("%w: from %q", ErrBadQuery, f.DateFrom)
	}
	if _, ok := analytics.ParseDate(f.DateTo); !ok {
		return fmt.Errorf("%w: to %q", ErrBadQuery, f.DateTo)
	}
	return nil
}

// Analyze runs the pipeline over the current snapshot. Identical concurrent
// requests share one computation, and results are cached per dataset
// fingerprint; cache failures only cost a recompute.
func (s *Service) Analyze(ctx context.Context, f models.Filters, cfg models.AnalyticsConfig) (Report, error) {
	start := time.Now()
	snap := s.st.Snapshot()
	rep := Report{Loaded: snap.Rows != nil, Filters: f, Config: cfg}
	if !rep.Loaded {
		s.col.observeAnalysis("not_loaded", time.Since(start))
		return rep, nil
	}
	loadedAt := snap.LoadedAt
	rep.LoadedAt = &loadedAt

	key := cache.Key(snap.Fingerprint, f, cfg)
	if views, ok := s.cached(ctx, key); ok {
		rep.Results = views
		s.col.observeAnalysis("hit", time.Since(start))
		return rep, nil
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		views := BuildViews(s.eng.Analyze(snap.Rows, f, cfg))
		b, err := json.Marshal(views)
		if err != nil {
			return nil, fmt.Errorf("encode results: %w", err)
		}
		if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
			s.col.CacheErrors.WithLabelValues("set").Inc()
			s.log.Warn("cache set failed", slog.String("err", err.Error()))
		}
		return views, nil
	})
	if err != nil {
		return rep, err
	}
	rep.Results = v.([]ResultView)
	s.col.observeAnalysis("miss", time.Since(start))
	return rep, nil
}

func (s *Service) cached(ctx context.Context, key string) ([]ResultView, bool) {
	b, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.col.CacheErrors.WithLabelValues("get").Inc()
			s.log.Warn("cache get failed", slog.String("err", err.Error()))
		}
		return nil, false
	}
	var views []ResultView
	if err := json.Unmarshal(b, &views); err != nil {
		s.col.CacheErrors.WithLabelValues("decode").Inc()
		s.log.Warn("cache entry undecodable", slog.String("err", err.Error()))
		return nil, false
	}
	if views == nil {
		views = []ResultView{}
	}
	return views, true
}

// Options lists selector values of the loaded dataset.
func (s *Service) Options() models.Options {
	return s.st.Options()
}

// BuildViews attaches day-over-day trends to each product's breakdown.
func BuildViews(results []models.AnalysisResult) []ResultView {
	if results == nil {
		return nil
	}
	out := make([]ResultView, 0, len(results))
	for _, r := range results {
		days := make([]DailyView, len(r.Daily))
		for i, d := range r.Daily {
			days[i] = DailyView{DailyMetricSet: d}
			if i > 0 {
				days[i].Trends = analytics.DayTrends(r.Daily[i-1].MetricSet, d.MetricSet)
			}
		}
		rv := ResultView{AnalysisResult: r, Daily: days}
		rv.AnalysisResult.Daily = nil
		out = append(out, rv)
	}
	return out
}
