package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/AngelCh415/wb-ads-analytics/internal/analytics"
	"github.com/AngelCh415/wb-ads-analytics/internal/cache"
	"github.com/AngelCh415/wb-ads-analytics/internal/metrics"
	"github.com/AngelCh415/wb-ads-analytics/internal/models"
	"github.com/AngelCh415/wb-ads-analytics/internal/prefs"
	"github.com/AngelCh415/wb-ads-analytics/internal/store"
)

type fakeETL struct {
	st  *store.MemoryStore
	err error
}

func (f *fakeETL) Run(context.Context) (int, error) {
	if f.err != nil {
		f.st.MarkAttempted()
		return 0, f.err
	}
	f.st.Replace([]models.RawRow{{
		CampaignID:    "C-1",
		TrafficSource: "search",
		ProductID:     "A",
		ProductName:   "Jacket",
		Date:          "2024-01-02",
		Impressions:   1000,
		Clicks:        20,
		CartAdds:      5,
		Orders:        1,
		Spend:         decimal.NewFromInt(200),
		Revenue:       decimal.NewFromInt(2000),
	}})
	return 1, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeETL) {
	t.Helper()
	st := store.NewMemoryStore()
	reg := prometheus.NewRegistry()
	col := metrics.NewCollectors(reg)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mgr := prefs.NewManager(prefs.NewMemoryStore(), prefs.Defaults{
		Config:       models.AnalyticsConfig{MarginPct: 25, MinClicksForCR: 30},
		LookbackDays: 4,
		Now:          func() time.Time { return time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC) },
	})
	svc := metrics.NewService(metrics.Options{
		Store:    st,
		Engine:   analytics.NewEngine(language.English),
		Prefs:    mgr,
		Cache:    cache.NewMemoryCache(time.Minute),
		CacheTTL: time.Minute,
		Metrics:  col,
		Logger:   log,
	})
	etl := &fakeETL{st: st}
	srv := httptest.NewServer(NewRouter(Deps{
		Log:         log,
		ETL:         etl,
		Ready:       st,
		Service:     svc,
		Prefs:       mgr,
		Gatherer:    reg,
		CORSOrigins: []string{"*"},
	}))
	t.Cleanup(srv.Close)
	return srv, etl
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestHealthAndReadiness(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, _ = do(t, http.MethodGet, srv.URL+"/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, srv.URL+"/ingest/run", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/readyz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIngestFailure(t *testing.T) {
	srv, etl := newTestServer(t)
	etl.err = errors.New("sheet unreachable")

	resp, body := do(t, http.MethodPost, srv.URL+"/ingest/run", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body, "sheet unreachable")
}

func TestAnalyticsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/analytics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rep metrics.Report
	require.NoError(t, json.Unmarshal([]byte(body), &rep))
	assert.False(t, rep.Loaded)
	assert.Nil(t, rep.Results)

	do(t, http.MethodPost, srv.URL+"/ingest/run", "")

	resp, body = do(t, http.MethodGet, srv.URL+"/analytics?margin_pct=25", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &rep))
	assert.True(t, rep.Loaded)
	require.Len(t, rep.Results, 1)
	assert.Equal(t, "Jacket", rep.Results[0].ProductName)
	assert.Equal(t, analytics.LabelNeedsAttention, rep.Results[0].Banner.ShortText)

	resp, _ = do(t, http.MethodGet, srv.URL+"/analytics?from=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, http.MethodGet, srv.URL+"/analytics/options", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var opts models.Options
	require.NoError(t, json.Unmarshal([]byte(body), &opts))
	assert.Equal(t, []string{"A"}, opts.ProductIDs)
}

func TestPrefsRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/prefs/filters", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var f models.Filters
	require.NoError(t, json.Unmarshal([]byte(body), &f))
	assert.Equal(t, "2023-12-31", f.DateFrom)

	resp, _ = do(t, http.MethodPut, srv.URL+"/prefs/filters",
		`{"campaign_id":"C-1","date_from":"2024-01-01","date_to":"2024-01-02"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = do(t, http.MethodGet, srv.URL+"/prefs/filters", "")
	require.NoError(t, json.Unmarshal([]byte(body), &f))
	assert.Equal(t, "C-1", f.CampaignID)
	assert.Equal(t, models.SelectorAll, f.ProductID)

	resp, _ = do(t, http.MethodPut, srv.URL+"/prefs/filters", `{"date_from":"soon","date_to":"2024-01-02"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPut, srv.URL+"/prefs/config", `{"margin_pct":40,"min_clicks_for_cr":10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, body = do(t, http.MethodGet, srv.URL+"/prefs/config", "")
	var c models.AnalyticsConfig
	require.NoError(t, json.Unmarshal([]byte(body), &c))
	assert.Equal(t, 40.0, c.MarginPct)

	resp, _ = do(t, http.MethodPut, srv.URL+"/prefs/config", `{"margin":40}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, http.MethodGet, srv.URL+"/analytics", "")

	resp, body := do(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `wbads_analyses_total{cache="not_loaded"} 1`)
}
