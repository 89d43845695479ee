package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/wb-ads-analytics/internal/metrics"
	"github.com/AngelCh415/wb-ads-analytics/internal/models"
	"github.com/AngelCh415/wb-ads-analytics/internal/prefs"
	"github.com/AngelCh415/wb-ads-analytics/internal/utils"
)

// Ingester reloads the dataset; *ingest.ETL implements it.
type Ingester interface {
	Run(ctx context.Context) (int, error)
}

// Readiness reports whether a first load has been attempted.
type Readiness interface {
	Attempted() bool
}

type Deps struct {
	Log         *slog.Logger
	ETL         Ingester
	Ready       Readiness
	Service     *metrics.Service
	Prefs       *prefs.Manager
	Gatherer    prometheus.Gatherer
	CORSOrigins []string
}

type router struct{ d Deps }

func NewRouter(d Deps) http.Handler {
	rt := router{d: d}
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(d.Log))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", rt.readyz)
	mux.Post("/ingest/run", rt.ingest)

	mux.Route("/analytics", func(r chi.Router) {
		r.Get("/", rt.analytics)
		r.Get("/options", rt.options)
	})
	mux.Route("/prefs", func(r chi.Router) {
		r.Get("/filters", rt.getFilters)
		r.Put("/filters", rt.putFilters)
		r.Get("/config", rt.getConfig)
		r.Put("/config", rt.putConfig)
	})

	if d.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

func (rt router) readyz(w http.ResponseWriter, r *http.Request) {
	if !rt.d.Ready.Attempted() {
		http.Error(w, "dataset not loaded yet", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(200)
	w.Write([]byte("ready"))
}

func (rt router) ingest(w http.ResponseWriter, r *http.Request) {
	n, err := rt.d.ETL.Run(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": n})
}

func (rt router) analytics(w http.ResponseWriter, r *http.Request) {
	f, cfg, err := rt.d.Service.ParseQuery(r.Context(), r.URL.Query())
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	rep, err := rt.d.Service.Analyze(r.Context(), f, cfg)
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (rt router) options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.d.Service.Options())
}

func (rt router) getFilters(w http.ResponseWriter, r *http.Request) {
	f, err := rt.d.Prefs.Filters(r.Context())
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (rt router) putFilters(w http.ResponseWriter, r *http.Request) {
	var f models.Filters
	if err := decode(w, r, &f); err != nil {
		rt.fail(w, r, err)
		return
	}
	for _, sel := range []*string{&f.CampaignID, &f.ProductID, &f.TrafficSource} {
		if *sel == "" {
			*sel = models.SelectorAll
		}
	}
	if err := metrics.ValidateFilters(f); err != nil {
		rt.fail(w, r, err)
		return
	}
	if err := rt.d.Prefs.SaveFilters(r.Context(), f); err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (rt router) getConfig(w http.ResponseWriter, r *http.Request) {
	c, err := rt.d.Prefs.Config(r.Context())
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (rt router) putConfig(w http.ResponseWriter, r *http.Request) {
	var c models.AnalyticsConfig
	if err := decode(w, r, &c); err != nil {
		rt.fail(w, r, err)
		return
	}
	if c.MinClicksForCR < 0 {
		rt.fail(w, r, fmt.Errorf("%w: min_clicks_for_cr must be >= 0", metrics.ErrBadQuery))
		return
	}
	if err := rt.d.Prefs.SaveConfig(r.Context(), c); err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (rt router) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, metrics.ErrBadQuery) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rt.d.Log.Error("request failed",
		slog.String("path", r.URL.Path),
		slog.String("rid", utils.RID(r.Context())),
		slog.String("err", err.Error()))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", metrics.ErrBadQuery, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
