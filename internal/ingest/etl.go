package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/AngelCh415/wb-ads-analytics/internal/config"
	"github.com/AngelCh415/wb-ads-analytics/internal/store"
	"github.com/AngelCh415/wb-ads-analytics/internal/utils"
)

// Recorder receives ingest outcomes; metrics.Collectors implements it.
type Recorder interface {
	RecordIngest(result string, rows, dropped int, took time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordIngest(string, int, int, time.Duration) {}

type ETL struct {
	c   HTTPClient
	st  *store.MemoryStore
	log *slog.Logger
	cfg config.Config
	rec Recorder
	bo  utils.Backoff
}

func NewETL(c HTTPClient, st *store.MemoryStore, log *slog.Logger, cfg config.Config, rec Recorder) *ETL {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &ETL{
		c:   c,
		st:  st,
		log: log,
		cfg: cfg,
		rec: rec,
		bo:  utils.NewBackoff(200*time.Millisecond, cfg.FetchRetries),
	}
}

// Run fetches the configured sheet, parses it and replaces the stored
// dataset. Without a configured sheet the dataset is cleared. On failure
// the previous dataset is kept.
func (e *ETL) Run(ctx context.Context) (int, error) {
	start := time.Now()
	if e.cfg.SheetURL == "" {
		e.st.Clear()
		e.rec.RecordIngest("skipped", 0, 0, time.Since(start))
		e.log.Warn("ingest skipped: ADS_SHEET_URL not set")
		return 0, nil
	}

	url := Proxied(e.cfg.ProxyURL, ExportURL(e.cfg.SheetURL))
	text, err := FetchCSV(ctx, e.c, url, e.bo)
	if err != nil {
		return 0, e.fail(err, start)
	}
	rows, dropped, err := parseAdsCSV(text)
	if err != nil {
		return 0, e.fail(err, start)
	}

	e.st.Replace(rows)
	e.rec.RecordIngest("ok", len(rows), dropped, time.Since(start))
	e.log.Info("ingest complete",
		slog.Int("rows", len(rows)),
		slog.Int("dropped", dropped),
		slog.Duration("took", time.Since(start)))
	return len(rows), nil
}

func (e *ETL) fail(err error, start time.Time) error {
	e.st.MarkAttempted()
	e.rec.RecordIngest("error", 0, 0, time.Since(start))
	e.log.Error("ingest failed", slog.String("err", err.Error()))
	return err
}
