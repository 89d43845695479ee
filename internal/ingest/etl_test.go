package ingest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/wb-ads-analytics/internal/config"
	"github.com/AngelCh415/wb-ads-analytics/internal/store"
)

type recordedRun struct {
	result        string
	rows, dropped int
}

type fakeRecorder struct{ runs []recordedRun }

func (f *fakeRecorder) RecordIngest(result string, rows, dropped int, _ time.Duration) {
	f.runs = append(f.runs, recordedRun{result, rows, dropped})
}

func newTestETL(url string) (*ETL, *store.MemoryStore, *fakeRecorder) {
	st := store.NewMemoryStore()
	rec := &fakeRecorder{}
	cfg := config.Config{SheetURL: url, FetchRetries: 0}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewETL(NewHTTPClient(time.Second), st, log, cfg, rec), st, rec
}

func TestETLRunLoadsRows(t *testing.T) {
	body := header + "\n" +
		"C-1,search,123,Dress,2024-01-01,1000,20,2,200,5,1,2000\n" +
		"C-1,search,,Dress,2024-01-01,1,1,1,1,1,1,1\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	etl, st, rec := newTestETL(srv.URL + "/export?format=csv")
	n, err := etl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, st.Snapshot().Rows, 1)
	assert.Equal(t, []recordedRun{{"ok", 1, 1}}, rec.runs)
}

func TestETLRunKeepsPreviousDatasetOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>private</html>"))
	}))
	defer srv.Close()

	etl, st, rec := newTestETL(srv.URL + "/export?format=csv")
	st.Replace(nil)

	_, err := etl.Run(context.Background())
	assert.ErrorIs(t, err, ErrHTMLSource)
	assert.NotNil(t, st.Snapshot().Rows)
	assert.Equal(t, "error", rec.runs[0].result)
}

func TestETLRunWithoutURLClearsDataset(t *testing.T) {
	etl, st, rec := newTestETL("")
	st.Replace(nil)

	n, err := etl.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Nil(t, st.Snapshot().Rows)
	assert.True(t, st.Attempted())
	assert.Equal(t, "skipped", rec.runs[0].result)
}
