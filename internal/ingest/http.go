package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AngelCh415/wb-ads-analytics/internal/utils"
)

var (
	ErrEmptySource = errors.New("data source returned an empty response")
	ErrHTMLSource  = errors.New("data source returned an HTML page; make sure the sheet is shared by link")
	ErrNoURL       = errors.New("empty url")
)

// FetchCSV downloads the export at url, retrying transport failures and
// retryable statuses. Client errors and non-CSV bodies fail immediately.
func FetchCSV(ctx context.Context, c HTTPClient, url string, bo utils.Backoff) (string, error) {
	if url == "" {
		return "", ErrNoURL
	}
	var text string
	err := bo.Do(ctx, func(int) error {
		body, err := getText(ctx, c, url)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && !se.Retryable() {
				return utils.Permanent(err)
			}
			return err
		}
		text = body
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fetch sheet: %w", err)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptySource
	}
	if strings.HasPrefix(strings.ToLower(trimmed), "<html") {
		return "", ErrHTMLSource
	}
	return text, nil
}
