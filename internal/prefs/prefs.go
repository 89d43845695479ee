// Package prefs persists the last-used filters and analytics config.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AngelCh415/wb-ads-analytics/internal/models"
)

var ErrNotFound = errors.New("prefs: not found")

// Store is the load/save boundary for user preferences. Implementations
// return ErrNotFound when nothing was saved yet.
type Store interface {
	LoadFilters(ctx context.Context) (models.Filters, error)
	SaveFilters(ctx context.Context, f models.Filters) error
	LoadConfig(ctx context.Context) (models.AnalyticsConfig, error)
	SaveConfig(ctx context.Context, c models.AnalyticsConfig) error
}

// Defaults supplies values used when a Store has nothing saved.
type Defaults struct {
	Config       models.AnalyticsConfig
	LookbackDays int
	Now          func() time.Time
}

// Filters returns all-inclusive selectors over the last LookbackDays days,
// today included.
func (d Defaults) Filters() models.Filters {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	days := d.LookbackDays
	if days < 1 {
		days = 1
	}
	today := now()
	return models.Filters{
		CampaignID:    models.SelectorAll,
		ProductID:     models.SelectorAll,
		TrafficSource: models.SelectorAll,
		DateFrom:      today.AddDate(0, 0, -(days - 1)).Format("2006-01-02"),
		DateTo:        today.Format("2006-01-02"),
	}
}

// Manager layers Defaults over a Store.
type Manager struct {
	st   Store
	defs Defaults
}

func NewManager(st Store, defs Defaults) *Manager {
	return &Manager{st: st, defs: defs}
}

func (m *Manager) Filters(ctx context.Context) (models.Filters, error) {
	f, err := m.st.LoadFilters(ctx)
	if errors.Is(err, ErrNotFound) {
		return m.defs.Filters(), nil
	}
	if err != nil {
		return models.Filters{}, fmt.Errorf("load filters: %w", err)
	}
	return f, nil
}

func (m *Manager) Config(ctx context.Context) (models.AnalyticsConfig, error) {
	c, err := m.st.LoadConfig(ctx)
	if errors.Is(err, ErrNotFound) {
		return m.defs.Config, nil
	}
	if err != nil {
		return models.AnalyticsConfig{}, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

func (m *Manager) SaveFilters(ctx context.Context, f models.Filters) error {
	if err := m.st.SaveFilters(ctx, f); err != nil {
		return fmt.Errorf("save filters: %w", err)
	}
	return nil
}

func (m *Manager) SaveConfig(ctx context.Context, c models.AnalyticsConfig) error {
	if err := m.st.SaveConfig(ctx, c); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
