package analytics

import (
	"PartnerHub-Backend/internal/domain"
	"PartnerHub-Backend/internal/repository"
	"PartnerHub-Backend/pkg/timeutil"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultLeaderboardSize is the number of rows the dashboard shows per
// leaderboard.
const DefaultLeaderboardSize = 5

// ClickLeader is one leaderboard row: an entity with its summed clicks
// over the requested window, enriched with display labels.
type ClickLeader struct {
	EntityID int64  `json:"entity_id"`
	Label    string `json:"label"`
	Badge    string `json:"badge"`
	Clicks   int64  `json:"clicks"`
}

// SeriesPoint is one day of the dense daily series.
type SeriesPoint struct {
	Day    time.Time `json:"day"`
	Clicks int64     `json:"clicks"`
}

// Stats is the read side of the click ledger. It never mutates anything.
type Stats struct {
	storage repository.Storage
	log     *zap.Logger
	now     func() time.Time
}

// NewStats creates the aggregation service.
func NewStats(storage repository.Storage, log *zap.Logger) *Stats {
	return &Stats{
		storage: storage,
		log:     log,
		now:     time.Now,
	}
}

// TopClicks returns up to limit entities ranked by clicks summed over an
// inclusive trailing window of windowDays days ending today. Entities
// with no clicks in the window are excluded; entities deleted since
// their clicks were recorded are silently dropped.
func (s *Stats) TopClicks(ctx context.Context, kind domain.EntityKind, windowDays, limit int) ([]ClickLeader, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	if windowDays < 1 {
		windowDays = 1
	}

	// One "today" snapshot per call; all window math derives from it.
	today := timeutil.StartOfDay(s.now())
	since := timeutil.DaysAgo(today, windowDays-1)

	sums, err := s.storage.SumClicksByEntity(ctx, kind, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top clicks: %w", err)
	}
	if len(sums) == 0 {
		return []ClickLeader{}, nil
	}

	labels, err := s.lookupLabels(ctx, kind, sums)
	if err != nil {
		return nil, err
	}

	leaders := make([]ClickLeader, 0, len(sums))
	for _, sum := range sums {
		label, ok := labels[sum.EntityID]
		if !ok {
			// Ledger rows for a deleted entity; skip rather than show an
			// unlabeled row.
			s.log.Debug("dropping aggregate for missing entity",
				zap.String("kind", string(kind)), zap.Int64("entity_id", sum.EntityID))
			continue
		}
		if sum.Total <= 0 {
			continue
		}
		leaders = append(leaders, ClickLeader{
			EntityID: sum.EntityID,
			Label:    label.name,
			Badge:    label.badge,
			Clicks:   sum.Total,
		})
	}

	return leaders, nil
}

// DailySeries returns exactly windowDays points, one per calendar day
// ending today, in ascending order. Days without clicks appear with a
// zero count so the chart axis never has gaps.
func (s *Stats) DailySeries(ctx context.Context, kind domain.EntityKind, windowDays int) ([]SeriesPoint, error) {
	if windowDays < 1 {
		windowDays = 1
	}

	today := timeutil.StartOfDay(s.now())
	since := timeutil.DaysAgo(today, windowDays-1)

	rows, err := s.storage.SumClicksByDay(ctx, kind, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily series: %w", err)
	}

	byDay := make(map[time.Time]int64, len(rows))
	for _, row := range rows {
		// Re-normalize in case the driver returned the date column with
		// an offset attached.
		byDay[timeutil.StartOfDay(row.Day)] += row.Total
	}

	series := make([]SeriesPoint, 0, windowDays)
	for offset := windowDays - 1; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)
		series = append(series, SeriesPoint{Day: day, Clicks: byDay[day]})
	}

	return series, nil
}

type entityLabel struct {
	name  string
	badge string
}

func (s *Stats) lookupLabels(ctx context.Context, kind domain.EntityKind, sums []repository.EntityClickSum) (map[int64]entityLabel, error) {
	ids := make([]int64, 0, len(sums))
	for _, sum := range sums {
		ids = append(ids, sum.EntityID)
	}

	labels := make(map[int64]entityLabel, len(ids))
	switch kind {
	case domain.KindPartner:
		partners, err := s.storage.PartnersByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to look up partner labels: %w", err)
		}
		for _, p := range partners {
			badge := ""
			if p.Category != nil {
				badge = p.Category.Name
			}
			labels[p.ID] = entityLabel{name: p.Name, badge: badge}
		}
	case domain.KindProduct:
		products, err := s.storage.ProductsByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to look up product labels: %w", err)
		}
		for _, p := range products {
			badge := p.Platform
			if p.ProductCategory != nil && p.ProductCategory.Name != "" {
				badge = p.ProductCategory.Name
			}
			labels[p.ID] = entityLabel{name: p.Name, badge: badge}
		}
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}

	return labels, nil
}
