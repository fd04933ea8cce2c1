// Package dashboard computes read-only complaint statistics for the admin
// dashboard, with a Redis cache in front of the database aggregation.
package dashboard

import (
	"encoding/json"
	"log"

	"projectpulse/backend/internal/apperr"
	"projectpulse/backend/internal/config"
	"projectpulse/backend/internal/models"
	"projectpulse/backend/internal/storage"
)

// Stats is the aggregate snapshot served to the dashboard.
type Stats struct {
	Total              int64            `json:"total"`
	Open               int64            `json:"open"`
	ByStatus           map[string]int64 `json:"by_status"`
	ByCategory         map[string]int64 `json:"by_category"`
	ByPriority         map[string]int64 `json:"by_priority"`
	AvgResolutionHours float64          `json:"avg_resolution_hours"`
}

// Aggregator serves cached statistics. Cache failures fall through to the
// database and are logged, never surfaced.
type Aggregator struct {
	Storage storage.Storage
}

func NewAggregator(s storage.Storage) *Aggregator {
	return &Aggregator{Storage: s}
}

// Stats returns the current snapshot, from cache when fresh.
func (a *Aggregator) Stats() (*Stats, error) {
	if cached, err := a.Storage.CacheGet(config.StatsCacheKey); err != nil {
		log.Printf("ERROR: Failed to read stats cache: %v", err)
	} else if cached != "" {
		var st Stats
		if err := json.Unmarshal([]byte(cached), &st); err == nil {
			return &st, nil
		}
		log.Printf("ERROR: Stale stats cache entry could not be decoded, recomputing")
	}

	st, err := a.compute()
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(st); err == nil {
		if err := a.Storage.CacheSet(config.StatsCacheKey, string(raw), config.StatsCacheTTL); err != nil {
			log.Printf("ERROR: Failed to write stats cache: %v", err)
		}
	}
	return st, nil
}

func (a *Aggregator) compute() (*Stats, error) {
	total, err := a.Storage.CountComplaints()
	if err != nil {
		return nil, apperr.Storage(err, "count complaints")
	}
	byStatus, err := a.Storage.CountComplaintsGroupedBy("status")
	if err != nil {
		return nil, apperr.Storage(err, "group by status")
	}
	byCategory, err := a.Storage.CountComplaintsGroupedBy("category")
	if err != nil {
		return nil, apperr.Storage(err, "group by category")
	}
	byPriority, err := a.Storage.CountComplaintsGroupedBy("priority")
	if err != nil {
		return nil, apperr.Storage(err, "group by priority")
	}
	avg, err := a.Storage.AverageResolutionHours()
	if err != nil {
		return nil, apperr.Storage(err, "average resolution time")
	}

	return &Stats{
		Total:              total,
		Open:               byStatus[string(models.StatusPending)] + byStatus[string(models.StatusInProgress)],
		ByStatus:           byStatus,
		ByCategory:         byCategory,
		ByPriority:         byPriority,
		AvgResolutionHours: avg,
	}, nil
}
