package projections

import (
	"context"
	"log/slog"
	"time"

	"swingadmin/internal/domain/message"
)

// DashboardMessageStore defines the message store interface needed by the dashboard projection.
type DashboardMessageStore interface {
	ListAll(ctx context.Context) ([]message.InAppMessage, error)
}

// DashboardMetricsStore defines the metrics store interface needed by the dashboard projection.
type DashboardMetricsStore interface {
	CountProfiles(ctx context.Context) (int, error)
	CountAnalyses(ctx context.Context) (int, error)
	CountMarketingConsent(ctx context.Context) (int, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Now time.Time // reference time for "upcoming"; zero means time.Now()
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	MessageStore DashboardMessageStore
	MetricsStore DashboardMetricsStore
}

// MessageStats aggregates the message list for the dashboard tiles.
type MessageStats struct {
	Total       int
	Active      int
	Targeted    int
	Upcoming    int
	LastTitle   string
	LastUpdated time.Time
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Messages         MessageStats
	TotalUsers       int
	TotalAnalyses    int
	MarketingConsent int
}

// QueryGetDashboard aggregates message and user counts for the admin
// dashboard. Each source is queried independently; a failing source
// contributes zeros instead of failing the whole page.
// PRE: deps stores are initialized
// POST: Result populated; partial failures logged, never returned
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}

	var result DashboardResult

	msgs, err := deps.MessageStore.ListAll(ctx)
	if err != nil {
		slog.Error("dashboard_source_failed", "source", "messages", "error", err.Error())
	} else {
		result.Messages = summarizeMessages(msgs, now)
	}

	if n, err := deps.MetricsStore.CountProfiles(ctx); err != nil {
		slog.Error("dashboard_source_failed", "source", "profiles", "error", err.Error())
	} else {
		result.TotalUsers = n
	}

	if n, err := deps.MetricsStore.CountAnalyses(ctx); err != nil {
		slog.Error("dashboard_source_failed", "source", "analyses", "error", err.Error())
	} else {
		result.TotalAnalyses = n
	}

	if n, err := deps.MetricsStore.CountMarketingConsent(ctx); err != nil {
		slog.Error("dashboard_source_failed", "source", "marketing_consent", "error", err.Error())
	} else {
		result.MarketingConsent = n
	}

	return result, nil
}

// summarizeMessages folds the message list into dashboard counters.
func summarizeMessages(msgs []message.InAppMessage, now time.Time) MessageStats {
	stats := MessageStats{Total: len(msgs)}
	for i := range msgs {
		m := &msgs[i]
		if m.IsActive {
			stats.Active++
		}
		if m.IsTargeted() {
			stats.Targeted++
		}
		if m.IsUpcoming(now) {
			stats.Upcoming++
		}
		if m.UpdatedAt.After(stats.LastUpdated) {
			stats.LastUpdated = m.UpdatedAt
			stats.LastTitle = m.Title
		}
	}
	return stats
}
