package metrics

import "context"

// Store exposes the read-only aggregate counts shown on the dashboard.
type Store interface {
	CountProfiles(ctx context.Context) (int, error)
	CountAnalyses(ctx context.Context) (int, error)
	CountMarketingConsent(ctx context.Context) (int, error)
}
