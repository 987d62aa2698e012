// ABOUTME: Data migration between training log databases.
// ABOUTME: Replays sessions, sets and media from a source store into a destination store.
package storage

import (
	"context"
	"fmt"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Sessions int
	Sets     int
	Media    int
}

// MigrateData copies all data from src to dst. Body parts and exercises
// are matched by name in dst, so seeded defaults are not duplicated.
// Sessions that already exist in dst by date receive the sets appended.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	data, err := src.GetAllData(ctx)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	if err := dst.ImportData(ctx, data); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	summary := &MigrateSummary{Sessions: len(data.Sessions)}
	for _, s := range data.Sessions {
		summary.Sets += len(s.Sets)
		summary.Media += len(s.Media)
	}
	return summary, nil
}
