package query

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SpectrumLiveTable holds the current month's spectra; older months are
// archived into plg_onto_spectrum_y<yyyy>m<mm> partitions.
const SpectrumLiveTable = "plg_onto_spectrum"

// SpectrumPartition picks the physical spectrum table for a scan time.
// Pure function of (ts, now) so the routing rule is testable.
func SpectrumPartition(ts, now time.Time) string {
	if ts.Year() == now.Year() && ts.Month() == now.Month() {
		return SpectrumLiveTable
	}
	return fmt.Sprintf("%s_y%04dm%02d", SpectrumLiveTable, ts.Year(), int(ts.Month()))
}

// PartitionExists checks the catalog before querying a monthly partition,
// so a missing month surfaces as "no data" instead of a database error.
func PartitionExists(ctx context.Context, db *gorm.DB, table string) (bool, error) {
	var exists bool
	err := db.WithContext(ctx).Raw(
		`SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = ?
		)`, table).Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists, nil
}
