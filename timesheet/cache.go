package timesheet

import (
	"sort"
	"strings"
	"sync"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

// =============================================================================
// REPORT CACHE - Memoized aggregation
// =============================================================================

// ReportCache memoizes aggregated report rows keyed by (employee set,
// range). Any entry, absence or lateness write must invalidate it; the
// Tracker does this on every mutation, and the HTTP layer does it after
// schedule writes.
type ReportCache struct {
	mu   sync.RWMutex
	rows map[string][]HourReportRow
}

func NewReportCache() *ReportCache {
	return &ReportCache{rows: make(map[string][]HourReportRow)}
}

// Lookup returns the cached rows for the key, if present. The returned
// slice is a copy; callers may mutate it freely.
func (c *ReportCache) Lookup(employees []roster.EmployeeID, from, to roster.Day) ([]HourReportRow, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, ok := c.rows[reportKey(employees, from, to)]
	if !ok {
		return nil, false
	}
	out := make([]HourReportRow, len(rows))
	copy(out, rows)
	return out, true
}

// Store caches rows for the key, replacing any previous value.
func (c *ReportCache) Store(employees []roster.EmployeeID, from, to roster.Day, rows []HourReportRow) {
	kept := make([]HourReportRow, len(rows))
	copy(kept, rows)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[reportKey(employees, from, to)] = kept
}

// Invalidate drops every cached report.
func (c *ReportCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = make(map[string][]HourReportRow)
}

// Len returns the number of cached reports.
func (c *ReportCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}

// reportKey builds a stable key from the employee set and range. The set
// is sorted so caller ordering does not split the cache.
func reportKey(employees []roster.EmployeeID, from, to roster.Day) string {
	ids := make([]string, len(employees))
	for i, id := range employees {
		ids[i] = string(id)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",") + "|" + from.String() + ".." + to.String()
}
