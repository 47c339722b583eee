// Package shift answers whether a technician is on duty at a given time of day.
package shift

import (
	"dispatchboard/internal/grid"
	"dispatchboard/internal/store"

	"github.com/google/uuid"
)

type key struct {
	staff uuid.UUID
	date  string
}

// Index is a lookup table of materialised shifts keyed by (staff, date).
// It is immutable after construction.
type Index struct {
	byKey map[key]store.Shift
}

// NewIndex builds an index over shifts. When a (staff, date) pair appears more
// than once the first record wins.
func NewIndex(shifts []store.Shift) *Index {
	idx := &Index{byKey: make(map[key]store.Shift, len(shifts))}
	for _, s := range shifts {
		k := key{staff: s.StaffID, date: s.Date}
		if _, dup := idx.byKey[k]; dup {
			continue
		}
		idx.byKey[k] = s
	}
	return idx
}

// Find returns the shift for an exact (technician, date) match.
func (idx *Index) Find(techID uuid.UUID, date string) (store.Shift, bool) {
	if idx == nil {
		return store.Shift{}, false
	}
	s, ok := idx.byKey[key{staff: techID, date: date}]
	return s, ok
}

// window returns the on-duty window of a working shift in minutes.
func (idx *Index) window(techID uuid.UUID, date string) (start, end int, ok bool) {
	s, found := idx.Find(techID, date)
	if !found || s.Type == store.ShiftTypeTimeOff {
		return 0, 0, false
	}
	start, okStart := grid.ParseTime(s.StartTime)
	end, okEnd := grid.ParseTime(s.EndTime)
	if !okStart || !okEnd {
		return 0, 0, false
	}
	return start, end, true
}

// IsHourInShift reports whether [hour, hour+1) overlaps the technician's shift on date.
func (idx *Index) IsHourInShift(techID uuid.UUID, date string, hour int) bool {
	start, end, ok := idx.window(techID, date)
	if !ok {
		return false
	}
	hourStart := hour * grid.MinutesPerHour
	hourEnd := hourStart + grid.MinutesPerHour
	return hourStart < end && hourEnd > start
}

// Covers reports whether [startTime, endTime) lies entirely inside the technician's shift on date.
func (idx *Index) Covers(techID uuid.UUID, date, startTime, endTime string) bool {
	start, end, ok := idx.window(techID, date)
	if !ok {
		return false
	}
	from := grid.TimeToMinutes(startTime)
	to := grid.TimeToMinutes(endTime)
	return from >= start && to <= end
}

// Bands returns the on-duty flag of each of the 24 hour cells.
func (idx *Index) Bands(techID uuid.UUID, date string) [grid.HoursPerDay]bool {
	var bands [grid.HoursPerDay]bool
	for h := range bands {
		bands[h] = idx.IsHourInShift(techID, date, h)
	}
	return bands
}
