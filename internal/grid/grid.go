// Package grid converts between clock times, minutes and timeline offsets
// on the 24-hour dispatch board, and stacks overlapping cards per row.
package grid

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// DefaultPixelsPerHour gives a 3840px wide day.
	DefaultPixelsPerHour = 160

	MinutesPerHour = 60
	HoursPerDay    = 24
	MinutesPerDay  = MinutesPerHour * HoursPerDay
)

// TimeToMinutes parses "HH:MM" into minutes since midnight.
// Malformed input yields 0 so callers never have to handle an error.
func TimeToMinutes(s string) int {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0
	}
	return h*MinutesPerHour + m
}

// ParseTime is the strict variant of TimeToMinutes.
// It reports false for anything that is not a valid "HH:MM" clock time.
func ParseTime(s string) (int, bool) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*MinutesPerHour + m, true
}

// MinutesToTime formats minutes since midnight as zero-padded "HH:MM".
// Values outside [0, 1440) are not wrapped.
func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/MinutesPerHour, minutes%MinutesPerHour)
}

// Duration returns end - start in minutes.
func Duration(start, end string) int {
	return TimeToMinutes(end) - TimeToMinutes(start)
}

// Span is one card on a technician row, in minutes since midnight.
type Span struct {
	Key   string
	Start int
	End   int
}

// Overlaps reports whether the half-open intervals [a.Start, a.End) and [b.Start, b.End) intersect.
func (a Span) Overlaps(b Span) bool {
	return a.Start < b.End && a.End > b.Start
}

// Stacking maps each span key to the level it is drawn on.
type Stacking struct {
	Levels map[string]int
	Count  int
}

// RowHeight is the height a row needs to show every level.
func (s Stacking) RowHeight(cardHeight int) int {
	return max(1, s.Count) * cardHeight
}

// ComputeStackingLevels assigns every span to the first level whose last span
// ends at or before it starts, opening a new level otherwise. Spans are taken
// in start order; equal starts keep their input order.
func ComputeStackingLevels(spans []Span) Stacking {
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	levelEnds := make([]int, 0, 4)
	levels := make(map[string]int, len(sorted))

	for _, sp := range sorted {
		placed := false
		for lvl, end := range levelEnds {
			if end <= sp.Start {
				levels[sp.Key] = lvl
				levelEnds[lvl] = sp.End
				placed = true
				break
			}
		}
		if !placed {
			levels[sp.Key] = len(levelEnds)
			levelEnds = append(levelEnds, sp.End)
		}
	}

	return Stacking{Levels: levels, Count: len(levelEnds)}
}

// Timeline maps minutes onto a horizontal axis with a fixed scale.
type Timeline struct {
	PixelsPerHour int
}

// DefaultTimeline is the browser-scale board timeline.
func DefaultTimeline() Timeline {
	return Timeline{PixelsPerHour: DefaultPixelsPerHour}
}

func (t Timeline) scale() int {
	if t.PixelsPerHour <= 0 {
		return DefaultPixelsPerHour
	}
	return t.PixelsPerHour
}

// Width is the length of the whole day.
func (t Timeline) Width() float64 {
	return float64(HoursPerDay * t.scale())
}

// MinutesToPixels converts a time offset into a position on the timeline.
func (t Timeline) MinutesToPixels(minutes int) float64 {
	return float64(minutes) / MinutesPerHour * float64(t.scale())
}

// PixelsToMinutes is the inverse of MinutesToPixels, truncated to whole minutes.
func (t Timeline) PixelsToMinutes(x float64) int {
	return int(x * MinutesPerHour / float64(t.scale()))
}

// HourAt returns the hour cell under x, measured from the start of the timeline.
func (t Timeline) HourAt(x float64) (int, bool) {
	if x < 0 || x >= t.Width() {
		return 0, false
	}
	return int(x) / t.scale(), true
}
