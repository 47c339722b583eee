package shift

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatchboard/internal/grid"
	"dispatchboard/internal/store"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used for shifts and jobs.
const DateLayout = "2006-01-02"

// MaxExpandDays bounds a single bulk creation.
const MaxExpandDays = 366

var (
	ErrInvalidRange = errors.New("end date is before start date")
	ErrRangeTooLong = fmt.Errorf("date range exceeds %d days", MaxExpandDays)
	ErrInvalidTimes = errors.New("shift must end after it starts")
	ErrNoStaff      = errors.New("at least one staff member is required")
)

// ExpandRequest describes a recurring schedule as entered on the shift form.
type ExpandRequest struct {
	TenantID  uuid.UUID
	StaffIDs  []uuid.UUID
	StartDate string
	EndDate   string
	// Weekdays restricts the days materialised. Empty means every day.
	Weekdays  []time.Weekday
	StartTime string
	EndTime   string
	Type      store.ShiftType
}

// Expand materialises one Shift per staff member per selected day in the
// inclusive date range. Shifts are never resolved from a recurrence at query time.
func Expand(req ExpandRequest, now time.Time) ([]store.Shift, error) {
	if len(req.StaffIDs) == 0 {
		return nil, ErrNoStaff
	}

	from, err := ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	to, err := ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	if to.Sub(from) >= MaxExpandDays*24*time.Hour {
		return nil, ErrRangeTooLong
	}

	startMin, okStart := grid.ParseTime(req.StartTime)
	endMin, okEnd := grid.ParseTime(req.EndTime)
	if !okStart || !okEnd || endMin <= startMin {
		return nil, ErrInvalidTimes
	}

	shiftType := req.Type
	if shiftType == "" {
		shiftType = store.ShiftTypeRegular
	}

	days := make(map[time.Weekday]bool, len(req.Weekdays))
	for _, d := range req.Weekdays {
		days[d] = true
	}

	var shifts []store.Shift
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if len(days) > 0 && !days[day.Weekday()] {
			continue
		}
		date := day.Format(DateLayout)
		for _, staff := range req.StaffIDs {
			shifts = append(shifts, store.Shift{
				ID:        uuid.New(),
				TenantID:  req.TenantID,
				StaffID:   staff,
				Date:      date,
				StartTime: req.StartTime,
				EndTime:   req.EndTime,
				Type:      shiftType,
				CreatedAt: now,
			})
		}
	}

	return shifts, nil
}

// ParseWeekday accepts English day names ("monday") or their three-letter prefix ("mon").
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if strings.EqualFold(s, name) || (len(s) == 3 && strings.EqualFold(s, name[:3])) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
