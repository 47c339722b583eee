package dispatch

import (
	"fmt"
	"sort"
	"sync"

	"dispatchboard/internal/grid"
	"dispatchboard/internal/shift"
	"dispatchboard/internal/store"

	"github.com/google/uuid"
)

// Instance is one rendered card of a job: the job's appointment at Index.
// Instances are a projection of the job and are never stored.
type Instance struct {
	JobID       uuid.UUID
	Index       int
	Appointment store.Appointment
}

// Key identifies the instance among all cards on the board.
func (i Instance) Key() string {
	return fmt.Sprintf("%s#%d", i.JobID, i.Index)
}

// Instances projects a job onto one card per appointment.
func Instances(job store.Job) []Instance {
	slots := job.Slots()
	out := make([]Instance, 0, len(slots))
	for i, a := range slots {
		out = append(out, Instance{JobID: job.ID, Index: i, Appointment: a})
	}
	return out
}

// Card is an instance placed on a row.
type Card struct {
	Instance
	Job   store.Job
	Level int
}

// Row is everything the renderer needs for one technician.
type Row struct {
	Technician store.Technician
	Cards      []Card
	Levels     int
	Bands      [grid.HoursPerDay]bool
}

// Board holds the jobs, technicians and shifts of one date. The three feeds
// are set independently and may arrive in any order.
type Board struct {
	mu          sync.RWMutex
	date        string
	technicians []store.Technician
	shifts      *shift.Index
	jobs        []store.Job
}

// NewBoard creates an empty board for date (YYYY-MM-DD).
func NewBoard(date string) *Board {
	return &Board{date: date, shifts: shift.NewIndex(nil)}
}

// Date returns the calendar date the board shows.
func (b *Board) Date() string {
	return b.date
}

// SetTechnicians replaces the technician feed.
func (b *Board) SetTechnicians(techs []store.Technician) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.technicians = append([]store.Technician(nil), techs...)
}

// SetShifts replaces the shift feed.
func (b *Board) SetShifts(shifts []store.Shift) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shifts = shift.NewIndex(shifts)
}

// SetJobs replaces the job feed. Jobs of other dates and cancelled jobs are dropped.
func (b *Board) SetJobs(jobs []store.Job) {
	kept := make([]store.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Date != b.date || j.Status == store.JobStatusCancelled {
			continue
		}
		kept = append(kept, j.Clone())
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.jobs = kept
}

// Technicians returns the current technician feed.
func (b *Board) Technicians() []store.Technician {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]store.Technician(nil), b.technicians...)
}

// Shifts returns the shift index of the board date.
func (b *Board) Shifts() *shift.Index {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.shifts
}

// Jobs returns deep copies of every job on the board.
func (b *Board) Jobs() []store.Job {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]store.Job, len(b.jobs))
	for i, j := range b.jobs {
		out[i] = j.Clone()
	}
	return out
}

// Job returns a copy of the job with the given id.
func (b *Board) Job(id uuid.UUID) (store.Job, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, j := range b.jobs {
		if j.ID == id {
			return j.Clone(), true
		}
	}
	return store.Job{}, false
}

// Replace swaps in a new version of a job, appending it if the feed dropped it meanwhile.
func (b *Board) Replace(job store.Job) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, j := range b.jobs {
		if j.ID == job.ID {
			b.jobs[i] = job.Clone()
			return
		}
	}
	b.jobs = append(b.jobs, job.Clone())
}

// Rows lays out the board: one row per technician with its cards stacked by level.
// Cards whose technician is not in the feed are not shown.
func (b *Board) Rows() []Row {
	b.mu.RLock()
	defer b.mu.RUnlock()

	byTech := make(map[uuid.UUID][]Card, len(b.technicians))
	for _, tech := range b.technicians {
		byTech[tech.ID] = nil
	}
	for _, j := range b.jobs {
		for _, inst := range Instances(j) {
			if _, ok := byTech[inst.Appointment.TechnicianID]; !ok {
				continue
			}
			byTech[inst.Appointment.TechnicianID] = append(byTech[inst.Appointment.TechnicianID], Card{Instance: inst, Job: j.Clone()})
		}
	}

	rows := make([]Row, 0, len(b.technicians))
	for _, tech := range b.technicians {
		cards := byTech[tech.ID]

		spans := make([]grid.Span, len(cards))
		for i, c := range cards {
			spans[i] = grid.Span{
				Key:   c.Key(),
				Start: grid.TimeToMinutes(c.Appointment.StartTime),
				End:   grid.TimeToMinutes(c.Appointment.EndTime),
			}
		}
		stacking := grid.ComputeStackingLevels(spans)
		for i := range cards {
			cards[i].Level = stacking.Levels[cards[i].Key()]
		}
		sort.SliceStable(cards, func(i, j int) bool {
			return grid.TimeToMinutes(cards[i].Appointment.StartTime) < grid.TimeToMinutes(cards[j].Appointment.StartTime)
		})

		rows = append(rows, Row{
			Technician: tech,
			Cards:      cards,
			Levels:     stacking.Count,
			Bands:      b.shifts.Bands(tech.ID, b.date),
		})
	}
	return rows
}
