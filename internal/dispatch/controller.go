package dispatch

import (
	"errors"

	"dispatchboard/internal/grid"
	"dispatchboard/internal/store"

	"github.com/google/uuid"
)

// Kind is the type of pointer interaction on a card.
type Kind string

const (
	KindMove        Kind = "move"
	KindResizeLeft  Kind = "resize-left"
	KindResizeRight Kind = "resize-right"
)

// MinDurationMinutes is the shortest appointment a resize can produce.
const MinDurationMinutes = 15

// lastMinute is the latest clock time an appointment may end at. Slots never
// wrap into the next day.
const lastMinute = grid.MinutesPerDay - 1

var (
	ErrInteractionActive  = errors.New("another interaction is in progress")
	ErrNoInteraction      = errors.New("no interaction in progress")
	ErrUnknownKind        = errors.New("unknown interaction kind")
	ErrInstanceOutOfRange = errors.New("job has no such appointment")
)

// DragState is the transient state of one interaction, from pointer-down to pointer-up.
type DragState struct {
	Kind     Kind
	Original store.Job
	Instance int
	// Offset is the pointer position relative to the card's top-left corner.
	Offset   Point
	Duration int
	Pointer  Point
	Hover    Target
	Hovering bool
}

// Preview is where the dragged card would land if released now.
type Preview struct {
	TechnicianID uuid.UUID
	StartTime    string
	EndTime      string
}

// Proposal is a finished interaction waiting to be reconciled.
type Proposal struct {
	Kind     Kind
	Instance int
	Original store.Job
	Updated  store.Job
}

// Appointment returns the slot the interaction changed.
func (p Proposal) Appointment() store.Appointment {
	return p.Updated.Slots()[p.Instance]
}

// Outcome is the result of releasing the pointer. Proposal is nil when the
// drop missed the grid, in which case Original is the untouched snapshot.
type Outcome struct {
	Proposal *Proposal
	Original store.Job
}

// Cancelled reports whether the release discarded the interaction.
func (o Outcome) Cancelled() bool {
	return o.Proposal == nil
}

// Controller tracks at most one drag or resize at a time.
// It never touches the board; the reconciler applies its proposals.
type Controller struct {
	layout *Layout
	state  *DragState
}

// NewController creates a controller that hit-tests against layout.
func NewController(layout *Layout) *Controller {
	return &Controller{layout: layout}
}

// Start begins an interaction on the instance-th card of job. cardOrigin is the
// top-left corner of the card at pointer-down.
func (c *Controller) Start(job store.Job, instance int, kind Kind, pointer, cardOrigin Point) error {
	if c.state != nil {
		return ErrInteractionActive
	}
	switch kind {
	case KindMove, KindResizeLeft, KindResizeRight:
	default:
		return ErrUnknownKind
	}

	slot, ok := slotAt(job, instance, kind)
	if !ok {
		return ErrInstanceOutOfRange
	}

	duration := grid.Duration(slot.StartTime, slot.EndTime)
	if duration <= 0 {
		duration = grid.MinutesPerHour
	}

	c.state = &DragState{
		Kind:     kind,
		Original: job.Clone(),
		Instance: instance,
		Offset:   Point{X: pointer.X - cardOrigin.X, Y: pointer.Y - cardOrigin.Y},
		Duration: duration,
		Pointer:  pointer,
	}
	c.hover(pointer)
	return nil
}

// Active returns a copy of the current interaction state.
func (c *Controller) Active() (DragState, bool) {
	if c.state == nil {
		return DragState{}, false
	}
	s := *c.state
	s.Original = c.state.Original.Clone()
	return s, true
}

// Move records a new pointer position. It returns the live preview when the
// pointer is over a drop target.
func (c *Controller) Move(pointer Point) (Preview, bool) {
	if c.state == nil {
		return Preview{}, false
	}
	c.state.Pointer = pointer
	if !c.hover(pointer) {
		return Preview{}, false
	}
	updated := c.propose(c.state.Hover)
	a := updated.Slots()[c.state.Instance]
	return Preview{TechnicianID: a.TechnicianID, StartTime: a.StartTime, EndTime: a.EndTime}, true
}

// End finishes the interaction at pointer and clears the controller.
func (c *Controller) End(pointer Point) (Outcome, error) {
	if c.state == nil {
		return Outcome{}, ErrNoInteraction
	}
	defer func() { c.state = nil }()

	c.state.Pointer = pointer
	original := c.state.Original.Clone()
	if !c.hover(pointer) {
		return Outcome{Original: original}, nil
	}

	return Outcome{
		Original: original,
		Proposal: &Proposal{
			Kind:     c.state.Kind,
			Instance: c.state.Instance,
			Original: original,
			Updated:  c.propose(c.state.Hover),
		},
	}, nil
}

// Abort drops the interaction without a proposal, e.g. when the board goes away mid-drag.
func (c *Controller) Abort() (store.Job, bool) {
	if c.state == nil {
		return store.Job{}, false
	}
	original := c.state.Original
	c.state = nil
	return original, true
}

func (c *Controller) hover(p Point) bool {
	target, ok := c.layout.HitTest(p)
	c.state.Hover = target
	c.state.Hovering = ok
	return ok
}

// propose rebuilds the job's appointments with only the dragged slot changed.
func (c *Controller) propose(target Target) store.Job {
	s := c.state
	slots := append([]store.Appointment(nil), s.Original.Slots()...)
	if len(slots) == 0 {
		// Unassigned job being dropped onto the board.
		slots = []store.Appointment{{StartTime: s.Original.StartTime, EndTime: s.Original.EndTime}}
	}
	slot := slots[s.Instance]

	switch s.Kind {
	case KindMove:
		start := target.Hour * grid.MinutesPerHour
		slot = store.Appointment{
			TechnicianID: target.TechnicianID,
			StartTime:    grid.MinutesToTime(start),
			EndTime:      grid.MinutesToTime(min(start+s.Duration, lastMinute)),
		}
	case KindResizeLeft:
		end := grid.TimeToMinutes(slot.EndTime)
		start := min(target.Hour*grid.MinutesPerHour, end-MinDurationMinutes)
		slot.StartTime = grid.MinutesToTime(start)
	case KindResizeRight:
		start := grid.TimeToMinutes(slot.StartTime)
		end := max((target.Hour+1)*grid.MinutesPerHour, start+MinDurationMinutes)
		slot.EndTime = grid.MinutesToTime(min(end, lastMinute))
	}

	slots[s.Instance] = slot
	return s.Original.WithAppointments(slots)
}

func slotAt(job store.Job, instance int, kind Kind) (store.Appointment, bool) {
	slots := job.Slots()
	if len(slots) == 0 && instance == 0 && kind == KindMove {
		return store.Appointment{StartTime: job.StartTime, EndTime: job.EndTime}, true
	}
	if instance < 0 || instance >= len(slots) {
		return store.Appointment{}, false
	}
	return slots[instance], true
}
