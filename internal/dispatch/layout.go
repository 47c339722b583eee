// Package dispatch implements the interactive part of the dispatch board:
// the row geometry registry, the drag/resize controller, the in-memory board
// state and the placement reconciler that writes moves back to the store.
package dispatch

import (
	"sync"

	"dispatchboard/internal/grid"

	"github.com/google/uuid"
)

// Point is a pointer position in board coordinates.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned box in board coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether p is inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Target is the (technician row, hour cell) pair under the pointer.
type Target struct {
	TechnicianID uuid.UUID
	Hour         int
}

// Layout is the registry of technician row geometry. The renderer updates it
// whenever it lays the board out; the drag controller only reads it.
type Layout struct {
	mu       sync.RWMutex
	timeline grid.Timeline
	originX  float64
	rows     map[uuid.UUID]Rect
	order    []uuid.UUID
}

// NewLayout creates an empty registry. originX is where 00:00 sits on the x axis.
func NewLayout(timeline grid.Timeline, originX float64) *Layout {
	return &Layout{
		timeline: timeline,
		originX:  originX,
		rows:     make(map[uuid.UUID]Rect),
	}
}

// Timeline returns the scale the layout hit-tests with.
func (l *Layout) Timeline() grid.Timeline {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.timeline
}

// OriginX returns the x coordinate of midnight.
func (l *Layout) OriginX() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.originX
}

// SetOrigin moves the start of the timeline, e.g. after a horizontal scroll.
func (l *Layout) SetOrigin(x float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.originX = x
}

// SetRow records the bounding box of a technician's row.
func (l *Layout) SetRow(techID uuid.UUID, r Rect) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.rows[techID]; !ok {
		l.order = append(l.order, techID)
	}
	l.rows[techID] = r
}

// RemoveRow drops a technician's row from the registry.
func (l *Layout) RemoveRow(techID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.rows[techID]; !ok {
		return
	}
	delete(l.rows, techID)
	for i, id := range l.order {
		if id == techID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Reset forgets every row.
func (l *Layout) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = make(map[uuid.UUID]Rect)
	l.order = nil
}

// Row returns the registered geometry of a technician row.
func (l *Layout) Row(techID uuid.UUID) (Rect, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.rows[techID]
	return r, ok
}

// RowAt returns the technician whose row contains p.
func (l *Layout) RowAt(p Point) (uuid.UUID, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, id := range l.order {
		if l.rows[id].Contains(p) {
			return id, true
		}
	}
	return uuid.Nil, false
}

// HourAt returns the hour cell under p.
func (l *Layout) HourAt(p Point) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.timeline.HourAt(p.X - l.originX)
}

// HitTest resolves p to a drop target. Both a row and an hour cell must be hit.
func (l *Layout) HitTest(p Point) (Target, bool) {
	tech, ok := l.RowAt(p)
	if !ok {
		return Target{}, false
	}
	hour, ok := l.HourAt(p)
	if !ok {
		return Target{}, false
	}
	return Target{TechnicianID: tech, Hour: hour}, true
}
