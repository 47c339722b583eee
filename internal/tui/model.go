// Package tui is the terminal rendition of the dispatch board. Technician rows
// run down the screen and the 24 hours of the day run across it; cards are
// dragged with the mouse and written back through the placement reconciler.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"dispatchboard/internal/dispatch"
	"dispatchboard/internal/grid"
	"dispatchboard/internal/shift"
	"dispatchboard/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultCellsPerHour    = 4
	defaultRefreshInterval = 15 * time.Second
	defaultRequestTimeout  = 10 * time.Second

	nameWidth  = 16
	headerRows = 2
)

// Feed loads the three independent inputs of a board.
type Feed interface {
	Technicians(ctx context.Context) ([]store.Technician, error)
	Shifts(ctx context.Context, date string) ([]store.Shift, error)
	Jobs(ctx context.Context, date string) ([]store.Job, error)
}

// Option customizes a Model.
type Option func(*Model)

// WithLogger sets where reconciler failures are logged. The terminal is owned
// by the board, so the default discards them.
func WithLogger(log *slog.Logger) Option {
	return func(m *Model) {
		if log != nil {
			m.logger = log
		}
	}
}

// WithCellsPerHour sets the horizontal zoom.
func WithCellsPerHour(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.cellsPerHour = n
		}
	}
}

// WithRefreshInterval sets how often the feeds are reloaded.
func WithRefreshInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.refresh = d
		}
	}
}

// WithContext sets the parent context of feed loads and placement writes.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

type techniciansMsg struct {
	techs []store.Technician
	err   error
}

type shiftsMsg struct {
	date   string
	shifts []store.Shift
	err    error
}

type jobsMsg struct {
	date string
	jobs []store.Job
	err  error
}

type refreshTickMsg struct{}

type placementMsg struct {
	tx *dispatch.Transaction
}

// Model is the bubbletea model of the board.
type Model struct {
	ctx          context.Context
	feed         Feed
	writer       dispatch.PlacementWriter
	logger       *slog.Logger
	cellsPerHour int
	refresh      time.Duration

	board      *dispatch.Board
	layout     *dispatch.Layout
	controller *dispatch.Controller
	reconciler *dispatch.Reconciler

	preview    dispatch.Preview
	hasPreview bool
	// pending is the landing spot of a placement being written.
	pending  *dispatch.Preview
	awaiting *dispatch.Transaction
	inflight int

	keys     keyMap
	help     help.Model
	status   string
	err      string
	width    int
	height   int
	quitting bool
}

// New creates a board for date, reading from feed and writing through writer.
func New(feed Feed, writer dispatch.PlacementWriter, date string, opts ...Option) *Model {
	m := &Model{
		ctx:          context.Background(),
		feed:         feed,
		writer:       writer,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		cellsPerHour: defaultCellsPerHour,
		refresh:      defaultRefreshInterval,
		keys:         defaultKeyMap(),
		help:         help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.layout = dispatch.NewLayout(grid.Timeline{PixelsPerHour: m.cellsPerHour}, nameWidth)
	m.controller = dispatch.NewController(m.layout)
	m.setDate(date)
	return m
}

// Board exposes the board state, mostly for tests.
func (m *Model) Board() *dispatch.Board {
	return m.board
}

func (m *Model) setDate(date string) {
	m.board = dispatch.NewBoard(date)
	m.reconciler = dispatch.NewReconciler(m.board, m.writer, m.logger)
	m.layout.Reset()
	m.controller.Abort()
	m.hasPreview = false
	m.pending = nil
}

// Init loads the board and starts the refresh timer.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.scheduleRefresh())
}

// load fetches the three feeds independently; each lands on its own.
func (m *Model) load() tea.Cmd {
	return tea.Batch(m.loadTechnicians(), m.loadShifts(), m.loadJobs())
}

func (m *Model) loadTechnicians() tea.Cmd {
	ctx, feed := m.ctx, m.feed
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
		defer cancel()
		techs, err := feed.Technicians(ctx)
		return techniciansMsg{techs: techs, err: err}
	}
}

func (m *Model) loadShifts() tea.Cmd {
	ctx, feed, date := m.ctx, m.feed, m.board.Date()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
		defer cancel()
		shifts, err := feed.Shifts(ctx, date)
		return shiftsMsg{date: date, shifts: shifts, err: err}
	}
}

func (m *Model) loadJobs() tea.Cmd {
	ctx, feed, date := m.ctx, m.feed, m.board.Date()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
		defer cancel()
		jobs, err := feed.Jobs(ctx, date)
		return jobsMsg{date: date, jobs: jobs, err: err}
	}
}

func (m *Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// busy reports whether a local edit could be clobbered by a reload.
func (m *Model) busy() bool {
	_, dragging := m.controller.Active()
	return dragging || m.awaiting != nil || m.inflight > 0
}

// Update is called when a message is received.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case refreshTickMsg:
		if m.busy() {
			return m, m.scheduleRefresh()
		}
		return m, tea.Batch(m.load(), m.scheduleRefresh())

	case techniciansMsg:
		if msg.err != nil {
			m.err = "technicians: " + msg.err.Error()
			return m, nil
		}
		m.board.SetTechnicians(msg.techs)
		return m, nil

	case shiftsMsg:
		if msg.date != m.board.Date() {
			return m, nil
		}
		if msg.err != nil {
			m.err = "shifts: " + msg.err.Error()
			return m, nil
		}
		m.board.SetShifts(msg.shifts)
		return m, nil

	case jobsMsg:
		if msg.date != m.board.Date() {
			return m, nil
		}
		if msg.err != nil {
			m.err = "jobs: " + msg.err.Error()
			return m, nil
		}
		if m.inflight > 0 || m.awaiting != nil {
			// The reload raced a placement; the next tick picks it up.
			return m, nil
		}
		m.board.SetJobs(msg.jobs)
		return m, nil

	case placementMsg:
		return m, m.handlePlacement(msg.tx)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		if m.awaiting == nil {
			return m, nil
		}
		tx := m.awaiting
		m.awaiting = nil
		m.status = "Assigning outside shift..."
		return m, m.confirm(tx)

	case key.Matches(msg, m.keys.Cancel):
		if m.awaiting != nil {
			if err := m.reconciler.Cancel(m.awaiting); err != nil {
				m.err = err.Error()
			}
			m.awaiting = nil
			m.pending = nil
			m.status = "Placement cancelled"
			return m, nil
		}
		if _, ok := m.controller.Abort(); ok {
			m.hasPreview = false
			m.status = "Drag cancelled"
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.busy() {
			return m, nil
		}
		m.status = "Refreshing..."
		return m, m.load()

	case key.Matches(msg, m.keys.PrevDay):
		return m, m.shiftDay(-1)

	case key.Matches(msg, m.keys.NextDay):
		return m, m.shiftDay(1)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

func (m *Model) shiftDay(days int) tea.Cmd {
	if m.busy() {
		return nil
	}
	d, err := shift.ParseDate(m.board.Date())
	if err != nil {
		m.err = err.Error()
		return nil
	}
	m.setDate(d.AddDate(0, 0, days).Format(shift.DateLayout))
	m.status = ""
	return m.load()
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	p := dispatch.Point{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.awaiting != nil || m.inflight > 0 {
			return nil
		}
		hit, kind, ok := m.frame().hitAt(msg.X, msg.Y)
		if !ok {
			return nil
		}
		origin := dispatch.Point{X: float64(hit.x), Y: float64(hit.y)}
		if err := m.controller.Start(hit.job, hit.instance, kind, p, origin); err != nil {
			m.err = err.Error()
			return nil
		}
		m.err = ""
		m.status = fmt.Sprintf("%s %s", kindLabel(kind), hit.job.Number)
		return nil

	case tea.MouseActionMotion:
		m.preview, m.hasPreview = m.controller.Move(p)
		return nil

	case tea.MouseActionRelease:
		out, err := m.controller.End(p)
		m.hasPreview = false
		if errors.Is(err, dispatch.ErrNoInteraction) {
			return nil
		}
		if out.Cancelled() {
			m.status = "Dropped outside the board, nothing changed"
			return nil
		}
		return m.submit(*out.Proposal)
	}
	return nil
}

func (m *Model) submit(p dispatch.Proposal) tea.Cmd {
	a := p.Appointment()
	m.pending = &dispatch.Preview{TechnicianID: a.TechnicianID, StartTime: a.StartTime, EndTime: a.EndTime}
	m.inflight++
	m.status = "Saving " + p.Updated.Number + "..."

	ctx, r := m.ctx, m.reconciler
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
		defer cancel()
		return placementMsg{tx: r.Submit(ctx, p)}
	}
}

func (m *Model) confirm(tx *dispatch.Transaction) tea.Cmd {
	m.inflight++
	ctx, r := m.ctx, m.reconciler
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
		defer cancel()
		_ = r.Confirm(ctx, tx)
		return placementMsg{tx: tx}
	}
}

func (m *Model) handlePlacement(tx *dispatch.Transaction) tea.Cmd {
	m.inflight--
	job := tx.Proposed()

	switch tx.State() {
	case dispatch.TxAwaitingConfirmation:
		m.awaiting = tx
		m.status = ""
		return nil

	case dispatch.TxCommitted:
		m.pending = nil
		m.err = ""
		m.status = fmt.Sprintf("Saved %s (v%d)", job.Number, job.Version)
		return nil

	case dispatch.TxRolledBack:
		m.pending = nil
		m.status = ""
		if errors.Is(tx.Err(), store.ErrVersionConflict) {
			m.err = fmt.Sprintf("%s was changed by someone else, reloading", job.Number)
			return m.loadJobs()
		}
		m.err = fmt.Sprintf("Could not save %s, reverted: %v", job.Number, tx.Err())
		return nil
	}
	return nil
}

func kindLabel(k dispatch.Kind) string {
	switch k {
	case dispatch.KindResizeLeft, dispatch.KindResizeRight:
		return "Resizing"
	}
	return "Moving"
}

// technicianName resolves a technician for prompts.
func (m *Model) technicianName(id string) string {
	for _, t := range m.board.Technicians() {
		if t.ID.String() == id {
			return t.Name
		}
	}
	return id
}

// minutesToCells converts a clock time to a column offset on the timeline.
func (m *Model) minutesToCells(clock string) int {
	mins := min(max(grid.TimeToMinutes(clock), 0), grid.MinutesPerDay)
	return int(m.layout.Timeline().MinutesToPixels(mins))
}
