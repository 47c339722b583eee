package tui

import (
	"fmt"
	"strings"

	"dispatchboard/internal/dispatch"
	"dispatchboard/internal/grid"
	"dispatchboard/internal/store"

	"github.com/charmbracelet/lipgloss"
)

const trayLabel = "Unassigned  "

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	rulerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	nameStyle     = lipgloss.NewStyle().Bold(true)
	onShiftStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#1F3B2D"))
	offShiftStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	ghostStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD166")).Bold(true)
	chipStyle     = lipgloss.NewStyle().Background(lipgloss.Color("#6C757D")).Foreground(lipgloss.Color("#FFFFFF"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	promptStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFD166")).
			Padding(0, 1)
)

const defaultCardColor = "#5B8DEF"

// hitbox is a card or tray chip as laid out on screen.
type hitbox struct {
	job      store.Job
	instance int
	x, y, w  int
	tray     bool
}

type rowFrame struct {
	row    dispatch.Row
	y      int
	height int
}

// frame is one layout pass over the board.
type frame struct {
	rows  []rowFrame
	hits  []hitbox
	tray  []hitbox
	trayY int
}

// frame lays the board out and registers every row with the drag layout.
func (m *Model) frame() frame {
	var f frame
	timeline := m.layout.Timeline()
	rowWidth := float64(nameWidth) + timeline.Width()

	m.layout.Reset()
	y := headerRows
	for _, row := range m.board.Rows() {
		h := max(1, row.Levels)
		m.layout.SetRow(row.Technician.ID, dispatch.Rect{X: 0, Y: float64(y), Width: rowWidth, Height: float64(h)})
		f.rows = append(f.rows, rowFrame{row: row, y: y, height: h})

		for _, c := range row.Cards {
			x0 := m.minutesToCells(c.Appointment.StartTime)
			x1 := m.minutesToCells(c.Appointment.EndTime)
			f.hits = append(f.hits, hitbox{
				job:      c.Job,
				instance: c.Index,
				x:        nameWidth + x0,
				y:        y + c.Level,
				w:        max(1, x1-x0),
			})
		}
		y += h
	}

	f.trayY = y + 1
	x := len(trayLabel)
	for _, j := range m.board.Jobs() {
		if len(j.Slots()) > 0 {
			continue
		}
		w := len([]rune(chipText(j)))
		f.tray = append(f.tray, hitbox{job: j, x: x, y: f.trayY, w: w, tray: true})
		x += w + 1
	}
	return f
}

// hitAt finds the card under (x, y) and the interaction its edge implies.
// Later cards win, matching paint order.
func (f frame) hitAt(x, y int) (hitbox, dispatch.Kind, bool) {
	for i := len(f.hits) - 1; i >= 0; i-- {
		h := f.hits[i]
		if y != h.y || x < h.x || x >= h.x+h.w {
			continue
		}
		switch {
		case h.w >= 3 && x == h.x:
			return h, dispatch.KindResizeLeft, true
		case h.w >= 3 && x == h.x+h.w-1:
			return h, dispatch.KindResizeRight, true
		}
		return h, dispatch.KindMove, true
	}
	for _, h := range f.tray {
		if y == h.y && x >= h.x && x < h.x+h.w {
			return h, dispatch.KindMove, true
		}
	}
	return hitbox{}, "", false
}

func chipText(j store.Job) string {
	return "[" + j.Number + " " + truncate(j.Title, 16) + "]"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// cell is one terminal column of a row line.
type cell struct {
	ch    rune
	style lipgloss.Style
	key   string
}

// View renders the board.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	f := m.frame()
	width := int(m.layout.Timeline().Width())

	var b strings.Builder
	b.WriteString(titleStyle.Render("DISPATCH BOARD · " + m.board.Date()))
	b.WriteString("\n")
	b.WriteString(m.renderRuler())
	b.WriteString("\n")

	for _, rf := range f.rows {
		for line := 0; line < rf.height; line++ {
			name := ""
			if line == 0 {
				name = truncate(rf.row.Technician.Name, nameWidth-1)
			}
			b.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)))
			b.WriteString(renderCells(m.rowLine(rf, line, width)))
			b.WriteString("\n")
		}
	}
	if len(f.rows) == 0 {
		b.WriteString(statusStyle.Render("No technicians yet."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(rulerStyle.Render(trayLabel))
	for i, h := range f.tray {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(chipStyle.Render(chipText(h.job)))
	}
	b.WriteString("\n\n")

	if m.awaiting != nil {
		b.WriteString(m.renderPrompt())
		b.WriteString("\n")
	}
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderRuler() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", nameWidth))
	for h := 0; h < grid.HoursPerDay; h++ {
		b.WriteString(fmt.Sprintf("%-*s", m.cellsPerHour, truncate(fmt.Sprintf("%02d", h), m.cellsPerHour)))
	}
	return rulerStyle.Render(b.String())
}

// rowLine paints one line of a technician row: the shift band, the cards on
// that stacking level and the drop ghost.
func (m *Model) rowLine(rf rowFrame, line, width int) []cell {
	cells := make([]cell, width)
	for x := range cells {
		hour := x / m.cellsPerHour
		if rf.row.Bands[hour] {
			cells[x] = cell{ch: ' ', style: onShiftStyle, key: "on"}
			continue
		}
		ch := ' '
		if x%m.cellsPerHour == 0 {
			ch = '·'
		}
		cells[x] = cell{ch: ch, style: offShiftStyle, key: "off"}
	}

	type spill struct {
		x     int
		text  []rune
		color lipgloss.Color
		key   string
	}
	var spills []spill
	for _, c := range rf.row.Cards {
		if c.Level != line {
			continue
		}
		x0 := m.minutesToCells(c.Appointment.StartTime)
		x1 := max(x0+1, m.minutesToCells(c.Appointment.EndTime))
		style := cardStyle(rf.row.Technician, c.Job)
		label := []rune(cardLabel(c.Job, x1-x0))
		for x := x0; x < x1 && x < width; x++ {
			ch := ' '
			if i := x - x0; i < len(label) {
				ch = label[i]
			}
			cells[x] = cell{ch: ch, style: style, key: c.Key()}
		}
		if n := x1 - x0; n < len(label) {
			spills = append(spills, spill{x: x1, text: label[n:], color: techColor(rf.row.Technician), key: c.Key() + "+label"})
		}
	}

	// Labels too long for their card run on over empty band cells only.
	for _, sp := range spills {
		for i, ch := range sp.text {
			x := sp.x + i
			if x >= width || (cells[x].key != "on" && cells[x].key != "off") {
				break
			}
			cells[x] = cell{ch: ch, style: cells[x].style.Foreground(sp.color), key: sp.key + cells[x].key}
		}
	}

	if line == 0 {
		if g, ok := m.ghost(); ok && g.TechnicianID == rf.row.Technician.ID {
			x0 := m.minutesToCells(g.StartTime)
			x1 := max(x0+1, m.minutesToCells(g.EndTime))
			for x := x0; x < x1 && x < width; x++ {
				cells[x] = cell{ch: '░', style: ghostStyle, key: "ghost"}
			}
		}
	}
	return cells
}

// ghost is where a dragged or saving card will land.
func (m *Model) ghost() (dispatch.Preview, bool) {
	if m.hasPreview {
		return m.preview, true
	}
	if m.pending != nil {
		return *m.pending, true
	}
	return dispatch.Preview{}, false
}

// cardLabel is the text drawn on a card cells wide. When the job number does
// not fit, its last dash-separated part stands in for it.
func cardLabel(job store.Job, cells int) string {
	number := job.Number
	if len([]rune(number)) > cells {
		if i := strings.LastIndex(number, "-"); i >= 0 && i < len(number)-1 {
			number = number[i+1:]
		}
	}
	return number + " " + job.Title
}

func techColor(tech store.Technician) lipgloss.Color {
	if tech.Color == "" {
		return lipgloss.Color(defaultCardColor)
	}
	return lipgloss.Color(tech.Color)
}

func cardStyle(tech store.Technician, job store.Job) lipgloss.Style {
	style := lipgloss.NewStyle().Background(techColor(tech)).Foreground(lipgloss.Color("#FFFFFF"))
	switch job.Status {
	case store.JobStatusCompleted, store.JobStatusCancelled:
		style = style.Faint(true)
	}
	if job.Priority == store.JobPriorityEmergency {
		style = style.Bold(true)
	}
	return style
}

// renderCells renders runs of same-styled cells in one call each.
func renderCells(cells []cell) string {
	var b strings.Builder
	for i := 0; i < len(cells); {
		j := i
		var run []rune
		for j < len(cells) && cells[j].key == cells[i].key {
			run = append(run, cells[j].ch)
			j++
		}
		b.WriteString(cells[i].style.Render(string(run)))
		i = j
	}
	return b.String()
}

func (m *Model) renderPrompt() string {
	var lines []string
	lines = append(lines, "Outside shift:")
	for _, a := range m.awaiting.OutsideShift() {
		lines = append(lines, fmt.Sprintf("  %s %s-%s", m.technicianName(a.TechnicianID.String()), a.StartTime, a.EndTime))
	}
	lines = append(lines, "Assign anyway? [y/n]")
	return promptStyle.Render(strings.Join(lines, "\n"))
}
