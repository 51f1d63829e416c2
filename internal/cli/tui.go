package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/junction/pkg/circuit"
	"github.com/matzehuels/junction/pkg/connect"
	"github.com/matzehuels/junction/pkg/junction"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// StepListModel - Interactive connection browser
// =============================================================================

// StepRow is one connection as shown in the step list.
type StepRow struct {
	Step     connect.Step
	A, B     string // Endpoint keys
	Circuits int    // Live circuits after the step
	Size     int    // Size of the circuit holding both endpoints after the step
}

// NewStepRows replays steps over points to compute the per-step circuit
// counts shown by the browser.
func NewStepRows(points []junction.Point, steps []connect.Step) []StepRow {
	f := circuit.New(len(points))
	rows := make([]StepRow, len(steps))
	for i, s := range steps {
		res := f.Connect(s.Edge.A, s.Edge.B)
		rows[i] = StepRow{
			Step:     s,
			A:        points[s.Edge.A].Key,
			B:        points[s.Edge.B].Key,
			Circuits: f.Len(),
			Size:     f.Size(res.Circuit),
		}
	}
	return rows
}

// StepListModel is the bubbletea model for browsing the steps of a run.
type StepListModel struct {
	Title       string
	Rows        []StepRow
	Cursor      int
	Height      int
	Offset      int
	HideNoOps   bool
	visible     []int
	highlighted int // Ordinal of the unifying step, 0 if none
}

// NewStepListModel creates a new step list model. last is the ordinal of the
// step to highlight, or 0.
func NewStepListModel(title string, rows []StepRow, last int) StepListModel {
	m := StepListModel{
		Title:       title,
		Rows:        rows,
		Height:      15,
		highlighted: last,
	}
	m.refilter()
	return m
}

// refilter recomputes the visible rows and keeps the cursor in range.
func (m *StepListModel) refilter() {
	m.visible = make([]int, 0, len(m.Rows))
	for i, r := range m.Rows {
		if m.HideNoOps && !r.Step.Result.Outcome.Changed() {
			continue
		}
		m.visible = append(m.visible, i)
	}
	m.Cursor = min(m.Cursor, max(len(m.visible)-1, 0))
	m.Offset = min(m.Offset, m.Cursor)
}

// Visible returns the number of rows currently shown.
func (m StepListModel) Visible() int { return len(m.visible) }

// Current returns the row under the cursor.
func (m StepListModel) Current() (StepRow, bool) {
	if len(m.visible) == 0 {
		return StepRow{}, false
	}
	return m.Rows[m.visible[m.Cursor]], true
}

func (m StepListModel) Init() tea.Cmd {
	return nil
}

func (m StepListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown", " ":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.visible))
		case "end", "G":
			m.move(len(m.visible))
		case "r":
			m.HideNoOps = !m.HideNoOps
			m.refilter()
			m.move(0)
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta and scrolls to keep it in view.
func (m *StepListModel) move(delta int) {
	if len(m.visible) == 0 {
		m.Cursor, m.Offset = 0, 0
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.visible)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m StepListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  r hide redundant  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(r.Step.Connections),
			r.A,
			r.B,
			strconv.FormatInt(r.Step.Edge.Weight, 10),
			r.Step.Result.Outcome.String(),
			strconv.Itoa(r.Size),
			strconv.Itoa(r.Circuits),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Box A", "Box B", "Distance²", "Outcome", "Size", "Circuits").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			r := m.Rows[m.visible[idx]]

			base := lipgloss.NewStyle()
			switch {
			case m.highlighted != 0 && r.Step.Ordinal == m.highlighted:
				base = base.Foreground(colorRed)
			case !r.Step.Result.Outcome.Changed():
				base = base.Foreground(colorDim)
			case r.Step.Result.Outcome == circuit.Merged:
				base = base.Foreground(colorGreen)
			}
			if idx == m.Cursor {
				return base.Inherit(listSelectedStyle)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.visible)), len(m.visible))))

	return b.String()
}
