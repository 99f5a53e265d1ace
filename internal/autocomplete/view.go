package autocomplete

import (
	"strings"

	"biblion/internal/editbuf"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// View renders the input with its popup underneath. Hosts that draw the
// popup over other content use InputView and PopupView instead.
func (m Model) View() string {
	input := m.InputView()
	if !m.PopupVisible() {
		return input
	}
	popup := m.PopupView()
	if popup == "" {
		return input
	}
	return lipgloss.JoinVertical(lipgloss.Left, input, popup)
}

// InputView renders the bordered text box.
func (m Model) InputView() string {
	c := m.colors
	bg, border := c.Background, c.Border
	if m.enabled && (m.focused || m.hovering) {
		bg = c.HoverBackground
	}
	if m.enabled && m.focused {
		border = c.FocusBorder
	}
	base := lipgloss.NewStyle().Background(bg)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(bg).
		Padding(0, 1).
		Width(m.width + boxPadding - 2).
		Render(m.textLine(base))
}

func (m Model) textLine(base lipgloss.Style) string {
	var sb strings.Builder
	used := m.leadingPad()
	sb.WriteString(base.Render(strings.Repeat(" ", used)))

	put := func(cl editbuf.Cluster, style lipgloss.Style, cursorHere bool) bool {
		if used+cl.Width > m.width {
			return false
		}
		if cursorHere {
			sb.WriteString(m.cursorView(cl.Text))
		} else {
			sb.WriteString(style.Render(cl.Text))
		}
		used += cl.Width
		return true
	}

	c := m.colors
	if m.placeholderMode() {
		style := base.Foreground(c.Placeholder)
		for i, cl := range clusters(m.placeholder) {
			if !put(cl, style, i == 0 && m.focused) {
				break
			}
		}
	} else {
		text := base.Foreground(c.Text)
		if !m.enabled {
			text = base.Foreground(c.Placeholder)
		}
		sel := text.Background(c.Selection)
		start, end, hasSel := m.buf.Selection()
		cur := m.buf.Cursor()
		for _, cl := range m.buf.Clusters(m.scroll) {
			style := text
			if hasSel && cl.Start >= start && cl.Start < end {
				style = sel
			}
			if !put(cl, style, m.focused && cl.Start == cur) {
				break
			}
		}

		atEnd := m.focused && cur == m.buf.Len()
		tail := m.tail()
		tailStyle := base.Foreground(c.Placeholder)
		if m.preedit != "" {
			tailStyle = text.Underline(true)
		}
		for i, cl := range clusters(tail) {
			if !put(cl, tailStyle, i == 0 && atEnd) {
				break
			}
		}
		if atEnd && tail == "" && used < m.width {
			sb.WriteString(m.cursorView(" "))
			used++
		}
	}

	if used < m.width {
		sb.WriteString(base.Render(strings.Repeat(" ", m.width-used)))
	}
	return sb.String()
}

func (m Model) cursorView(s string) string {
	c := m.cursor
	c.SetChar(s)
	return c.View()
}

func clusters(s string) []editbuf.Cluster {
	if s == "" {
		return nil
	}
	return editbuf.New(s).Clusters(0)
}

// PopupView renders the suggestion rows, faded and narrowed by the current
// animation frame. It returns "" when there is nothing to draw.
func (m Model) PopupView() string {
	rows := m.visibleRows()
	if len(rows) == 0 || !m.PopupVisible() {
		return ""
	}
	c := m.colors
	f := m.Frame()
	w := m.popupWidth()
	if w <= 0 {
		return ""
	}

	fg := blend(c.Background, c.Text, f.Opacity)
	hl := blend(c.Background, c.Highlight, f.Opacity)
	border := blend(c.Background, c.Border, f.Opacity)

	row := lipgloss.NewStyle().Foreground(fg).Background(c.Background).Width(w)
	selected := row.Background(hl).Bold(true)

	sel := m.Selected()
	lines := make([]string, len(rows))
	for i, r := range rows {
		style := row
		if m.rowOffset+i == sel {
			style = selected
		}
		lines[i] = style.Render(runewidth.Truncate(" "+r, w, "…"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		BorderBackground(c.Background).
		Render(strings.Join(lines, "\n"))
}

// blend mixes two hex colors; t=0 is from, t=1 is to.
func blend(from, to lipgloss.Color, t float64) lipgloss.Color {
	a, err := colorful.Hex(string(from))
	if err != nil {
		return to
	}
	b, err := colorful.Hex(string(to))
	if err != nil {
		return to
	}
	return lipgloss.Color(a.BlendLab(b, t).Clamped().Hex())
}
