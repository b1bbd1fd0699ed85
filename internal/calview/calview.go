package calview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/work-hours-tracker/internal/model"
	"github.com/Tiliavir/work-hours-tracker/internal/timecalc"
)

var monthNames = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// palette maps highlight colour names to terminal colours.
var palette = map[string]lipgloss.Color{
	"orange":     lipgloss.Color("#FFA500"),
	"lightgreen": lipgloss.Color("#90EE90"),
	"red":        lipgloss.Color("#FF4C4C"),
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	weekdayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	todayStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

func dayStyle(color string) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(lipgloss.Color("#000000"))
	if c, ok := palette[color]; ok {
		s = s.Background(c)
	}
	return s
}

// RenderMonth draws a Monday-first grid for the month containing month,
// painting highlighted days, followed by a legend of the month's highlights.
func RenderMonth(month time.Time, highlights []model.Highlight, today time.Time) string {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	byDate := make(map[string]model.Highlight, len(highlights))
	for _, h := range highlights {
		byDate[h.Date] = h
	}

	var b strings.Builder
	title := fmt.Sprintf("%s %d", monthNames[first.Month()-1], first.Year())
	b.WriteString(titleStyle.Render(lipgloss.PlaceHorizontal(20, lipgloss.Center, title)))
	b.WriteString("\n")
	b.WriteString(weekdayStyle.Render("Mo Di Mi Do Fr Sa So"))
	b.WriteString("\n")

	// Go weekdays start at Sunday; shift so Monday is column 0.
	col := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("   ", col))

	var legend []model.Highlight
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		cell := fmt.Sprintf("%2d", d.Day())
		date := d.Format(model.DateLayout)
		switch h, ok := byDate[date]; {
		case ok:
			cell = dayStyle(h.Color).Render(cell)
			legend = append(legend, h)
		case timecalc.SameDay(d, today):
			cell = todayStyle.Render(cell)
		}
		b.WriteString(cell)

		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		} else {
			b.WriteString(" ")
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}

	if len(legend) > 0 {
		b.WriteString("\n")
		for _, h := range legend {
			b.WriteString(dayStyle(h.Color).Render(h.Date))
			b.WriteString("  ")
			b.WriteString(h.Label)
			b.WriteString("\n")
		}
	}
	return b.String()
}
