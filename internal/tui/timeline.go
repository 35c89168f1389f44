package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zielww/apollo/internal/constants"
	"github.com/zielww/apollo/internal/models"
	"github.com/zielww/apollo/internal/schedule"
)

const (
	emptyCell  = '·'
	filledCell = '█'
	nowCell    = '┃'
)

const borderColor = "240"
const nowColor = "#ff5f87"

var modeColors = map[models.LightMode]string{
	models.LightModeWarm:    "#f5a623",
	models.LightModeNatural: "#7ec8e3",
	models.LightModeBoth:    "#f8e71c",
}

type cell struct {
	ch    rune
	style lipgloss.Style
}

// TimelineRenderer draws the 24 hour buckets as rows of hourWidth cells
type TimelineRenderer struct {
	hourWidth  int
	emptyStyle lipgloss.Style
	nowStyle   lipgloss.Style
	hourStyle  lipgloss.Style
	modeStyles map[models.LightMode]lipgloss.Style
}

func NewTimelineRenderer(hourWidth int) *TimelineRenderer {
	if hourWidth <= 0 {
		hourWidth = constants.MinutesPerHour / 5
	}
	r := &TimelineRenderer{
		hourWidth:  hourWidth,
		emptyStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor)),
		nowStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color(nowColor)).Bold(true),
		hourStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor)),
		modeStyles: map[models.LightMode]lipgloss.Style{},
	}
	for mode, color := range modeColors {
		r.modeStyles[mode] = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return r
}

// Label is the text a segment block carries at its detail tier
func Label(seg schedule.Segment) string {
	switch seg.Detail() {
	case schedule.DetailFull:
		return fmt.Sprintf("%s %d%%", seg.Rule.LightMode, seg.Rule.Brightness)
	case schedule.DetailAbbreviated:
		return strings.ToUpper(string(seg.Rule.LightMode)[:1])
	default:
		return ""
	}
}

// Render draws the timeline with a marker at now. Segments of different devices that
// share a bucket are drawn in order, later ones on top.
func (r *TimelineRenderer) Render(timeline [constants.HoursPerDay][]schedule.Segment, now models.TimeOfDay) string {
	nowPos := int(schedule.PositionOf(now, float64(r.hourWidth)))

	var b strings.Builder
	for hour, segments := range timeline {
		row := r.row(segments)

		if nowPos >= hour*r.hourWidth && nowPos < (hour+1)*r.hourWidth {
			row[nowPos-hour*r.hourWidth] = cell{ch: nowCell, style: r.nowStyle}
		}

		hourLabel := r.hourStyle.Render(fmt.Sprintf("%02d:00", hour))
		if hour == now.Hour {
			hourLabel = r.nowStyle.Render(fmt.Sprintf("%02d:00", hour))
		}
		b.WriteString(hourLabel)
		b.WriteString(" ")
		b.WriteString(renderCells(row))
		b.WriteString("\n")
	}
	b.WriteString(r.Legend())
	return b.String()
}

func (r *TimelineRenderer) Legend() string {
	parts := []string{}
	for _, mode := range []models.LightMode{models.LightModeWarm, models.LightModeNatural, models.LightModeBoth} {
		parts = append(parts, r.modeStyles[mode].Render(string(filledCell))+" "+string(mode))
	}
	return strings.Join(parts, "  ")
}

// the cells for one hour bucket
func (r *TimelineRenderer) row(segments []schedule.Segment) []cell {
	row := make([]cell, r.hourWidth)
	for i := range row {
		row[i] = cell{ch: emptyCell, style: r.emptyStyle}
	}

	for _, seg := range segments {
		start := seg.OffsetMinutesIntoHour * r.hourWidth / constants.MinutesPerHour
		end := (seg.OffsetMinutesIntoHour + seg.DurationMinutes) * r.hourWidth / constants.MinutesPerHour
		// every segment gets at least one cell
		if end <= start {
			end = min(start+1, r.hourWidth)
		}

		style := r.modeStyles[seg.Rule.LightMode]
		label := []rune(Label(seg))
		for i := start; i < end; i++ {
			ch := filledCell
			if i-start < len(label) {
				ch = label[i-start]
			}
			row[i] = cell{ch: ch, style: style}
		}
	}
	return row
}

// renders runs of equally styled cells together
func renderCells(cells []cell) string {
	var b strings.Builder
	var run []rune
	var runStyle lipgloss.Style

	flush := func() {
		if len(run) > 0 {
			b.WriteString(runStyle.Render(string(run)))
			run = run[:0]
		}
	}
	for i, c := range cells {
		if i > 0 && !sameStyle(c.style, runStyle) {
			flush()
		}
		runStyle = c.style
		run = append(run, c.ch)
	}
	flush()
	return b.String()
}

func sameStyle(a lipgloss.Style, b lipgloss.Style) bool {
	return a.GetForeground() == b.GetForeground() && a.GetBold() == b.GetBold()
}
