package movie

import (
	"fmt"
	"strconv"
	"strings"
)

// column describes one fixed-width table column
type column struct {
	header string
	width  int
}

var tableColumns = []column{
	{"ID", 10},
	{"Title", 50},
	{"Release Date", 12},
	{"Popularity", 11},
	{"Vote Average", 13},
	{"Vote Count", 11},
}

// TableFormatter renders a store as a fixed-width console table
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// FormatTable renders the header, one row per record in [0, count) and a
// page footer. A page below 1 omits the footer.
func (f *TableFormatter) FormatTable(s *Store, page int) string {
	var sb strings.Builder

	rule := f.rule()
	sb.WriteString(rule)
	f.writeHeader(&sb)
	sb.WriteString(rule)

	for i := 0; i < s.Count(); i++ {
		r, _ := s.Get(i)
		f.writeRow(&sb, r)
	}

	sb.WriteString(rule)
	if page > 0 {
		fmt.Fprintf(&sb, "*************************   Page: %d **********************************\n", page)
	}

	return sb.String()
}

// FormatOverview renders the overview detail of a single record
func (f *TableFormatter) FormatOverview(r Record) string {
	overview := r.Overview
	if overview == "" {
		overview = "(no overview available)"
	}
	return fmt.Sprintf("Overview of movie %s\n%s\n", r.Title, overview)
}

func (f *TableFormatter) rule() string {
	width := 1
	for _, c := range tableColumns {
		width += c.width + 5
	}
	return strings.Repeat("-", width) + "\n"
}

func (f *TableFormatter) writeHeader(sb *strings.Builder) {
	sb.WriteString("|")
	for _, c := range tableColumns {
		cell := c.width + 4
		left := (cell - len(c.header)) / 2
		right := cell - len(c.header) - left
		fmt.Fprintf(sb, "%s%s%s|", strings.Repeat(" ", left), c.header, strings.Repeat(" ", right))
	}
	sb.WriteString("\n")
}

func (f *TableFormatter) writeRow(sb *strings.Builder, r Record) {
	cells := []string{
		strconv.Itoa(r.ID),
		truncate(r.Title, tableColumns[1].width),
		r.ReleaseDate,
		formatScore(r.Popularity),
		formatScore(r.VoteAverage),
		strconv.Itoa(r.VoteCount),
	}

	sb.WriteString("|")
	for i, c := range tableColumns {
		fmt.Fprintf(sb, "  %*s  |", c.width, cells[i])
	}
	sb.WriteString("\n")
}

// formatScore prints six significant digits, dropping trailing zeros
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
