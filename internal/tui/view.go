package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/satfiles/satfiles/internal/usage"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	if m.stats == nil {
		return "Loading..."
	}

	var b strings.Builder
	headerLines := 0

	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\n")
		headerLines++
	}

	// Header
	writeLine(titleStyle.Render("satfiles - Catalog Browser"))

	pathLabel := fmt.Sprintf("Dataset: %s | Path: %s",
		m.label, truncateMiddle(m.inv.DataPath(), max(10, m.width-len(m.label)-20)))
	writeLine(breadcrumbStyle.Render(pathLabel))

	// Catalog stats
	statsInfo := fmt.Sprintf("Files: %s | On disk: %s | Missing: %s | Empty: %s | Size: %s",
		FormatCount(int64(m.stats.TotalFiles)),
		FormatCount(int64(m.stats.OnDisk)),
		FormatCount(int64(m.stats.Missing)),
		FormatCount(int64(m.stats.Empty)),
		FormatSize(m.stats.TotalSize),
	)
	if start, ok := m.inv.StartDate(); ok {
		stop, _ := m.inv.StopDate()
		statsInfo += fmt.Sprintf(" | %s --- %s",
			start.Format("02 Jan 2006"), stop.Format("02 Jan 2006"))
	}
	writeLine(statsStyle.Render(statsInfo))

	// Status line
	status := fmt.Sprintf("Items: %s | Sort: %s", FormatCount(int64(len(m.rows))), m.sort)
	if m.filter != "" {
		status += fmt.Sprintf(" | Filter: %q", m.filter)
	}
	if len(m.rows) > 0 && m.cursor < len(m.rows) {
		sel := m.rows[m.cursor]
		switch {
		case sel.Missing:
			status += fmt.Sprintf(" | Sel: %s (missing)", sel.Entry.File)
		default:
			status += fmt.Sprintf(" | Sel: %s (%s)", sel.Entry.File, FormatSize(sel.Size))
		}
	}
	writeLine(statusStyle.Render(status))

	// Filter input
	if m.filterActive {
		writeLine(filterStyle.Render(fmt.Sprintf("Filter: %s_", m.filter)))
	} else if m.filter != "" {
		writeLine(filterStyle.Render(fmt.Sprintf("Filter: %s", m.filter)))
	}

	// Column headers with sort indicator
	timeLabel := headerLabel("TIME", m.sort == SortByTime, "v")
	nameLabel := headerLabel("NAME", m.sort == SortByName, "v")

	// Calculate visible rows
	footerLines := 2
	visibleRows := m.height - headerLines - footerLines
	if visibleRows < 5 {
		visibleRows = 5
	}

	// Determine scroll offset
	startIdx := 0
	if m.cursor >= visibleRows {
		startIdx = m.cursor - visibleRows + 1
	}
	endIdx := min(len(m.rows), startIdx+visibleRows)

	sizeWidth := calcSizeWidth(m.rows, startIdx, endIdx)
	nameWidth := calcNameWidth(m.width, sizeWidth)
	gap := strings.Repeat(" ", colGap)

	nameLabel = truncateRight(nameLabel, nameWidth)
	namePad := nameWidth - len(nameLabel)
	if namePad < 0 {
		namePad = 0
	}
	header := fmt.Sprintf("%-*s%s%*s%s%s%s%s%*s",
		timeColWidth, timeLabel,
		gap,
		sizeWidth, "SIZE",
		gap,
		nameLabel,
		strings.Repeat(" ", namePad),
		gap,
		barColWidth, "SIZE%",
	)
	writeLine(headerStyle.Render(header))

	// Entries
	for i := startIdx; i < endIdx; i++ {
		b.WriteString(m.formatRow(m.rows[i], i == m.cursor, sizeWidth, nameWidth))
		b.WriteString("\n")
	}

	// Pad if needed
	displayedRows := min(len(m.rows)-startIdx, visibleRows)
	for i := displayedRows; i < visibleRows; i++ {
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("\n")
	help := m.helpLine()
	if m.refreshing {
		help = "Refreshing..."
	} else if len(m.rows) > 0 {
		help = fmt.Sprintf("%s [%d/%d]", help, m.cursor+1, len(m.rows))
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

const (
	colGap        = 2
	timeColWidth  = 16 // "2006-01-02 15:04"
	minNameWidth  = 10
	barBlockWidth = 10
	barPctWidth   = 4
	barGapWidth   = 1
	barColWidth   = barBlockWidth + barGapWidth + barPctWidth
)

func calcSizeWidth(rows []usage.FileStatus, startIdx, endIdx int) int {
	w := len("SIZE")
	for i := startIdx; i < endIdx; i++ {
		if n := len(sizeCell(rows[i])); n > w {
			w = n
		}
	}
	return w
}

func calcNameWidth(totalWidth, sizeWidth int) int {
	used := timeColWidth + sizeWidth + (colGap * 3) + barColWidth
	nameWidth := totalWidth - used
	if nameWidth < minNameWidth {
		nameWidth = minNameWidth
	}
	return nameWidth
}

func sizeCell(r usage.FileStatus) string {
	if r.Missing {
		return "-"
	}
	return FormatSize(r.Size)
}

func (m *Model) formatRow(r usage.FileStatus, selected bool, sizeWidth, nameWidth int) string {
	rawName := truncateRight(r.Entry.File, nameWidth)
	var styledName string
	switch {
	case r.Missing:
		styledName = missingStyle.Render(rawName)
	case r.Empty:
		styledName = emptyStyle.Render(rawName)
	default:
		styledName = fileStyle.Render(rawName)
	}

	// Pad name to fixed width so bar column aligns
	pad := nameWidth - len(rawName)
	if pad < 0 {
		pad = 0
	}
	paddedName := styledName + strings.Repeat(" ", pad)

	bar := formatBar(r.Size, m.stats.TotalSize)

	gap := strings.Repeat(" ", colGap)
	line := fmt.Sprintf("%-*s%s%*s%s%s%s%s",
		timeColWidth, r.Entry.Time.Format("2006-01-02 15:04"),
		gap,
		sizeWidth, sizeCell(r),
		gap,
		paddedName,
		gap,
		bar,
	)

	if selected {
		return selectedStyle.Render(line)
	}
	return line
}

func formatBar(entryVal, parentTotal int64) string {
	if parentTotal <= 0 || entryVal <= 0 {
		empty := strings.Repeat("░", barBlockWidth)
		return barEmptyStyle.Render(empty) + fmt.Sprintf("  %3d%%", 0)
	}

	pct := float64(entryVal) / float64(parentTotal) * 100
	if pct > 100 {
		pct = 100
	}

	filled := int(math.Round(pct / 100 * float64(barBlockWidth)))
	if filled < 1 && entryVal > 0 {
		filled = 1
	}
	if filled > barBlockWidth {
		filled = barBlockWidth
	}

	filledStr := barFilledStyle.Render(strings.Repeat("█", filled))
	emptyStr := barEmptyStyle.Render(strings.Repeat("░", barBlockWidth-filled))
	return filledStr + emptyStr + fmt.Sprintf("  %3d%%", int(math.Round(pct)))
}

func headerLabel(label string, active bool, dir string) string {
	if active {
		return label + dir
	}
	return label
}

func truncateRight(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func truncateMiddle(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	head := (maxLen - 3) / 2
	tail := maxLen - 3 - head
	return s[:head] + "..." + s[len(s)-tail:]
}
