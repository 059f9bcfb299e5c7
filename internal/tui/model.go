package tui

import (
	"context"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/satfiles/satfiles/internal/inventory"
	"github.com/satfiles/satfiles/internal/usage"
)

// SortColumn represents the current sort field.
type SortColumn int

const (
	SortByTime SortColumn = iota
	SortByName
)

func (s SortColumn) String() string {
	if s == SortByName {
		return "name"
	}
	return "time"
}

// Model holds the TUI state.
type Model struct {
	inv          *inventory.Inventory
	label        string
	allRows      []usage.FileStatus
	rows         []usage.FileStatus
	stats        *usage.Stats
	cursor       int
	sort         SortColumn
	width        int
	height       int
	filter       string
	filterActive bool
	refreshing   bool
	err          error
}

// NewModel creates a TUI model browsing inv's catalog. label names the
// dataset in the header.
func NewModel(inv *inventory.Inventory, label string) *Model {
	return &Model{
		inv:   inv,
		label: label,
		sort:  SortByTime,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadCatalog
}

type catalogLoadedMsg struct {
	rows  []usage.FileStatus
	stats *usage.Stats
	err   error
}

func (m *Model) loadCatalog() tea.Msg {
	entries := m.inv.Snapshot().Entries()
	stats, rows, err := usage.NewReporter(m.inv.DataPath()).
		ComputeDetailed(context.Background(), entries)
	if err != nil {
		return catalogLoadedMsg{err: err}
	}
	return catalogLoadedMsg{rows: rows, stats: stats}
}

type refreshDoneMsg struct {
	err error
}

func (m *Model) runRefresh() tea.Msg {
	if err := m.inv.Refresh(); err != nil {
		return refreshDoneMsg{err: err}
	}
	return refreshDoneMsg{}
}

func (m *Model) helpLine() string {
	if m.filterActive {
		return "Type to filter | Enter: apply | Esc: clear | q: quit"
	}
	return "↑/↓ move | t/n: sort | r: refresh | /: filter | q: quit"
}

func (m *Model) setRows(rows []usage.FileStatus) {
	m.allRows = rows
	m.applySort()
	m.applyFilter()
}

func (m *Model) applySort() {
	if m.sort == SortByName {
		sort.SliceStable(m.allRows, func(i, j int) bool {
			return m.allRows[i].Entry.File < m.allRows[j].Entry.File
		})
	} else {
		sort.SliceStable(m.allRows, func(i, j int) bool {
			return m.allRows[i].Entry.Time.Before(m.allRows[j].Entry.Time)
		})
	}
}

func (m *Model) applyFilter() {
	if m.filter == "" {
		m.rows = m.allRows
	} else {
		filtered := make([]usage.FileStatus, 0, len(m.allRows))
		needle := strings.ToLower(m.filter)
		for _, r := range m.allRows {
			if strings.Contains(strings.ToLower(r.Entry.File), needle) {
				filtered = append(filtered, r)
			}
		}
		m.rows = filtered
	}
	m.cursor = 0
}
