package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
)

// Model is the catalog browser model
type Model struct {
	ctx     context.Context
	service ScoreService

	items      []score.Metadata
	categories []string
	category   int // index into categories; -1 shows every category
	loaded     bool

	viewMode   ViewMode
	cursor     int
	selectedID score.ID

	spinner  spinner.Model
	detail   viewport.Model
	running  map[score.ID]bool
	results  map[score.ID]score.Result
	failures map[score.ID]string

	width      int
	height     int
	useUnicode bool
}

// NewModel creates a browser over svc. The catalog is loaded by Init.
func NewModel(ctx context.Context, svc ScoreService) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		ctx:        ctx,
		service:    svc,
		category:   -1,
		viewMode:   ViewList,
		spinner:    s,
		detail:     viewport.New(80, 20),
		running:    make(map[score.ID]bool),
		results:    make(map[score.ID]score.Result),
		failures:   make(map[score.ID]string),
		width:      80,
		height:     24,
		useUnicode: true,
	}
}

// WithUnicode toggles unicode glyphs in the rendered views.
func (m Model) WithUnicode(enabled bool) Model {
	m.useUnicode = enabled
	return m
}

// Init loads the catalog and starts the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCatalogCmd(m.ctx, m.service))
}

func (m *Model) setItems(items []score.Metadata) {
	m.items = items
	sort.Slice(m.items, func(i, j int) bool { return m.items[i].ID < m.items[j].ID })

	seen := make(map[string]struct{})
	m.categories = m.categories[:0]
	for _, item := range m.items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		m.categories = append(m.categories, item.Category)
	}
	sort.Strings(m.categories)
	m.loaded = true
	m.cursor = 0
}

// Visible returns the items that pass the current category filter.
func (m Model) Visible() []score.Metadata {
	if m.category < 0 || m.category >= len(m.categories) {
		return m.items
	}
	want := m.categories[m.category]
	out := make([]score.Metadata, 0, len(m.items))
	for _, item := range m.items {
		if strings.EqualFold(item.Category, want) {
			out = append(out, item)
		}
	}
	return out
}

// CategoryFilter returns the active category, or "" when unfiltered.
func (m Model) CategoryFilter() string {
	if m.category < 0 || m.category >= len(m.categories) {
		return ""
	}
	return m.categories[m.category]
}

func (m *Model) cycleCategory() {
	if len(m.categories) == 0 {
		return
	}
	m.category++
	if m.category >= len(m.categories) {
		m.category = -1
	}
	m.cursor = 0
}

// Selected returns the item under the cursor.
func (m Model) Selected() (score.Metadata, bool) {
	visible := m.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return score.Metadata{}, false
	}
	return visible[m.cursor], true
}

func (m Model) byID(id score.ID) (score.Metadata, bool) {
	for _, item := range m.items {
		if item.ID == id {
			return item, true
		}
	}
	return score.Metadata{}, false
}

// MoveCursorUp moves cursor up with wrapping
func (m *Model) MoveCursorUp() {
	n := len(m.Visible())
	if n == 0 {
		return
	}
	m.cursor--
	if m.cursor < 0 {
		m.cursor = n - 1
	}
}

// MoveCursorDown moves cursor down with wrapping
func (m *Model) MoveCursorDown() {
	n := len(m.Visible())
	if n == 0 {
		return
	}
	m.cursor++
	if m.cursor >= n {
		m.cursor = 0
	}
}

// GetViewMode returns the current view mode
func (m Model) GetViewMode() ViewMode {
	return m.viewMode
}

// IsRunning reports whether an example calculation is in flight for id.
func (m Model) IsRunning(id score.ID) bool {
	return m.running[id]
}

// Result returns the last example result for id.
func (m Model) Result(id score.ID) (score.Result, bool) {
	r, ok := m.results[id]
	return r, ok
}

// Failure returns the last example failure message for id.
func (m Model) Failure(id score.ID) (string, bool) {
	msg, ok := m.failures[id]
	return msg, ok
}
