package catalog

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
)

type fakeService struct {
	items  []score.Metadata
	result score.Result
	err    error
	calls  []score.ID
}

func (f *fakeService) List(context.Context) []score.Metadata {
	return f.items
}

func (f *fakeService) CalculateScore(_ context.Context, id score.ID, _ score.Parameters) (score.Result, error) {
	f.calls = append(f.calls, id)
	return f.result, f.err
}

func newFakeService() *fakeService {
	return &fakeService{
		items: []score.Metadata{
			{ID: "rox_index", Title: "ROX Index", Category: "pulmonology", ResultUnit: "index", Example: score.Parameters{"spo2": 92}},
			{ID: "chads2_score", Title: "CHADS2", Category: "cardiology", ResultUnit: "points", Example: score.Parameters{"hypertension": "yes"}},
			{ID: "ldl_calculated", Title: "LDL", Category: "cardiology", ResultUnit: "mg/dL"},
		},
		result: score.NewResult(2, "points", "moderate", "Intermediate Risk", "desc"),
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func loadedModel(t *testing.T, svc *fakeService) Model {
	t.Helper()
	m := NewModel(context.Background(), svc)
	updated, _ := m.Update(CatalogLoadedMsg{Items: svc.List(context.Background())})
	return updated.(Model)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestInitLoadsCatalog(t *testing.T) {
	svc := newFakeService()
	m := NewModel(context.Background(), svc)
	assert.Contains(t, m.View(), "Loading calculators")

	msg := loadCatalogCmd(context.Background(), svc)()
	loaded, ok := msg.(CatalogLoadedMsg)
	require.True(t, ok)
	assert.Len(t, loaded.Items, 3)
}

func TestItemsSortedAndNavigable(t *testing.T) {
	m := loadedModel(t, newFakeService())

	selected, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, score.ID("chads2_score"), selected.ID)

	m, _ = send(t, m, key("down"))
	m, _ = send(t, m, key("j"))
	selected, _ = m.Selected()
	assert.Equal(t, score.ID("rox_index"), selected.ID)

	m, _ = send(t, m, key("down"))
	selected, _ = m.Selected()
	assert.Equal(t, score.ID("chads2_score"), selected.ID, "cursor wraps")

	m, _ = send(t, m, key("up"))
	selected, _ = m.Selected()
	assert.Equal(t, score.ID("rox_index"), selected.ID)
}

func TestCategoryFilterCycles(t *testing.T) {
	m := loadedModel(t, newFakeService())

	m, _ = send(t, m, key("c"))
	assert.Equal(t, "cardiology", m.CategoryFilter())
	assert.Len(t, m.Visible(), 2)

	m, _ = send(t, m, key("c"))
	assert.Equal(t, "pulmonology", m.CategoryFilter())
	assert.Len(t, m.Visible(), 1)

	m, _ = send(t, m, key("c"))
	assert.Empty(t, m.CategoryFilter())
	assert.Len(t, m.Visible(), 3)
}

func TestDetailAndBack(t *testing.T) {
	m := loadedModel(t, newFakeService())

	m, _ = send(t, m, key("enter"))
	assert.Equal(t, ViewDetail, m.GetViewMode())
	assert.Contains(t, m.View(), "CHADS2")
	assert.Contains(t, m.View(), "press r to run the example")

	m, _ = send(t, m, key("?"))
	assert.Equal(t, ViewHelp, m.GetViewMode())
	m, _ = send(t, m, key("esc"))
	assert.Equal(t, ViewDetail, m.GetViewMode())

	m, _ = send(t, m, key("esc"))
	assert.Equal(t, ViewList, m.GetViewMode())
}

func TestRunExampleLifecycle(t *testing.T) {
	svc := newFakeService()
	m := loadedModel(t, svc)
	m, _ = send(t, m, key("enter"))

	m, cmd := send(t, m, key("r"))
	require.NotNil(t, cmd)
	assert.True(t, m.IsRunning("chads2_score"))

	_, again := send(t, m, key("r"))
	assert.Nil(t, again, "no second run while one is in flight")

	msg := calculateExampleCmd(context.Background(), svc, m.items[0])()
	complete, ok := msg.(CalculationCompleteMsg)
	require.True(t, ok)

	m, _ = send(t, m, complete)
	assert.False(t, m.IsRunning("chads2_score"))
	result, ok := m.Result("chads2_score")
	require.True(t, ok)
	assert.Equal(t, 2, result[score.KeyResult])
	assert.Contains(t, m.detail.View(), "Intermediate Risk")
}

func TestRunExampleFailure(t *testing.T) {
	svc := newFakeService()
	svc.err = errors.New("score 'chads2_score' is not available")
	m := loadedModel(t, svc)

	m, _ = send(t, m, key("r"))
	msg := calculateExampleCmd(context.Background(), svc, m.items[0])()
	m, _ = send(t, m, msg)

	failure, ok := m.Failure("chads2_score")
	require.True(t, ok)
	assert.Contains(t, failure, "not available")
	assert.Contains(t, m.WithUnicode(false).View(), "x CHADS2")
}

func TestQuit(t *testing.T) {
	m := loadedModel(t, newFakeService())
	_, cmd := send(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
