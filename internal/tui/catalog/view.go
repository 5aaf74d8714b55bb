package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
)

// View renders the current screen
func (m Model) View() string {
	switch m.viewMode {
	case ViewDetail:
		return m.viewDetail()
	case ViewHelp:
		return m.viewHelp()
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	title := "Score Catalog"
	if filter := m.CategoryFilter(); filter != "" {
		title += " · " + filter
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if !m.loaded {
		b.WriteString(itemStyle.Render(m.spinner.View() + " Loading calculators..."))
		return b.String()
	}

	visible := m.Visible()
	if len(visible) == 0 {
		b.WriteString(itemStyle.Render("No calculators available."))
		b.WriteString("\n")
	}

	for i, item := range visible {
		line := fmt.Sprintf("%s %s %s", m.statusGlyph(item.ID), item.Title, categoryStyle.Render("["+item.Category+"]"))
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render(line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf("%d calculators · ↑/↓ move · enter details · r run example · c category · ? help · q quit", len(visible))))
	return b.String()
}

func (m Model) statusGlyph(id score.ID) string {
	switch {
	case m.running[id]:
		return m.spinner.View()
	case m.failures[id] != "":
		if m.useUnicode {
			return errorStyle.Render("✗")
		}
		return errorStyle.Render("x")
	case m.results[id] != nil:
		if m.useUnicode {
			return successStyle.Render("✓")
		}
		return successStyle.Render("+")
	default:
		if m.useUnicode {
			return "•"
		}
		return "-"
	}
}

func (m Model) viewDetail() string {
	return m.detail.View() + "\n" + helpStyle.Render("r run example · esc back · ? help · q quit")
}

// refreshDetail re-renders the detail viewport for the selected calculator.
func (m *Model) refreshDetail() {
	if m.selectedID == "" {
		return
	}
	meta, ok := m.byID(m.selectedID)
	if !ok {
		return
	}
	m.detail.SetContent(m.renderDetail(meta))
}

func (m Model) renderDetail(meta score.Metadata) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(meta.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s\n", meta.ID, categoryStyle.Render(meta.Category))
	if meta.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", meta.Description)
	}
	if meta.Formula != "" {
		b.WriteString(sectionStyle.Render("Formula"))
		fmt.Fprintf(&b, "\n  %s\n", meta.Formula)
	}

	b.WriteString(sectionStyle.Render("Parameters"))
	b.WriteString("\n")
	for _, p := range meta.Parameters {
		fmt.Fprintf(&b, "  %-28s %-8s %s\n", p.Name, p.Type, describeParameter(p))
	}

	b.WriteString(sectionStyle.Render("Example"))
	b.WriteString("\n")
	b.WriteString(indent(formatJSON(meta.Example)))

	b.WriteString(sectionStyle.Render("Result"))
	b.WriteString("\n")
	switch {
	case m.running[meta.ID]:
		fmt.Fprintf(&b, "  %s calculating...\n", m.spinner.View())
	case m.failures[meta.ID] != "":
		fmt.Fprintf(&b, "  %s\n", errorStyle.Render(m.failures[meta.ID]))
	case m.results[meta.ID] != nil:
		r := m.results[meta.ID]
		fmt.Fprintf(&b, "  %s %v %v\n", successStyle.Render(fmt.Sprint(r[score.KeyStage])), r[score.KeyResult], r[score.KeyUnit])
		fmt.Fprintf(&b, "  %v\n", r[score.KeyInterpretation])
	default:
		b.WriteString("  press r to run the example\n")
	}

	if len(meta.References) > 0 {
		b.WriteString(sectionStyle.Render("References"))
		b.WriteString("\n")
		for _, ref := range meta.References {
			fmt.Fprintf(&b, "  - %s\n", ref)
		}
	}
	return b.String()
}

func describeParameter(p score.ParameterSpec) string {
	var parts []string
	if p.Description != "" {
		parts = append(parts, p.Description)
	}
	if len(p.Options) > 0 {
		parts = append(parts, "one of "+strings.Join(p.Options, "/"))
	}
	if p.Min != nil && p.Max != nil {
		parts = append(parts, fmt.Sprintf("%g-%g", *p.Min, *p.Max))
	}
	if p.Unit != "" {
		parts = append(parts, p.Unit)
	}
	if !p.Required {
		parts = append(parts, "optional")
	}
	return strings.Join(parts, ", ")
}

func formatJSON(params score.Parameters) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		raw, err := json.Marshal(params[k])
		if err != nil {
			raw = []byte(fmt.Sprint(params[k]))
		}
		fmt.Fprintf(&b, "%s: %s\n", k, raw)
	}
	return b.String()
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Help"))
	b.WriteString("\n")
	for _, row := range [][2]string{
		{"↑/k, ↓/j", "move the cursor"},
		{"enter", "show calculator details"},
		{"r", "run the calculator on its example parameters"},
		{"c", "cycle the category filter"},
		{"esc", "back to the list"},
		{"?", "toggle help"},
		{"q, ctrl+c", "quit"},
	} {
		fmt.Fprintf(&b, "  %-10s %s\n", row[0], row[1])
	}
	return b.String()
}
