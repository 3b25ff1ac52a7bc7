package main

import (
	"fmt"
	"strings"

	"github.com/germanamz/chatbench/pkg/params"
)

const (
	paramsPanelWidth = 28
	paramsBarWidth   = 18
)

// paramLabels are the display names of the controls.
var paramLabels = map[params.Field]string{
	params.Temperature:     "Temperature",
	params.MaxOutputTokens: "Max length",
	params.TopP:            "Top P",
	params.TopK:            "Top K",
}

// paramsViewModel is the panel of four bounded controls.
type paramsViewModel struct {
	params   params.Parameters
	selected int
	focused  bool
	height   int
}

func newParamsView(p params.Parameters) paramsViewModel {
	return paramsViewModel{params: p}
}

// field returns the selected control.
func (m paramsViewModel) field() params.Field {
	return params.Fields[m.selected]
}

func (m *paramsViewModel) up() {
	if m.selected > 0 {
		m.selected--
	}
}

func (m *paramsViewModel) down() {
	if m.selected < len(params.Fields)-1 {
		m.selected++
	}
}

func (m paramsViewModel) View() string {
	var sb strings.Builder
	sb.WriteString(panelTitleStyle.Render("Parameters"))

	for i, f := range params.Fields {
		sb.WriteString("\n\n")

		name := paramNameStyle.Render(paramLabels[f])
		if m.focused && i == m.selected {
			name = paramSelStyle.Render("> " + paramLabels[f])
		}
		sb.WriteString(fmt.Sprintf("%s  %s\n", name, m.params.Value(f)))
		sb.WriteString(renderBar(m.params.Fraction(f), paramsBarWidth))
	}

	if m.focused {
		sb.WriteString("\n\n")
		sb.WriteString(dimStyle.Render("↑↓ select  ←→ adjust\nesc back"))
	} else {
		sb.WriteString("\n\n")
		sb.WriteString(dimStyle.Render("F2 to edit"))
	}

	border := panelBorder
	if m.focused {
		border = panelFocusedBorder
	}
	border = border.Width(paramsPanelWidth - 2)
	if m.height > 2 {
		border = border.Height(m.height - 2)
	}

	return border.Render(sb.String())
}

// renderBar draws a horizontal gauge for a value between 0 and 1.
func renderBar(frac float64, width int) string {
	frac = min(max(frac, 0), 1)
	filled := int(frac*float64(width) + 0.5)

	return barFillStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}
