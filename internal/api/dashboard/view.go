package dashboard

import (
	"fmt"
	"net/url"
	"strconv"

	"bodyfat/internal/domain/bodyfat"
	"bodyfat/internal/domain/importance"
	"bodyfat/internal/services/history"
)

// statusView is the result panel
type statusView struct {
	Label    string  `json:"label"`
	Color    string  `json:"color"`
	BodyFat  float64 `json:"body_fat"`
	Display  string  `json:"display"`
	Target   float64 `json:"target_weight"`
	Diff     float64 `json:"weight_diff"`
	GoalText string  `json:"goal"`
	Engine   string  `json:"engine"`
	ID       string  `json:"id"`
}

func newStatusView(p *bodyfat.Prediction) statusView {
	return statusView{
		Label:    p.Status.Label,
		Color:    p.Status.Color,
		BodyFat:  p.BodyFatPercent,
		Display:  formatNumber(p.BodyFatPercent) + "%",
		Target:   p.Goal.TargetWeight,
		Diff:     p.Goal.WeightDiff,
		GoalText: goalText(p.Goal),
		Engine:   p.Variant.String(),
		ID:       p.ID.String(),
	}
}

func goalText(g bodyfat.Goal) string {
	return fmt.Sprintf("To reach 15%%, your target weight is %skg (current diff: %skg)",
		formatNumber(g.TargetWeight), formatNumber(g.WeightDiff))
}

// formatNumber prints a rounded value with at least one decimal ("70.0", "18.35")
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == 'e' {
			return s
		}
	}
	return s + ".0"
}

// fieldView is one form input with its current value
type fieldView struct {
	Field
	Name  string
	Value string
}

type engineView struct {
	Label   string
	Checked bool
}

// pageData feeds the dashboard template
type pageData struct {
	Name       string
	Fields     []fieldView
	Engines    []engineView
	Status     *statusView
	Error      string
	Importance []importance.Item
	ChartURL   string
	History    []history.Row
}

func newPage(sub *submission) pageData {
	page := pageData{Fields: make([]fieldView, len(Fields))}

	selected := DefaultEngine
	if sub != nil {
		page.Name = sub.Name
		selected = sub.Variant
	}

	for i, f := range Fields {
		value := formatNumber(f.Default)
		if sub != nil {
			if raw, ok := sub.Raw[f.Feature]; ok {
				value = raw
			}
		}
		page.Fields[i] = fieldView{Field: f, Name: formKey(f.Feature), Value: value}
	}

	for _, v := range bodyfat.Variants {
		page.Engines = append(page.Engines, engineView{Label: v.String(), Checked: v == selected})
	}
	return page
}

func chartURL(v bodyfat.Variant) string {
	return "/api/importance/chart.png?" + url.Values{"engine": {v.Slug()}}.Encode()
}
