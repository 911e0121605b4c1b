// Package render prints stories and extracted test cases to the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fjglira/storycases/internal/domain"
	"github.com/fjglira/storycases/internal/grouping"
)

// RenderGroups writes a header for the story followed by one card per test
// case, under a heading per scenario.
func RenderGroups(w io.Writer, storyID string, groups []grouping.Group) error {
	total := 0
	for _, g := range groups {
		total += len(g.Cases)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(storyID))
	b.WriteString(" ")
	b.WriteString(countBadgeStyle.Render(fmt.Sprintf("%d Test Cases", total)))
	b.WriteString("\n")

	for _, g := range groups {
		b.WriteString(scenarioStyle.Render(scenarioHeading(g)))
		b.WriteString("\n")
		for _, tc := range g.Cases {
			b.WriteString(cardStyle.Render(Card(tc)))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Card returns the body of a test case card without its border.
func Card(tc domain.TestCaseRecord) string {
	var lines []string
	lines = append(lines, idBadgeStyle.Render(tc.ID)+" "+titleStyle.Render(tc.Title))

	if tc.Preconditions != nil {
		lines = append(lines, field("Preconditions", *tc.Preconditions))
	}
	if tc.TestData != nil {
		lines = append(lines, field("Test Data", *tc.TestData))
	}

	lines = append(lines, labelStyle.Render("Steps"))
	for i, step := range tc.Steps {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, step))
	}

	lines = append(lines, labelStyle.Render("Expected Result"))
	lines = append(lines, "  "+tc.ExpectedResult)

	if tc.PassCriteria != nil {
		lines = append(lines, passStyle.Render("✓ Pass: ")+*tc.PassCriteria)
	}
	if tc.FailCriteria != nil {
		lines = append(lines, failStyle.Render("✗ Fail: ")+*tc.FailCriteria)
	}
	if tc.Priority != nil {
		lines = append(lines, field("Priority", *tc.Priority))
	}
	if tc.References != nil {
		lines = append(lines, field("References", *tc.References))
	}

	return strings.Join(lines, "\n")
}

// RenderStories writes one line per story with its status, priority and tags.
func RenderStories(w io.Writer, stories []domain.Story) error {
	var b strings.Builder
	for _, s := range stories {
		b.WriteString(headerStyle.Render(s.ID))
		b.WriteString(" ")
		b.WriteString(badge(s.Status, statusColors))
		b.WriteString(" ")
		b.WriteString(badge(s.Priority, priorityColors))
		b.WriteString(" ")
		b.WriteString(s.Title)
		if len(s.Tags) > 0 {
			b.WriteString(" ")
			b.WriteString(labelStyle.Render("[" + strings.Join(s.Tags, ", ") + "]"))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func scenarioHeading(g grouping.Group) string {
	if g.Ungrouped() {
		return "Ungrouped"
	}
	if g.Scenario == "" {
		return g.ScenarioID
	}
	return g.ScenarioID + ": " + g.Scenario
}

func field(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

func badge(text string, colors map[string]lipgloss.Color) string {
	if text == "" {
		return ""
	}
	style := lipgloss.NewStyle().Padding(0, 1)
	if c, ok := colors[text]; ok {
		style = style.Foreground(c)
	}
	return style.Render(text)
}
