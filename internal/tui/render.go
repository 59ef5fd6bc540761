package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ponderlabs/ponder/pkg/models"
)

var (
	renderHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15"))

	renderStepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	renderActionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Italic(true)

	renderAnswerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34")).
				Bold(true)

	renderDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	highScoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	midScoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	lowScoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	bestPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

// RenderChain formats a chain result for terminal display.
func RenderChain(result *models.ChainResult) string {
	var b strings.Builder

	b.WriteString(renderHeaderStyle.Render("Reasoning Steps"))
	b.WriteString("\n")

	for _, step := range result.Steps {
		confidence := scoreStyle(step.Confidence).Render(fmt.Sprintf("%.2f", step.Confidence))
		b.WriteString(fmt.Sprintf("  %d. %s  %s\n",
			step.Number, renderStepStyle.Render(step.Thought), confidence))
		if step.Action != "" {
			b.WriteString("     ")
			b.WriteString(renderActionStyle.Render("action: " + step.Action))
			b.WriteString("\n")
		}
	}

	if result.Reasoning != "" {
		b.WriteString("\n")
		b.WriteString(renderDimStyle.Render(result.Reasoning))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHeaderStyle.Render("Answer"))
	b.WriteString("\n")
	b.WriteString(renderAnswerStyle.Render(result.FinalAnswer))
	b.WriteString("\n")

	return b.String()
}

// RenderTree formats a tree result for terminal display. The best path is
// highlighted; other explored branches render dimmed.
func RenderTree(result *models.TreeResult) string {
	var b strings.Builder

	onBest := make(map[string]bool, len(result.BestPath))
	for _, n := range result.BestPath {
		onBest[n.ID] = true
	}

	b.WriteString(renderHeaderStyle.Render("Thought Tree"))
	b.WriteString("\n")

	if len(result.AllPaths) > 0 && len(result.AllPaths[0]) > 0 {
		renderNode(&b, result.AllPaths[0][0], "", onBest)
	}

	b.WriteString("\n")
	b.WriteString(renderHeaderStyle.Render("Best Path"))
	b.WriteString("\n")
	b.WriteString(renderDimStyle.Render(result.Reasoning))
	b.WriteString("\n\n")

	b.WriteString(renderHeaderStyle.Render("Answer"))
	b.WriteString("\n")
	b.WriteString(renderAnswerStyle.Render(result.FinalAnswer))
	b.WriteString("\n")

	return b.String()
}

// renderNode renders a node and its subtree with box-drawing connectors.
func renderNode(b *strings.Builder, node *models.ThoughtNode, prefix string, onBest map[string]bool) {
	thought := node.Thought
	if len(thought) > 60 {
		thought = thought[:57] + "..."
	}

	score := scoreStyle(node.Evaluation).Render(fmt.Sprintf("[%.2f]", node.Evaluation))

	style := renderDimStyle
	if onBest[node.ID] {
		style = bestPathStyle
	}

	b.WriteString(fmt.Sprintf("%s%s %s\n", prefix, style.Render(thought), score))

	for i, child := range node.Children {
		connector := "├─ "
		childPrefix := prefix + "│  "
		if i == len(node.Children)-1 {
			connector = "└─ "
			childPrefix = prefix + "   "
		}
		b.WriteString(prefix)
		b.WriteString(renderDimStyle.Render(connector))
		renderChildInline(b, child, childPrefix, onBest)
	}
}

// renderChildInline renders a child without repeating the prefix already
// written for the connector.
func renderChildInline(b *strings.Builder, node *models.ThoughtNode, prefix string, onBest map[string]bool) {
	thought := node.Thought
	if len(thought) > 60 {
		thought = thought[:57] + "..."
	}

	score := scoreStyle(node.Evaluation).Render(fmt.Sprintf("[%.2f]", node.Evaluation))

	style := renderDimStyle
	if onBest[node.ID] {
		style = bestPathStyle
	}

	b.WriteString(fmt.Sprintf("%s %s\n", style.Render(thought), score))

	for i, child := range node.Children {
		connector := "├─ "
		childPrefix := prefix + "│  "
		if i == len(node.Children)-1 {
			connector = "└─ "
			childPrefix = prefix + "   "
		}
		b.WriteString(prefix)
		b.WriteString(renderDimStyle.Render(connector))
		renderChildInline(b, child, childPrefix, onBest)
	}
}

// scoreStyle picks a color band for an evaluation score.
func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 0.7:
		return highScoreStyle
	case score >= 0.4:
		return midScoreStyle
	default:
		return lowScoreStyle
	}
}
