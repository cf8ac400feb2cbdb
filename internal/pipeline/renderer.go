package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/fabula/internal/model"
)

// Renderer writes reports to files and the terminal
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report summary
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Backstory Check: %s\n\n", report.Book)
	fmt.Fprintf(&b, "- Source: `%s`\n", report.Source)
	fmt.Fprintf(&b, "- Checked: %s\n", report.CheckedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Passages: %d\n", report.Passages)
	fmt.Fprintf(&b, "- Decision: **%d** — %s\n\n", report.Decision.Label, report.Decision.Rationale)

	b.WriteString("## Claims\n\n")
	b.WriteString("| Status | Type | Core | Weight | Claim |\n")
	b.WriteString("|--------|------|------|--------|-------|\n")
	for i, v := range report.Verdicts {
		claim := report.Claims[i]
		core := ""
		if claim.CoreTrait {
			core = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %.2f | %s |\n",
			v.Status, claim.Type, core, claim.ImportanceWeight, escapePipes(claim.Text))
	}
	b.WriteString("\n")

	for i, v := range report.Verdicts {
		if len(v.Contradicting) == 0 && len(v.Supporting) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s — %s\n\n", report.Claims[i].Text, v.Status)
		for _, ev := range v.Contradicting {
			fmt.Fprintf(&b, "- ✗ contradicts (passage %d, score %.3f): %s\n", ev.Position, ev.RelevanceScore, snippet(ev.Text, 160))
		}
		for _, ev := range v.Supporting {
			fmt.Fprintf(&b, "- ✓ supports (passage %d, score %.3f): %s\n", ev.Position, ev.RelevanceScore, snippet(ev.Text, 160))
		}
		b.WriteString("\n")
	}

	if report.LLM != nil && report.LLM.Enabled {
		b.WriteString("## Explanation (LLM, informational only)\n\n")
		b.WriteString(report.LLM.Text)
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short decision summary to stderr
func (r *Renderer) RenderSummary(report *model.Report) {
	pass, fail, unknown := 0, 0, 0
	for _, v := range report.Verdicts {
		switch v.Status {
		case model.StatusPass:
			pass++
		case model.StatusFail:
			fail++
		default:
			unknown++
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Book:      %s\n", report.Book)
	fmt.Fprintf(os.Stderr, "  Claims:    %d (%d supported, %d contradicted, %d undetermined)\n",
		len(report.Verdicts), pass, fail, unknown)
	fmt.Fprintf(os.Stderr, "  Decision:  %d — %s\n", report.Decision.Label, report.Decision.Rationale)
	fmt.Fprintf(os.Stderr, "\n")
}

func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > n {
		s = s[:n] + "..."
	}
	return s
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
