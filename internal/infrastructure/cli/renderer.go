// Package cli implements the cobra command tree and the terminal renderer.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/coaxialdolor/termai/internal/domain"
	"github.com/coaxialdolor/termai/internal/ports"
)

const (
	colorCommand = lipgloss.Color("10") // suggested commands
	colorRisky   = lipgloss.Color("9")
	colorWarning = lipgloss.Color("11")
	colorDim     = lipgloss.Color("8")
)

var (
	commandStyle = lipgloss.NewStyle().Foreground(colorCommand)
	riskyStyle   = lipgloss.NewStyle().Foreground(colorRisky).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	riskPanel    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRisky).
			Padding(0, 1)
)

// Renderer draws human-facing output on the given writer, which is always
// the human channel; in eval mode that is stderr.
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Answer prints the AI response with fenced code lines highlighted. Fence
// markers themselves are dimmed rather than stripped so the user still sees
// what the model produced.
func (r *Renderer) Answer(text string) {
	inFence := false
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			fmt.Fprintln(r.out, dimStyle.Render(line))
			continue
		}
		if inFence {
			fmt.Fprintln(r.out, commandStyle.Render(line))
			continue
		}
		fmt.Fprintln(r.out, line)
	}
}

// CommandList prints the numbered batch with classification markers.
func (r *Renderer) CommandList(batch domain.CommandBatch) {
	fmt.Fprintf(r.out, "\nFound %d commands:\n", batch.Len())
	for _, cmd := range batch.Commands {
		fmt.Fprintf(r.out, "  %d. %s%s\n", cmd.Position, markers(cmd), commandStyle.Render(cmd.Raw))
	}
}

// RiskAssessment prints the danger explanation in a bordered panel.
func (r *Renderer) RiskAssessment(expl domain.RiskExplanation) {
	header := riskyStyle.Render("[RISKY]")
	fmt.Fprintf(r.out, "\n%s\n", riskPanel.Render(header+" "+expl.Text))
	if expl.IsFallback {
		fmt.Fprintln(r.out, dimStyle.Render("(risk assessment unavailable; treat with extra care)"))
	}
}

func (r *Renderer) Notice(msg string) {
	fmt.Fprintln(r.out, dimStyle.Render(msg))
}

func (r *Renderer) Warning(msg string) {
	fmt.Fprintln(r.out, warningStyle.Render(msg))
}

func markers(cmd domain.Command) string {
	var b strings.Builder
	if cmd.Risky {
		b.WriteString(riskyStyle.Render("[RISKY]") + " ")
	}
	if cmd.Stateful {
		b.WriteString(warningStyle.Render("[STATEFUL]") + " ")
	}
	return b.String()
}

var _ ports.Renderer = (*Renderer)(nil)
