package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Renderer struct {
	title   lipgloss.Style
	job     lipgloss.Style
	label   lipgloss.Style
	score   lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	card    lipgloss.Style
}

func NewRenderer() *Renderer {
	return &Renderer{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		job:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		score:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),
	}
}

// Render prints a poll result the way the upload page shows it: a ranked
// card per job, or a hint to poll again.
func (r *Renderer) Render(res Result) string {
	if res.Status != StatusReady {
		return r.warning.Render(fmt.Sprintf("Resume %s is still processing. Try again later with: poll %s", res.Filename, res.Filename))
	}
	if len(res.Matches) == 0 {
		return r.warning.Render("No job matches were produced for " + res.Filename)
	}

	var b strings.Builder
	b.WriteString(r.title.Render("Top job matches for " + res.Filename))
	b.WriteString("\n")
	for i, m := range res.Matches {
		skills := "none"
		if len(m.MatchedSkills) > 0 {
			skills = strings.Join(m.MatchedSkills, ", ")
		}
		lines := []string{
			r.job.Render(fmt.Sprintf("%d. %s", i+1, m.JobTitle)) + "  " + r.score.Render(fmt.Sprintf("%.2f%%", m.MatchPercentage)),
			r.label.Render("Company: ") + m.Company,
			r.label.Render("Location: ") + m.Location,
			r.label.Render("Salary: ") + m.Salary,
			r.label.Render("Matched skills: ") + skills,
			r.label.Render("Career path: ") + m.CareerPath,
		}
		b.WriteString(r.card.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) RenderError(err error) string {
	var upload *UploadError
	if errors.As(err, &upload) {
		return r.failure.Render(upload.Error())
	}
	return r.failure.Render("Error: " + err.Error())
}
