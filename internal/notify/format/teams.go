package format

import (
	"fmt"

	"cicd-dashboard/internal/alert"
)

func teamsThemeColor(severity alert.Severity) string {
	switch severity {
	case alert.SeveritySuccess:
		return "00FF00"
	case alert.SeverityWarning:
		return "FFA500"
	case alert.SeverityError:
		return "FF0000"
	default:
		return "0078D4"
	}
}

func teamsEmoji(severity alert.Severity) string {
	switch severity {
	case alert.SeveritySuccess:
		return "✅"
	case alert.SeverityWarning:
		return "⚠️"
	case alert.SeverityError:
		return "❌"
	default:
		return "ℹ️"
	}
}

// Teams formats an alert event as an incoming-webhook message card.
// dashboardURL, when non-empty, becomes a single action button.
func Teams(e alert.Event, dashboardURL string) TeamsCard {
	title, description := headline(e)

	var facts []Fact
	actionText := "View Monitoring"
	actionPath := "/monitoring"

	if e.Status != "" {
		facts = append(facts,
			Fact{Name: "Pipeline", Value: e.PipelineName},
			Fact{Name: "Status", Value: statusLabel(e.Status)},
			Fact{Name: "Duration", Value: durationLabel(e.Duration)},
		)
		if e.CommitSHA != "" {
			facts = append(facts, Fact{Name: "Commit", Value: e.ShortCommit()})
		}
		if e.Branch != "" {
			facts = append(facts, Fact{Name: "Branch", Value: e.Branch})
		}
		actionText = "View Dashboard"
		actionPath = "/pipelines"
	}

	for _, key := range sortedKeys(e.Metadata) {
		facts = append(facts, Fact{Name: titleKey(key), Value: e.Metadata[key]})
	}

	card := TeamsCard{
		Title:      fmt.Sprintf("%s %s", teamsEmoji(e.Severity), title),
		Text:       description,
		ThemeColor: teamsThemeColor(e.Severity),
		Facts:      facts,
	}
	if dashboardURL != "" {
		card.ActionText = actionText
		card.ActionURL = dashboardURL + actionPath
	}
	return card
}
