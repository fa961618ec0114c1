package format

import (
	"fmt"

	"cicd-dashboard/internal/alert"
)

// Embed colors by channel severity.
const (
	discordColorSuccess = 0x00ff00
	discordColorWarning = 0xffff00
	discordColorError   = 0xff0000
	discordColorInfo    = 0x0099ff
)

func discordColor(severity alert.Severity) int {
	switch severity {
	case alert.SeveritySuccess:
		return discordColorSuccess
	case alert.SeverityWarning:
		return discordColorWarning
	case alert.SeverityError:
		return discordColorError
	default:
		return discordColorInfo
	}
}

// Discord formats an alert event as a chat embed.
func Discord(e alert.Event) DiscordMessage {
	title, description := headline(e)
	if e.Status != "" {
		description = fmt.Sprintf("%s %s", alert.StatusEmoji(e.Status), description)
	}

	var fields []EmbedField
	if e.Status != "" {
		fields = append(fields,
			EmbedField{Name: "Pipeline", Value: e.PipelineName, Inline: true},
			EmbedField{Name: "Status", Value: statusLabel(e.Status), Inline: true},
			EmbedField{Name: "Duration", Value: durationLabel(e.Duration), Inline: true},
		)
	}

	for _, key := range sortedKeys(e.Metadata) {
		fields = append(fields, EmbedField{
			Name:   titleKey(key),
			Value:  e.Metadata[key],
			Inline: true,
		})
	}

	return DiscordMessage{
		Title:       fmt.Sprintf("🔔 %s", title),
		Description: description,
		Color:       discordColor(e.Severity),
		Fields:      fields,
	}
}
