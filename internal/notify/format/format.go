// Package format contains the pure per-channel message formatters.
// Formatting never fails; absent optional fields are omitted from the output.
package format

import (
	"fmt"
	"sort"
	"strings"

	"cicd-dashboard/internal/alert"
)

// EmailMessage is the formatted output for the email channel.
type EmailMessage struct {
	Subject string
	HTML    string
	Text    string
}

// EmbedField is one field of a chat embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// DiscordMessage is the formatted output for the Discord channel.
type DiscordMessage struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
}

// Fact is one name/value pair of a Teams card.
type Fact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TeamsCard is the formatted output for the Teams channel.
type TeamsCard struct {
	Title      string
	Text       string
	ThemeColor string
	Facts      []Fact
	ActionText string
	ActionURL  string
}

// titleKey converts a metadata key to its display form: first letter
// upper-cased, underscores replaced by spaces ("disk_usage" -> "Disk usage").
func titleKey(key string) string {
	if key == "" {
		return key
	}
	key = strings.ReplaceAll(key, "_", " ")
	return strings.ToUpper(key[:1]) + key[1:]
}

// typeLabel converts an alert type to its display form
// ("success_rate_drop" -> "SUCCESS RATE DROP").
func typeLabel(t alert.Type) string {
	return strings.ToUpper(strings.ReplaceAll(string(t), "_", " "))
}

// statusLabel renders a run status for display ("failed" -> "FAILED").
func statusLabel(status string) string {
	return strings.ToUpper(status)
}

// durationLabel renders a duration in seconds, or N/A when unknown.
func durationLabel(seconds int) string {
	if seconds <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%ds", seconds)
}

// sortedKeys returns metadata keys in a stable order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// headline derives the chat title and description for an event.
func headline(e alert.Event) (title, description string) {
	if e.Status != "" {
		status := strings.ToLower(e.Status)
		title = fmt.Sprintf("Pipeline %s", strings.ToUpper(status))
		description = fmt.Sprintf("Pipeline **%s** has %s", e.PipelineName, status)
		return title, description
	}
	title = fmt.Sprintf("System Alert: %s", e.Type)
	description = e.Message
	return title, description
}
