package alert

import "strings"

// MapSeverity reconciles the alert-history taxonomy (low/medium/high/critical)
// with the channel-level taxonomy. Channel-level values pass through unchanged;
// unknown values fall back to info.
func MapSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "critical", "high":
		return SeverityError
	case "medium":
		return SeverityWarning
	case "low":
		return SeverityInfo
	case string(SeverityInfo), string(SeverityWarning), string(SeverityError), string(SeveritySuccess):
		return Severity(strings.ToLower(s))
	default:
		return SeverityInfo
	}
}

// SeverityFromRunStatus derives the channel severity from a pipeline run status.
func SeverityFromRunStatus(status string) Severity {
	switch strings.ToLower(status) {
	case "success":
		return SeveritySuccess
	case "failed":
		return SeverityError
	default:
		return SeverityWarning
	}
}

// StatusEmoji returns the emoji used in chat messages for a run status.
func StatusEmoji(status string) string {
	switch strings.ToLower(status) {
	case "success":
		return "✅"
	case "failed":
		return "❌"
	default:
		return "⚠️"
	}
}
