package format

import (
	"fmt"
	"strings"

	"cicd-dashboard/internal/alert"
)

// severityColor maps the reported severity label to the badge/header color.
func severityColor(label string) string {
	switch strings.ToLower(label) {
	case "critical":
		return "#d32f2f"
	case "high":
		return "#f57c00"
	case "medium":
		return "#fbc02d"
	case "low":
		return "#388e3c"
	default:
		return "#757575"
	}
}

const emailTimeFormat = "2006-01-02 15:04:05"

// Email formats an alert event as an HTML document with a plain-text fallback.
// dashboardURL is rendered as the "View Dashboard" link target.
func Email(e alert.Event, dashboardURL string) EmailMessage {
	subject := fmt.Sprintf("🚨 CI/CD Alert: %s - %s", e.PipelineName, e.Type)

	label := e.SeverityLabel
	if label == "" {
		label = string(e.Severity)
	}
	color := severityColor(label)
	badge := strings.ToUpper(label)
	when := e.Timestamp.Local().Format(emailTimeFormat)

	var details strings.Builder
	details.WriteString(fmt.Sprintf("<p>%s</p>\n", e.Message))
	if e.RunID != "" {
		details.WriteString(fmt.Sprintf("<p><strong>Run ID:</strong> %s</p>\n", e.RunID))
	}
	if e.Branch != "" {
		details.WriteString(fmt.Sprintf("<p><strong>Branch:</strong> %s</p>\n", e.Branch))
	}
	if e.CommitSHA != "" {
		details.WriteString(fmt.Sprintf("<p><strong>Commit:</strong> %s</p>\n", e.ShortCommit()))
	}

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  .container { font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; }
  .header { background-color: %[1]s; color: white; padding: 20px; text-align: center; }
  .content { padding: 20px; }
  .details { background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 15px 0; }
  .footer { background-color: #333; color: white; padding: 15px; text-align: center; font-size: 12px; }
  .severity { display: inline-block; padding: 5px 15px; border-radius: 3px; color: white; background-color: %[1]s; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>🚨 CI/CD Pipeline Alert</h1>
    <h2>%[2]s</h2>
  </div>
  <div class="content">
    <p><strong>Alert Type:</strong> %[3]s</p>
    <p><strong>Severity:</strong> <span class="severity">%[4]s</span></p>
    <p><strong>Time:</strong> %[5]s</p>
    <div class="details">
      <h3>Details</h3>
%[6]s    </div>
    <p>Please check the CI/CD Dashboard for more details:</p>
    <p><a href="%[7]s" style="background-color: #1976d2; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">View Dashboard</a></p>
  </div>
  <div class="footer">
    <p>This is an automated message from CI/CD Pipeline Health Dashboard</p>
  </div>
</div>
</body>
</html>`,
		color, e.PipelineName, typeLabel(e.Type), badge, when, details.String(), dashboardURL)

	var text strings.Builder
	text.WriteString(fmt.Sprintf("CI/CD Pipeline Alert: %s\n\n", e.PipelineName))
	text.WriteString(fmt.Sprintf("Alert Type: %s\n", typeLabel(e.Type)))
	text.WriteString(fmt.Sprintf("Severity: %s\n", badge))
	text.WriteString(fmt.Sprintf("Time: %s\n\n", when))
	text.WriteString("Details:\n")
	text.WriteString(e.Message + "\n")
	if e.RunID != "" {
		text.WriteString(fmt.Sprintf("Run ID: %s\n", e.RunID))
	}
	if e.Branch != "" {
		text.WriteString(fmt.Sprintf("Branch: %s\n", e.Branch))
	}
	if e.CommitSHA != "" {
		text.WriteString(fmt.Sprintf("Commit: %s\n", e.ShortCommit()))
	}
	text.WriteString("\nPlease check the CI/CD Dashboard for more details:\n")
	text.WriteString(dashboardURL + "\n")

	return EmailMessage{
		Subject: subject,
		HTML:    html,
		Text:    text.String(),
	}
}
