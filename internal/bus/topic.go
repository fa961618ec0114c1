package bus

import (
	"fmt"
	"regexp"
	"strings"
)

// Well-known topics. Pipeline topics are derived per pipeline ID.
const (
	TopicDashboard = "dashboard"
	TopicAlerts    = "alerts"

	pipelineTopicPrefix = "pipeline:"
)

// Pipeline ID validation constants.
const (
	MinPipelineIDLength = 1
	MaxPipelineIDLength = 50
)

// pipelineIDPattern matches valid pipeline IDs: alphanumeric, underscore, and hyphen.
var pipelineIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// TopicValidationError reports a rejected topic name.
type TopicValidationError struct {
	Topic   string
	Message string
}

func (e *TopicValidationError) Error() string {
	return fmt.Sprintf("invalid topic %q: %s", e.Topic, e.Message)
}

// PipelineTopic returns the topic carrying run events for one pipeline.
func PipelineTopic(pipelineID string) string {
	return pipelineTopicPrefix + pipelineID
}

// ValidateTopic checks that a client-supplied topic is one of the
// allowed names. Topic matching elsewhere is exact: "pipeline:42" and
// "pipeline:4" are unrelated.
func ValidateTopic(topic string) error {
	switch topic {
	case TopicDashboard, TopicAlerts:
		return nil
	}

	if !strings.HasPrefix(topic, pipelineTopicPrefix) {
		return &TopicValidationError{Topic: topic, Message: "unknown topic"}
	}

	id := strings.TrimPrefix(topic, pipelineTopicPrefix)
	if len(id) < MinPipelineIDLength || len(id) > MaxPipelineIDLength {
		return &TopicValidationError{
			Topic:   topic,
			Message: fmt.Sprintf("pipeline ID must be %d-%d characters", MinPipelineIDLength, MaxPipelineIDLength),
		}
	}
	if !pipelineIDPattern.MatchString(id) {
		return &TopicValidationError{
			Topic:   topic,
			Message: "pipeline ID allows only alphanumeric, underscore, and hyphen",
		}
	}
	return nil
}
