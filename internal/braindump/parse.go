package braindump

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/logger"
)

var ErrMissingTasks = errors.New(`response has no "tasks" field`)

// ExtractedTask is one record of the model's output, before it is tied to a user.
// Fields are decoded loosely: a record with an odd value type is kept, never rejected.
type ExtractedTask struct {
	Title    string
	Category string
	Urgency  string
	// Effort is nil when the model left the field out or sent null.
	Effort   *string
	Priority float64
}

// UnmarshalJSON accepts any JSON value per field. Scalars are stringified for
// the text fields; priority takes a number or a numeric string and falls back to 0.
// A record that is not an object decodes to an empty task.
func (e *ExtractedTask) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		*e = ExtractedTask{}
		return nil
	}

	e.Title, _ = scalarText(fields["title"])
	e.Category, _ = scalarText(fields["category"])
	e.Urgency, _ = scalarText(fields["urgency"])
	if effort, ok := scalarText(fields["effort"]); ok {
		e.Effort = &effort
	} else {
		e.Effort = nil
	}
	e.Priority = looseNumber(fields["priority"])
	return nil
}

// scalarText renders a raw JSON value as text. ok is false for a missing or null value.
func scalarText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, true
		}
	}
	return string(raw), true
}

func looseNumber(raw json.RawMessage) float64 {
	text, ok := scalarText(raw)
	if !ok {
		return 0
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// ParseResult is either a task list or a degraded empty list carrying the reason.
type ParseResult struct {
	Tasks    []ExtractedTask
	Degraded bool
	Err      error
}

var fenceMarkers = []string{"```json\n", "```json", "```\n", "```"}

// StripCodeFences removes every code-fence marker by literal substring removal and trims the rest.
func StripCodeFences(text string) string {
	for _, marker := range fenceMarkers {
		text = strings.ReplaceAll(text, marker, "")
	}
	return strings.TrimSpace(text)
}

type extractionPayload struct {
	Tasks *[]ExtractedTask `json:"tasks"`
}

// ParseResponse decodes the model text. It never fails: non-JSON output or a
// missing "tasks" list degrades to an empty list.
func ParseResponse(text string) ParseResult {
	cleaned := StripCodeFences(text)

	var payload extractionPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return degrade(err, cleaned)
	}
	if payload.Tasks == nil {
		return degrade(ErrMissingTasks, cleaned)
	}
	return ParseResult{Tasks: *payload.Tasks}
}

func degrade(err error, text string) ParseResult {
	logger.Error("Pipeline: failed to parse extraction response", err, zap.String("text", text))
	return ParseResult{Tasks: []ExtractedTask{}, Degraded: true, Err: err}
}

// PriorityScore rounds the model's score to an integer without clamping it.
func (e ExtractedTask) PriorityScore() int {
	return int(math.Round(e.Priority))
}
