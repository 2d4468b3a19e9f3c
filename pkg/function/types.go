package function

import (
	"encoding/json"
	"fmt"
)

// Message is a single unit of work inside an Event. The payload travels as
// base64 text on the wire; the processor decodes it before the handler sees it.
type Message struct {
	// Headers holds the broker metadata attached to the message.
	Headers map[string]string `json:"headers"`
	// Payload is the base64-encoded message body.
	Payload string `json:"payload"`
}

// Event is the envelope the platform runtime delivers for one invocation:
// an ordered batch of messages plus the static inputs configured for the
// function. Inputs are passed unchanged to every handler call.
type Event struct {
	Messages []Message         `json:"messages"`
	Inputs   map[string]string `json:"inputs"`
}

// FailedMessage pairs an unprocessed message with the error that stopped it.
// The payload is the original base64 text, untouched, so the dead-letter
// station receives exactly what was delivered.
type FailedMessage struct {
	Headers map[string]string `json:"headers"`
	Payload string            `json:"payload"`
	Error   string            `json:"error"`
}

// ProcessedEvent is the partitioned result of one invocation. Messages holds
// the successfully transformed batch in input order; FailedMessages holds the
// failures, also in input order, for routing to the dead-letter station.
// Both slices are always non-nil so an empty result serializes as [] and not
// null.
type ProcessedEvent struct {
	Messages       []Message       `json:"messages"`
	FailedMessages []FailedMessage `json:"failed_messages"`
}

// Encode serializes the result to the platform's output envelope as UTF-8
// JSON bytes.
//
// If serialization itself fails, Encode returns a descriptive plain-text
// message in place of the envelope along with a non-nil error; this is the
// only failure in the pipeline that is not contained to a single message, and
// callers must use the error to tell the two results apart.
func (e *ProcessedEvent) Encode() ([]byte, error) {
	out, err := json.Marshal(e)
	if err != nil {
		desc := fmt.Sprintf("processed messages could not be converted into JSON: %v", err)
		return []byte(desc), fmt.Errorf("failed to encode processed event: %w", err)
	}
	return out, nil
}
