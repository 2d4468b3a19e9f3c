package function

import "context"

// HandlerFunc is the user-supplied transformation applied to each message in
// the batch. It receives the decoded payload, the message headers, and the
// event's static inputs, and returns the transformed payload and headers.
//
// The concrete type of payload depends on the processor's configured format:
// []byte by default, a generic JSON value with WithJSONPayload, a caller-typed
// value with WithJSONSchema, or a proto.Message with WithProtoSchema.
//
// Return contract:
//   - (payload, headers, nil): the message is transformed and kept. In the
//     default and JSON formats the payload must be []byte; the schema formats
//     additionally accept the typed value, which the processor re-marshals.
//   - (nil, nil, nil): the message is intentionally filtered out and appears
//     in neither output sequence.
//   - a non-nil error: the message is recorded as failed with its original
//     payload and the error text, and processing moves on to the next message.
//
// Returning a payload without headers, or headers without a payload, is a
// contract violation and is recorded as a failure. A panic inside the handler
// is captured and recorded as a failure for that message only.
type HandlerFunc func(ctx context.Context, payload any, headers map[string]string, inputs map[string]string) (any, map[string]string, error)
