package function

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"
)

// Entrypoint is the signature the platform runtime invokes for each event.
// The returned value is either the output envelope as json.RawMessage or, on
// the unrecoverable final-encoding failure, a plain descriptive string.
type Entrypoint func(ctx context.Context, event *Event) (any, error)

// NewEntrypoint builds the platform handler for the given user handler
// without starting the runtime loop. Useful for local harnesses and tests.
func NewEntrypoint(handler HandlerFunc, opts ...Option) (Entrypoint, error) {
	processor, err := NewProcessor(handler, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create processor: %w", err)
	}

	return func(ctx context.Context, event *Event) (any, error) {
		processed := processor.Process(ctx, event)
		out, err := processed.Encode()
		if err != nil {
			// The platform contract wants the descriptive text in place of
			// the envelope rather than an invocation error.
			return string(out), nil
		}
		return json.RawMessage(out), nil
	}, nil
}

// CreateFunction binds the handler as this function's entrypoint and starts
// the platform runtime loop. It never returns.
func CreateFunction(handler HandlerFunc, opts ...Option) {
	entrypoint, err := NewEntrypoint(handler, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create function entrypoint")
	}
	lambda.Start(entrypoint)
}
