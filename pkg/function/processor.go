package function

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"
)

// Processor applies a HandlerFunc to every message of an Event, strictly
// sequentially and in input order, and partitions the outcomes into kept and
// failed messages. A Processor holds no per-invocation state and is safe to
// reuse across events.
type Processor struct {
	handler        HandlerFunc
	format         PayloadFormat
	jsonFactory    func() any
	protoPrototype proto.Message
	asyncInvoke    bool
	logger         zerolog.Logger
}

// NewProcessor creates a Processor for the given handler.
func NewProcessor(handler HandlerFunc, opts ...Option) (*Processor, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	p := &Processor{
		handler: handler,
		format:  PayloadBytes,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("failed to apply processor option: %w", err)
		}
	}
	p.logger = p.logger.With().Str("component", "Processor").Logger()

	return p, nil
}

// outcomeKind tags the result of processing one message.
type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeFiltered
	outcomeFailed
)

// outcome is the per-message result produced by processMessage. Exactly one
// of message/failure is meaningful, selected by kind.
type outcome struct {
	kind    outcomeKind
	message Message
	failure FailedMessage
}

// Process runs the handler over every message in the event and returns the
// partitioned result. A failing message never aborts its siblings: every
// error short of final envelope encoding is contained to a failure entry for
// that one message. Process itself never fails.
func (p *Processor) Process(ctx context.Context, event *Event) *ProcessedEvent {
	logger := p.logger.With().Str("invocation_id", uuid.NewString()).Logger()

	if event == nil {
		logger.Warn().Msg("Received nil event, returning empty result.")
		return &ProcessedEvent{
			Messages:       make([]Message, 0),
			FailedMessages: make([]FailedMessage, 0),
		}
	}

	processed := &ProcessedEvent{
		Messages:       make([]Message, 0, len(event.Messages)),
		FailedMessages: make([]FailedMessage, 0),
	}

	for i, msg := range event.Messages {
		out := p.processMessage(ctx, msg, event.Inputs)
		switch out.kind {
		case outcomeSuccess:
			processed.Messages = append(processed.Messages, out.message)
		case outcomeFiltered:
			logger.Debug().Int("message_index", i).Msg("Handler filtered message out of the batch.")
		case outcomeFailed:
			logger.Warn().Int("message_index", i).Str("error", out.failure.Error).Msg("Message failed, routing to dead-letter list.")
			processed.FailedMessages = append(processed.FailedMessages, out.failure)
		}
	}

	logger.Info().
		Int("received", len(event.Messages)).
		Int("processed", len(processed.Messages)).
		Int("failed", len(processed.FailedMessages)).
		Msg("Finished processing event.")

	return processed
}

// processMessage is the pure per-message step: decode, invoke, validate. It
// always returns a tagged outcome and never panics; the aggregation loop in
// Process does no error handling of its own.
func (p *Processor) processMessage(ctx context.Context, msg Message, inputs map[string]string) outcome {
	fail := func(err error) outcome {
		return outcome{
			kind: outcomeFailed,
			failure: FailedMessage{
				Headers: msg.Headers,
				Payload: msg.Payload,
				Error:   err.Error(),
			},
		}
	}

	payload, err := p.decodePayload(msg.Payload)
	if err != nil {
		return fail(err)
	}

	resultPayload, resultHeaders, err := p.invoke(ctx, payload, msg.Headers, inputs)
	if err != nil {
		return fail(err)
	}

	// Both nil means the handler chose to drop the message. One nil without
	// the other is a malformed result, not a filter.
	switch {
	case resultPayload == nil && resultHeaders == nil:
		return outcome{kind: outcomeFiltered}
	case resultPayload == nil:
		return fail(fmt.Errorf("handler returned headers without a payload; either both must be nil or neither"))
	case resultHeaders == nil:
		return fail(fmt.Errorf("handler returned a payload without headers; either both must be nil or neither"))
	}

	raw, err := p.encodeResult(resultPayload)
	if err != nil {
		return fail(err)
	}

	return outcome{
		kind: outcomeSuccess,
		message: Message{
			Headers: resultHeaders,
			Payload: base64.StdEncoding.EncodeToString(raw),
		},
	}
}

// invoke calls the handler in the configured mode. In async mode the call
// runs in its own goroutine and is awaited to completion, so sequencing is
// identical either way. There is no timeout: a handler that never returns
// stalls the batch, which is the platform's documented behaviour.
func (p *Processor) invoke(ctx context.Context, payload any, headers map[string]string, inputs map[string]string) (any, map[string]string, error) {
	if !p.asyncInvoke {
		return p.call(ctx, payload, headers, inputs)
	}

	type result struct {
		payload any
		headers map[string]string
		err     error
	}
	done := make(chan result, 1)
	go func() {
		rp, rh, err := p.call(ctx, payload, headers, inputs)
		done <- result{payload: rp, headers: rh, err: err}
	}()
	r := <-done
	return r.payload, r.headers, r.err
}

// call wraps the raw handler invocation so a panic inside user code becomes
// an error confined to the current message.
func (p *Processor) call(ctx context.Context, payload any, headers map[string]string, inputs map[string]string) (resultPayload any, resultHeaders map[string]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			resultPayload, resultHeaders = nil, nil
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return p.handler(ctx, payload, headers, inputs)
}
