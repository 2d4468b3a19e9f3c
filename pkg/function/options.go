package function

import (
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"
)

// PayloadFormat selects how the base64-decoded message body is presented to
// the handler, and what the handler is allowed to return.
type PayloadFormat int

const (
	// PayloadBytes hands the handler the raw decoded bytes. Default.
	PayloadBytes PayloadFormat = iota
	// PayloadJSON parses the decoded bytes as a generic JSON value.
	PayloadJSON
	// PayloadJSONSchema unmarshals the decoded bytes into a fresh
	// caller-typed value per message.
	PayloadJSONSchema
	// PayloadProto unmarshals the decoded bytes into a clone of a
	// caller-supplied protobuf prototype per message.
	PayloadProto
)

// Option configures a Processor at construction time.
type Option func(*Processor) error

// WithJSONPayload makes the processor parse each decoded payload as JSON
// before invoking the handler. A payload that does not parse is recorded as a
// failure for that message. The handler still returns its result as []byte.
func WithJSONPayload() Option {
	return func(p *Processor) error {
		p.format = PayloadJSON
		return nil
	}
}

// WithJSONSchema makes the processor unmarshal each payload into a fresh
// value produced by factory, typically a pointer to a caller-defined struct.
// The handler may return either the (modified) typed value, which the
// processor marshals back to JSON, or a ready []byte.
func WithJSONSchema(factory func() any) Option {
	return func(p *Processor) error {
		if factory == nil {
			return fmt.Errorf("JSON schema factory cannot be nil")
		}
		p.format = PayloadJSONSchema
		p.jsonFactory = factory
		return nil
	}
}

// WithProtoSchema makes the processor unmarshal each payload into a clone of
// prototype. The handler may return either a proto.Message, which the
// processor marshals back to the wire format, or a ready []byte.
func WithProtoSchema(prototype proto.Message) Option {
	return func(p *Processor) error {
		if prototype == nil {
			return fmt.Errorf("proto schema prototype cannot be nil")
		}
		p.format = PayloadProto
		p.protoPrototype = prototype
		return nil
	}
}

// WithAsyncInvoke runs each handler call in its own goroutine and waits for
// it to finish before moving to the next message. Sequencing is identical to
// the direct mode; this exists for handlers that perform blocking work and
// mirrors the platform's awaited-handler calling convention.
func WithAsyncInvoke() Option {
	return func(p *Processor) error {
		p.asyncInvoke = true
		return nil
	}
}

// WithLogger attaches a logger to the processor. The default is zerolog.Nop.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Processor) error {
		p.logger = logger
		return nil
	}
}
