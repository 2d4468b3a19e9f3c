package function

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/proto"
)

// decodePayload turns the wire payload into the value the handler will
// receive, according to the configured format.
func (p *Processor) decodePayload(encoded string) (any, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode message: %w", err)
	}

	switch p.format {
	case PayloadJSON:
		// json.Unmarshal replaces invalid UTF-8 with U+FFFD instead of
		// failing, which would hand the handler a silently corrupted
		// payload. The platform contract wants a failure entry.
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("couldn't decode message as UTF-8")
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("couldn't parse message as JSON: %w", err)
		}
		return value, nil

	case PayloadJSONSchema:
		value := p.jsonFactory()
		if err := json.Unmarshal(raw, value); err != nil {
			return nil, fmt.Errorf("couldn't unmarshal message into schema: %w", err)
		}
		return value, nil

	case PayloadProto:
		msg := proto.Clone(p.protoPrototype)
		if err := proto.Unmarshal(raw, msg); err != nil {
			return nil, fmt.Errorf("couldn't unmarshal message into proto schema: %w", err)
		}
		return msg, nil

	default:
		return raw, nil
	}
}

// encodeResult converts the handler's returned payload into the raw bytes
// stored (base64-encoded) in the output envelope. []byte passes through in
// every format; the schema formats additionally accept the typed value and
// marshal it back. Anything else violates the handler contract.
func (p *Processor) encodeResult(payload any) ([]byte, error) {
	if b, ok := payload.([]byte); ok {
		return b, nil
	}

	switch p.format {
	case PayloadJSONSchema:
		out, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("couldn't marshal returned payload to JSON: %w", err)
		}
		return out, nil

	case PayloadProto:
		msg, ok := payload.(proto.Message)
		if !ok {
			return nil, fmt.Errorf("handler returned payload of type %T; must be proto.Message or []byte", payload)
		}
		out, err := proto.Marshal(msg)
		if err != nil {
			return nil, fmt.Errorf("couldn't marshal returned payload to proto: %w", err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("handler returned payload of type %T; must be []byte", payload)
	}
}
