package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/viant/procpool/model/message"
	"github.com/viant/procpool/model/task"
)

// Delimiter bounds every frame on the wire
const Delimiter byte = 0x00

// ErrDelimiterInPayload is returned when an encoded payload would contain the delimiter
var ErrDelimiterInPayload = errors.New("codec: payload contains frame delimiter")

const nilSentinel = "nil"

type envelope struct {
	Kind      string             `json:"$msg"`
	ID        string             `json:"id,omitempty"`
	Data      interface{}        `json:"data,omitempty"`
	Task      *task.Reference    `json:"task,omitempty"`
	Hint      *message.Hint      `json:"hint,omitempty"`
	Exception *message.Exception `json:"exception,omitempty"`
	Text      string             `json:"text,omitempty"`
}

type reference struct {
	Handler string      `json:"$task"`
	Args    interface{} `json:"args,omitempty"`
}

type probe struct {
	Kind    *string `json:"$msg"`
	Handler *string `json:"$task"`
}

// Marshal encodes a value as a frame payload (without delimiters)
func Marshal(v interface{}) ([]byte, error) {
	var payload []byte
	var err error
	switch actual := v.(type) {
	case *message.Message:
		payload, err = json.Marshal(toEnvelope(actual))
	case message.Message:
		payload, err = json.Marshal(toEnvelope(&actual))
	case *task.Reference:
		payload, err = json.Marshal(&reference{Handler: actual.Handler, Args: actual.Args})
	case task.Reference:
		payload, err = json.Marshal(&reference{Handler: actual.Handler, Args: actual.Args})
	default:
		payload, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	if bytes.IndexByte(payload, Delimiter) != -1 {
		return nil, ErrDelimiterInPayload
	}
	return payload, nil
}

// Encode returns a complete frame: delimiter, payload, delimiter
func Encode(v interface{}) ([]byte, error) {
	payload, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	frame := make([]byte, 0, len(payload)+2)
	frame = append(frame, Delimiter)
	frame = append(frame, payload...)
	frame = append(frame, Delimiter)
	return frame, nil
}

// Decode converts a frame payload into a message. It never fails: payloads
// that are not messages or task references degrade to Data.
func Decode(payload []byte) *message.Message {
	trimmed := bytes.TrimSpace(payload)
	if string(trimmed) == nilSentinel || string(trimmed) == "null" {
		return message.NewData(nil)
	}
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var p probe
		if err := json.Unmarshal(trimmed, &p); err == nil {
			if p.Kind != nil {
				if msg, ok := decodeEnvelope(trimmed); ok {
					return msg
				}
			} else if p.Handler != nil {
				var ref reference
				if err = json.Unmarshal(trimmed, &ref); err == nil {
					return message.NewExecutable(&task.Reference{Handler: ref.Handler, Args: ref.Args})
				}
			}
		}
	}
	var value interface{}
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return message.NewData(string(payload))
	}
	return message.NewData(value)
}

func decodeEnvelope(payload []byte) (*message.Message, bool) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, false
	}
	kind, ok := message.ParseKind(env.Kind)
	if !ok {
		return nil, false
	}
	var msg *message.Message
	switch kind {
	case message.KindData:
		msg = message.NewData(env.Data)
	case message.KindExecutable:
		if env.Task == nil {
			return nil, false
		}
		msg = message.NewExecutable(env.Task)
	case message.KindHint:
		hint := env.Hint
		if hint == nil {
			hint = &message.Hint{}
		}
		msg = message.NewHint(hint)
	case message.KindException:
		exception := env.Exception
		if exception == nil {
			exception = &message.Exception{}
		}
		msg = message.NewException(exception)
	case message.KindDead:
		msg = message.NewDead()
	case message.KindFinished:
		msg = message.NewFinished()
	case message.KindUnknown:
		msg = message.NewUnknown(env.Text)
	}
	if env.ID != "" {
		msg.ID = env.ID
	}
	return msg, true
}

func toEnvelope(msg *message.Message) *envelope {
	return &envelope{
		Kind:      msg.Kind.String(),
		ID:        msg.ID,
		Data:      msg.Data,
		Task:      msg.Task,
		Hint:      msg.Hint,
		Exception: msg.Exception,
		Text:      msg.Text,
	}
}
