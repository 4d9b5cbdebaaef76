package message

import (
	"fmt"

	"github.com/viant/procpool/internal/idgen"
	"github.com/viant/procpool/model/task"
)

// Message represents a single decoded frame
type Message struct {
	ID        string
	Kind      Kind
	Data      interface{}
	Task      *task.Reference
	Hint      *Hint
	Exception *Exception
	Text      string
}

// Exception describes a worker fault
type Exception struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	File    string `json:"file"`
	Line    int    `json:"line"`
}

func (e *Exception) String() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %s@%d", e.Message, e.File, e.Line)
}

// Frame is a single call-site descriptor
type Frame struct {
	Function string `json:"function,omitempty"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
}

// Hint is a fire-and-forget diagnostic emitted by a running task
type Hint struct {
	From    *Frame      `json:"from,omitempty"`
	Message interface{} `json:"message"`
}

// IsTerminal returns true for Dead and Finished
func (m *Message) IsTerminal() bool {
	return m != nil && (m.Kind == KindDead || m.Kind == KindFinished)
}

// Payload returns the kind specific payload
func (m *Message) Payload() interface{} {
	if m == nil {
		return nil
	}
	switch m.Kind {
	case KindData:
		return m.Data
	case KindExecutable:
		return m.Task
	case KindHint:
		return m.Hint
	case KindException:
		return m.Exception
	case KindUnknown:
		return m.Text
	default:
		return nil
	}
}

func (m *Message) String() string {
	if m == nil {
		return "<nil>"
	}
	switch m.Kind {
	case KindDead, KindFinished:
		return m.Kind.String()
	case KindException:
		return m.Kind.String() + ": " + m.Exception.String()
	default:
		return fmt.Sprintf("%s: %v", m.Kind, m.Payload())
	}
}

func newMessage(kind Kind) *Message {
	return &Message{ID: idgen.New(), Kind: kind}
}

// NewData creates a data message
func NewData(value interface{}) *Message {
	ret := newMessage(KindData)
	ret.Data = value
	return ret
}

// NewExecutable creates an executable message
func NewExecutable(ref *task.Reference) *Message {
	ret := newMessage(KindExecutable)
	ret.Task = ref
	return ret
}

// NewHint creates a hint message
func NewHint(hint *Hint) *Message {
	ret := newMessage(KindHint)
	ret.Hint = hint
	return ret
}

// NewException creates an exception message
func NewException(exception *Exception) *Message {
	ret := newMessage(KindException)
	ret.Exception = exception
	return ret
}

// NewDead creates a dead message
func NewDead() *Message {
	return newMessage(KindDead)
}

// NewFinished creates a finished message
func NewFinished() *Message {
	return newMessage(KindFinished)
}

// NewUnknown creates an unknown message
func NewUnknown(text string) *Message {
	ret := newMessage(KindUnknown)
	ret.Text = text
	return ret
}
