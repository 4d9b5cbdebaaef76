package codec

import (
	"github.com/viant/procpool/model/message"
)

// Buffer deframes a byte stream into messages.
//
// A frame left open at the end of a chunk is carried over to the next Feed,
// so frames split across reads are reassembled.  Text outside of frames within
// one Feed call is joined into a single Unknown message queued after that
// call's frames.
type Buffer struct {
	open     bool
	partial  []byte
	messages []*message.Message
}

// NewBuffer creates a buffer
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Feed scans a chunk and queues every complete message; it returns the
// messages queued by this call.
func (b *Buffer) Feed(chunk []byte) []*message.Message {
	if len(chunk) == 0 {
		return nil
	}
	var frames []*message.Message
	var stray []byte
	for _, c := range chunk {
		if c == Delimiter {
			if b.open {
				if len(b.partial) > 0 {
					frames = append(frames, Decode(b.partial))
				}
				b.open = false
				b.partial = nil
				continue
			}
			b.open = true
			b.partial = make([]byte, 0, 256)
			continue
		}
		if b.open {
			b.partial = append(b.partial, c)
			continue
		}
		stray = append(stray, c)
	}
	if len(stray) > 0 {
		frames = append(frames, message.NewUnknown(string(stray)))
	}
	b.messages = append(b.messages, frames...)
	return frames
}

// Flush surfaces an unterminated frame as Unknown; used once the stream ended.
func (b *Buffer) Flush() *message.Message {
	if !b.open {
		return nil
	}
	b.open = false
	text := string(append([]byte{Delimiter}, b.partial...))
	b.partial = nil
	msg := message.NewUnknown(text)
	b.messages = append(b.messages, msg)
	return msg
}

// Next returns the oldest queued message or nil
func (b *Buffer) Next() *message.Message {
	if len(b.messages) == 0 {
		return nil
	}
	ret := b.messages[0]
	b.messages[0] = nil
	b.messages = b.messages[1:]
	return ret
}

// Push queues a message produced outside of the wire (for example a
// synthesized Dead when the stream ends)
func (b *Buffer) Push(msg *message.Message) {
	b.messages = append(b.messages, msg)
}

// Len returns number of queued messages
func (b *Buffer) Len() int {
	return len(b.messages)
}

// Pending returns true when a frame is open
func (b *Buffer) Pending() bool {
	return b.open
}
