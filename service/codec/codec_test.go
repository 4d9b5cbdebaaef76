package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procpool/model/message"
	"github.com/viant/procpool/model/task"
)

func TestRoundTrip(t *testing.T) {
	var testCases = []struct {
		description string
		input       *message.Message
	}{
		{description: "data string", input: message.NewData("working")},
		{description: "data number", input: message.NewData(float64(12))},
		{description: "data map", input: message.NewData(map[string]interface{}{"running": true})},
		{description: "data nil", input: message.NewData(nil)},
		{description: "executable", input: message.NewExecutable(task.NewReference("debug.echo", map[string]interface{}{"Value": "x"}))},
		{description: "hint", input: message.NewHint(&message.Hint{From: &message.Frame{Function: "main.run", File: "main.go", Line: 3}, Message: "x"})},
		{description: "exception", input: message.NewException(&message.Exception{Code: 2, Message: "boom", File: "task.go", Line: 42})},
		{description: "dead", input: message.NewDead()},
		{description: "finished", input: message.NewFinished()},
		{description: "unknown", input: message.NewUnknown("stray text")},
	}

	for _, testCase := range testCases {
		frame, err := Encode(testCase.input)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, Delimiter, frame[0], testCase.description)
		assert.Equal(t, Delimiter, frame[len(frame)-1], testCase.description)

		buffer := NewBuffer()
		decoded := buffer.Feed(frame)
		require.Len(t, decoded, 1, testCase.description)
		actual := decoded[0]
		assert.Equal(t, testCase.input.Kind, actual.Kind, testCase.description)
		assert.Equal(t, testCase.input.ID, actual.ID, testCase.description)
		assert.EqualValues(t, testCase.input.Payload(), actual.Payload(), testCase.description)
	}
}

func TestDecode(t *testing.T) {
	var testCases = []struct {
		description string
		payload     string
		kind        message.Kind
		expect      interface{}
	}{
		{description: "nil sentinel", payload: "nil", kind: message.KindData, expect: nil},
		{description: "json null", payload: "null", kind: message.KindData, expect: nil},
		{description: "plain value", payload: `"working"`, kind: message.KindData, expect: "working"},
		{description: "number", payload: `5`, kind: message.KindData, expect: float64(5)},
		{description: "undecodable", payload: `not json`, kind: message.KindData, expect: "not json"},
		{description: "map without marker", payload: `{"running":true}`, kind: message.KindData, expect: map[string]interface{}{"running": true}},
		{description: "unknown kind marker", payload: `{"$msg":"bogus"}`, kind: message.KindData, expect: map[string]interface{}{"$msg": "bogus"}},
		{description: "task reference", payload: `{"$task":"debug.echo","args":1}`, kind: message.KindExecutable, expect: &task.Reference{Handler: "debug.echo", Args: float64(1)}},
	}

	for _, testCase := range testCases {
		msg := Decode([]byte(testCase.payload))
		assert.Equal(t, testCase.kind, msg.Kind, testCase.description)
		assert.EqualValues(t, testCase.expect, msg.Payload(), testCase.description)
	}
}

func TestEncode_Reference(t *testing.T) {
	frame, err := Encode(task.Reference{Handler: "debug.echo", Args: "x"})
	require.NoError(t, err)
	assert.Equal(t, "\x00{\"$task\":\"debug.echo\",\"args\":\"x\"}\x00", string(frame))

	frame, err = Encode("value\x00with delimiter")
	require.NoError(t, err)
	msg := Decode(frame[1 : len(frame)-1])
	assert.Equal(t, "value\x00with delimiter", msg.Data)
}

func TestBuffer_Feed(t *testing.T) {
	first, _ := Encode("a")
	second, _ := Encode(message.NewFinished())

	t.Run("multiple frames in one chunk", func(t *testing.T) {
		buffer := NewBuffer()
		buffer.Feed(append(append([]byte{}, first...), second...))
		assert.Equal(t, 2, buffer.Len())
		assert.Equal(t, "a", buffer.Next().Data)
		assert.Equal(t, message.KindFinished, buffer.Next().Kind)
		assert.Nil(t, buffer.Next())
	})

	t.Run("frame split across chunks is carried over", func(t *testing.T) {
		buffer := NewBuffer()
		assert.Empty(t, buffer.Feed(second[:4]))
		assert.True(t, buffer.Pending())
		msgs := buffer.Feed(second[4:])
		require.Len(t, msgs, 1)
		assert.Equal(t, message.KindFinished, msgs[0].Kind)
		assert.False(t, buffer.Pending())
	})

	t.Run("stray text becomes a single unknown after frames", func(t *testing.T) {
		buffer := NewBuffer()
		chunk := append([]byte("te"), first...)
		chunk = append(chunk, []byte("st\n")...)
		msgs := buffer.Feed(chunk)
		require.Len(t, msgs, 2)
		assert.Equal(t, message.KindData, msgs[0].Kind)
		assert.Equal(t, message.KindUnknown, msgs[1].Kind)
		assert.Equal(t, "test\n", msgs[1].Text)
	})

	t.Run("empty frames are dropped", func(t *testing.T) {
		buffer := NewBuffer()
		assert.Empty(t, buffer.Feed([]byte{Delimiter, Delimiter}))
	})

	t.Run("flush surfaces unterminated frame", func(t *testing.T) {
		buffer := NewBuffer()
		buffer.Feed(first[:2])
		msg := buffer.Flush()
		require.NotNil(t, msg)
		assert.Equal(t, message.KindUnknown, msg.Kind)
		assert.Nil(t, buffer.Flush())
	})
}
