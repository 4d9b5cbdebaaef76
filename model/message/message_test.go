package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/procpool/model/task"
)

func TestKind(t *testing.T) {
	for k := KindData; k <= KindUnknown; k++ {
		parsed, ok := ParseKind(k.String())
		assert.True(t, ok, k.String())
		assert.Equal(t, k, parsed)
		assert.True(t, k.IsValid())
	}
	_, ok := ParseKind("bogus")
	assert.False(t, ok)
	assert.False(t, Kind(42).IsValid())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestMessage_Payload(t *testing.T) {
	ref := task.NewReference("debug.echo", "x")
	exception := &Exception{Code: 1, Message: "boom", File: "main.go", Line: 12}
	hint := &Hint{Message: "x"}

	assert.Equal(t, 5, NewData(5).Payload())
	assert.Equal(t, ref, NewExecutable(ref).Payload())
	assert.Equal(t, hint, NewHint(hint).Payload())
	assert.Equal(t, exception, NewException(exception).Payload())
	assert.Equal(t, "raw", NewUnknown("raw").Payload())
	assert.Nil(t, NewDead().Payload())
	assert.Nil(t, NewFinished().Payload())

	assert.True(t, NewDead().IsTerminal())
	assert.True(t, NewFinished().IsTerminal())
	assert.False(t, NewData(1).IsTerminal())
	assert.Equal(t, "boom main.go@12", exception.String())
	assert.Equal(t, "exception: boom main.go@12", NewException(exception).String())
}

func TestMessage_IdentityIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewFinished().ID
		assert.Len(t, id, 32)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestIsReady(t *testing.T) {
	assert.True(t, IsReady(NewData(map[string]interface{}{"running": true})))
	assert.True(t, IsReady(NewData(&Readiness{Running: true})))
	assert.False(t, IsReady(NewData(map[string]interface{}{"running": false, "error": "x"})))
	assert.False(t, IsReady(NewData(map[string]interface{}{"running": "true"})))
	assert.False(t, IsReady(NewUnknown("running")))
	assert.False(t, IsReady(nil))
}
