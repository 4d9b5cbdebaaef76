package codec

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procpool/model/message"
)

func TestStream_ReadWrite(t *testing.T) {
	reader, writer := io.Pipe()
	producer := NewStream(nil, writer)
	consumer := NewStream(reader, nil)
	defer consumer.Close()

	assert.Nil(t, consumer.Read())

	go func() {
		_ = producer.Write("one")
		_ = producer.Write(message.NewHint(&message.Hint{Message: "x"}))
		_ = producer.Write(message.NewFinished())
	}()

	ctx := context.Background()
	var kinds []message.Kind
	for len(kinds) < 3 {
		msg, err := consumer.ReadWait(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, msg)
		kinds = append(kinds, msg.Kind)
	}
	assert.Equal(t, []message.Kind{message.KindData, message.KindHint, message.KindFinished}, kinds)
}

func TestStream_ReadWaitTimeout(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()
	consumer := NewStream(reader, nil)
	defer consumer.Close()

	started := time.Now()
	msg, err := consumer.ReadWait(context.Background(), 20*time.Millisecond)
	assert.NoError(t, err)
	assert.Nil(t, msg)
	assert.GreaterOrEqual(t, time.Since(started), 20*time.Millisecond)
}

func TestStream_DeadOnEOF(t *testing.T) {
	consumer := NewStream(strings.NewReader("\x00\"partial"), nil, WithDeadOnEOF(true))
	<-consumer.Done()

	msg := consumer.Read()
	require.NotNil(t, msg)
	assert.Equal(t, message.KindUnknown, msg.Kind)
	msg = consumer.Read()
	require.NotNil(t, msg)
	assert.Equal(t, message.KindDead, msg.Kind)
	assert.Nil(t, consumer.Read())
	assert.True(t, consumer.Closed())

	_, err := consumer.ReadWait(context.Background(), time.Second)
	assert.Equal(t, io.EOF, err)
}

func TestStream_DeadOnEOFAfterDead(t *testing.T) {
	frame, _ := Encode(message.NewDead())
	consumer := NewStream(strings.NewReader(string(frame)), nil, WithDeadOnEOF(true))
	<-consumer.Done()
	assert.Equal(t, message.KindDead, consumer.Read().Kind)
	assert.Nil(t, consumer.Read())
}

func TestStream_Notify(t *testing.T) {
	reader, writer := io.Pipe()
	wake := make(chan struct{}, 1)
	consumer := NewStream(reader, nil, WithNotify(wake))
	defer consumer.Close()
	go func() {
		_ = NewStream(nil, writer).Write("x")
	}()
	select {
	case <-wake:
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}
}

func TestStream_WriteTimeout(t *testing.T) {
	reader, writer, err := os.Pipe()
	require.NoError(t, err)
	defer reader.Close()
	producer := NewStream(nil, writer, WithWriteTimeout(50*time.Millisecond))
	defer producer.Close()

	err = producer.Write(strings.Repeat("x", 4*1024*1024))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWriteTimeout))
}
