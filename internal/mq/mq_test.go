package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/csemotors/dealer/config"
)

type published struct {
	channel string
	data    []byte
	attrs   map[string]string
}

type recordingBackend struct {
	messages []published
	err      error
	closed   bool
}

func (b *recordingBackend) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	b.messages = append(b.messages, published{channel: channel, data: data, attrs: attrs})
	return "id-1", nil
}

func (b *recordingBackend) Close() error {
	b.closed = true
	return nil
}

func TestEventsPublish(t *testing.T) {
	backend := &recordingBackend{}
	events := NewEvents(backend, zap.NewNop())

	events.Publish(context.Background(), VehicleCreated, map[string]any{"inv_id": 7})

	require.Len(t, backend.messages, 1)
	msg := backend.messages[0]
	assert.Equal(t, VehicleCreated, msg.channel)
	assert.Equal(t, VehicleCreated, msg.attrs["event"])

	var body map[string]int
	require.NoError(t, json.Unmarshal(msg.data, &body))
	assert.Equal(t, 7, body["inv_id"])

	require.NoError(t, events.Close())
	assert.True(t, backend.closed)
}

func TestEventsPublishFailureIsSwallowed(t *testing.T) {
	backend := &recordingBackend{err: errors.New("broker down")}
	events := NewEvents(backend, nil)

	assert.NotPanics(t, func() {
		events.Publish(context.Background(), AccountRegistered, map[string]int{"account_id": 1})
	})
}

func TestEventsWithoutBackend(t *testing.T) {
	events := NewEvents(nil, nil)
	events.Publish(context.Background(), AccountRegistered, nil)
	assert.NoError(t, events.Close())

	var missing *Events
	missing.Publish(context.Background(), AccountRegistered, nil)
	assert.NoError(t, missing.Close())
}

func TestNewBackend(t *testing.T) {
	backend, err := New(context.Background(), config.MQConfig{})
	require.NoError(t, err)
	assert.Nil(t, backend)

	_, err = New(context.Background(), config.MQConfig{Backend: "kafka"})
	assert.Error(t, err)

	_, err = New(context.Background(), config.MQConfig{Backend: "rabbitmq"})
	assert.Error(t, err)
}
