package rabbitmq_test

import (
	"encoding/json"
	"errors"
	"testing"

	"storefront/pkg/rabbitmq"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublishing(t *testing.T) {
	msg, err := rabbitmq.NewPublishing("user.registered", map[string]interface{}{"userId": 42})
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "user.registered", msg.Type)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.NotEmpty(t, msg.MessageId)

	var event rabbitmq.Event
	require.NoError(t, json.Unmarshal(msg.Body, &event))
	assert.Equal(t, msg.MessageId, event.ID)
	assert.Equal(t, "user.registered", event.Type)
	assert.EqualValues(t, 42, event.Data["userId"])
}

func TestNewPublishing_UniqueIDs(t *testing.T) {
	a, _ := rabbitmq.NewPublishing("x", nil)
	b, _ := rabbitmq.NewPublishing("x", nil)
	assert.NotEqual(t, a.MessageId, b.MessageId)
}

func TestHandleDelivery(t *testing.T) {
	msg, _ := rabbitmq.NewPublishing("contact.received", map[string]interface{}{"contactId": 1})

	var got rabbitmq.Event
	err := rabbitmq.HandleDelivery(msg.Body, func(e rabbitmq.Event) error {
		got = e
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "contact.received", got.Type)

	err = rabbitmq.HandleDelivery([]byte("not json"), rabbitmq.LogEvent)
	assert.Error(t, err)

	handlerErr := errors.New("rejected")
	err = rabbitmq.HandleDelivery(msg.Body, func(rabbitmq.Event) error { return handlerErr })
	assert.ErrorIs(t, err, handlerErr)
}

func TestPublishEvent_WithoutChannel(t *testing.T) {
	var c rabbitmq.Client
	assert.Error(t, c.PublishEvent("x", nil))
	assert.Error(t, c.ConsumeEvents(rabbitmq.LogEvent))
}
