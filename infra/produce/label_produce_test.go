package produce

import (
	"context"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-image-labeler/entity"
)

type capturePublisher struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

func (p *capturePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	p.exchange, p.key, p.msg = exchange, key, msg
	return nil
}

func TestPublishUploadEvent(t *testing.T) {
	pub := &capturePublisher{}
	svc := NewLabelService(pub)

	event := entity.UploadEvent{Bucket: "b", Name: "gsv/x.jpg", ContentType: "image/jpeg", Size: 10}
	require.NoError(t, svc.PublishUploadEvent(context.Background(), event))

	assert.Equal(t, StorageEventExchange, pub.exchange)
	assert.Equal(t, ObjectFinalizedRoutingKey, pub.key)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.NotEmpty(t, pub.msg.MessageId)

	decoded, err := entity.DecodeUploadEvents(pub.msg.Body)
	require.NoError(t, err)
	assert.Equal(t, []entity.UploadEvent{event}, decoded)
}
