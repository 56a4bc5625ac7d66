package produce

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-image-labeler/entity"
)

const (
	StorageEventExchange      = "storage.exchange"
	ImageLabelQueue           = "image.label"
	ObjectFinalizedRoutingKey = "object.finalized"
)

// Publisher is the part of *amqp.Channel used to publish messages.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// LabelService publishes finalized uploads to the labeling queue
type LabelService struct {
	channel Publisher
}

// InitLabelService declares the storage exchange and the labeling queue
func InitLabelService(channel *amqp.Channel) *LabelService {
	service := &LabelService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		StorageEventExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Storage exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		ImageLabelQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Image Label queue: " + err.Error())
	}

	err = channel.QueueBind(
		ImageLabelQueue,
		ObjectFinalizedRoutingKey,
		StorageEventExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Image Label queue: " + err.Error())
	}

	return service
}

func NewLabelService(channel Publisher) *LabelService {
	return &LabelService{channel: channel}
}

// PublishUploadEvent enqueues an upload event in GCS object resource form
func (s *LabelService) PublishUploadEvent(ctx context.Context, event entity.UploadEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		StorageEventExchange,
		ObjectFinalizedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
