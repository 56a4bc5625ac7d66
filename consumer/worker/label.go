package worker

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-image-labeler/config"
	"github.com/tnqbao/gau-image-labeler/entity"
	"github.com/tnqbao/gau-image-labeler/infra"
	"github.com/tnqbao/gau-image-labeler/infra/produce"
	"github.com/tnqbao/gau-image-labeler/labeling"
)

type EventProcessor interface {
	Process(ctx context.Context, event entity.UploadEvent) (labeling.Outcome, error)
}

type LabelConsumer struct {
	channel   *amqp.Channel
	infra     *infra.Infra
	processor EventProcessor
	cfg       *config.LabelConfig
	workers   int
	wg        sync.WaitGroup
}

func NewLabelConsumer(channel *amqp.Channel, infra *infra.Infra, processor EventProcessor, cfg *config.LabelConfig, workers int) *LabelConsumer {
	return &LabelConsumer{
		channel:   channel,
		infra:     infra,
		processor: processor,
		cfg:       cfg,
		workers:   max(workers, 1),
	}
}

func (c *LabelConsumer) Start(ctx context.Context) error {
	if err := c.startLabelConsumer(ctx); err != nil {
		return fmt.Errorf("failed to start label consumer: %w", err)
	}
	return nil
}

// Wait blocks until every worker has returned
func (c *LabelConsumer) Wait() {
	c.wg.Wait()
}

func (c *LabelConsumer) startLabelConsumer(ctx context.Context) error {
	if err := c.channel.Qos(c.workers, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	msgs, err := c.channel.Consume(
		produce.ImageLabelQueue,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register label consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Label Consumer] Started %d workers on queue: %s", c.workers, produce.ImageLabelQueue)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go func(worker int) {
			defer c.wg.Done()
			for {
				select {
				case <-ctx.Done():
					c.infra.Logger.InfoWithContextf(ctx, "[Label Consumer] Worker %d shutting down...", worker)
					return
				case msg, ok := <-msgs:
					if !ok {
						c.infra.Logger.WarningWithContextf(ctx, "[Label Consumer] Channel closed")
						return
					}
					c.handleLabel(ctx, msg)
				}
			}
		}(i)
	}

	return nil
}

// handleLabel acks every decodable delivery whatever the outcome, labeling is never retried.
func (c *LabelConsumer) handleLabel(ctx context.Context, msg amqp.Delivery) {
	events, err := entity.DecodeUploadEvents(msg.Body)
	if err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Label Consumer] Failed to decode storage notification")
		_ = msg.Nack(false, false)
		return
	}

	for _, event := range events {
		if c.cfg.BucketName != "" && event.Bucket != c.cfg.BucketName {
			c.infra.Logger.InfoWithContextf(ctx, "[Label Consumer] Ignoring %s from bucket %s", event.Name, event.Bucket)
			continue
		}

		// in-flight uploads outlive shutdown, Wait drains them
		outcome, err := c.processor.Process(context.WithoutCancel(ctx), event)
		if err != nil {
			c.infra.Logger.ErrorWithContextf(ctx, err, "[Label Consumer] Labeling %s/%s failed: %v", event.Bucket, event.Name, err)
			continue
		}
		c.infra.Logger.InfoWithContextf(ctx, "[Label Consumer] Finished %s/%s: %s", event.Bucket, event.Name, outcome)
	}

	_ = msg.Ack(false)
}
