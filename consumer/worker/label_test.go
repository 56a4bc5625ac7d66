package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/tnqbao/gau-image-labeler/config"
	"github.com/tnqbao/gau-image-labeler/entity"
	"github.com/tnqbao/gau-image-labeler/infra"
	"github.com/tnqbao/gau-image-labeler/labeling"
)

type fakeAcknowledger struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *fakeAcknowledger) Ack(uint64, bool) error {
	a.acked++
	return nil
}

func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(uint64, bool) error { return nil }

type fakeProcessor struct {
	events  []entity.UploadEvent
	ctxErrs []error
	err     error
}

func (p *fakeProcessor) Process(ctx context.Context, event entity.UploadEvent) (labeling.Outcome, error) {
	p.events = append(p.events, event)
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	if p.err != nil {
		return labeling.OutcomeFailed, p.err
	}
	return labeling.OutcomeStored, nil
}

func newTestConsumer(processor EventProcessor) *LabelConsumer {
	testInfra := &infra.Infra{Logger: infra.NewLoggerClient(io.Discard, slog.LevelDebug)}
	return NewLabelConsumer(nil, testInfra, processor, &config.LabelConfig{BucketName: "b"}, 2)
}

func delivery(body string, ack amqp.Acknowledger) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(body)}
}

func TestHandleLabel_ProcessesAndAcks(t *testing.T) {
	processor := &fakeProcessor{}
	ack := &fakeAcknowledger{}

	newTestConsumer(processor).handleLabel(context.Background(),
		delivery(`{"bucket":"b","name":"gsv/x.jpg","contentType":"image/jpeg"}`, ack))

	assert.Equal(t, 1, ack.acked)
	assert.Equal(t, 0, ack.nacked)
	assert.Equal(t, []entity.UploadEvent{{Bucket: "b", Name: "gsv/x.jpg", ContentType: "image/jpeg"}}, processor.events)
}

func TestHandleLabel_FailuresAreNotRetried(t *testing.T) {
	processor := &fakeProcessor{err: errors.New("firestore unavailable")}
	ack := &fakeAcknowledger{}

	newTestConsumer(processor).handleLabel(context.Background(),
		delivery(`{"bucket":"b","name":"gsv/x.jpg","contentType":"image/jpeg"}`, ack))

	assert.Equal(t, 1, ack.acked)
	assert.Equal(t, 0, ack.nacked)
}

func TestHandleLabel_IgnoresOtherBuckets(t *testing.T) {
	processor := &fakeProcessor{}
	ack := &fakeAcknowledger{}

	newTestConsumer(processor).handleLabel(context.Background(),
		delivery(`{"bucket":"other","name":"gsv/x.jpg","contentType":"image/jpeg"}`, ack))

	assert.Empty(t, processor.events)
	assert.Equal(t, 1, ack.acked)
}

func TestHandleLabel_MalformedBodyIsDropped(t *testing.T) {
	processor := &fakeProcessor{}
	ack := &fakeAcknowledger{}

	newTestConsumer(processor).handleLabel(context.Background(), delivery(`{"unexpected":true}`, ack))

	assert.Empty(t, processor.events)
	assert.Equal(t, 0, ack.acked)
	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleLabel_ShutdownDoesNotCancelInFlightWork(t *testing.T) {
	processor := &fakeProcessor{}
	ack := &fakeAcknowledger{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	newTestConsumer(processor).handleLabel(ctx,
		delivery(`{"bucket":"b","name":"gsv/x.jpg","contentType":"image/jpeg"}`, ack))

	assert.Equal(t, []error{nil}, processor.ctxErrs)
	assert.Equal(t, 1, ack.acked)
}
