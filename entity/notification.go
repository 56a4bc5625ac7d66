package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrUnsupportedNotification = errors.New("unsupported storage notification")

const (
	gcsFinalizeEvent = "OBJECT_FINALIZE"
	s3CreatedEvent   = "ObjectCreated"
	amzMetaPrefix    = "x-amz-meta-"
)

// S3Notification is the bucket notification MinIO (and S3) publishes to AMQP targets.
type S3Notification struct {
	EventName string     `json:"EventName"`
	Key       string     `json:"Key"`
	Records   []S3Record `json:"Records"`
}

type S3Record struct {
	EventName string `json:"eventName"`
	S3        struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key          string            `json:"key"`
			Size         int64             `json:"size"`
			ContentType  string            `json:"contentType"`
			UserMetadata map[string]string `json:"userMetadata"`
		} `json:"object"`
	} `json:"s3"`
}

// PubSubPushEnvelope wraps a GCS notification delivered by a Pub/Sub push subscription.
type PubSubPushEnvelope struct {
	Message struct {
		Data       []byte            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

type notificationProbe struct {
	Records []json.RawMessage `json:"Records"`
	Message *json.RawMessage  `json:"message"`
	Bucket  string            `json:"bucket"`
	Name    string            `json:"name"`
}

// DecodeUploadEvents accepts an S3/MinIO bucket notification, a Pub/Sub push
// envelope or a bare GCS object resource and returns the object creations it carries.
func DecodeUploadEvents(body []byte) ([]UploadEvent, error) {
	var probe notificationProbe
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}

	switch {
	case len(probe.Records) > 0:
		var n S3Notification
		if err := json.Unmarshal(body, &n); err != nil {
			return nil, fmt.Errorf("decode s3 notification: %w", err)
		}
		return n.UploadEvents()
	case probe.Message != nil:
		var env PubSubPushEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode pubsub envelope: %w", err)
		}
		return env.UploadEvents()
	case probe.Bucket != "" || probe.Name != "":
		var event UploadEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return nil, fmt.Errorf("decode gcs object: %w", err)
		}
		return []UploadEvent{event}, nil
	}

	return nil, ErrUnsupportedNotification
}

func (n S3Notification) UploadEvents() ([]UploadEvent, error) {
	events := make([]UploadEvent, 0, len(n.Records))
	for _, r := range n.Records {
		if !strings.Contains(r.EventName, s3CreatedEvent) {
			continue
		}
		key, err := url.QueryUnescape(r.S3.Object.Key)
		if err != nil {
			return nil, fmt.Errorf("decode object key %q: %w", r.S3.Object.Key, err)
		}
		events = append(events, UploadEvent{
			Bucket:      r.S3.Bucket.Name,
			Name:        key,
			ContentType: r.S3.Object.ContentType,
			Metadata:    userMetadata(r.S3.Object.UserMetadata),
			Size:        r.S3.Object.Size,
		})
	}
	return events, nil
}

func (e PubSubPushEnvelope) UploadEvents() ([]UploadEvent, error) {
	if eventType, ok := e.Message.Attributes["eventType"]; ok && eventType != gcsFinalizeEvent {
		return nil, nil
	}

	// payload format NONE carries no object resource
	if len(e.Message.Data) == 0 {
		return nil, ErrUnsupportedNotification
	}

	var event UploadEvent
	if err := json.Unmarshal(e.Message.Data, &event); err != nil {
		return nil, fmt.Errorf("decode pubsub payload: %w", err)
	}
	return []UploadEvent{event}, nil
}

// userMetadata lowercases keys and strips the x-amz-meta- prefix.
func userMetadata(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		key := strings.ToLower(k)
		if !strings.HasPrefix(key, amzMetaPrefix) {
			continue
		}
		out[strings.TrimPrefix(key, amzMetaPrefix)] = v
	}
	return out
}
