package infra

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

type GCSClient struct {
	Client *storage.Client
}

// InitGCSClient uses Application Default Credentials
func InitGCSClient(ctx context.Context) *GCSClient {
	client, err := storage.NewClient(ctx)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize GCS client: %v", err))
	}
	return &GCSClient{Client: client}
}

// ReadObject downloads the full content of an object
func (g *GCSClient) ReadObject(ctx context.Context, bucket, name string) ([]byte, error) {
	reader, err := g.Client.Bucket(bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", bucket, name, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", bucket, name, err)
	}
	return data, nil
}

func (g *GCSClient) Close() error {
	return g.Client.Close()
}
