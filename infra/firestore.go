package infra

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/tnqbao/gau-image-labeler/config"
)

type FirestoreClient struct {
	Client *firestore.Client
}

// InitFirestoreClient falls back to project detection from the credentials
// when GOOGLE_CLOUD_PROJECT is unset. FIRESTORE_EMULATOR_HOST is honored by the client.
func InitFirestoreClient(ctx context.Context, cfg *config.EnvConfig) *FirestoreClient {
	projectID := cfg.Google.ProjectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize Firestore client: %v", err))
	}
	return &FirestoreClient{Client: client}
}

func (f *FirestoreClient) Close() error {
	return f.Client.Close()
}
