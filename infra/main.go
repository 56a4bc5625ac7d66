package infra

import (
	"context"
	"log"

	"github.com/tnqbao/gau-image-labeler/config"
	"github.com/tnqbao/gau-image-labeler/infra/produce"
)

const (
	StorageBackendGCS   = "gcs"
	StorageBackendMinio = "minio"

	RecordStoreFirestore = "firestore"
	RecordStorePostgres  = "postgres"
	RecordStoreMemory    = "memory"
)

// Role selects which clients a process needs.
type Role int

const (
	// RoleConsumer downloads, annotates and stores images.
	RoleConsumer Role = iota
	// RoleHTTP receives push notifications and serves stored records.
	RoleHTTP
)

type ObjectReader interface {
	ReadObject(ctx context.Context, bucket, name string) ([]byte, error)
}

type Infra struct {
	Logger    *LoggerClient
	Telemetry *Telemetry
	RabbitMQ  *RabbitMQClient
	Produce   *produce.Produce
	Vision    *VisionClient
	Minio     *MinioClient
	GCS       *GCSClient
	Firestore *FirestoreClient
	Postgres  *PostgresClient
	Redis     *RedisClient
}

var infraInstance *Infra

func InitInfra(cfg *config.Config, role Role) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	ctx := context.Background()
	env := cfg.EnvConfig

	logger := InitLoggerClient(env)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	telemetry := InitTelemetry(env)
	if telemetry == nil {
		panic("Failed to initialize Telemetry service")
	}

	rabbitMQ := InitRabbitMQClient(env)
	if rabbitMQ == nil {
		panic("Failed to initialize RabbitMQ service")
	}

	produceService := produce.InitProduce(rabbitMQ.Channel)
	if produceService == nil {
		panic("Failed to initialize Produce service")
	}

	instance := &Infra{
		Logger:    logger,
		Telemetry: telemetry,
		RabbitMQ:  rabbitMQ,
		Produce:   produceService,
	}

	switch env.Backend.RecordStore {
	case RecordStoreFirestore:
		instance.Firestore = InitFirestoreClient(ctx, env)
	case RecordStorePostgres:
		instance.Postgres = InitPostgresClient(env)
		if instance.Postgres == nil {
			panic("Failed to initialize Postgres service")
		}
	case RecordStoreMemory:
		log.Println("Warning: using in-memory record store, records are lost on restart")
	default:
		panic("Unknown record store: " + env.Backend.RecordStore)
	}

	// Redis is optional, it only serializes Firestore upserts across consumers
	if env.Redis.RedisHost != "" {
		instance.Redis = InitRedisClient(env)
		if instance.Redis == nil {
			log.Println("Warning: Redis unavailable, concurrent upserts of one file are not serialized")
		}
	}

	if role == RoleConsumer {
		switch env.Backend.Storage {
		case StorageBackendGCS:
			instance.GCS = InitGCSClient(ctx)
		case StorageBackendMinio:
			instance.Minio = InitMinioClient(env)
		default:
			panic("Unknown storage backend: " + env.Backend.Storage)
		}

		instance.Vision = InitVisionClient(ctx)
	}

	infraInstance = instance
	return infraInstance
}

func GetClient() *Infra {
	if infraInstance == nil {
		panic("Infra not initialized. Call InitInfra() first.")
	}
	return infraInstance
}

// ObjectReader returns the configured storage backend, nil for the HTTP role.
func (i *Infra) ObjectReader() ObjectReader {
	if i.Minio != nil {
		return i.Minio
	}
	if i.GCS != nil {
		return i.GCS
	}
	return nil
}

// Close releases clients in reverse order of creation.
func (i *Infra) Close(ctx context.Context) {
	if i.Vision != nil {
		_ = i.Vision.Close()
	}
	if i.GCS != nil {
		_ = i.GCS.Close()
	}
	if i.Firestore != nil {
		_ = i.Firestore.Close()
	}
	if i.Redis != nil {
		_ = i.Redis.Client.Close()
	}
	i.RabbitMQ.Close()
	_ = i.Telemetry.Shutdown(ctx)
	_ = i.Logger.Shutdown(ctx)
}
