package config

import (
	"os"
	"strconv"
	"strings"
)

type EnvConfig struct {
	Postgres struct {
		HOST     string
		Database string
		Username string
		Password string
		Port     string
	}
	Redis struct {
		Password  string
		Database  int
		RedisHost string
		RedisPort string
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
		Workers  int
	}
	Minio struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		UseSSL    bool
	}
	Google struct {
		ProjectID string
	}
	Label struct {
		CollectionPath     string
		ImgBucket          string
		IncludePathList    string
		ExcludePathList    string
		LabelMode          string
		PipelineVariant    string
		AnnotationFeatures string
		FileURIScheme      string
		PublicURLBase      string
		CropConcurrency    int
	}
	Backend struct {
		Storage     string // gcs | minio
		RecordStore string // firestore | postgres | memory
	}
	PushAuth struct {
		SecretKey string
	}
	CORS struct {
		AllowDomains string
	}
	Grafana struct {
		OTLPEndpoint string
		Insecure     bool
		ServiceName  string
	}
	Environment struct {
		Mode string
	}
	Port string
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	// Postgres
	config.Postgres.HOST = os.Getenv("PGPOOL_HOST")
	config.Postgres.Database = os.Getenv("PGPOOL_DB")
	config.Postgres.Username = os.Getenv("PGPOOL_USER")
	config.Postgres.Password = os.Getenv("PGPOOL_PASSWORD")
	config.Postgres.Port = os.Getenv("PGPOOL_PORT")
	if config.Postgres.Port == "" {
		config.Postgres.Port = "5432"
	}

	// Redis
	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	config.Redis.RedisHost = os.Getenv("REDIS_HOST")
	config.Redis.RedisPort = os.Getenv("REDIS_PORT")
	if config.Redis.RedisPort == "" {
		config.Redis.RedisPort = "6379"
	}

	// RabbitMQ
	config.RabbitMQ.Host = os.Getenv("RABBITMQ_HOST")
	if config.RabbitMQ.Host == "" {
		config.RabbitMQ.Host = "localhost"
	}
	config.RabbitMQ.Port = os.Getenv("RABBITMQ_PORT")
	if config.RabbitMQ.Port == "" {
		config.RabbitMQ.Port = "5672"
	}
	config.RabbitMQ.Username = os.Getenv("RABBITMQ_USER")
	if config.RabbitMQ.Username == "" {
		config.RabbitMQ.Username = "guest"
	}
	config.RabbitMQ.Password = os.Getenv("RABBITMQ_PASSWORD")
	if config.RabbitMQ.Password == "" {
		config.RabbitMQ.Password = "guest"
	}
	config.RabbitMQ.Workers = atoiDefault(os.Getenv("CONSUMER_WORKERS"), 4)

	// MinIO / S3-compatible storage
	config.Minio.Endpoint = os.Getenv("MINIO_ENDPOINT")
	config.Minio.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	config.Minio.SecretKey = os.Getenv("MINIO_SECRET_KEY")
	config.Minio.UseSSL = os.Getenv("MINIO_USE_SSL") == "true"

	// Google Cloud
	config.Google.ProjectID = os.Getenv("GOOGLE_CLOUD_PROJECT")

	// Labeling
	config.Label.CollectionPath = os.Getenv("COLLECTION_PATH")
	if config.Label.CollectionPath == "" {
		config.Label.CollectionPath = "imageLabelsCustom"
	}
	config.Label.ImgBucket = os.Getenv("IMG_BUCKET")
	if config.Label.ImgBucket == "" {
		config.Label.ImgBucket = "streetview-explorer-387404"
	}
	config.Label.IncludePathList = os.Getenv("INCLUDE_PATH_LIST")
	if config.Label.IncludePathList == "" {
		config.Label.IncludePathList = "/gsv-images-to-custom-label"
	}
	config.Label.ExcludePathList = os.Getenv("EXCLUDE_PATH_LIST")
	config.Label.LabelMode = os.Getenv("LABEL_MODE")
	config.Label.PipelineVariant = os.Getenv("PIPELINE_VARIANT")
	if config.Label.PipelineVariant == "" {
		config.Label.PipelineVariant = "object-colors"
	}
	config.Label.AnnotationFeatures = os.Getenv("ANNOTATION_FEATURES")
	config.Label.FileURIScheme = os.Getenv("FILE_URI_SCHEME")
	if config.Label.FileURIScheme == "" {
		config.Label.FileURIScheme = "gs"
	}
	config.Label.PublicURLBase = strings.TrimSuffix(os.Getenv("PUBLIC_URL_BASE"), "/")
	if config.Label.PublicURLBase == "" {
		config.Label.PublicURLBase = "https://storage.googleapis.com"
	}
	config.Label.CropConcurrency = atoiDefault(os.Getenv("CROP_CONCURRENCY"), 4)

	config.Backend.Storage = os.Getenv("STORAGE_BACKEND")
	if config.Backend.Storage == "" {
		config.Backend.Storage = "gcs"
	}
	config.Backend.RecordStore = os.Getenv("RECORD_STORE")
	if config.Backend.RecordStore == "" {
		config.Backend.RecordStore = "firestore"
	}

	config.PushAuth.SecretKey = os.Getenv("PUSH_AUTH_SECRET")

	config.CORS.AllowDomains = os.Getenv("ALLOWED_DOMAINS")
	if config.CORS.AllowDomains == "" {
		config.CORS.AllowDomains = "*"
	}

	// Grafana/OpenTelemetry, empty endpoint disables export
	grafanaEndpoint := os.Getenv("GRAFANA_OTLP_ENDPOINT")
	// Remove protocol for OpenTelemetry client to avoid duplicate protocols
	if strings.HasPrefix(grafanaEndpoint, "https://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "https://")
	} else if strings.HasPrefix(grafanaEndpoint, "http://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "http://")
		config.Grafana.Insecure = true
	} else {
		config.Grafana.OTLPEndpoint = grafanaEndpoint
	}
	config.Grafana.ServiceName = os.Getenv("SERVICE_NAME")
	if config.Grafana.ServiceName == "" {
		config.Grafana.ServiceName = "gau-image-labeler"
	}

	config.Environment.Mode = os.Getenv("DEPLOY_ENV")
	if config.Environment.Mode == "" {
		config.Environment.Mode = "development"
	}

	config.Port = os.Getenv("PORT")
	if config.Port == "" {
		config.Port = "8080"
	}

	return &config
}

func atoiDefault(val string, def int) int {
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
