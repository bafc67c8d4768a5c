package config

import (
	"time"
)

const (
	TRACE_ID_KEY                = "traceId"
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//object layout shared by the client and the worker
	ResumePrefix      = "resumes/"
	ResumeExtension   = ".pdf"
	ResultPrefix      = "results/"
	ResultExtension   = ".json"
	ResultContentType = "application/json"
	ResumeContentType = "application/pdf"
	UploadTimeFormat  = "20060102150405"

	//matching
	DefaultChunkSize        = 500
	MaxMatchedSkills        = 5
	DefaultCareerPath       = "Career growth path"
	MatchTimeout            = 5 * time.Minute
	IngestTimeout           = 10 * time.Minute
	DefaultEmbeddingDim     = 1536
	DefaultProviderEmbedder = "bedrock"

	//embeddings
	BedrockEmbeddingModel = "amazon.titan-embed-text-v1"
	BedrockRegion         = "us-east-1" //titan v1 is served from this region only
	GoogleEmbeddingModel  = "gemini-embedding-001"
	OpenAIEmbeddingModel  = "text-embedding-3-small"
	EmbeddingCallTimeout  = 30 * time.Second

	//client poll policy
	PollAttempts = 12
	PollInterval = 5 * time.Second

	//worker pool
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	BufferLimit                     = 100

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 11 * time.Minute //webhook requests run the whole ingestion
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	MaxEventBodySize = 1 << 20

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisObjectStore    = 0
	RedisObjectStoreTTL = 24 * time.Hour

	//amqp
	AMQPQueue         = "resume-events"
	AMQPPrefetchCount = 5

	//store backends
	StoreBackendS3     = "s3"
	StoreBackendRedis  = "redis"
	StoreBackendMemory = "memory"

	OCRProviderTextract = "textract"
	OCRProviderPDF      = "pdf"
)
