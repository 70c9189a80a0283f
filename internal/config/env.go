package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AirtableAPIKey string
	AirtableBaseID string
	DocumentsTable string
	ThemesTable    string

	DatabaseURL string

	AIAPIKey   string
	EmbedModel string
	EmbedDim   int
	GenModel   string

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	ChunkSize     int
	ChunkOverlap  int
	BatchSize     int
	StoredTextCap int
	TruncateTo    int

	SweepInterval time.Duration
	DocumentDelay time.Duration

	Port string
}

// LoadConfig loads the environment variables and returns the config.
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		AirtableAPIKey: getEnv("AIRTABLE_API_KEY", ""),
		AirtableBaseID: getEnv("AIRTABLE_BASE_ID", ""),
		DocumentsTable: getEnv("AIRTABLE_DOCUMENTS_TABLE", "Documents"),
		ThemesTable:    getEnv("AIRTABLE_THEMES_TABLE", "Themes"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		AIAPIKey:   getEnv("GEMINI_API_KEY", ""),
		EmbedModel: getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedDim:   getEnvInt("EMBED_DIM", 768),
		GenModel:   getEnv("GEN_MODEL", "gemini-1.5-flash"),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", ""),

		ChunkSize:     getEnvInt("CHUNK_SIZE", 500),
		ChunkOverlap:  getEnvInt("CHUNK_OVERLAP", 50),
		BatchSize:     getEnvInt("EMBED_BATCH_SIZE", 32),
		StoredTextCap: getEnvInt("STORED_TEXT_CAP", 100000),
		TruncateTo:    getEnvInt("STORED_TEXT_TRUNCATE_TO", 95000),

		SweepInterval: getEnvDuration("SWEEP_INTERVAL", time.Hour),
		DocumentDelay: getEnvDuration("DOCUMENT_DELAY", time.Second),

		Port: getEnv("PORT", "8080"),
	}

	if cfg.AirtableAPIKey == "" {
		log.Fatal("AIRTABLE_API_KEY not set")
	}
	if cfg.AirtableBaseID == "" {
		log.Fatal("AIRTABLE_BASE_ID not set")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.AIAPIKey == "" {
		log.Fatal("GEMINI_API_KEY not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a duration, using default %s", key, v, def)
		return def
	}
	return d
}
