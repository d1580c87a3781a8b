package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string // sqlite|postgres
	DBDSN    string

	// QuestionStore selects where questions live: sql (the DB above) or mongo.
	QuestionStore string
	MongoURI      string
	MongoDB       string

	BlobBasePath string

	AuthSecret         string
	TokenTTL           time.Duration
	EnableRegistration bool
	AdminEmail         string
	AdminPassword      string

	CORSOrigins []string

	AMQPURL      string
	AMQPExchange string

	LogLevel       string
	LogDevelopment bool

	RequestTimeout   time.Duration
	StrictTotalMarks bool
	MaxBuckets       int
	MaxBucketCount   int

	// Optional YAML file with default header fields for exported papers.
	PresentationFile string
}

// FromEnv reads a local .env file when present, then the process environment.
func FromEnv() Config {
	_ = godotenv.Load()

	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	defOrigins := "http://localhost:3000"
	if mode == ModeOnline {
		defOrigins = "https://papers.mindengage.ai"
	}
	return Config{
		Mode:     mode,
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    os.Getenv("DB_DSN"),

		QuestionStore: envOr("QUESTION_STORE", "sql"),
		MongoURI:      envOr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       envOr("MONGO_DB", "question_paper_platform"),

		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),

		AuthSecret:         envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		TokenTTL:           envDuration("TOKEN_TTL", 8*time.Hour),
		EnableRegistration: envBool("ENABLE_REGISTRATION", true),
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),

		CORSOrigins: csvOr("CORS_ORIGINS", defOrigins),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: envOr("AMQP_EXCHANGE", "qpaper.events"),

		LogLevel:       envOr("LOG_LEVEL", "info"),
		LogDevelopment: envBool("LOG_DEVELOPMENT", mode == ModeOffline),

		RequestTimeout:   envDuration("REQUEST_TIMEOUT", 30*time.Second),
		StrictTotalMarks: envBool("STRICT_TOTAL_MARKS", false),
		MaxBuckets:       envInt("MAX_BUCKETS", 50),
		MaxBucketCount:   envInt("MAX_BUCKET_COUNT", 100),

		PresentationFile: os.Getenv("PRESENTATION_FILE"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envDuration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
