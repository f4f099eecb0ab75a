package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	LLMOpenAI = "openai"
	LLMVertex = "vertex"
	LLMNone   = "none"
)

type Settings struct {
	Port string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	SessionStore         string
	SessionMaxAge        time.Duration
	SessionSweepInterval time.Duration

	HFToken   string
	HFModel   string
	HFBaseURL string

	ModelTimeout time.Duration

	LLMProvider    string
	OpenAIKey      string
	OpenAIModel    string
	VertexProject  string
	VertexLocation string
	VertexModel    string

	CrisisStream  string
	CrisisWorkers int
}

// LoadSettings reads the process environment. Malformed numbers and durations
// fall back to their defaults.
func LoadSettings(log logrus.FieldLogger) Settings {
	if log == nil {
		log = logrus.New()
	}
	s := Settings{
		Port: envOr("PORT", "8080"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTIssuer:   os.Getenv("JWT_ISSUER"),
		JWTAudience: os.Getenv("JWT_AUDIENCE"),

		SessionStore:         strings.ToLower(envOr("SESSION_STORE", SessionStoreMemory)),
		SessionMaxAge:        durationOr(log, "SESSION_MAX_AGE", 24*time.Hour),
		SessionSweepInterval: durationOr(log, "SESSION_SWEEP_INTERVAL", 10*time.Minute),

		HFToken:   os.Getenv("HF_API_TOKEN"),
		HFModel:   envOr("HF_EMOTION_MODEL", "j-hartmann/emotion-english-distilroberta-base"),
		HFBaseURL: envOr("HF_BASE_URL", "https://api-inference.huggingface.co"),

		ModelTimeout: durationOr(log, "MODEL_TIMEOUT", 30*time.Second),

		LLMProvider:    strings.ToLower(envOr("LLM_PROVIDER", LLMNone)),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    os.Getenv("OPENAI_MODEL"),
		VertexProject:  os.Getenv("VERTEX_PROJECT"),
		VertexLocation: envOr("VERTEX_LOCATION", "us-central1"),
		VertexModel:    os.Getenv("VERTEX_MODEL"),

		CrisisStream:  envOr("CRISIS_STREAM", "crisis:alerts"),
		CrisisWorkers: intOr(log, "CRISIS_WORKERS", 2),
	}

	if s.SessionStore != SessionStoreMemory && s.SessionStore != SessionStoreRedis {
		log.WithField("value", s.SessionStore).Warn("unknown SESSION_STORE, using memory")
		s.SessionStore = SessionStoreMemory
	}
	switch s.LLMProvider {
	case LLMOpenAI, LLMVertex, LLMNone:
	default:
		log.WithField("value", s.LLMProvider).Warn("unknown LLM_PROVIDER, responses will use templates")
		s.LLMProvider = LLMNone
	}
	return s
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationOr(log logrus.FieldLogger, key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.WithFields(logrus.Fields{"key": key, "value": v}).Warn("invalid duration, using default")
		return def
	}
	return d
}

func intOr(log logrus.FieldLogger, key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.WithFields(logrus.Fields{"key": key, "value": v}).Warn("invalid integer, using default")
		return def
	}
	return n
}
