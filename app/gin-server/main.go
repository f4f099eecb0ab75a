package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/mindwell/config"
	"github.com/yoockh/mindwell/internal/api/handlers"
	"github.com/yoockh/mindwell/internal/api/middleware"
	"github.com/yoockh/mindwell/internal/api/routes"
	"github.com/yoockh/mindwell/internal/cache"
	"github.com/yoockh/mindwell/internal/chatbot"
	"github.com/yoockh/mindwell/internal/crisis"
	"github.com/yoockh/mindwell/internal/emotion"
	"github.com/yoockh/mindwell/internal/logger"
	"github.com/yoockh/mindwell/internal/providers/llm"
	mongorepo "github.com/yoockh/mindwell/internal/repositories/mongo"
	pgrepo "github.com/yoockh/mindwell/internal/repositories/postgres"
	"github.com/yoockh/mindwell/internal/sentiment"
	"github.com/yoockh/mindwell/internal/services"
	"github.com/yoockh/mindwell/internal/session"
	"github.com/yoockh/mindwell/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	settings := config.LoadSettings(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init PostgreSQL
	db, err := config.NewPostgres()
	if err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := config.Migrate(db); err != nil {
		log.WithError(err).Fatal("PostgreSQL migration error")
	}
	log.Info("PostgreSQL connected")

	// Init MongoDB
	mongoClient, mongoDB, err := config.NewMongo(ctx)
	if err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	if err := config.EnsureMongoIndexes(ctx, mongoDB); err != nil {
		log.WithError(err).Warn("failed to ensure mongo indexes")
	}
	log.Info("MongoDB connected")

	// Init Redis
	rdb, err := config.NewRedis(ctx)
	if err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	defer rdb.Close()
	log.Info("Redis connected")

	// Repositories and services
	users := pgrepo.NewUserRepo(db)
	convoRepo := pgrepo.NewConversationRepo(db)
	chatSessionRepo := pgrepo.NewChatSessionRepo(db)
	events := mongorepo.NewCrisisEventRepo(mongoDB)
	transcripts := mongorepo.NewTranscriptRepo(mongoDB)

	convos := services.NewConversationService(users, convoRepo, pgrepo.NewMoodRepo(db))
	chatSessions := services.NewChatSessionService(users, chatSessionRepo, convoRepo)
	userSvc := services.NewUserService(users, convos)

	// Analysis pipeline
	analyzer, err := sentiment.NewDefaultAnalyzer(log)
	if err != nil {
		log.WithError(err).Fatal("sentiment model init error")
	}

	var emoModel emotion.Model
	if hf, err := emotion.NewHuggingFace(settings.HFBaseURL, settings.HFToken, settings.HFModel, settings.ModelTimeout); err != nil {
		log.WithError(err).Warn("emotion model disabled, every message will be classified neutral")
	} else {
		emoModel = hf
	}

	gen, closeGen := newGenerator(ctx, settings, log)
	defer closeGen()

	bot := chatbot.New(chatbot.Deps{
		Emotions:  emotion.NewClassifier(emoModel, log),
		Sentiment: analyzer,
		Crisis:    crisis.NewHandler(),
		Generator: gen,
		Recorder:  convos,
		Alerter:   workers.NewCrisisPublisher(rdb, settings.CrisisStream),
		Log:       log,
	})

	// Tracker sessions
	var store session.Store = session.NewMemoryStore()
	if settings.SessionStore == config.SessionStoreRedis {
		store = session.NewRedisStore(cache.NewRedisCache(rdb), settings.SessionMaxAge)
	}
	tracker := session.NewManager(store, session.NewTranscriptArchiver(transcripts), log)

	// Background workers
	pool := &workers.CrisisAlertPool{
		Redis:      rdb,
		Events:     events,
		NumWorkers: settings.CrisisWorkers,
		Logger:     log,
		Stream:     settings.CrisisStream,
	}
	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Fatal("crisis alert pool init error")
	}
	(&workers.SessionSweeper{
		Sessions: tracker,
		Interval: settings.SessionSweepInterval,
		MaxAge:   settings.SessionMaxAge,
		Logger:   log,
	}).Start(ctx)

	// HTTP
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		JWT: middleware.JWTConfig{
			Secret:   settings.JWTSecret,
			Issuer:   settings.JWTIssuer,
			Audience: settings.JWTAudience,
		},
		Chat:        handlers.NewChatHandler(bot, chatSessions),
		ChatSession: handlers.NewChatSessionHandler(chatSessions),
		User:        handlers.NewUserHandler(convos, userSvc),
		Tracker:     handlers.NewTrackerHandler(tracker, bot),
		WS:          handlers.NewWSHandler(tracker, bot, log),
		Admin:       handlers.NewAdminHandler(events),
	})

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", settings.Port).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown error")
	}
}

// newGenerator builds the configured reply model behind a circuit breaker.
// It returns a nil generator when no model is configured.
func newGenerator(ctx context.Context, s config.Settings, log *logrus.Logger) (chatbot.Generator, func()) {
	var (
		p   llm.Provider
		err error
	)
	switch s.LLMProvider {
	case config.LLMOpenAI:
		if s.OpenAIKey == "" {
			log.Warn("OPENAI_API_KEY is not set, replies will use templates")
			return nil, func() {}
		}
		p = llm.NewOpenAI(s.OpenAIKey, s.OpenAIModel)
	case config.LLMVertex:
		p, err = llm.NewVertexGemini(ctx, s.VertexProject, s.VertexLocation, s.VertexModel)
		if err != nil {
			log.WithError(err).Warn("vertex init failed, replies will use templates")
			return nil, func() {}
		}
	default:
		log.Info("no reply model configured, replies will use templates")
		return nil, func() {}
	}

	g := llm.NewGuarded(p, llm.NewBreaker(s.LLMProvider, 3, 30*time.Second, log), s.ModelTimeout)
	return g, func() { _ = g.Close() }
}
