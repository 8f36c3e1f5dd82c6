// Package app wires configuration into the services and router shared by
// the long-running server and the serverless entry.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/finmentor/backend/config"
	"github.com/finmentor/backend/handlers"
	"github.com/finmentor/backend/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// App is a fully wired FinMentor instance
type App struct {
	Router  *gin.Engine
	Store   services.Store
	ChatLog *services.ChatLogger

	closers []func() error
	log     *logrus.Logger
}

// Build connects the configured backends and returns the router. Optional
// integrations that fail to start are logged and left out.
func Build(ctx context.Context, cfg *config.Config, log *logrus.Logger) *App {
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	a := &App{log: log}
	a.Store = a.openStore(ctx, cfg)
	a.ChatLog = services.NewChatLogger(a.Store, log)

	var fallback services.FallbackAdvisor
	if cfg.HasGemini() {
		gemini, err := services.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.WithError(err).Warn("Gemini unavailable, using canned replies only")
		} else {
			fallback = gemini
			a.closers = append(a.closers, gemini.Close)
			log.WithField("model", cfg.GeminiModel).Info("Gemini fallback enabled")
		}
	}
	advisor := services.NewAdvisor(fallback, log)

	deps := handlers.Deps{
		Store:       a.Store,
		Advisor:     advisor,
		ChatLog:     a.ChatLog,
		Hustles:     services.NewSideHustleMatcher(),
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	}

	if cfg.HasFirebase() {
		firebase, err := services.NewFirebaseService(ctx, cfg.FirebaseCredentials, cfg.FirebaseStorageBucket)
		if err != nil {
			log.WithError(err).Warn("Firebase unavailable, exports will be sent directly")
		} else {
			deps.Uploader = firebase
		}
	}

	if cfg.HasLine() {
		line, err := handlers.NewLineWebhookHandler(cfg.LineChannelSecret, cfg.LineChannelAccessToken, advisor, a.ChatLog, log)
		if err != nil {
			log.WithError(err).Warn("LINE channel disabled")
		} else {
			deps.Line = line
			log.Info("LINE webhook enabled at /webhook/line")
		}
	}

	a.Router = handlers.NewRouter(deps)
	return a
}

// openStore returns nil when MongoDB cannot be reached so the coach still serves
func (a *App) openStore(ctx context.Context, cfg *config.Config) services.Store {
	if cfg.StoreDriver == config.StoreMemory {
		a.log.Warn("Using in-memory store, data is lost on restart")
		return services.NewMemoryStore()
	}

	timeout := time.Duration(cfg.MongoTimeout) * time.Second
	mongo, err := services.NewMongoDBService(ctx, cfg.MongoDBURI, cfg.MongoDBName, timeout)
	if err != nil {
		a.log.WithError(err).Warn("Could not connect to MongoDB, store-backed routes will answer 503")
		return nil
	}
	a.closers = append(a.closers, mongo.Close)
	a.log.WithFields(logrus.Fields{"db": cfg.MongoDBName}).Info("Connected to MongoDB")
	return mongo
}

// Close drains pending chat log writes, then releases every backend
func (a *App) Close() error {
	a.ChatLog.Wait()

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
