package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/finmentor/backend/app"
	"github.com/finmentor/backend/config"
	"github.com/finmentor/backend/logger"
	"github.com/sirupsen/logrus"
)

// Reused across invocations of a warm function
var (
	once      sync.Once
	finmentor *app.App
	initErr   error
)

// Handler is the serverless function entry point for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(initApp)
	if initErr != nil {
		logrus.WithError(initErr).Error("Failed to initialize services")
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	finmentor.Router.ServeHTTP(w, r)
}

func initApp() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	// serverless logs are collected as JSON
	log := logger.New(cfg.LogLevel, "json")
	finmentor = app.Build(context.Background(), cfg, log)
	log.Info("Services initialized successfully")
}
