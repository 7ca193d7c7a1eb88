package main

import (
	"context"
	"time"

	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/config"
	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/evaluator"
	logger "github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/logging"
	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/models"
	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/router"
	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/session"

	"go.uber.org/zap"
)

func main() {
	// Initialize configuration first so the logger can be parameterized
	if err := config.Init("."); err != nil {
		panic("failed to initialize config: " + err.Error())
	}

	// Initialize Logger
	log, err := logger.Init(config.Conf.Logging)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Hot-reload config changes now that logging exists
	config.Watch(log)

	// Load the screening question battery at startup
	catalog, err := models.LoadCatalog("config/questions.yaml")
	if err != nil {
		log.Warn("Question catalog not found, using built-in battery", zap.Error(err))
		catalog = models.DefaultCatalog()
	}

	// Evaluation gateway: without a credential every answer is scored by
	// the deterministic local fallback and no network calls are made.
	evalCfg := config.Conf.Evaluator
	var client evaluator.Client
	if evalCfg.APIKey != "" {
		client = evaluator.NewGeminiClient(evalCfg.APIKey, evalCfg.Model, evalCfg.Endpoint)
	} else {
		log.Warn("No evaluator API key configured; using deterministic fallback scoring")
	}
	gateway := evaluator.NewGateway(
		client,
		time.Duration(evalCfg.TimeoutSeconds)*time.Second,
		config.Conf.Analysis.ShortAnswerThreshold,
		log,
	)

	manager := session.NewManager(session.Config{
		Questions:        catalog.Questions,
		StopperWords:     config.Conf.Analysis.StopperWords,
		EmotionInterval:  time.Duration(config.Conf.Emotion.SampleIntervalMs) * time.Millisecond,
		EmotionMaxPoints: config.Conf.Emotion.MaxPoints,
		EmotionBuffer:    config.Conf.Emotion.BufferSize,
	}, gateway, log)

	// Consume the affect stream for the life of the process
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go manager.Run(ctx)

	// Setup router, passing the logger to it
	r := router.Setup(log, manager)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
