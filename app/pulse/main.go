package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/stagepulse/goAudiencePulse/business/fusion"
	"github.com/stagepulse/goAudiencePulse/business/worker"
	"github.com/stagepulse/goAudiencePulse/foundation/config"
	"github.com/stagepulse/goAudiencePulse/foundation/external/classifier"
	"github.com/stagepulse/goAudiencePulse/foundation/external/showgate"
	"github.com/stagepulse/goAudiencePulse/foundation/logger"
	"github.com/stagepulse/goAudiencePulse/foundation/metrics"
	"github.com/stagepulse/goAudiencePulse/foundation/redis"
	"github.com/stagepulse/goAudiencePulse/foundation/state"
)

var (
	version   string
	buildTime string
)

func main() {
	// =================================================================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Show struct {
			ID             string `conf:"default:1"`
			ConfigFilePath string `conf:"default:/etc/audiencepulse/shows.json,noprint"`
		}
		Showgate struct {
			Endpoint string `conf:"default:ws://localhost:8080/gate"`
			ApiKey   string `conf:"default:local-dev,noprint"`
		}
		Redis struct {
			Address         string `conf:"default:localhost:6379"`
			Password        string `conf:"noprint"`
			FrameChannel    string `conf:"default:audiencePulse:frames"`
			DecisionChannel string `conf:"default:audiencePulse:decisions"`
		}
		Metrics struct {
			Address string `conf:"default:0.0.0.0:9184"`
		}
		Logger struct {
			LogDirectory string `conf:"default:/var/log/audiencepulse/shows,noprint"`
		}
	}{
		Version: conf.Version{
			Build: version,
			Desc:  buildTime,
		},
	}

	// Configuration Parsing
	_, err := conf.Parse("", &cfg)
	if err != nil {
		os.Exit(1)
	}

	// =================================================================================================================
	// Version Checking Support

	displayVersion := flag.Bool("version", false, "Display version and exit")
	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		fmt.Printf("Build time:\t%s\n", buildTime)
		os.Exit(0)
	}

	// =================================================================================================================
	// Application Logger

	log, err := logger.New(cfg.Logger.LogDirectory, cfg.Show.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}
	defer log.Sync()

	// =================================================================================================================
	// Show Configuration

	showConfig, err := config.GetShow(cfg.Show.ConfigFilePath, cfg.Show.ID)
	if err != nil {
		log.Errorw("startup", "ERROR", err)
		os.Exit(1)
	}

	// =================================================================================================================
	// Configuration Stringify

	out, err := conf.String(&cfg)
	if err != nil {
		log.Errorw("startup", "ERROR", err)
	}
	log.Infow("startup", "config", out)

	// =================================================================================================================
	// Emotion Classifiers

	apiKey := config.GetClassifierApiKey(showConfig)

	audioScorer, err := classifier.New(config.GetClassifierEndpoint(showConfig, "audio"), apiKey)
	if err != nil {
		log.Errorw("startup", "ERROR", fmt.Errorf("%w: %s", fusion.ErrModelUnavailable, err))
		os.Exit(1)
	}
	videoScorer, err := classifier.New(config.GetClassifierEndpoint(showConfig, "video"), apiKey)
	if err != nil {
		log.Errorw("startup", "ERROR", fmt.Errorf("%w: %s", fusion.ErrModelUnavailable, err))
		os.Exit(1)
	}
	chatScorer, err := classifier.New(config.GetClassifierEndpoint(showConfig, "chat"), apiKey)
	if err != nil {
		log.Errorw("startup", "ERROR", fmt.Errorf("%w: %s", fusion.ErrModelUnavailable, err))
		os.Exit(1)
	}

	// =================================================================================================================
	// Feedback Controller

	controller, err := fusion.NewController(fusion.Config{
		ClassifyTimeout:  config.GetClassifyTimeout(showConfig),
		DegradeOnFailure: config.IsDegradeEnabled(showConfig),
		HistoryCap:       config.GetHistoryCap(showConfig),
	}, log, state.NewState(), audioScorer, videoScorer, chatScorer)
	if err != nil {
		log.Errorw("startup", "ERROR", err)
		os.Exit(1)
	}

	// =================================================================================================================
	// Redis

	redisClient, err := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.FrameChannel, cfg.Redis.DecisionChannel, log)
	if err != nil {
		log.Errorw("startup", "ERROR", err)
		os.Exit(1)
	}

	// =================================================================================================================
	// Showgate

	gate := showgate.New(cfg.Showgate.Endpoint, cfg.Showgate.ApiKey)
	if err := gate.SetupConnection(); err != nil {
		log.Errorw("startup", "ERROR", err)
	}

	// =================================================================================================================
	// Prometheus

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
			log.Errorw("metrics listener", "ERROR", err)
		}
	}()

	// =================================================================================================================
	// Run Worker

	workerCh := worker.Run(worker.Settings{
		Logger:     log,
		Controller: controller,
		Redis:      redisClient,
		Gate:       gate,
		Config: worker.Config{
			ShowID:   cfg.Show.ID,
			ShowName: config.GetShowName(showConfig),
		},
	})

	// Blocking main and waiting for error or shutdown.
	err = <-workerCh

	log.Infow("shutdown", "status", "shutdown started")
	defer log.Infow("shutdown", "status", "shutdown complete")

	if err != nil {
		log.Errorw("shutdown", "ERROR", err)
	}
}
