package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pv-plant-model/internal/api/handlers"
	"pv-plant-model/internal/api/middleware"
	"pv-plant-model/internal/data"
)

type serverConfig struct {
	Port        string `env:"API_PORT" env-default:"8080"`
	Env         string `env:"API_ENV" env-default:"development"`
	DatasetDir  string `env:"DATASET_DIR" env-default:"examples/datasets"`
	ScenarioDir string `env:"SCENARIO_DIR" env-default:"examples/scenarios"`
	CachePath   string `env:"WEATHER_CACHE"`
	RunHistory  int    `env:"RUN_HISTORY" env-default:"32"`
}

func main() {
	var cfg serverConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to read environment")
	}

	if cfg.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if _, err := os.Stat(cfg.DatasetDir); err != nil {
		log.Warn().Str("dir", cfg.DatasetDir).
			Msg("dataset directory not found; fetch one with fetch-weather or set DATASET_DIR")
	}
	if _, err := os.Stat(cfg.ScenarioDir); err != nil {
		log.Warn().Str("dir", cfg.ScenarioDir).
			Msg("scenario directory not found; set SCENARIO_DIR")
	}

	// The weather cache is optional. Without it every PSM3 fetch goes to NREL.
	var cache *data.WeatherCache
	if cfg.CachePath != "" {
		var err error
		cache, err = data.OpenWeatherCache(cfg.CachePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.CachePath).Msg("failed to open weather cache")
		}
		defer cache.Close()
	}

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	simulateHandler := handlers.NewSimulateHandler(
		handlers.NewRunStore(cfg.RunHistory), cfg.DatasetDir, cfg.ScenarioDir)
	datasetHandler := handlers.NewDatasetHandler(cfg.DatasetDir, cache)
	scenarioHandler := handlers.NewScenarioHandler(cfg.ScenarioDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulateHandler.RunSimulation)
		api.GET("/simulations/:id", simulateHandler.GetSimulation)
		api.GET("/simulations/:id/ledger", simulateHandler.GetLedger)

		api.GET("/datasets", datasetHandler.ListDatasets)
		api.POST("/datasets/fetch", datasetHandler.FetchDataset)

		api.GET("/scenarios", scenarioHandler.ListScenarios)
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting API server")

	handler := cors.Default().Handler(router)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
