package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pv-plant-model/internal/api/models"
	"pv-plant-model/internal/config"
)

// ScenarioHandler handles scenario preset requests
type ScenarioHandler struct {
	scenarioDir string
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(scenarioDir string) *ScenarioHandler {
	return &ScenarioHandler{scenarioDir: scenarioDir}
}

// ListScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	scenarios := []models.ScenarioInfo{}

	entries, err := os.ReadDir(h.scenarioDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", h.scenarioDir).Msg("failed to read scenario directory")
		c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(h.scenarioDir, entry.Name())
		info, err := loadScenarioInfo(path, entry.Name())
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping unreadable scenario file")
			continue
		}
		scenarios = append(scenarios, *info)
	}

	c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
}

// loadScenarioInfo reads just enough of a scenario file to describe it.
// LoadUnchecked resolves the electrical_file merge, so the listed ratings
// match what a simulation of the scenario would use.
func loadScenarioInfo(path, filename string) (*models.ScenarioInfo, error) {
	cfg, err := config.LoadUnchecked(path)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSuffix(filename, ".yaml")
	name := cfg.Site.Name
	if name == "" {
		name = id
	}

	return &models.ScenarioInfo{
		ID:   id,
		Name: name,
		File: filename,
		Specs: models.ScenarioSpecs{
			Racking:      cfg.System.Racking,
			DCCapacityW:  cfg.System.Module.PDC0,
			ACCapacityW:  cfg.Electrical.ACCapacity,
			POICapacityW: cfg.Electrical.POICapacity,
		},
	}, nil
}
