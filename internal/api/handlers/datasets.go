package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pv-plant-model/internal/api/models"
	"pv-plant-model/internal/data"
)

// DatasetHandler handles dataset requests
type DatasetHandler struct {
	datasetDir string
	cache      *data.WeatherCache // optional; nil disables caching of fetches

	// baseURL overrides the NREL endpoint, for tests.
	baseURL string
}

// NewDatasetHandler creates a new dataset handler. The cache may be nil.
func NewDatasetHandler(datasetDir string, cache *data.WeatherCache) *DatasetHandler {
	return &DatasetHandler{
		datasetDir: datasetDir,
		cache:      cache,
	}
}

// ListDatasets handles GET /api/v1/datasets
func (h *DatasetHandler) ListDatasets(c *gin.Context) {
	datasets := []models.DatasetInfo{}

	entries, err := os.ReadDir(h.datasetDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", h.datasetDir).Msg("failed to read dataset directory")
		c.JSON(http.StatusOK, gin.H{"datasets": datasets})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(h.datasetDir, entry.Name())
		ds, err := data.LoadDataset(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping unreadable dataset file")
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		datasets = append(datasets, datasetInfo(id, path, ds))
	}

	c.JSON(http.StatusOK, gin.H{"datasets": datasets})
}

// FetchDataset handles POST /api/v1/datasets/fetch. It downloads weather
// data from NREL with the credentials in the request and stores the result
// as a named dataset file. The stored dataset carries raw weather only; a
// transposition tool has to add the plane-of-array columns before the
// dataset can drive a simulation.
func (h *DatasetHandler) FetchDataset(c *gin.Context) {
	var req models.FetchDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}
	if req.Name != filepath.Base(req.Name) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: fmt.Sprintf("dataset name %q must not contain path separators", req.Name),
			},
		})
		return
	}

	client := data.NewPSM3Client(req.APIKey, req.Email, h.baseURL)
	client.Cache = h.cache

	params := data.FetchParams{
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		Names:      req.Names,
		Interval:   req.Interval,
		BiasFactor: req.BiasFactor,
	}
	if params.Names == "" {
		params.Names = "tmy"
	}
	if params.Interval == 0 {
		params.Interval = 60
	}

	ds, err := client.Fetch(c.Request.Context(), params)
	if err != nil {
		writeFetchError(c, err)
		return
	}
	ds.Site.Name = req.Name

	path := filepath.Join(h.datasetDir, req.Name+".json")
	if err := data.SaveDataset(ds, path); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DATASET_WRITE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	log.Info().
		Str("name", req.Name).
		Str("names", params.Names).
		Int("samples", len(ds.Data)).
		Msg("stored fetched dataset")

	c.JSON(http.StatusOK, models.FetchDatasetResponse{
		Dataset: datasetInfo(req.Name, path, ds),
	})
}

// writeFetchError maps PSM3 client failures onto API error responses.
func writeFetchError(c *gin.Context, err error) {
	var psm3Err *data.PSM3Error
	if errors.As(err, &psm3Err) {
		statusCode := http.StatusBadRequest
		if psm3Err.StatusCode == http.StatusForbidden || psm3Err.StatusCode == http.StatusUnauthorized {
			statusCode = http.StatusUnauthorized
		} else if psm3Err.StatusCode == http.StatusTooManyRequests {
			statusCode = http.StatusTooManyRequests
		}
		c.JSON(statusCode, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    psm3Err.Code,
				Message: psm3Err.Message,
				Details: map[string]interface{}{
					"status_code": psm3Err.StatusCode,
				},
			},
		})
		return
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "WEATHER_FETCH_ERROR",
			Message: err.Error(),
		},
	})
}

func datasetInfo(id, path string, ds *data.SiteDataset) models.DatasetInfo {
	hasPOA := false
	for _, rec := range ds.Data {
		if rec.FrontPOA != nil || rec.FrontEffective != nil {
			hasPOA = true
			break
		}
	}
	name := ds.Site.Name
	if name == "" {
		name = id
	}
	return models.DatasetInfo{
		ID:   id,
		Name: name,
		File: filepath.Base(path),
		Site: models.DatasetSite{
			Name:      ds.Site.Name,
			Latitude:  ds.Site.Latitude,
			Longitude: ds.Site.Longitude,
			Elevation: ds.Site.Elevation,
			UTCOffset: ds.Site.UTCOffset,
		},
		Source:   ds.Source,
		TimeStep: ds.TimeStep,
		Samples:  len(ds.Data),
		HasPOA:   hasPOA,
	}
}
