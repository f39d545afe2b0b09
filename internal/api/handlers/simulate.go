package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pv-plant-model/internal/analysis"
	"pv-plant-model/internal/api/models"
	"pv-plant-model/internal/config"
	"pv-plant-model/internal/data"
	"pv-plant-model/internal/metrics"
	"pv-plant-model/internal/pvwatts"
	"pv-plant-model/internal/sim"
)

// SimulateHandler handles simulation requests
type SimulateHandler struct {
	runs        *RunStore
	datasetDir  string
	scenarioDir string
}

// NewSimulateHandler creates a new simulate handler
func NewSimulateHandler(runs *RunStore, datasetDir, scenarioDir string) *SimulateHandler {
	return &SimulateHandler{
		runs:        runs,
		datasetDir:  datasetDir,
		scenarioDir: scenarioDir,
	}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulateHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	// Load the named dataset
	ds, err := h.loadDataset(req.Dataset.Name)
	if err != nil {
		status := http.StatusBadRequest
		code := "INVALID_DATASET"
		if errors.Is(err, os.ErrNotExist) {
			status = http.StatusNotFound
			code = "DATASET_NOT_FOUND"
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    code,
				Message: err.Error(),
			},
		})
		return
	}

	// Apply step limit if specified
	if req.Options.LimitSteps > 0 && req.Options.LimitSteps < len(ds.Data) {
		ds.Data = ds.Data[:req.Options.LimitSteps]
	}

	// Build config from request
	cfg, err := h.buildConfig(req.Config)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
			},
		})
		return
	}
	sys, err := cfg.BuildSystem()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
			},
		})
		return
	}
	elec := cfg.BuildElectrical()

	// Convert the dataset into aligned simulation inputs
	in, err := data.BuildInputs(ds, sys, cfg.Weather.SoilingLoss)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_DATASET",
				Message: err.Error(),
			},
		})
		return
	}

	// Run the pipeline
	pm := pvwatts.New(sys.Module)
	start := time.Now()
	result, err := sim.New().Run(in, sys, elec, pm)
	if err != nil {
		metrics.SimulationRunsTotal.WithLabelValues(pm.Name(), "error").Inc()
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SIMULATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}
	metrics.SimulationRunsTotal.WithLabelValues(result.Model, "ok").Inc()
	metrics.SimulationDuration.WithLabelValues(result.Model).Observe(time.Since(start).Seconds())

	summary := analysis.Summarize(result, elec)
	id := h.runs.Add(&StoredRun{
		Dataset: req.Dataset.Name,
		Result:  result,
		Summary: summary,
	})

	log.Info().
		Str("run_id", id).
		Str("dataset", req.Dataset.Name).
		Int("steps", len(result.Ledger)).
		Float64("aep_wh", result.Metrics.AEP).
		Msg("simulation complete")

	c.JSON(http.StatusOK, buildSimulateResponse(id, req.Dataset.Name, result, summary, req.Options.IncludeLedger))
}

// GetSimulation handles GET /api/v1/simulations/:id
func (h *SimulateHandler) GetSimulation(c *gin.Context) {
	run, ok := h.runs.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, runNotFound(c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, buildSimulateResponse(run.ID, run.Dataset, run.Result, run.Summary, false))
}

// GetLedger handles GET /api/v1/simulations/:id/ledger
func (h *SimulateHandler) GetLedger(c *gin.Context) {
	run, ok := h.runs.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, runNotFound(c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     run.ID,
		"ledger": convertLedger(run.Result.Ledger),
	})
}

// Helper methods

func (h *SimulateHandler) loadDataset(name string) (*data.SiteDataset, error) {
	// name is just the file name (e.g. "albuquerque_tmy"); datasets are
	// always looked up in the dataset directory.
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("dataset name %q must not contain path separators", name)
	}
	return data.LoadDataset(filepath.Join(h.datasetDir, name+".json"))
}

func (h *SimulateHandler) buildConfig(req models.SimulateConfig) (*config.Config, error) {
	cfg := &config.Config{}

	// A scenario file seeds the config and the request blocks override it.
	// scenario_file is just the file name; scenarios are always looked up in
	// the scenario directory.
	if req.ScenarioFile != "" {
		if req.ScenarioFile != filepath.Base(req.ScenarioFile) {
			return nil, fmt.Errorf("scenario_file %q must not contain path separators", req.ScenarioFile)
		}
		loaded, err := config.LoadUnchecked(filepath.Join(h.scenarioDir, req.ScenarioFile+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario %q: %w", req.ScenarioFile, err)
		}
		cfg = loaded
	}

	// The mount blocks inside a system are interdependent, so an inline
	// system replaces the whole block instead of merging field by field.
	if req.System != nil {
		cfg.System = *req.System
	}
	if req.Electrical != nil {
		cfg.Electrical = config.MergeElectrical(cfg.Electrical, *req.Electrical)
	}
	if req.Weather != nil {
		if req.Weather.SoilingLoss != 0 {
			cfg.Weather.SoilingLoss = req.Weather.SoilingLoss
		}
		if req.Weather.BiasFactor != 0 {
			cfg.Weather.BiasFactor = req.Weather.BiasFactor
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runNotFound(id string) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "RUN_NOT_FOUND",
			Message: fmt.Sprintf("no stored run with id %q; only recent runs are retained", id),
		},
	}
}

func buildSimulateResponse(id, dataset string, result *sim.Result, summary analysis.Summary, includeLedger bool) models.SimulateResponse {
	resp := models.SimulateResponse{
		ID:      id,
		Status:  "completed",
		Model:   result.Model,
		Dataset: dataset,
		Metrics: models.Metrics{
			AEPWh:       result.Metrics.AEP,
			NCF:         result.Metrics.NCF,
			EnergyYield: result.Metrics.EnergyYield,
			PR:          result.Metrics.PR,
		},
		Summary: convertSummary(summary),
	}
	if includeLedger {
		resp.Ledger = convertLedger(result.Ledger)
	}
	return resp
}

func convertSummary(s analysis.Summary) models.RunSummary {
	out := models.RunSummary{
		Window:            models.TimeWindow{Start: s.Start, End: s.End},
		Steps:             s.Count,
		ProducingSteps:    s.ProducingSteps,
		InverterClipSteps: s.InverterClipSteps,
		POIClipSteps:      s.POIClipSteps,
		Waterfall: models.Waterfall{
			DCGrossWh:          s.Waterfall.DCGross,
			DCLossesWh:         s.Waterfall.DCLosses,
			DCNetWh:            s.Waterfall.DCNet,
			InverterClippingWh: s.Waterfall.InverterClipping,
			ConversionLossWh:   s.Waterfall.ConversionLoss,
			ACLossesWh:         s.Waterfall.ACLosses,
			POIClippingWh:      s.Waterfall.POIClipping,
			PlantLossesWh:      s.Waterfall.PlantLosses,
			DeliveredWh:        s.Waterfall.Delivered,
		},
		MeanOutputW: s.MeanOutput,
		MaxOutputW:  s.MaxOutput,
		P05OutputW:  s.P05Output,
		P95OutputW:  s.P95Output,
		MeanPOAWm2:  s.MeanPOA,
		MaxPOAWm2:   s.MaxPOA,
	}
	out.Monthly = make([]models.MonthlyEnergy, 0, len(s.Monthly))
	for _, m := range s.Monthly {
		out.Monthly = append(out.Monthly, models.MonthlyEnergy{
			Year:           m.Year,
			Month:          int(m.Month),
			DeliveredWh:    m.Delivered,
			InsolationWhm2: m.Insolation,
		})
	}
	return out
}

// convertLedger maps the domain ledger to its JSON shape. Missing input
// samples surface as NaN in the raw series, and JSON cannot carry NaN, so
// gaps become zero here, the same value the pipeline substitutes for them.
func convertLedger(ledger []sim.LedgerRow) []models.LedgerRow {
	out := make([]models.LedgerRow, len(ledger))
	for i, row := range ledger {
		out[i] = models.LedgerRow{
			Index: row.Index,
			Time:  row.Time,

			GHI:       finite(row.GHI),
			TempAir:   finite(row.TempAir),
			WindSpeed: finite(row.WindSpeed),
			Soiling:   row.Soiling,

			FrontPOA:       finite(row.FrontPOA),
			BackPOA:        finite(row.BackPOA),
			FrontEffective: finite(row.FrontEffective),
			Combined:       row.Combined,
			Soiled:         row.Soiled,
			CellTemp:       finite(row.CellTemp),

			PDC:        row.PDC,
			DCLosses:   row.DCLosses,
			DCOutput:   row.DCOutput,
			DCClipping: row.DCClipping,

			PAC:        row.PAC,
			ACLosses:   row.ACLosses,
			ACOutput:   row.ACOutput,
			ACClipping: row.ACClipping,

			PlantOutput: row.PlantOutput,
			PlantLosses: row.PlantLosses,

			Condition: string(row.Condition),
		}
	}
	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
