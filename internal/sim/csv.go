package sim

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"time",
		"ghi",
		"temp_air",
		"wind_speed",
		"soiling",
		"front_poa",
		"back_poa",
		"front_effective",
		"combined",
		"soiled",
		"cell_temp",
		"pdc",
		"dc_losses",
		"dc_output",
		"dc_clipping",
		"pac",
		"ac_losses",
		"ac_output",
		"ac_clipping",
		"plant_output",
		"plant_losses",
		"condition",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			fmtTime(r.Time),
			fmtFloat(r.GHI),
			fmtFloat(r.TempAir),
			fmtFloat(r.WindSpeed),
			fmtFloat(r.Soiling),
			fmtFloat(r.FrontPOA),
			fmtFloat(r.BackPOA),
			fmtFloat(r.FrontEffective),
			fmtFloat(r.Combined),
			fmtFloat(r.Soiled),
			fmtFloat(r.CellTemp),
			fmtFloat(r.PDC),
			fmtFloat(r.DCLosses),
			fmtFloat(r.DCOutput),
			fmtFloat(r.DCClipping),
			fmtFloat(r.PAC),
			fmtFloat(r.ACLosses),
			fmtFloat(r.ACOutput),
			fmtFloat(r.ACClipping),
			fmtFloat(r.PlantOutput),
			fmtFloat(r.PlantLosses),
			string(r.Condition),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
