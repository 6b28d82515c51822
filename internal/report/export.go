package report

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/mppi/internal/dynamo"
)

type ExportData struct {
	RunID           string             `json:"run_id"`
	Seed            int64              `json:"seed"`
	Status          dynamo.Status      `json:"status"`
	Reason          string             `json:"reason,omitempty"`
	Start           dynamo.Vec2        `json:"start"`
	Goal            dynamo.Vec2        `json:"goal"`
	MapSize         int                `json:"map_size,omitempty"`
	ObstacleCells   int                `json:"obstacle_cells,omitempty"`
	Iterations      int                `json:"iterations"`
	ElapsedMS       float64            `json:"elapsed_ms"`
	PathLength      float64            `json:"path_length"`
	FinalMinCost    float64            `json:"final_min_cost"`
	DegenerateSteps int                `json:"degenerate_steps"`
	Path            dynamo.Path        `json:"path"`
	Metrics         map[string]float64 `json:"metrics"`
}

func NewExport(r Run) ExportData {
	res := r.Result
	return ExportData{
		RunID:           r.ID,
		Seed:            r.Seed,
		Status:          res.Status,
		Reason:          res.Reason,
		Start:           r.Start,
		Goal:            r.Goal,
		MapSize:         r.MapSize,
		ObstacleCells:   r.ObstacleCells,
		Iterations:      res.Iterations,
		ElapsedMS:       float64(res.Elapsed.Microseconds()) / 1000,
		PathLength:      res.Path.Length(),
		FinalMinCost:    finite(res.FinalMinCost),
		DegenerateSteps: res.DegenerateSteps,
		Path:            res.Path,
		Metrics:         res.Metrics,
	}
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// finite clamps values encoding/json cannot represent.
func finite(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}
