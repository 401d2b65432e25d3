package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Trajectory collects node positions every Every frames. It implements
// dynamo.Observer and is attached to a runner before Run.
type Trajectory struct {
	Every int

	ticks     []int
	positions [][][2]float64
	seen      int
}

func NewTrajectory(every int) *Trajectory {
	return &Trajectory{Every: max(every, 1)}
}

func (t *Trajectory) OnFrame(f dynamo.Frame) {
	t.seen++
	if (t.seen-1)%t.Every != 0 {
		return
	}
	row := make([][2]float64, len(f.Nodes))
	for i, n := range f.Nodes {
		row[i] = [2]float64{n.Pos.X, n.Pos.Y}
	}
	t.ticks = append(t.ticks, f.Tick)
	t.positions = append(t.positions, row)
}

func (t *Trajectory) Len() int { return len(t.ticks) }

type ExportData struct {
	Variant   string             `json:"variant"`
	Params    map[string]float64 `json:"params"`
	Frames    int                `json:"frames"`
	Pinned    []int              `json:"pinned"`
	Ticks     []int              `json:"ticks"`
	Positions [][][2]float64     `json:"positions"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Data bundles the recorded positions with the run's description.
func (t *Trajectory) Data(variant string, params map[string]float64, pinned []int, frames int, metrics map[string]float64) ExportData {
	return ExportData{
		Variant:   variant,
		Params:    params,
		Frames:    frames,
		Pinned:    pinned,
		Ticks:     t.ticks,
		Positions: t.positions,
		Metrics:   metrics,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteCSV writes one row per recorded frame: the tick, then x and y for
// every node. Rows are ragged when the node count changed mid-run.
func (t *Trajectory) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	width := 0
	for _, row := range t.positions {
		width = max(width, len(row))
	}
	header := []string{"tick"}
	for i := 0; i < width; i++ {
		n := strconv.Itoa(i)
		header = append(header, "x"+n, "y"+n)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for k, row := range t.positions {
		record := []string{strconv.Itoa(t.ticks[k])}
		for _, p := range row {
			record = append(record,
				strconv.FormatFloat(p[0], 'f', 4, 64),
				strconv.FormatFloat(p[1], 'f', 4, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
