package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/katalvlaran/lockdown/simulate"
	"github.com/katalvlaran/lockdown/sir"
	"github.com/katalvlaran/lockdown/tensor"
	"github.com/katalvlaran/lockdown/valueiter"
)

// ErrEmpty indicates there is nothing to write or plot.
var ErrEmpty = errors.New("report: nothing to report")

// TrajectoryHeader is the first CSV row written by WriteCSV.
var TrajectoryHeader = []string{
	"period", "time", "s_young", "s_old", "i_young", "i_old", "u_young", "u_old", "cost", "clamped",
}

// PolicyHeader is the first CSV row written by WritePolicyCSV.
var PolicyHeader = []string{
	"s_young", "s_old", "i_young", "i_old", "kind", "value", "u_young", "u_old",
}

// WriteCSV writes one row per step of tr.
func WriteCSV(w io.Writer, tr *simulate.Trajectory) error {
	if tr == nil || len(tr.Steps) == 0 {
		return ErrEmpty
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(TrajectoryHeader); err != nil {
		return fmt.Errorf("report: write header: %w", err)
	}

	row := make([]string, len(TrajectoryHeader))
	for _, s := range tr.Steps {
		row[0] = strconv.Itoa(s.Period)
		row[1] = ftoa(s.Time)
		for k, v := range s.State.Point() {
			row[2+k] = ftoa(v)
		}
		row[6] = ftoa(s.Control[sir.Young])
		row[7] = ftoa(s.Control[sir.Old])
		row[8] = ftoa(s.Cost)
		row[9] = strconv.FormatBool(s.Clamped)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: write period %d: %w", s.Period, err)
		}
	}
	cw.Flush()

	return cw.Error()
}

// WritePolicyCSV writes one row per grid cell of res in row-major order.
// p classifies the cells.
func WritePolicyCSV(w io.Writer, p *valueiter.Problem, res *valueiter.Result) error {
	if res == nil || res.Value == nil || p == nil || p.Grid == nil {
		return ErrEmpty
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(PolicyHeader); err != nil {
		return fmt.Errorf("report: write header: %w", err)
	}

	row := make([]string, len(PolicyHeader))
	for off := 0; off < res.Value.Len(); off++ {
		q := p.Grid.Point(res.Value.Unravel(off))
		for k, v := range q {
			row[k] = ftoa(v)
		}
		row[4] = p.Classify(sir.FromPoint(q)).String()
		row[5] = ftoa(res.Value.AtOffset(off))
		u := res.Policy.AtOffset(off)
		for k := 0; k < tensor.Controls; k++ {
			row[6+k] = ftoa(u[k])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: write cell %d: %w", off, err)
		}
	}
	cw.Flush()

	return cw.Error()
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
