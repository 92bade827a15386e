// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package como

import (
	"sync"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/pac/tort"
)

// DiagLog records observational diagnostics from a comodulogram run:
// each trial's phase-bin profile per frequency pair (bar-chart data), and
// each cell's raw vs. stored MI as it is filled (live heatmap data).
// Recording is guarded by a mutex since workers log concurrently; it has
// no effect on computed values.
type DiagLog struct {
	TrialProfiles *etable.Table `view:"no-inline" desc:"per-trial mean amplitude by phase bin, per frequency pair"`
	Cells         *etable.Table `view:"no-inline" desc:"per-cell fill record: raw and stored (possibly surrogate-corrected) MI"`

	mu sync.Mutex
}

// Config (re)creates the log tables, empty.  Called by the driver at the
// start of a run.
func (dl *DiagLog) Config() {
	dl.TrialProfiles = &etable.Table{}
	sch := etable.Schema{
		{Name: "PhaseFreq", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "AmpFreq", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "Trial", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "BinPhase", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "MeanAmp", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
	}
	dl.TrialProfiles.SetFromSchema(sch, 0)

	dl.Cells = &etable.Table{}
	csch := etable.Schema{
		{Name: "PhaseFreq", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "AmpFreq", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "RawMI", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "MI", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
	}
	dl.Cells.SetFromSchema(csch, 0)
}

// Profiles records each trial's bin profile for one frequency pair.
func (dl *DiagLog) Profiles(bn *tort.Binning, pf, af float64, trials []tort.TrialSignal) {
	ctrs := bn.BinCenters()
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dt := dl.TrialProfiles
	for ti := range trials {
		prof, err := bn.Profile(trials[ti].Phase, trials[ti].Amp)
		if err != nil {
			continue // scoring path already reported it
		}
		for j, mn := range prof {
			row := dt.Rows
			dt.SetNumRows(row + 1)
			dt.SetCellFloat("PhaseFreq", row, pf)
			dt.SetCellFloat("AmpFreq", row, af)
			dt.SetCellFloat("Trial", row, float64(ti))
			dt.SetCellFloat("BinPhase", row, ctrs[j])
			dt.SetCellFloat("MeanAmp", row, mn)
		}
	}
}

// Cell records one filled matrix cell.
func (dl *DiagLog) Cell(pf, af, raw, val float64) {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dt := dl.Cells
	row := dt.Rows
	dt.SetNumRows(row + 1)
	dt.SetCellFloat("PhaseFreq", row, pf)
	dt.SetCellFloat("AmpFreq", row, af)
	dt.SetCellFloat("RawMI", row, raw)
	dt.SetCellFloat("MI", row, val)
}
