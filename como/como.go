// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package como builds a phase-amplitude coupling comodulogram: a 2D matrix of
Modulation Index values over a grid of (phase frequency, amplitude frequency)
pairs, per Tort et al. (2010).  For each pair it obtains band-limited
instantaneous phase and amplitude-envelope trials from a BandSource
(signal-conditioning collaborator, e.g. the hilbert package), scores them with
the tort package, and optionally subtracts a shuffled-surrogate null mean.

Grid cells are independent, so they are computed in parallel across NThreads
workers, with a single writer filling the output matrix.
*/
package como

import (
	"context"
	"fmt"
	"log"
	"math"
	"runtime"
	"sync"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
	"github.com/emer/pac/tort"
)

// BandMode selects the transform applied by a BandSource after band-limiting.
type BandMode int32

const (
	// PhaseAngle requests instantaneous phase, radians wrapped to [-pi, pi)
	PhaseAngle BandMode = iota

	// AmpEnvelope requests the instantaneous amplitude envelope, non-negative
	AmpEnvelope

	BandModeN
)

func (bm BandMode) String() string {
	switch bm {
	case PhaseAngle:
		return "PhaseAngle"
	case AmpEnvelope:
		return "AmpEnvelope"
	}
	return fmt.Sprintf("BandMode(%d)", int32(bm))
}

// BandSource is the signal-conditioning collaborator: it band-limits a raw
// multi-trial signal, applies the requested transform, and restricts to the
// time window of interest.  The hilbert package provides an implementation.
// Outputs must have equal sample counts across a trial's phase and amplitude
// series, phase wrapped to [-pi, pi), and non-negative envelopes.
type BandSource interface {
	// NTrials returns the number of trials in the underlying signal.
	NTrials() int

	// BandTrials returns one series per trial for the given frequency band
	// (Hz), transform mode, and time window (seconds).
	BandTrials(band minmax.F64, mode BandMode, toi minmax.F64) ([][]float64, error)
}

// PairError tags a fatal signal-conditioning or scoring failure with the
// (phase, amplitude) frequency pair that produced it.
type PairError struct {
	PhaseFreq float64
	AmpFreq   float64
	Mode      BandMode
	Err       error
}

func (pe *PairError) Error() string {
	return fmt.Sprintf("como: pair (phase %g Hz, amp %g Hz) %s: %v", pe.PhaseFreq, pe.AmpFreq, pe.Mode, pe.Err)
}

func (pe *PairError) Unwrap() error {
	return pe.Err
}

// Params has the full configuration for one comodulogram run.
type Params struct {
	Grid          FreqGrid             `view:"inline" desc:"phase x amplitude frequency grid"`
	TOI           minmax.F64           `desc:"time window of interest, start (Min) and end (Max) seconds, passed to the BandSource"`
	Binning       tort.Binning         `view:"inline" desc:"phase binning of amplitude envelopes"`
	UseSurrogates bool                 `desc:"subtract the mean of a shuffled-surrogate null distribution from each cell"`
	Surrogate     tort.SurrogateParams `viewif:"UseSurrogates" desc:"surrogate null distribution parameters"`
	NThreads      int                  `desc:"number of parallel workers across grid cells -- 0 = GOMAXPROCS"`
	Diag          bool                 `desc:"record diagnostic tables: per-trial bin profiles and per-cell raw vs. corrected MI"`
}

func (pr *Params) Defaults() {
	pr.Grid.Defaults()
	pr.TOI = minmax.F64{Min: 0, Max: 1}
	pr.Binning.Defaults()
	pr.Surrogate.Defaults()
}

// Validate fails fast on unusable configuration, before any grid iteration.
func (pr *Params) Validate() error {
	if err := pr.Grid.Validate(); err != nil {
		return err
	}
	if pr.TOI.Max <= pr.TOI.Min {
		return fmt.Errorf("como: time window [%g, %g] is empty", pr.TOI.Min, pr.TOI.Max)
	}
	if err := pr.Binning.Validate(); err != nil {
		return err
	}
	if pr.UseSurrogates {
		if err := pr.Surrogate.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Como is the output comodulogram for one run.
type Como struct {
	PhaseFreqs []float64        `desc:"phase frequency centers, one per matrix column"`
	AmpFreqs   []float64        `desc:"amplitude frequency centers, one per matrix row"`
	MI         *etensor.Float64 `view:"no-inline" desc:"MI matrix indexed [amp row][phase column]"`
	Range      minmax.F64       `inactive:"+" desc:"min / max over finite cells, for heatmap scaling"`
	NaNs       int              `inactive:"+" desc:"number of NaN cells (degenerate data: some phase bin received no samples)"`
}

// Value returns the MI cell for amplitude row ai, phase column pi.
func (cm *Como) Value(ai, pi int) float64 {
	return cm.MI.Value([]int{ai, pi})
}

// ToTable returns the comodulogram in long format (PhaseFreq, AmpFreq, MI),
// one row per cell, suitable for CSV export and heatmap plotting.
func (cm *Como) ToTable() *etable.Table {
	dt := &etable.Table{}
	sch := etable.Schema{
		{Name: "PhaseFreq", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "AmpFreq", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "MI", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
	}
	dt.SetFromSchema(sch, len(cm.AmpFreqs)*len(cm.PhaseFreqs))
	row := 0
	for ai, af := range cm.AmpFreqs {
		for pi, pf := range cm.PhaseFreqs {
			dt.SetCellFloat("PhaseFreq", row, pf)
			dt.SetCellFloat("AmpFreq", row, af)
			dt.SetCellFloat("MI", row, cm.Value(ai, pi))
			row++
		}
	}
	return dt
}

// cellVal is one computed matrix cell, sent from a worker to the writer.
type cellVal struct {
	pi, ai   int
	raw, val float64
}

// BuildComodulogram runs the full grid: for each (phase, amplitude) frequency
// pair it requests phase-angle and amplitude-envelope trials from src, scores
// the trial-mean MI, and (with UseSurrogates) subtracts the surrogate null
// mean.  Cells are computed in parallel; ctx cancellation is checked between
// cells.  A BandSource failure is fatal to the run and is returned as a
// *PairError naming the offending pair -- no retries, no zero-filled cells.
func BuildComodulogram(ctx context.Context, src BandSource, pr *Params) (*Como, error) {
	return buildComodulogram(ctx, src, pr, nil)
}

// BuildComodulogramDiag is BuildComodulogram with diagnostic recording into
// dlog (ignored unless pr.Diag is on).  Diagnostics are observational only
// and do not affect computed values.
func BuildComodulogramDiag(ctx context.Context, src BandSource, pr *Params, dlog *DiagLog) (*Como, error) {
	return buildComodulogram(ctx, src, pr, dlog)
}

func buildComodulogram(ctx context.Context, src BandSource, pr *Params, dlog *DiagLog) (*Como, error) {
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	if pr.UseSurrogates && src.NTrials() < 2 {
		return nil, fmt.Errorf("como: %d trials with surrogates enabled: %w", src.NTrials(), tort.ErrTooFewTrials)
	}
	if !pr.Diag {
		dlog = nil
	}
	if dlog != nil {
		dlog.Config()
	}
	pcs := pr.Grid.PhaseCenters()
	acs := pr.Grid.AmpCenters()
	cm := &Como{
		PhaseFreqs: pcs,
		AmpFreqs:   acs,
		MI:         etensor.NewFloat64([]int{len(acs), len(pcs)}, nil, []string{"AmpFreq", "PhaseFreq"}),
	}
	cm.Range = minmax.F64{Min: math.Inf(1), Max: math.Inf(-1)}

	// cells in fill order: phase columns outer, amplitude rows inner
	type cell struct{ pi, ai int }
	cells := make([]cell, 0, len(pcs)*len(acs))
	for pi := range pcs {
		for ai := range acs {
			cells = append(cells, cell{pi, ai})
		}
	}

	nth := pr.NThreads
	if nth <= 0 {
		nth = runtime.GOMAXPROCS(0)
	}
	if nth > len(cells) {
		nth = len(cells)
	}

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var errMu sync.Mutex
	var firstErr error
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		errMu.Unlock()
	}

	jobs := make(chan int)
	vals := make(chan cellVal, nth)

	var wwg sync.WaitGroup
	wwg.Add(1)
	go func() { // single writer owns the matrix during the run
		defer wwg.Done()
		for cv := range vals {
			cm.MI.Set([]int{cv.ai, cv.pi}, cv.val)
			if math.IsNaN(cv.val) {
				cm.NaNs++
			} else {
				if cv.val < cm.Range.Min {
					cm.Range.Min = cv.val
				}
				if cv.val > cm.Range.Max {
					cm.Range.Max = cv.val
				}
			}
			if dlog != nil {
				dlog.Cell(pcs[cv.pi], acs[cv.ai], cv.raw, cv.val)
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < nth; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ci := range jobs {
				if cctx.Err() != nil {
					continue // drain remaining jobs after cancellation
				}
				cl := cells[ci]
				raw, val, err := cellMI(src, pr, pcs[cl.pi], acs[cl.ai], ci, dlog)
				if err != nil {
					fail(err)
					continue
				}
				vals <- cellVal{pi: cl.pi, ai: cl.ai, raw: raw, val: val}
			}
		}()
	}

	for ci := range cells {
		jobs <- ci
	}
	close(jobs)
	wg.Wait()
	close(vals)
	wwg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cm.NaNs > 0 {
		log.Printf("como: %d of %d cells are NaN: some phase bin received no samples (insufficient data density)\n", cm.NaNs, len(cells))
	}
	return cm, nil
}

// cellMI computes one grid cell: raw trial-mean MI and the stored value
// (surrogate-corrected when enabled).  ci is the cell's index in fill order,
// used to give each cell a distinct but reproducible surrogate random stream
// when a seed is set.
func cellMI(src BandSource, pr *Params, pf, af float64, ci int, dlog *DiagLog) (raw, val float64, err error) {
	phs, err := src.BandTrials(PhaseBand(pf), PhaseAngle, pr.TOI)
	if err != nil {
		return 0, 0, &PairError{PhaseFreq: pf, AmpFreq: af, Mode: PhaseAngle, Err: err}
	}
	ams, err := src.BandTrials(AmpBand(af), AmpEnvelope, pr.TOI)
	if err != nil {
		return 0, 0, &PairError{PhaseFreq: pf, AmpFreq: af, Mode: AmpEnvelope, Err: err}
	}
	if len(phs) != len(ams) {
		return 0, 0, &PairError{PhaseFreq: pf, AmpFreq: af, Mode: AmpEnvelope,
			Err: fmt.Errorf("source returned %d phase trials but %d amp trials", len(phs), len(ams))}
	}
	trials := make([]tort.TrialSignal, len(phs))
	for i := range trials {
		trials[i] = tort.TrialSignal{Phase: phs[i], Amp: ams[i]}
	}
	raw, _, err = tort.TrialMI(&pr.Binning, trials)
	if err != nil {
		return 0, 0, &PairError{PhaseFreq: pf, AmpFreq: af, Mode: AmpEnvelope, Err: err}
	}
	if dlog != nil {
		dlog.Profiles(&pr.Binning, pf, af, trials)
	}
	val = raw
	if pr.UseSurrogates {
		sp := pr.Surrogate
		if sp.RndSeed != 0 {
			sp.RndSeed += int64(ci)
		}
		null, err := sp.Null(&pr.Binning, trials)
		if err != nil {
			return 0, 0, &PairError{PhaseFreq: pf, AmpFreq: af, Mode: AmpEnvelope, Err: err}
		}
		val = tort.CorrectedMean(raw, null)
	}
	return raw, val, nil
}
