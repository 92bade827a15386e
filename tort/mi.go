// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package tort implements the normalized Modulation Index (MI) measure of
phase-amplitude coupling from Tort et al. (2010), Measuring phase-amplitude
coupling between neuronal oscillations of different frequencies,
J Neurophysiol 104(2):1195-1210.

The amplitude envelope of a fast oscillation is binned by the instantaneous
phase of a slow oscillation (Binning.Profile), the binned profile is scored as
a normalized deviation from a uniform distribution (MI), scores are averaged
over trials (TrialMI), and an optional surrogate null distribution corrects
for chance-level coupling (SurrogateParams.Null, CorrectedMean).
*/
package tort

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// TrialSignal holds one trial's instantaneous phase series (radians, wrapped
// to [-pi, pi)) and the sample-aligned amplitude envelope series
// (non-negative), both restricted to the time window of interest.
// It is produced by the signal-conditioning source and read-only here.
type TrialSignal struct {
	Phase []float64 `desc:"instantaneous phase of the slow (modulating) band, radians in [-pi, pi)"`
	Amp   []float64 `desc:"instantaneous amplitude envelope of the fast (modulated) band, non-negative"`
}

// Check verifies the TrialSignal invariants: matching non-zero lengths,
// phase within [-pi, pi), amplitude non-negative.  Profile does not call
// this -- it is for validating data on entry from an untrusted source.
func (ts *TrialSignal) Check() error {
	if len(ts.Phase) == 0 {
		return fmt.Errorf("tort: empty trial")
	}
	if len(ts.Phase) != len(ts.Amp) {
		return fmt.Errorf("tort: phase length %d != amp length %d", len(ts.Phase), len(ts.Amp))
	}
	for i, ph := range ts.Phase {
		if ph < -math.Pi || ph >= math.Pi {
			return fmt.Errorf("tort: phase[%d] = %g outside [-pi, pi)", i, ph)
		}
	}
	for i, am := range ts.Amp {
		if am < 0 {
			return fmt.Errorf("tort: amp[%d] = %g is negative", i, am)
		}
	}
	return nil
}

// MI returns the Modulation Index for a mean-amplitude-per-phase-bin profile:
// the profile is normalized to a probability distribution, and MI is the
// Shannon entropy deficit relative to uniform, (ln(N) - H) / ln(N), where N
// is the number of bins.  A uniform profile gives 0, a profile fully
// concentrated in one bin gives 1.  Bins with exactly zero amplitude
// contribute zero entropy; a NaN bin (empty bin from Binning.Profile)
// makes the result NaN, deliberately flagging insufficient data.
func MI(profile []float64) float64 {
	sum := 0.0
	for _, a := range profile {
		sum += a
	}
	h := 0.0
	for _, a := range profile {
		p := a / sum
		if p == 0 {
			continue // 0*ln(0) = 0 only for exact zeros; NaN falls through below
		}
		h -= p * math.Log(p)
	}
	lnn := math.Log(float64(len(profile)))
	return (lnn - h) / lnn
}

// TrialMI computes the MI for each trial using the given binning and returns
// the arithmetic mean across trials along with the per-trial values.
// A NaN trial MI (from an empty phase bin) folds into the mean, making the
// aggregate NaN -- degenerate data is propagated, not filtered.
func TrialMI(bn *Binning, trials []TrialSignal) (float64, []float64, error) {
	if len(trials) == 0 {
		return 0, nil, fmt.Errorf("tort: no trials")
	}
	mis := make([]float64, len(trials))
	for i := range trials {
		prof, err := bn.Profile(trials[i].Phase, trials[i].Amp)
		if err != nil {
			return 0, nil, fmt.Errorf("trial %d: %w", i, err)
		}
		mis[i] = MI(prof)
	}
	return stat.Mean(mis, nil), mis, nil
}
