// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tort

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/emer/emergent/erand"
	"gonum.org/v1/gonum/stat"
)

// ErrTooFewTrials is returned by Null when fewer than 2 trials are available,
// so that two distinct trial indices cannot be drawn.
var ErrTooFewTrials = errors.New("tort: surrogate null requires at least 2 trials")

// SurrogateParams specifies the shuffled-surrogate null distribution used to
// estimate and subtract chance-level coupling.  Each surrogate pairs the
// fully-shuffled phase series of one trial with the intact amplitude series
// of a different trial: the shuffle destroys temporal structure and the
// trial mismatch destroys any residual phase-amplitude relationship, so any
// MI measured on the pair is attributable to chance.
type SurrogateParams struct {
	N       int   `def:"1000" desc:"number of surrogate MI values in the null distribution"`
	RndSeed int64 `desc:"random seed for trial pairing and phase shuffling -- 0 uses the ambient global source (new null every run), nonzero gives a private reproducible stream"`
}

func (sp *SurrogateParams) Defaults() {
	sp.N = 1000
}

// Validate returns an error if the surrogate parameters are unusable.
func (sp *SurrogateParams) Validate() error {
	if sp.N <= 0 {
		return fmt.Errorf("tort: surrogate N = %d, must be positive", sp.N)
	}
	return nil
}

// Null computes the surrogate null distribution of N MI values for given
// trials and binning.  Each value draws two distinct trial indices uniformly
// at random, shuffles the first trial's phase series, and scores it against
// the second trial's unshuffled amplitude series.
func (sp *SurrogateParams) Null(bn *Binning, trials []TrialSignal) ([]float64, error) {
	nt := len(trials)
	if nt < 2 {
		return nil, ErrTooFewTrials
	}
	var rnd *rand.Rand
	if sp.RndSeed != 0 {
		rnd = rand.New(rand.NewSource(sp.RndSeed))
	}
	null := make([]float64, sp.N)
	var shuf []float64
	var ord []int
	for s := range null {
		pi, ai := drawPair(rnd, nt)
		ph := trials[pi].Phase
		if cap(shuf) < len(ph) {
			shuf = make([]float64, len(ph))
			ord = make([]int, len(ph))
		}
		shuf = shuf[:len(ph)]
		ord = ord[:len(ph)]
		for i := range ord {
			ord[i] = i
		}
		if rnd != nil {
			rnd.Shuffle(len(ord), func(i, j int) { ord[i], ord[j] = ord[j], ord[i] })
		} else {
			erand.PermuteInts(ord)
		}
		for i, oi := range ord {
			shuf[i] = ph[oi]
		}
		prof, err := bn.Profile(shuf, trials[ai].Amp)
		if err != nil {
			return nil, fmt.Errorf("surrogate %d (phase trial %d, amp trial %d): %w", s, pi, ai, err)
		}
		null[s] = MI(prof)
	}
	return null, nil
}

// drawPair returns two distinct indices in [0, nt), uniformly at random
// without replacement, from rnd or the global source if rnd is nil.
func drawPair(rnd *rand.Rand, nt int) (int, int) {
	var i, j int
	if rnd != nil {
		i = rnd.Intn(nt)
		j = rnd.Intn(nt - 1)
	} else {
		i = rand.Intn(nt)
		j = rand.Intn(nt - 1)
	}
	if j >= i {
		j++
	}
	return i, j
}

// CorrectedMean returns the bias-corrected MI: the raw trial-mean MI minus
// the mean of the surrogate null distribution.  An empty null returns raw
// unmodified.
func CorrectedMean(raw float64, null []float64) float64 {
	if len(null) == 0 {
		return raw
	}
	return raw - stat.Mean(null, nil)
}
