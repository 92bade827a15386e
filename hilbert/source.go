// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hilbert

import (
	"fmt"
	"math"

	"github.com/emer/etable/minmax"
	"github.com/emer/pac/como"
)

// Source serves band-limited phase and envelope trials from a raw
// multi-trial signal, implementing como.BandSource.  Filtering and the
// analytic transform run over the full trial so that edge effects stay
// outside a time window chosen inside the recording.
type Source struct {
	Trials     [][]float64 `view:"-" desc:"raw signal, one series per trial"`
	SampleRate float64     `desc:"sampling rate, Hz"`
	TStart     float64     `desc:"time of the first sample, seconds -- time windows are expressed on this clock"`
	Filter     Filter      `view:"inline" desc:"bandpass filter design"`
}

func (sc *Source) Defaults() {
	sc.Filter.Defaults()
}

// Validate checks that the source holds usable data.
func (sc *Source) Validate() error {
	if len(sc.Trials) == 0 {
		return fmt.Errorf("hilbert: no trials")
	}
	for i, tr := range sc.Trials {
		if len(tr) == 0 {
			return fmt.Errorf("hilbert: trial %d is empty", i)
		}
	}
	if sc.SampleRate <= 0 {
		return fmt.Errorf("hilbert: sample rate %g must be positive", sc.SampleRate)
	}
	return nil
}

func (sc *Source) NTrials() int {
	return len(sc.Trials)
}

// BandTrials filters every trial to the given band, applies the requested
// transform (instantaneous phase or amplitude envelope), and returns the
// samples within the time window toi (seconds, on the TStart clock).
func (sc *Source) BandTrials(band minmax.F64, mode como.BandMode, toi minmax.F64) ([][]float64, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	kern, err := sc.Filter.Kernel(band.Min, band.Max, sc.SampleRate)
	if err != nil {
		return nil, err
	}
	i0 := int(math.Round((toi.Min - sc.TStart) * sc.SampleRate))
	i1 := int(math.Round((toi.Max - sc.TStart) * sc.SampleRate))
	out := make([][]float64, len(sc.Trials))
	for i, tr := range sc.Trials {
		if i0 < 0 || i1 > len(tr) || i1 <= i0 {
			return nil, fmt.Errorf("hilbert: time window [%g, %g] outside trial %d data [%g, %g]",
				toi.Min, toi.Max, i, sc.TStart, sc.TStart+float64(len(tr))/sc.SampleRate)
		}
		if len(kern) > len(tr) {
			return nil, fmt.Errorf("hilbert: trial %d (%d samples) shorter than the %d-tap filter for band [%g, %g]",
				i, len(tr), len(kern), band.Min, band.Max)
		}
		an := Analytic(Convolve(tr, kern))
		switch mode {
		case como.PhaseAngle:
			out[i] = Phase(an)[i0:i1]
		case como.AmpEnvelope:
			out[i] = Envelope(an)[i0:i1]
		default:
			return nil, fmt.Errorf("hilbert: unknown band mode %v", mode)
		}
	}
	return out, nil
}
