// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package como

import (
	"fmt"
	"math"

	"github.com/emer/etable/minmax"
)

// Frequency grid steps are fixed by the Tort et al. (2010) method design:
// phase centers advance by 1 Hz, amplitude centers by 2 Hz.
const (
	PhaseStep = 1
	AmpStep   = 2
)

// FreqGrid specifies the 2D grid of (phase frequency, amplitude frequency)
// center pairs scanned by the comodulogram.  Both ranges are inclusive.
type FreqGrid struct {
	PhaseMin float64 `def:"2" desc:"first phase (modulating) frequency center, Hz"`
	PhaseMax float64 `def:"12" desc:"last phase frequency center, Hz, inclusive -- centers advance in steps of 1"`
	AmpMin   float64 `def:"20" desc:"first amplitude (modulated) frequency center, Hz"`
	AmpMax   float64 `def:"100" desc:"last amplitude frequency center, Hz, inclusive -- centers advance in steps of 2"`
}

func (fg *FreqGrid) Defaults() {
	fg.PhaseMin = 2
	fg.PhaseMax = 12
	fg.AmpMin = 20
	fg.AmpMax = 100
}

// Validate returns an error for an empty or non-increasing frequency range.
func (fg *FreqGrid) Validate() error {
	if fg.PhaseMax < fg.PhaseMin {
		return fmt.Errorf("como: phase range [%g, %g] is non-increasing", fg.PhaseMin, fg.PhaseMax)
	}
	if fg.AmpMax < fg.AmpMin {
		return fmt.Errorf("como: amp range [%g, %g] is non-increasing", fg.AmpMin, fg.AmpMax)
	}
	if fg.PhaseMin <= 0 || fg.AmpMin <= 0 {
		return fmt.Errorf("como: frequency centers must be positive")
	}
	return nil
}

// PhaseCenters returns the phase frequency centers: PhaseMin, PhaseMin+1,
// ..., PhaseMax inclusive.
func (fg *FreqGrid) PhaseCenters() []float64 {
	n := int(math.Floor(fg.PhaseMax-fg.PhaseMin)/PhaseStep) + 1
	cs := make([]float64, n)
	for i := range cs {
		cs[i] = fg.PhaseMin + float64(i*PhaseStep)
	}
	return cs
}

// AmpCenters returns the amplitude frequency centers: AmpMin, AmpMin+2,
// ..., AmpMax inclusive.
func (fg *FreqGrid) AmpCenters() []float64 {
	n := int(math.Floor(fg.AmpMax-fg.AmpMin)/AmpStep) + 1
	cs := make([]float64, n)
	for i := range cs {
		cs[i] = fg.AmpMin + float64(i*AmpStep)
	}
	return cs
}

// AmpBandDiv is the divisor setting the amplitude sub-band half-width:
// a band of p +/- p/2.5 around center p, wide enough to capture the
// side-bands produced by modulation at the phase frequency.
const AmpBandDiv = 2.5

// PhaseBand returns the filtering band for phase frequency center k: k +/- 1 Hz.
func PhaseBand(k float64) minmax.F64 {
	return minmax.F64{Min: k - 1, Max: k + 1}
}

// AmpBand returns the filtering band for amplitude frequency center p:
// p +/- p/2.5, rounded to the nearest integer Hz.
func AmpBand(p float64) minmax.F64 {
	w := p / AmpBandDiv
	return minmax.F64{Min: math.Round(p - w), Max: math.Round(p + w)}
}
