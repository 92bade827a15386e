// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tort

import (
	"fmt"
	"math"
)

// Binning specifies the fixed-width partition of the phase circle [-pi, pi)
// used to bin amplitude samples by their matching phase sample.
type Binning struct {
	NBins int     `def:"18" desc:"number of phase bins partitioning [-pi, pi) -- 18 gives 20 degree bins, the value used in Tort et al. (2010)"`
	Width float64 `inactive:"+" desc:"bin width in radians = 2pi / NBins"`
}

func (bn *Binning) Update() {
	bn.Width = (2 * math.Pi) / float64(bn.NBins)
}

func (bn *Binning) Defaults() {
	bn.NBins = 18
	bn.Update()
}

// Validate returns an error if the binning parameters are unusable.
func (bn *Binning) Validate() error {
	if bn.NBins <= 0 {
		return fmt.Errorf("tort: NBins = %d, must be positive", bn.NBins)
	}
	return nil
}

// Bin returns the 0-based bin index for given phase: bin j covers
// [-pi + j*Width, -pi + (j+1)*Width).  A phase of exactly +pi (not
// producible by the standard wrapping convention, but representable)
// is clamped into the last bin so the partition covers the closed circle.
func (bn *Binning) Bin(phase float64) int {
	j := int(math.Floor((phase + math.Pi) / bn.Width))
	if j >= bn.NBins {
		j = bn.NBins - 1
	}
	return j
}

// BinEdges returns the NBins lower bin edges, starting at -pi.
func (bn *Binning) BinEdges() []float64 {
	eds := make([]float64, bn.NBins)
	for j := range eds {
		eds[j] = -math.Pi + float64(j)*bn.Width
	}
	return eds
}

// BinCenters returns the NBins bin center phases, for plotting profiles.
func (bn *Binning) BinCenters() []float64 {
	ctrs := make([]float64, bn.NBins)
	for j := range ctrs {
		ctrs[j] = -math.Pi + (float64(j)+0.5)*bn.Width
	}
	return ctrs
}

// Profile returns the mean amplitude per phase bin for one trial: element j
// is the arithmetic mean of all amp samples whose matching phase sample falls
// in bin j.  A bin that receives no samples yields NaN, which is preserved --
// it signals insufficient sample density at that phase and must surface as an
// undefined MI for the trial rather than being zero-filled.
func (bn *Binning) Profile(phase, amp []float64) ([]float64, error) {
	if len(phase) != len(amp) {
		return nil, fmt.Errorf("tort: phase length %d != amp length %d", len(phase), len(amp))
	}
	sums := make([]float64, bn.NBins)
	ns := make([]int, bn.NBins)
	for i, ph := range phase {
		if ph < -math.Pi || ph > math.Pi {
			return nil, fmt.Errorf("tort: phase[%d] = %g outside [-pi, pi]", i, ph)
		}
		j := bn.Bin(ph)
		sums[j] += amp[i]
		ns[j]++
	}
	prof := make([]float64, bn.NBins)
	for j := range prof {
		if ns[j] == 0 {
			prof[j] = math.NaN()
		} else {
			prof[j] = sums[j] / float64(ns[j])
		}
	}
	return prof, nil
}
