// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hilbert

import (
	"fmt"
	"math"
)

// Filter specifies the windowed-sinc (Hamming) FIR bandpass filter used to
// isolate a frequency band before phase / envelope extraction.  The kernel
// is symmetric, so centered convolution is zero-phase and does not distort
// the instantaneous phase.
type Filter struct {
	NTaps       int     `def:"0" desc:"filter length in samples, must be odd -- 0 = automatic from the band: TransCycles periods of the narrower of (low edge, bandwidth)"`
	TransCycles float64 `def:"3" desc:"for automatic NTaps: kernel spans this many periods of the limiting frequency -- larger = sharper band edges, longer edge effects"`
}

func (fl *Filter) Defaults() {
	fl.NTaps = 0
	fl.TransCycles = 3
}

// Taps returns the kernel length for the given band edges (Hz) and sample
// rate: NTaps if set, else automatic, always odd.
func (fl *Filter) Taps(lo, hi, fs float64) int {
	n := fl.NTaps
	if n <= 0 {
		lim := math.Min(lo, hi-lo)
		n = int(math.Ceil(fl.TransCycles * fs / lim))
	}
	if n%2 == 0 {
		n++
	}
	return n
}

// Kernel returns the bandpass kernel for band [lo, hi] Hz at sample rate fs:
// the difference of two unit-DC-gain windowed-sinc lowpass kernels.
func (fl *Filter) Kernel(lo, hi, fs float64) ([]float64, error) {
	if lo <= 0 || hi <= lo {
		return nil, fmt.Errorf("hilbert: band [%g, %g] is not increasing and positive", lo, hi)
	}
	if hi >= fs/2 {
		return nil, fmt.Errorf("hilbert: band [%g, %g] exceeds Nyquist frequency %g", lo, hi, fs/2)
	}
	n := fl.Taps(lo, hi, fs)
	hl := lowpass(lo/fs, n)
	hh := lowpass(hi/fs, n)
	for i := range hh {
		hh[i] -= hl[i]
	}
	return hh, nil
}

// lowpass returns an n-tap (n odd) Hamming-windowed sinc lowpass kernel with
// normalized cutoff fc (cycles per sample), unit gain at DC.
func lowpass(fc float64, n int) []float64 {
	m := n - 1
	h := make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		k := float64(i - m/2)
		var v float64
		if k == 0 {
			v = 2 * math.Pi * fc
		} else {
			v = math.Sin(2*math.Pi*fc*k) / k
		}
		v *= 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(m))
		h[i] = v
		sum += v
	}
	for i := range h {
		h[i] /= sum
	}
	return h
}

// Convolve applies the symmetric kernel h centered on each sample of x,
// returning a same-length output.  Edges are zero-padded; edge effects are
// the caller's concern (use a time window inside the filtered region).
func Convolve(x, h []float64) []float64 {
	n := len(x)
	m := len(h) / 2
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		s := 0.0
		for j, hv := range h {
			xi := i + m - j
			if xi >= 0 && xi < n {
				s += hv * x[xi]
			}
		}
		y[i] = s
	}
	return y
}
