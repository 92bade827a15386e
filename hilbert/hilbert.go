// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package hilbert is the signal-conditioning collaborator for PAC analysis: it
band-limits raw multi-trial signals with a zero-phase FIR bandpass filter,
extracts instantaneous phase or amplitude envelope from the FFT-based
analytic signal, and restricts the result to a time window of interest.
Source satisfies the como.BandSource interface.
*/
package hilbert

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Analytic returns the analytic signal of x: the complex series whose real
// part is x and whose imaginary part is the Hilbert transform of x, computed
// by zeroing the negative-frequency half of the FFT and doubling the
// positive half.
func Analytic(x []float64) []complex128 {
	n := len(x)
	fft := fourier.NewCmplxFFT(n)
	c := make([]complex128, n)
	for i, v := range x {
		c[i] = complex(v, 0)
	}
	coef := fft.Coefficients(nil, c)
	for i := 1; i < (n+1)/2; i++ {
		coef[i] *= 2
	}
	// for even n, coef[n/2] is the shared Nyquist bin and stays as is
	for i := n/2 + 1; i < n; i++ {
		coef[i] = 0
	}
	seq := fft.Sequence(nil, coef)
	inv := complex(1/float64(n), 0)
	for i := range seq {
		seq[i] *= inv
	}
	return seq
}

// Phase returns the instantaneous phase of the analytic signal an, radians
// wrapped to [-pi, pi): Atan2 of the imaginary over the real part, with +pi
// mapped to -pi.
func Phase(an []complex128) []float64 {
	ph := make([]float64, len(an))
	for i, c := range an {
		p := math.Atan2(imag(c), real(c))
		if p >= math.Pi {
			p = -math.Pi
		}
		ph[i] = p
	}
	return ph
}

// Envelope returns the instantaneous amplitude envelope of the analytic
// signal an: its modulus, non-negative by construction.
func Envelope(an []complex128) []float64 {
	env := make([]float64, len(an))
	for i, c := range an {
		env[i] = cmplx.Abs(c)
	}
	return env
}
