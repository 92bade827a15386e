// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hilbert

import (
	"math"
	"testing"
)

func TestAnalyticCosine(t *testing.T) {
	n := 256
	cyc := 8.0
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Cos(2 * math.Pi * cyc * float64(i) / float64(n))
	}
	an := Analytic(x)
	env := Envelope(an)
	ph := Phase(an)
	dph := 2 * math.Pi * cyc / float64(n)
	for i := range x {
		if math.Abs(env[i]-1) > 1.0e-6 {
			t.Fatalf("envelope[%d]: %v != 1", i, env[i])
		}
		if ph[i] < -math.Pi || ph[i] >= math.Pi {
			t.Fatalf("phase[%d] = %v outside [-pi, pi)", i, ph[i])
		}
		if i > 0 {
			d := math.Mod(ph[i]-ph[i-1]+2*math.Pi, 2*math.Pi)
			if math.Abs(d-dph) > 1.0e-6 {
				t.Fatalf("phase step at %d: %v != %v", i, d, dph)
			}
		}
	}
	// real part reproduces the input
	for i := range x {
		if math.Abs(real(an[i])-x[i]) > 1.0e-9 {
			t.Fatalf("analytic real part diverged at %d: %v != %v", i, real(an[i]), x[i])
		}
	}
}

// response returns |H(f)| of kernel h at sample rate fs.
func response(h []float64, f, fs float64) float64 {
	re, im := 0.0, 0.0
	for i, hv := range h {
		w := 2 * math.Pi * f * float64(i) / fs
		re += hv * math.Cos(w)
		im -= hv * math.Sin(w)
	}
	return math.Hypot(re, im)
}

func TestKernelResponse(t *testing.T) {
	fl := Filter{}
	fl.Defaults()
	fs := 500.0
	h, err := fl.Kernel(35, 45, fs)
	if err != nil {
		t.Fatal(err)
	}
	if len(h)%2 != 1 {
		t.Fatalf("kernel length %d is not odd", len(h))
	}
	if g := response(h, 0, fs); g > 1.0e-9 {
		t.Errorf("DC gain: %v != 0", g)
	}
	if g := response(h, 40, fs); g < 0.5 || g > 1.1 {
		t.Errorf("center-band gain at 40 Hz: %v not in [0.5, 1.1]", g)
	}
	if g := response(h, 5, fs); g > 0.05 {
		t.Errorf("stopband gain at 5 Hz: %v > 0.05", g)
	}
	if g := response(h, 100, fs); g > 0.05 {
		t.Errorf("stopband gain at 100 Hz: %v > 0.05", g)
	}
}

func TestKernelErrs(t *testing.T) {
	fl := Filter{}
	fl.Defaults()
	if _, err := fl.Kernel(6, 4, 500); err == nil {
		t.Error("non-increasing band not detected")
	}
	if _, err := fl.Kernel(0, 4, 500); err == nil {
		t.Error("zero low edge not detected")
	}
	if _, err := fl.Kernel(200, 260, 500); err == nil {
		t.Error("band above Nyquist not detected")
	}
}
