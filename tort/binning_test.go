// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tort

import (
	"math"
	"testing"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = 1.0e-12

func TestBinPartition(t *testing.T) {
	bn := Binning{}
	bn.Defaults()
	if bn.NBins != 18 {
		t.Fatalf("default NBins: %d != 18", bn.NBins)
	}
	wd := bn.Width
	if math.Abs(wd-2*math.Pi/18) > difTol {
		t.Errorf("bin width: %v != 2pi/18", wd)
	}
	eds := bn.BinEdges()
	if len(eds) != 18 {
		t.Fatalf("edge count: %d != 18", len(eds))
	}
	ctrs := bn.BinCenters()
	for j, c := range ctrs {
		if bn.Bin(c) != j {
			t.Errorf("center %v of bin %d mapped to bin %d", c, j, bn.Bin(c))
		}
	}
	// dense sweep: each phase lands in exactly one bin, and the assigned bin
	// contains it (up to an ulp of slack at the shared edges)
	const edgeTol = 1.0e-9
	n := 100000
	for i := 0; i < n; i++ {
		ph := -math.Pi + 2*math.Pi*float64(i)/float64(n)
		j := bn.Bin(ph)
		if j < 0 || j >= bn.NBins {
			t.Fatalf("phase %v out of bin range: %d", ph, j)
		}
		lo := eds[j]
		if ph < lo-edgeTol || ph >= lo+wd+edgeTol {
			t.Errorf("phase %v assigned bin %d [%v, %v)", ph, j, lo, lo+wd)
		}
	}
	if bn.Bin(-math.Pi) != 0 {
		t.Errorf("phase -pi mapped to bin %d, not 0", bn.Bin(-math.Pi))
	}
	// +pi clamps into the last bin
	if bn.Bin(math.Pi) != 17 {
		t.Errorf("phase +pi mapped to bin %d, not 17", bn.Bin(math.Pi))
	}
}

func TestProfileMeans(t *testing.T) {
	bn := Binning{}
	bn.Defaults()
	ctrs := bn.BinCenters()
	// two samples per bin with amps 2j and 4j -> mean 3j
	var ph, am []float64
	for j, c := range ctrs {
		ph = append(ph, c, c)
		am = append(am, float64(2*j), float64(4*j))
	}
	prof, err := bn.Profile(ph, am)
	if err != nil {
		t.Fatal(err)
	}
	for j := range prof {
		if math.Abs(prof[j]-float64(3*j)) > difTol {
			t.Errorf("bin %d mean: %v != %v", j, prof[j], 3*j)
		}
	}
}

func TestProfileEmptyBinNaN(t *testing.T) {
	bn := Binning{}
	bn.Defaults()
	// all samples in bin 0: every other bin is empty and must be NaN
	ph := []float64{-math.Pi, -math.Pi + 0.01, -math.Pi + 0.02}
	am := []float64{1, 2, 3}
	prof, err := bn.Profile(ph, am)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(prof[0]-2) > difTol {
		t.Errorf("bin 0 mean: %v != 2", prof[0])
	}
	for j := 1; j < bn.NBins; j++ {
		if !math.IsNaN(prof[j]) {
			t.Errorf("empty bin %d: %v, want NaN", j, prof[j])
		}
	}
	if !math.IsNaN(MI(prof)) {
		t.Errorf("MI of profile with empty bins: %v, want NaN", MI(prof))
	}
}

func TestProfileErrs(t *testing.T) {
	bn := Binning{}
	bn.Defaults()
	if _, err := bn.Profile([]float64{0, 1}, []float64{1}); err == nil {
		t.Error("length mismatch not detected")
	}
	if _, err := bn.Profile([]float64{4}, []float64{1}); err == nil {
		t.Error("out-of-range phase not detected")
	}
	bad := Binning{NBins: 0}
	if err := bad.Validate(); err == nil {
		t.Error("NBins = 0 passed Validate")
	}
}
