// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package pac is the overall repository for phase-amplitude coupling (PAC)
analysis code implemented in the Go language (golang), using the normalized
Modulation Index (MI) method of Tort et al. (2010).

This top-level of the repository has no functional code -- everything is
organized into the following sub-repositories:

* tort: the core MI method: phase binning of amplitude envelopes, the
normalized entropy-deviation score, per-trial aggregation, and the
shuffled-surrogate null distribution used for bias correction.

* como: the comodulogram driver that iterates a grid of
(phase frequency, amplitude frequency) pairs, obtains band-limited phase and
envelope series from a signal-conditioning source, and fills the output MI
matrix -- in parallel across grid cells.

* hilbert: a reference signal-conditioning source: FIR bandpass filtering and
FFT-based analytic-signal extraction of instantaneous phase and amplitude
envelope, with time-window selection, satisfying the como.BandSource interface.

* examples: these compile into runnable programs.  examples/pacgram builds a
full comodulogram from synthetic coupled data and is the place to start.
*/
package pac
