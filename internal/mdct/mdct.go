// SPDX-License-Identifier: EPL-2.0

// Package mdct implements the inverse modified discrete cosine transform used
// by Vorbis.
//
// The transform is unscaled:
//
//	y[n] = sum_k X[k] * cos(2*pi/N * (n + 1/2 + N/4) * (k + 1/2))
//
// for a block of N outputs and N/2 spectral inputs. It is computed as a
// DCT-IV of size N/2, which in turn runs on an N/8-point complex FFT.
package mdct

import (
	"math"
	"math/bits"
)

// IMDCT holds the twiddle tables and scratch space for one block size.
// An IMDCT is not safe for concurrent use.
type IMDCT struct {
	n     int
	pre   []complex128 // e^{-i*pi*(k+1/4)/M}, k < M/2
	post  []complex128 // e^{-i*pi*p/M}, p < M/2
	roots []complex128 // e^{-2*pi*i*k/L}, k < L/2
	rev   []int
	buf   []complex128
	u     []float64
}

// New returns an IMDCT for blocks of n samples. n must be a power of two
// and at least 16.
func New(n int) *IMDCT {
	if n < 16 || n&(n-1) != 0 {
		panic("mdct: block size must be a power of two >= 16")
	}

	m := n / 2
	l := m / 2
	t := &IMDCT{
		n:     n,
		pre:   make([]complex128, l),
		post:  make([]complex128, l),
		roots: make([]complex128, l/2),
		rev:   make([]int, l),
		buf:   make([]complex128, l),
		u:     make([]float64, m),
	}

	for k := range l {
		t.pre[k] = cis(-math.Pi * (float64(k) + 0.25) / float64(m))
		t.post[k] = cis(-math.Pi * float64(k) / float64(m))
	}
	for k := range t.roots {
		t.roots[k] = cis(-2 * math.Pi * float64(k) / float64(l))
	}
	shift := uint(bits.UintSize - bits.TrailingZeros(uint(l)))
	for k := range l {
		t.rev[k] = int(bits.Reverse(uint(k)) >> shift)
	}
	return t
}

func cis(theta float64) complex128 {
	s, c := math.Sincos(theta)
	return complex(c, s)
}

// Size returns the number of output samples per block.
func (t *IMDCT) Size() int { return t.n }

// Inverse transforms in (n/2 coefficients) into out (n samples).
func (t *IMDCT) Inverse(in, out []float32) {
	m := t.n / 2
	l := m / 2
	in = in[:m]
	out = out[:t.n]

	// DCT-IV of size M, folded into an L-point complex FFT.
	for k := range l {
		v := complex(float64(in[2*k]), float64(in[m-1-2*k]))
		t.buf[t.rev[k]] = v * t.pre[k]
	}
	t.fft()
	for p := range l {
		r := t.buf[p] * t.post[p]
		t.u[2*p] = real(r)
		t.u[m-1-2*p] = -imag(r)
	}

	// Unfold the DCT-IV into the N-point symmetric output.
	half := m / 2
	for i := range half {
		out[i] = float32(t.u[i+half])
	}
	for i := half; i < 3*half; i++ {
		out[i] = float32(-t.u[3*half-1-i])
	}
	for i := 3 * half; i < t.n; i++ {
		out[i] = float32(-t.u[i-3*half])
	}
}

// fft runs an in-place radix-2 transform over the bit-reversed buf.
func (t *IMDCT) fft() {
	l := len(t.buf)
	for size := 2; size <= l; size <<= 1 {
		step := l / size
		half := size / 2
		for start := 0; start < l; start += size {
			for k := range half {
				w := t.roots[k*step]
				a := t.buf[start+k]
				b := t.buf[start+k+half] * w
				t.buf[start+k] = a + b
				t.buf[start+k+half] = a - b
			}
		}
	}
}
