package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// dctPlan computes orthonormal DCT-II / DCT-III pairs of a fixed length through
// a complex FFT of twice that length.
type dctPlan struct {
	n   int
	fft *fourier.CmplxFFT
	buf []complex128
	out []complex128
	// twiddle[k] = exp(-i*pi*k/(2n))
	twiddle []complex128
}

func newDCTPlan(n int) *dctPlan {
	p := &dctPlan{
		n:       n,
		fft:     fourier.NewCmplxFFT(2 * n),
		buf:     make([]complex128, 2*n),
		out:     make([]complex128, 2*n),
		twiddle: make([]complex128, n),
	}
	for k := 0; k < n; k++ {
		p.twiddle[k] = cmplx.Exp(complex(0, -math.Pi*float64(k)/float64(2*n)))
	}
	return p
}

func (p *dctPlan) scale(k int) float64 {
	if k == 0 {
		return math.Sqrt(1 / float64(p.n))
	}
	return math.Sqrt(2 / float64(p.n))
}

// forward returns X[k] = s_k * sum_j x[j] cos(pi*k*(2j+1)/(2n)).
func (p *dctPlan) forward(x []float64) []float64 {
	n := p.n
	// Even symmetric extension: x[0..n-1], x[n-1..0].
	for j := 0; j < n; j++ {
		p.buf[j] = complex(x[j], 0)
		p.buf[2*n-1-j] = complex(x[j], 0)
	}
	p.fft.Coefficients(p.out, p.buf)
	coeffs := make([]float64, n)
	for k := 0; k < n; k++ {
		coeffs[k] = p.scale(k) * real(p.twiddle[k]*p.out[k]) / 2
	}
	return coeffs
}

// inverse returns x[j] = sum_k s_k X[k] cos(pi*k*(2j+1)/(2n)), the transpose
// of forward.
func (p *dctPlan) inverse(coeffs []float64) []float64 {
	n := p.n
	// sum_k z_k exp(+2*pi*i*k*j/(2n)) = conj(FFT(conj(z)))[j] with
	// z_k = s_k X[k] exp(i*pi*k/(2n)); only the real part is needed.
	for k := 0; k < n; k++ {
		z := complex(p.scale(k)*coeffs[k], 0) * cmplx.Conj(p.twiddle[k])
		p.buf[k] = cmplx.Conj(z)
		p.buf[n+k] = 0
	}
	p.fft.Coefficients(p.out, p.buf)
	x := make([]float64, n)
	for j := 0; j < n; j++ {
		x[j] = real(p.out[j])
	}
	return x
}

// DCT returns the orthonormal type-II discrete cosine transform of x.
func DCT(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	return newDCTPlan(len(x)).forward(x)
}

// IDCT inverts DCT (an orthonormal type-III transform).
func IDCT(coeffs []float64) []float64 {
	if len(coeffs) == 0 {
		return nil
	}
	return newDCTPlan(len(coeffs)).inverse(coeffs)
}

// HighPass zeroes the first cutoff DCT coefficients of x and transforms back,
// leaving only the fast-varying content.
func HighPass(x []float64, cutoff int) []float64 {
	p := newDCTPlan(len(x))
	coeffs := p.forward(x)
	for k := 0; k < cutoff && k < len(coeffs); k++ {
		coeffs[k] = 0
	}
	return p.inverse(coeffs)
}
