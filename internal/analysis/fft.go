package analysis

import (
	"math"
	"math/cmplx"
)

func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// NextPow2 returns the smallest power of two that is >= n.
func NextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// Spectrum removes the mean, zero-pads the series to a power of two and
// returns the one-sided power spectrum with the bin frequencies in Hz.
func Spectrum(data []float64, samplePeriod float64) (freqs, power []float64) {
	if len(data) == 0 || samplePeriod <= 0 {
		return nil, nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	n := NextPow2(len(data))
	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	power = PowerSpectrum(padded)
	freqs = make([]float64, len(power))
	for i := range freqs {
		freqs[i] = float64(i) / (float64(n) * samplePeriod)
	}
	return freqs, power
}

// DominantFrequency returns the strongest non-DC bin of the spectrum.
func DominantFrequency(data []float64, samplePeriod float64) (freq, power float64) {
	freqs, ps := Spectrum(data, samplePeriod)
	if len(ps) < 2 {
		return 0, 0
	}

	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return freqs[best], ps[best]
}
