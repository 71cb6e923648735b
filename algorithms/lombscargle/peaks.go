package lombscargle

// FindPeaks returns the bin indices of the numPeaks largest spectrum
// values, strongest first. After each pick the chosen bin is zeroed and
// the search repeats, so one broad peak can contribute adjacent bins.
// That matches how the downstream harmonic extractor was trained and is
// deliberately kept over local-maximum detection.
//
// Ties resolve to the lowest index. The input slice is not modified.
func FindPeaks(power []float64, numPeaks int) []int {
	if len(power) == 0 || numPeaks <= 0 {
		return nil
	}

	work := make([]float64, len(power))
	copy(work, power)

	peaks := make([]int, 0, numPeaks)
	for n := 0; n < numPeaks; n++ {
		idx := argmax(work)
		peaks = append(peaks, idx)
		work[idx] = 0
	}
	return peaks
}

// argmax returns the index of the first maximum value.
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
