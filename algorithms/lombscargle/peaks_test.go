package lombscargle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindPeaksGreedySelection(t *testing.T) {
	power := []float64{1, 9, 3, 7, 5}

	peaks := FindPeaks(power, 3)

	assert.Equal(t, []int{1, 3, 4}, peaks)
	assert.Equal(t, []float64{1, 9, 3, 7, 5}, power, "input must not be modified")
}

func TestFindPeaksAdjacentBinsOfBroadPeak(t *testing.T) {
	// Zero-and-repeat selection may pick two bins of the same broad
	// peak. That is intended: the harmonic extractor was built on it.
	power := []float64{0, 10, 9, 1}

	assert.Equal(t, []int{1, 2}, FindPeaks(power, 2))
}

func TestFindPeaksTieBreaksToLowestIndex(t *testing.T) {
	power := []float64{5, 9, 9, 2}

	assert.Equal(t, []int{1, 2}, FindPeaks(power, 2))
}

func TestFindPeaksMorePeaksThanBins(t *testing.T) {
	// Once every bin is zeroed the argmax settles on bin 0, so indices
	// repeat rather than fail.
	power := []float64{3, 1}

	assert.Equal(t, []int{0, 1, 0, 0}, FindPeaks(power, 4))
}

func TestFindPeaksDegenerateInputs(t *testing.T) {
	assert.Nil(t, FindPeaks(nil, 3))
	assert.Nil(t, FindPeaks([]float64{}, 3))
	assert.Nil(t, FindPeaks([]float64{1, 2}, 0))
}

func TestFindPeaksSubsetOrderedByPower(t *testing.T) {
	power := []float64{0.2, 0.9, 0.1, 0.4, 0.8, 0.3}

	peaks := FindPeaks(power, 6)

	assert.Equal(t, []int{1, 4, 3, 5, 0, 2}, peaks)
}
