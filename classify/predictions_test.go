package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionsFileName(t *testing.T) {
	expected := filepath.Join("out", "prediction_B.csv")
	assert.Equal(t, expected, PredictionsFileName("out", "B"))
}

func TestWritePredictions(t *testing.T) {
	path := PredictionsFileName(t.TempDir(), "V")
	predictions := []Prediction{
		{StarID: 10, Class: "CEP", Confidence: 0.84},
		{StarID: 20, Class: "RRLYR", Confidence: 0.52},
	}
	require.NoError(t, WritePredictions(path, predictions))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := "ID,PREDICTION,CONF\n" +
		"10,CEP,0.84\n" +
		"20,RRLYR,0.52\n"
	assert.Equal(t, expected, string(raw))
}
