package run

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/askiada/go-procgraph/pkg/pipeline"
)

func TestReadPoints(t *testing.T) {
	t.Parallel()

	for name, input := range map[string]string{
		"plain":    "1,2\n3,4\n5,6\n",
		"header":   "x,y\n1,2\n3,4\n5,6\n",
		"spaces":   "1, 2\n3, 4\n5, 6",
		"comments": "# points\n1,2\n3,4\n# more\n5,6\n",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			points, err := readPoints(strings.NewReader(input))
			require.NoError(t, err)
			assert.True(t, mat.Equal(mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}), points))
		})
	}
}

func TestReadPointsErrors(t *testing.T) {
	t.Parallel()

	for name, input := range map[string]string{
		"empty":       "",
		"header only": "x,y\n",
		"ragged":      "1,2\n3\n",
		"not numeric": "1,2\n3,y\n",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := readPoints(strings.NewReader(input))
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestReadPointsFile(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "points.csv")
	require.NoError(t, os.WriteFile(fileName, []byte("1,2\n"), 0o600))

	points, err := readPointsFile(fileName)
	require.NoError(t, err)
	assert.True(t, mat.Equal(mat.NewDense(1, 2, []float64{1, 2}), points))

	_, err = readPointsFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestLabelsOf(t *testing.T) {
	t.Parallel()

	labels, err := labelsOf([]int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, labels)

	labels, err = labelsOf(pipeline.Tuple{mat.NewDense(1, 1, nil), []int{0}})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, labels)

	_, err = labelsOf(mat.NewDense(1, 1, nil))
	assert.ErrorIs(t, err, ErrUnexpectedOutput)
}
