package run

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var ErrInvalidInput = errors.New("invalid input")

// readPointsFile reads the points of the CSV file fileName.
func readPointsFile(fileName string) (*mat.Dense, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open input")
	}
	defer file.Close()

	return readPoints(file)
}

// readPoints reads one point per CSV row. A first row that is not numeric is a header and is skipped.
func readPoints(rdr io.Reader) (*mat.Dense, error) {
	reader := csv.NewReader(rdr)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var (
		data []float64
		rows int
		cols int
	)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(ErrInvalidInput, err.Error())
		}

		point, err := parseRow(record)
		if err != nil {
			if row == 1 {
				continue
			}

			return nil, errors.Wrapf(ErrInvalidInput, "row %d: %s", row, err)
		}
		if rows == 0 {
			cols = len(point)
		}
		data = append(data, point...)
		rows++
	}

	if rows == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "no points")
	}

	return mat.NewDense(rows, cols, data), nil
}

func parseRow(record []string) ([]float64, error) {
	point := make([]float64, len(record))
	for i, field := range record {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "column %d", i+1)
		}
		point[i] = value
	}

	return point, nil
}
