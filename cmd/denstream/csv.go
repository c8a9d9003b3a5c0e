package main

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/denstream/pkg/errors"
)

// readPoints parses numeric CSV rows. A first row that does not parse is
// treated as a header. With truthColumn the last column holds an integer
// ground truth label.
func readPoints(r io.Reader, truthColumn bool) (points [][]float64, truth []int, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	width := -1
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrap(err, "read csv")
		}
		line++

		if width < 0 {
			width = len(record)
			if truthColumn && width < 2 {
				return nil, nil, errors.NewValueError("read csv", "truth column needs at least two columns")
			}
		}
		if len(record) != width {
			return nil, nil, errors.NewDimensionError("read csv", width, len(record), 1)
		}

		featureCols := width
		if truthColumn {
			featureCols--
		}
		p, perr := parseRow(record[:featureCols])
		if perr != nil {
			if line == 1 && len(points) == 0 {
				continue
			}
			return nil, nil, errors.Wrapf(perr, "line %d", line)
		}
		if truthColumn {
			l, lerr := strconv.Atoi(strings.TrimSpace(record[featureCols]))
			if lerr != nil {
				if line == 1 && len(points) == 0 {
					continue
				}
				return nil, nil, errors.Wrapf(lerr, "line %d: truth label", line)
			}
			truth = append(truth, l)
		}
		points = append(points, p)
	}

	if len(points) == 0 {
		return nil, nil, errors.ErrEmptyData
	}
	return points, truth, nil
}

func parseRow(fields []string) ([]float64, error) {
	p := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.NewNumericalInstabilityError("read csv", []float64{v}, i)
		}
		p[i] = v
	}
	return p, nil
}

// writeLabels writes one label per line.
func writeLabels(w io.Writer, labels []int) error {
	cw := csv.NewWriter(w)
	for _, l := range labels {
		if err := cw.Write([]string{strconv.Itoa(l)}); err != nil {
			return errors.Wrap(err, "write labels")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "write labels")
}
