package feature

import "math"

// Scaler standardizes feature columns to zero mean and unit variance.
// Fit on one matrix, then Transform rows from the same column layout.
type Scaler struct {
	mean []float64
	std  []float64
}

// Fit computes per-column mean and population standard deviation.
// Zero-variance columns keep a unit divisor so they pass through centered.
func (s *Scaler) Fit(x [][]float64) {
	if len(x) == 0 {
		s.mean, s.std = nil, nil
		return
	}
	cols := len(x[0])
	s.mean = make([]float64, cols)
	s.std = make([]float64, cols)

	for _, row := range x {
		for j, v := range row {
			s.mean[j] += v
		}
	}
	n := float64(len(x))
	for j := range s.mean {
		s.mean[j] /= n
	}

	for _, row := range x {
		for j, v := range row {
			d := v - s.mean[j]
			s.std[j] += d * d
		}
	}
	for j := range s.std {
		s.std[j] = math.Sqrt(s.std[j] / n)
		if s.std[j] == 0 {
			s.std[j] = 1
		}
	}
}

// Transform returns a standardized copy of the matrix.
func (s *Scaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.TransformRow(row)
	}
	return out
}

// TransformRow standardizes a single row.
func (s *Scaler) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.mean[j]) / s.std[j]
	}
	return out
}

// FitTransform fits the scaler and standardizes the matrix in one step.
func (s *Scaler) FitTransform(x [][]float64) [][]float64 {
	s.Fit(x)
	return s.Transform(x)
}
