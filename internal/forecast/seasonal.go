package forecast

import (
	"math"
	"time"
)

// interval80 is the z value for an 80% prediction interval.
const interval80 = 1.2816

// SeasonalModel is an additive trend + weekly seasonality model fit to a
// daily spend series. Trend flexibility comes from hinge terms at evenly
// spaced changepoints whose coefficients are ridge-penalized; a small
// prior scale keeps the trend stiff on sparse personal data.
type SeasonalModel struct {
	start        time.Time
	changepoints []float64
	beta         []float64 // [intercept, slope, changepoints..., Mon..Sat]
	sigma        float64
}

// FitSeasonal fits the model to an ascending daily series.
// Returns nil when the series is empty.
func FitSeasonal(series []DailyTotal, changepointPriorScale float64) *SeasonalModel {
	n := len(series)
	if n == 0 {
		return nil
	}

	m := &SeasonalModel{start: series[0].Date}
	m.changepoints = placeChangepoints(series, m.start)

	rows := make([][]float64, n)
	y := make([]float64, n)
	for i, p := range series {
		rows[i] = m.designRow(p.Date)
		y[i] = p.Amount
	}

	// Normal equations with ridge on the changepoint coefficients only;
	// the tiny uniform term keeps the solve well-conditioned.
	dim := len(rows[0])
	ata := make([][]float64, dim)
	atb := make([]float64, dim)
	for i := range ata {
		ata[i] = make([]float64, dim)
	}
	for r, row := range rows {
		for i := 0; i < dim; i++ {
			atb[i] += row[i] * y[r]
			for j := 0; j < dim; j++ {
				ata[i][j] += row[i] * row[j]
			}
		}
	}
	lambda := 0.0
	if changepointPriorScale > 0 {
		lambda = 1 / changepointPriorScale
	}
	for i := 0; i < dim; i++ {
		ata[i][i] += 1e-8
		if i >= 2 && i < 2+len(m.changepoints) {
			ata[i][i] += lambda
		}
	}

	m.beta = solveLinear(ata, atb)

	var ss float64
	for i, row := range rows {
		r := y[i] - dot(row, m.beta)
		ss += r * r
	}
	m.sigma = math.Sqrt(ss / float64(n))
	return m
}

// Predict returns the clipped point estimate and interval bounds for a
// date. All three are >= 0 and ordered lower <= point <= upper.
func (m *SeasonalModel) Predict(date time.Time) (point, lower, upper float64) {
	yhat := dot(m.designRow(date), m.beta)
	spread := interval80 * m.sigma

	point = math.Max(0, yhat)
	lower = math.Max(0, yhat-spread)
	upper = math.Max(0, yhat+spread)
	return point, lower, upper
}

// designRow builds the regression row for a date: intercept, trend,
// changepoint hinges, and Monday..Saturday indicators (Sunday baseline).
func (m *SeasonalModel) designRow(date time.Time) []float64 {
	t := date.Sub(m.start).Hours() / 24

	row := make([]float64, 2+len(m.changepoints)+6)
	row[0] = 1
	row[1] = t
	for k, s := range m.changepoints {
		if t > s {
			row[2+k] = t - s
		}
	}
	if wd := int(date.Weekday()); wd >= 1 {
		row[2+len(m.changepoints)+wd-1] = 1
	}
	return row
}

// placeChangepoints spaces potential trend changes over the first 80% of
// the observed range, one per week of data up to ten; short series get a
// plain linear trend.
func placeChangepoints(series []DailyTotal, start time.Time) []float64 {
	n := len(series)
	if n < 14 {
		return nil
	}
	k := n / 7
	if k > 10 {
		k = 10
	}

	tMax := series[n-1].Date.Sub(start).Hours() / 24
	points := make([]float64, k)
	for i := range points {
		points[i] = 0.8 * tMax * float64(i+1) / float64(k+1)
	}
	return points
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// solveLinear solves a*x = b by Gaussian elimination with partial
// pivoting. The matrix is mutated in place.
func solveLinear(a [][]float64, b []float64) []float64 {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		if a[col][col] == 0 {
			continue
		}
		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			if f == 0 {
				continue
			}
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		s := b[r]
		for c := r + 1; c < n; c++ {
			s -= a[r][c] * x[c]
		}
		if a[r][r] != 0 {
			x[r] = s / a[r][r]
		}
	}
	return x
}
