package dataset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-freqset/algorithms/spectral"
	"github.com/RyanBlaney/sonido-freqset/algorithms/waveform"
)

// Metrics summarizes how far frequency predictions are from their labels
type Metrics struct {
	Count             int     `json:"count"`
	MAE               float64 `json:"mae"`  // Hz
	RMSE              float64 `json:"rmse"` // Hz
	MeanRelativeError float64 `json:"mean_relative_error"`
	MaxAbsError       float64 `json:"max_abs_error"` // Hz

	relErrors []float64
}

// WithinTolerance returns the fraction of predictions whose relative error
// is at most relTol.
func (m Metrics) WithinTolerance(relTol float64) float64 {
	if len(m.relErrors) == 0 {
		return 0
	}
	hits := 0
	for _, e := range m.relErrors {
		if e <= relTol {
			hits++
		}
	}
	return float64(hits) / float64(len(m.relErrors))
}

// Evaluate scores predictions against the labels of ds, row by row
func Evaluate(predictions []float64, ds *Dataset) (Metrics, error) {
	return EvaluateLabels(predictions, ds.Labels())
}

// EvaluateLabels scores predictions against labels. Labels must be positive.
func EvaluateLabels(predictions, labels []float64) (Metrics, error) {
	if len(predictions) != len(labels) {
		return Metrics{}, fmt.Errorf("%d predictions for %d labels: %w", len(predictions), len(labels), ErrInvalidParameter)
	}
	if len(labels) == 0 {
		return Metrics{}, fmt.Errorf("nothing to evaluate: %w", ErrInvalidParameter)
	}

	absErr := make([]float64, len(labels))
	sqErr := make([]float64, len(labels))
	relErr := make([]float64, len(labels))
	for i, label := range labels {
		if !(label > 0) {
			return Metrics{}, fmt.Errorf("label %d is %v: %w", i, label, ErrInvalidParameter)
		}
		diff := predictions[i] - label
		absErr[i] = math.Abs(diff)
		sqErr[i] = diff * diff
		relErr[i] = absErr[i] / label
	}

	return Metrics{
		Count:             len(labels),
		MAE:               stat.Mean(absErr, nil),
		RMSE:              math.Sqrt(stat.Mean(sqErr, nil)),
		MeanRelativeError: stat.Mean(relErr, nil),
		MaxAbsError:       floats.Max(absErr),
		relErrors:         relErr,
	}, nil
}

// Mismatch is a row whose spectral peak disagrees with its label
type Mismatch struct {
	Row       int            `json:"row"`
	Shape     waveform.Shape `json:"shape"`
	Label     float64        `json:"label"`
	Estimated float64        `json:"estimated"`
}

// Report is the outcome of VerifyLabels
type Report struct {
	Checked    int        `json:"checked"`
	Skipped    int        `json:"skipped"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// OK reports whether every checked row matched
func (r Report) OK() bool {
	return len(r.Mismatches) == 0
}

// VerifyLabels estimates the dominant frequency of every row and compares
// it with the label. A row matches when the error is within relTol of the
// label or half a spectral bin, whichever is larger. Chirp rows are skipped
// since their spectrum does not peak at the label.
func VerifyLabels(ds *Dataset, framerate, relTol float64) (Report, error) {
	if !(relTol >= 0) {
		return Report{}, fmt.Errorf("relative tolerance %v: %w", relTol, ErrInvalidParameter)
	}

	estimator, err := spectral.NewFrequencyEstimator(framerate)
	if err != nil {
		return Report{}, err
	}
	halfBin := estimator.BinWidth(ds.Samples()) / 2

	var report Report
	for i := range ds.Len() {
		if ds.Shapes[i] == waveform.Chirp {
			report.Skipped++
			continue
		}

		label := ds.Label(i)
		estimated, err := estimator.Estimate(ds.Signal(i))
		if err != nil {
			return Report{}, fmt.Errorf("row %d: %w", i, err)
		}

		report.Checked++
		if math.Abs(estimated-label) > math.Max(relTol*label, halfBin) {
			report.Mismatches = append(report.Mismatches, Mismatch{
				Row:       i,
				Shape:     ds.Shapes[i],
				Label:     label,
				Estimated: estimated,
			})
		}
	}
	return report, nil
}
