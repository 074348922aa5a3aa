package detection

import "strconv"

// Detection is one prediction returned by the detection service.
//
// The box fields are normalized to [0.0, 1.0] relative to the image height
// (YMin, YMax) and width (XMin, XMax).
type Detection struct {
	// Label is the class name reported by the model (e.g. "person", "cat").
	Label string `json:"label"`

	// Confidence is the model score as a fraction (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	YMin float64 `json:"y_min"`
	XMin float64 `json:"x_min"`
	YMax float64 `json:"y_max"`
	XMax float64 `json:"x_max"`
}

// ConfidencePercent returns the confidence in percent rounded to one decimal
// place.
//
// The exact binary value of the product is rounded, ties to even, so 12.25
// becomes 12.2 and 0.1195 (11.949999...) becomes 11.9. Binary floating point
// makes some values land just below a tie: 0.8765 becomes 87.6, not 87.7.
func (d Detection) ConfidencePercent() float64 {
	return roundTo(d.Confidence*100, 1)
}

// ConfidenceText is the label drawn next to a box, e.g. "87.6".
func (d Detection) ConfidenceText() string {
	return strconv.FormatFloat(d.ConfidencePercent(), 'f', 1, 64)
}

// QualifiesFor reports whether d counts as a hit for target at threshold
// percent: the labels must match exactly and the rounded percentage must be
// at least the threshold.
func (d Detection) QualifiesFor(target string, threshold float64) bool {
	return d.Label == target && d.ConfidencePercent() >= threshold
}

// roundTo rounds the exact value of v to the given number of decimal places,
// ties to even. Scaling by a power of ten first would round twice.
func roundTo(v float64, decimals int) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)
	return r
}
