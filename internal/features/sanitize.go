package features

import (
	"math"

	"github.com/sirupsen/logrus"
	"github.com/fomastreeman/match-predictor/internal/metrics"
)

// Sanitize replaces any NaN or Infinity in the vector with the field's
// documented neutral default and returns the names of the replaced fields.
// This is the single centralized sanitization point; no model may ever see
// a non-finite feature.
func Sanitize(v *FeatureVector, logger *logrus.Logger) []string {
	var replaced []string
	for _, spec := range v.fields() {
		if math.IsNaN(*spec.ptr) || math.IsInf(*spec.ptr, 0) {
			*spec.ptr = spec.def
			replaced = append(replaced, spec.name)
		}
	}

	if len(replaced) > 0 {
		metrics.FeatureSanitizationsTotal.Add(float64(len(replaced)))
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"fields": replaced,
				"count":  len(replaced),
			}).Warn("Replaced non-finite feature values with neutral defaults")
		}
	}
	return replaced
}
