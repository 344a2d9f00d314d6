// Package ensemble trains heterogeneous classifiers on labeled feature
// vectors and combines their outcome probabilities with skill-derived
// weights.
package ensemble

import "errors"

var (
	// ErrInsufficientData indicates fewer labeled examples than the
	// configured minimum for a training run
	ErrInsufficientData = errors.New("insufficient training examples")

	// ErrNotTrained indicates a prediction was requested before a
	// successful training run
	ErrNotTrained = errors.New("ensemble not trained")

	// ErrModelTraining indicates a single ensemble member failed to fit;
	// the member is dropped and weights are renormalized
	ErrModelTraining = errors.New("model training failed")

	// ErrNoModels indicates every ensemble member failed to train
	ErrNoModels = errors.New("no models survived training")
)
