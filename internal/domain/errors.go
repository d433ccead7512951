package domain

import "errors"

var (
	// ErrInsufficientPoints means a beach has fewer surveys than the mode requires.
	ErrInsufficientPoints = errors.New("not enough temporal data for shoreline change analysis")

	// ErrDegenerateTime means every survey of a beach falls on the same day,
	// so no trend can be fitted.
	ErrDegenerateTime = errors.New("all surveys share the same date")

	// ErrUnknownMode is returned by ParseMode for unrecognized values.
	ErrUnknownMode = errors.New("unknown analysis mode")

	// ErrUnknownPolicy is returned by ParsePolicy for unrecognized values.
	ErrUnknownPolicy = errors.New("unknown classification policy")
)
