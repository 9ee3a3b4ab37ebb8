package ratings

import "errors"

var (
	// ErrInsufficientData means a player has no scouting report and no
	// qualifying performance seasons. Callers must exclude the player from
	// ranking rather than inject a placeholder rating.
	ErrInsufficientData = errors.New("insufficient data: no scouting report and no qualifying seasons")

	// ErrNoPerformanceData means no season carried any qualifying sample.
	// Recoverable inside the pipeline: the blend falls back to scouting.
	ErrNoPerformanceData = errors.New("no qualifying performance data")

	// ErrEmptyReference means a ranking was attempted against an empty
	// reference distribution.
	ErrEmptyReference = errors.New("empty reference distribution")
)
