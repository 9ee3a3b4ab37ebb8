package ratings

// MapRating converts a percentile into the half-star rating using an
// ordered threshold table, descending by percentile. The first threshold
// the percentile meets or exceeds (inclusive) wins; below every threshold
// the floor applies. The table is pure configuration — population-share
// recalibration ("top 2% maps to 5.0") swaps the table, never this code.
func MapRating(percentile float64, table []RatingThreshold, floor float64) float64 {
	for _, t := range table {
		if percentile >= t.Percentile {
			return t.Rating
		}
	}
	return floor
}
