package ranking

import (
	"fmt"
	"math"
	"time"
)

const (
	// ageOffset keeps the decay curve normalized: at age zero the
	// decayed value equals the base score exactly.
	ageOffset = 6.0

	// Higher-scored items decay slower. The per-item gravity factor is
	// 1 - (score/100)*0.8, clamped to this range.
	minGravityFactor = 0.15
	maxGravityFactor = 1.2
)

// GravityScore computes the time-decayed display score for a stored
// base score. It is recomputed on every read and never persisted.
func GravityScore(baseScore float64, publishedAt time.Time, gravity float64, now time.Time) float64 {
	ageHours := math.Max(0, now.Sub(publishedAt).Seconds()) / 3600

	factor := 1.0 - (baseScore/100.0)*0.8
	factor = math.Min(math.Max(factor, minGravityFactor), maxGravityFactor)

	effective := gravity * factor
	return baseScore * math.Pow(ageOffset/(ageHours+ageOffset), effective)
}

// TimeAgo renders a coarse relative-age label: minutes under an hour,
// hours under a day, days otherwise.
func TimeAgo(ts time.Time, now time.Time) string {
	if ts.IsZero() {
		return ""
	}

	diff := now.Sub(ts)
	if diff < 0 {
		// Future timestamps (clock skew) read as fresh, matching the
		// zero-age clamp in GravityScore.
		diff = 0
	}
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dM", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dH", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dD", int(diff.Hours()/24))
	}
}
