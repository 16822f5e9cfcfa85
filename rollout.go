package flagkit

// rolloutIncluded decides percentage-rollout inclusion for a hash value in
// [0, 1). With neither coverage nor range set the rule applies to everyone.
// An explicit range takes precedence over coverage when both are present.
func rolloutIncluded(n float64, coverage *float64, rng *BucketRange) bool {
	if rng != nil {
		return rng.InRange(n)
	}
	if coverage != nil {
		return n < *coverage
	}
	return true
}
