// Package gbhash provides the deterministic bucketing hash shared by this
// SDK family.
//
// The hash maps a (seed, value, version) triple onto a float in [0, 1).
// Determinism is the whole point: the same inputs must produce the same
// output in every process, on every platform and in every language
// implementation, because rollout decisions derived from it have to agree
// across an entire fleet. Do not change the algorithm.
//
//	n := gbhash.Hash("my-feature", userID, 2)
//	if n != nil && *n < 0.25 {
//		// user is inside a 25% rollout
//	}
//
// A nil result means the inputs were unhashable (unsupported version);
// callers exclude such users from rollouts.
package gbhash
