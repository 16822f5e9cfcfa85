package gbhash

import "strconv"

const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// fnv1a32 is the 32-bit FNV-1a digest over the raw bytes of s.
func fnv1a32(s string) uint32 {
	h := fnvOffsetBasis
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}

// Hash maps (seed, value, version) onto a float in [0, 1). The result is
// bit-for-bit reproducible across processes and across the SDK family, so a
// given identity lands in the same bucket everywhere.
//
// Version 1 buckets into 1000 slots, version 2 re-hashes the decimal string
// of the first digest and buckets into 10000 slots. Unknown versions return
// nil, which callers treat as unhashable.
func Hash(seed, value string, version int) *float64 {
	switch version {
	case 1:
		n := fnv1a32(value + seed)
		f := float64(n%1000) / 1000
		return &f
	case 2:
		n := fnv1a32(strconv.FormatUint(uint64(fnv1a32(seed+value)), 10))
		f := float64(n%10000) / 10000
		return &f
	default:
		return nil
	}
}
