package game

const (
	mixer          = 0x9e3779b9
	differentiator = 0x9e3779b97f4a7c13
)

// DigestFunc computes the structural digest of a position from the digests
// of its Left and Right options, each given in canonical order.
type DigestFunc func(left, right []uint64) uint64

// Combine is the default DigestFunc. It folds the Left digests, separates
// the halves with a differentiator so that swapping Left and Right changes
// the result, then folds the Right digests.
func Combine(left, right []uint64) uint64 {
	var seed uint64
	for _, h := range left {
		seed = fold(seed, h+mixer)
	}
	seed = fold(seed, differentiator)
	for _, h := range right {
		seed = fold(seed, h+mixer)
	}
	return seed
}

func fold(seed, v uint64) uint64 {
	return seed ^ (v + (seed << 6) + (seed >> 2))
}

func digests(opts []*node) []uint64 {
	out := make([]uint64, len(opts))
	for i, o := range opts {
		out[i] = o.digest
	}
	return out
}
