package core

// mixMultiplier is Knuth's multiplicative hashing constant.
const mixMultiplier = 2654435761

// Mix scrambles x with xor-shift/multiply rounds.
//
// Every round is invertible on uint64 (xor-shift right and multiplication by an
// odd constant), so Mix is a bijection: distinct inputs never collide.
func Mix(x uint64) uint64 {
	x ^= x >> 21
	x *= mixMultiplier
	x ^= x >> 13
	x *= mixMultiplier
	x ^= x >> 17
	return x
}

// Pack concatenates the decimal digits of a and b: Pack(3, 12) == 312.
//
// The result wraps modulo 2^32 when the concatenation does not fit; callers
// that cannot bound their inputs should use PackChecked.
func Pack(a, b uint32) uint32 {
	packed, _ := PackChecked(a, b)
	return packed
}

// PackChecked is Pack with overflow detection. ok is false when the decimal
// concatenation of a and b does not fit in 32 bits.
func PackChecked(a, b uint32) (packed uint32, ok bool) {
	pow := uint64(10)
	for uint64(b) >= pow {
		pow *= 10
	}
	v := uint64(a)*pow + uint64(b)
	if v > uint64(^uint32(0)) {
		return uint32(v), false
	}
	return uint32(v), true
}
