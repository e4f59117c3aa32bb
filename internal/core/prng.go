package core

// avalancheMultiplier is the xorshift64* output multiplier.
const avalancheMultiplier = 0x2545F4914F6CDD1D

// NextInRange advances state with three xorshift steps and returns a value in
// [lower, upper). When upper <= lower it returns lower.
//
// The generator is neither cryptographically secure nor strictly uniform
// (modulo bias is accepted). A zero state stays zero and always yields lower.
func NextInRange(state *uint64, lower, upper uint64) uint64 {
	s := *state
	s ^= s >> 12
	s ^= s << 25
	s ^= s >> 27
	*state = s

	if upper <= lower {
		return lower
	}
	return (s*avalancheMultiplier)%(upper-lower) + lower
}
