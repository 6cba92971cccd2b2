package columnio

// fillLevels appends n copies of value to levels and returns the grown
// slice. Column.Append calls it with n == 1 for each level it stores.
// It is grounded on the
// teacher's level.go/level_amd64.go split between an AVX2 bulk path and
// a plain fallback loop. The teacher's split only pays off because its
// AVX2 branch calls into hand-written assembly (level_amd64.s); this
// module has no assembly of its own, so fillLevelsUnrolled - itself
// just a plain Go loop - would produce byte-identical output to a
// cpu.X86.HasAVX2 check either way. Rather than keep a feature gate
// that selects between two equivalent pure-Go paths, fillLevels always
// takes the unrolled loop.
func fillLevels(levels []int8, value int8, n int) []int8 {
	if n <= 0 {
		return levels
	}
	start := len(levels)
	levels = append(levels, make([]int8, n)...)
	fillLevelsUnrolled(levels[start:], value)
	return levels
}

// fillLevelsUnrolled fills dst with value 8 elements at a time, with a
// single-element remainder loop for the tail.
func fillLevelsUnrolled(dst []int8, value int8) {
	i := 0
	for ; i+8 <= len(dst); i += 8 {
		dst[i] = value
		dst[i+1] = value
		dst[i+2] = value
		dst[i+3] = value
		dst[i+4] = value
		dst[i+5] = value
		dst[i+6] = value
		dst[i+7] = value
	}
	for ; i < len(dst); i++ {
		dst[i] = value
	}
}
