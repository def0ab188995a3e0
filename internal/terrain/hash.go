// Package terrain provides procedural tile heights keyed by hex coordinate.
// A Field wraps one Generator and floors its output at 1.
// See DESIGN.md, "internal/terrain".
package terrain

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/zeebo/xxh3"
)

// SeededHash hashes b with seed, mixing in tag so that different uses of the
// same bytes (a height roll, a gradient's x and y component) stay independent.
func SeededHash(b []byte, seed uint64, tag string) uint64 {
	buf := make([]byte, 0, len(b)+len(tag))
	buf = append(buf, b...)
	buf = append(buf, tag...)
	return xxh3.HashSeed(buf, seed)
}

// unitFloat maps a hash onto [-1, 1).
func unitFloat(h uint64) float64 {
	return float64(h>>11)/float64(1<<53)*2 - 1
}

// latticeBytes encodes a noise lattice point as two little-endian int64s.
func latticeBytes(x, y int64) [16]byte {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], uint64(x))
	binary.LittleEndian.PutUint64(b[8:16], uint64(y))
	return b
}

// resolveSeed turns seed 0 into a random non-zero seed.
func resolveSeed(seed uint64) uint64 {
	for seed == 0 {
		seed = rand.Uint64()
	}
	return seed
}
