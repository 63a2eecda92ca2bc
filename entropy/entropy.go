// Package entropy derives seeds for the computer players' random generators.
//
// A seed is built by sampling a noise source one bit at a time and folding
// sixteen assembled bytes into an FNV-1a style accumulator. This is not
// cryptographic; it only keeps the computer's tie-breaking from repeating
// between runs.
package entropy

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

const (
	fnvOffsetBasis uint32 = 0x811C9DC5
	fnvPrime       uint32 = 0x01000193

	rounds      = 16
	bitsPerByte = 8

	rngBufSize = 1024
	rngRounds  = 12
)

// NoiseSource produces one noise bit per call. Only the lowest bit is used.
type NoiseSource interface {
	RandomBit() uint32
}

// Seed samples src and returns the accumulated seed.
func Seed(src NoiseSource) uint32 {
	seed := fnvOffsetBasis
	var next uint8
	for i := 0; i < rounds; i++ {
		for k := 0; k < bitsPerByte; k++ {
			next = next<<1 | uint8(src.RandomBit()&1)
		}
		seed ^= uint32(next)
		seed *= fnvPrime
	}
	return seed
}

// Noise draws bits from frand, which reads the operating system's entropy.
type Noise struct{}

// RandomBit returns 0 or 1.
func (Noise) RandomBit() uint32 {
	return uint32(frand.Intn(2))
}

// BitFunc adapts a function to NoiseSource.
type BitFunc func() uint32

// RandomBit calls f.
func (f BitFunc) RandomBit() uint32 {
	return f()
}

// NewRand returns a deterministic generator for seed. Two generators built
// from the same seed produce the same sequence.
func NewRand(seed uint32) *frand.RNG {
	var key [32]byte
	binary.LittleEndian.PutUint32(key[:], seed)
	return frand.NewCustom(key[:], rngBufSize, rngRounds)
}
