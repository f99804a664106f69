package sim

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource supplies the random bits of sampled objects.
type RandomSource interface {
	Uint32() uint32
}

// crypto random : default generation method
type cryptoRNG struct{}

func (cryptoRNG) Uint32() uint32 {
	var buf [4]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// back to math/rand/v2
		return rand.Uint32()
	}
	return binary.BigEndian.Uint32(buf[:])
}

func DefaultRNG() RandomSource { return cryptoRNG{} }

// Replicable RNG (sampling reports, tests)
type seededRNG struct{ r *rand.Rand }

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Uint32() uint32 { return s.r.Uint32() }
