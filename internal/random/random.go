// Package random derives pseudo-random digests from ordered context fields.
//
// The digest is deterministic and replayable given all inputs; callers mix in
// a timestamp, caller identity, and a monotonic counter to make it
// unpredictable in practice. This is NOT cryptographically secure randomness
// against an adversary who controls the entropy inputs — an accepted
// limitation of the design.
package random

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"time"
)

// Digest is the first 8 bytes of a sha256 sum, big-endian. All bit slices the
// attribute generator reads (offsets 0 through 48) fit in 64 bits.
type Digest uint64

// Seed accumulates ordered context fields into a hash. Field order matters:
// the same fields in a different order produce a different digest.
type Seed struct {
	h hash.Hash
}

func NewSeed() *Seed {
	return &Seed{h: sha256.New()}
}

func (s *Seed) Uint64(v uint64) *Seed {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	s.h.Write(buf[:])
	return s
}

func (s *Seed) Int64(v int64) *Seed {
	return s.Uint64(uint64(v))
}

func (s *Seed) Int(v int) *Seed {
	return s.Uint64(uint64(int64(v)))
}

// String writes the field length followed by its bytes, so adjacent string
// fields cannot collide by concatenation.
func (s *Seed) String(v string) *Seed {
	s.Uint64(uint64(len(v)))
	s.h.Write([]byte(v))
	return s
}

func (s *Seed) Time(t time.Time) *Seed {
	return s.Int64(t.Unix())
}

func (s *Seed) Digest() Digest {
	sum := s.h.Sum(nil)
	return Digest(binary.BigEndian.Uint64(sum[:8]))
}

// Source supplies the environmental entropy mixed into each digest.
// Tests substitute fixed values for determinism.
type Source interface {
	Now() time.Time
	Nonce() uint64
}

// SystemSource reads the wall clock and the OS entropy pool.
type SystemSource struct{}

func (SystemSource) Now() time.Time { return time.Now().UTC() }

func (SystemSource) Nonce() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// The OS entropy pool is effectively infallible; fall back to the
		// clock rather than propagate an error through every digest call.
		return uint64(time.Now().UnixNano())
	}
	return binary.BigEndian.Uint64(buf[:])
}

// FixedSource returns constant values; used by tests and replay tooling.
type FixedSource struct {
	Time  time.Time
	Value uint64
}

func (f FixedSource) Now() time.Time { return f.Time }
func (f FixedSource) Nonce() uint64  { return f.Value }
