package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator hands out ULIDs for calculation records. IDs stamped in the same
// millisecond still sort in the order they were issued.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewGenerator returns a Generator whose entropy comes from seed. Two
// generators with the same seed issue the same IDs for the same times.
func NewGenerator(seed int64) *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)}
}

// At returns an ID stamped with t.
func (g *Generator) At(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(t.UTC()), g.entropy)
	if err != nil {
		// ulid.ErrMonotonicOverflow: 2^80 IDs in one millisecond.
		panic(err)
	}
	return u.String()
}

var std = NewGenerator(cryptoSeed())

func cryptoSeed() int64 {
	var seed int64
	if err := binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed); err != nil || seed == 0 {
		seed = time.Now().UnixNano()
	}
	return seed
}

// New returns an ID for a record created now.
func New() string {
	return std.At(time.Now())
}

// NewAt returns an ID for a record created at t.
func NewAt(t time.Time) string {
	return std.At(t)
}

// Time extracts the millisecond timestamp from an ID.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse id %q: %w", s, err)
	}
	return ulid.Time(u.Time()).UTC(), nil
}
