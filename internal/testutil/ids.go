package testutil

import (
	"math/big"
	"sync"

	"github.com/kenbun-app/kenbundata/internal/fields"
)

// IDSequence hands out the IDs 1, 2, 3, ... as 128-bit integers.
//
// The sequence is the same on every run, so files and rows written with it
// can be compared against golden output.
type IDSequence struct {
	mu sync.Mutex
	n  int64
}

// NewIDSequence creates a sequence whose first ID is 1.
func NewIDSequence() *IDSequence {
	return &IDSequence{}
}

// Next returns the next ID.
func (s *IDSequence) Next() fields.ID {
	s.mu.Lock()
	s.n++
	n := s.n
	s.mu.Unlock()

	id, err := fields.IDFromBig(big.NewInt(n))
	if err != nil {
		panic(err)
	}
	return id
}
