package dice

import (
	"crypto/rand"
	"math/big"
)

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return cryptoSource{}
}

// Intn panics when n <= 0 or crypto/rand fails.
func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Faces is a Source that replays fixed die faces in [1, 10], cycling when
// exhausted. It is intended for tests and scripted demos; it is not safe
// for concurrent use.
type Faces struct {
	values []int
	next   int
}

// NewFaces returns a Source that yields the given faces in order.
//
// Precondition: faces must be non-empty.
func NewFaces(faces ...int) *Faces {
	return &Faces{values: faces}
}

// Intn returns the next face minus one.
func (f *Faces) Intn(n int) int {
	v := f.values[f.next%len(f.values)] - 1
	f.next++
	return v % n
}
