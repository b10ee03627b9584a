// Package dice rolls d10 dice pools and counts successes against a difficulty.
package dice

import (
	"fmt"
	"strings"
	"time"
)

// Pool and difficulty limits.
const (
	Sides         = 10
	MinPool       = 1
	MaxPool       = 20
	MinDifficulty = 1
	MaxDifficulty = 10

	// SuccessThreshold is the lowest face that scores a success.
	SuccessThreshold = 6
)

// PoolResult holds the full audit trail for a single pool roll.
//
// Invariant: Successes == Count(Dice) and Succeeded == (Successes >= Difficulty).
type PoolResult struct {
	Pool       int       `json:"dice_count"`
	Difficulty int       `json:"difficulty"`
	Dice       []int     `json:"results"`
	Successes  int       `json:"successes"`
	Succeeded  bool      `json:"succeeded"`
	RolledAt   time.Time `json:"timestamp"`
}

// Count returns the successes scored by faces: one per die at 6 or higher,
// and a second for each 10.
func Count(faces []int) int {
	n := 0
	for _, f := range faces {
		if f >= SuccessThreshold {
			n++
		}
		if f == Sides {
			n++
		}
	}
	return n
}

// Criticals returns the number of 10s in faces.
func (r PoolResult) Criticals() int {
	n := 0
	for _, f := range r.Dice {
		if f == Sides {
			n++
		}
	}
	return n
}

// String returns a human-readable audit string in the format:
//
//	"5d10 vs 3 [2 6 10 4 7] = 4 successes (success)"
func (r PoolResult) String() string {
	outcome := "failure"
	if r.Succeeded {
		outcome = "success"
	}
	noun := "successes"
	if r.Successes == 1 {
		noun = "success"
	}
	faces := make([]string, len(r.Dice))
	for i, f := range r.Dice {
		faces[i] = fmt.Sprint(f)
	}
	return fmt.Sprintf("%dd%d vs %d [%s] = %d %s (%s)",
		r.Pool, Sides, r.Difficulty, strings.Join(faces, " "), r.Successes, noun, outcome)
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
