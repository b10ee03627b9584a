package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidPool is returned when a pool size or difficulty is out of range.
var ErrInvalidPool = errors.New("invalid dice pool")

// Check reports whether pool and difficulty are within their limits.
func Check(pool, difficulty int) error {
	if pool < MinPool || pool > MaxPool {
		return fmt.Errorf("%w: pool must be between %d and %d, got %d", ErrInvalidPool, MinPool, MaxPool, pool)
	}
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return fmt.Errorf("%w: difficulty must be between %d and %d, got %d",
			ErrInvalidPool, MinDifficulty, MaxDifficulty, difficulty)
	}
	return nil
}

// RollPool rolls pool d10s against difficulty using src.
//
// Precondition: src must be non-nil.
// Postcondition: len(result.Dice) == pool and every face is in [1, 10], or a non-nil error.
func RollPool(pool, difficulty int, src Source) (PoolResult, error) {
	if err := Check(pool, difficulty); err != nil {
		return PoolResult{}, err
	}
	faces := make([]int, pool)
	for i := range faces {
		faces[i] = src.Intn(Sides) + 1
	}
	successes := Count(faces)
	return PoolResult{
		Pool:       pool,
		Difficulty: difficulty,
		Dice:       faces,
		Successes:  successes,
		Succeeded:  successes >= difficulty,
		RolledAt:   time.Now().UTC(),
	}, nil
}

// ParsePool parses "5", "5d10", or "5d10 vs 3" (also "5 3") into a pool
// size and difficulty. A missing difficulty defaults to 1.
//
// Postcondition: the returned values satisfy Check, or err is non-nil.
func ParsePool(expr string) (pool, difficulty int, err error) {
	fields := strings.Fields(strings.ToLower(expr))
	if len(fields) == 3 && fields[1] == "vs" {
		fields = []string{fields[0], fields[2]}
	}
	if len(fields) == 0 || len(fields) > 2 {
		return 0, 0, fmt.Errorf("dice: cannot parse pool %q", expr)
	}

	count := fields[0]
	if before, sides, ok := strings.Cut(count, "d"); ok {
		if sides != strconv.Itoa(Sides) {
			return 0, 0, fmt.Errorf("dice: only d%d pools are supported, got %q", Sides, expr)
		}
		count = before
	}
	pool, err = strconv.Atoi(count)
	if err != nil {
		return 0, 0, fmt.Errorf("dice: invalid pool size in %q: %w", expr, err)
	}

	difficulty = MinDifficulty
	if len(fields) == 2 {
		difficulty, err = strconv.Atoi(fields[1])
		if err != nil {
			return 0, 0, fmt.Errorf("dice: invalid difficulty in %q: %w", expr, err)
		}
	}
	if err := Check(pool, difficulty); err != nil {
		return 0, 0, err
	}
	return pool, difficulty, nil
}
