package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger. Every roll is logged at debug level
// with its pool, difficulty, faces, and successes.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll rolls pool d10s against difficulty and logs the result.
//
// Postcondition: result logged; returns PoolResult or a range error.
func (r *Roller) Roll(pool, difficulty int) (PoolResult, error) {
	result, err := RollPool(pool, difficulty, r.src)
	if err != nil {
		return PoolResult{}, err
	}
	r.logger.Debug("dice roll",
		zap.Int("pool", result.Pool),
		zap.Int("difficulty", result.Difficulty),
		zap.Ints("dice", result.Dice),
		zap.Int("successes", result.Successes),
		zap.Bool("succeeded", result.Succeeded),
	)
	return result, nil
}

// RollExpr parses expr with ParsePool and rolls it, logging the result.
func (r *Roller) RollExpr(expr string) (PoolResult, error) {
	pool, difficulty, err := ParsePool(expr)
	if err != nil {
		return PoolResult{}, err
	}
	return r.Roll(pool, difficulty)
}
