package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/elysium/internal/game/story"
)

// ErrSessionNotFound is returned when a story session lookup yields no results.
var ErrSessionNotFound = errors.New("story session not found")

// StoryRepository persists story sessions. Dice rolls are stored as a JSONB array.
type StoryRepository struct {
	db *pgxpool.Pool
}

// NewStoryRepository creates a StoryRepository backed by the given pool.
func NewStoryRepository(db *pgxpool.Pool) *StoryRepository {
	return &StoryRepository{db: db}
}

const sessionColumns = `id, character_id, title, story_content, dice_rolls, current_scene, created_at, updated_at`

func scanSession(row pgx.Row) (*story.Session, error) {
	var s story.Session
	err := row.Scan(&s.ID, &s.CharacterID, &s.Title, &s.Content, &s.DiceRolls, &s.CurrentScene, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts s and returns the stored session.
//
// Postcondition: returns ErrCharacterNotFound when s.CharacterID does not exist.
func (r *StoryRepository) Create(ctx context.Context, s *story.Session) (*story.Session, error) {
	out, err := scanSession(r.db.QueryRow(ctx, `
		INSERT INTO story_sessions (character_id, title, story_content, dice_rolls, current_scene)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+sessionColumns,
		s.CharacterID, s.Title, s.Content, s.DiceRolls, s.CurrentScene,
	))
	if err != nil {
		if isForeignKeyError(err) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("inserting story session: %w", err)
	}
	return out, nil
}

// GetByID returns the session or ErrSessionNotFound.
func (r *StoryRepository) GetByID(ctx context.Context, id int64) (*story.Session, error) {
	s, err := scanSession(r.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM story_sessions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("querying story session: %w", err)
	}
	return s, nil
}

// ListByCharacter returns the character's sessions, most recently updated first.
func (r *StoryRepository) ListByCharacter(ctx context.Context, characterID int64) ([]*story.Session, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+sessionColumns+` FROM story_sessions WHERE character_id = $1 ORDER BY updated_at DESC, id DESC`,
		characterID)
	if err != nil {
		return nil, fmt.Errorf("listing story sessions: %w", err)
	}
	defer rows.Close()

	out := make([]*story.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning story session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update saves the content, current scene, and dice log of s and refreshes UpdatedAt.
//
// Postcondition: returns ErrSessionNotFound when s.ID does not exist.
func (r *StoryRepository) Update(ctx context.Context, s *story.Session) error {
	err := r.db.QueryRow(ctx, `
		UPDATE story_sessions
		SET story_content = $2, dice_rolls = $3, current_scene = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		s.ID, s.Content, s.DiceRolls, s.CurrentScene,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("updating story session: %w", err)
	}
	return nil
}
