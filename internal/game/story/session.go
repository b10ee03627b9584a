// Package story models a running narrative session for one character.
package story

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cory-johannsen/elysium/internal/game/dice"
)

// MaxTitleLength bounds Session.Title.
const MaxTitleLength = 255

// ErrInvalidSession wraps every rejected session field.
var ErrInvalidSession = errors.New("invalid story session")

// Session is an ongoing story: the accumulated text, the current scene, and
// every dice roll made along the way.
type Session struct {
	ID           int64             `json:"id"`
	CharacterID  int64             `json:"character_id"`
	Title        string            `json:"title"`
	Content      string            `json:"story_content"`
	DiceRolls    []dice.PoolResult `json:"dice_rolls"`
	CurrentScene string            `json:"current_scene"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// New returns an unsaved session whose current scene is the opening content.
func New(characterID int64, title, content string) (*Session, error) {
	title = strings.TrimSpace(title)
	switch {
	case characterID <= 0:
		return nil, fmt.Errorf("%w: a character is required", ErrInvalidSession)
	case title == "":
		return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidSession)
	case len(title) > MaxTitleLength:
		return nil, fmt.Errorf("%w: title must be at most %d characters", ErrInvalidSession, MaxTitleLength)
	}
	return &Session{
		CharacterID:  characterID,
		Title:        title,
		Content:      content,
		CurrentScene: content,
		DiceRolls:    []dice.PoolResult{},
	}, nil
}

// Continue records roll and appends scene as the new current scene.
//
// Postcondition: len(DiceRolls) grows by one; Content ends with scene.
func (s *Session) Continue(roll dice.PoolResult, scene string) {
	s.DiceRolls = append(s.DiceRolls, roll)
	if s.Content != "" {
		s.Content += "\n\n"
	}
	s.Content += scene
	s.CurrentScene = scene
}

// LastRoll returns the most recent roll, if any.
func (s *Session) LastRoll() (dice.PoolResult, bool) {
	if len(s.DiceRolls) == 0 {
		return dice.PoolResult{}, false
	}
	return s.DiceRolls[len(s.DiceRolls)-1], true
}
