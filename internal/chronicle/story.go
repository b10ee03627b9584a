package chronicle

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/elysium/internal/game/character"
	"github.com/cory-johannsen/elysium/internal/game/dice"
	"github.com/cory-johannsen/elysium/internal/game/story"
	"github.com/cory-johannsen/elysium/internal/narrative"
)

// ErrNarrativeUnavailable wraps a failed generation when a session needs text to proceed.
var ErrNarrativeUnavailable = errors.New("narrative unavailable")

// StoryStore persists story sessions.
type StoryStore interface {
	Create(ctx context.Context, s *story.Session) (*story.Session, error)
	GetByID(ctx context.Context, id int64) (*story.Session, error)
	ListByCharacter(ctx context.Context, characterID int64) ([]*story.Session, error)
	Update(ctx context.Context, s *story.Session) error
}

// Narrator generates story text. Failures are reported in the Result, not as errors.
type Narrator interface {
	Generate(ctx context.Context, req narrative.Request) narrative.Result
}

// DiceRoller rolls a d10 pool.
type DiceRoller interface {
	Roll(pool, difficulty int) (dice.PoolResult, error)
}

// Continuation is the outcome of RollAndContinue.
type Continuation struct {
	Session   *story.Session   `json:"session"`
	Roll      dice.PoolResult  `json:"roll"`
	Narrative narrative.Result `json:"narrative"`
}

// StoryService runs narrative sessions for stored characters.
type StoryService struct {
	catalogs   *CatalogCache
	characters CharacterStore
	stories    StoryStore
	narrator   Narrator
	roller     DiceRoller
	logger     *zap.Logger
}

// NewStoryService wires story sessions to their collaborators.
//
// Precondition: all arguments must be non-nil.
func NewStoryService(catalogs *CatalogCache, characters CharacterStore, stories StoryStore, narrator Narrator, roller DiceRoller, logger *zap.Logger) *StoryService {
	return &StoryService{
		catalogs:   catalogs,
		characters: characters,
		stories:    stories,
		narrator:   narrator,
		roller:     roller,
		logger:     logger,
	}
}

// Generate asks the narrator for text. When characterID > 0 the character's
// birth, embrace, and clan flavor the prompt, and fill Clan when unset.
func (s *StoryService) Generate(ctx context.Context, req narrative.Request, characterID int64) (narrative.Result, error) {
	if characterID > 0 {
		c, err := s.characters.GetByID(ctx, characterID)
		if err != nil {
			return narrative.Result{}, err
		}
		ctxInfo, err := s.characterContext(ctx, c)
		if err != nil {
			return narrative.Result{}, err
		}
		req.Character = ctxInfo
		if req.Clan == "" {
			req.Clan = ctxInfo.Clan
		}
	}
	return s.narrator.Generate(ctx, req), nil
}

func (s *StoryService) characterContext(ctx context.Context, c *character.Character) (*narrative.CharacterContext, error) {
	cat, err := s.catalogs.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := &narrative.CharacterContext{
		DateOfBirth:  c.DateOfBirth,
		PlaceOfBirth: c.PlaceOfBirth,
		EmbraceDate:  c.EmbraceDate,
	}
	if clan, ok := cat.Clan(c.ClanID); ok {
		out.Clan = clan.Name
	}
	return out, nil
}

// StartSession opens a session for the character. Empty content is replaced
// by a generated hook; if generation fails no session is created.
func (s *StoryService) StartSession(ctx context.Context, characterID int64, title, content string) (*story.Session, error) {
	if _, err := s.characters.GetByID(ctx, characterID); err != nil {
		return nil, err
	}
	if content == "" {
		res, err := s.Generate(ctx, narrative.Request{Type: narrative.DefaultType}, characterID)
		if err != nil {
			return nil, err
		}
		if !res.Success {
			return nil, fmt.Errorf("%w: %s", ErrNarrativeUnavailable, res.Error)
		}
		content = res.Content
	}
	sess, err := story.New(characterID, title, content)
	if err != nil {
		return nil, err
	}
	saved, err := s.stories.Create(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("creating story session: %w", err)
	}
	s.logger.Info("story session started", zap.Int64("session_id", saved.ID), zap.Int64("character_id", characterID))
	return saved, nil
}

// Session returns the session with id.
func (s *StoryService) Session(ctx context.Context, id int64) (*story.Session, error) {
	return s.stories.GetByID(ctx, id)
}

// SessionsForCharacter lists the character's sessions, newest first.
func (s *StoryService) SessionsForCharacter(ctx context.Context, characterID int64) ([]*story.Session, error) {
	return s.stories.ListByCharacter(ctx, characterID)
}

// RollAndContinue rolls pool dice against difficulty and asks the narrator to
// continue the current scene in light of the roll.
//
// Postcondition: the roll is always appended to the session's dice log and
// saved. The scene advances only when generation succeeds; otherwise the
// failure is returned in Continuation.Narrative.
func (s *StoryService) RollAndContinue(ctx context.Context, sessionID int64, pool, difficulty int) (Continuation, error) {
	sess, err := s.stories.GetByID(ctx, sessionID)
	if err != nil {
		return Continuation{}, err
	}
	roll, err := s.roller.Roll(pool, difficulty)
	if err != nil {
		return Continuation{}, err
	}

	previous := sess.CurrentScene
	if previous == "" {
		previous = sess.Content
	}
	res, err := s.Generate(ctx, narrative.Request{PreviousStory: previous, DiceResult: &roll}, sess.CharacterID)
	if err != nil {
		return Continuation{}, err
	}

	if res.Success {
		sess.Continue(roll, res.Content)
	} else {
		sess.DiceRolls = append(sess.DiceRolls, roll)
		s.logger.Warn("story continuation failed",
			zap.Int64("session_id", sessionID),
			zap.String("error", res.Error),
		)
	}
	if err := s.stories.Update(ctx, sess); err != nil {
		return Continuation{}, fmt.Errorf("saving story session: %w", err)
	}
	return Continuation{Session: sess, Roll: roll, Narrative: res}, nil
}
