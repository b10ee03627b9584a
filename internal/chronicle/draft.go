package chronicle

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/game/character"
	"github.com/cory-johannsen/elysium/internal/game/creation"
)

// DraftStore persists builds in progress.
type DraftStore interface {
	Create(ctx context.Context, d *creation.Draft) error
	Get(ctx context.Context, id string) (*creation.Draft, error)
	GetByOwner(ctx context.Context, ownerID int64) (*creation.Draft, error)
	Save(ctx context.Context, d *creation.Draft) error
	Delete(ctx context.Context, id string) error
}

// CharacterStore persists submitted characters.
type CharacterStore interface {
	Create(ctx context.Context, c *character.Character) (*character.Character, error)
	GetByID(ctx context.Context, id int64) (*character.Character, error)
	List(ctx context.Context, accountID int64) ([]*character.Character, error)
	UpdateProfile(ctx context.Context, id int64, p character.Profile) error
	Delete(ctx context.Context, id int64) error
}

// EditKind names the part of a build an Edit changes.
type EditKind string

const (
	EditAttribute    EditKind = "attribute"
	EditSkill        EditKind = "skill"
	EditDiscipline   EditKind = "discipline"
	EditBackground   EditKind = "background"
	EditMerit        EditKind = "merit"
	EditFlaw         EditKind = "flaw"
	EditClan         EditKind = "clan"
	EditPredatorType EditKind = "predator_type"
	EditSect         EditKind = "sect"
)

// Edit is one change to a draft. Rating is ignored for merit, flaw, and
// modifier edits; an ID of 0 clears a clan, predator type, or sect.
type Edit struct {
	Kind   EditKind `json:"kind"`
	ID     int64    `json:"id"`
	Rating int      `json:"rating,omitempty"`
}

// Apply returns b with the edit applied. Rating edits clamp into range;
// modifier edits run through the modifier-change reducer.
//
// Postcondition: b is not modified.
func (e Edit) Apply(b creation.Build, cat *catalog.Catalog) (creation.Build, error) {
	switch e.Kind {
	case EditAttribute:
		return creation.SetAttribute(b, cat, e.ID, e.Rating)
	case EditSkill:
		return creation.SetSkill(b, cat, e.ID, e.Rating)
	case EditDiscipline:
		return creation.SetDiscipline(b, cat, e.ID, e.Rating)
	case EditBackground:
		return creation.SetBackground(b, cat, e.ID, e.Rating)
	case EditMerit:
		return creation.ToggleMerit(b, cat, e.ID)
	case EditFlaw:
		return creation.ToggleFlaw(b, cat, e.ID)
	case EditClan:
		if _, ok := cat.Clan(e.ID); e.ID != 0 && !ok {
			return b, fmt.Errorf("clan %d: %w", e.ID, ErrUnknownChoice)
		}
		return creation.ApplyModifierChange(b, creation.ClanChange(b, cat, e.ID)), nil
	case EditPredatorType:
		if _, ok := cat.PredatorType(e.ID); e.ID != 0 && !ok {
			return b, fmt.Errorf("predator type %d: %w", e.ID, ErrUnknownChoice)
		}
		return creation.ApplyModifierChange(b, creation.PredatorTypeChange(b, cat, e.ID)), nil
	case EditSect:
		if _, ok := cat.Sect(e.ID); e.ID != 0 && !ok {
			return b, fmt.Errorf("sect %d: %w", e.ID, ErrUnknownChoice)
		}
		return creation.ApplyModifierChange(b, creation.SectChange(b, cat, e.ID)), nil
	}
	return b, fmt.Errorf("%w: kind %q", ErrInvalidEdit, e.Kind)
}

// DraftView is a draft with its live pool usage.
type DraftView struct {
	Draft   *creation.Draft  `json:"draft"`
	Summary creation.Summary `json:"summary"`
}

// DraftService runs the character-creation workflow.
type DraftService struct {
	catalogs   *CatalogCache
	drafts     DraftStore
	characters CharacterStore
	logger     *zap.Logger
}

// NewDraftService wires the workflow to its collaborators.
//
// Precondition: all arguments must be non-nil.
func NewDraftService(catalogs *CatalogCache, drafts DraftStore, characters CharacterStore, logger *zap.Logger) *DraftService {
	return &DraftService{catalogs: catalogs, drafts: drafts, characters: characters, logger: logger}
}

// Start opens a fresh draft for owner, discarding any previous one.
//
// Postcondition: every catalog attribute is at 1 and every skill at 0.
func (s *DraftService) Start(ctx context.Context, ownerID int64) (DraftView, error) {
	cat, err := s.catalogs.Get(ctx)
	if err != nil {
		return DraftView{}, err
	}
	d := &creation.Draft{OwnerID: ownerID, Build: creation.NewBuild(cat)}
	if err := s.drafts.Create(ctx, d); err != nil {
		return DraftView{}, fmt.Errorf("starting draft: %w", err)
	}
	s.logger.Info("draft started", zap.String("draft_id", d.ID), zap.Int64("owner_id", ownerID))
	return DraftView{Draft: d, Summary: creation.Summarize(d.Build, cat)}, nil
}

// Resume returns the owner's live draft.
func (s *DraftService) Resume(ctx context.Context, ownerID int64) (DraftView, error) {
	return s.view(ctx, func() (*creation.Draft, error) { return s.drafts.GetByOwner(ctx, ownerID) })
}

// Get returns the draft with id.
func (s *DraftService) Get(ctx context.Context, id string) (DraftView, error) {
	return s.view(ctx, func() (*creation.Draft, error) { return s.drafts.Get(ctx, id) })
}

func (s *DraftService) view(ctx context.Context, fetch func() (*creation.Draft, error)) (DraftView, error) {
	cat, err := s.catalogs.Get(ctx)
	if err != nil {
		return DraftView{}, err
	}
	d, err := fetch()
	if err != nil {
		return DraftView{}, err
	}
	return DraftView{Draft: d, Summary: creation.Summarize(d.Build, cat)}, nil
}

// Edit applies edits to the draft in order and saves the result. If any
// edit fails, nothing is saved.
func (s *DraftService) Edit(ctx context.Context, id string, edits ...Edit) (DraftView, error) {
	cat, err := s.catalogs.Get(ctx)
	if err != nil {
		return DraftView{}, err
	}
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return DraftView{}, err
	}
	b := d.Build
	for _, e := range edits {
		if b, err = e.Apply(b, cat); err != nil {
			return DraftView{}, err
		}
	}
	d.Build = b
	if err := s.drafts.Save(ctx, d); err != nil {
		return DraftView{}, fmt.Errorf("saving draft: %w", err)
	}
	return DraftView{Draft: d, Summary: creation.Summarize(b, cat)}, nil
}

// SetAttribute sets an attribute rating, clamped into [1,5].
func (s *DraftService) SetAttribute(ctx context.Context, id string, attributeID int64, rating int) (DraftView, error) {
	return s.Edit(ctx, id, Edit{Kind: EditAttribute, ID: attributeID, Rating: rating})
}

// SetSkill sets a skill rating, clamped into [0,5].
func (s *DraftService) SetSkill(ctx context.Context, id string, skillID int64, rating int) (DraftView, error) {
	return s.Edit(ctx, id, Edit{Kind: EditSkill, ID: skillID, Rating: rating})
}

// SetDiscipline sets a discipline rating; in-clan disciplines keep a floor of 1.
func (s *DraftService) SetDiscipline(ctx context.Context, id string, disciplineID int64, rating int) (DraftView, error) {
	return s.Edit(ctx, id, Edit{Kind: EditDiscipline, ID: disciplineID, Rating: rating})
}

// SetBackground sets a background rating capped at its maximum; 0 clears it.
func (s *DraftService) SetBackground(ctx context.Context, id string, backgroundID int64, rating int) (DraftView, error) {
	return s.Edit(ctx, id, Edit{Kind: EditBackground, ID: backgroundID, Rating: rating})
}

// ClearBackground removes a background.
func (s *DraftService) ClearBackground(ctx context.Context, id string, backgroundID int64) (DraftView, error) {
	return s.SetBackground(ctx, id, backgroundID, 0)
}

// ToggleMerit adds or removes a merit.
func (s *DraftService) ToggleMerit(ctx context.Context, id string, meritID int64) (DraftView, error) {
	return s.Edit(ctx, id, Edit{Kind: EditMerit, ID: meritID})
}

// ToggleFlaw adds or removes a flaw.
func (s *DraftService) ToggleFlaw(ctx context.Context, id string, flawID int64) (DraftView, error) {
	return s.Edit(ctx, id, Edit{Kind: EditFlaw, ID: flawID})
}

// ChangeClan moves the draft to clanID (0 clears), swapping in-clan discipline floors.
func (s *DraftService) ChangeClan(ctx context.Context, id string, clanID int64) (DraftView, error) {
	return s.Edit(ctx, id, Edit{Kind: EditClan, ID: clanID})
}

// ChangePredatorType moves the draft to predatorTypeID (0 clears), swapping free dots.
func (s *DraftService) ChangePredatorType(ctx context.Context, id string, predatorTypeID int64) (DraftView, error) {
	return s.Edit(ctx, id, Edit{Kind: EditPredatorType, ID: predatorTypeID})
}

// ChangeSect moves the draft to sectID (0 clears), swapping the free background.
func (s *DraftService) ChangeSect(ctx context.Context, id string, sectID int64) (DraftView, error) {
	return s.Edit(ctx, id, Edit{Kind: EditSect, ID: sectID})
}

// Summary returns live pool usage for the draft.
func (s *DraftService) Summary(ctx context.Context, id string) (creation.Summary, error) {
	v, err := s.Get(ctx, id)
	return v.Summary, err
}

// Validate runs the full creation check against the draft.
func (s *DraftService) Validate(ctx context.Context, id string) (creation.Result, error) {
	cat, err := s.catalogs.Get(ctx)
	if err != nil {
		return creation.Result{}, err
	}
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return creation.Result{}, err
	}
	return creation.Validate(d.Build, cat), nil
}

// Submit validates the draft and persists it as a character.
//
// Postcondition: a build with errors returns *RejectedError and nothing is
// written; a build with warnings and !acceptWarnings returns
// *ConfirmationRequiredError and nothing is written; otherwise the stored
// character is returned and the draft is deleted.
func (s *DraftService) Submit(ctx context.Context, id string, p character.Profile, acceptWarnings bool) (*character.Character, error) {
	cat, err := s.catalogs.Get(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := creation.Validate(d.Build, cat)
	if !result.Valid {
		s.logger.Info("draft rejected", zap.String("draft_id", id), zap.Strings("errors", result.ErrorMessages()))
		return nil, &RejectedError{Result: result}
	}
	if len(result.Warnings) > 0 && !acceptWarnings {
		return nil, &ConfirmationRequiredError{Warnings: result.Warnings}
	}

	c, err := character.FromBuild(d.OwnerID, p, d.Build, cat)
	if err != nil {
		return nil, err
	}
	saved, err := s.characters.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("persisting character: %w", err)
	}
	if err := s.drafts.Delete(ctx, id); err != nil {
		s.logger.Warn("deleting submitted draft", zap.String("draft_id", id), zap.Error(err))
	}
	s.logger.Info("character created",
		zap.Int64("character_id", saved.ID),
		zap.String("name", saved.Name),
		zap.Strings("warnings_accepted", result.WarningMessages()),
	)
	return saved, nil
}

// IsRejected reports whether err is a *RejectedError and returns it.
func IsRejected(err error) (*RejectedError, bool) {
	var r *RejectedError
	ok := errors.As(err, &r)
	return r, ok
}

// IsConfirmationRequired reports whether err is a *ConfirmationRequiredError and returns it.
func IsConfirmationRequired(err error) (*ConfirmationRequiredError, bool) {
	var c *ConfirmationRequiredError
	ok := errors.As(err, &c)
	return c, ok
}
