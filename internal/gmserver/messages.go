package gmserver

import (
	"github.com/cory-johannsen/elysium/internal/chronicle"
	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/game/character"
	"github.com/cory-johannsen/elysium/internal/game/creation"
	"github.com/cory-johannsen/elysium/internal/game/story"
	"github.com/cory-johannsen/elysium/internal/narrative"
)

type ListCatalogRequest struct{}

type ListCatalogResponse struct {
	Catalog *catalog.Catalog `json:"catalog"`
}

// StartDraftRequest opens a draft for OwnerID. With Resume set, the owner's
// existing draft is returned when there is one.
type StartDraftRequest struct {
	OwnerID int64 `json:"owner_id"`
	Resume  bool  `json:"resume,omitempty"`
}

type EditDraftRequest struct {
	DraftID string           `json:"draft_id"`
	Edits   []chronicle.Edit `json:"edits"`
}

type DraftSummaryRequest struct {
	DraftID string `json:"draft_id"`
}

// DraftResponse answers StartDraft, EditDraft, and DraftSummary.
type DraftResponse struct {
	View chronicle.DraftView `json:"view"`
}

type ValidateDraftRequest struct {
	DraftID string `json:"draft_id"`
}

type ValidateDraftResponse struct {
	Result creation.Result `json:"result"`
}

type SubmitDraftRequest struct {
	DraftID        string            `json:"draft_id"`
	Profile        character.Profile `json:"profile"`
	AcceptWarnings bool              `json:"accept_warnings,omitempty"`
}

type CharacterResponse struct {
	Character *character.Character `json:"character"`
}

type GetCharacterRequest struct {
	ID int64 `json:"id"`
}

type SheetResponse struct {
	Sheet chronicle.Sheet `json:"sheet"`
}

// ListCharactersRequest lists one account's characters, or every character
// when AccountID is 0.
type ListCharactersRequest struct {
	AccountID int64 `json:"account_id,omitempty"`
}

type ListCharactersResponse struct {
	Characters []*character.Character `json:"characters"`
}

type DeleteCharacterRequest struct {
	ID int64 `json:"id"`
}

type DeleteCharacterResponse struct{}

type GenerateStoryRequest struct {
	CharacterID int64             `json:"character_id,omitempty"`
	Request     narrative.Request `json:"request"`
}

type GenerateStoryResponse struct {
	Result narrative.Result `json:"result"`
}

type StartStorySessionRequest struct {
	CharacterID int64  `json:"character_id"`
	Title       string `json:"title"`
	Content     string `json:"content,omitempty"`
}

type StorySessionResponse struct {
	Session *story.Session `json:"session"`
}

type GetStorySessionRequest struct {
	SessionID int64 `json:"session_id"`
}

type RollAndContinueRequest struct {
	SessionID  int64 `json:"session_id"`
	Pool       int   `json:"pool"`
	Difficulty int   `json:"difficulty"`
}

type RollAndContinueResponse struct {
	Continuation chronicle.Continuation `json:"continuation"`
}
