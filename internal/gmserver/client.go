package gmserver

import (
	"context"

	"google.golang.org/grpc"

	"github.com/cory-johannsen/elysium/internal/chronicle"
	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/game/character"
	"github.com/cory-johannsen/elysium/internal/game/creation"
	"github.com/cory-johannsen/elysium/internal/game/story"
	"github.com/cory-johannsen/elysium/internal/narrative"
)

// Client calls ChronicleService over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
//
// Precondition: cc must be non-nil.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	return c.cc.Invoke(ctx, fullMethod(method), in, out, grpc.CallContentSubtype(CodecName))
}

// ListCatalog fetches the catalog, indexed for lookups.
func (c *Client) ListCatalog(ctx context.Context) (*catalog.Catalog, error) {
	var out ListCatalogResponse
	if err := c.invoke(ctx, "ListCatalog", &ListCatalogRequest{}, &out); err != nil {
		return nil, err
	}
	if out.Catalog == nil {
		return (&catalog.Catalog{}).Index(), nil
	}
	return out.Catalog.Index(), nil
}

// StartDraft opens a draft for owner, or resumes the owner's draft when resume is set.
func (c *Client) StartDraft(ctx context.Context, ownerID int64, resume bool) (chronicle.DraftView, error) {
	var out DraftResponse
	err := c.invoke(ctx, "StartDraft", &StartDraftRequest{OwnerID: ownerID, Resume: resume}, &out)
	return out.View, err
}

func (c *Client) EditDraft(ctx context.Context, draftID string, edits ...chronicle.Edit) (chronicle.DraftView, error) {
	var out DraftResponse
	err := c.invoke(ctx, "EditDraft", &EditDraftRequest{DraftID: draftID, Edits: edits}, &out)
	return out.View, err
}

func (c *Client) DraftSummary(ctx context.Context, draftID string) (chronicle.DraftView, error) {
	var out DraftResponse
	err := c.invoke(ctx, "DraftSummary", &DraftSummaryRequest{DraftID: draftID}, &out)
	return out.View, err
}

func (c *Client) ValidateDraft(ctx context.Context, draftID string) (creation.Result, error) {
	var out ValidateDraftResponse
	err := c.invoke(ctx, "ValidateDraft", &ValidateDraftRequest{DraftID: draftID}, &out)
	return out.Result, err
}

// SubmitDraft persists the draft. Use Rejection and PendingWarnings to
// unpack a refusal.
func (c *Client) SubmitDraft(ctx context.Context, draftID string, p character.Profile, acceptWarnings bool) (*character.Character, error) {
	var out CharacterResponse
	req := &SubmitDraftRequest{DraftID: draftID, Profile: p, AcceptWarnings: acceptWarnings}
	if err := c.invoke(ctx, "SubmitDraft", req, &out); err != nil {
		return nil, err
	}
	return out.Character, nil
}

func (c *Client) GetCharacter(ctx context.Context, id int64) (chronicle.Sheet, error) {
	var out SheetResponse
	err := c.invoke(ctx, "GetCharacter", &GetCharacterRequest{ID: id}, &out)
	return out.Sheet, err
}

func (c *Client) ListCharacters(ctx context.Context, accountID int64) ([]*character.Character, error) {
	var out ListCharactersResponse
	err := c.invoke(ctx, "ListCharacters", &ListCharactersRequest{AccountID: accountID}, &out)
	return out.Characters, err
}

func (c *Client) DeleteCharacter(ctx context.Context, id int64) error {
	return c.invoke(ctx, "DeleteCharacter", &DeleteCharacterRequest{ID: id}, &DeleteCharacterResponse{})
}

func (c *Client) GenerateStory(ctx context.Context, req narrative.Request, characterID int64) (narrative.Result, error) {
	var out GenerateStoryResponse
	err := c.invoke(ctx, "GenerateStory", &GenerateStoryRequest{CharacterID: characterID, Request: req}, &out)
	return out.Result, err
}

func (c *Client) StartStorySession(ctx context.Context, characterID int64, title, content string) (*story.Session, error) {
	var out StorySessionResponse
	req := &StartStorySessionRequest{CharacterID: characterID, Title: title, Content: content}
	if err := c.invoke(ctx, "StartStorySession", req, &out); err != nil {
		return nil, err
	}
	return out.Session, nil
}

func (c *Client) GetStorySession(ctx context.Context, sessionID int64) (*story.Session, error) {
	var out StorySessionResponse
	if err := c.invoke(ctx, "GetStorySession", &GetStorySessionRequest{SessionID: sessionID}, &out); err != nil {
		return nil, err
	}
	return out.Session, nil
}

func (c *Client) RollAndContinue(ctx context.Context, sessionID int64, pool, difficulty int) (chronicle.Continuation, error) {
	var out RollAndContinueResponse
	req := &RollAndContinueRequest{SessionID: sessionID, Pool: pool, Difficulty: difficulty}
	err := c.invoke(ctx, "RollAndContinue", req, &out)
	return out.Continuation, err
}
