// Package gmserver exposes the chronicle services over gRPC. Messages are
// plain Go structs carried by a JSON codec under a hand-written service
// descriptor.
package gmserver

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/elysium/internal/chronicle"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "elysium.v1.ChronicleService"

// ChronicleServer is the server API for ChronicleService.
type ChronicleServer interface {
	ListCatalog(context.Context, *ListCatalogRequest) (*ListCatalogResponse, error)
	StartDraft(context.Context, *StartDraftRequest) (*DraftResponse, error)
	EditDraft(context.Context, *EditDraftRequest) (*DraftResponse, error)
	DraftSummary(context.Context, *DraftSummaryRequest) (*DraftResponse, error)
	ValidateDraft(context.Context, *ValidateDraftRequest) (*ValidateDraftResponse, error)
	SubmitDraft(context.Context, *SubmitDraftRequest) (*CharacterResponse, error)
	GetCharacter(context.Context, *GetCharacterRequest) (*SheetResponse, error)
	ListCharacters(context.Context, *ListCharactersRequest) (*ListCharactersResponse, error)
	DeleteCharacter(context.Context, *DeleteCharacterRequest) (*DeleteCharacterResponse, error)
	GenerateStory(context.Context, *GenerateStoryRequest) (*GenerateStoryResponse, error)
	StartStorySession(context.Context, *StartStorySessionRequest) (*StorySessionResponse, error)
	GetStorySession(context.Context, *GetStorySessionRequest) (*StorySessionResponse, error)
	RollAndContinue(context.Context, *RollAndContinueRequest) (*RollAndContinueResponse, error)
}

// ServiceDesc describes ChronicleService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChronicleServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListCatalog", ChronicleServer.ListCatalog),
		unary("StartDraft", ChronicleServer.StartDraft),
		unary("EditDraft", ChronicleServer.EditDraft),
		unary("DraftSummary", ChronicleServer.DraftSummary),
		unary("ValidateDraft", ChronicleServer.ValidateDraft),
		unary("SubmitDraft", ChronicleServer.SubmitDraft),
		unary("GetCharacter", ChronicleServer.GetCharacter),
		unary("ListCharacters", ChronicleServer.ListCharacters),
		unary("DeleteCharacter", ChronicleServer.DeleteCharacter),
		unary("GenerateStory", ChronicleServer.GenerateStory),
		unary("StartStorySession", ChronicleServer.StartStorySession),
		unary("GetStorySession", ChronicleServer.GetStorySession),
		unary("RollAndContinue", ChronicleServer.RollAndContinue),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "elysium/v1/chronicle",
}

func fullMethod(name string) string { return "/" + ServiceName + "/" + name }

// unary adapts a typed method into the untyped handler grpc dispatches to.
func unary[Req, Resp any](name string, call func(ChronicleServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(ChronicleServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

// ChronicleService implements ChronicleServer over the chronicle services.
// Every returned error is already a gRPC status.
type ChronicleService struct {
	catalogs *chronicle.CatalogCache
	drafts   *chronicle.DraftService
	roster   *chronicle.Roster
	stories  *chronicle.StoryService
	logger   *zap.Logger
}

// NewChronicleService creates a ChronicleService.
//
// Precondition: all arguments must be non-nil.
// Postcondition: Returns a ready-to-register service.
func NewChronicleService(
	catalogs *chronicle.CatalogCache,
	drafts *chronicle.DraftService,
	roster *chronicle.Roster,
	stories *chronicle.StoryService,
	logger *zap.Logger,
) *ChronicleService {
	return &ChronicleService{
		catalogs: catalogs,
		drafts:   drafts,
		roster:   roster,
		stories:  stories,
		logger:   logger,
	}
}

func (s *ChronicleService) ListCatalog(ctx context.Context, _ *ListCatalogRequest) (*ListCatalogResponse, error) {
	cat, err := s.catalogs.Get(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListCatalogResponse{Catalog: cat}, nil
}

func (s *ChronicleService) StartDraft(ctx context.Context, req *StartDraftRequest) (*DraftResponse, error) {
	if req.OwnerID <= 0 {
		return nil, invalidArgument("owner_id must be positive")
	}
	var (
		view chronicle.DraftView
		err  error
	)
	if req.Resume {
		view, err = s.drafts.Resume(ctx, req.OwnerID)
		if err == nil {
			return &DraftResponse{View: view}, nil
		}
		if !isNotFound(err) {
			return nil, toStatus(err)
		}
	}
	view, err = s.drafts.Start(ctx, req.OwnerID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &DraftResponse{View: view}, nil
}

func (s *ChronicleService) EditDraft(ctx context.Context, req *EditDraftRequest) (*DraftResponse, error) {
	view, err := s.drafts.Edit(ctx, req.DraftID, req.Edits...)
	if err != nil {
		return nil, toStatus(err)
	}
	return &DraftResponse{View: view}, nil
}

func (s *ChronicleService) DraftSummary(ctx context.Context, req *DraftSummaryRequest) (*DraftResponse, error) {
	view, err := s.drafts.Get(ctx, req.DraftID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &DraftResponse{View: view}, nil
}

func (s *ChronicleService) ValidateDraft(ctx context.Context, req *ValidateDraftRequest) (*ValidateDraftResponse, error) {
	res, err := s.drafts.Validate(ctx, req.DraftID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ValidateDraftResponse{Result: res}, nil
}

// SubmitDraft persists the draft as a character. A blocking build fails with
// FailedPrecondition and a BadRequest detail; warnings without
// AcceptWarnings fail with FailedPrecondition and a PreconditionFailure.
func (s *ChronicleService) SubmitDraft(ctx context.Context, req *SubmitDraftRequest) (*CharacterResponse, error) {
	c, err := s.drafts.Submit(ctx, req.DraftID, req.Profile, req.AcceptWarnings)
	if err != nil {
		return nil, toStatus(err)
	}
	return &CharacterResponse{Character: c}, nil
}

func (s *ChronicleService) GetCharacter(ctx context.Context, req *GetCharacterRequest) (*SheetResponse, error) {
	sheet, err := s.roster.Sheet(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &SheetResponse{Sheet: sheet}, nil
}

func (s *ChronicleService) ListCharacters(ctx context.Context, req *ListCharactersRequest) (*ListCharactersResponse, error) {
	chars, err := s.roster.List(ctx, req.AccountID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListCharactersResponse{Characters: chars}, nil
}

func (s *ChronicleService) DeleteCharacter(ctx context.Context, req *DeleteCharacterRequest) (*DeleteCharacterResponse, error) {
	if err := s.roster.Delete(ctx, req.ID); err != nil {
		return nil, toStatus(err)
	}
	return &DeleteCharacterResponse{}, nil
}

func (s *ChronicleService) GenerateStory(ctx context.Context, req *GenerateStoryRequest) (*GenerateStoryResponse, error) {
	res, err := s.stories.Generate(ctx, req.Request, req.CharacterID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &GenerateStoryResponse{Result: res}, nil
}

func (s *ChronicleService) StartStorySession(ctx context.Context, req *StartStorySessionRequest) (*StorySessionResponse, error) {
	sess, err := s.stories.StartSession(ctx, req.CharacterID, req.Title, req.Content)
	if err != nil {
		return nil, toStatus(err)
	}
	return &StorySessionResponse{Session: sess}, nil
}

func (s *ChronicleService) GetStorySession(ctx context.Context, req *GetStorySessionRequest) (*StorySessionResponse, error) {
	if req.SessionID <= 0 {
		return nil, invalidArgument("session_id must be positive")
	}
	sess, err := s.stories.Session(ctx, req.SessionID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &StorySessionResponse{Session: sess}, nil
}

func (s *ChronicleService) RollAndContinue(ctx context.Context, req *RollAndContinueRequest) (*RollAndContinueResponse, error) {
	cont, err := s.stories.RollAndContinue(ctx, req.SessionID, req.Pool, req.Difficulty)
	if err != nil {
		return nil, toStatus(err)
	}
	return &RollAndContinueResponse{Continuation: cont}, nil
}
