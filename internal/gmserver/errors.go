package gmserver

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/elysium/internal/chronicle"
	"github.com/cory-johannsen/elysium/internal/game/character"
	"github.com/cory-johannsen/elysium/internal/game/creation"
	"github.com/cory-johannsen/elysium/internal/game/dice"
	"github.com/cory-johannsen/elysium/internal/game/story"
	"github.com/cory-johannsen/elysium/internal/storage/postgres"
	"github.com/cory-johannsen/elysium/internal/storage/redis"
)

// ErrorDomain is the ErrorInfo domain of every status this package builds.
const ErrorDomain = "elysium"

// ErrorInfo reasons.
const (
	ReasonRejected             = "CREATION_REJECTED"
	ReasonConfirmationRequired = "CONFIRMATION_REQUIRED"
	ReasonNotFound             = "NOT_FOUND"
	ReasonInvalidArgument      = "INVALID_ARGUMENT"
	ReasonNarrativeUnavailable = "NARRATIVE_UNAVAILABLE"
)

// PreconditionWarning is the PreconditionFailure violation type carried by
// unconfirmed creation warnings.
const PreconditionWarning = "CREATION_WARNING"

var notFound = []error{
	redis.ErrDraftNotFound,
	postgres.ErrCharacterNotFound,
	postgres.ErrSessionNotFound,
	postgres.ErrAccountNotFound,
}

var invalid = []error{
	creation.ErrUnknownTrait,
	chronicle.ErrUnknownChoice,
	chronicle.ErrInvalidEdit,
	character.ErrInvalidProfile,
	story.ErrInvalidSession,
	dice.ErrInvalidPool,
	postgres.ErrUnknownReference,
	redis.ErrInvalidDraft,
}

func isNotFound(err error) bool { return matchesAny(err, notFound) }

func matchesAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// toStatus maps a chronicle error onto a gRPC status error with details.
//
// Postcondition: returns nil for nil and an error carrying a status otherwise.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if rej, ok := chronicle.IsRejected(err); ok {
		return rejectedStatus(rej).Err()
	}
	if conf, ok := chronicle.IsConfirmationRequired(err); ok {
		return confirmationStatus(conf).Err()
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case isNotFound(err):
		return withInfo(codes.NotFound, err.Error(), ReasonNotFound).Err()
	case matchesAny(err, invalid):
		return withInfo(codes.InvalidArgument, err.Error(), ReasonInvalidArgument).Err()
	case errors.Is(err, chronicle.ErrNarrativeUnavailable):
		return withInfo(codes.Unavailable, err.Error(), ReasonNarrativeUnavailable).Err()
	}
	return status.Error(codes.Internal, err.Error())
}

func invalidArgument(msg string) error {
	return withInfo(codes.InvalidArgument, msg, ReasonInvalidArgument).Err()
}

func withInfo(code codes.Code, msg, reason string) *status.Status {
	st := status.New(code, msg)
	if detailed, err := st.WithDetails(&errdetails.ErrorInfo{Reason: reason, Domain: ErrorDomain}); err == nil {
		return detailed
	}
	return st
}

func rejectedStatus(rej *chronicle.RejectedError) *status.Status {
	br := &errdetails.BadRequest{}
	for _, p := range rej.Result.Errors {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       strings.ToLower(p.Pool),
			Description: p.Message,
		})
	}
	st := status.New(codes.FailedPrecondition, rej.Error())
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{Reason: ReasonRejected, Domain: ErrorDomain}, br)
	if err != nil {
		return st
	}
	return detailed
}

func confirmationStatus(conf *chronicle.ConfirmationRequiredError) *status.Status {
	pf := &errdetails.PreconditionFailure{}
	for _, p := range conf.Warnings {
		pf.Violations = append(pf.Violations, &errdetails.PreconditionFailure_Violation{
			Type:        PreconditionWarning,
			Subject:     strings.ToLower(p.Pool),
			Description: p.Message,
		})
	}
	st := status.New(codes.FailedPrecondition, conf.Error())
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{Reason: ReasonConfirmationRequired, Domain: ErrorDomain}, pf)
	if err != nil {
		return st
	}
	return detailed
}

// Rejection returns the blocking problems carried by an error from
// SubmitDraft, or false when err is not a rejection.
func Rejection(err error) ([]string, bool) {
	st, ok := status.FromError(err)
	if !ok || reason(st) != ReasonRejected {
		return nil, false
	}
	var out []string
	for _, d := range st.Details() {
		if br, ok := d.(*errdetails.BadRequest); ok {
			for _, v := range br.GetFieldViolations() {
				out = append(out, v.GetDescription())
			}
		}
	}
	return out, true
}

// PendingWarnings returns the warnings a SubmitDraft caller must accept, or
// false when err does not ask for confirmation.
func PendingWarnings(err error) ([]string, bool) {
	st, ok := status.FromError(err)
	if !ok || reason(st) != ReasonConfirmationRequired {
		return nil, false
	}
	var out []string
	for _, d := range st.Details() {
		if pf, ok := d.(*errdetails.PreconditionFailure); ok {
			for _, v := range pf.GetViolations() {
				out = append(out, v.GetDescription())
			}
		}
	}
	return out, true
}

func reason(st *status.Status) string {
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info.GetReason()
		}
	}
	return ""
}
