package application

import (
	"errors"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if failure.IsClassified(err) {
		return err
	}
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return failure.Wrap(failure.CodeNotFound, "adoption request not found", err)
	case errors.Is(err, ports.ErrAdoptionNotFound):
		return failure.Wrap(failure.CodeNotFound, "adoption not found", err)
	case errors.Is(err, ports.ErrDuplicateActiveRequest):
		return failure.Wrap(failure.CodeDuplicateRequest, "an active adoption request already exists for this animal", err)
	case errors.Is(err, ports.ErrAdoptionExists):
		return failure.Wrap(failure.CodeAlreadyFinalized, "adoption request has already been finalized", err)
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return failure.Wrap(failure.CodeIdempotencyConflict, "idempotency key was already used for a different submission", err)
	case errors.Is(err, domain.ErrNotPending):
		return failure.Wrap(failure.CodeInvalidState, "adoption request is no longer pending review", err)
	case errors.Is(err, domain.ErrNotApproved):
		return failure.Wrap(failure.CodeInvalidState, "only approved requests can be finalized", err)
	case errors.Is(err, domain.ErrRejectionReason):
		return failure.Field("rejection_reason", "is required")
	case errors.Is(err, domain.ErrUnknownDecision):
		return failure.Field("decision", "must be one of [approved rejected]")
	case errors.Is(err, domain.ErrUnknownRequestStatus):
		return failure.Field("status", "unknown status")
	case errors.Is(err, domain.ErrMissingFinalized):
		return failure.Field("finalized_on", "is required")
	case errors.Is(err, domain.ErrFinalizedInFuture):
		return failure.Field("finalized_on", "cannot be in the future")
	default:
		return failure.Storage(err)
	}
}
