package application

import (
	"errors"

	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/ports"
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
	case errors.Is(err, ports.ErrActivityNotFound):
		return failure.Wrap(failure.CodeNotFound, "volunteer activity not found", err)
	case errors.Is(err, ports.ErrEnrollmentNotFound):
		return failure.Wrap(failure.CodeNotFound, "enrollment not found", err)
	case errors.Is(err, ports.ErrDuplicateActiveEnrollment):
		return failure.Wrap(failure.CodeDuplicateEnrollment, "volunteer is already enrolled in this activity", err)
	case errors.Is(err, ports.ErrActivityReferenced):
		return failure.Wrap(failure.CodeInvalidState, "activity has enrollments and cannot be deleted", err)
	case errors.Is(err, domain.ErrActivityInPast):
		return failure.Wrap(failure.CodePastActivity, "activity has already taken place", err)
	case errors.Is(err, domain.ErrNotOwner):
		return failure.Wrap(failure.CodeForbidden, "enrollment belongs to another volunteer", err)
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return failure.Wrap(failure.CodeAlreadyCancelled, "enrollment is already cancelled", err)
	case errors.Is(err, domain.ErrCapacityBelowEnrollments):
		return failure.Field("required_volunteers", "cannot be lower than the number of active enrollments")
	case errors.Is(err, domain.ErrRequiredVolunteers):
		return failure.Field("required_volunteers", "must be greater than or equal to 1")
	case errors.Is(err, domain.ErrTimeRange):
		return failure.Field("end_time", "must be after start_time")
	case errors.Is(err, domain.ErrEmptyTitle):
		return failure.Field("title", "is required")
	case errors.Is(err, domain.ErrEmptyPlace):
		return failure.Field("place", "is required")
	case errors.Is(err, domain.ErrNegativeHours):
		return failure.Field("hours", "must be greater than or equal to 0")
	case errors.Is(err, domain.ErrUnknownEnrollmentStatus):
		return failure.Field("status", "unknown status")
	default:
		return failure.Storage(err)
	}
}
