package application

import (
	"errors"

	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/ports"
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
		return failure.Wrap(failure.CodeNotFound, "animal not found", err)
	case errors.Is(err, domain.ErrUnknownStatus):
		return failure.Wrap(failure.CodeInvalidStatus, "status is not a known animal status", err)
	case errors.Is(err, domain.ErrUnknownLocation):
		return failure.Wrap(failure.CodeInvalidLocation, "location is not a known animal location", err)
	case errors.Is(err, domain.ErrUnknownSpecies):
		return failure.Field("species", "unknown species")
	case errors.Is(err, domain.ErrEmptyName):
		return failure.Field("name", "is required")
	}
	return failure.Storage(err)
}
