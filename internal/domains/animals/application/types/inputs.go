package types

import (
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

// RegisterAnimalInput carries the intake data of a rescued animal.
type RegisterAnimalInput struct {
	Species              string   `json:"species" validate:"required,oneof=dog cat other"`
	Name                 string   `json:"name" validate:"notblank,max=120"`
	Breed                string   `json:"breed" validate:"max=120"`
	Sex                  string   `json:"sex" validate:"omitempty,max=20"`
	Size                 string   `json:"size" validate:"omitempty,max=20"`
	Color                string   `json:"color" validate:"max=60"`
	AgeEstimate          string   `json:"age_estimate" validate:"max=60"`
	RescueDate           string   `json:"rescue_date"`
	RescuePlace          string   `json:"rescue_place" validate:"max=200"`
	RescueCondition      string   `json:"rescue_condition"`
	History              string   `json:"history"`
	Personality          string   `json:"personality"`
	Compatibility        string   `json:"compatibility"`
	AdoptionRequirements string   `json:"adoption_requirements"`
	PhotoURLs            []string `json:"photo_urls" validate:"omitempty,dive,url"`
	ActorID              string   `json:"-"`
}

// UpdateProfileInput patches descriptive fields. Nil fields are left untouched.
// Status and location are deliberately absent.
type UpdateProfileInput struct {
	AnimalID             string    `json:"-"`
	Name                 *string   `json:"name" validate:"omitnil,notblank,max=120"`
	Breed                *string   `json:"breed" validate:"omitempty,max=120"`
	Sex                  *string   `json:"sex" validate:"omitempty,max=20"`
	Size                 *string   `json:"size" validate:"omitempty,max=20"`
	Color                *string   `json:"color" validate:"omitempty,max=60"`
	AgeEstimate          *string   `json:"age_estimate" validate:"omitempty,max=60"`
	RescueDate           *string   `json:"rescue_date"`
	RescuePlace          *string   `json:"rescue_place" validate:"omitempty,max=200"`
	RescueCondition      *string   `json:"rescue_condition"`
	History              *string   `json:"history"`
	Personality          *string   `json:"personality"`
	Compatibility        *string   `json:"compatibility"`
	AdoptionRequirements *string   `json:"adoption_requirements"`
	PhotoURLs            *[]string `json:"photo_urls" validate:"omitempty,dive,url"`
}

// TransitionInput moves an animal to a new status and location.
type TransitionInput struct {
	AnimalID string
	Status   string
	Location string
	ActorID  string
	Comment  string
}

// ListAnimalsInput filters listings by stable keys; empty strings match everything.
type ListAnimalsInput struct {
	Status   string
	Location string
	Species  string
	Window   projection.Window
}

// TransitionResult is the animal after a move plus the audit entry it produced.
type TransitionResult struct {
	Animal *domain.Animal
	Entry  domain.TrackingEntry
}
