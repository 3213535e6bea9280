package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Status is the disposition of a rescued animal.
type Status string

const (
	StatusInEvaluation Status = "in_evaluation"
	StatusAvailable    Status = "available"
	StatusInProcess    Status = "in_process"
	StatusAdopted      Status = "adopted"
	StatusNotAdoptable Status = "not_adoptable"
)

// Location is where a rescued animal currently lives.
type Location string

const (
	LocationShelter          Location = "shelter"
	LocationFosterHome       Location = "foster_home"
	LocationVeterinaryClinic Location = "veterinary_clinic"
	LocationAdopted          Location = "adopted"
)

// Species categorizes the animal.
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesOther Species = "other"
)

var (
	ErrUnknownStatus   = errors.New("status is not a known animal status")
	ErrUnknownLocation = errors.New("location is not a known animal location")
	ErrUnknownSpecies  = errors.New("species is not a known species")
	ErrEmptyName       = errors.New("animal name is required")
)

var statusNames = map[Status]string{
	StatusInEvaluation: "In Evaluation",
	StatusAvailable:    "Available",
	StatusInProcess:    "In Process",
	StatusAdopted:      "Adopted",
	StatusNotAdoptable: "Not Adoptable",
}

var locationNames = map[Location]string{
	LocationShelter:          "Shelter",
	LocationFosterHome:       "Foster Home",
	LocationVeterinaryClinic: "Veterinary Clinic",
	LocationAdopted:          "Adopted",
}

var speciesNames = map[Species]string{
	SpeciesDog:   "Dog",
	SpeciesCat:   "Cat",
	SpeciesOther: "Other",
}

// ParseStatus accepts only stable status keys.
func ParseStatus(value string) (Status, error) {
	s := Status(strings.TrimSpace(value))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
	}
	return s, nil
}

// ParseLocation accepts only stable location keys.
func ParseLocation(value string) (Location, error) {
	l := Location(strings.TrimSpace(value))
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocation, value)
	}
	return l, nil
}

// ParseSpecies accepts only stable species keys.
func ParseSpecies(value string) (Species, error) {
	s := Species(strings.TrimSpace(value))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSpecies, value)
	}
	return s, nil
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (l Location) Valid() bool {
	_, ok := locationNames[l]
	return ok
}

func (s Species) Valid() bool {
	_, ok := speciesNames[s]
	return ok
}

// DisplayName is the human label for the status.
func (s Status) DisplayName() string { return statusNames[s] }

// DisplayName is the human label for the location.
func (l Location) DisplayName() string { return locationNames[l] }

// DisplayName is the human label for the species.
func (s Species) DisplayName() string { return speciesNames[s] }

// Statuses lists every status key in lifecycle order.
func Statuses() []Status {
	return []Status{StatusInEvaluation, StatusAvailable, StatusInProcess, StatusAdopted, StatusNotAdoptable}
}

// Locations lists every location key.
func Locations() []Location {
	return []Location{LocationShelter, LocationFosterHome, LocationVeterinaryClinic, LocationAdopted}
}

// Animal is the aggregate owned by the lifecycle manager. Status and Location change
// only through MoveTo.
type Animal struct {
	ID                   string
	Species              Species
	Name                 string
	Breed                string
	Sex                  string
	Size                 string
	Color                string
	AgeEstimate          string
	RescueDate           *time.Time
	RescuePlace          string
	RescueCondition      string
	History              string
	Personality          string
	Compatibility        string
	AdoptionRequirements string
	PhotoURLs            []string
	Status               Status
	Location             Location
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewAnimal builds an animal at intake: in evaluation, at the shelter.
func NewAnimal(id string, species Species, name string, now time.Time) (*Animal, error) {
	if !species.Valid() {
		return nil, ErrUnknownSpecies
	}
	a := &Animal{
		ID:        id,
		Species:   species,
		Status:    StatusInEvaluation,
		Location:  LocationShelter,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.Rename(name); err != nil {
		return nil, err
	}
	return a, nil
}

// Rename replaces the name, which may not be blank.
func (a *Animal) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	a.Name = name
	return nil
}

// MoveTo changes status and location and returns the tracking entry describing the change.
// An empty comment is replaced by a generated description of the new state.
func (a *Animal) MoveTo(status Status, location Location, actorID, comment string, at time.Time) (TrackingEntry, error) {
	if !status.Valid() {
		return TrackingEntry{}, ErrUnknownStatus
	}
	if !location.Valid() {
		return TrackingEntry{}, ErrUnknownLocation
	}
	if strings.TrimSpace(comment) == "" {
		comment = TransitionComment(status, location)
	}
	entry := TrackingEntry{
		AnimalID:         a.ID,
		PreviousStatus:   a.Status,
		NewStatus:        status,
		PreviousLocation: a.Location,
		NewLocation:      location,
		ActorID:          actorID,
		Comment:          comment,
		RecordedAt:       at,
	}
	a.Status = status
	a.Location = location
	a.UpdatedAt = at
	return entry, nil
}

// TransitionComment is the generated audit comment for a move.
func TransitionComment(status Status, location Location) string {
	return fmt.Sprintf("Status set to %s; location set to %s", status.DisplayName(), location.DisplayName())
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (a *Animal) Clone() *Animal {
	if a == nil {
		return nil
	}
	c := *a
	c.PhotoURLs = slices.Clone(a.PhotoURLs)
	if a.RescueDate != nil {
		d := *a.RescueDate
		c.RescueDate = &d
	}
	return &c
}

// TrackingEntry is one append-only audit record of a status/location change.
type TrackingEntry struct {
	ID               string
	AnimalID         string
	PreviousStatus   Status
	NewStatus        Status
	PreviousLocation Location
	NewLocation      Location
	ActorID          string
	Comment          string
	RecordedAt       time.Time
}
