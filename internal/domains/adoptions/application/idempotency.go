package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
)

type normalizedSubmission struct {
	AnimalID          string `json:"animalId"`
	AdopterID         string `json:"adopterId"`
	Motivation        string `json:"motivation"`
	HousingType       string `json:"housingType"`
	HasYard           bool   `json:"hasYard"`
	HouseholdMembers  int    `json:"householdMembers"`
	OtherPets         int    `json:"otherPets"`
	Experience        string `json:"experience"`
	AvailabilityNotes string `json:"availabilityNotes"`
}

// FingerprintSubmission builds a deterministic hash of the submit payload (excluding the idempotency key).
func FingerprintSubmission(input types.SubmitRequestInput) (string, error) {
	payload, err := json.Marshal(normalizedSubmission{
		AnimalID:          strings.TrimSpace(input.AnimalID),
		AdopterID:         strings.TrimSpace(input.AdopterID),
		Motivation:        strings.TrimSpace(input.Motivation),
		HousingType:       strings.TrimSpace(input.HousingType),
		HasYard:           input.HasYard,
		HouseholdMembers:  input.HouseholdMembers,
		OtherPets:         input.OtherPets,
		Experience:        strings.TrimSpace(input.Experience),
		AvailabilityNotes: strings.TrimSpace(input.AvailabilityNotes),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
