package rescueserver

import (
	"github.com/gin-gonic/gin"

	animalmapper "github.com/Apurer/rescue-adoption-api/internal/domains/animals/adapters/http/mapper"
	animaltypes "github.com/Apurer/rescue-adoption-api/internal/domains/animals/application/types"
	animalports "github.com/Apurer/rescue-adoption-api/internal/domains/animals/ports"
)

// AnimalAPI exposes the animal lifecycle over HTTP.
type AnimalAPI struct {
	service animalports.Service
}

func NewAnimalAPI(service animalports.Service) AnimalAPI {
	return AnimalAPI{service: service}
}

// Post /v1/animals
// Registers a rescued animal
func (api *AnimalAPI) RegisterAnimal(c *gin.Context) {
	var input animaltypes.RegisterAnimalInput
	if !bindJSON(c, &input, false) {
		return
	}
	input.ActorID = actorID(c)
	animal, err := api.service.RegisterAnimal(c.Request.Context(), input)
	respondMapped(c, "animal registered", animal, err, animalmapper.FromAnimal)
}

// Get /v1/animals
// Lists animals filtered by status, location and species
func (api *AnimalAPI) ListAnimals(c *gin.Context) {
	window, ok := queryWindow(c)
	if !ok {
		return
	}
	page, err := api.service.ListAnimals(c.Request.Context(), animaltypes.ListAnimalsInput{
		Status:   c.Query("status"),
		Location: c.Query("location"),
		Species:  c.Query("species"),
		Window:   window,
	})
	respondMapped(c, "animals listed", page, err, animalmapper.FromPage)
}

// Get /v1/animals/:animalId
func (api *AnimalAPI) GetAnimal(c *gin.Context) {
	animal, err := api.service.GetAnimal(c.Request.Context(), pathParam(c, "animalId"))
	respondMapped(c, "animal found", animal, err, animalmapper.FromAnimal)
}

// Patch /v1/animals/:animalId
// Updates descriptive fields; status and location only change through transitions
func (api *AnimalAPI) UpdateProfile(c *gin.Context) {
	var input animaltypes.UpdateProfileInput
	if !bindJSON(c, &input, false) {
		return
	}
	input.AnimalID = pathParam(c, "animalId")
	animal, err := api.service.UpdateProfile(c.Request.Context(), input)
	respondMapped(c, "animal profile updated", animal, err, animalmapper.FromAnimal)
}

// Post /v1/animals/:animalId/transitions
// Moves an animal to a new status and location
func (api *AnimalAPI) Transition(c *gin.Context) {
	var req animalmapper.TransitionRequest
	if !bindJSON(c, &req, false) {
		return
	}
	res, err := api.service.Transition(c.Request.Context(), animalmapper.ToTransitionInput(pathParam(c, "animalId"), actorID(c), req))
	if err != nil {
		respondResult(c, "", nil, err)
		return
	}
	respondResult(c, "animal transitioned", gin.H{
		"animal": animalmapper.FromAnimal(res.Animal),
		"entry":  animalmapper.FromTrackingEntry(res.Entry),
	}, nil)
}

// Get /v1/animals/:animalId/tracking
// Returns the audit log of an animal, oldest first
func (api *AnimalAPI) History(c *gin.Context) {
	entries, err := api.service.History(c.Request.Context(), pathParam(c, "animalId"))
	respondMapped(c, "tracking history", entries, err, animalmapper.FromTracking)
}
