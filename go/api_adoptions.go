package rescueserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	adoptionmapper "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/adapters/http/mapper"
	adoptiontypes "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
	adoptionports "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
	"github.com/Apurer/rescue-adoption-api/internal/platform/metrics"
)

// IdempotencyKeyHeader lets clients retry a submission safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// AdoptionAPI exposes the adoption workflow over HTTP. Finalization goes through the
// orchestrator so it can run as a durable workflow.
type AdoptionAPI struct {
	service      adoptionports.Service
	finalization adoptionports.FinalizationOrchestrator
	outcomes     *metrics.Workflows
}

func NewAdoptionAPI(service adoptionports.Service, finalization adoptionports.FinalizationOrchestrator, outcomes *metrics.Workflows) AdoptionAPI {
	return AdoptionAPI{service: service, finalization: finalization, outcomes: outcomes}
}

// Post /v1/adoption-requests
// Submits an adoption request as the calling adopter
func (api *AdoptionAPI) SubmitRequest(c *gin.Context) {
	var input adoptiontypes.SubmitRequestInput
	if !bindJSON(c, &input, false) {
		return
	}
	input.AdopterID = actorID(c)
	input.IdempotencyKey = strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	request, err := api.service.SubmitRequest(c.Request.Context(), input)
	api.outcomes.Observe("submit", err)
	respondMapped(c, "adoption request submitted", request, err, adoptionmapper.FromRequest)
}

// Get /v1/adoption-requests
func (api *AdoptionAPI) ListRequests(c *gin.Context) {
	window, ok := queryWindow(c)
	if !ok {
		return
	}
	page, err := api.service.ListRequests(c.Request.Context(), adoptiontypes.ListRequestsInput{
		AnimalID:  c.Query("animal_id"),
		AdopterID: c.Query("adopter_id"),
		Status:    c.Query("status"),
		Window:    window,
	})
	respondMapped(c, "adoption requests listed", page, err, adoptionmapper.FromRequestPage)
}

// Get /v1/adoption-requests/:requestId
func (api *AdoptionAPI) GetRequest(c *gin.Context) {
	request, err := api.service.GetRequest(c.Request.Context(), pathParam(c, "requestId"))
	respondMapped(c, "adoption request found", request, err, adoptionmapper.FromRequest)
}

// Post /v1/adoption-requests/:requestId/evaluation
// Approves or rejects a pending request as the calling reviewer
func (api *AdoptionAPI) EvaluateRequest(c *gin.Context) {
	var input adoptiontypes.EvaluateRequestInput
	if !bindJSON(c, &input, false) {
		return
	}
	input.RequestID = pathParam(c, "requestId")
	input.ReviewerID = actorID(c)
	request, err := api.service.EvaluateRequest(c.Request.Context(), input)
	api.outcomes.Observe("evaluate", err)
	respondMapped(c, "adoption request evaluated", request, err, adoptionmapper.FromRequest)
}

// Post /v1/adoption-requests/:requestId/adoption
// Finalizes an approved request as the calling coordinator
func (api *AdoptionAPI) FinalizeAdoption(c *gin.Context) {
	var req adoptionmapper.FinalizeRequest
	if !bindJSON(c, &req, false) {
		return
	}
	input := adoptionmapper.ToFinalizeInput(pathParam(c, "requestId"), actorID(c), req)
	adoption, err := api.finalization.FinalizeAdoption(c.Request.Context(), input)
	api.outcomes.Observe("finalize", err)
	respondMapped(c, "adoption finalized", adoption, err, adoptionmapper.FromAdoption)
}

// Get /v1/adoption-requests/:requestId/adoption
func (api *AdoptionAPI) GetAdoptionByRequest(c *gin.Context) {
	adoption, err := api.service.GetAdoptionByRequest(c.Request.Context(), pathParam(c, "requestId"))
	respondMapped(c, "adoption found", adoption, err, adoptionmapper.FromAdoption)
}

// Get /v1/adoptions/:adoptionId
func (api *AdoptionAPI) GetAdoption(c *gin.Context) {
	adoption, err := api.service.GetAdoption(c.Request.Context(), pathParam(c, "adoptionId"))
	respondMapped(c, "adoption found", adoption, err, adoptionmapper.FromAdoption)
}
