// Package rescueserver is the gin transport of the rescue adoption API.
package rescueserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/rescue-adoption-api/internal/shared/errors"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Actor marks routes that act on behalf of an identified caller.
	Actor bool
}

// ApiHandleFunctions groups the handlers of every bounded context.
type ApiHandleFunctions struct {
	AnimalAPI       AnimalAPI
	AdoptionAPI     AdoptionAPI
	VolunteeringAPI VolunteeringAPI
}

// RouterOptions configures the cross-cutting parts of the router.
type RouterOptions struct {
	// Actors resolves caller identity; nil means the X-Actor-ID header.
	Actors *ActorResolver
	// Metrics is served on /metrics when set.
	Metrics http.Handler
	// Middleware runs on every request, in order.
	Middleware []gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(apierrors.Recovery())
	return NewRouterWithGinEngine(router, handleFunctions, opts)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	router.Use(opts.Middleware...)
	actors := opts.Actors
	if actors == nil {
		actors = NewActorResolver("")
	}
	requireActor := actors.Middleware()

	router.NoRoute(apierrors.NoRoute)
	router.GET("/healthz", Healthz)
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	v1 := router.Group("/v1")
	for _, route := range getRoutes(handleFunctions) {
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if route.HandlerFunc == nil {
			handlers = []gin.HandlerFunc{DefaultHandleFunc}
		}
		if route.Actor {
			handlers = append([]gin.HandlerFunc{requireActor}, handlers...)
		}
		v1.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz answers liveness checks.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{"RegisterAnimal", http.MethodPost, "/animals", h.AnimalAPI.RegisterAnimal, true},
		{"ListAnimals", http.MethodGet, "/animals", h.AnimalAPI.ListAnimals, false},
		{"GetAnimal", http.MethodGet, "/animals/:animalId", h.AnimalAPI.GetAnimal, false},
		{"UpdateProfile", http.MethodPatch, "/animals/:animalId", h.AnimalAPI.UpdateProfile, true},
		{"Transition", http.MethodPost, "/animals/:animalId/transitions", h.AnimalAPI.Transition, true},
		{"History", http.MethodGet, "/animals/:animalId/tracking", h.AnimalAPI.History, false},

		{"SubmitRequest", http.MethodPost, "/adoption-requests", h.AdoptionAPI.SubmitRequest, true},
		{"ListRequests", http.MethodGet, "/adoption-requests", h.AdoptionAPI.ListRequests, false},
		{"GetRequest", http.MethodGet, "/adoption-requests/:requestId", h.AdoptionAPI.GetRequest, false},
		{"EvaluateRequest", http.MethodPost, "/adoption-requests/:requestId/evaluation", h.AdoptionAPI.EvaluateRequest, true},
		{"FinalizeAdoption", http.MethodPost, "/adoption-requests/:requestId/adoption", h.AdoptionAPI.FinalizeAdoption, true},
		{"GetAdoptionByRequest", http.MethodGet, "/adoption-requests/:requestId/adoption", h.AdoptionAPI.GetAdoptionByRequest, false},
		{"GetAdoption", http.MethodGet, "/adoptions/:adoptionId", h.AdoptionAPI.GetAdoption, false},

		{"CreateActivity", http.MethodPost, "/activities", h.VolunteeringAPI.CreateActivity, true},
		{"ListAvailable", http.MethodGet, "/activities", h.VolunteeringAPI.ListAvailable, false},
		{"GetActivity", http.MethodGet, "/activities/:activityId", h.VolunteeringAPI.GetActivity, false},
		{"AvailableSeats", http.MethodGet, "/activities/:activityId/seats", h.VolunteeringAPI.AvailableSeats, false},
		{"UpdateActivity", http.MethodPatch, "/activities/:activityId", h.VolunteeringAPI.UpdateActivity, true},
		{"DeleteActivity", http.MethodDelete, "/activities/:activityId", h.VolunteeringAPI.DeleteActivity, true},
		{"Enroll", http.MethodPost, "/activities/:activityId/enrollments", h.VolunteeringAPI.Enroll, true},
		{"ListEnrollments", http.MethodGet, "/enrollments", h.VolunteeringAPI.ListEnrollments, false},
		{"CancelEnrollment", http.MethodPost, "/enrollments/:enrollmentId/cancellation", h.VolunteeringAPI.Cancel, true},
		{"RecordAttendance", http.MethodPost, "/enrollments/:enrollmentId/attendance", h.VolunteeringAPI.RecordAttendance, true},
	}
}
