package rescueserver

import (
	"github.com/gin-gonic/gin"

	volmapper "github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/adapters/http/mapper"
	voltypes "github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/application/types"
	volports "github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/ports"
	"github.com/Apurer/rescue-adoption-api/internal/platform/metrics"
)

// VolunteeringAPI exposes volunteer activities and enrollments over HTTP.
type VolunteeringAPI struct {
	service  volports.Service
	outcomes *metrics.Workflows
}

func NewVolunteeringAPI(service volports.Service, outcomes *metrics.Workflows) VolunteeringAPI {
	return VolunteeringAPI{service: service, outcomes: outcomes}
}

// Post /v1/activities
// Schedules an activity coordinated by the caller
func (api *VolunteeringAPI) CreateActivity(c *gin.Context) {
	var input voltypes.CreateActivityInput
	if !bindJSON(c, &input, false) {
		return
	}
	input.CoordinatorID = actorID(c)
	view, err := api.service.CreateActivity(c.Request.Context(), input)
	respondMapped(c, "activity created", view, err, volmapper.FromActivity)
}

// Get /v1/activities
// Lists activities from today on that still have free seats
func (api *VolunteeringAPI) ListAvailable(c *gin.Context) {
	params, ok := bindListActivitiesParams(c)
	if !ok {
		return
	}
	input := voltypes.ListAvailableInput{Urgent: params.Urgent, Window: params.window()}
	if params.From != nil {
		from := params.From.Time
		input.From = &from
	}
	if params.To != nil {
		to := params.To.Time
		input.To = &to
	}
	page, err := api.service.ListAvailable(c.Request.Context(), input)
	respondMapped(c, "available activities", page, err, volmapper.FromActivityPage)
}

// Get /v1/activities/:activityId
func (api *VolunteeringAPI) GetActivity(c *gin.Context) {
	view, err := api.service.GetActivity(c.Request.Context(), pathParam(c, "activityId"))
	respondMapped(c, "activity found", view, err, volmapper.FromActivity)
}

// Get /v1/activities/:activityId/seats
func (api *VolunteeringAPI) AvailableSeats(c *gin.Context) {
	id := pathParam(c, "activityId")
	seats, err := api.service.AvailableSeats(c.Request.Context(), id)
	respondResult(c, "available seats", volmapper.Seats{ActivityID: id, AvailableSeats: seats}, err)
}

// Patch /v1/activities/:activityId
func (api *VolunteeringAPI) UpdateActivity(c *gin.Context) {
	var input voltypes.UpdateActivityInput
	if !bindJSON(c, &input, false) {
		return
	}
	input.ActivityID = pathParam(c, "activityId")
	view, err := api.service.UpdateActivity(c.Request.Context(), input)
	respondMapped(c, "activity updated", view, err, volmapper.FromActivity)
}

// Delete /v1/activities/:activityId
func (api *VolunteeringAPI) DeleteActivity(c *gin.Context) {
	id := pathParam(c, "activityId")
	err := api.service.DeleteActivity(c.Request.Context(), id)
	respondResult(c, "activity deleted", gin.H{"id": id}, err)
}

// Post /v1/activities/:activityId/enrollments
// Takes a seat for the calling volunteer
func (api *VolunteeringAPI) Enroll(c *gin.Context) {
	var input voltypes.EnrollInput
	if !bindJSON(c, &input, true) {
		return
	}
	input.ActivityID = pathParam(c, "activityId")
	input.VolunteerID = actorID(c)
	enrollment, err := api.service.Enroll(c.Request.Context(), input)
	api.outcomes.Observe("enroll", err)
	respondMapped(c, "enrollment confirmed", enrollment, err, volmapper.FromEnrollment)
}

// Get /v1/enrollments
func (api *VolunteeringAPI) ListEnrollments(c *gin.Context) {
	window, ok := queryWindow(c)
	if !ok {
		return
	}
	page, err := api.service.ListEnrollments(c.Request.Context(), voltypes.ListEnrollmentsInput{
		ActivityID:  c.Query("activity_id"),
		VolunteerID: c.Query("volunteer_id"),
		Status:      c.Query("status"),
		Window:      window,
	})
	respondMapped(c, "enrollments listed", page, err, volmapper.FromEnrollmentPage)
}

// Post /v1/enrollments/:enrollmentId/cancellation
// Releases the calling volunteer's seat
func (api *VolunteeringAPI) Cancel(c *gin.Context) {
	enrollment, err := api.service.Cancel(c.Request.Context(), voltypes.CancelInput{
		EnrollmentID: pathParam(c, "enrollmentId"),
		VolunteerID:  actorID(c),
	})
	api.outcomes.Observe("cancel_enrollment", err)
	respondMapped(c, "enrollment cancelled", enrollment, err, volmapper.FromEnrollment)
}

// Post /v1/enrollments/:enrollmentId/attendance
func (api *VolunteeringAPI) RecordAttendance(c *gin.Context) {
	var input voltypes.AttendanceInput
	if !bindJSON(c, &input, true) {
		return
	}
	input.EnrollmentID = pathParam(c, "enrollmentId")
	enrollment, err := api.service.RecordAttendance(c.Request.Context(), input)
	respondMapped(c, "attendance recorded", enrollment, err, volmapper.FromEnrollment)
}
