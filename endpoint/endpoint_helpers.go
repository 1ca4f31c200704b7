package endpoint

import (
	"fmt"
	"strings"

	"github.com/ariebrainware/appointment-manager/middleware"
	"github.com/ariebrainware/appointment-manager/model"
	"github.com/ariebrainware/appointment-manager/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ensureDB returns the request's database or responds with a server error.
func ensureDB(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return nil, false
	}
	return db, true
}

// getIDParam returns the :id path parameter or responds with a user error.
func getIDParam(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Missing appointment ID",
			Err: fmt.Errorf("appointment ID is required"),
		})
		return "", false
	}
	return id, true
}

// bindAppointment decodes the request body and normalizes the status,
// responding with a user error when the payload is unusable.
func bindAppointment(c *gin.Context) (model.Appointment, bool) {
	var req model.Appointment
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: err,
		})
		return model.Appointment{}, false
	}

	if req.Status == "" {
		req.Status = model.StatusScheduled
	}
	if !req.Status.Valid() {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body: status must be Scheduled, Completed or Cancelled",
			Err: fmt.Errorf("unknown status %q", req.Status),
		})
		return model.Appointment{}, false
	}
	return req, true
}

// respondLookupError maps a failed lookup to 404 or 500.
func respondLookupError(c *gin.Context, err error) {
	if err == gorm.ErrRecordNotFound {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Appointment not found",
			Err: err,
		})
		return
	}
	util.CallServerError(c, util.APIErrorParams{
		Msg: "Failed to retrieve appointment",
		Err: err,
	})
}
