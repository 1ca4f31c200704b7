package endpoint

import (
	"net/http"

	"github.com/ariebrainware/appointment-manager/middleware"
	"github.com/ariebrainware/appointment-manager/model"
	"github.com/ariebrainware/appointment-manager/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func fetchAppointments(db *gorm.DB) ([]model.Appointment, error) {
	appointments := make([]model.Appointment, 0)
	if err := db.Order("created_at ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func fetchAppointmentByID(db *gorm.DB, id string) (model.Appointment, error) {
	var appt model.Appointment
	if err := db.Where("id = ?", id).First(&appt).Error; err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

// ListAppointments godoc
// @Summary      List all appointments
// @Description  Get every appointment; the client filters and counts locally
// @Tags         Appointment
// @Produce      json
// @Success      200 {array}  model.Appointment
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /appointments [get]
func ListAppointments(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	appointments, err := fetchAppointments(db)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to retrieve appointments",
			Err: err,
		})
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// GetAppointment godoc
// @Summary      Get one appointment
// @Tags         Appointment
// @Produce      json
// @Param        id path string true "Appointment ID"
// @Success      200 {object} model.Appointment
// @Failure      404 {object} util.APIResponse "Appointment not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /appointments/{id} [get]
func GetAppointment(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	appt, err := util.GetAppointment(db, id)
	if err != nil {
		respondLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, appt)
}

// CreateAppointment godoc
// @Summary      Create an appointment
// @Description  Any _id in the body is ignored; the store assigns one
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Param        request body model.Appointment true "Appointment"
// @Success      201 {object} model.Appointment
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /appointments [post]
func CreateAppointment(c *gin.Context) {
	req, ok := bindAppointment(c)
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	appt := req.WithoutID()
	if err := db.Create(&appt).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to create appointment",
			Err: err,
		})
		return
	}

	middleware.SetAppointmentID(c, appt.ID)
	c.JSON(http.StatusCreated, appt)
}

// UpdateAppointment godoc
// @Summary      Replace an appointment
// @Description  Replaces every field of the appointment with the request body
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Param        id path string true "Appointment ID"
// @Param        request body model.Appointment true "Full appointment"
// @Success      200 {object} model.Appointment
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "Appointment not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /appointments/{id} [put]
func UpdateAppointment(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}
	req, ok := bindAppointment(c)
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	existing, err := fetchAppointmentByID(db, id)
	if err != nil {
		respondLookupError(c, err)
		return
	}

	// The path decides which record is replaced; bookkeeping columns survive.
	req.ID = existing.ID
	req.CreatedAt = existing.CreatedAt
	if err := db.Save(&req).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to update appointment",
			Err: err,
		})
		return
	}
	util.AppointmentCacheSet(req)

	c.JSON(http.StatusOK, req)
}

// DeleteAppointment godoc
// @Summary      Delete an appointment
// @Description  Soft delete an appointment by ID
// @Tags         Appointment
// @Param        id path string true "Appointment ID"
// @Success      204 "Appointment deleted"
// @Failure      404 {object} util.APIResponse "Appointment not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /appointments/{id} [delete]
func DeleteAppointment(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	existing, err := fetchAppointmentByID(db, id)
	if err != nil {
		respondLookupError(c, err)
		return
	}

	if err := db.Delete(&existing).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to delete appointment",
			Err: err,
		})
		return
	}
	util.AppointmentCacheDelete(id)

	c.Status(http.StatusNoContent)
}
