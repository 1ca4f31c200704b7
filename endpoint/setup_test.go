package endpoint

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/ariebrainware/appointment-manager/config"
	"github.com/ariebrainware/appointment-manager/middleware"
	"github.com/ariebrainware/appointment-manager/model"
	"github.com/ariebrainware/appointment-manager/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupEndpointTest returns a Gin engine with the appointment routes and a
// fresh in-memory database behind them.
func setupEndpointTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDB(&config.Config{AppEnv: "test"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Appointment{}))

	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	r.GET("/appointments", ListAppointments)
	r.GET("/appointments/:id", GetAppointment)
	r.POST("/appointments", CreateAppointment)
	r.PUT("/appointments/:id", UpdateAppointment)
	r.DELETE("/appointments/:id", DeleteAppointment)
	return r, db
}

func seedAppointment(t *testing.T, db *gorm.DB, appt model.Appointment) model.Appointment {
	t.Helper()
	require.NoError(t, db.Create(&appt).Error)
	return appt
}

func performRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		_ = json.NewEncoder(&buf).Encode(v)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeAppointment(t *testing.T, w *httptest.ResponseRecorder) model.Appointment {
	t.Helper()
	var appt model.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &appt), w.Body.String())
	return appt
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) util.APIResponse {
	t.Helper()
	var resp util.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}
