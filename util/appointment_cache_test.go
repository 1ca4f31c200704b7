package util

import (
	"fmt"
	"testing"
	"time"

	"github.com/ariebrainware/appointment-manager/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newAppointmentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:appt_cache_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Appointment{}))
	return db
}

func TestAppointmentCache_Disabled(t *testing.T) {
	DisableAppointmentCache()

	AppointmentCacheSet(model.Appointment{ID: "a"})
	_, ok := AppointmentCacheGet("a")
	assert.False(t, ok)
	assert.NotPanics(t, func() { AppointmentCacheDelete("a") })
}

func TestAppointmentCache_SetGetDelete(t *testing.T) {
	InitAppointmentCache(time.Minute)
	t.Cleanup(DisableAppointmentCache)

	_, ok := AppointmentCacheGet("a")
	assert.False(t, ok)

	AppointmentCacheSet(model.Appointment{ID: "a", PatientName: "Anu"})
	got, ok := AppointmentCacheGet("a")
	require.True(t, ok)
	assert.Equal(t, "Anu", got.PatientName)

	AppointmentCacheSet(model.Appointment{ID: "a", PatientName: "Anu B"})
	got, _ = AppointmentCacheGet("a")
	assert.Equal(t, "Anu B", got.PatientName)

	AppointmentCacheDelete("a")
	_, ok = AppointmentCacheGet("a")
	assert.False(t, ok)

	AppointmentCacheSet(model.Appointment{PatientName: "no id"})
	assert.Zero(t, appointmentCache.ItemCount())
}

func TestConfigureAppointmentCache(t *testing.T) {
	t.Cleanup(DisableAppointmentCache)

	ConfigureAppointmentCache(30 * time.Second)
	require.NotNil(t, appointmentCache)
	AppointmentCacheSet(model.Appointment{ID: "a", PatientName: "Anu"})
	_, ok := AppointmentCacheGet("a")
	assert.True(t, ok)

	ConfigureAppointmentCache(0)
	assert.Nil(t, appointmentCache)
	_, ok = AppointmentCacheGet("a")
	assert.False(t, ok)
}

func TestGetAppointment_ReadThrough(t *testing.T) {
	InitAppointmentCache(time.Minute)
	t.Cleanup(DisableAppointmentCache)
	db := newAppointmentTestDB(t)

	appt := model.Appointment{PatientName: "Anu", Status: model.StatusScheduled}
	require.NoError(t, db.Create(&appt).Error)

	got, err := GetAppointment(db, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anu", got.PatientName)

	// Served from the cache once the row is gone.
	require.NoError(t, db.Unscoped().Delete(&model.Appointment{}, "id = ?", appt.ID).Error)
	got, err = GetAppointment(db, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, got.ID)

	AppointmentCacheDelete(appt.ID)
	_, err = GetAppointment(db, appt.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
