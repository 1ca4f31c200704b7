package util

import (
	"time"

	"github.com/ariebrainware/appointment-manager/model"
	cache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const defaultAppointmentCacheTTL = 5 * time.Minute

var appointmentCache *cache.Cache

// InitAppointmentCache enables the in-process cache of single appointments.
// A ttl <= 0 uses the default of five minutes.
func InitAppointmentCache(ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultAppointmentCacheTTL
	}
	appointmentCache = cache.New(ttl, 2*ttl)
}

// ConfigureAppointmentCache applies the configured TTL. A zero ttl turns
// the cache off.
func ConfigureAppointmentCache(ttl time.Duration) {
	if ttl <= 0 {
		DisableAppointmentCache()
		return
	}
	InitAppointmentCache(ttl)
}

// DisableAppointmentCache turns caching off and drops every entry.
func DisableAppointmentCache() {
	appointmentCache = nil
}

// AppointmentCacheGet returns the cached appointment for id.
func AppointmentCacheGet(id string) (model.Appointment, bool) {
	if appointmentCache == nil || id == "" {
		return model.Appointment{}, false
	}
	if v, ok := appointmentCache.Get(id); ok {
		if appt, ok := v.(model.Appointment); ok {
			return appt, true
		}
	}
	return model.Appointment{}, false
}

// AppointmentCacheSet stores appt under its ID.
func AppointmentCacheSet(appt model.Appointment) {
	if appointmentCache == nil || appt.ID == "" {
		return
	}
	appointmentCache.Set(appt.ID, appt, cache.DefaultExpiration)
}

// AppointmentCacheDelete evicts id.
func AppointmentCacheDelete(id string) {
	if appointmentCache == nil {
		return
	}
	appointmentCache.Delete(id)
}

// GetAppointment returns the appointment for id using the cache, falling
// back to db. A record found in db is cached.
func GetAppointment(db *gorm.DB, id string) (model.Appointment, error) {
	if appt, ok := AppointmentCacheGet(id); ok {
		return appt, nil
	}
	var appt model.Appointment
	if err := db.Where("id = ?", id).First(&appt).Error; err != nil {
		return model.Appointment{}, err
	}
	AppointmentCacheSet(appt)
	return appt, nil
}
