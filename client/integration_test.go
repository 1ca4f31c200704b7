package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/ariebrainware/appointment-manager/config"
	"github.com/ariebrainware/appointment-manager/model"
	"github.com/ariebrainware/appointment-manager/routes"
	"github.com/ariebrainware/appointment-manager/util"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientAgainstStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := config.OpenDB(&config.Config{AppEnv: "test"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Appointment{}, &model.AuditLog{}))

	srv := httptest.NewServer(routes.SetupRouter(routes.Options{
		AppName:  "test",
		DB:       db,
		Audit:    util.NewAuditLogger(nil, db),
		Registry: prometheus.NewRegistry(),
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/appointments"})
	require.NoError(t, err)
	ctx := context.Background()

	created, err := c.Create(ctx, model.Appointment{PatientName: "Cid", Fee: "100", Status: model.StatusScheduled})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	created.Status = model.StatusCompleted
	updated, err := c.Update(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, updated.Status)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, model.StatusCompleted, list[0].Status)

	_, err = c.Create(ctx, model.Appointment{PatientName: "Eve", Status: "Pending"})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))

	require.NoError(t, c.Delete(ctx, created.ID))
	assert.True(t, errors.Is(c.Delete(ctx, created.ID), ErrNotFound))

	list, err = c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	var audited int64
	db.Model(&model.AuditLog{}).Count(&audited)
	assert.Equal(t, int64(7), audited)

	var deletes int64
	db.Model(&model.AuditLog{}).Where("event_type = ? AND appointment_id = ?", "APPOINTMENT_DELETED", created.ID).Count(&deletes)
	assert.Equal(t, int64(1), deletes)
}
