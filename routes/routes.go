package routes

import (
	"fmt"
	"net/http"

	_ "github.com/ariebrainware/appointment-manager/docs"
	"github.com/ariebrainware/appointment-manager/endpoint"
	"github.com/ariebrainware/appointment-manager/middleware"
	"github.com/ariebrainware/appointment-manager/util"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Options carries everything the appointment store router depends on.
type Options struct {
	AppName   string
	DB        *gorm.DB
	Audit     *util.AuditLogger
	RateLimit middleware.RateLimitConfig
	// Registry receives the HTTP metrics; nil uses the default registry.
	Registry *prometheus.Registry
}

// SetupRouter builds the gin engine serving the appointment resource.
func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	if opts.Registry != nil {
		gatherer = opts.Registry
		registerer = opts.Registry
	}
	metrics := middleware.NewHTTPMetrics(registerer)

	r.Use(middleware.CORSMiddleware())
	r.Use(metrics.Middleware())
	r.Use(middleware.EndpointCallLogger(opts.Audit))
	r.Use(middleware.DatabaseMiddleware(opts.DB))

	r.GET("/", func(c *gin.Context) {
		util.CallSuccessOK(c, util.APISuccessParams{
			Msg: fmt.Sprintf("Welcome to %s!", opts.AppName),
		})
	})
	r.GET("/healthz", healthz(opts.DB))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if opts.RateLimit.Audit == nil {
		opts.RateLimit.Audit = opts.Audit
	}
	limited := middleware.RateLimiter(opts.RateLimit)

	appointments := r.Group("/appointments")
	{
		appointments.GET("", endpoint.ListAppointments)
		appointments.GET("/:id", endpoint.GetAppointment)
		appointments.POST("", limited, endpoint.CreateAppointment)
		appointments.PUT("/:id", limited, endpoint.UpdateAppointment)
		appointments.DELETE("/:id", limited, endpoint.DeleteAppointment)
	}

	return r
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "no database"})
			return
		}
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
