// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariebrainware/appointment-manager/client"
	"github.com/ariebrainware/appointment-manager/config"
	"github.com/ariebrainware/appointment-manager/manager"
	"github.com/ariebrainware/appointment-manager/middleware"
	"github.com/ariebrainware/appointment-manager/model"
	"github.com/ariebrainware/appointment-manager/routes"
	"github.com/ariebrainware/appointment-manager/tui"
	"github.com/ariebrainware/appointment-manager/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type cliOptions struct {
	apiURL  string
	logFile string
	search  string
	timeout time.Duration
}

// @title        Appointment Store API
// @version      1.0
// @description  REST resource backing the hospital appointment manager.
// @host         localhost:5000
// @BasePath     /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.LoadConfig()
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:   "apptmgr",
		Short: "Hospital appointment manager",
		Long: `apptmgr manages hospital appointments stored behind a REST
/appointments resource.

Run without arguments to open the interactive screen.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, opts)
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api", cfg.APIURL, "appointments resource URL")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write client logs to this file")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "HTTP request timeout (0 means none)")

	uiCmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive appointment screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, opts)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print appointments and counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}
	listCmd.Flags().StringVar(&opts.search, "search", "", "filter by patient name (case-insensitive)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the appointment store HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	rootCmd.AddCommand(uiCmd, listCmd, serveCmd)
	return rootCmd
}

func newClient(opts *cliOptions, log *zap.Logger) (*client.Client, error) {
	return client.New(client.Config{
		BaseURL:    opts.apiURL,
		HTTPClient: &http.Client{Timeout: opts.timeout},
		Logger:     log,
	})
}

func clientLogger(opts *cliOptions) (*zap.Logger, error) {
	if opts.logFile == "" {
		return zap.NewNop(), nil
	}
	return util.NewFileLogger(opts.logFile, config.LoadConfig().LogLevel)
}

func runUI(cmd *cobra.Command, opts *cliOptions) error {
	log, err := clientLogger(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	c, err := newClient(opts, log)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return tui.Run(ctx, manager.New(c), log)
}

func runList(cmd *cobra.Command, opts *cliOptions) error {
	log, err := clientLogger(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	c, err := newClient(opts, log)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mgr := manager.New(c)
	if err := mgr.Load(ctx); err != nil {
		return err
	}
	mgr.SetSearchText(opts.search)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderList(mgr.VisibleRecords()))
	counters := mgr.Counters()
	fmt.Fprintf(out, "Total: %d  Completed: %d  Cancelled: %d\n",
		counters.Total, counters.Completed, counters.Cancelled)
	return nil
}

func renderList(records []model.Appointment) string {
	if len(records) == 0 {
		return "No appointments found"
	}
	styles := tui.DefaultStyles()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Patient", "Doctor", "Date", "Time", "Fee", "Status")
	for _, a := range records {
		t.Row(a.PatientName, a.DoctorName, a.DisplayDate(), a.AppointmentTime, a.DisplayFee(),
			styles.StatusStyle(a.Status).Render(string(a.Status)))
	}
	return t.Render()
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger, err := util.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	gin.SetMode(cfg.GinMode)

	db, err := config.ConnectDB()
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))
		return err
	}
	if err := db.AutoMigrate(&model.Appointment{}, &model.AuditLog{}); err != nil {
		logger.Error("auto migration failed", zap.Error(err))
		return err
	}

	util.ConfigureAppointmentCache(cfg.AppointmentCacheTTL)
	if err := util.InitGeoIP(cfg.GeoIPDBPath); err != nil {
		logger.Warn("geoip database unavailable, audit locations disabled", zap.Error(err))
	}
	defer util.CloseGeoIP()

	if _, err := config.ConnectRedis(cfg); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
	}

	router := routes.SetupRouter(routes.Options{
		AppName: cfg.AppName,
		DB:      db,
		Audit:   util.NewAuditLogger(logger, db),
		RateLimit: middleware.RateLimitConfig{
			Limit:  cfg.RateLimit,
			Window: cfg.RateLimitWindow,
		},
	})

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("appointment store listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("error starting server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
