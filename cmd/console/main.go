package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/mkanzari/bioconsole/internal/audit"
	"github.com/mkanzari/bioconsole/internal/capture"
	"github.com/mkanzari/bioconsole/internal/gateway"
	"github.com/mkanzari/bioconsole/internal/ui"
	"github.com/mkanzari/bioconsole/internal/view"
	"github.com/mkanzari/bioconsole/internal/workflow"
	"github.com/mkanzari/bioconsole/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	logger, err := logging.Init(logging.ConfigFromEnv())
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	port := envOr("PORT", "3000")
	apiBase := envOr("API_BASE_URL", "http://localhost:5000")
	journalPath := envOr("JOURNAL_PATH", "./bioconsole.db")
	cameraDevice := envOr("CAMERA_DEVICE", "/dev/video0")

	frameSize := 640
	if v := os.Getenv("FRAME_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			frameSize = n
		}
	}

	client := gateway.NewClient(apiBase)

	var device capture.Device
	device, err = capture.NewFFmpegDevice(cameraDevice, frameSize)
	if err != nil {
		sugar.Warnw("camera device not configured; capture will fail until fixed", "error", err)
		device = capture.UnavailableDevice{Err: err}
	}
	pipeline := capture.NewPipeline(device, sugar)

	journal, err := audit.Open(journalPath)
	if err != nil {
		log.Fatal("Failed to open audit journal:", err)
	}
	defer journal.Close()

	store := view.NewStore()
	router := view.NewRouter(store, sugar)
	loader := workflow.NewLoader(client, store, sugar)

	router.Register(view.Dashboard, view.Hooks{Setup: loader.LoadDashboard})
	router.Register(view.Employees, view.Hooks{Setup: loader.LoadEmployees})
	router.Register(view.Fraud, view.Hooks{Setup: loader.LoadFraud})
	// Leaving verification is the only path that must release hardware.
	router.Register(view.Verification, view.Hooks{
		Teardown: func(ctx context.Context) error { return pipeline.Stop() },
	})

	app := &ui.App{
		Router:          router,
		Store:           store,
		Pipeline:        pipeline,
		Registration:    workflow.NewRegistration(client, loader.LoadDashboard, journal, sugar),
		Verification:    workflow.NewVerification(client, pipeline, router, store, journal, sugar),
		AlertResolution: workflow.NewAlertResolution(client, loader.LoadFraud, loader.LoadDashboard, journal, sugar),
		SampleData:      workflow.NewSampleData(client, loader.LoadDashboard, journal, sugar),
		Journal:         journal,
		Logger:          sugar,
	}

	sugar.Infow("console starting", "port", port, "api", apiBase, "camera", cameraDevice)

	if err := http.ListenAndServe(":"+port, ui.NewRouter(app)); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
