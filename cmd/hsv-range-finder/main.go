package main

import (
	"fmt"
	"os"
	"runtime"

	"hsv-range-finder/internal/config"
	"hsv-range-finder/internal/controllers"
	"hsv-range-finder/internal/logger"
	"hsv-range-finder/internal/models"
	"hsv-range-finder/internal/processing/cache"
	"hsv-range-finder/internal/processing/threshold"
	"hsv-range-finder/internal/render"
	"hsv-range-finder/internal/scheduler"
	"hsv-range-finder/internal/services"
	"hsv-range-finder/internal/shutdown"
	"hsv-range-finder/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"gocv.io/x/gocv"
)

const (
	AppName    = "HSV Range Finder"
	AppID      = "io.github.hsv-range-finder"
	AppVersion = "1.0.0"
)

type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger

	controller *controllers.MainController
	view       *views.MainView
	shutdown   *shutdown.Manager
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewConsoleLogger(logger.ParseLevel(cfg.LogLevel))

	application, err := NewApplication(cfg, appLogger)
	if err != nil {
		appLogger.Error("Main", err, map[string]interface{}{"operation": "initialize"})
		os.Exit(1)
	}

	application.Run()
}

func NewApplication(cfg config.Config, appLogger logger.Logger) (*Application, error) {
	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	if window == nil {
		return nil, fmt.Errorf("failed to create main window")
	}
	window.Resize(fyne.NewSize(cfg.WindowWidth, cfg.WindowHeight))
	window.CenterOnScreen()

	appLogger.Info("Main", "application starting", map[string]interface{}{
		"version":       AppVersion,
		"go_version":    runtime.Version(),
		"opencv":        gocv.OpenCVVersion(),
		"log_level":     cfg.LogLevel,
		"tick_interval": cfg.TickInterval,
		"quiet_period":  cfg.QuietPeriod,
	})

	params := models.NewParameterSet()
	imageRepo := models.NewImageRepository()
	resultCache := cache.NewCache(threshold.NewEngine(), appLogger)
	imageService := services.NewImageService(services.Limits{
		MaxFileSize: cfg.MaxFileSize,
		MaxPixels:   cfg.MaxPixels,
	}, appLogger)
	renderer := render.NewRenderer(cfg.FallbackWidth, cfg.FallbackHeight)

	mainView := views.NewMainView(window, params)

	mainController := controllers.NewMainController(
		params,
		imageRepo,
		imageService,
		resultCache,
		renderer,
		mainView,
		mainView,
		fyneApp.Clipboard(),
		controllers.Timing{
			Clock:        scheduler.NewLoopClock(fyne.Do),
			TickInterval: cfg.TickInterval,
			QuietPeriod:  cfg.QuietPeriod,
		},
		appLogger,
	)

	mainView.SetLoadImageHandler(mainController.LoadImage)
	mainView.SetToggleViewHandler(mainController.ToggleView)
	mainView.SetCopyLowerHandler(mainController.CopyLower)
	mainView.SetCopyUpperHandler(mainController.CopyUpper)
	mainView.SetResizeHandler(mainController.RequestRedraw)

	manager := shutdown.NewManager(appLogger, fyne.Do)
	manager.Register("image repository", imageRepo)
	manager.Register("processing cache", resultCache)
	manager.Register("controller", mainController)
	manager.OnComplete(func() {
		fyne.Do(fyneApp.Quit)
	})

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     appLogger,
		controller: mainController,
		view:       mainView,
		shutdown:   manager,
	}
	application.setupWindowEvents()

	return application, nil
}

// Run shows the window and blocks until the application quits.
func (a *Application) Run() {
	a.shutdown.Listen()
	a.controller.Coalescer().Start()
	a.controller.ProcessPass()

	a.window.ShowAndRun()

	a.shutdown.Shutdown()
	a.logger.Info("Main", "application terminated", nil)
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Main", "window close requested", nil)
		a.shutdown.Shutdown()
		a.window.Close()
	})
}
