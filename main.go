package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	ginGzip "github.com/gin-contrib/gzip"

	"golang.org/x/time/rate"

	"github.com/gin-gonic/gin"

	"github.com/samber/lo"
)

// App owns every piece of shared state: the exercise pool, per-session
// attempts, the external service clients and the metrics. Passing the
// instance around keeps the tray/slot state out of package globals.
type App struct {
	Exercises     []ExerciseDescriptor
	ExerciseIndex map[string]*ExerciseDescriptor
	ModuleCounts  map[string]map[int]int

	Sessions     map[string]*ExerciseState
	SessionMutex sync.RWMutex

	Checker *CheckerClient
	Dict    *DudenClient
	Metrics *Metrics

	LimiterMap     map[string]*rate.Limiter
	LimiterMutex   sync.Mutex
	RateLimitRPS   int
	RateLimitBurst int

	IsProduction   bool
	CookieMaxAge   time.Duration
	SessionTimeout time.Duration
	StaticCacheAge time.Duration
	StartTime      time.Time
}

func newApp(exercises []ExerciseDescriptor) *App {
	app := &App{
		Exercises:      exercises,
		ExerciseIndex:  make(map[string]*ExerciseDescriptor, len(exercises)),
		ModuleCounts:   countByModuleAndLevel(exercises),
		Sessions:       make(map[string]*ExerciseState),
		LimiterMap:     make(map[string]*rate.Limiter),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		IsProduction:   os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production",
		CookieMaxAge:   getEnvDuration("COOKIE_MAX_AGE", 2*time.Hour),
		SessionTimeout: getEnvDuration("SESSION_TIMEOUT", 2*time.Hour),
		StaticCacheAge: getEnvDuration("STATIC_CACHE_AGE", 5*time.Minute),
		Metrics:        newMetrics(),
		StartTime:      time.Now(),
	}
	lo.ForEach(exercises, func(ex ExerciseDescriptor, i int) {
		app.ExerciseIndex[ex.TemplateID] = &app.Exercises[i]
	})
	app.Checker = newCheckerClient(
		getEnvString("CHECKER_URL", "http://localhost:5000"),
		getEnvDuration("CHECKER_TIMEOUT", 10*time.Second),
	)
	app.Dict = newDudenClient(
		getEnvString("DUDEN_URL", "https://www.duden.de"),
		getEnvDuration("DUDEN_TIMEOUT", 5*time.Second),
	)
	return app
}

func main() {
	_ = godotenv.Load()

	exercises, err := loadExercises(getEnvString("EXERCISES_FILE", "data/exercises.json"))
	if err != nil {
		logFatal("Failed to load exercises: %v", err)
	}

	app := newApp(exercises)
	logInfo("Starting Satzbau in %s mode with %d exercises across %d modules",
		map[bool]string{true: "production", false: "development"}[app.IsProduction],
		len(app.Exercises), len(app.ModuleCounts))

	if err := cleanupOldSessions(app.SessionTimeout); err != nil {
		logWarn("Session cleanup failed: %v", err)
	}

	router := app.setupRouter()
	startServer(router)
}

// setupRouter wires middleware, templates and routes.
func (app *App) setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"}),
		ginGzip.WithExcludedPaths([]string{"/metrics"})))
	router.Use(requestIDMiddleware())

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	production := app.IsProduction
	router.Use(func(c *gin.Context) {
		applyCacheHeaders(c, production, app.StaticCacheAge)
	})

	router.LoadHTMLGlob("templates/*.html")
	if dirExists("static") {
		router.Static("/static", "./static")
	}

	router.GET(RouteHome, app.homeHandler)
	router.GET(RouteNewExercise, app.newExerciseHandler)
	router.POST(RouteNewExercise, app.rateLimitMiddleware(), app.newExerciseHandler)
	router.POST(RoutePointer, app.pointerHandler)
	router.POST(RouteChipTap, app.rateLimitMiddleware(), app.chipTapHandler)
	router.POST(RouteSlotClick, app.rateLimitMiddleware(), app.slotClickHandler)
	router.POST(RouteGapSelect, app.rateLimitMiddleware(), app.gapSelectHandler)
	router.POST(RouteSubmit, app.rateLimitMiddleware(), app.submitHandler)
	router.POST(RouteReset, app.rateLimitMiddleware(), app.resetHandler)
	router.GET(RouteLookup, app.lookupHandler)
	router.GET("/healthz", app.healthzHandler)
	router.GET("/metrics", app.Metrics.handler())

	return router
}

func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}

func applyCacheHeaders(c *gin.Context, production bool, staticCacheAge time.Duration) {
	if production && strings.HasPrefix(c.Request.URL.Path, "/static/") {
		cachecontrol.New(cachecontrol.Config{
			Public: true,
			MaxAge: cachecontrol.Duration(staticCacheAge),
		})(c)
		c.Header("Vary", "Accept-Encoding")
		return
	}
	cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})(c)
}
