package app

import (
	"edu_mission_backend/internal/config"
	"edu_mission_backend/internal/controller"
	"edu_mission_backend/internal/judge"
	"edu_mission_backend/internal/repository"
	"edu_mission_backend/internal/service"
	"edu_mission_backend/pkg/database"
	"edu_mission_backend/pkg/logger"
	"edu_mission_backend/pkg/monitoring"
	"edu_mission_backend/pkg/security"
	"edu_mission_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	enrollment *repository.EnrollmentRepository
	mission    *repository.MissionRepository
	submission *repository.SubmissionRepository
	evaluation *repository.EvaluationRepository
	progress   *repository.ProgressRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	content    *service.ContentService
	course     *service.CourseService
	enrollment *service.EnrollmentService
	evaluation *service.EvaluationService
	mission    *service.MissionService
	progress   *service.ProgressService
	dashboard  *service.DashboardService
}

type controllers struct {
	auth       *controller.AuthController
	course     *controller.CourseController
	content    *controller.ContentController
	enrollment *controller.EnrollmentController
	mission    *controller.MissionController
	progress   *controller.ProgressController
	dashboard  *controller.DashboardController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置热更新回调入口，由configwatcher触发
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		mission:    repository.NewMissionRepository(db),
		submission: repository.NewSubmissionRepository(db),
		evaluation: repository.NewEvaluationRepository(db),
		progress:   repository.NewProgressRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client, registry *judge.Registry) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.content = service.NewContentService(repos.course, s.storage)
	s.course = service.NewCourseService(repos.course, repos.mission)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course)
	s.evaluation = service.NewEvaluationService(registry, repos.evaluation, &cfg.Judge)
	s.mission = service.NewMissionService(db, repos.mission, repos.submission, s.enrollment, s.evaluation)
	s.progress = service.NewProgressService(repos.progress, repos.course, s.enrollment, rdb)
	s.dashboard = service.NewDashboardService(s.progress, s.enrollment, repos.submission, repos.course)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, registry *judge.Registry) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.user),
		course:     controller.NewCourseController(s.course),
		content:    controller.NewContentController(s.content),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		mission:    controller.NewMissionController(s.mission, s.evaluation),
		progress:   controller.NewProgressController(s.progress),
		dashboard:  controller.NewDashboardController(s.dashboard),
		health:     controller.NewHealthController(db, registry),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	registry := judge.NewRegistry()

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb, registry)
	controllers := app.initControllers(services, db, registry)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("mission-platform", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
