package app

import (
	"edu_mission_backend/docs"
	"edu_mission_backend/internal/config"
	"edu_mission_backend/internal/middleware"
	"edu_mission_backend/internal/model"

	"edu_mission_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录允许游客浏览
		public.GET("/majors", c.course.ListMajors)
		public.GET("/majors/:id", c.course.GetMajor)
		public.GET("/majors/:id/minors", c.course.ListMinors)
		public.GET("/minors/:id", c.course.GetMinor)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.auth.UpdateProfile)
	rg.GET("/dashboard", c.dashboard.GetDashboard)

	// 报名
	rg.POST("/enrollments", c.enrollment.Enroll)
	rg.GET("/enrollments", c.enrollment.ListMine)
	rg.POST("/enrollments/:id/cancel", c.enrollment.Cancel)

	// 视频与播放
	rg.GET("/minors/:id/videos", c.content.ListVideos)
	rg.GET("/videos/:id", c.content.GetVideo)
	rg.GET("/videos/:id/playback", c.content.PlaybackURL)

	// 学习进度
	rg.PUT("/videos/:id/progress", c.progress.UpdateProgress)
	rg.GET("/videos/:id/progress", c.progress.GetDetail)
	rg.GET("/minors/:id/progress", c.progress.MinorProgress)
	rg.GET("/majors/:id/progress", c.progress.MajorProgress)
	rg.GET("/progress/overall", c.progress.OverallProgress)

	// 任务与作答
	rg.GET("/minors/:id/missions", c.mission.ListMissions)
	rg.GET("/missions/:id", c.mission.GetMission)
	rg.POST("/submissions", c.mission.CreateSubmission)
	rg.GET("/submissions", c.mission.ListSubmissions)
	rg.GET("/submissions/:id", c.mission.GetSubmission)
	rg.POST("/submissions/:id/choice", c.mission.SubmitMultipleChoice)
	rg.POST("/submissions/:id/code", c.mission.SubmitCode)
	rg.GET("/questions/:id/evaluations", c.mission.EvaluationHistory)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
	{
		teacher.POST("/minors", c.course.CreateMinor)
		teacher.PUT("/minors/:id", c.course.UpdateMinor)

		teacher.POST("/videos", c.content.UploadVideo)
		teacher.DELETE("/videos/:id", c.content.DeleteVideo)

		teacher.PUT("/missions/:id", c.mission.UpdateMission)
		teacher.POST("/questions", c.mission.CreateQuestion)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/majors", c.course.CreateMajor)
		admin.PUT("/majors/:id", c.course.UpdateMajor)
		admin.POST("/enrollments/:id/activate", c.enrollment.Activate)
	}
}
