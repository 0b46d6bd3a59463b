package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskhive/tracker-platform/internal/config"
	"github.com/taskhive/tracker-platform/internal/database"
	"github.com/taskhive/tracker-platform/internal/handlers"
	"github.com/taskhive/tracker-platform/internal/middleware"
	"github.com/taskhive/tracker-platform/internal/models"
	"github.com/taskhive/tracker-platform/internal/services"
)

func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	// CORS configuration: cookie auth needs credentials, so the origin list
	// must be explicit.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":       "ok",
			"db_connected": database.GetDB() != nil,
		})
	})

	// Initialize services
	authService := services.NewAuthService(cfg)
	googleService := services.NewGoogleService(cfg, authService)
	assignmentService := services.NewAssignmentService()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(googleService, cfg)
	projectHandler := handlers.NewProjectHandler(assignmentService)
	taskHandler := handlers.NewTaskHandler(assignmentService)
	employeeHandler := handlers.NewEmployeeHandler(assignmentService)

	// Auth routes (public)
	router.GET("/login", authHandler.Login)
	router.GET("/callback", authHandler.Callback)
	router.POST("/logout", authHandler.Logout)

	// Everything below requires a valid session
	authed := router.Group("")
	authed.Use(middleware.AuthMiddleware(authService))
	{
		authed.GET("/get-userdetails", authHandler.GetUserDetails)

		// Project routes
		projects := authed.Group("/projects")
		{
			projects.GET("", middleware.RequireRole(models.RoleAdmin, models.RoleManager), projectHandler.ListProjects)
			projects.GET("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), projectHandler.GetProject)
			projects.POST("", middleware.RequireRole(models.RoleAdmin), projectHandler.CreateProject)
			projects.PUT("/:id", middleware.RequireRole(models.RoleAdmin), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), projectHandler.DeleteProject)
			projects.POST("/mark-complete", middleware.RequireRole(models.RoleAdmin, models.RoleManager), projectHandler.MarkComplete)

			// Self-access exception: an employee may always view their own
			// tasks within a project.
			projects.GET("/:id/employees/:employeeId/tasks",
				middleware.RequireRoleOrSelf("employeeId", models.RoleAdmin, models.RoleManager),
				taskHandler.GetProjectEmployeeTasks)
		}

		// Task routes
		tasks := authed.Group("/tasks")
		{
			tasks.GET("", middleware.RequireRole(models.RoleAdmin, models.RoleManager), taskHandler.ListTasks)
			tasks.GET("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), taskHandler.GetTask)
			tasks.POST("", middleware.RequireRole(models.RoleAdmin, models.RoleManager), taskHandler.CreateTask)
			tasks.PUT("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), taskHandler.DeleteTask)
			tasks.PUT("/update-status", middleware.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleMember), taskHandler.UpdateTaskStatus)
		}

		// Employee routes
		authed.GET("/employees", middleware.RequireRole(models.RoleAdmin, models.RoleManager), employeeHandler.ListEmployees)
		authed.GET("/employees/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), employeeHandler.GetEmployee)
		authed.POST("/employees", middleware.RequireRole(models.RoleAdmin), employeeHandler.CreateEmployee)
		authed.PUT("/employees/:id", middleware.RequireRole(models.RoleAdmin), employeeHandler.UpdateEmployee)
		authed.DELETE("/employees/:id", middleware.RequireRole(models.RoleAdmin), employeeHandler.DeleteEmployee)
		authed.GET("/managers", middleware.RequireRole(models.RoleAdmin), employeeHandler.ListManagers)
		authed.GET("/members", middleware.RequireRole(models.RoleAdmin, models.RoleManager), employeeHandler.ListMembers)
		authed.PUT("/change-role", middleware.RequireRole(models.RoleAdmin), employeeHandler.ChangeRole)

		authed.GET("/employees/:id/projects",
			middleware.RequireRoleOrSelf("id", models.RoleAdmin, models.RoleManager),
			projectHandler.GetEmployeeProjects)
	}

	return router
}
