package routes

import (
	"community-portal-backend/internal/api/handlers"
	"community-portal-backend/internal/api/middleware"
	"community-portal-backend/internal/auth"
	"community-portal-backend/internal/authz"
	"community-portal-backend/internal/config"
	"community-portal-backend/internal/repository"
	"community-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "community-portal-backend/docs"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg))

	// Initialize repositories
	organizationRepo := repository.NewOrganizationRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	electionRepo := repository.NewElectionRepository(db)
	eventRepo := repository.NewEventRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	chatRepo := repository.NewChatRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	financeRepo := repository.NewFinanceRepository(db)

	// Initialize services
	authService := auth.NewAuthService(cfg, userRepo, auth.NewMemoryOTPStore())
	organizationService := service.NewOrganizationService(organizationRepo, roleRepo, userRepo)
	roleService := service.NewRoleService(roleRepo)
	memberService := service.NewMemberService(userRepo, roleRepo, notificationRepo)
	electionService := service.NewElectionService(electionRepo, userRepo)
	eventService := service.NewEventService(eventRepo)
	announcementService := service.NewAnnouncementService(announcementRepo)
	chatService := service.NewChatService(chatRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	financeService := service.NewFinanceService(financeRepo, eventRepo)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(authService, userRepo)
	scope := authz.NewMiddleware(authz.NewEngine(userRepo, roleRepo))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService)
	organizationHandler := handlers.NewOrganizationHandler(organizationService)
	roleHandler := handlers.NewRoleHandler(roleService)
	memberHandler := handlers.NewMemberHandler(memberService)
	electionHandler := handlers.NewElectionHandler(electionService)
	eventHandler := handlers.NewEventHandler(eventService)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService)
	chatHandler := handlers.NewChatHandler(chatService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	financeHandler := handlers.NewFinanceHandler(financeService)

	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")

	// Public endpoints
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/otp/request", authHandler.RequestOTP)
		authGroup.POST("/otp/verify", authHandler.VerifyOTP)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/check-phone", authHandler.CheckPhone)
	}
	api.POST("/organizations", organizationHandler.Create)

	// Everything below requires a valid token; each route additionally
	// resolves its tenant scope and permission.
	protected := api.Group("", authMiddleware.RequireAuth())

	organizations := protected.Group("/organizations")
	{
		organizations.GET("", scope.RequireScope("organizations:read"), organizationHandler.List)
		organizations.GET("/:id", scope.RequireScope("organizations:read"), organizationHandler.Get)
		organizations.PATCH("/:id", scope.RequireScope("organizations:write"), organizationHandler.Update)
		organizations.DELETE("/:id", scope.RequireScope("organizations:write"), organizationHandler.Delete)
	}

	roles := protected.Group("/roles")
	{
		roles.GET("", scope.RequireScope("roles:read"), roleHandler.List)
		roles.GET("/:id", scope.RequireScope("roles:read"), roleHandler.Get)
		roles.POST("", scope.RequireScope("roles:write"), roleHandler.Create)
		roles.PATCH("/:id", scope.RequireScope("roles:write"), roleHandler.Update)
		roles.DELETE("/:id", scope.RequireScope("roles:write"), roleHandler.Delete)
	}

	members := protected.Group("/members")
	{
		members.GET("", scope.RequireScope("members:read"), memberHandler.List)
		members.GET("/:id", scope.RequireScope("members:read"), memberHandler.Get)
		members.POST("", scope.RequireScope("members:write"), memberHandler.Create)
		members.PATCH("/:id", scope.RequireScope("members:write"), memberHandler.Update)
		members.DELETE("/:id", scope.RequireScope("members:write"), memberHandler.Delete)
	}

	elections := protected.Group("/elections")
	{
		elections.GET("", scope.RequireScope("elections:read"), electionHandler.List)
		elections.GET("/:id", scope.RequireScope("elections:read"), electionHandler.Get)
		elections.POST("", scope.RequireScope("elections:write"), electionHandler.Create)
		elections.PATCH("/:id", scope.RequireScope("elections:write"), electionHandler.Update)
		elections.DELETE("/:id", scope.RequireScope("elections:write"), electionHandler.Delete)

		elections.GET("/:id/candidates", scope.RequireScope("elections:read"), electionHandler.ListCandidates)
		elections.POST("/:id/candidates", scope.RequireScope("elections:write"), electionHandler.AddCandidate)
		elections.PATCH("/:id/candidates/:candidateId", scope.RequireScope("elections:write"), electionHandler.UpdateCandidate)
		elections.DELETE("/:id/candidates/:candidateId", scope.RequireScope("elections:write"), electionHandler.DeleteCandidate)

		elections.POST("/:id/votes", scope.RequireScope("elections:vote"), electionHandler.Vote)
		elections.GET("/:id/votes/me", scope.RequireScope("elections:read"), electionHandler.MyVoteStatus)
		elections.GET("/:id/results", scope.RequireScope("elections:results"), electionHandler.Results)
	}

	events := protected.Group("/events")
	{
		events.GET("", scope.RequireScope("events:read"), eventHandler.List)
		events.GET("/:id", scope.RequireScope("events:read"), eventHandler.Get)
		events.POST("", scope.RequireScope("events:write"), eventHandler.Create)
		events.PATCH("/:id", scope.RequireScope("events:write"), eventHandler.Update)
		events.DELETE("/:id", scope.RequireScope("events:write"), eventHandler.Delete)
	}

	announcements := protected.Group("/announcements")
	{
		announcements.GET("", scope.RequireScope("announcements:read"), announcementHandler.List)
		announcements.GET("/:id", scope.RequireScope("announcements:read"), announcementHandler.Get)
		announcements.POST("", scope.RequireScope("announcements:write"), announcementHandler.Create)
		announcements.PATCH("/:id", scope.RequireScope("announcements:write"), announcementHandler.Update)
		announcements.DELETE("/:id", scope.RequireScope("announcements:write"), announcementHandler.Delete)
	}

	chats := protected.Group("/chats")
	{
		chats.GET("", scope.RequireScope("chats:read"), chatHandler.List)
		chats.POST("", scope.RequireScope("chats:write"), chatHandler.Create)
		chats.DELETE("/:id", scope.RequireScope("chats:write"), chatHandler.Delete)
		chats.GET("/:id/messages", scope.RequireScope("chats:read"), chatHandler.ListMessages)
		chats.POST("/:id/messages", scope.RequireScope("chats:write"), chatHandler.PostMessage)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", scope.RequireScope(""), notificationHandler.ListMine)
		notifications.POST("", scope.RequireScope("members:write"), notificationHandler.Create)
		notifications.POST("/:id/read", scope.RequireScope(""), notificationHandler.MarkRead)
	}

	finance := protected.Group("/finance")
	{
		finance.GET("/incomes", scope.RequireScope("finance:read"), financeHandler.ListIncomes)
		finance.POST("/incomes", scope.RequireScope("finance:write"), financeHandler.SubmitIncome)
		finance.POST("/incomes/:id/review", scope.RequireScope("finance:review"), financeHandler.ReviewIncome)
		finance.GET("/expenses", scope.RequireScope("finance:read"), financeHandler.ListExpenses)
		finance.POST("/expenses", scope.RequireScope("finance:write"), financeHandler.SubmitExpense)
		finance.POST("/expenses/:id/review", scope.RequireScope("finance:review"), financeHandler.ReviewExpense)
	}

	return router
}
