// Package routes defines the API routing configuration.
// It wires repositories into services and services into handlers, and
// groups routes by the role allowed to call them.
package routes

import (
	"vyuha/internal/handlers"
	"vyuha/internal/middleware"
	"vyuha/internal/models"
	"vyuha/internal/repositories"
	"vyuha/internal/services/admin"
	"vyuha/internal/services/auth"
	"vyuha/internal/services/notification"
	"vyuha/internal/services/settings"
	"vyuha/internal/services/settlement"
	"vyuha/internal/services/team"
	"vyuha/internal/services/user"
	"vyuha/internal/services/wallet"
	"vyuha/internal/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB, notifier notification.Service, uploader storage.FileUploader) {
	// Repositories
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	walletRepo := repositories.NewWalletRepository(db, repositories.CacheService)
	tournamentRepo := repositories.NewTournamentRepository(db)
	settlementRepo := repositories.NewSettlementRepository(db, repositories.CacheService)
	settingsRepo := repositories.NewSettingsRepository(db, repositories.CacheService)
	teamRepo := repositories.NewTeamRepository(db)

	// Services
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo, notifier)
	settingsService := settings.NewService(settingsRepo, repositories.CacheService)
	walletService := wallet.NewService(walletRepo, tournamentRepo, notifier, nil)
	settlementService := settlement.NewService(settlementRepo, settingsService, notifier)
	adminService := admin.NewService(userRepo, walletRepo, tournamentRepo, notifier)
	teamService := team.NewService(teamRepo, userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	walletHandler := handlers.NewWalletHandler(walletService, uploader)
	tournamentHandler := handlers.NewTournamentHandler(settlementService)
	adminHandler := handlers.NewAdminHandler(adminService, walletService, settingsService, settlementService)
	teamHandler := handlers.NewTeamHandler(teamService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	setupUserRoutes(protected, authHandler, userHandler, walletHandler, tournamentHandler, teamHandler)
	setupOrganizerRoutes(protected, tournamentHandler)
	setupAdminRoutes(app, authMiddleware, adminHandler)
}

func setupUserRoutes(
	router fiber.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	walletHandler *handlers.WalletHandler,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
) {
	router.Post("/logout", authHandler.LogoutUser)
	router.Post("/change-password", authHandler.ChangePassword)

	router.Get("/profile", userHandler.GetProfile)
	router.Put("/profile", userHandler.UpdateProfile)

	// Wallet routes
	w := router.Group("/wallet")
	w.Get("/", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetBalance)
	w.Get("/transactions", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetTransactions)
	w.Get("/withdrawable", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetWithdrawable)
	w.Post("/deposits", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.SubmitDeposit)
	w.Post("/deposits/screenshot", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.UploadScreenshot)
	w.Post("/withdrawals", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.RequestWithdrawal)
	w.Post("/bonus/claim", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.ClaimBonus)

	// Team routes
	teams := router.Group("/teams")
	teams.Get("/", teamHandler.ListOpenTeams)
	teams.Post("/", teamHandler.CreateTeam)
	teams.Get("/mine", teamHandler.GetMyTeam)
	teams.Post("/:id/join", teamHandler.JoinTeam)
	teams.Post("/leave", teamHandler.LeaveTeam)
	teams.Post("/members", teamHandler.AddTeamMember)
	teams.Delete("/members/:userId", teamHandler.RemoveTeamMember)
	teams.Patch("/open", teamHandler.SetTeamOpen)

	// Tournament routes
	router.Get("/tournaments", tournamentHandler.ListTournaments)
	router.Get("/tournaments/:id", tournamentHandler.GetTournament)
	router.Post("/tournaments/:id/join", middleware.HasPermission(models.PermissionTournamentJoin), tournamentHandler.JoinTournament)
}

func setupOrganizerRoutes(router fiber.Router, tournamentHandler *handlers.TournamentHandler) {
	organizer := router.Group("/organizer", middleware.RequireRole(models.RoleOrganizer))

	organizer.Post("/tournaments", tournamentHandler.CreateTournament)
	organizer.Get("/tournaments", tournamentHandler.ListOwnTournaments)
	organizer.Post("/tournaments/:id/start", tournamentHandler.StartTournament)
	organizer.Post("/tournaments/:id/cancel", tournamentHandler.CancelTournament)
	organizer.Post("/tournaments/:id/winner", tournamentHandler.DeclareWinner)
}

func setupAdminRoutes(app *fiber.App, authMiddleware *middleware.AuthMiddleware, h *handlers.AdminHandler) {
	adminGroup := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)

	adminGroup.Get("/settings", middleware.HasPermission(models.PermissionReadAdmin), h.GetSettings)
	adminGroup.Patch("/settings", middleware.HasPermission(models.PermissionWriteAdmin), h.UpdateSettings)
	adminGroup.Patch("/settings/payment", middleware.HasPermission(models.PermissionWriteAdmin), h.UpdatePaymentDetails)

	adminGroup.Get("/deposits", middleware.HasPermission(models.PermissionDepositsManage), h.ListPendingDeposits)
	adminGroup.Post("/deposits/:id/approve", middleware.HasPermission(models.PermissionDepositsManage), h.ApproveDeposit)
	adminGroup.Post("/deposits/:id/reject", middleware.HasPermission(models.PermissionDepositsManage), h.RejectDeposit)

	adminGroup.Get("/withdrawals", middleware.HasPermission(models.PermissionWithdrawalsManage), h.ListPendingWithdrawals)
	adminGroup.Post("/withdrawals/:id/approve", middleware.HasPermission(models.PermissionWithdrawalsManage), h.ApproveWithdrawal)
	adminGroup.Post("/withdrawals/:id/reject", middleware.HasPermission(models.PermissionWithdrawalsManage), h.RejectWithdrawal)

	adminGroup.Get("/users", middleware.HasPermission(models.PermissionReadAdmin), h.ListUsers)
	adminGroup.Post("/users/:id/ban", middleware.HasPermission(models.PermissionWriteAdmin), h.BanUser)
	adminGroup.Post("/users/:id/unban", middleware.HasPermission(models.PermissionWriteAdmin), h.UnbanUser)

	adminGroup.Get("/transactions", middleware.HasPermission(models.PermissionReadAdmin), h.ListTransactions)
	adminGroup.Get("/dashboard", middleware.HasPermission(models.PermissionReadAdmin), h.Dashboard)
	adminGroup.Post("/tournaments/:id/recalculate", middleware.HasPermission(models.PermissionWriteAdmin), h.RecalculateTournament)
}
