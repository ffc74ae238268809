package server

import (
	"context"
	"net/http"
	"time"

	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/account"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/auth"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/config"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/email"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/integration"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/validity"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())

	accountService := account.NewService(
		account.NewRepository(db),
		emailService,
		cfg.JWTSecret,
		cfg.MigrateLegacyPasswords,
	)
	accountHandler := account.NewHandler(accountService)

	validityService := validity.NewService(validity.NewRepository(db))
	validityHandler := validity.NewHandler(validityService)

	walletService := wallet.NewService(
		wallet.NewRepository(db),
		validityService,
		accountService,
		emailService,
	)
	walletHandler := wallet.NewHandler(walletService)

	integrationHandler := integration.NewHandler(integration.NewRepository(db))

	// Credential endpoints are the only ones worth brute-forcing, so the
	// limiter sits on this group alone.
	public := router.Group("/api/auth")
	public.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		public.POST("/register", accountHandler.Register)
		public.POST("/login", accountHandler.Login)
		public.POST("/admin/login", accountHandler.AdminLogin)
		public.POST("/refresh", accountHandler.Refresh)
		public.POST("/forgot-password", accountHandler.ForgotPassword)
		public.POST("/reset-password", accountHandler.ResetPassword)
	}

	authMiddleware := auth.Middleware(cfg.JWTSecret)
	protected := router.Group("/api")
	protected.Use(authMiddleware)
	{
		protected.GET("/auth/verify", accountHandler.Verify)
		protected.POST("/auth/change-password", accountHandler.ChangePassword)

		protected.GET("/profile", accountHandler.GetProfile)
		protected.PUT("/profile", accountHandler.UpdateProfile)
		protected.POST("/profile/onboarding", accountHandler.AdvanceOnboarding)

		protected.GET("/wallet", walletHandler.GetWallet)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)

		protected.GET("/validity", validityHandler.Get)
		protected.GET("/validity/history", validityHandler.GetHistory)

		protected.GET("/integrations", integrationHandler.List)
		protected.GET("/integrations/:channel", integrationHandler.Get)
		protected.PUT("/integrations/:channel", integrationHandler.Upsert)
	}

	admin := router.Group("/api/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/resellers/:id/wallet/credit", walletHandler.Credit)
		admin.POST("/resellers/:id/wallet/debit", walletHandler.Debit)
		admin.POST("/resellers/:id/validity/reset", validityHandler.AdminReset)
		admin.POST("/resellers/:id/verify", accountHandler.SetVerification)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
