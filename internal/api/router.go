package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/blogsphere/blog-api/docs"
	"github.com/blogsphere/blog-api/internal/api/handler"
	"github.com/blogsphere/blog-api/internal/api/middleware"
	"github.com/blogsphere/blog-api/internal/core/domain"
	"github.com/blogsphere/blog-api/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Gate     middleware.Authenticator
	Auth     ports.AuthService
	Accounts ports.AccountService
	Blogs    ports.BlogService
	// Health maps dependency names to readiness probes.
	Health map[string]handler.Pinger

	Logger       zerolog.Logger
	AllowOrigins []string
	// Metrics mounts the Prometheus middleware and /metrics. Tests leave it
	// off so repeated routers do not register collectors twice.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))
	if deps.Metrics {
		e.Use(echoprometheus.NewMiddleware("blog"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Pipeline stages ---
	authenticate := middleware.Authenticate(deps.Gate)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Accounts)
	blogHandler := handler.NewBlogHandler(deps.Blogs)
	healthHandler := handler.NewHealthHandler(deps.Health)

	// --- Users ---
	users := e.Group("/api/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/logout", authHandler.Logout, authenticate)
	users.GET("", userHandler.List, authenticate, adminOnly)
	users.GET("/profile", userHandler.Profile, authenticate)
	users.PUT("/profile/password", userHandler.ChangePassword, authenticate)
	users.GET("/admin", userHandler.AdminProfile, authenticate, adminOnly)

	accountOwner := middleware.OwnerOrAdmin(handler.AccountOwner)
	users.GET("/:userId", userHandler.Get, authenticate, accountOwner)
	users.PATCH("/:userId", userHandler.Update, authenticate, accountOwner)
	users.DELETE("/:userId", userHandler.Delete, authenticate, accountOwner)
	users.POST("/:userId/suspend", userHandler.Suspend, authenticate, adminOnly)
	users.POST("/:userId/unsuspend", userHandler.Unsuspend, authenticate, adminOnly)

	// --- Blogs ---
	blogs := e.Group("/api/blogs")
	blogs.POST("", blogHandler.Create, authenticate)
	blogs.GET("", blogHandler.List)
	blogs.GET("/category", blogHandler.Categories)
	blogs.GET("/:blogId", blogHandler.Get)

	blogAuthor := middleware.OwnerOrAdmin(blogHandler.BlogOwner)
	blogs.PATCH("/:blogId", blogHandler.Update, authenticate, blogAuthor)
	blogs.DELETE("/:blogId", blogHandler.Delete, authenticate, blogAuthor)
	blogs.POST("/:blogId/like", blogHandler.ToggleLike, authenticate)

	// --- Comments ---
	blogs.POST("/:blogId/comments", blogHandler.AddComment, authenticate)
	blogs.GET("/:blogId/comments", blogHandler.ListComments)
	blogs.PATCH("/:blogId/comments/:commentId", blogHandler.UpdateComment,
		authenticate, middleware.OwnerOrAdmin(blogHandler.CommentAuthor))
	blogs.DELETE("/:blogId/comments/:commentId", blogHandler.DeleteComment,
		authenticate, middleware.OwnerOrAdmin(blogHandler.CommentOrBlogAuthor))

	// --- Health probes and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
