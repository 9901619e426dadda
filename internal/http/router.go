package api

import (
	"log"
	stdhttp "net/http"

	intconfig "busline/internal/config"
	h "busline/internal/http/handlers"
	"busline/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	hs := h.New(env)
	auth := middleware.RequireAuth(env.JWTSecret)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		authGroup := api.Group("/auth")
		authGroup.POST("/login", hs.Login)
		authGroup.POST("/register", hs.Register)

		// Bookings & ticket artifacts
		bookings := api.Group("/bookings", auth)
		bookings.POST("", hs.CreateBooking)
		bookings.GET("/:id", hs.GetBooking)
		bookings.POST("/:id/ticket", hs.IssueTicket)
		bookings.GET("/:id/ticket", hs.GetTicket)
		bookings.GET("/:id/ticket/qr", hs.GetTicketQR)
		bookings.GET("/:id/e-ticket", hs.GetETicketPDF)

		// Boarding validation (conductor terminals)
		tickets := api.Group("/tickets", auth, middleware.RequireRole("conductor", "operator", "admin"))
		tickets.POST("/validate", hs.ValidateTicket)

		// Payment processing (operators)
		payments := api.Group("/payments", auth, middleware.RequireRole("operator", "admin"))
		payments.POST("/:bookingId/process", hs.ProcessPayment)

		// Scan audit
		verifications := api.Group("/verifications", auth, middleware.RequireRole("conductor", "operator", "admin"))
		verifications.GET("/:bookingId", hs.GetVerification)
	}

	h.SetRouter(r)
	return r
}
