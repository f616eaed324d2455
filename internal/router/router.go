package router

import (
	"time"

	"commflock/internal/config"
	"commflock/internal/handler"
	"commflock/internal/middleware"
	"commflock/internal/pkg"
	"commflock/internal/repository/mysql"
	redisrepo "commflock/internal/repository/redis"
	"commflock/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func InitRouter(cfg *config.Config) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog())

	db := mysql.DB
	tokens := &redisrepo.UserRepository{}
	limiter := &redisrepo.RateLimiter{}

	smtp := pkg.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}

	user := handler.NewUserHandler(service.NewUserService(db, tokens, smtp, cfg.BaseURL))
	community := handler.NewCommunityHandler(service.NewCommunityService(db))
	member := handler.NewMemberHandler(service.NewMemberService(db))
	event := handler.NewEventHandler(service.NewEventService(db))
	poll := handler.NewPollHandler(service.NewPollService(db))
	announcement := handler.NewAnnouncementHandler(service.NewAnnouncementService(db))
	badge := handler.NewBadgeHandler(service.NewBadgeService(db))
	payment := handler.NewPaymentHandler(service.NewPaymentService(db))

	auth := middleware.AuthMiddleware(tokens)
	strictLimit := middleware.RateLimit(limiter, middleware.ScopeStrict, 3, time.Hour)
	authLimit := middleware.RateLimit(limiter, middleware.ScopeAuth, 5, 10*time.Minute)
	apiLimit := middleware.RateLimit(limiter, middleware.ScopeAPI, 100, time.Minute)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", strictLimit, user.SignUp)
		authGroup.POST("/signin", authLimit, user.Login)
		authGroup.POST("/forgot-password", strictLimit, user.ForgotPassword)
		authGroup.POST("/reset-password", authLimit, user.ResetPassword)
		authGroup.POST("/logout", auth, user.Logout)
		authGroup.POST("/change-password", auth, user.ChangePassword)
	}

	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.Refresh)
	}

	profileGroup := r.Group("/api/profile", auth, apiLimit)
	{
		profileGroup.PATCH("", user.UpdateProfile)
	}

	communityGroup := r.Group("/api/communities")
	{
		communityGroup.GET("", community.List)
		communityGroup.GET("/:slug", community.Get)
		communityGroup.GET("/:slug/events", event.List)
		communityGroup.GET("/:slug/events/:eventId", event.Get)
		communityGroup.GET("/:slug/polls", poll.List)
		communityGroup.GET("/:slug/polls/:pollId", poll.Get)
		communityGroup.GET("/:slug/polls/:pollId/tally", poll.Tally)
		communityGroup.GET("/:slug/announcements", announcement.List)
		communityGroup.GET("/:slug/badges", badge.List)
	}

	authed := r.Group("/api/communities", auth, apiLimit)
	{
		authed.POST("", community.Create)
		authed.PATCH("/:slug", community.Update)
		authed.POST("/:slug/join", member.Join)
		authed.GET("/:slug/membership", member.Membership)
		authed.GET("/:slug/members", member.List)
		authed.PATCH("/:slug/members/:userId", member.Moderate)
		authed.POST("/:slug/events", event.Create)
		authed.GET("/:slug/events/:eventId/registrations", event.Registrations)
		authed.PATCH("/:slug/events/:eventId/status", event.SetStatus)
		authed.POST("/:slug/events/:eventId/register", event.Register)
		authed.POST("/:slug/polls", poll.Create)
		authed.POST("/:slug/polls/:pollId/vote", poll.Vote)
		authed.POST("/:slug/announcements", announcement.Create)
		authed.POST("/:slug/badges", badge.Create)
	}

	paymentGroup := r.Group("/api/payments", auth, apiLimit)
	{
		paymentGroup.POST("/simulate", payment.Simulate)
		paymentGroup.GET("", payment.History)
	}

	return r
}
