package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/task-manager-api/internal/interface/http"
	"github.com/oksasatya/task-manager-api/internal/interface/middleware"
)

// UserModule wires account routes.
// Public: POST /users, POST /users/login, GET /users/:id/avatar
// Protected: everything under /users/me plus logout and logoutAll
type UserModule struct {
	Users   *handlers.UserHandler
	Avatars *handlers.AvatarHandler
	Auth    gin.HandlerFunc
	Limits  Limits
}

// Limits configures the Redis fixed-window limiters. A nil RDB disables them.
type Limits struct {
	RDB           *redis.Client
	PerMinute     int // per user on protected routes
	AuthPerMinute int // per IP on register and login
}

func (l Limits) public() gin.HandlerFunc {
	return middleware.RateLimit(l.RDB, l.AuthPerMinute, time.Minute, middleware.KeyByIPAndPath(), nil)
}

func (l Limits) perUser() gin.HandlerFunc {
	return middleware.RateLimit(l.RDB, l.PerMinute, time.Minute, middleware.KeyByUserID(), nil)
}

func NewUserModule(users *handlers.UserHandler, avatars *handlers.AvatarHandler, auth gin.HandlerFunc, limits Limits) *UserModule {
	return &UserModule{Users: users, Avatars: avatars, Auth: auth, Limits: limits}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	authLimiter := m.Limits.public()
	rg.POST("/users", authLimiter, m.Users.Register)
	rg.POST("/users/login", authLimiter, m.Users.Login)
	rg.GET("/users/:id/avatar", m.Avatars.Get)

	auth := rg.Group("/users")
	auth.Use(m.Auth, m.Limits.perUser())
	{
		auth.POST("/logout", m.Users.Logout)
		auth.POST("/logoutAll", m.Users.LogoutAll)
		auth.GET("/me", m.Users.Me)
		auth.PATCH("/me", m.Users.UpdateMe)
		auth.DELETE("/me", m.Users.DeleteMe)
		auth.POST("/me/avatar", m.Avatars.Upload)
		auth.DELETE("/me/avatar", m.Avatars.Delete)
	}
}
