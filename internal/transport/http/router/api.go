package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"homework-sync-api/internal/core/auth"
	"homework-sync-api/internal/feature/assignment"
	"homework-sync-api/internal/feature/user"
	"homework-sync-api/internal/identity"
	"homework-sync-api/internal/transport/http/handler"
	mdw "homework-sync-api/internal/transport/http/middleware"
)

type Deps struct {
	Log      *zap.Logger
	DB       *gorm.DB
	JWTer    *auth.JWTer
	Verifier identity.TokenVerifier

	// 可选：客户端静态资源目录
	StaticDir string
}

// NewAPIEngine assembles the full engine: middleware stack, health and
// metrics endpoints, public auth routes and the authenticated
// assignment API under /api/v1.
func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(4<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if d.StaticDir != "" {
		r.Static("/app", d.StaticDir)
	}

	users := user.NewRepo(d.DB)
	resolver := identity.NewUserResolver(users)
	svc := assignment.NewService(assignment.NewRepo(d.DB))

	authH := handler.NewAuthHandler(d.Verifier, resolver, users, d.JWTer, d.Log)
	assignH := handler.NewAssignmentHandler(svc, d.Log)

	api := r.Group("/api/v1")
	authH.MountPublic(api)

	authed := api.Group("")
	authed.Use(mdw.Authenticate(d.JWTer, d.Verifier, resolver))
	authH.MountAuthed(authed)
	assignH.Mount(authed)

	return r
}
