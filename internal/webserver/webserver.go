// Package webserver owns the echo instance. Route registration happens
// through the package-level Api*/Pub* helpers so the adminapi package
// can declare its endpoints next to its handlers.
package webserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tiprecycle/shopd/internal/app"
)

// AppContextKey is where the request middleware stores the application
// context for handlers.
const AppContextKey = "shopd_app"

var server *WebServer

type WebServer struct {
	appCtx app.AppContext
	root   *echo.Echo
	pub    *echo.Group
	api    *echo.Group
}

// Init builds the package singleton. Must run before any adminapi
// route registration.
func Init(appCtx app.AppContext) *WebServer {
	server = &WebServer{appCtx: appCtx, root: echo.New()}
	server.setup()
	return server
}

func (s *WebServer) setup() {
	s.root.HideBanner = true
	s.root.Pre(middleware.RemoveTrailingSlash())
	s.root.Use(middleware.Recover())
	s.root.Use(MetricsMiddleware)
	s.root.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, s.appCtx)
			return next(c)
		}
	})

	s.root.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.root.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.pub = s.root.Group("/auth")
	s.api = s.root.Group("/api", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(s.appCtx.Config().Web.Secret),
	}))
}

func (s *WebServer) Start() error {
	cfg := s.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("starting web server", zap.String("listen", addr))
	return s.root.Start(addr)
}

func (s *WebServer) Stop(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}

// Echo exposes the underlying instance for tests.
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// PubPOST registers an unauthenticated route under /auth.
func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

// ApiGET registers a JWT-protected route under /api.
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

// GetApp retrieves the application context stored by the middleware.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(AppContextKey).(app.AppContext)
}

// OperatorUsername reads the username claim of the authenticated
// operator, empty when the route is unauthenticated.
func OperatorUsername(c echo.Context) string {
	return tokenClaim(c, "username")
}

// OperatorRole reads the role claim of the authenticated operator.
func OperatorRole(c echo.Context) string {
	return tokenClaim(c, "role")
}

func tokenClaim(c echo.Context, name string) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	v, _ := claims[name].(string)
	return v
}
