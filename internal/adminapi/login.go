package adminapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	pkgerr "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tiprecycle/shopd/internal/shop/identity"
	"github.com/tiprecycle/shopd/internal/webserver"
	"github.com/tiprecycle/shopd/pkg/metrics"
)

const tokenTTL = 12 * time.Hour

type loginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func registerLoginRoutes() {
	webserver.PubPOST("/login", login)
}

// login authenticates the operator and issues the session token. The
// failure message is deliberately identical for every mismatch shape.
func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}

	appCtx := webserver.GetApp(c)
	role, err := appCtx.Identity().Authenticate(c.Request().Context(), payload.Username, payload.Password)
	if err != nil {
		metrics.LoginFailures.Inc()
		if pkgerr.Is(err, identity.ErrInvalidCredentials) {
			return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Login failed", err.Error())
	}

	claims := jwt.MapClaims{
		"username": payload.Username,
		"role":     role,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(appCtx.Config().Web.Secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign session token", err.Error())
	}

	zap.L().Info("operator logged in",
		zap.String("username", payload.Username),
		zap.String("role", role))
	return ok(c, echo.Map{
		"token":    signed,
		"role":     role,
		"username": payload.Username,
	})
}
