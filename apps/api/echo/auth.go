package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/univxyz/transkrip/core"
	"github.com/univxyz/transkrip/core/staff"
)

var errClaimsNotFoundInCtx = errors.New("staff claims not found in echo.Context")

// Claims identify the authenticated registrar staff. The username becomes
// the actor on grade audit entries.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username"`
	Name     string `json:"name"`
}

func GetStaffClaims(stf staff.Staff, conf *core.Config) Claims {
	now := time.Now()
	return Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   stf.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(conf.JWTExpirationDelta).Unix(),
		},
		Username: stf.Username,
		Name:     stf.Name,
	}
}

func GenerateToken(claims Claims, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// getContextClaims extracts the JWT claims set by the auth middleware.
func getContextClaims(ctx echo.Context) (*Claims, error) {
	if token, ok := ctx.Get("user").(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return claims, nil
		}
	}
	return nil, errClaimsNotFoundInCtx
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	authApi struct {
		svc      *staff.Service
		conf     *core.Config
		validate *validator.Validate
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username)
	return validate.Struct(lr)
}

func registerAuthAPI(g *echo.Group, svc *staff.Service, conf *core.Config, validate *validator.Validate) {
	api := authApi{svc: svc, conf: conf, validate: validate}
	g.POST("/auth/login", api.login)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	stf, err := api.svc.Authenticate(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		if errors.Cause(err) == staff.ErrNotFound {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating")
	}

	token, err := GenerateToken(GetStaffClaims(stf, api.conf), api.conf.SecretKey)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}
