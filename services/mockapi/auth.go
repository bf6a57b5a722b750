package mockapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"

	"github.com/shuleplus/ukaguzi/core"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errTokenExpired         = echo.NewHTTPError(http.StatusUnauthorized, "Token expired")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "invalid credentials")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHTTPNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")

	nowFunc = time.Now // mockable
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	TokenType    string `json:"type"`
	Username     string `json:"username,omitempty"`
	Email        string `json:"email,omitempty"`
}

func newClaims(tokenType, id, username, email string, delta time.Duration, origIat int64) *Claims {
	now := nowFunc()
	if origIat == 0 {
		origIat = now.Unix()
	}
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   id,
			Audience:  "Academia",
			ExpiresAt: now.Add(delta).Unix(),
			IssuedAt:  now.Unix(),
		},
		OrigIssuedAt: origIat,
		TokenType:    tokenType,
		Username:     username,
		Email:        email,
	}
}

// generateTokens issues a signed access/refresh pair for an admin. origIat
// carries the first login's timestamp across refreshes; refreshing cannot
// extend a session past the refresh delta counted from it.
func generateTokens(id, username, email string, origIat ...int64) (access, refresh string, err error) {
	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	}
	access, err = signToken(newClaims(tokenTypeAccess, id, username, email, core.Conf.Server.JWTExpirationDelta, oriat))
	if err != nil {
		return "", "", err
	}
	refresh, err = signToken(newClaims(tokenTypeRefresh, id, username, email, core.Conf.Server.JWTRefreshExpirationDelta, oriat))
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func signToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(core.Conf.SecretKey))
}

func parseToken(raw, wantType string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(core.Conf.SecretKey), nil
	})
	if err != nil {
		if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, errTokenExpired
		}
		return nil, errUnauthorized
	}
	if claims.TokenType != wantType {
		return nil, errUnauthorized
	}
	return claims, nil
}

// jwtMiddleware guards the data endpoints with the access token. An
// expired token yields the exact message the client's refresh hook keys on.
func jwtMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return errUnauthorized
			}
			claims, err := parseToken(strings.TrimPrefix(header, "Bearer "), tokenTypeAccess)
			if err != nil {
				return err
			}
			ctx.Set("claims", claims)
			return next(ctx)
		}
	}
}
