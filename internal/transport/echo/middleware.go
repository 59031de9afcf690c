package echo

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"rights-service/internal/domain/user"
	"rights-service/internal/rights"
	"rights-service/internal/token"
	apperrors "rights-service/pkg/errors"
)

const contextKeyUser = "current_user"

// authenticate validates the bearer token and resolves the user named by
// the issuer claim into the request context.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := bearerToken(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, getFailureResponse(err))
		}

		claims, err := s.tokens.Verify(c.Request().Context(), raw)
		if err != nil {
			if errors.Is(err, token.ErrKeyUnavailable) {
				s.logger.Error().Err(err).Msg("signing key unavailable")
				return c.JSON(http.StatusInternalServerError, getFailureResponse(apperrors.InternalServer("token verification unavailable", nil)))
			}
			return c.JSON(http.StatusUnauthorized, getFailureResponse(apperrors.Unauthorized("invalid token")))
		}

		u, err := s.users.GetByPseudo(c.Request().Context(), claims.Issuer)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, getFailureResponse(apperrors.Unauthorized("unknown token issuer")))
			}
			return c.JSON(http.StatusInternalServerError, getFailureResponse(err))
		}

		c.Set(contextKeyUser, u)
		return next(c)
	}
}

// requireRight enforces that the authenticated user holds the right for
// the request's HTTP verb on the named resource type. A path :id narrows
// the check to that specific instance; the engine falls back to the
// type-wide grant.
func (s *Server) requireRight(resourceType string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := currentUser(c)
			if u == nil {
				return c.JSON(http.StatusUnauthorized, getFailureResponse(apperrors.Unauthorized("authentication required")))
			}

			method, err := rights.ParseMethod(c.Request().Method)
			if err != nil {
				return c.JSON(http.StatusForbidden, getFailureResponse(err))
			}

			resource := rights.GenericResource(resourceType)
			if id := c.Param("id"); id != "" {
				if instance, parseErr := uuid.Parse(id); parseErr == nil {
					resource = rights.SpecificResource(resourceType, instance)
				}
			}

			if err := s.engine.Authorize(c.Request().Context(), rights.UserSubject(u.ID), resource, method); err != nil {
				if errors.Is(err, rights.ErrDenied) {
					return c.JSON(http.StatusForbidden, getFailureResponse(err))
				}
				s.logger.Error().Err(err).Msg("authorization check failed")
				return c.JSON(http.StatusInternalServerError, getFailureResponse(apperrors.InternalServer("authorization check failed", nil)))
			}

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", apperrors.Unauthorized("missing authorization header")
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", apperrors.Unauthorized("authorization header must use the Bearer scheme")
	}

	return strings.TrimPrefix(header, prefix), nil
}

func currentUser(c echo.Context) *user.User {
	u, _ := c.Get(contextKeyUser).(*user.User)
	return u
}
