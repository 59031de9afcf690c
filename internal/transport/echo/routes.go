package echo

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"rights-service/internal/domain/group"
	"rights-service/internal/rights"
	apperrors "rights-service/pkg/errors"
	"rights-service/pkg/password"
)

const (
	resourceTypeGroup = "group"
	resourceTypeRight = "right"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	s.echo.GET("/ping", s.pingHandler)
	s.echo.POST("/auth/login", s.loginHandler)
	s.echo.GET("/auth/verify", s.verifyHandler)
	s.echo.GET("/check", s.checkHandler, s.authenticate)

	groups := s.echo.Group("/groups", s.authenticate, s.requireRight(resourceTypeGroup))
	groups.GET("", s.listGroupsHandler)
	groups.POST("", s.createGroupHandler)
	groups.DELETE("/:id", s.deleteGroupHandler)

	grants := s.echo.Group("/rights", s.authenticate, s.requireRight(resourceTypeRight))
	grants.GET("/:id", s.getRightHandler)
	grants.POST("", s.createRightHandler)
	grants.DELETE("/:id", s.deleteRightHandler)
}

func (s *Server) pingHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, getSuccessResponse("pong"))
}

type loginRequest struct {
	Pseudo   string `json:"pseudo"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) loginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(apperrors.BadRequest("invalid request body")))
	}

	u, err := s.users.GetByPseudo(c.Request().Context(), req.Pseudo)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, getFailureResponse(apperrors.InvalidCredentials()))
		}
		return c.JSON(http.StatusInternalServerError, getFailureResponse(err))
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return c.JSON(http.StatusUnauthorized, getFailureResponse(apperrors.InvalidCredentials()))
	}

	signed, err := s.tokens.Issue(c.Request().Context(), u)
	if err != nil {
		s.logger.Error().Err(err).Msg("token issuance failed")
		return c.JSON(http.StatusInternalServerError, getFailureResponse(apperrors.InternalServer("token issuance failed", nil)))
	}

	return c.JSON(http.StatusOK, getSuccessResponse(loginResponse{Token: signed}))
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}

func (s *Server) verifyHandler(c echo.Context) error {
	raw, err := bearerToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, getFailureResponse(err))
	}

	valid, err := s.tokens.Validate(c.Request().Context(), raw)
	if err != nil {
		// Only a key-manager fault reaches here; token problems read as
		// valid == false.
		s.logger.Error().Err(err).Msg("token validation unavailable")
		return c.JSON(http.StatusInternalServerError, getFailureResponse(apperrors.InternalServer("token validation unavailable", nil)))
	}

	status := http.StatusOK
	if !valid {
		status = http.StatusUnauthorized
	}
	return c.JSON(status, getSuccessResponse(verifyResponse{Valid: valid}))
}

type checkResponse struct {
	Allowed bool `json:"allowed"`
}

func (s *Server) checkHandler(c echo.Context) error {
	u := currentUser(c)

	method, err := rights.ParseMethod(c.QueryParam("method"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(err))
	}

	resource := rights.GenericResource(c.QueryParam("resource_type"))
	if raw := c.QueryParam("resource_instance"); raw != "" {
		instance, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return c.JSON(http.StatusBadRequest, getFailureResponse(apperrors.BadRequest("invalid resource_instance")))
		}
		resource = rights.SpecificResource(resource.Type, instance)
	}
	if err := resource.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(err))
	}

	err = s.engine.Authorize(c.Request().Context(), rights.UserSubject(u.ID), resource, method)
	if err != nil && !errors.Is(err, rights.ErrDenied) {
		s.logger.Error().Err(err).Msg("authorization check failed")
		return c.JSON(http.StatusInternalServerError, getFailureResponse(apperrors.InternalServer("authorization check failed", nil)))
	}

	return c.JSON(http.StatusOK, getSuccessResponse(checkResponse{Allowed: err == nil}))
}

func (s *Server) listGroupsHandler(c echo.Context) error {
	groups, err := s.groups.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, getFailureResponse(err))
	}

	return c.JSON(http.StatusOK, getSuccessResponse(groups))
}

func (s *Server) createGroupHandler(c echo.Context) error {
	var input group.CreateGroupInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(apperrors.BadRequest("invalid request body")))
	}

	created, err := s.groups.Create(c.Request().Context(), input)
	if err != nil {
		return c.JSON(statusForError(err), getFailureResponse(err))
	}

	return c.JSON(http.StatusCreated, getSuccessResponse(created))
}

func (s *Server) deleteGroupHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(apperrors.BadRequest("invalid group id")))
	}

	if err := s.groups.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(statusForError(err), getFailureResponse(err))
	}

	return c.JSON(http.StatusOK, getSuccessResponse("group deleted"))
}

type createRightRequest struct {
	SubjectKind      string     `json:"subject_kind"`
	SubjectID        uuid.UUID  `json:"subject_id"`
	ResourceType     string     `json:"resource_type"`
	ResourceInstance *uuid.UUID `json:"resource_instance,omitempty"`
	Method           string     `json:"method"`
}

func (s *Server) createRightHandler(c echo.Context) error {
	var req createRightRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(apperrors.BadRequest("invalid request body")))
	}

	var subject rights.Subject
	switch rights.SubjectKind(req.SubjectKind) {
	case rights.SubjectKindGroup:
		subject = rights.GroupSubject(req.SubjectID)
	case rights.SubjectKindUser:
		subject = rights.UserSubject(req.SubjectID)
	default:
		return c.JSON(http.StatusBadRequest, getFailureResponse(rights.ErrInvalidSubject))
	}

	resource := rights.GenericResource(req.ResourceType)
	if req.ResourceInstance != nil {
		resource = rights.SpecificResource(req.ResourceType, *req.ResourceInstance)
	}

	created, err := s.rights.Create(c.Request().Context(), rights.CreateRightInput{
		Subject:  subject,
		Resource: resource,
		Method:   rights.Method(req.Method),
	})
	if err != nil {
		return c.JSON(statusForError(err), getFailureResponse(err))
	}

	return c.JSON(http.StatusCreated, getSuccessResponse(created))
}

func (s *Server) getRightHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(apperrors.BadRequest("invalid right id")))
	}

	right, err := s.rights.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(statusForError(err), getFailureResponse(err))
	}

	return c.JSON(http.StatusOK, getSuccessResponse(right))
}

func (s *Server) deleteRightHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, getFailureResponse(apperrors.BadRequest("invalid right id")))
	}

	if err := s.rights.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(statusForError(err), getFailureResponse(err))
	}

	return c.JSON(http.StatusOK, getSuccessResponse("right deleted"))
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, rights.ErrInvalidSubject),
		errors.Is(err, rights.ErrInvalidResource),
		errors.Is(err, rights.ErrInvalidMethod):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
