package httpapi

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/antonvlsk/verimail/internal/common"
	"github.com/labstack/echo/v4"
)

const minPasswordLen = 8

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type emailRequest struct {
	Email string `json:"email"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type accountResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

func validEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func (s *Server) sendVerificationEmail(c echo.Context) error {
	req := new(emailRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	if !validEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid email format"})
	}

	err := s.accounts.RequestVerification(c.Request().Context(), req.Email)
	switch {
	case err == nil:
		return c.JSON(http.StatusAccepted, messageResponse{Message: "verification email sent"})
	case errors.Is(err, common.ErrAlreadyRegistered):
		return c.JSON(http.StatusConflict, errorResponse{Error: "email already registered"})
	case errors.Is(err, common.ErrDispatchFailed):
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "could not send verification email"})
	default:
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "service unavailable"})
	}
}

func (s *Server) verifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "token required"})
	}

	err := s.accounts.RedeemToken(c.Request().Context(), token)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, messageResponse{Message: "email verified"})
	case errors.Is(err, common.ErrTokenExpired):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "verification link expired"})
	case errors.Is(err, common.ErrTokenAlreadyUsed):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "verification link already used"})
	case errors.Is(err, common.ErrInvalidToken):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid verification link"})
	default:
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "service unavailable"})
	}
}

func (s *Server) register(c echo.Context) error {
	req := new(credentialsRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	if !validEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid email format"})
	}
	if len(req.Password) < minPasswordLen {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "password too short"})
	}

	err := s.accounts.CompleteRegistration(c.Request().Context(), req.Email, req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, messageResponse{Message: "registration complete"})
	case errors.Is(err, common.ErrNotVerified):
		return c.JSON(http.StatusForbidden, errorResponse{Error: "email not verified"})
	default:
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "service unavailable"})
	}
}

func (s *Server) login(c echo.Context) error {
	req := new(credentialsRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}

	token, err := s.accounts.Authenticate(c.Request().Context(), req.Email, req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, loginResponse{AccessToken: token})
	case errors.Is(err, common.ErrNotVerified):
		return c.JSON(http.StatusForbidden, errorResponse{Error: "email not verified"})
	case errors.Is(err, common.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "service unavailable"})
	default:
		// Unknown account, wrong password, and unreadable stored credential
		// all collapse into one response to prevent account enumeration.
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	}
}

func (s *Server) me(c echo.Context) error {
	accountID := accountIDFromContext(c)

	account, err := s.accounts.GetAccount(c.Request().Context(), accountID)
	if err != nil {
		if errors.Is(err, common.ErrUnknownAccount) {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unknown account"})
		}
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "service unavailable"})
	}

	return c.JSON(http.StatusOK, accountResponse{
		ID:       account.ID,
		Email:    account.Email,
		Verified: account.Verified,
	})
}
