package devserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/cineai/cineai-go/internal/core/domain"
	"github.com/cineai/cineai-go/internal/devserver/repository"
)

// Register creates a new user account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/register [post]
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	acc, err := s.accounts.Create(c.Request().Context(), &repository.Account{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		LastLogin:    now,
	})
	if err != nil {
		return err
	}

	token, err := s.mintToken(acc)
	if err != nil {
		return err
	}

	s.log.Info().Str("email", acc.Email).Msg("account registered")
	return c.JSON(http.StatusCreated, authResponse{
		Message: "account created",
		User:    acc.User(),
		Token:   token,
	})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	acc, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)) != nil {
		return domain.ErrInvalidCredentials
	}

	acc.LastLogin = time.Now().UTC()
	if acc, err = s.accounts.Update(ctx, acc); err != nil {
		return err
	}

	token, err := s.mintToken(acc)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Message: "signed in",
		User:    acc.User(),
		Token:   token,
	})
}

// Logout exists for API parity; bearer sessions are stateless server-side.
//
// @Summary      Logout
// @Tags         auth
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (s *Server) handleLogout(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "signed out"})
}

// Me returns the profile the presented token belongs to.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/me [get]
func (s *Server) handleMe(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	acc, err := s.accounts.FindByID(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: acc.User()})
}

// UpdateProfile applies a partial profile update and returns the canonical
// stored profile.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  userResponse
// @Router       /api/auth/profile [put]
func (s *Server) handleUpdateProfile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	ctx := c.Request().Context()
	acc, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if req.Name != nil {
		acc.Name = *req.Name
	}
	if req.Bio != nil {
		acc.Bio = *req.Bio
	}

	if acc, err = s.accounts.Update(ctx, acc); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: acc.User()})
}

// ChangePassword rotates the account password. A wrong current password is
// a 400, not a 401: the presented token is still valid.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "Passwords"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/change-password [post]
func (s *Server) handleChangePassword(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	acc, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	acc.PasswordHash = string(hash)

	if _, err := s.accounts.Update(ctx, acc); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password changed"})
}

// mintToken issues an HS256 JWT for the account.
func (s *Server) mintToken(acc *repository.Account) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  acc.ID,
		"email":    acc.Email,
		"is_admin": acc.IsAdmin,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
