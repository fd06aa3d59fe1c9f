package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/RTHeLL/mg-test/internal/common"
	"github.com/RTHeLL/mg-test/internal/server/auth"
	"github.com/RTHeLL/mg-test/internal/server/models"
	"github.com/RTHeLL/mg-test/internal/server/services"
)

type signUpRequest struct {
	Email                string `json:"email"`
	PhoneNumber          string `json:"phoneNumber"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
	FirstName            string `json:"firstName"`
	LastName             string `json:"lastName"`
}

type signInRequest struct {
	EmailOrPhone string `json:"emailOrPhone"`
	Password     string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type userResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	IsActive    bool   `json:"isActive"`
	IsAdmin     bool   `json:"isAdmin"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		IsAdmin:     u.IsAdmin,
	}
}

func (req *signUpRequest) validate() error {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errors.New("invalid email")
	}
	if err := validatePhoneNumber(req.PhoneNumber); err != nil {
		return err
	}
	if err := validatePasswordPair(req.Password, req.PasswordConfirmation); err != nil {
		return err
	}
	return nil
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.sessions.SignUp(r.Context(), services.SignUpData{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	allowed, _ := s.limiter.Allow(r.Context(), "signin:"+clientIP(r))
	if !allowed {
		s.writeError(w, r, http.StatusTooManyRequests, "too many sign-in attempts")
		return
	}

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EmailOrPhone == "" || req.Password == "" {
		s.writeError(w, r, http.StatusBadRequest, "emailOrPhone and password are required")
		return
	}

	pair, err := s.sessions.SignIn(r.Context(), req.EmailOrPhone, req.Password, userAgentFrom(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.setRefreshCookie(w, pair.RefreshToken)
	s.writeJSON(w, http.StatusCreated, tokenResponse{AccessToken: pair.AccessToken})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := refreshTokenFromRequest(r)
	if refreshToken == "" {
		s.writeError(w, r, http.StatusUnauthorized, "missing refresh token")
		return
	}

	pair, err := s.sessions.Refresh(r.Context(), refreshToken, userAgentFrom(r))
	if err != nil {
		s.clearRefreshCookie(w)
		s.writeServiceError(w, r, err)
		return
	}

	s.setRefreshCookie(w, pair.RefreshToken)
	s.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if refreshToken := refreshTokenFromRequest(r); refreshToken != "" {
		if err := s.sessions.Logout(r.Context(), refreshToken); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}

	s.clearRefreshCookie(w)
	s.writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := s.users.DeleteUser(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps service sentinels to HTTP statuses. Anything
// unrecognized is a 500 with a generic body; internals never leak.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorEmailExists),
		errors.Is(err, common.ErrorPhoneExists),
		errors.Is(err, common.ErrorValidation):
		s.writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorInvalidCredentials),
		errors.Is(err, common.ErrorInvalidToken),
		errors.Is(err, common.ErrorSessionNotFound),
		errors.Is(err, common.ErrorSessionExpired),
		errors.Is(err, common.ErrorUnauthorized):
		s.writeError(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, common.ErrorForbidden):
		s.writeError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		s.writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrorTooManyRequests):
		s.writeError(w, r, http.StatusTooManyRequests, err.Error())
	default:
		s.writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func validatePhoneNumber(phone string) error {
	if len(phone) < 11 || len(phone) > 16 || phone[0] != '+' {
		return errors.New("phone number must be in international format, e.g. +375291234567")
	}
	for _, ch := range phone[1:] {
		if ch < '0' || ch > '9' {
			return errors.New("phone number must contain only digits after '+'")
		}
	}
	return nil
}

func validatePasswordPair(password, confirmation string) error {
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return err
	}
	if password != confirmation {
		return errors.New("passwords do not match")
	}
	return nil
}
