package inbound

import (
	"net/http"

	"github.com/shandysiswandi/gootp/internal/identity/usecase"
	"github.com/shandysiswandi/gootp/internal/pkg/router"
)

// HTTPEndpoint exposes the signup, OTP verification and login handlers.
type HTTPEndpoint struct {
	uc     uc
	cookie CookieConfig
}

// Signup creates a pending account and emails its OTP.
// @Summary Register account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup payload"
// @Success 201 {object} router.successResponse{data=SignupResponse}
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 409 {object} router.errorResponse "Account exists"
// @Failure 500 {object} router.errorResponse "OTP delivery failed"
// @Router /api/auth/signup [post]
func (h *HTTPEndpoint) Signup(r *router.Request) (any, error) {
	var req SignupRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Signup(r.Context(), usecase.SignupInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return SignupResponse{Email: resp.Email, IsVerified: resp.IsVerified}, nil
}

// VerifyOTP activates a pending account.
// @Summary Verify OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Verification payload"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse}
// @Failure 400 {object} router.errorResponse "Invalid, expired or missing OTP"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Router /api/auth/verify-otp [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Email: req.Email,
		OTP:   req.OTP,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{Email: resp.Email, IsVerified: resp.IsVerified}, nil
}

// Login issues a session token for a verified account.
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} router.successResponse{data=LoginResponse}
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 403 {object} router.errorResponse "Account not verified"
// @Router /api/auth/login [post]
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		User: LoginUser{
			ID:         formatID(resp.UserID),
			Email:      resp.Email,
			IsVerified: resp.IsVerified,
		},
		Token: resp.Token,
		cookie: &http.Cookie{
			Name:     h.cookie.Name,
			Value:    resp.Token,
			Path:     "/",
			MaxAge:   int(h.cookie.MaxAge.Seconds()),
			HttpOnly: true,
			Secure:   h.cookie.Secure,
			SameSite: http.SameSiteStrictMode,
		},
	}, nil
}
