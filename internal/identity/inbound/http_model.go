package inbound

import (
	"net/http"
	"strconv"
)

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AccountResponse struct {
	Email      string `json:"email"`
	IsVerified bool   `json:"isVerified"`
}

type SignupResponse AccountResponse

func (SignupResponse) StatusCode() int { return http.StatusCreated }

func (SignupResponse) Message() string {
	return "User registered successfully. OTP sent to email."
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type VerifyOTPResponse AccountResponse

func (VerifyOTPResponse) Message() string { return "Account verified successfully" }

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	IsVerified bool   `json:"isVerified"`
}

type LoginResponse struct {
	User  LoginUser `json:"user"`
	Token string    `json:"token"`

	cookie *http.Cookie
}

func (LoginResponse) Message() string { return "Login successful" }

func (l LoginResponse) Cookies() []*http.Cookie {
	if l.cookie == nil {
		return nil
	}
	return []*http.Cookie{l.cookie}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
