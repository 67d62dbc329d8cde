package usecase

import "github.com/shandysiswandi/gootp/internal/pkg/goerror"

var (
	ErrAccountExists      = goerror.NewBusiness("User already exists with this email", goerror.CodeConflict)
	ErrDeliveryFailed     = goerror.NewBusiness("Failed to send OTP email. Please try again.", goerror.CodeInternal)
	ErrAccountNotFound    = goerror.NewBusiness("User not found", goerror.CodeNotFound)
	ErrAlreadyVerified    = goerror.NewBusiness("Account is already verified", goerror.CodeInvalidInput)
	ErrNoPendingOTP       = goerror.NewBusiness("No OTP found. Please request a new one.", goerror.CodeInvalidInput)
	ErrOTPExpired         = goerror.NewBusiness("OTP has expired. Please request a new one.", goerror.CodeInvalidInput)
	ErrInvalidOTP         = goerror.NewBusiness("Invalid OTP", goerror.CodeInvalidInput)
	ErrInvalidCredentials = goerror.NewBusiness("Invalid credentials", goerror.CodeUnauthorized)
	ErrNotVerified        = goerror.NewBusiness("Please verify your account first", goerror.CodeForbidden)
)
