package services

import "errors"

// Service-level failure taxonomy. Handlers map these to HTTP statuses;
// anything else crossing the boundary is a dependency failure and gets a
// generic 500.
var (
	// ErrInvalidInput signals malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyExists signals an email or nickname uniqueness conflict.
	ErrAlreadyExists = errors.New("account already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// deliberately indistinguishable to avoid email enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountLocked signals authentication denied by lockout policy or
	// admin action.
	ErrAccountLocked = errors.New("account is locked")

	// ErrAccountNotVerified signals a login attempt before email
	// verification.
	ErrAccountNotVerified = errors.New("email not verified")

	// ErrInvalidVerification is the uniform outcome for every failed
	// verification redemption: unknown account, wrong token, expired
	// token, and already-consumed token all look the same.
	ErrInvalidVerification = errors.New("invalid or expired verification token")

	// ErrEmailDelivery signals an outbound email hand-off failure where
	// delivery is required, such as an explicit resend request.
	ErrEmailDelivery = errors.New("failed to send email")
)
