package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	// ErrInvalidCode is the AuthError of the login flow: wrong or expired one-time code.
	ErrInvalidCode = errors.New("invalid or expired code")
	// ErrNetwork wraps failures talking to a backend or processor.
	ErrNetwork            = errors.New("network error")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrPaymentUnavailable = errors.New("card payments are not configured")

	ErrFlowNotFound        = errors.New("login flow not found")
	ErrInvalidTransition   = errors.New("transition not allowed from current step")
	ErrSessionExpired      = errors.New("session expired")
	ErrSessionRevoked      = errors.New("session revoked")
	ErrUnauthorizedAccess  = errors.New("unauthorized access")
	ErrAddressNotFound     = errors.New("address not found")
	ErrCheckoutNotFound    = errors.New("checkout not found")
	ErrStepPrecondition    = errors.New("current step is incomplete")
	ErrInvalidDeliveryType = errors.New("unknown delivery type")
	ErrOrderNotFound       = errors.New("order not found")
	ErrCartLineNotFound    = errors.New("cart line not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrStoreNotFound       = errors.New("store not found")
	ErrDemoUnsupported     = errors.New("not available for demo accounts")
	ErrInvalidFileType     = errors.New("unsupported file type")
)

// ErrInvalidCheckoutStep is the wizard's flavour of ErrInvalidTransition.
var ErrInvalidCheckoutStep = fmt.Errorf("checkout: %w", ErrInvalidTransition)

// ValidationError lists every required field that was missing or malformed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// CooldownError is returned by resend while the cooldown is still running.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("resend available in %ds", e.Seconds())
}

// Seconds rounds the remaining cooldown up so clients never see 0 while blocked.
func (e *CooldownError) Seconds() int {
	return int((e.Remaining + time.Second - 1) / time.Second)
}
