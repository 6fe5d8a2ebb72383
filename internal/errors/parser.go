package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is the code/message pair sent to clients.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a storage or driver error into a client-safe code and message.
// context names the operation ("create address", "load order") and picks the wording.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	errLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if IsDuplicateKey(err) {
		return parseDuplicateKeyError(errLower)
	}

	// postgres 23503
	if strings.Contains(errLower, "foreign key constraint") {
		if strings.Contains(errLower, "still referenced") {
			return ErrorInfo{Code: ResourceConflict, Message: "This record is still in use and cannot be removed"}
		}
		return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record does not exist"}
	}

	// postgres 23502 / sqlite NOT NULL
	if strings.Contains(errLower, "not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    NetworkError,
			Message: "A backing service is unreachable. Please try again shortly",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

// IsDuplicateKey reports whether err is a unique violation (postgres 23505, sqlite UNIQUE).
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errLower := strings.ToLower(err.Error())
	return strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint")
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This email is already registered"}
	case strings.Contains(errLower, "order_number"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This order was already recorded"}
	case strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists. Please try again"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists"}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "address"):
		return "Address not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "profile"):
		return "Profile not found"
	case strings.Contains(contextLower, "cart"):
		return "Cart item not found"
	case strings.Contains(contextLower, "identity") || strings.Contains(contextLower, "user"):
		return "Account not found"
	}
	return "The requested record was not found"
}

func defaultMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "create"):
		return "Could not save. Please try again"
	case strings.Contains(contextLower, "update"):
		return "Could not update. Please try again"
	case strings.Contains(contextLower, "delete"):
		return "Could not delete. Please try again"
	}
	return "Something went wrong. Please try again"
}

// ParseAndRespond parses err and writes it with the given status.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
