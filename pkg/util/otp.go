package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// OTPLength is the number of characters in every one-time code.
const OTPLength = 6

const otpHashCost = bcrypt.DefaultCost

// GenerateVerificationCode generates a random 6-digit code
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashVerificationCode hashes a code before it is put in shared storage.
func HashVerificationCode(code string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), otpHashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyVerificationCode checks code against a hash from HashVerificationCode.
func VerifyVerificationCode(hashed, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(code)) == nil
}

// HasOTPLength reports whether code is exactly six characters long, whatever they are.
func HasOTPLength(code string) bool {
	return utf8.RuneCountInString(code) == OTPLength
}
