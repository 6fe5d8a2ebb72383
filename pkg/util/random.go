package util

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateOrderNumber returns "CLZ" followed by the last 8 digits of the millisecond clock.
func GenerateOrderNumber(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "CLZ" + ms
}

// RandomString returns n characters drawn from [a-z0-9].
func RandomString(n int) (string, error) {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(alphanumeric)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphanumeric[idx.Int64()]
	}
	return string(buf), nil
}
