package utils

import (
	"fmt"
	"math/rand"
	"strconv"
)

// GenerateOrderCode creates a short code a customer can type into a bank
// transfer memo: two letters plus four digits, e.g. "VE4521". Uniqueness among
// pending bookings is the caller's job (regenerate on collision).
func GenerateOrderCode() string {
	letters := "ABCDEFGHJKLMNPQRSTUVWXYZ" // no I/O, easy to read back
	code := make([]byte, 2)
	for i := range code {
		code[i] = letters[rand.Intn(len(letters))]
	}
	return fmt.Sprintf("%s%04d", code, rand.Intn(10000))
}

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}
