package id

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// tenantDigits is the length of generated tenant IDs.
const tenantDigits = 6

// UUID generates a random UUID v4 string.
func UUID() string {
	return uuid.NewString()
}

// Token generates a 32-character hex token.
func Token() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Short generates an 8-character hex ID.
func Short() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// TenantID generates a numeric tenant ID that never starts with zero.
func TenantID() string {
	var sb strings.Builder
	sb.Grow(tenantDigits)
	for i := 0; i < tenantDigits; i++ {
		lo, span := int64(0), int64(10)
		if i == 0 {
			lo, span = 1, 9
		}
		n, err := rand.Int(rand.Reader, big.NewInt(span))
		if err != nil {
			n = big.NewInt(0)
		}
		sb.WriteByte(byte('0' + lo + n.Int64()))
	}
	return sb.String()
}

// ServiceID builds the stable identifier of a bound plugin: its name followed
// by a short random suffix.
func ServiceID(name string) string {
	return name + "-" + Short()
}
