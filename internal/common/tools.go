package common

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID generates a UUID with an optional prefix
func GenerateUUID(prefix string) string {
	id := uuid.New()
	if prefix != "" {
		return fmt.Sprintf("%s_%s", prefix, strings.ReplaceAll(id.String(), "-", ""))
	}
	return id.String()
}

// GenerateCalculationID stamps an export document, e.g. "greeks_3f2a...".
func GenerateCalculationID(calculator string) string {
	if calculator == "" {
		calculator = "calc"
	}
	return GenerateUUID(calculator)
}
