package utils

import "github.com/google/uuid"

// IsUUID validates path params before they hit the store.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
