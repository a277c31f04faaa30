// Package repository implements the data access layer over MySQL. Sentinel
// errors let handlers translate storage failures into the right HTTP status
// without inspecting driver-specific error text themselves.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup matches no row. Handlers translate
// this into HTTP 404 (or 401 for credential lookups).
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert violates an email unique index.
// Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrUIDExists is returned when a generated UID code collides with an
// existing one. Callers regenerate the code and retry a bounded number of
// times.
var ErrUIDExists = errors.New("uid code already exists")

// isDuplicate reports whether err is a MySQL duplicate-key error (1062),
// optionally scoped to a key whose name contains the given fragment.
func isDuplicate(err error, keyFragment string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") {
		return false
	}
	return keyFragment == "" || strings.Contains(msg, strings.ToLower(keyFragment))
}
