// Package service contains the business rules of the journal.
//
// Handlers parse HTTP and call into this package; services validate input,
// orchestrate the repositories, photo storage and the AI gateway, and return
// domain values or *apperror.AppError. Nothing here knows about HTTP.
//
//	main.go wires:  sqlite.DB → repository interfaces → services → handlers
package service

import (
	"time"
)

// Clock returns the current time. Tests pin it so that "today" is stable.
type Clock func() time.Time
