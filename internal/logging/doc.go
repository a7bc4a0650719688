// Package logging provides structured logging utilities for meetslot.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Handler construction from level/format settings
//   - Attendee email anonymization
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for packages that only need leveled output
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "planner.plan")
//	logger.Info("slots found",
//	    logging.Attendees(3),
//	    logging.Location("virtual"))
//
// Hash attendee addresses before logging:
//
//	logger.Debug("free/busy loaded",
//	    logging.UserHash(email))
package logging
