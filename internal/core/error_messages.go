package core

// error_messages.go maps technical errors to user-facing messages with a
// code that can be quoted to support.
//
// # Error Codes Reference
//
// # Input Errors (FILE001-FILE099)
//
//	FILE001 - Input too large: input exceeds the configured byte limit
//	          Action: Split the file into smaller chunks
//	          Patterns: "input too large"
//
//	FILE002 - Invalid CSV: a line exceeds the per-line length limit
//	          Action: Check that the file is comma-separated text
//	          Patterns: "invalid csv"
//
//	FILE005 - Empty input: no CSV data was supplied
//	          Action: Paste or upload CSV data with a header row
//	          Patterns: "empty input"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Unknown operation
//	         Patterns: "unknown operation"
//
//	REQ002 - Missing parameter: a required parameter is absent
//	         Patterns: "missing parameter"
//
//	REQ003 - Invalid parameter: a parameter has an unsupported value
//	         Patterns: "invalid parameter"
//
// # Validation Errors (VAL007-VAL099)
//
//	VAL007 - Invalid column index
//	         Patterns: "invalid column index"
//
//	VAL008 - Invalid threshold: similarity threshold outside (0, 1]
//	         Patterns: "invalid threshold"
//
// # Job Errors (JOB001, UPL004-UPL005)
//
//	JOB001 - System busy: all job slots are occupied
//	         Patterns: "too many jobs"
//
//	UPL004 - Request cancelled
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Other (RATE001, AUD001, ERR000)
//
//	RATE001 - Too many requests. Patterns: "rate limit"
//	AUD001  - Audit log unavailable. Patterns: "audit log unavailable"
//	ERR000  - Fallback when no pattern matches
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Input Errors
	// =========================================================================
	{
		pattern: "input too large",
		msg: UserMessage{
			Message: "Input exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "Input is not a valid CSV file",
			Action:  "Check that the file is comma-separated text without very long lines",
			Code:    "FILE002",
		},
	},
	{
		pattern: "empty input",
		msg: UserMessage{
			Message: "No CSV data was provided",
			Action:  "Paste or upload CSV data with a header row",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Request Errors
	// =========================================================================
	{
		pattern: "unknown operation",
		msg: UserMessage{
			Message: "Unknown operation",
			Action:  "Choose one of the listed operations",
			Code:    "REQ001",
		},
	},
	{
		pattern: "missing parameter",
		msg: UserMessage{
			Message: "A required parameter is missing",
			Action:  "Select a column or supply the missing value",
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid parameter",
		msg: UserMessage{
			Message: "A parameter has an unsupported value",
			Action:  "Check the request parameters",
			Code:    "REQ003",
		},
	},

	// =========================================================================
	// Validation Errors
	// =========================================================================
	{
		pattern: "invalid column index",
		msg: UserMessage{
			Message: "The selected column does not exist",
			Action:  "Choose a column from the table header",
			Code:    "VAL007",
		},
	},
	{
		pattern: "invalid threshold",
		msg: UserMessage{
			Message: "Similarity threshold must be greater than 0 and at most 1",
			Action:  "Use a threshold such as 0.8",
			Code:    "VAL008",
		},
	},

	// =========================================================================
	// Job Errors
	// =========================================================================
	{
		pattern: "too many jobs",
		msg: UserMessage{
			Message: "System is busy processing other requests",
			Action:  "Please wait a moment and try again",
			Code:    "JOB001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or a higher similarity threshold",
			Code:    "UPL005",
		},
	},

	// =========================================================================
	// Rate Limiting and Audit
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "audit log unavailable",
		msg: UserMessage{
			Message: "The audit log could not be reached",
			Action:  "Please try again in a few moments",
			Code:    "AUD001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. If no
// pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matched a specific pattern rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error (for logs) with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
