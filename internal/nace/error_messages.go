package nace

// error_messages.go maps errors to user-facing messages with a support code.
//
// Typed errors are resolved with errors.As/errors.Is first. Anything that is
// not one of the package's types falls back to case-insensitive substring
// patterns, and finally to ERR000. Technical detail never reaches the user;
// callers log the original error.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgInvalidPage = UserMessage{
		Message: MsgInvalidPage,
		Action:  "Use a page number of 1 or higher",
		Code:    "VAL001",
	}
	msgInvalidLimit = UserMessage{
		Message: MsgInvalidLimit,
		Action:  "Use a limit between 1 and 500",
		Code:    "VAL002",
	}
	msgInvalidLevel = UserMessage{
		Message: MsgInvalidLevel,
		Action:  "Use a level of 2, 3, 4 or 5, or leave it out",
		Code:    "VAL003",
	}
	msgIDRequired = UserMessage{
		Message: MsgIDRequired,
		Action:  "Add the code without dots to the path, e.g. /codes/0111",
		Code:    "VAL004",
	}
	msgInvalidLang = UserMessage{
		Message: MsgInvalidLang,
		Action:  "Use en, de, fr or nl",
		Code:    "VAL005",
	}
	msgNotFound = UserMessage{
		Message: "NACEBEL code not found.",
		Action:  "Check the code and try again without dots, e.g. 0111",
		Code:    "NF001",
	}
	msgSchema = UserMessage{
		Message: "The code list could not be read",
		Action:  "Please try again later",
		Code:    "SRC001",
	}
	msgUpstream = UserMessage{
		Message: "The code list is temporarily unavailable",
		Action:  "Please try again in a few moments",
		Code:    "SRC002",
	}
	msgTimeout = UserMessage{
		Message: "Loading the code list timed out",
		Action:  "Please try again in a few moments",
		Code:    "SRC003",
	}
)

// defaultMessage is returned when no specific mapping applies.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// errorPattern maps a lower-case substring of an error text to a message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catch untyped errors from drivers (network, S3, Postgres).
// The first matching pattern wins.
var errorPatterns = []errorPattern{
	{pattern: "missing required column", msg: msgSchema},
	{pattern: "connection refused", msg: msgUpstream},
	{pattern: "connection reset", msg: msgUpstream},
	{pattern: "no such host", msg: msgUpstream},
	{pattern: "deadline exceeded", msg: msgTimeout},
	{pattern: "timeout", msg: msgTimeout},
}

// MapError converts err into a UserMessage. A nil error yields the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		switch ve.Param {
		case "page":
			return msgInvalidPage
		case "limit":
			return msgInvalidLimit
		case "level":
			return msgInvalidLevel
		case "id":
			return msgIDRequired
		case "lang":
			return msgInvalidLang
		}
		return UserMessage{Message: ve.Message, Action: "Check the request parameters", Code: "VAL000"}
	}
	if errors.Is(err, ErrNotFound) {
		return msgNotFound
	}
	var se *SchemaError
	if errors.As(err, &se) {
		return msgSchema
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return msgTimeout
	}
	var ue *UpstreamFetchError
	if errors.As(err, &ue) {
		return msgUpstream
	}

	lower := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(lower, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action", or "" for a nil error.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
