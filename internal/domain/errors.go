package domain

import "errors"

var (
	ErrIndexOutOfRange = errors.New("week index out of range")
	ErrMalformedInput  = errors.New("malformed simulation input")
	ErrSessionNotFound = errors.New("simulation session not found")
	ErrUnknownField    = errors.New("unknown input field")
)
