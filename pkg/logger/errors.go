package logger

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid logger configuration")
	ErrOpenLogFile   = errors.New("failed to open log file")
)
