package core

import "errors"

// Configuration errors. A runnable table is static data, so any of these
// means the firmware image is wrong and startup should halt.
var (
	ErrEmptyTable        = errors.New("runnable table is empty")
	ErrTooManyRunnables  = errors.New("runnable table exceeds MaxRunnables")
	ErrZeroPeriod        = errors.New("runnable period must be greater than 0")
	ErrNilCallback       = errors.New("runnable callback is nil")
	ErrUnalignedDuration = errors.New("duration is not a whole number of ticks")
	ErrDurationTooLong   = errors.New("duration exceeds the wrap-safe tick range")
	ErrInvalidTickConfig = errors.New("invalid tick configuration")
)

// ConfigError ties a configuration error to the offending table entry
type ConfigError struct {
	Index int
	Name  string
	Err   error
}

func (e *ConfigError) Error() string {
	return "runnable " + itoa(e.Index) + " (" + e.Name + "): " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
