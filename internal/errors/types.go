package errors

import "errors"

var (
	ErrConfigNotFound    = errors.New("environment config file not found")
	ErrConfigParseFailed = errors.New("environment config parsing failed")
	ErrConfigInvalid     = errors.New("configuration invalid")
	ErrSynthFailed       = errors.New("stack synthesis failed")
	ErrFileSystemFailed  = errors.New("filesystem operation failed")
)

// StackForgeError is a structured error carrying user-facing context alongside
// the original error. Context, Cause and Suggestion feed the console output;
// OriginalErr is what callers match on.
type StackForgeError struct {
	Type        error
	Context     string
	Cause       string
	Suggestion  string
	OriginalErr error
}

func (e *StackForgeError) Error() string {
	return e.OriginalErr.Error()
}

func (e *StackForgeError) Unwrap() error {
	return e.OriginalErr
}

// Is lets errors.Is match a StackForgeError against its taxonomy sentinel.
func (e *StackForgeError) Is(target error) bool {
	return errors.Is(e.Type, target)
}

func NewStackForgeError(errorType error, context, cause, suggestion string, originalErr error) *StackForgeError {
	return &StackForgeError{
		Type:        errorType,
		Context:     context,
		Cause:       cause,
		Suggestion:  suggestion,
		OriginalErr: originalErr,
	}
}

func NewConfigNotFoundError(context, cause, suggestion string, originalErr error) *StackForgeError {
	return NewStackForgeError(ErrConfigNotFound, context, cause, suggestion, originalErr)
}

func NewConfigParseError(context, cause, suggestion string, originalErr error) *StackForgeError {
	return NewStackForgeError(ErrConfigParseFailed, context, cause, suggestion, originalErr)
}

func NewConfigInvalidError(context, cause, suggestion string, originalErr error) *StackForgeError {
	return NewStackForgeError(ErrConfigInvalid, context, cause, suggestion, originalErr)
}

func NewSynthError(context, cause, suggestion string, originalErr error) *StackForgeError {
	return NewStackForgeError(ErrSynthFailed, context, cause, suggestion, originalErr)
}

func NewFileSystemError(context, cause, suggestion string, originalErr error) *StackForgeError {
	return NewStackForgeError(ErrFileSystemFailed, context, cause, suggestion, originalErr)
}
