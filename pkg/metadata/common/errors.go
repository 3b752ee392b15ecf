package common

// SourceError represents upstream metadata source errors
type SourceError struct {
	Type    APIType `json:"type"`
	URL     string  `json:"url"`
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Cause   error   `json:"-"`
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeConnection  = "CONNECTION_FAILED"
	ErrCodeTimeout     = "TIMEOUT"
	ErrCodeBadPayload  = "INVALID_PAYLOAD"
	ErrCodeUnsupported = "UNSUPPORTED_API"
)

// NewSourceError creates a new source error
func NewSourceError(apiType APIType, url, code, message string, cause error) *SourceError {
	return &SourceError{
		Type:    apiType,
		URL:     url,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
