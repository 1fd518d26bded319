package domain

// RestAPIError is the typed failure raised by business logic when a domain
// rule is violated. It carries exactly one ErrorCode, fixed at construction.
//
// Services return it as a plain error; the advice layer recovers the code
// with errors.As and renders the matching HTTP response.
type RestAPIError struct {
	code ErrorCode
}

// NewRestAPIError wraps code. A nil code is replaced by InternalServerError
// so that every RestAPIError always has a code to translate.
func NewRestAPIError(code ErrorCode) *RestAPIError {
	if code == nil {
		code = InternalServerError
	}
	return &RestAPIError{code: code}
}

// Code returns the wrapped error code.
func (e *RestAPIError) Code() ErrorCode { return e.code }

// Error renders "<NAME>: <message>".
func (e *RestAPIError) Error() string {
	return e.code.Name() + ": " + e.code.Message()
}

// Is reports whether target is a RestAPIError carrying a code of the same name.
func (e *RestAPIError) Is(target error) bool {
	t, ok := target.(*RestAPIError)
	if !ok || t == nil {
		return false
	}
	return t.code.Name() == e.code.Name()
}
