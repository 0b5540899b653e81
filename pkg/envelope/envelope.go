// Package envelope defines the uniform operation result wrapper shared by
// every HTTP handler.
package envelope

import "github.com/farmstand/backend/pkg/schema"

// Response wraps an operation's result. Operation-specific diagnostic
// payloads embed Response and add their own fields.
type Response struct {
	Success          bool           `json:"success"`
	Message          string         `json:"message,omitempty"`
	Data             any            `json:"data,omitempty"`
	Error            string         `json:"error,omitempty"`
	ValidationErrors []schema.Issue `json:"validationErrors,omitempty"`
}

// OK wraps a successful payload.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKMessage wraps a successful payload with a human-readable message.
func OKMessage(data any, message string) Response {
	return Response{Success: true, Data: data, Message: message}
}

// Fail wraps an error message.
func Fail(errMsg string) Response {
	return Response{Success: false, Error: errMsg}
}

// FromError wraps an error, surfacing every validation issue when the
// error is a schema.ValidationError.
func FromError(err error) Response {
	return Response{
		Success:          false,
		Error:            err.Error(),
		ValidationErrors: schema.IssuesOf(err),
	}
}
