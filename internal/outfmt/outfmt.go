package outfmt

import (
	"encoding/json"
	"fmt"
	"io"
)

// Status discriminates the response envelope. Exactly one envelope is
// emitted per invocation, and the process exits 0 iff StatusSuccess.
type Status string

const (
	StatusSuccess      Status = "success"
	StatusAuthRequired Status = "auth_required"
	StatusAuthPending  Status = "auth_pending"
	StatusError        Status = "error"
)

// Response is the single top-level JSON object written to stdout. The
// discriminated status field replaces thrown errors across the
// auth/validation/network boundary so callers get stable machine-readable
// output instead of stack traces.
type Response struct {
	Status          Status `json:"status"`
	Data            any    `json:"data,omitempty"`
	UserCode        string `json:"userCode,omitempty"`
	VerificationURI string `json:"verificationUri,omitempty"`
	Error           string `json:"error,omitempty"`
}

func Success(data any) Response {
	return Response{Status: StatusSuccess, Data: data}
}

func AuthRequired(userCode, verificationURI string) Response {
	return Response{Status: StatusAuthRequired, UserCode: userCode, VerificationURI: verificationURI}
}

func AuthPending() Response {
	return Response{Status: StatusAuthPending}
}

func Errorf(format string, args ...any) Response {
	return Response{Status: StatusError, Error: fmt.Sprintf(format, args...)}
}

// Write emits the envelope as a single JSON object.
func Write(w io.Writer, resp Response) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	return nil
}
