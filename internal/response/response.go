package response

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
)

// Response is the envelope printed for each command in JSON output mode.
type Response struct {
	Data     interface{} `json:"data"`
	Error    *ErrorBody  `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// ErrorBody represents a structured error response.
type ErrorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Metadata includes command tracing and timing.
type Metadata struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ────────────────────────────────────────────────────────────────────────────
// Helper builders
// ────────────────────────────────────────────────────────────────────────────

// Success writes a successful envelope carrying data.
func Success(w io.Writer, data interface{}) error {
	return write(w, Response{
		Data:     data,
		Metadata: buildMetadata(),
	})
}

// Fail writes an error envelope with an error code and no field-level details.
func Fail(w io.Writer, code ErrCode) error {
	return write(w, Response{
		Error:    &ErrorBody{Code: code, Message: GetMessage(code)},
		Metadata: buildMetadata(),
	})
}

// FailWithFields writes an error envelope with field-level validation details.
func FailWithFields(w io.Writer, code ErrCode, fields map[string]string) error {
	return write(w, Response{
		Error:    &ErrorBody{Code: code, Message: GetMessage(code), Fields: fields},
		Metadata: buildMetadata(),
	})
}

func write(w io.Writer, resp Response) error {
	return json.NewEncoder(w).Encode(resp)
}

func buildMetadata() Metadata {
	return Metadata{
		RequestID: uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
