package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Response is the normalized shape of any HTTP exchange.
type Response struct {
	Status int
	Header http.Header
	Body   []byte

	Method  string
	URL     string
	Elapsed time.Duration
}

// Source is anything that carries a response: a *Response itself, or an
// error produced from one.
type Source interface {
	HTTPResponse() *Response
}

func (r *Response) HTTPResponse() *Response { return r }

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if r == nil {
		return fmt.Errorf("nil response")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode %s %s body: %w", r.Method, r.URL, err)
	}
	return nil
}

// Failure is the error variant of a response body.
type Failure struct {
	Status    int    `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// Text returns whichever of error or message the server filled in.
func (f *Failure) Text() string {
	if f.Error != "" {
		return f.Error
	}
	return f.Message
}

// Failure decodes the body as an error payload. It returns nil for 2xx
// responses. A body that is not a JSON object becomes the Error text
// verbatim. Each field decodes on its own.
func (r *Response) Failure() *Failure {
	if r == nil || r.IsSuccess() {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(r.Body, &fields); err != nil || fields == nil {
		return &Failure{Status: r.Status, Error: strings.TrimSpace(string(r.Body))}
	}

	// fields of an unexpected type stay zero
	var f Failure
	_ = json.Unmarshal(fields["status"], &f.Status)
	_ = json.Unmarshal(fields["error"], &f.Error)
	_ = json.Unmarshal(fields["message"], &f.Message)
	_ = json.Unmarshal(fields["errorCode"], &f.ErrorCode)
	if f.Status == 0 {
		f.Status = r.Status
	}
	return &f
}

// Err returns an *HTTPError for non-2xx responses and nil otherwise.
func (r *Response) Err() error {
	if r.IsSuccess() {
		return nil
	}
	return &HTTPError{Response: r}
}

// HTTPError wraps a non-2xx response for callers that want error control flow.
type HTTPError struct {
	Response *Response
}

func (e *HTTPError) HTTPResponse() *Response { return e.Response }

func (e *HTTPError) Error() string {
	if e.Response == nil {
		return "http error without response"
	}
	b := strings.TrimSpace(string(e.Response.Body))
	if b == "" {
		return fmt.Sprintf("jupiter http %d", e.Response.Status)
	}
	return fmt.Sprintf("jupiter http %d: %s", e.Response.Status, b)
}
