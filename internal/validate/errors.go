package validate

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/httpclient"
)

// Unwrap finds the response behind src. It accepts a httpclient.Response or
// pointer to one, a *httpclient.HTTPError, or any error wrapping one of them.
func Unwrap(src any) *httpclient.Response {
	switch s := src.(type) {
	case nil:
		return nil
	case httpclient.Response:
		return &s
	case httpclient.Source:
		return s.HTTPResponse()
	case error:
		var carrier httpclient.Source
		if errors.As(s, &carrier) {
			return carrier.HTTPResponse()
		}
	}
	return nil
}

// ErrorResponse checks the status, that every keyword appears in the body
// ignoring case, and the errorCode when code is not empty.
func (v *Validator) ErrorResponse(src any, status int, keywords []string, code string) error {
	resp := Unwrap(src)
	if resp == nil {
		return violation("error.response", "response or error carrying one", src, "")
	}
	if err := expectStatus("error", resp, status); err != nil {
		return err
	}

	body := strings.ToLower(string(resp.Body))
	for _, kw := range keywords {
		if !strings.Contains(body, strings.ToLower(kw)) {
			return violation("error.body", "to contain "+kw, truncate(string(resp.Body), 300), "")
		}
	}

	if code != "" {
		if got := errorCode(resp.Body); got != code {
			return violation("error.errorCode", code, got, "")
		}
	}
	return nil
}

// errorCode reads only the errorCode field so the other fields may carry
// any JSON type. A non-string code comes back as its raw JSON text.
func errorCode(body []byte) string {
	var obj object
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}
	raw, ok := obj["errorCode"]
	if !ok {
		return ""
	}
	var code string
	if err := json.Unmarshal(raw, &code); err != nil {
		return string(raw)
	}
	return code
}

func (v *Validator) BadRequest(src any, keywords []string, code string) error {
	return v.ErrorResponse(src, http.StatusBadRequest, keywords, code)
}

// SwapError is ErrorResponse under the name the swap scenarios use.
func (v *Validator) SwapError(src any, status int, keywords []string, code string) error {
	return v.ErrorResponse(src, status, keywords, code)
}

func (v *Validator) SwapBadRequest(src any, keywords []string, code string) error {
	return v.ErrorResponse(src, http.StatusBadRequest, keywords, code)
}

// UnprocessableEntity covers body deserialization failures on /swap and
// /swap-instructions.
func (v *Validator) UnprocessableEntity(src any, keywords []string) error {
	return v.ErrorResponse(src, http.StatusUnprocessableEntity, keywords, "")
}
