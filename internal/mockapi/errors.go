package mockapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the swap API error body.
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// MessageResponse is the error body of the price and token APIs.
type MessageResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// apiError is a handler failure that already knows its wire form.
type apiError struct {
	status int
	body   any    // JSON body, or nil when text is sent
	text   string // plain text body for deserialization failures
}

func badRequest(msg, code string) *apiError {
	return &apiError{status: http.StatusBadRequest, body: ErrorResponse{Error: msg, ErrorCode: code}}
}

func unprocessable(text string) *apiError {
	return &apiError{status: http.StatusUnprocessableEntity, text: text}
}

func (e *apiError) write(c echo.Context) error {
	if e.body == nil {
		return c.String(e.status, e.text)
	}
	return c.JSON(e.status, e.body)
}

// JSONErrors returns an error handler that keeps every framework error in
// JSON form.
func JSONErrors() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if he, ok := err.(*echo.HTTPError); ok {
			msg := http.StatusText(he.Code)
			if s, ok := he.Message.(string); ok && s != "" {
				msg = s
			}
			_ = c.JSON(he.Code, ErrorResponse{Error: msg})
			return
		}

		_ = c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
