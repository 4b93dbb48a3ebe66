package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// StatusError describes a non-2xx response from an upstream service.
type StatusError struct {
	Service string
	Status  int
	Body    string
}

func (e *StatusError) Error() string {
	if e.Service == "" {
		return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Body)
}

// Is lets errors.Is match a 404 against apperrors.ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == apperrors.ErrNotFound && e.Status == http.StatusNotFound
}

// downstreamError mirrors the {"error":{"code","message"}} envelope some
// upstreams return; when present its message replaces the raw body.
type downstreamError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and returns
// a *StatusError. The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	body := string(bodyBytes)
	var downstream downstreamError
	if json.Unmarshal(bodyBytes, &downstream) == nil && downstream.Error != nil {
		body = downstream.Error.Message
	}

	return &StatusError{Service: serviceName, Status: resp.StatusCode, Body: body}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
