package api

import (
	"errors"
	"net/http"

	"shareit/internal/service"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// httpStatus maps the service error taxonomy onto HTTP status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrItemUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func grpcCode(err error) codes.Code {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, service.ErrInvalidRequest):
		return codes.InvalidArgument
	case errors.Is(err, service.ErrItemUnavailable):
		return codes.FailedPrecondition
	case errors.Is(err, service.ErrAccessDenied):
		return codes.PermissionDenied
	case errors.Is(err, service.ErrConflict):
		return codes.Aborted
	default:
		return codes.Internal
	}
}

// grpcError converts a service error into a status error. Internal failures
// are not echoed to the caller.
func grpcError(err error) error {
	code := grpcCode(err)
	if code == codes.Internal {
		return status.Error(code, "internal error")
	}
	return status.Error(code, err.Error())
}

// errorMessage hides internal failures from HTTP clients.
func errorMessage(err error, code int) string {
	if code == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
