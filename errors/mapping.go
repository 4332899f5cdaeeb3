package errors

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MapToGRPCError converts domain errors into gRPC status errors.
// Unknown errors are reported as Internal without leaking their message.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && !isDomainError(err) {
		return err
	}
	switch {
	case errors.Is(err, ErrUserAlreadyExists):
		return status.Error(codes.AlreadyExists, ErrUserAlreadyExists.Error())
	case isBadRequest(err):
		return status.Error(codes.InvalidArgument, rootMessage(err))
	case errors.Is(err, ErrRecipientNotFound), errors.Is(err, ErrUserNotFound), errors.Is(err, ErrMessageNotFound):
		return status.Error(codes.NotFound, rootMessage(err))
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, rootMessage(err))
	case errors.Is(err, ErrPersistenceFailed):
		return status.Error(codes.Internal, ErrPersistenceFailed.Error())
	case errors.Is(err, ErrSearchUnavailable):
		return status.Error(codes.Unavailable, ErrSearchUnavailable.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// MapToHTTPStatus returns the status code and the message exposed to HTTP callers.
func MapToHTTPStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrPersistenceFailed):
		return http.StatusBadRequest, ErrPersistenceFailed.Error()
	case errors.Is(err, ErrUserAlreadyExists), isBadRequest(err):
		return http.StatusBadRequest, rootMessage(err)
	case errors.Is(err, ErrRecipientNotFound), errors.Is(err, ErrUserNotFound), errors.Is(err, ErrMessageNotFound):
		return http.StatusNotFound, rootMessage(err)
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, rootMessage(err)
	case errors.Is(err, ErrSearchUnavailable):
		return http.StatusServiceUnavailable, ErrSearchUnavailable.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func isBadRequest(err error) bool {
	for _, target := range []error{
		ErrSelfMessage, ErrEmptyContent, ErrContentTooLong,
		ErrInvalidUsername, ErrInvalidPassword, ErrInvalidRequest,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// rootMessage returns the message of the first sentinel found in err,
// so wrapped causes (paths, driver errors) stay server-side.
func rootMessage(err error) string {
	for _, target := range sentinels {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

func isDomainError(err error) bool {
	for _, target := range sentinels {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var sentinels = []error{
	ErrSelfMessage, ErrEmptyContent, ErrContentTooLong, ErrRecipientNotFound,
	ErrSenderNotFound, ErrPersistenceFailed, ErrMessageNotFound,
	ErrUserNotFound, ErrUserAlreadyExists, ErrInvalidUsername, ErrInvalidPassword,
	ErrInvalidCredentials, ErrTokenGeneration, ErrUnauthenticated,
	ErrInvalidRequest, ErrSearchUnavailable,
}
