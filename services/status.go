package services

import (
	goerrors "errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"parley/errors"
)

// ToStatusError maps domain sentinels to transport status codes so callers
// across process boundaries can branch without string matching.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case goerrors.Is(err, errors.ErrNotParticipant):
		return status.Error(codes.PermissionDenied, err.Error())
	case goerrors.Is(err, errors.ErrNotYourTurn):
		return status.Error(codes.FailedPrecondition, err.Error())
	case goerrors.Is(err, errors.ErrNoParticipants):
		return status.Error(codes.FailedPrecondition, err.Error())
	case goerrors.Is(err, errors.ErrInvalidPayload),
		goerrors.Is(err, errors.ErrEmptyContent),
		goerrors.Is(err, errors.ErrUnknownPolicy),
		goerrors.Is(err, errors.ErrUnknownExtension):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
