package grpc

import (
	"Civilization/internal/shared/transport"

	"google.golang.org/grpc/codes"
)

func httpLikeCode(c codes.Code) int {
	switch c {
	case codes.OK:
		return transport.OK
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return transport.InvalidParam
	case codes.Unauthenticated:
		return transport.Unauthorized
	case codes.PermissionDenied:
		return transport.Forbidden
	case codes.NotFound:
		return transport.NotFound
	case codes.ResourceExhausted:
		return transport.RateLimited
	case codes.Unavailable:
		return transport.Unavailable
	case codes.DeadlineExceeded:
		return transport.Timeout
	}
	return transport.SystemError
}
