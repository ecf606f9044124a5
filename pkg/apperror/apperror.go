package apperror

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind is the category of a failure, which decides how callers react to it.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}

const (
	CodeEmptyCart          = "EMPTY_CART"
	CodeInvalidCoupon      = "INVALID_COUPON"
	CodeCouponNotYetValid  = "COUPON_NOT_YET_VALID"
	CodeCouponExpired      = "COUPON_EXPIRED"
	CodeMinimumOrderNotMet = "MINIMUM_ORDER_NOT_MET"
	CodeProductUnavailable = "PRODUCT_UNAVAILABLE"
	CodePriceUnavailable   = "PRICE_UNAVAILABLE"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeOrderNotFound      = "ORDER_NOT_FOUND"
	CodeDeliveryNotFound   = "DELIVERY_NOT_FOUND"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeStatusChanged      = "STATUS_CHANGED"
	CodeOrderBusy          = "ORDER_BUSY"
	CodeMissingInventory   = "MISSING_INVENTORY"
	CodeInternal           = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindInternal {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func Validationf(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string, err error) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message, Err: err}
}

// Internal wraps an unexpected failure. The message shown to clients stays
// generic; the cause is kept for logs.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: message, Err: err}
}

func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the kind of err; anything not raised through this package
// is internal.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

func GRPCCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	switch KindOf(err) {
	case KindValidation:
		return codes.InvalidArgument
	case KindNotFound:
		return codes.NotFound
	case KindConflict:
		return codes.Aborted
	default:
		return codes.Internal
	}
}

// Status converts err into a gRPC status. Internal failures keep their cause
// out of the message.
func Status(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code := GRPCCode(err)
	if appErr, ok := As(err); ok && appErr.Kind != KindInternal {
		return status.Errorf(code, "%s: %s", appErr.Code, appErr.Message)
	}
	return status.Error(code, "internal server error")
}

func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		return resp, Status(err)
	}
}
