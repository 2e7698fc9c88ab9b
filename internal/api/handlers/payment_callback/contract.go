package payment_callback

import (
	"context"

	paymentCallback "github.com/qhomebase/QH-BookingService/internal/usecase/handle_payment_callback"
)

type PaymentCallbackUseCase interface {
	Execute(ctx context.Context, req *paymentCallback.Request) (*paymentCallback.Response, error)
}

type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
