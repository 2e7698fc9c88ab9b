package payment_callback

import (
	"errors"
	"net/http"

	"github.com/qhomebase/QH-BookingService/internal/api/handlers"
	paymentCallback "github.com/qhomebase/QH-BookingService/internal/usecase/handle_payment_callback"
)

const (
	msgAttemptNotFound = "платёжная транзакция не найдена"
	msgInvalidCallback = "некорректные параметры платёжного колбэка"
)

type Handler struct {
	useCase PaymentCallbackUseCase
	logger  Logger
}

func NewHandler(useCase PaymentCallbackUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/payments/vnpay/callback
//
// Шлюз передаёт параметры в query string; повторные колбэки с тем же
// txn_ref идемпотентны.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	result, err := h.useCase.Execute(r.Context(), &paymentCallback.Request{Params: params})
	if err != nil {
		switch {
		case errors.Is(err, paymentCallback.ErrAttemptNotFound):
			h.logger.Warn("GET /payments/vnpay/callback - Attempt not found: txn_ref=%s", params["vnp_TxnRef"])
			handlers.RespondNotFound(w, msgAttemptNotFound)

		case errors.Is(err, paymentCallback.ErrInvalidInput):
			h.logger.Warn("GET /payments/vnpay/callback - Invalid callback params: error=%v", err)
			handlers.RespondBadRequest(w, msgInvalidCallback)

		default:
			h.logger.Error("GET /payments/vnpay/callback - Failed to process callback: txn_ref=%s, error=%v",
				params["vnp_TxnRef"], err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /payments/vnpay/callback - Callback processed: txn_ref=%s, outcome=%s, signature_valid=%t",
		result.TxnRef, result.Outcome, result.SignatureValid)
	handlers.RespondJSON(w, http.StatusOK, result)
}
