package initiate_payment

import (
	"errors"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/qhomebase/QH-BookingService/internal/api/handlers"
	"github.com/qhomebase/QH-BookingService/internal/api/middleware"
	initiatePayment "github.com/qhomebase/QH-BookingService/internal/usecase/initiate_payment"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgBookingNotFound  = "бронирование не найдено"
	msgAccessDenied     = "доступ запрещён"
	msgAlreadyPaid      = "бронирование уже оплачено"
	msgBookingClosed    = "бронирование отменено или отклонено"
	msgNothingToPay     = "для этого бронирования нет суммы к оплате"
	msgUnauthorized     = "пользователь не аутентифицирован"

	headerForwardedFor = "X-Forwarded-For"
)

type Handler struct {
	useCase InitiatePaymentUseCase
	logger  Logger
}

func NewHandler(useCase InitiatePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	bookingID, err := uuid.Parse(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	req := &initiatePayment.Request{
		BookingID: bookingID,
		Actor:     actor,
		ClientIP:  clientIP(r),
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, initiatePayment.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, initiatePayment.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payment - Access denied: booking_id=%s, user_id=%s", bookingID, actor.UserID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, initiatePayment.ErrAlreadyPaid):
			h.logger.Warn("POST /bookings/{id}/payment - Already paid: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyPaid)

		case errors.Is(err, initiatePayment.ErrBookingClosed):
			h.logger.Warn("POST /bookings/{id}/payment - Booking closed: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgBookingClosed)

		case errors.Is(err, initiatePayment.ErrNothingToPay):
			h.logger.Warn("POST /bookings/{id}/payment - Nothing to pay: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgNothingToPay)

		default:
			h.logger.Error("POST /bookings/{id}/payment - Failed to initiate payment: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment - Payment initiated: booking_id=%s, txn_ref=%s", bookingID, result.TxnRef)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// clientIP извлекает IP клиента с учётом прокси
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get(headerForwardedFor); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
