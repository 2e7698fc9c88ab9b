package update_booking_slots

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/qhomebase/QH-BookingService/internal/api/handlers"
	"github.com/qhomebase/QH-BookingService/internal/api/middleware"
	"github.com/qhomebase/QH-BookingService/internal/service/conflict"
	updateSlots "github.com/qhomebase/QH-BookingService/internal/usecase/update_booking_slots"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgBookingNotFound    = "бронирование не найдено"
	msgServiceNotFound    = "услуга не найдена"
	msgAccessDenied       = "доступ запрещён"
	msgInvalidTransition  = "слоты нельзя изменить в текущем статусе бронирования"
	msgSlotConflict       = "выбранные временные слоты недоступны"
	msgInvalidDate        = "некорректная дата бронирования"
	msgInvalidInput       = "некорректные данные запроса"
	msgUnauthorized       = "пользователь не аутентифицирован"
)

type Handler struct {
	useCase UpdateBookingSlotsUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["bookingId"])
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/slots - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateBookingSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, actor)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/slots - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateSlots.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/slots - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, updateSlots.ErrServiceNotFound):
			h.logger.Warn("PUT /bookings/{id}/slots - Service not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, updateSlots.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id}/slots - Access denied: booking_id=%s, user_id=%s", bookingID, actor.UserID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, updateSlots.ErrInvalidTransition):
			h.logger.Warn("PUT /bookings/{id}/slots - Invalid transition: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		case errors.Is(err, conflict.ErrNoAvailability),
			errors.Is(err, conflict.ErrOverlapsWithinRequest),
			errors.Is(err, conflict.ErrOutsideAvailability),
			errors.Is(err, conflict.ErrAlreadyBooked):
			h.logger.Warn("PUT /bookings/{id}/slots - Slot conflict: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, updateSlots.ErrInvalidDate):
			h.logger.Warn("PUT /bookings/{id}/slots - Invalid date: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, updateSlots.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id}/slots - Invalid input: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /bookings/{id}/slots - Failed to update slots: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/slots - Slots updated: booking_id=%s, user_id=%s", bookingID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
