package booking_items

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/qhomebase/QH-BookingService/internal/api/handlers"
	"github.com/qhomebase/QH-BookingService/internal/api/middleware"
	"github.com/qhomebase/QH-BookingService/internal/service/bookings"
	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidItemID      = "некорректный ID позиции"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingNotFound    = "бронирование не найдено"
	msgItemNotFound       = "позиция не найдена"
	msgItemNotInCatalog   = "позиция не найдена в каталоге услуги"
	msgServiceNotFound    = "услуга не найдена"
	msgAccessDenied       = "доступ запрещён"
	msgInvalidTransition  = "позиции нельзя изменить в текущем статусе бронирования"
	msgInvalidInput       = "некорректные данные запроса"
	msgUnauthorized       = "пользователь не аутентифицирован"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleAdd POST /api/v1/bookings/{bookingId}/items
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	bookingID, err := uuid.Parse(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/items - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req models.AddItemRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/items - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AddItem(r.Context(), bookingID, actor, &req)
	if err != nil {
		h.respondServiceError(w, "POST /bookings/{id}/items", bookingID, actor, err)
		return
	}

	h.logger.Info("POST /bookings/{id}/items - Item added: booking_id=%s, item_id=%s", bookingID, req.ItemID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleUpdate PATCH /api/v1/bookings/{bookingId}/items/{itemId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["bookingId"])
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/items/{itemId} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}
	itemID, err := uuid.Parse(vars["itemId"])
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/items/{itemId} - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	var req models.UpdateItemRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/items/{itemId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateItem(r.Context(), bookingID, itemID, actor, &req)
	if err != nil {
		h.respondServiceError(w, "PATCH /bookings/{id}/items/{itemId}", bookingID, actor, err)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/items/{itemId} - Item updated: booking_id=%s, item_id=%s", bookingID, itemID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/bookings/{bookingId}/items/{itemId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["bookingId"])
	if err != nil {
		h.logger.Warn("DELETE /bookings/{id}/items/{itemId} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}
	itemID, err := uuid.Parse(vars["itemId"])
	if err != nil {
		h.logger.Warn("DELETE /bookings/{id}/items/{itemId} - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	result, err := h.service.DeleteItem(r.Context(), bookingID, itemID, actor)
	if err != nil {
		h.respondServiceError(w, "DELETE /bookings/{id}/items/{itemId}", bookingID, actor, err)
		return
	}

	h.logger.Info("DELETE /bookings/{id}/items/{itemId} - Item removed: booking_id=%s, item_id=%s", bookingID, itemID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, bookingID uuid.UUID, actor models.Actor, err error) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		h.logger.Warn("%s - Booking not found: booking_id=%s", op, bookingID)
		handlers.RespondNotFound(w, msgBookingNotFound)

	case errors.Is(err, bookings.ErrItemNotFound):
		h.logger.Warn("%s - Item not found: booking_id=%s", op, bookingID)
		handlers.RespondNotFound(w, msgItemNotFound)

	case errors.Is(err, bookings.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found: booking_id=%s", op, bookingID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, bookings.ErrItemNotInCatalog):
		h.logger.Warn("%s - Item not in catalog: booking_id=%s", op, bookingID)
		handlers.RespondBadRequest(w, msgItemNotInCatalog)

	case errors.Is(err, bookings.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: booking_id=%s, user_id=%s", op, bookingID, actor.UserID)
		handlers.RespondForbidden(w, msgAccessDenied)

	case errors.Is(err, bookings.ErrInvalidTransition):
		h.logger.Warn("%s - Invalid transition: booking_id=%s", op, bookingID)
		handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

	case errors.Is(err, bookings.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: booking_id=%s, error=%v", op, bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Failed: booking_id=%s, error=%v", op, bookingID, err)
		handlers.RespondInternalError(w)
	}
}
