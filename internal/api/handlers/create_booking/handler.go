package create_booking

import (
	"errors"
	"net/http"

	"github.com/qhomebase/QH-BookingService/internal/api/handlers"
	"github.com/qhomebase/QH-BookingService/internal/api/middleware"
	"github.com/qhomebase/QH-BookingService/internal/service/conflict"
	createBooking "github.com/qhomebase/QH-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgServiceNotFound    = "услуга не найдена"
	msgItemNotInCatalog   = "позиция не найдена в каталоге услуги"
	msgSlotsRequired      = "для этой услуги необходимо выбрать временные слоты"
	msgUnpaidExists       = "у пользователя уже есть неоплаченное бронирование"
	msgNoAvailability     = "услуга недоступна для бронирования"
	msgSlotConflict       = "выбранные временные слоты недоступны"
	msgInvalidDate        = "некорректная дата бронирования"
	msgInvalidInput       = "некорректные данные запроса"
	msgUnauthorized       = "пользователь не аутентифицирован"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: user_id=%s, service_id=%s", actor.UserID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrItemNotInCatalog):
			h.logger.Warn("POST /bookings - Item not in catalog: user_id=%s, service_id=%s", actor.UserID, req.ServiceID)
			handlers.RespondBadRequest(w, msgItemNotInCatalog)

		case errors.Is(err, createBooking.ErrSlotsRequired):
			h.logger.Warn("POST /bookings - Slots required: user_id=%s, service_id=%s", actor.UserID, req.ServiceID)
			handlers.RespondBadRequest(w, msgSlotsRequired)

		case errors.Is(err, createBooking.ErrUnpaidBookingExists):
			h.logger.Warn("POST /bookings - Unpaid booking exists: user_id=%s", actor.UserID)
			handlers.RespondError(w, http.StatusConflict, msgUnpaidExists)

		case errors.Is(err, conflict.ErrNoAvailability):
			h.logger.Warn("POST /bookings - No availability: user_id=%s, service_id=%s", actor.UserID, req.ServiceID)
			handlers.RespondError(w, http.StatusConflict, msgNoAvailability)

		case errors.Is(err, conflict.ErrOverlapsWithinRequest),
			errors.Is(err, conflict.ErrOutsideAvailability),
			errors.Is(err, conflict.ErrAlreadyBooked):
			h.logger.Warn("POST /bookings - Slot conflict: user_id=%s, service_id=%s, error=%v", actor.UserID, req.ServiceID, err)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid date: user_id=%s, service_id=%s", actor.UserID, req.ServiceID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%s, error=%v", actor.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%s, service_id=%s, error=%v",
				actor.UserID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, user_id=%s, service_id=%s",
		result.ID, actor.UserID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
