package resolve_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/qhomebase/QH-BookingService/internal/api/handlers"
	"github.com/qhomebase/QH-BookingService/internal/domain"
	resolveSlots "github.com/qhomebase/QH-BookingService/internal/usecase/resolve_slots"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidDateRange = "некорректный диапазон дат, ожидается from/to в формате YYYY-MM-DD"
	msgServiceNotFound  = "услуга не найдена"
	msgNoAvailability   = "у услуги нет окон доступности"
)

type Handler struct {
	useCase ResolveSlotsUseCase
	logger  Logger
}

func NewHandler(useCase ResolveSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/slots?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	serviceID, err := uuid.Parse(vars["serviceId"])
	if err != nil {
		h.logger.Warn("GET /services/{id}/slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	query := r.URL.Query()
	dateFrom, err := time.Parse(domain.DateFormat, query.Get("from"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/slots - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}
	dateTo, err := time.Parse(domain.DateFormat, query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/slots - Invalid to date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &resolveSlots.Request{
		ServiceID: serviceID,
		DateFrom:  dateFrom,
		DateTo:    dateTo,
	})
	if err != nil {
		switch {
		case errors.Is(err, resolveSlots.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/slots - Service not found: service_id=%s", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, resolveSlots.ErrNoAvailability):
			h.logger.Warn("GET /services/{id}/slots - No availability: service_id=%s", serviceID)
			handlers.RespondError(w, http.StatusConflict, msgNoAvailability)

		case errors.Is(err, resolveSlots.ErrInvalidDateRange), errors.Is(err, resolveSlots.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/slots - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		default:
			h.logger.Error("GET /services/{id}/slots - Failed to resolve slots: service_id=%s, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/slots - Resolved %d slots: service_id=%s", len(result.Slots), serviceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
