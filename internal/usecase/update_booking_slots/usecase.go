package update_booking_slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	bookingRepo "github.com/qhomebase/QH-BookingService/internal/infra/storage/booking"
	catalogClient "github.com/qhomebase/QH-BookingService/internal/integrations/catalog"
	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
)

// UseCase use case полной замены набора слотов бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	catalogClient CatalogClient
	detector      ConflictDetector
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogClient CatalogClient,
	detector ConflictDetector,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		catalogClient: catalogClient,
		detector:      detector,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute заменяет набор слотов бронирования целиком
// Замена выполняется всё-или-ничего в сериализуемой транзакции;
// слоты самого бронирования не участвуют в подсчёте занятости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBookingSlots: booking=%s, user=%s, slots=%d",
		req.BookingID, req.Actor.UserID, len(req.Slots))

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("UpdateBookingSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем бронирование и проверяем доступ
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("UpdateBookingSlots: booking id=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("UpdateBookingSlots: repository error for booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if !req.Actor.IsAdmin() && booking.UserID != req.Actor.UserID {
		uc.logger.Warn("UpdateBookingSlots: access denied for user=%s to booking id=%s", req.Actor.UserID, req.BookingID)
		return nil, ErrAccessDenied
	}

	// 3. Слоты изменяются только в допустимом статусе
	if _, ok := domain.NextStatus(booking.Status, domain.EventUpdateSlots, req.Actor.Role); !ok {
		uc.logger.Warn("UpdateBookingSlots: invalid transition from status=%s for booking id=%s", booking.Status, req.BookingID)
		return nil, fmt.Errorf("%w: status %s", ErrInvalidTransition, booking.Status)
	}

	// 4. Получаем услугу с окнами доступности
	service, err := uc.catalogClient.GetService(ctx, booking.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("UpdateBookingSlots: service id=%s not found", booking.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("UpdateBookingSlots: failed to get service id=%s: %v", booking.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	intervals := toIntervals(req.Slots)

	// 5. Проверка конфликтов и замена в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		from, to := dateRange(intervals)

		existing, err := uc.bookingRepo.GetSlotsByServiceAndDateRange(txCtx, booking.ServiceID, from, to)
		if err != nil {
			uc.logger.Error("UpdateBookingSlots: failed to get booked slots: %v", err)
			return fmt.Errorf("%w: failed to get booked slots: %v", ErrInternal, err)
		}

		// Собственные слоты бронирования исключаются из подсчёта занятости
		if err := uc.detector.Check(service, intervals, existing, &booking.ID); err != nil {
			uc.logger.Warn("UpdateBookingSlots: conflict check failed: %v", err)
			return err
		}

		if err := uc.bookingRepo.ReplaceSlots(txCtx, booking.ID, booking.ServiceID, intervals); err != nil {
			uc.logger.Error("UpdateBookingSlots: failed to replace slots: %v", err)
			return fmt.Errorf("%w: failed to replace slots: %v", ErrInternal, err)
		}

		return uc.bookingRepo.UpdateSchedule(txCtx, booking.ID,
			intervals[0].Date, intervals[0].Start, intervals[len(intervals)-1].End)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateBookingSlots: booking id=%s slots replaced", req.BookingID)

	updated, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: reload booking: %v", ErrInternal, err)
	}
	return models.FromDomainBooking(updated), nil
}

// toIntervals конвертирует слоты запроса в интервалы, упорядоченные по дате и началу
func toIntervals(slots []SlotRequest) []domain.SlotInterval {
	intervals := make([]domain.SlotInterval, 0, len(slots))
	for _, slot := range slots {
		intervals = append(intervals, domain.SlotInterval{
			Date:  slot.Date,
			Start: slot.StartTime,
			End:   slot.EndTime,
		})
	}

	sort.Slice(intervals, func(i, j int) bool {
		if !intervals[i].Date.Equal(intervals[j].Date) {
			return intervals[i].Date.Before(intervals[j].Date)
		}
		return intervals[i].Start.IsBefore(intervals[j].Start)
	})

	return intervals
}

// dateRange возвращает минимальную и максимальную даты интервалов
func dateRange(intervals []domain.SlotInterval) (time.Time, time.Time) {
	from, to := intervals[0].Date, intervals[0].Date
	for _, interval := range intervals[1:] {
		if interval.Date.Before(from) {
			from = interval.Date
		}
		if interval.Date.After(to) {
			to = interval.Date
		}
	}
	return from, to
}
