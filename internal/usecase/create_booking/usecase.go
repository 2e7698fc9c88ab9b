package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	catalogClient "github.com/qhomebase/QH-BookingService/internal/integrations/catalog"
	"github.com/qhomebase/QH-BookingService/internal/integrations/notify"
	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
)

// UseCase use case создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	catalogClient CatalogClient
	detector      ConflictDetector
	notifier      NotifyPublisher
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogClient CatalogClient,
	detector ConflictDetector,
	notifier NotifyPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		catalogClient: catalogClient,
		detector:      detector,
		notifier:      notifier,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка конфликтов и вставка выполняются в сериализуемой транзакции
// с блокировкой занятых слотов (FOR UPDATE) для защиты от гонки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%s, unit=%s, service=%s, slots=%d, items=%d",
		req.UserID, req.UnitID, req.ServiceID, len(req.Slots), len(req.Items))

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу с окнами доступности и каталогом позиций
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Услуга с расписанием требует хотя бы один слот
	if service.RequiresScheduling && len(req.Slots) == 0 {
		uc.logger.Warn("CreateBooking: service id=%s requires scheduling, no slots given", req.ServiceID)
		return nil, ErrSlotsRequired
	}

	// 4. Незакрытое неоплаченное бронирование блокирует создание нового
	unpaid, err := uc.bookingRepo.GetActiveUnpaidByUser(ctx, req.UserID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to check unpaid bookings for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to check unpaid bookings: %v", ErrInternal, err)
	}
	if len(unpaid) > 0 {
		uc.logger.Warn("CreateBooking: user=%s has %d active unpaid bookings", req.UserID, len(unpaid))
		return nil, fmt.Errorf("%w: booking id=%s", ErrUnpaidBookingExists, unpaid[0].ID)
	}

	// 5. Собираем позиции из каталога с фиксацией цен
	items, err := buildItems(service, req.Items)
	if err != nil {
		uc.logger.Warn("CreateBooking: item resolution failed: %v", err)
		return nil, err
	}

	// 6. Считаем сумму: базовая цена услуги + позиции
	intervals := toIntervals(req.Slots)
	totalAmount := service.BasePrice(totalDurationHours(intervals))
	for _, item := range items {
		totalAmount += item.TotalPrice
	}

	// 7. Собираем бронирование с денормализацией каталожных данных
	booking := buildBooking(req, service, items, intervals, now)
	booking.TotalAmount = totalAmount

	// 8. Проверка конфликтов и вставка в сериализуемой транзакции
	var result *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if len(intervals) > 0 {
			from, to := dateRange(intervals)

			// Слоты активных бронирований блокируются FOR UPDATE
			existing, err := uc.bookingRepo.GetSlotsByServiceAndDateRange(txCtx, req.ServiceID, from, to)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to get booked slots: %v", err)
				return fmt.Errorf("%w: failed to get booked slots: %v", ErrInternal, err)
			}

			if err := uc.detector.Check(service, intervals, existing, nil); err != nil {
				uc.logger.Warn("CreateBooking: conflict check failed: %v", err)
				return err
			}
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s, status=%s, total=%.2f",
		result.ID, result.Status, result.TotalAmount)

	uc.notifier.Publish(ctx, notify.RKBookingCreated, notify.BookingEvent{
		BookingID:   result.ID,
		UserID:      result.UserID,
		ServiceCode: result.ServiceCode,
		Status:      string(result.Status),
		BookingDate: result.BookingDate.Format(domain.DateFormat),
	})

	return models.FromDomainBooking(result), nil
}

// buildBooking собирает доменную модель бронирования из запроса
func buildBooking(
	req *Request,
	service *catalogClient.Service,
	items []*domain.BookingItem,
	intervals []domain.SlotInterval,
	now time.Time,
) *domain.Booking {
	booking := &domain.Booking{
		UserID:    req.UserID,
		UnitID:    req.UnitID,
		ServiceID: req.ServiceID,

		Status:        domain.StatusPendingTerms,
		PaymentStatus: domain.PaymentUnpaid,

		ServiceCode: service.Code,
		ServiceName: service.Name,

		NumberOfPeople: req.NumberOfPeople,
		Purpose:        req.Purpose,

		Items: items,
	}

	if req.TermsAccepted {
		booking.Status = domain.StatusPending
		booking.TermsAccepted = true
		booking.TermsAcceptedAt = &now
	}

	// Дата и время бронирования денормализуются из первого слота
	if len(intervals) > 0 {
		booking.BookingDate = intervals[0].Date
		booking.StartTime = intervals[0].Start
		booking.EndTime = intervals[len(intervals)-1].End

		booking.Slots = make([]*domain.BookingSlot, 0, len(intervals))
		for _, interval := range intervals {
			booking.Slots = append(booking.Slots, &domain.BookingSlot{
				ServiceID: req.ServiceID,
				SlotDate:  interval.Date,
				StartTime: interval.Start,
				EndTime:   interval.End,
			})
		}
	} else {
		booking.BookingDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}

	return booking
}

// buildItems собирает позиции бронирования из каталожных данных услуги
func buildItems(service *catalogClient.Service, requests []ItemRequest) ([]*domain.BookingItem, error) {
	items := make([]*domain.BookingItem, 0, len(requests))

	for _, req := range requests {
		item := &domain.BookingItem{
			ItemType: domain.ItemType(req.ItemType),
			ItemID:   req.ItemID,
			Quantity: req.Quantity,
		}

		switch item.ItemType {
		case domain.ItemTypeOption:
			option := service.FindOption(req.ItemID)
			if option == nil {
				return nil, fmt.Errorf("%w: option id=%s", ErrItemNotInCatalog, req.ItemID)
			}
			item.ItemCode = option.Code
			item.ItemName = option.Name
			item.UnitPrice = option.Price
		case domain.ItemTypeCombo:
			combo := service.FindCombo(req.ItemID)
			if combo == nil {
				return nil, fmt.Errorf("%w: combo id=%s", ErrItemNotInCatalog, req.ItemID)
			}
			item.ItemCode = combo.Code
			item.ItemName = combo.Name
			item.UnitPrice = combo.Price
		default:
			return nil, fmt.Errorf("%w: unknown item type %q", ErrInvalidInput, req.ItemType)
		}

		item.ComputeTotal()
		items = append(items, item)
	}

	return items, nil
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

// totalDurationHours суммарная длительность интервалов в часах
// Времена уже провалидированы, ошибки парсинга здесь невозможны
func totalDurationHours(intervals []domain.SlotInterval) float64 {
	minutes := 0
	for _, interval := range intervals {
		start, err := interval.Start.Minutes()
		if err != nil {
			continue
		}
		end, err := interval.End.Minutes()
		if err != nil {
			continue
		}
		minutes += end - start
	}
	return float64(minutes) / 60.0
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
