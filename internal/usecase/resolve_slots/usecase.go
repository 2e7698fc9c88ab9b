package resolve_slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	catalogClient "github.com/qhomebase/QH-BookingService/internal/integrations/catalog"
)

// UseCase use case подбора доступных слотов услуги
type UseCase struct {
	slotRepo      SlotRepository
	catalogClient CatalogClient
	detector      ConflictDetector
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	catalogClient CatalogClient,
	detector ConflictDetector,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:      slotRepo,
		catalogClient: catalogClient,
		detector:      detector,
		logger:        logger,
	}
}

// Execute выполняет подбор слотов услуги за диапазон дат
// Кандидаты генерируются из еженедельных окон доступности с шагом
// гранулярности услуги и аннотируются занятостью
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ResolveSlots: service=%s, from=%s, to=%s",
		req.ServiceID, req.DateFrom.Format(domain.DateFormat), req.DateTo.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ResolveSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу с окнами доступности
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("ResolveSlots: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("ResolveSlots: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.HasAvailability() {
		uc.logger.Warn("ResolveSlots: service id=%s has no availability windows", req.ServiceID)
		return nil, ErrNoAvailability
	}

	// 3. Получаем занятые слоты активных бронирований за диапазон
	existing, err := uc.slotRepo.GetSlotsByServiceAndDateRange(ctx, req.ServiceID, req.DateFrom, req.DateTo)
	if err != nil {
		uc.logger.Error("ResolveSlots: failed to get booked slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get booked slots: %v", ErrInternal, err)
	}

	// 4. Генерируем кандидатов по окнам и аннотируем занятостью
	candidates := uc.generateCandidates(service, req.DateFrom, req.DateTo, existing)

	uc.logger.Info("ResolveSlots: generated %d candidates for service=%s", len(candidates), req.ServiceID)

	resp := &Response{
		ServiceID: req.ServiceID,
		Slots:     make([]Slot, 0, len(candidates)),
	}
	for _, candidate := range candidates {
		resp.Slots = append(resp.Slots, fromCandidate(candidate))
	}

	return resp, nil
}

// generateCandidates раскладывает окна доступности на слоты с шагом гранулярности
// Дни идут по возрастанию, внутри дня - по времени начала
func (uc *UseCase) generateCandidates(
	service *catalogClient.Service,
	from, to time.Time,
	existing []*domain.BookingSlot,
) []*domain.CandidateSlot {
	granularity := service.SlotGranularityMinutes
	if granularity <= 0 {
		granularity = domain.DefaultSlotGranularityMinutes
	}

	candidates := make([]*domain.CandidateSlot, 0)

	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		for _, window := range service.WindowsForDate(date) {
			capacity := window.Capacity
			if capacity <= 0 {
				capacity = domain.DefaultWindowCapacity
			}

			cursor := window.StartTime
			for {
				end, err := cursor.AddMinutes(granularity)
				if err != nil || window.EndTime.IsBefore(end) {
					break
				}

				interval := domain.SlotInterval{Date: date, Start: cursor, End: end}
				candidates = append(candidates, &domain.CandidateSlot{
					SlotDate:    date,
					StartTime:   cursor,
					EndTime:     end,
					BookedCount: uc.detector.CountBooked(interval, existing),
					Capacity:    capacity,
				})

				cursor = end
			}
		}
	}

	// Порядок: по возрастанию даты, внутри дня - по времени начала
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].SlotDate.Equal(candidates[j].SlotDate) {
			return candidates[i].SlotDate.Before(candidates[j].SlotDate)
		}
		return candidates[i].StartTime.IsBefore(candidates[j].StartTime)
	})

	return candidates
}
