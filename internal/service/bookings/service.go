package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	bookingRepo "github.com/qhomebase/QH-BookingService/internal/infra/storage/booking"
	"github.com/qhomebase/QH-BookingService/internal/integrations/notify"
	"github.com/qhomebase/QH-BookingService/internal/service/bookings/models"
)

// Service сервис жизненного цикла бронирований
// Любое изменение статуса сначала сверяется с transition-таблицей domain.NextStatus
type Service struct {
	bookingRepo   BookingRepository
	catalogClient CatalogClient
	notifier      NotifyPublisher
	txManager     TransactionManager
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	catalogClient CatalogClient,
	notifier NotifyPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		catalogClient: catalogClient,
		notifier:      notifier,
		txManager:     txManager,
		logger:        logger,
	}
}

// GetByID получает бронирование по ID
// Резидент видит только своё бронирование, администратор - любое
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, actor.UserID)

	booking, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest, actor models.Actor) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s, status=%v", req.UserID, req.Status)

	if !actor.IsAdmin() && actor.UserID != req.UserID {
		s.logger.Warn("GetUserBookings: access denied for user=%s to bookings of user=%s", actor.UserID, req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%s", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetUnpaidBookings получает незакрытые неоплаченные бронирования пользователя
func (s *Service) GetUnpaidBookings(ctx context.Context, userID uuid.UUID, actor models.Actor) (*models.BookingListResponse, error) {
	s.logger.Info("GetUnpaidBookings: fetching unpaid bookings for user=%s", userID)

	if !actor.IsAdmin() && actor.UserID != userID {
		return nil, ErrAccessDenied
	}

	bookings, err := s.bookingRepo.GetActiveUnpaidByUser(ctx, userID)
	if err != nil {
		s.logger.Error("GetUnpaidBookings: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUnpaidBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// Search административный поиск бронирований с гибкой фильтрацией
func (s *Service) Search(ctx context.Context, req *models.SearchBookingsRequest, actor models.Actor) (*models.BookingListResponse, error) {
	s.logger.Info("Search: searching bookings by admin=%s", actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("Search: access denied for user=%s", actor.UserID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("Search: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.Search(ctx, filter)
	if err != nil {
		s.logger.Error("Search: repository error: %v", err)
		return nil, fmt.Errorf("%w: Search - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Search: found %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// AcceptTerms фиксирует принятие условий использования услуги резидентом
// Переводит бронирование из pending_terms в pending
func (s *Service) AcceptTerms(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("AcceptTerms: accepting terms for booking id=%s by user=%s", id, actor.UserID)

	booking, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if _, ok := domain.NextStatus(booking.Status, domain.EventAcceptTerms, actor.Role); !ok {
		s.logger.Warn("AcceptTerms: invalid transition from status=%s for booking id=%s", booking.Status, id)
		return nil, fmt.Errorf("%w: cannot accept terms in status %s", ErrInvalidTransition, booking.Status)
	}

	if err := s.bookingRepo.AcceptTerms(ctx, id); err != nil {
		s.logger.Error("AcceptTerms: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: AcceptTerms - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AcceptTerms: booking id=%s moved to pending", id)
	return s.reload(ctx, id)
}

// Cancel отменяет бронирование резидентом
// Повторная отмена уже отменённого бронирования - no-op.
// Незакрытая оплата (unpaid/pending) при отмене переводится в cancelled
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, actor models.Actor, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%s", id, actor.UserID)

	booking, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	// Идемпотентность: уже отменённое бронирование возвращаем как есть
	if booking.Status == domain.StatusCancelled {
		s.logger.Info("Cancel: booking id=%s already cancelled", id)
		return models.FromDomainBooking(booking), nil
	}

	if _, ok := domain.NextStatus(booking.Status, domain.EventCancel, actor.Role); !ok {
		s.logger.Warn("Cancel: invalid transition from status=%s for booking id=%s", booking.Status, id)
		return nil, fmt.Errorf("%w: cannot cancel booking in status %s", ErrInvalidTransition, booking.Status)
	}

	reason := ""
	if req != nil && req.CancellationReason != nil {
		reason = *req.CancellationReason
	}

	cancelPayment := booking.HasActiveUnpaidPayment() && !booking.IsPaid()
	if err := s.bookingRepo.Cancel(ctx, id, reason, cancelPayment); err != nil {
		s.logger.Error("Cancel: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.notifier.Publish(ctx, notify.RKBookingCancelled, notify.BookingEvent{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		ServiceCode: booking.ServiceCode,
		Status:      string(domain.StatusCancelled),
		BookingDate: booking.BookingDate.Format(domain.DateFormat),
		Reason:      reason,
	})

	s.logger.Info("Cancel: booking id=%s cancelled", id)
	return s.reload(ctx, id)
}

// Approve подтверждает бронирование администратором
func (s *Service) Approve(ctx context.Context, id uuid.UUID, actor models.Actor, req *models.ApproveBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Approve: approving booking id=%s by admin=%s", id, actor.UserID)

	booking, err := s.loadForAdmin(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if _, ok := domain.NextStatus(booking.Status, domain.EventApprove, domain.RoleAdmin); !ok {
		s.logger.Warn("Approve: invalid transition from status=%s for booking id=%s", booking.Status, id)
		return nil, fmt.Errorf("%w: cannot approve booking in status %s", ErrInvalidTransition, booking.Status)
	}

	var adminNote *string
	if req != nil {
		adminNote = req.AdminNote
	}

	if err := s.bookingRepo.Approve(ctx, id, actor.UserID, adminNote); err != nil {
		s.logger.Error("Approve: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Approve - repository error: %v", ErrInternal, err)
	}

	s.notifier.Publish(ctx, notify.RKBookingApproved, notify.BookingEvent{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		ServiceCode: booking.ServiceCode,
		Status:      string(domain.StatusApproved),
		BookingDate: booking.BookingDate.Format(domain.DateFormat),
	})

	s.logger.Info("Approve: booking id=%s approved", id)
	return s.reload(ctx, id)
}

// Reject отклоняет бронирование администратором
// Причина обязательна; незакрытая оплата переводится в cancelled
func (s *Service) Reject(ctx context.Context, id uuid.UUID, actor models.Actor, req *models.RejectBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Reject: rejecting booking id=%s by admin=%s", id, actor.UserID)

	if req == nil || req.Reason == "" {
		return nil, ErrReasonRequired
	}

	booking, err := s.loadForAdmin(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if _, ok := domain.NextStatus(booking.Status, domain.EventReject, domain.RoleAdmin); !ok {
		s.logger.Warn("Reject: invalid transition from status=%s for booking id=%s", booking.Status, id)
		return nil, fmt.Errorf("%w: cannot reject booking in status %s", ErrInvalidTransition, booking.Status)
	}

	cancelPayment := booking.HasActiveUnpaidPayment() && !booking.IsPaid()
	if err := s.bookingRepo.Reject(ctx, id, req.Reason, cancelPayment); err != nil {
		s.logger.Error("Reject: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Reject - repository error: %v", ErrInternal, err)
	}

	s.notifier.Publish(ctx, notify.RKBookingRejected, notify.BookingEvent{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		ServiceCode: booking.ServiceCode,
		Status:      string(domain.StatusRejected),
		BookingDate: booking.BookingDate.Format(domain.DateFormat),
		Reason:      req.Reason,
	})

	s.logger.Info("Reject: booking id=%s rejected", id)
	return s.reload(ctx, id)
}

// Complete помечает подтверждённое бронирование как завершённое
func (s *Service) Complete(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("Complete: completing booking id=%s by admin=%s", id, actor.UserID)

	booking, err := s.loadForAdmin(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if _, ok := domain.NextStatus(booking.Status, domain.EventComplete, domain.RoleAdmin); !ok {
		s.logger.Warn("Complete: invalid transition from status=%s for booking id=%s", booking.Status, id)
		return nil, fmt.Errorf("%w: cannot complete booking in status %s", ErrInvalidTransition, booking.Status)
	}

	if err := s.bookingRepo.Complete(ctx, id); err != nil {
		s.logger.Error("Complete: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.notifier.Publish(ctx, notify.RKBookingCompleted, notify.BookingEvent{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		ServiceCode: booking.ServiceCode,
		Status:      string(domain.StatusCompleted),
		BookingDate: booking.BookingDate.Format(domain.DateFormat),
	})

	s.logger.Info("Complete: booking id=%s completed", id)
	return s.reload(ctx, id)
}

// UpdatePaymentStatus прямое изменение платёжного статуса администратором
// Статус самого бронирования при этом не меняется
func (s *Service) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, actor models.Actor, req *models.UpdatePaymentRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdatePaymentStatus: updating payment of booking id=%s by admin=%s", id, actor.UserID)

	booking, err := s.loadForAdmin(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	paymentStatus, err := models.ToDomainPaymentStatus(req.PaymentStatus)
	if err != nil {
		s.logger.Warn("UpdatePaymentStatus: invalid payment status=%s", req.PaymentStatus)
		return nil, fmt.Errorf("%w: invalid payment status", ErrInvalidInput)
	}

	if _, ok := domain.NextStatus(booking.Status, domain.EventUpdatePayment, domain.RoleAdmin); !ok {
		s.logger.Warn("UpdatePaymentStatus: invalid transition from status=%s for booking id=%s", booking.Status, id)
		return nil, fmt.Errorf("%w: cannot update payment in status %s", ErrInvalidTransition, booking.Status)
	}

	if err := s.bookingRepo.UpdatePayment(ctx, id, paymentStatus, nil, nil, nil); err != nil {
		s.logger.Error("UpdatePaymentStatus: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: UpdatePaymentStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdatePaymentStatus: booking id=%s payment status=%s", id, paymentStatus)
	return s.reload(ctx, id)
}

// loadOwned загружает бронирование и проверяет права доступа
// Резидент имеет доступ только к своим бронированиям
func (s *Service) loadOwned(ctx context.Context, id uuid.UUID, actor models.Actor) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if !actor.IsAdmin() && booking.UserID != actor.UserID {
		s.logger.Warn("access denied for user=%s to booking id=%s", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

// loadForAdmin загружает бронирование для административной операции
func (s *Service) loadForAdmin(ctx context.Context, id uuid.UUID, actor models.Actor) (*domain.Booking, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("access denied: user=%s is not admin", actor.UserID)
		return nil, ErrAccessDenied
	}
	return s.loadOwned(ctx, id, actor)
}

// reload перечитывает бронирование после изменения
func (s *Service) reload(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: reload booking: %v", ErrInternal, err)
	}
	return models.FromDomainBooking(booking), nil
}
