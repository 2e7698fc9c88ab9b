package initiate_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	bookingRepo "github.com/qhomebase/QH-BookingService/internal/infra/storage/booking"
	"github.com/qhomebase/QH-BookingService/internal/integrations/vnpay"
)

// UseCase use case инициации оплаты бронирования
type UseCase struct {
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	gateway     PaymentGateway
	txManager   TransactionManager
	returnURL   string
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	gateway PaymentGateway,
	txManager TransactionManager,
	returnURL string,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		txManager:   txManager,
		returnURL:   returnURL,
		logger:      logger,
	}
}

// Execute инициирует оплату бронирования
// Создаёт платёжную попытку со свежим transaction reference и строит
// платёжный URL шлюза; платёжный статус бронирования переходит в pending
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("InitiatePayment: booking=%s, user=%s", req.BookingID, req.Actor.UserID)

	// 1. Валидация входных данных
	if req.BookingID == uuid.Nil {
		return nil, fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}

	// 2. Загружаем бронирование и проверяем доступ
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("InitiatePayment: booking id=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("InitiatePayment: repository error for booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if !req.Actor.IsAdmin() && booking.UserID != req.Actor.UserID {
		uc.logger.Warn("InitiatePayment: access denied for user=%s to booking id=%s", req.Actor.UserID, req.BookingID)
		return nil, ErrAccessDenied
	}

	// 3. Проверяем, что бронирование можно оплачивать
	if booking.Status == domain.StatusCancelled || booking.Status == domain.StatusRejected {
		uc.logger.Warn("InitiatePayment: booking id=%s is %s", req.BookingID, booking.Status)
		return nil, ErrBookingClosed
	}
	if booking.IsPaid() {
		uc.logger.Warn("InitiatePayment: booking id=%s is already paid", req.BookingID)
		return nil, ErrAlreadyPaid
	}
	if booking.TotalAmount <= 0 {
		uc.logger.Warn("InitiatePayment: booking id=%s has zero total amount", req.BookingID)
		return nil, ErrNothingToPay
	}

	// 4. Свежий transaction reference для каждой попытки
	txnRef := newTxnRef()
	orderInfo := fmt.Sprintf("Booking %s %s", booking.ServiceCode, booking.ID)

	paymentURL, err := uc.gateway.BuildPaymentUrl(txnRef, booking.TotalAmount, orderInfo, req.ClientIP, uc.returnURL)
	if err != nil {
		uc.logger.Error("InitiatePayment: failed to build payment url for booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to build payment url: %v", ErrInternal, err)
	}

	// 5. Фиксируем попытку и переводим платёжный статус в pending
	attempt := &domain.PaymentAttempt{
		BookingID: booking.ID,
		TxnRef:    txnRef,
		Amount:    booking.TotalAmount,
		Gateway:   vnpay.Gateway,
		Outcome:   domain.OutcomePending,
	}

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := uc.paymentRepo.Create(txCtx, attempt); err != nil {
			return err
		}
		gateway := vnpay.Gateway
		return uc.bookingRepo.UpdatePayment(txCtx, booking.ID, domain.PaymentPending, &gateway, &txnRef, nil)
	})
	if err != nil {
		uc.logger.Error("InitiatePayment: transaction error for booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: transaction error: %v", ErrInternal, err)
	}

	uc.logger.Info("InitiatePayment: attempt txnRef=%s created for booking id=%s, amount=%.2f",
		txnRef, booking.ID, booking.TotalAmount)

	return &Response{
		BookingID:  booking.ID,
		TxnRef:     txnRef,
		Amount:     booking.TotalAmount,
		PaymentURL: paymentURL,
	}, nil
}

// newTxnRef генерирует уникальный transaction reference
func newTxnRef() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
