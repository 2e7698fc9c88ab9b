package handle_payment_callback

import (
	"context"
	"errors"
	"fmt"

	"github.com/qhomebase/QH-BookingService/internal/domain"
	paymentRepo "github.com/qhomebase/QH-BookingService/internal/infra/storage/payment"
	"github.com/qhomebase/QH-BookingService/internal/integrations/notify"
	"github.com/qhomebase/QH-BookingService/internal/integrations/vnpay"
)

// UseCase use case обработки callback-а платёжного шлюза
// Идемпотентен: попытка финализируется ровно один раз, повторная доставка
// того же transaction reference возвращает записанный итог
type UseCase struct {
	paymentRepo  PaymentRepository
	bookingRepo  BookingRepository
	gateway      PaymentGateway
	notifier     NotifyPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	paymentRepo PaymentRepository,
	bookingRepo BookingRepository,
	gateway PaymentGateway,
	notifier NotifyPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		paymentRepo:  paymentRepo,
		bookingRepo:  bookingRepo,
		gateway:      gateway,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute обрабатывает callback платёжного шлюза
// Строка попытки блокируется FOR UPDATE в сериализуемой транзакции,
// поэтому конкурентные повторные доставки сериализуются.
// Подпись проверяется до любых изменений: невалидная подпись не
// оставляет следов ни на попытке, ни на бронировании
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	txnRef := vnpay.TxnRef(req.Params)
	uc.logger.Info("HandlePaymentCallback: txnRef=%s", txnRef)

	// 1. Валидация callback-параметров
	if txnRef == "" {
		uc.logger.Warn("HandlePaymentCallback: callback without transaction reference")
		return nil, fmt.Errorf("%w: transaction reference is required", ErrInvalidInput)
	}

	var result *Response
	var booking *domain.Booking
	var outcome domain.PaymentOutcome

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Блокируем попытку по transaction reference
		attempt, err := uc.paymentRepo.GetByTxnRef(txCtx, txnRef)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrAttemptNotFound) {
				uc.logger.Warn("HandlePaymentCallback: attempt txnRef=%s not found", txnRef)
				return ErrAttemptNotFound
			}
			uc.logger.Error("HandlePaymentCallback: repository error for txnRef=%s: %v", txnRef, err)
			return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
		}

		// 3. Уже финализированная попытка: возвращаем записанный итог как есть
		if attempt.IsFinalized() {
			uc.logger.Info("HandlePaymentCallback: attempt txnRef=%s already finalized with outcome=%s",
				txnRef, attempt.Outcome)
			result = fromAttempt(attempt)
			return nil
		}

		// 4. Подпись проверяется до любых изменений
		if !uc.gateway.VerifySignature(req.Params) {
			uc.logger.Warn("HandlePaymentCallback: invalid signature for txnRef=%s", txnRef)
			result = &Response{
				BookingID:      attempt.BookingID,
				TxnRef:         attempt.TxnRef,
				Outcome:        string(attempt.Outcome),
				SignatureValid: false,
			}
			return nil
		}

		responseCode := vnpay.ResponseCode(req.Params)
		now := uc.timeProvider.Now()

		booking, err = uc.bookingRepo.GetByID(txCtx, attempt.BookingID)
		if err != nil {
			uc.logger.Error("HandlePaymentCallback: failed to load booking id=%s: %v", attempt.BookingID, err)
			return fmt.Errorf("%w: failed to load booking: %v", ErrInternal, err)
		}

		// 5. Финализируем попытку и отражаем итог на бронировании
		outcome = domain.OutcomeFailed
		if vnpay.IsSuccess(req.Params) {
			outcome = domain.OutcomeSuccess
		}
		if err := uc.paymentRepo.Finalize(txCtx, attempt.ID, outcome, responseCode, true); err != nil {
			return fmt.Errorf("%w: failed to finalize attempt: %v", ErrInternal, err)
		}

		// Терминальное бронирование неизменяемо: итог остаётся только на попытке
		// (бронирование могли отменить, пока попытка была открыта)
		if booking.IsTerminal() {
			uc.logger.Warn("HandlePaymentCallback: booking id=%s is %s, outcome=%s recorded on attempt only",
				booking.ID, booking.Status, outcome)
		} else if outcome == domain.OutcomeSuccess {
			// Оплата не подтверждает бронирование: статус остаётся прежним
			if err := uc.bookingRepo.UpdatePayment(txCtx, attempt.BookingID, domain.PaymentPaid, nil, &txnRef, &now); err != nil {
				return fmt.Errorf("%w: failed to update booking payment: %v", ErrInternal, err)
			}
		} else {
			// Неуспешная оплата возвращает бронирование к unpaid для повторной попытки
			if err := uc.bookingRepo.UpdatePayment(txCtx, attempt.BookingID, domain.PaymentUnpaid, nil, nil, nil); err != nil {
				return fmt.Errorf("%w: failed to update booking payment: %v", ErrInternal, err)
			}
		}

		result = &Response{
			BookingID:      attempt.BookingID,
			TxnRef:         attempt.TxnRef,
			Outcome:        string(outcome),
			ResponseCode:   responseCode,
			SignatureValid: true,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 6. Уведомление об итоге оплаты - best-effort, вне транзакции
	if booking != nil && !booking.IsTerminal() && (outcome == domain.OutcomeSuccess || outcome == domain.OutcomeFailed) {
		key := notify.RKPaymentPaid
		if outcome == domain.OutcomeFailed {
			key = notify.RKPaymentFailed
		}
		uc.notifier.Publish(ctx, key, notify.PaymentEvent{
			BookingID:    booking.ID,
			UserID:       booking.UserID,
			TxnRef:       txnRef,
			Amount:       booking.TotalAmount,
			Gateway:      vnpay.Gateway,
			ResponseCode: result.ResponseCode,
		})
	}

	uc.logger.Info("HandlePaymentCallback: txnRef=%s processed, outcome=%s, signatureValid=%t",
		txnRef, result.Outcome, result.SignatureValid)
	return result, nil
}

// fromAttempt собирает ответ из уже финализированной попытки
func fromAttempt(attempt *domain.PaymentAttempt) *Response {
	resp := &Response{
		BookingID: attempt.BookingID,
		TxnRef:    attempt.TxnRef,
		Outcome:   string(attempt.Outcome),
	}
	if attempt.ResponseCode != nil {
		resp.ResponseCode = *attempt.ResponseCode
	}
	if attempt.SignatureValid != nil {
		resp.SignatureValid = *attempt.SignatureValid
	}
	return resp
}
