package payment

import "errors"

var (
	// ErrAttemptNotFound возвращается, когда платёжная попытка не найдена
	ErrAttemptNotFound = errors.New("payment.repository: payment attempt not found")

	// ErrDuplicateTxnRef возвращается при вставке попытки с занятым transaction reference
	ErrDuplicateTxnRef = errors.New("payment.repository: duplicate transaction reference")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("payment.repository: failed to scan row")
)
