package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Параметры протокола VNPAY
const (
	Gateway = "VNPAY"

	version = "2.1.0"
	command = "pay"

	// ResponseCodeSuccess код успешного платежа в vnp_ResponseCode/vnp_TransactionStatus
	ResponseCodeSuccess = "00"

	paramTxnRef            = "vnp_TxnRef"
	paramResponseCode      = "vnp_ResponseCode"
	paramTransactionStatus = "vnp_TransactionStatus"
	paramSecureHash        = "vnp_SecureHash"
	paramSecureHashType    = "vnp_SecureHashType"

	createDateFormat = "20060102150405"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client адаптер платёжного шлюза VNPAY
// Строит платёжный URL и проверяет подпись callback-параметров;
// бизнес-логика платежей живёт в usecase-ах и зависит только от интерфейса
type Client struct {
	payURL     string
	tmnCode    string
	hashSecret string
	log        Logger
}

// NewClient создает новый экземпляр адаптера VNPAY
func NewClient(payURL, tmnCode, hashSecret string, log Logger) *Client {
	return &Client{
		payURL:     payURL,
		tmnCode:    tmnCode,
		hashSecret: hashSecret,
		log:        log,
	}
}

// BuildPaymentUrl строит URL страницы оплаты VNPAY для указанной попытки
// amount передаётся в базовой валюте; VNPAY ожидает сумму, умноженную на 100
func (c *Client) BuildPaymentUrl(txnRef string, amount float64, orderInfo, clientIP, returnURL string) (string, error) {
	if txnRef == "" {
		return "", fmt.Errorf("vnpay: transaction reference is required")
	}
	if amount <= 0 {
		return "", fmt.Errorf("vnpay: amount must be positive, got %.2f", amount)
	}

	params := map[string]string{
		"vnp_Version":    version,
		"vnp_Command":    command,
		"vnp_TmnCode":    c.tmnCode,
		"vnp_Amount":     fmt.Sprintf("%d", int64(amount*100)),
		"vnp_CurrCode":   "VND",
		paramTxnRef:      txnRef,
		"vnp_OrderInfo":  orderInfo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     "vn",
		"vnp_ReturnUrl":  returnURL,
		"vnp_IpAddr":     clientIP,
		"vnp_CreateDate": time.Now().Format(createDateFormat),
	}

	query := canonicalQuery(params)
	signature := c.sign(query)

	return c.payURL + "?" + query + "&" + paramSecureHash + "=" + signature, nil
}

// VerifySignature проверяет подпись callback-параметров VNPAY
// Поля callback-а нельзя считать достоверными до успешной проверки
func (c *Client) VerifySignature(params map[string]string) bool {
	received, ok := params[paramSecureHash]
	if !ok || received == "" {
		return false
	}

	filtered := make(map[string]string, len(params))
	for k, v := range params {
		if k == paramSecureHash || k == paramSecureHashType {
			continue
		}
		filtered[k] = v
	}

	expected := c.sign(canonicalQuery(filtered))
	return hmac.Equal([]byte(strings.ToLower(received)), []byte(expected))
}

// IsSuccess возвращает true, если callback сообщает об успешном платеже
func IsSuccess(params map[string]string) bool {
	return params[paramResponseCode] == ResponseCodeSuccess &&
		params[paramTransactionStatus] == ResponseCodeSuccess
}

// TxnRef извлекает transaction reference из callback-параметров
func TxnRef(params map[string]string) string {
	return params[paramTxnRef]
}

// ResponseCode извлекает код ответа шлюза из callback-параметров
func ResponseCode(params map[string]string) string {
	return params[paramResponseCode]
}

// canonicalQuery строит канонический query string: параметры сортируются
// по имени, значения url-кодируются. Тот же порядок используется при подписи
func canonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if params[k] == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}

func (c *Client) sign(payload string) string {
	mac := hmac.New(sha512.New, []byte(c.hashSecret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
