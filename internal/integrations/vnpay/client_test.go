package vnpay

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testClient() *Client {
	return NewClient(
		"https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		"TESTCODE",
		"SECRETSECRETSECRET",
		nopLogger{},
	)
}

// flattenQuery разбирает query string платёжного URL в map с первыми значениями
func flattenQuery(t *testing.T, rawURL string) map[string]string {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	params := make(map[string]string)
	for k, vs := range u.Query() {
		params[k] = vs[0]
	}
	return params
}

func TestClient_BuildPaymentUrl(t *testing.T) {
	c := testClient()

	rawURL, err := c.BuildPaymentUrl("abc123", 250, "Booking meeting_room", "10.0.0.1", "https://app.example.com/return")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rawURL, "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?"))

	params := flattenQuery(t, rawURL)
	assert.Equal(t, "abc123", params["vnp_TxnRef"])
	assert.Equal(t, "TESTCODE", params["vnp_TmnCode"])
	assert.Equal(t, "25000", params["vnp_Amount"]) // сумма * 100
	assert.Equal(t, "VND", params["vnp_CurrCode"])
	assert.Equal(t, "https://app.example.com/return", params["vnp_ReturnUrl"])
	assert.NotEmpty(t, params["vnp_SecureHash"])
	assert.Len(t, params["vnp_SecureHash"], 128) // hex HMAC-SHA512
}

func TestClient_BuildPaymentUrl_Errors(t *testing.T) {
	c := testClient()

	_, err := c.BuildPaymentUrl("", 250, "info", "10.0.0.1", "https://app.example.com/return")
	assert.Error(t, err)

	_, err = c.BuildPaymentUrl("abc123", 0, "info", "10.0.0.1", "https://app.example.com/return")
	assert.Error(t, err)

	_, err = c.BuildPaymentUrl("abc123", -1, "info", "10.0.0.1", "https://app.example.com/return")
	assert.Error(t, err)
}

func TestClient_SignatureRoundTrip(t *testing.T) {
	c := testClient()

	rawURL, err := c.BuildPaymentUrl("abc123", 250, "Booking meeting_room", "10.0.0.1", "https://app.example.com/return")
	require.NoError(t, err)

	params := flattenQuery(t, rawURL)
	assert.True(t, c.VerifySignature(params))
}

func TestClient_VerifySignature_UppercaseHash(t *testing.T) {
	c := testClient()

	rawURL, err := c.BuildPaymentUrl("abc123", 250, "info", "10.0.0.1", "https://app.example.com/return")
	require.NoError(t, err)

	params := flattenQuery(t, rawURL)
	params["vnp_SecureHash"] = strings.ToUpper(params["vnp_SecureHash"])
	assert.True(t, c.VerifySignature(params))
}

func TestClient_VerifySignature_Tampered(t *testing.T) {
	c := testClient()

	rawURL, err := c.BuildPaymentUrl("abc123", 250, "info", "10.0.0.1", "https://app.example.com/return")
	require.NoError(t, err)

	params := flattenQuery(t, rawURL)
	params["vnp_Amount"] = "100"
	assert.False(t, c.VerifySignature(params))
}

func TestClient_VerifySignature_MissingHash(t *testing.T) {
	c := testClient()

	assert.False(t, c.VerifySignature(map[string]string{
		"vnp_TxnRef": "abc123",
	}))
	assert.False(t, c.VerifySignature(map[string]string{
		"vnp_TxnRef":     "abc123",
		"vnp_SecureHash": "",
	}))
}

func TestClient_VerifySignature_IgnoresHashTypeParam(t *testing.T) {
	c := testClient()

	rawURL, err := c.BuildPaymentUrl("abc123", 250, "info", "10.0.0.1", "https://app.example.com/return")
	require.NoError(t, err)

	// vnp_SecureHashType не участвует в подписи
	params := flattenQuery(t, rawURL)
	params["vnp_SecureHashType"] = "HMACSHA512"
	assert.True(t, c.VerifySignature(params))
}

func TestClient_VerifySignature_SecretMismatch(t *testing.T) {
	c := testClient()
	other := NewClient(c.payURL, c.tmnCode, "ANOTHERSECRET", nopLogger{})

	rawURL, err := c.BuildPaymentUrl("abc123", 250, "info", "10.0.0.1", "https://app.example.com/return")
	require.NoError(t, err)

	assert.False(t, other.VerifySignature(flattenQuery(t, rawURL)))
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(map[string]string{
		"vnp_ResponseCode":      "00",
		"vnp_TransactionStatus": "00",
	}))
	// Успех требует обоих кодов
	assert.False(t, IsSuccess(map[string]string{
		"vnp_ResponseCode":      "00",
		"vnp_TransactionStatus": "02",
	}))
	assert.False(t, IsSuccess(map[string]string{
		"vnp_ResponseCode":      "24",
		"vnp_TransactionStatus": "00",
	}))
	assert.False(t, IsSuccess(map[string]string{}))
}

func TestParamExtractors(t *testing.T) {
	params := map[string]string{
		"vnp_TxnRef":       "abc123",
		"vnp_ResponseCode": "24",
	}
	assert.Equal(t, "abc123", TxnRef(params))
	assert.Equal(t, "24", ResponseCode(params))
	assert.Equal(t, "", TxnRef(map[string]string{}))
}

func TestCanonicalQuery_SkipsEmptyAndSorts(t *testing.T) {
	query := canonicalQuery(map[string]string{
		"b":     "2",
		"a":     "1",
		"empty": "",
		"space": "x y",
	})
	assert.Equal(t, "a=1&b=2&space=x+y", query)
}
