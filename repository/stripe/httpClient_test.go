package striperepo

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func sign(t *testing.T, secret string, ts int64, body []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestRepo(now time.Time) *httpRepo {
	r := NewHTTP("sk_test", testSecret).(*httpRepo)
	r.now = func() time.Time { return now }
	return r
}

func TestVerifyWebhookSignature_Valid(t *testing.T) {
	now := time.Unix(1_780_000_000, 0)
	r := newTestRepo(now)

	body := []byte(`{"id":"evt_1"}`)
	ts := now.Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, sign(t, testSecret, ts, body))

	require.NoError(t, r.VerifyWebhookSignature(header, body))
}

func TestVerifyWebhookSignature_TamperedBody(t *testing.T) {
	now := time.Unix(1_780_000_000, 0)
	r := newTestRepo(now)

	body := []byte(`{"id":"evt_1"}`)
	ts := now.Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, sign(t, testSecret, ts, body))

	require.Error(t, r.VerifyWebhookSignature(header, []byte(`{"id":"evt_1","amount":999}`)))
}

func TestVerifyWebhookSignature_WrongSecret(t *testing.T) {
	now := time.Unix(1_780_000_000, 0)
	r := newTestRepo(now)

	body := []byte(`{}`)
	ts := now.Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, sign(t, "whsec_other", ts, body))

	require.Error(t, r.VerifyWebhookSignature(header, body))
}

func TestVerifyWebhookSignature_StaleTimestamp(t *testing.T) {
	now := time.Unix(1_780_000_000, 0)
	r := newTestRepo(now)

	body := []byte(`{}`)
	old := now.Add(-6 * time.Minute).Unix()
	header := fmt.Sprintf("t=%d,v1=%s", old, sign(t, testSecret, old, body))

	require.Error(t, r.VerifyWebhookSignature(header, body))
}

func TestVerifyWebhookSignature_Malformed(t *testing.T) {
	r := newTestRepo(time.Unix(1_780_000_000, 0))

	require.Error(t, r.VerifyWebhookSignature("", nil))
	require.Error(t, r.VerifyWebhookSignature("v1=deadbeef", nil))
	require.Error(t, r.VerifyWebhookSignature("t=notanumber,v1=deadbeef", nil))
}

func TestVerifyWebhookSignature_SecondSignatureAccepted(t *testing.T) {
	// Stripe sends multiple v1 entries during secret rotation.
	now := time.Unix(1_780_000_000, 0)
	r := newTestRepo(now)

	body := []byte(`{}`)
	ts := now.Unix()
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s",
		ts, sign(t, "whsec_old", ts, body), sign(t, testSecret, ts, body))

	require.NoError(t, r.VerifyWebhookSignature(header, body))
}
