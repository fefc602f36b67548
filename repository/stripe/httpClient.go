package striperepo

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PresidentAnderson/checkin.pvthostel.com/util/httpx"
)

const apiBase = "https://api.stripe.com/v1"

// webhookTolerance bounds how stale a signed webhook timestamp may be,
// limiting replay of captured deliveries.
const webhookTolerance = 5 * time.Minute

type httpRepo struct {
	apiKey        string
	webhookSecret string
	client        *http.Client
	now           func() time.Time
}

func NewHTTP(apiKey, webhookSecret string) Repo {
	return &httpRepo{
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		client:        httpx.Client(),
		now:           time.Now,
	}
}

func (r *httpRepo) CreatePaymentIntent(ctx context.Context, req CreateIntentReq) (*CreateIntentResp, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	form.Set("currency", req.Currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("metadata[guestName]", req.Metadata.GuestName)
	form.Set("metadata[guestEmail]", req.Metadata.GuestEmail)
	form.Set("metadata[checkInDate]", req.Metadata.CheckInDate)
	form.Set("metadata[checkOutDate]", req.Metadata.CheckOutDate)
	form.Set("metadata[roomType]", req.Metadata.RoomType)

	var out struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
	}
	if err := r.post(ctx, "/payment_intents", form, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("stripe: empty payment intent id")
	}
	return &CreateIntentResp{IntentID: out.ID, ClientSecret: out.ClientSecret}, nil
}

func (r *httpRepo) CreateRefund(ctx context.Context, intentID string, amountCents int64) (string, error) {
	form := url.Values{}
	form.Set("payment_intent", intentID)
	if amountCents > 0 {
		form.Set("amount", strconv.FormatInt(amountCents, 10))
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := r.post(ctx, "/refunds", form, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.New("stripe: empty refund id")
	}
	return out.ID, nil
}

func (r *httpRepo) post(ctx context.Context, path string, form url.Values, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("stripe %s failed: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// VerifyWebhookSignature checks the Stripe-Signature header
// ("t=<unix>,v1=<hex hmac>") against HMAC-SHA256 of "<t>.<body>" keyed with
// the endpoint's webhook secret.
func (r *httpRepo) VerifyWebhookSignature(sigHeader string, rawBody []byte) error {
	if r.webhookSecret == "" {
		return errors.New("stripe: webhook secret not configured")
	}

	var ts string
	var sigs []string
	for _, part := range strings.Split(sigHeader, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if ts == "" || len(sigs) == 0 {
		return errors.New("stripe: malformed signature header")
	}

	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return errors.New("stripe: malformed signature timestamp")
	}
	age := r.now().Sub(time.Unix(sec, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		return errors.New("stripe: signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(r.webhookSecret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range sigs {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return errors.New("stripe: signature mismatch")
}
