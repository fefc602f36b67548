// Package striperepo is the payment gateway collaborator. The core only
// depends on this contract; the HTTP implementation lives in httpClient.go.
package striperepo

import "context"

// IntentMetadata travels with the PaymentIntent so webhook events can be
// reconciled by a human even if the stored mapping were lost.
type IntentMetadata struct {
	GuestName    string
	GuestEmail   string
	CheckInDate  string
	CheckOutDate string
	RoomType     string
}

type CreateIntentReq struct {
	AmountCents int64
	Currency    string
	Metadata    IntentMetadata
}

type CreateIntentResp struct {
	IntentID     string
	ClientSecret string
}

type Repo interface {
	CreatePaymentIntent(ctx context.Context, req CreateIntentReq) (*CreateIntentResp, error)
	CreateRefund(ctx context.Context, intentID string, amountCents int64) (refundID string, err error)

	// VerifyWebhookSignature must pass before any webhook payload is trusted.
	VerifyWebhookSignature(sigHeader string, rawBody []byte) error
}
