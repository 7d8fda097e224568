package payment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"marketplace_back_end/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83/webhook"
)

type recordingDispatcher struct {
	events []Event
	err    error
}

func (r *recordingDispatcher) Dispatch(_ context.Context, ev Event) error {
	r.events = append(r.events, ev)
	return r.err
}

type memoryDedup struct {
	seen map[string]bool
}

func (m *memoryDedup) FirstDelivery(_ context.Context, id string) (bool, error) {
	if m.seen[id] {
		return false, nil
	}
	m.seen[id] = true
	return true, nil
}

const testWebhookSecret = "whsec_test_secret"

func signedEvent(t *testing.T, id, eventType string) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":          id,
		"object":      "event",
		"type":        eventType,
		"api_version": "2020-08-27",
		"data": map[string]any{
			"object": map[string]any{
				"id":       "pi_123",
				"object":   "payment_intent",
				"amount":   50000,
				"currency": "zar",
				"status":   "succeeded",
				"metadata": map[string]string{"user_id": "u1"},
			},
		},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func testVerifier(secret string) *StripeProvider {
	return NewStripeProvider(config.StripeConfig{SecretKey: "sk_test_x", WebhookSecret: secret, Timeout: time.Second})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, EventPaymentSucceeded, KindOf("payment_intent.succeeded"))
	assert.Equal(t, EventPaymentFailed, KindOf("payment_intent.payment_failed"))
	assert.Equal(t, EventUnhandled, KindOf("customer.created"))
	assert.Equal(t, "unhandled", EventUnhandled.String())
}

func TestWebhook_ValidSignatureDispatches(t *testing.T) {
	payload, sig := signedEvent(t, "evt_1", TypePaymentSucceeded)
	disp := &recordingDispatcher{}
	h := NewWebhookHandler(testVerifier(testWebhookSecret), disp, nil)

	ev, err := h.Handle(context.Background(), payload, sig)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, ev.Kind)
	require.Len(t, disp.events, 1)
	assert.Equal(t, "evt_1", disp.events[0].ID)
	assert.Contains(t, string(disp.events[0].Object), "pi_123")
}

func TestWebhook_BadSignatureNeverDispatches(t *testing.T) {
	payload, sig := signedEvent(t, "evt_1", TypePaymentSucceeded)
	disp := &recordingDispatcher{}

	cases := []struct {
		name     string
		verifier Verifier
		payload  []byte
		sig      string
	}{
		{"wrong secret", testVerifier("whsec_other"), payload, sig},
		{"missing header", testVerifier(testWebhookSecret), payload, ""},
		{"tampered body", testVerifier(testWebhookSecret), append([]byte(" "), payload...), sig},
		{"no secret configured", testVerifier(""), payload, sig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWebhookHandler(tc.verifier, disp, nil).Handle(context.Background(), tc.payload, tc.sig)
			assert.True(t, IsSignature(err))
		})
	}
	assert.Empty(t, disp.events)
}

func TestWebhook_UnhandledTypeIsAcknowledged(t *testing.T) {
	payload, sig := signedEvent(t, "evt_2", "customer.created")
	disp := &recordingDispatcher{}
	ev, err := NewWebhookHandler(testVerifier(testWebhookSecret), disp, nil).Handle(context.Background(), payload, sig)
	require.NoError(t, err)
	assert.Equal(t, EventUnhandled, ev.Kind)
}

func TestWebhook_DispatchFailureStillAcknowledged(t *testing.T) {
	payload, sig := signedEvent(t, "evt_3", TypePaymentFailed)
	disp := &recordingDispatcher{err: errors.New("boom")}
	_, err := NewWebhookHandler(testVerifier(testWebhookSecret), disp, nil).Handle(context.Background(), payload, sig)
	assert.NoError(t, err)
}

func TestWebhook_DuplicateDeliverySkipped(t *testing.T) {
	payload, sig := signedEvent(t, "evt_dup", TypePaymentSucceeded)
	disp := &recordingDispatcher{}
	h := NewWebhookHandler(testVerifier(testWebhookSecret), disp, &memoryDedup{seen: map[string]bool{}})

	_, err := h.Handle(context.Background(), payload, sig)
	require.NoError(t, err)
	_, err = h.Handle(context.Background(), payload, sig)
	require.NoError(t, err)
	assert.Len(t, disp.events, 1)
}

func TestAuditDispatcher(t *testing.T) {
	obj := json.RawMessage(`{"id":"pi_1","amount":1000,"currency":"zar","metadata":{"user_id":"u1"}}`)
	var d AuditDispatcher
	assert.NoError(t, d.Dispatch(context.Background(), Event{Kind: EventPaymentSucceeded, Object: obj}))
	assert.NoError(t, d.Dispatch(context.Background(), Event{Kind: EventPaymentFailed, Object: obj}))
	assert.NoError(t, d.Dispatch(context.Background(), Event{Kind: EventUnhandled, Type: "charge.refunded"}))
	assert.Error(t, d.Dispatch(context.Background(), Event{Kind: EventPaymentSucceeded, Object: json.RawMessage(`nope`)}))
}
