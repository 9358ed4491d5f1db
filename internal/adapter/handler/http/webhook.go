package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eshopcore/storefront/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const signatureHeader = "Stripe-Signature"

// signatureTolerance bounds how old a signed timestamp may be before the
// event is rejected as a possible replay.
const signatureTolerance = 5 * time.Minute

type WebhookHandler struct {
	Handler
	service port.PaymentService
	secret  []byte
}

func NewWebhookHandler(service port.PaymentService, webhookSecret string, logger *zap.Logger) (*WebhookHandler, error) {
	return &WebhookHandler{
		Handler: *NewHandler(logger),
		service: service,
		secret:  []byte(webhookSecret),
	}, nil
}

type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string `json:"id"`
			PaymentIntent string `json:"payment_intent"`
		} `json:"object"`
	} `json:"data"`
}

// HandleWebhook receives payment gateway events. Business outcomes are
// always acknowledged with 200 so the gateway stops retrying; only
// infrastructure failures return 500 and trigger a redelivery.
func (wh *WebhookHandler) HandleWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse{Error: "unreadable payload"})
		return
	}

	if !wh.verifySignature(payload, ctx.GetHeader(signatureHeader), time.Now()) {
		wh.logger.Warn("webhook signature verification failed")
		ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid signature"})
		return
	}

	event := webhookEvent{}
	if err := json.Unmarshal(payload, &event); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse{Error: "malformed event"})
		return
	}

	confirmation := port.ConfirmationEvent{
		EventID:         event.ID,
		SessionID:       event.Data.Object.ID,
		PaymentIntentID: event.Data.Object.PaymentIntent,
	}

	switch event.Type {
	case "checkout.session.completed":
		err = wh.service.HandlePaymentConfirmed(ctx, confirmation)
	case "payment_intent.payment_failed":
		err = wh.service.HandlePaymentFailed(ctx, confirmation)
	default:
		wh.logger.Debug("ignoring webhook event", zap.String("type", event.Type))
	}
	if err != nil {
		wh.logger.Error("webhook processing failed",
			zap.String("event", event.ID), zap.Error(err))
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.Status(http.StatusOK)
}

// verifySignature checks the "t=<unix>,v1=<hex hmac>" header against an
// HMAC-SHA256 of "<t>.<payload>".
func (wh *WebhookHandler) verifySignature(payload []byte, header string, now time.Time) bool {
	var timestamp string
	var signatures [][]byte

	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			sig, err := hex.DecodeString(value)
			if err == nil {
				signatures = append(signatures, sig)
			}
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	age := now.Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return false
	}

	mac := hmac.New(sha256.New, wh.secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			return true
		}
	}
	return false
}
