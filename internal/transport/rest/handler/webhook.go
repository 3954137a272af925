package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"callpulse/internal/model"
	"callpulse/internal/service"
	"callpulse/internal/signature"
)

// Signature header names the provider has used across versions. Header
// lookup via http.Header is case-insensitive.
const (
	signatureHeader    = "x-retell-signature"
	signatureHeaderAlt = "retell-signature"
)

// WebhookHandler handles the provider's call-completion webhook.
type WebhookHandler struct {
	webhookSvc *service.WebhookService
	secret     string
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(webhookSvc *service.WebhookService, secret string) *WebhookHandler {
	return &WebhookHandler{
		webhookSvc: webhookSvc,
		secret:     secret,
	}
}

// WebhookResponse is the body returned for every authenticated delivery.
// Always 200, even on partial internal failure, so the provider does not
// endlessly retry a request that was substantively processed.
type WebhookResponse struct {
	OK            bool   `json:"ok"`
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	SessionID     string `json:"session_id,omitempty"`
	ScoreRecordID string `json:"score_record_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

// CallCompleted handles POST /v1/webhooks/retell/call-completed
func (h *WebhookHandler) CallCompleted(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	sig := r.Header.Get(signatureHeader)
	if sig == "" {
		sig = r.Header.Get(signatureHeaderAlt)
	}

	if err := signature.Verify(body, sig, h.secret); err != nil {
		log.Printf("[Webhook] rejected delivery: %v", err)
		writeError(w, http.StatusUnauthorized, "signature verification failed")
		return
	}

	// Malformed payloads degrade: process whatever fields parsed, let the
	// matcher fall through its phases.
	var payload model.CallCompletedPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[Webhook] malformed payload (continuing with partial fields): %v", err)
	}

	result := h.webhookSvc.ProcessCompletion(r.Context(), payload.Normalize())

	resp := WebhookResponse{
		OK:            true,
		Success:       result.Err == nil,
		Message:       result.Message,
		SessionID:     result.SessionID,
		ScoreRecordID: result.ScoreRecordID,
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}
