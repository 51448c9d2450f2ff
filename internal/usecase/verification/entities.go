package verification

import (
	"errors"
	"time"
)

var (
	ErrInvalidSignature = errors.New("webhook signature mismatch")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside freshness window")
	ErrBadPayload       = errors.New("webhook payload malformed")
)

// Provider callbacks older (or newer) than this are treated as replays.
const FreshnessWindow = 5 * time.Minute

// callbackPayload is the provider's webhook body.
type callbackPayload struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Decision  string `json:"decision"`
}

type CallbackResult struct {
	Verified bool `json:"verified"`
}

type SubmitDTO struct {
	VerificacionID string `json:"verificacion_id"`
	SessionID      string `json:"session_id"`
	Estado         string `json:"estado"`
}
