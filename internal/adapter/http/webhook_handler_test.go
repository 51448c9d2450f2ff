package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	docDomain "crediflow-backend/internal/domain/document"
	"crediflow-backend/internal/domain/uow"
	verifDomain "crediflow-backend/internal/domain/verification"
	"crediflow-backend/internal/infrastructure/verifier"
	"crediflow-backend/internal/testutil/appmock"
	"crediflow-backend/internal/testutil/docmock"
	"crediflow-backend/internal/testutil/uowmock"
	"crediflow-backend/internal/testutil/verifmock"
	verifUC "crediflow-backend/internal/usecase/verification"

	"github.com/labstack/echo/v4"
)

const webhookSecret = "super-secreto"

type providerNoop struct{}

func (providerNoop) Submit(ctx context.Context, doc []byte, filename string) (*verifier.SubmitResult, error) {
	return &verifier.SubmitResult{SessionID: "sess-1"}, nil
}

func newWebhookHandler(stored *verifDomain.Record) *WebhookHandler {
	verifs := &verifmock.Repo{
		GetBySessionIDFn: func(ctx context.Context, sessionID string) (*verifDomain.Record, error) {
			if stored != nil && stored.SessionID == sessionID {
				return stored, nil
			}
			return nil, verifDomain.ErrNotFound
		},
	}
	docs := &docmock.Repo{
		FindByApplicationAndTypeFn: func(ctx context.Context, solicitudID string, tipo docDomain.Type) (*docDomain.Document, error) {
			return &docDomain.Document{DocumentoID: "d1", SolicitudID: solicitudID, Tipo: tipo}, nil
		},
	}
	repos := uow.Repos{Verifications: verifs, Documents: docs, Applications: &appmock.Repo{}}
	txm := uowmock.Passthrough(repos)
	uc := verifUC.NewUsecase(txm, providerNoop{}, verifier.NewSigner(webhookSecret), noRecompute{})
	return NewWebhookHandler(uc)
}

type noRecompute struct{}

func (noRecompute) Recompute(ctx context.Context, solicitudID string) error { return nil }

func postCallback(h *WebhookHandler, body, signature, timestamp string) *httptest.ResponseRecorder {
	e := newEchoWithValidator()
	req := httptest.NewRequest(stdhttp.MethodPost, "/webhooks/verificacion", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set(headerSignature, signature)
	}
	if timestamp != "" {
		req.Header.Set(headerTimestamp, timestamp)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = h.VerificationCallback(c)
	return rec
}

func freshTimestamp() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

func TestWebhook_Approved(t *testing.T) {
	stored := &verifDomain.Record{
		VerificacionID: "v1",
		SolicitudID:    strings.Repeat("a", 32),
		SessionID:      "sess-1",
		Estado:         verifDomain.StatusPendiente,
	}
	h := newWebhookHandler(stored)

	body := `{"session_id":"sess-1","status":"completed","decision":"approved"}`
	sig := verifier.NewSigner(webhookSecret).Sign([]byte(body))

	rec := postCallback(h, body, sig, freshTimestamp())
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var res verifUC.CallbackResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !res.Verified {
		t.Error("expected verified response")
	}
	if stored.Estado != verifDomain.StatusAprobada {
		t.Errorf("record estado = %s, want aprobada", stored.Estado)
	}
}

func TestWebhook_BadSignature(t *testing.T) {
	h := newWebhookHandler(nil)

	body := `{"session_id":"sess-1","status":"completed","decision":"approved"}`
	rec := postCallback(h, body, "deadbeef", freshTimestamp())
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestWebhook_StaleTimestamp(t *testing.T) {
	h := newWebhookHandler(nil)

	body := `{"session_id":"sess-1","status":"completed","decision":"approved"}`
	sig := verifier.NewSigner(webhookSecret).Sign([]byte(body))
	old := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)

	rec := postCallback(h, body, sig, old)
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestWebhook_UnknownSession(t *testing.T) {
	h := newWebhookHandler(nil)

	body := `{"session_id":"sess-desconocida","status":"completed","decision":"approved"}`
	sig := verifier.NewSigner(webhookSecret).Sign([]byte(body))

	rec := postCallback(h, body, sig, freshTimestamp())
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var res verifUC.CallbackResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if res.Verified {
		t.Error("unknown session must not verify")
	}
}

func TestWebhook_BadPayload(t *testing.T) {
	h := newWebhookHandler(nil)

	body := `{"status":"completed"}`
	sig := verifier.NewSigner(webhookSecret).Sign([]byte(body))

	rec := postCallback(h, body, sig, freshTimestamp())
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}
