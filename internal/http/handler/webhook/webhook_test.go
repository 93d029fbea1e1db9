package webhook_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"liveoverlay.app/hooks/common/logger"
	"liveoverlay.app/hooks/internal/driver/builtin"
	"liveoverlay.app/hooks/internal/driver/kofi"
	"liveoverlay.app/hooks/internal/driver/patreon"
	"liveoverlay.app/hooks/internal/http/handler/webhook"
	"liveoverlay.app/hooks/internal/model"
	"liveoverlay.app/hooks/internal/service"
)

type fakeResolver struct {
	integrations map[string]*model.Integration
	credentials  map[int64]map[string]string
	credsErr     error
}

func (f *fakeResolver) FindForWebhook(_ context.Context, svc, token string) (*model.Integration, error) {
	integration, ok := f.integrations[token]
	if !ok || integration.Service != svc || !integration.IsEnabled {
		return nil, service.ErrIntegrationNotFound
	}
	return integration, nil
}

func (f *fakeResolver) Credentials(integration *model.Integration) (map[string]string, error) {
	if f.credsErr != nil {
		return nil, f.credsErr
	}
	return f.credentials[integration.ID], nil
}

type fakeEventIngestService struct {
	calls      []service.EventIngestParams
	seen       map[string]bool
	err        error
	duplicated bool
}

func (f *fakeEventIngestService) Ingest(_ context.Context, params service.EventIngestParams) (*service.EventIngestResult, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	key := params.Event.Service + ":" + params.Event.MessageID
	if f.seen[key] {
		return &service.EventIngestResult{DedupeKey: key, Duplicated: true}, nil
	}
	f.seen[key] = true
	return &service.EventIngestResult{
		Event:           &model.ExternalEvent{ID: 555, EventType: params.Event.EventType},
		DedupeKey:       key,
		ControlsUpdated: true,
	}, nil
}

const (
	kofiToken     = "kofi-hook-token"
	patreonToken  = "patreon-hook-token"
	kofiSecret    = "kofi-verification-secret"
	patreonSecret = "patreon-webhook-secret"
)

func kofiBody(fields map[string]any) string {
	data := map[string]any{
		"verification_token":  kofiSecret,
		"kofi_transaction_id": "txn-1",
		"type":                "Donation",
		"from_name":           "Jo",
		"amount":              "10.00",
	}
	for k, v := range fields {
		data[k] = v
	}
	raw, _ := json.Marshal(data)
	return url.Values{"data": {string(raw)}}.Encode()
}

func signPatreon(body string) string {
	mac := hmac.New(md5.New, []byte(patreonSecret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

var _ = Describe("Webhook Handler", func() {
	var (
		router   *gin.Engine
		resolver *fakeResolver
		ingest   *fakeEventIngestService
		logs     *bytes.Buffer
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		logs = &bytes.Buffer{}
		slog.SetDefault(slog.New(logger.NewTraceHandler(slog.NewJSONHandler(logs, nil))))

		resolver = &fakeResolver{
			integrations: map[string]*model.Integration{
				kofiToken:    {ID: 1, UserID: 42, Service: kofi.ServiceKey, WebhookToken: kofiToken, IsEnabled: true},
				patreonToken: {ID: 2, UserID: 42, Service: patreon.ServiceKey, WebhookToken: patreonToken, IsEnabled: true},
			},
			credentials: map[int64]map[string]string{
				1: {"verification_token": kofiSecret},
				2: {"webhook_secret": patreonSecret},
			},
		}
		ingest = &fakeEventIngestService{seen: map[string]bool{}}

		h := webhook.NewHandler(builtin.NewRegistry(), resolver, ingest, 4096)
		router = gin.New()
		router.POST("/webhooks/:service/:token", h.HandleEvent)
	})

	postForm := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	postPatreon := func(body, trigger, signature string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/patreon/"+patreonToken, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(patreon.HeaderEvent, trigger)
		req.Header.Set(patreon.HeaderSignature, signature)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]any {
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		return resp
	}

	It("accepts a verified Ko-fi donation", func() {
		w := postForm("/webhooks/kofi/"+kofiToken, kofiBody(nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("status", "ok"))
		Expect(ingest.calls).To(HaveLen(1))

		params := ingest.calls[0]
		Expect(params.Integration.ID).To(Equal(int64(1)))
		Expect(params.Driver.ServiceKey()).To(Equal(kofi.ServiceKey))
		Expect(params.Event.EventType).To(Equal(kofi.EventDonation))
		Expect(params.Event.MessageID).To(Equal("txn-1"))
	})

	It("answers 409 on redelivery", func() {
		Expect(postForm("/webhooks/kofi/"+kofiToken, kofiBody(nil)).Code).To(Equal(http.StatusOK))

		w := postForm("/webhooks/kofi/"+kofiToken, kofiBody(nil))

		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(decode(w)).To(HaveKeyWithValue("status", "duplicate"))
	})

	It("returns 404 for an unknown service", func() {
		w := postForm("/webhooks/twitch/"+kofiToken, kofiBody(nil))

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decode(w)).To(HaveKeyWithValue("error", "unknown service"))
	})

	It("returns the same 404 for an unknown token and a service mismatch", func() {
		unknown := postForm("/webhooks/kofi/nope", kofiBody(nil))
		mismatch := postForm("/webhooks/kofi/"+patreonToken, kofiBody(nil))

		Expect(unknown.Code).To(Equal(http.StatusNotFound))
		Expect(mismatch.Code).To(Equal(http.StatusNotFound))
		Expect(unknown.Body.String()).To(Equal(mismatch.Body.String()))
	})

	It("returns 404 for a disabled integration", func() {
		resolver.integrations[kofiToken].IsEnabled = false

		w := postForm("/webhooks/kofi/"+kofiToken, kofiBody(nil))

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns 403 and logs no secret when verification fails", func() {
		w := postForm("/webhooks/kofi/"+kofiToken, kofiBody(map[string]any{"verification_token": "wrong-secret"}))

		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(ingest.calls).To(BeEmpty())
		Expect(logs.String()).To(ContainSubstring("webhook verification failed"))
		Expect(logs.String()).To(ContainSubstring(`"integration_id":1`))
		Expect(logs.String()).NotTo(ContainSubstring(kofiSecret))
	})

	It("returns 403 when credentials cannot be opened", func() {
		resolver.credsErr = errors.New("cannot open")

		w := postForm("/webhooks/kofi/"+kofiToken, kofiBody(nil))

		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("ignores an unsupported Ko-fi type", func() {
		w := postForm("/webhooks/kofi/"+kofiToken, kofiBody(map[string]any{"type": "Refund"}))

		Expect(w.Code).To(Equal(http.StatusOK))
		resp := decode(w)
		Expect(resp).To(HaveKeyWithValue("status", "ignored"))
		Expect(resp).To(HaveKeyWithValue("reason", "unsupported event type"))
		Expect(ingest.calls).To(BeEmpty())
	})

	It("ignores event types disabled in settings", func() {
		resolver.integrations[kofiToken].Settings = model.IntegrationSettings{DisabledEvents: []string{kofi.EventDonation}}

		w := postForm("/webhooks/kofi/"+kofiToken, kofiBody(nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("reason", "event type disabled"))
		Expect(ingest.calls).To(BeEmpty())
	})

	It("accepts a signed Patreon pledge", func() {
		body := `{"data":{"attributes":{"full_name":"Pat","currently_entitled_amount_cents":500}}}`

		w := postPatreon(body, "members:pledge:create", signPatreon(body))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(ingest.calls).To(HaveLen(1))
		Expect(ingest.calls[0].Event.EventType).To(Equal(patreon.EventPledgeCreate))
	})

	It("rejects a Patreon body with a bad signature", func() {
		body := `{"data":{}}`

		w := postPatreon(body, "members:pledge:create", signPatreon(body+"x"))

		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("returns 400 for a signed but unparseable body", func() {
		body := `{not json`

		w := postPatreon(body, "members:pledge:create", signPatreon(body))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(ingest.calls).To(BeEmpty())
	})

	It("ignores Patreon triggers it does not model", func() {
		body := `{"data":{}}`

		w := postPatreon(body, "posts:publish", signPatreon(body))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("status", "ignored"))
	})

	It("returns 413 for an oversized body", func() {
		w := postForm("/webhooks/kofi/"+kofiToken, kofiBody(map[string]any{"message": strings.Repeat("a", 8192)}))

		Expect(w.Code).To(Equal(http.StatusRequestEntityTooLarge))
	})

	It("returns 500 when ingestion fails", func() {
		ingest.err = errors.New("database down")

		w := postForm("/webhooks/kofi/"+kofiToken, kofiBody(nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})

	It("passes the normalized event through to ingestion", func() {
		postForm("/webhooks/kofi/"+kofiToken, kofiBody(nil))

		event := ingest.calls[0].Event
		Expect(event.Service).To(Equal(kofi.ServiceKey))
		Expect(event.TagValues()).To(HaveKeyWithValue("amount", "10.00"))
		Expect(ingest.calls[0].Driver).To(BeAssignableToTypeOf(&kofi.Driver{}))
	})
})
