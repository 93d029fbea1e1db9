package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/driver/builtin"
	"liveoverlay.app/hooks/internal/http/handler"
	"liveoverlay.app/hooks/internal/model"
	"liveoverlay.app/hooks/internal/service"
)

var _ = Describe("IntegrationHandler", func() {
	var (
		router *gin.Engine
		svc    *mockIntegrationService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		router.Use(withUser(testUser))
		svc = &mockIntegrationService{}
		h := handler.NewIntegrationHandler(svc, builtin.NewRegistry())
		router.GET("/integrations", h.List)
		router.GET("/integrations/:service/schema", h.Schema)
		router.GET("/integrations/:service/events", h.ListEvents)
		router.POST("/integrations/:service", h.Connect)
		router.PATCH("/integrations/:service", h.Update)
		router.DELETE("/integrations/:service", h.Disconnect)
		router.POST("/integrations/:service/rotate-token", h.RotateToken)
	})

	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]any {
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		return resp
	}

	It("connects a service and returns its webhook url", func() {
		svc.connectFn = func(_ context.Context, params service.ConnectParams) (*model.Integration, error) {
			Expect(params.UserID).To(Equal(testUser.ID))
			Expect(params.Service).To(Equal("kofi"))
			Expect(params.Credentials).To(HaveKeyWithValue("verification_token", "abc"))
			return &model.Integration{ID: 3, Service: "kofi", WebhookToken: "tok", IsEnabled: true}, nil
		}

		w := send(http.MethodPost, "/integrations/kofi", `{"credentials":{"verification_token":"abc"}}`)

		Expect(w.Code).To(Equal(http.StatusCreated))
		resp := decode(w)
		Expect(resp["webhook_url"]).To(Equal("https://hooks.example.com/webhooks/kofi/tok"))
		Expect(resp["display_name"]).To(Equal("Ko-fi"))
		Expect(resp).NotTo(HaveKey("webhook_token"))
		Expect(resp).NotTo(HaveKey("credentials"))
	})

	DescribeTable("maps connect errors",
		func(err error, status int) {
			svc.connectFn = func(context.Context, service.ConnectParams) (*model.Integration, error) {
				return nil, err
			}

			w := send(http.MethodPost, "/integrations/kofi", `{"credentials":{}}`)

			Expect(w.Code).To(Equal(status))
		},
		Entry("already connected", service.ErrAlreadyConnected, http.StatusConflict),
		Entry("bad credentials", service.ErrInvalidCredentials, http.StatusUnprocessableEntity),
		Entry("unknown service", driver.ErrUnknownService, http.StatusNotFound),
	)

	It("lists services with their connection state", func() {
		svc.listFn = func(context.Context, int64) ([]model.Integration, error) {
			return []model.Integration{{ID: 3, Service: "kofi", WebhookToken: "tok"}}, nil
		}

		w := send(http.MethodGet, "/integrations", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp struct {
			Services     []map[string]any `json:"services"`
			Integrations []map[string]any `json:"integrations"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Services).To(HaveLen(2))
		Expect(resp.Services[0]["service"]).To(Equal("kofi"))
		Expect(resp.Services[0]["connected"]).To(BeTrue())
		Expect(resp.Services[1]["service"]).To(Equal("patreon"))
		Expect(resp.Services[1]["connected"]).To(BeFalse())
		Expect(resp.Integrations).To(HaveLen(1))
	})

	It("serves the credential schema", func() {
		w := send(http.MethodGet, "/integrations/patreon/schema", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		resp := decode(w)
		Expect(resp["required"]).To(ContainElement("webhook_secret"))
		Expect(resp["additionalProperties"]).To(BeFalse())
	})

	It("returns 404 for the schema of an unknown service", func() {
		w := send(http.MethodGet, "/integrations/twitch/schema", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("reports controls removed on disconnect", func() {
		svc.disconnectFn = func(_ context.Context, userID int64, svcKey string) (int64, error) {
			Expect(svcKey).To(Equal("kofi"))
			return 5, nil
		}

		w := send(http.MethodDelete, "/integrations/kofi", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["controls_removed"]).To(BeNumerically("==", 5))
	})

	It("returns 404 when disconnecting a service that is not connected", func() {
		svc.disconnectFn = func(context.Context, int64, string) (int64, error) {
			return 0, service.ErrIntegrationNotFound
		}

		w := send(http.MethodDelete, "/integrations/kofi", "")

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("passes partial updates through", func() {
		svc.updateFn = func(_ context.Context, params service.UpdateIntegrationParams) (*model.Integration, error) {
			Expect(params.Credentials).To(BeNil())
			Expect(params.IsEnabled).NotTo(BeNil())
			Expect(*params.IsEnabled).To(BeFalse())
			Expect(params.TestMode).To(BeNil())
			return &model.Integration{ID: 3, Service: "kofi"}, nil
		}

		w := send(http.MethodPatch, "/integrations/kofi", `{"is_enabled":false}`)

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("lists recent events with the requested limit", func() {
		svc.listEventsFn = func(_ context.Context, _ int64, _ string, limit int32) ([]model.ExternalEvent, error) {
			Expect(limit).To(Equal(int32(10)))
			return []model.ExternalEvent{{ID: 7, EventType: "donation", MessageID: "txn-1"}}, nil
		}

		w := send(http.MethodGet, "/integrations/kofi/events?limit=10", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"message_id":"txn-1"`))
	})

	It("rejects a malformed limit", func() {
		w := send(http.MethodGet, "/integrations/kofi/events?limit=ten", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
