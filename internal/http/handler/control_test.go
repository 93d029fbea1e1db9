package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"liveoverlay.app/hooks/internal/http/handler"
	"liveoverlay.app/hooks/internal/model"
	"liveoverlay.app/hooks/internal/service"
)

var _ = Describe("ControlHandler", func() {
	var (
		router *gin.Engine
		svc    *mockControlService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		router.Use(withUser(testUser))
		svc = &mockControlService{}
		h := handler.NewControlHandler(svc)
		router.GET("/controls", h.List)
		router.POST("/controls", h.Create)
		router.PATCH("/controls/:id", h.Update)
		router.PUT("/controls/:id/value", h.SetValue)
		router.DELETE("/controls/:id", h.Delete)
	})

	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("lists controls with their broadcast keys", func() {
		source := "kofi"
		svc.listFn = func(_ context.Context, userID int64) ([]model.Control, error) {
			Expect(userID).To(Equal(testUser.ID))
			return []model.Control{
				{ID: 1, Key: "kofis_received", Type: model.ControlTypeCounter, Value: "3", Source: &source, SourceManaged: true},
				{ID: 2, Key: "scene", Type: model.ControlTypeText, Value: "intro"},
			}, nil
		}

		w := send(http.MethodGet, "/controls", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp struct {
			Controls []map[string]any `json:"controls"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Controls).To(HaveLen(2))
		Expect(resp.Controls[0]["broadcast_key"]).To(Equal("kofi:kofis_received"))
		Expect(resp.Controls[0]["id"]).To(Equal("1"))
		Expect(resp.Controls[1]["broadcast_key"]).To(Equal("scene"))
	})

	It("creates a control", func() {
		svc.createFn = func(_ context.Context, params service.CreateControlParams) (*model.Control, error) {
			Expect(params.UserID).To(Equal(testUser.ID))
			Expect(params.Key).To(Equal("goal"))
			return &model.Control{ID: 9, Key: params.Key, Type: params.Type, Value: "0"}, nil
		}

		w := send(http.MethodPost, "/controls", `{"key":"goal","type":"number"}`)

		Expect(w.Code).To(Equal(http.StatusCreated))
	})

	It("returns 400 when the key is missing", func() {
		w := send(http.MethodPost, "/controls", `{"type":"number"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	DescribeTable("maps service errors to status codes",
		func(err error, status int) {
			svc.setValueFn = func(context.Context, *model.User, int64, string) (*model.Control, error) {
				return nil, err
			}

			w := send(http.MethodPut, "/controls/5/value", `{"value":"7"}`)

			Expect(w.Code).To(Equal(status))
		},
		Entry("source managed", service.ErrControlSourceManaged, http.StatusForbidden),
		Entry("not found", service.ErrControlNotFound, http.StatusNotFound),
		Entry("bad value", service.ErrInvalidControlValue, http.StatusUnprocessableEntity),
		Entry("unexpected", errors.New("db down"), http.StatusInternalServerError),
	)

	It("rejects a metadata update on a managed control with 403", func() {
		svc.updateMetadataFn = func(context.Context, int64, int64, service.UpdateControlMetadataParams) (*model.Control, error) {
			return nil, service.ErrControlSourceManaged
		}

		w := send(http.MethodPatch, "/controls/5", `{"label":"Tips"}`)

		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("passes the value and user through", func() {
		svc.setValueFn = func(_ context.Context, user *model.User, controlID int64, value string) (*model.Control, error) {
			Expect(user).To(Equal(testUser))
			Expect(controlID).To(Equal(int64(5)))
			Expect(value).To(Equal(""))
			return &model.Control{ID: controlID, Key: "scene", Type: model.ControlTypeText}, nil
		}

		w := send(http.MethodPut, "/controls/5/value", `{"value":""}`)

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("requires a value field", func() {
		w := send(http.MethodPut, "/controls/5/value", `{}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 400 for a non-numeric id", func() {
		w := send(http.MethodDelete, "/controls/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("deletes a control", func() {
		var deleted int64
		svc.deleteFn = func(_ context.Context, _ int64, controlID int64) error {
			deleted = controlID
			return nil
		}

		w := send(http.MethodDelete, "/controls/5", "")

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(deleted).To(Equal(int64(5)))
	})
})
