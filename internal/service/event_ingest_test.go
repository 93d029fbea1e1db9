package service_test

import (
	"context"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"liveoverlay.app/hooks/internal/broadcast"
	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/driver/kofi"
	"liveoverlay.app/hooks/internal/model"
	"liveoverlay.app/hooks/internal/service"
)

const testUserID int64 = 42

func kofiEvent(d driver.Driver, fields map[string]any) driver.NormalizedEvent {
	raw, err := json.Marshal(fields)
	Expect(err).NotTo(HaveOccurred())
	payload, err := d.DecodePayload(&driver.Request{Body: raw, ContentType: "application/json"})
	Expect(err).NotTo(HaveOccurred())
	eventType, ok := d.ParseEventType(payload)
	Expect(ok).To(BeTrue())
	return d.NormalizeEvent(payload, eventType)
}

func kofiDonation() map[string]any {
	return map[string]any{
		"verification_token":  "secret-token",
		"message_id":          "msg-1",
		"kofi_transaction_id": "txn-1",
		"type":                "Donation",
		"is_public":           true,
		"from_name":           "Jo",
		"message":             "Great stream!",
		"amount":              "10.00",
		"currency":            "USD",
	}
}

var _ = Describe("EventIngestService", func() {
	var (
		ctx          context.Context
		users        *mockUserStore
		integrations *memIntegrationStore
		controls     *memControlStore
		events       *memEventStore
		mappings     *mockMappingStore
		publisher    *recordingPublisher
		svc          service.EventIngestService
		d            *kofi.Driver
		integration  *model.Integration
	)

	BeforeEach(func() {
		ctx = context.Background()
		users = &mockUserStore{users: map[int64]*model.User{
			testUserID: {ID: testUserID, Name: "Jo", ChannelName: "jo-live"},
		}}
		integrations = newMemIntegrationStore()
		controls = newMemControlStore()
		events = newMemEventStore()
		mappings = &mockMappingStore{mappings: map[string]*model.AlertMapping{}}
		publisher = &recordingPublisher{}
		d = kofi.New()

		tx := &passthroughTxRunner{stores: &fakeStoreProvider{
			integrations: integrations,
			controls:     controls,
			events:       events,
		}}
		updates := service.NewControlUpdateService(controls, tx, publisher)
		alerts := service.NewAlertDispatchService(mappings, publisher)
		svc = service.NewEventIngestService(users, integrations, events, updates, alerts)

		integration = &model.Integration{ID: 7, UserID: testUserID, Service: kofi.ServiceKey, IsEnabled: true}
		Expect(integrations.Create(ctx, integration)).To(Succeed())

		created, err := updates.Provision(ctx, testUserID, d)
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(Equal(5))
	})

	ingest := func(event driver.NormalizedEvent) *service.EventIngestResult {
		result, err := svc.Ingest(ctx, service.EventIngestParams{
			Integration: integration,
			Driver:      d,
			Event:       event,
		})
		Expect(err).NotTo(HaveOccurred())
		return result
	}

	Describe("Ingest", func() {
		It("stores the payload without the verification token", func() {
			result := ingest(kofiEvent(d, kofiDonation()))

			stored := events.get(result.Event.ID)
			Expect(string(stored.Payload)).To(ContainSubstring(`"kofi_transaction_id":"txn-1"`))
			Expect(string(stored.Payload)).NotTo(ContainSubstring("verification_token"))
			Expect(string(stored.Payload)).NotTo(ContainSubstring("secret-token"))
		})

		It("applies a donation to the provisioned controls", func() {
			result := ingest(kofiEvent(d, kofiDonation()))

			Expect(result.Duplicated).To(BeFalse())
			Expect(result.DedupeKey).To(Equal("kofi:txn-1"))
			Expect(result.ControlsUpdated).To(BeTrue())

			Expect(controls.value(testUserID, kofi.ControlKofisReceived)).To(Equal("1"))
			Expect(controls.value(testUserID, kofi.ControlTotalReceived)).To(Equal("10"))
			Expect(controls.value(testUserID, kofi.ControlLatestDonorName)).To(Equal("Jo"))
			Expect(controls.value(testUserID, kofi.ControlLatestDonationMessage)).To(Equal("Great stream!"))

			stored := events.get(result.Event.ID)
			Expect(stored).NotTo(BeNil())
			Expect(stored.ControlsUpdated).To(BeTrue())
			Expect(stored.AlertDispatched).To(BeFalse())
			Expect(stored.Normalized).To(HaveKeyWithValue("from_name", "Jo"))
		})

		It("broadcasts each changed control with its source-scoped key", func() {
			ingest(kofiEvent(d, kofiDonation()))

			sent := publisher.byEvent(broadcast.EventControlUpdated)
			Expect(sent).To(HaveLen(4))
			keys := make([]string, 0, len(sent))
			for _, msg := range sent {
				Expect(msg.Channel).To(Equal("jo-live"))
				keys = append(keys, msg.Payload.(broadcast.ControlUpdated).Key)
			}
			Expect(keys).To(ConsistOf(
				"kofi:kofis_received",
				"kofi:total_received",
				"kofi:latest_donor_name",
				"kofi:latest_donation_message",
			))
		})

		It("accumulates across distinct donations", func() {
			ingest(kofiEvent(d, kofiDonation()))

			second := kofiDonation()
			second["kofi_transaction_id"] = "txn-2"
			second["amount"] = "2.50"
			second["from_name"] = "Sam"
			ingest(kofiEvent(d, second))

			Expect(controls.value(testUserID, kofi.ControlKofisReceived)).To(Equal("2"))
			Expect(controls.value(testUserID, kofi.ControlTotalReceived)).To(Equal("12.5"))
			Expect(controls.value(testUserID, kofi.ControlLatestDonorName)).To(Equal("Sam"))
		})

		It("drops a redelivered event without side effects", func() {
			event := kofiEvent(d, kofiDonation())
			ingest(event)
			published := len(publisher.messages)

			result := ingest(event)

			Expect(result.Duplicated).To(BeTrue())
			Expect(result.Event).To(BeNil())
			Expect(events.count()).To(Equal(1))
			Expect(controls.value(testUserID, kofi.ControlKofisReceived)).To(Equal("1"))
			Expect(publisher.messages).To(HaveLen(published))
		})

		It("stores test-mode replays separately", func() {
			integration.TestMode = true
			event := kofiEvent(d, kofiDonation())

			first := ingest(event)
			second := ingest(event)

			Expect(first.Duplicated).To(BeFalse())
			Expect(second.Duplicated).To(BeFalse())
			Expect(first.DedupeKey).To(HavePrefix("kofi:txn-1:test:"))
			Expect(first.DedupeKey).NotTo(Equal(second.DedupeKey))
			Expect(events.count()).To(Equal(2))
			Expect(events.get(first.Event.ID).TestMode).To(BeTrue())
		})

		It("leaves alert_dispatched false when no mapping exists", func() {
			result := ingest(kofiEvent(d, kofiDonation()))

			Expect(result.AlertDispatched).To(BeFalse())
			Expect(publisher.byEvent(broadcast.EventAlertTriggered)).To(BeEmpty())
		})

		It("dispatches the mapped alert with tag values", func() {
			mappings.mappings["kofi:donation"] = &model.AlertMapping{
				Mapping: model.EventTemplateMapping{
					ID: 3, UserID: testUserID, Service: "kofi", EventType: "donation",
					TemplateID: 9, DurationMS: 6000, TransitionIn: "fade", TransitionOut: "slide", IsEnabled: true,
				},
				Template: model.OverlayTemplate{ID: 9, UserID: testUserID, Slug: "tip-alert", HTML: "<b>{{from_name}}</b>"},
			}

			result := ingest(kofiEvent(d, kofiDonation()))

			Expect(result.AlertDispatched).To(BeTrue())
			Expect(events.get(result.Event.ID).AlertDispatched).To(BeTrue())

			alerts := publisher.byEvent(broadcast.EventAlertTriggered)
			Expect(alerts).To(HaveLen(1))
			payload := alerts[0].Payload.(broadcast.AlertTriggered)
			Expect(payload.EventID).To(Equal(result.Event.ID))
			Expect(payload.TemplateSlug).To(Equal("tip-alert"))
			Expect(payload.DurationMS).To(Equal(int32(6000)))
			Expect(payload.Tags).To(HaveKeyWithValue("amount", "10.00"))
			Expect(payload.Tags).To(HaveKeyWithValue("from_name", "Jo"))
		})

		It("still marks controls when the broadcast fails", func() {
			mappings.mappings["kofi:donation"] = &model.AlertMapping{
				Template: model.OverlayTemplate{ID: 9, Slug: "tip-alert"},
			}
			publisher.err = errBoom

			result := ingest(kofiEvent(d, kofiDonation()))

			Expect(result.ControlsUpdated).To(BeTrue())
			Expect(result.AlertDispatched).To(BeFalse())
			Expect(controls.value(testUserID, kofi.ControlKofisReceived)).To(Equal("1"))
		})

		It("treats a panicking mapping lookup as not dispatched", func() {
			mappings.getEnabledFn = func(context.Context, int64, string, string) (*model.AlertMapping, error) {
				panic("lookup exploded")
			}

			result := ingest(kofiEvent(d, kofiDonation()))

			Expect(result.AlertDispatched).To(BeFalse())
			Expect(result.ControlsUpdated).To(BeTrue())
		})

		It("does not flag controls when the update transaction fails", func() {
			controls.setErr = errBoom

			result := ingest(kofiEvent(d, kofiDonation()))

			Expect(result.ControlsUpdated).To(BeFalse())
			Expect(events.get(result.Event.ID).ControlsUpdated).To(BeFalse())
		})

		It("skips side effects when the owner is gone", func() {
			delete(users.users, testUserID)

			result := ingest(kofiEvent(d, kofiDonation()))

			Expect(result.Event).NotTo(BeNil())
			Expect(result.ControlsUpdated).To(BeFalse())
			Expect(controls.value(testUserID, kofi.ControlKofisReceived)).To(Equal("0"))
			Expect(integrations.touched).To(HaveKey(integration.ID))
		})

		It("records last received on the integration", func() {
			ingest(kofiEvent(d, kofiDonation()))
			Expect(integrations.touched).To(HaveKey(integration.ID))
		})

		It("stores events with no control updates", func() {
			commission := kofiDonation()
			commission["type"] = "Commission"

			result := ingest(kofiEvent(d, commission))

			Expect(result.ControlsUpdated).To(BeFalse())
			Expect(result.Event.EventType).To(Equal(kofi.EventCommission))
			Expect(controls.value(testUserID, kofi.ControlKofisReceived)).To(Equal("0"))
		})

		It("returns the store error when the insert fails", func() {
			events.insertErr = errBoom

			_, err := svc.Ingest(ctx, service.EventIngestParams{
				Integration: integration,
				Driver:      d,
				Event:       kofiEvent(d, kofiDonation()),
			})
			Expect(err).To(MatchError(errBoom))
		})

		It("rejects an event without a message id", func() {
			_, err := svc.Ingest(ctx, service.EventIngestParams{
				Integration: integration,
				Driver:      d,
				Event:       driver.NormalizedEvent{Service: "kofi", EventType: "donation"},
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DedupeKey", func() {
		suffix := func() string { return "abc" }

		It("joins service and message id", func() {
			Expect(service.DedupeKey("kofi", "txn-1", false, suffix)).To(Equal("kofi:txn-1"))
		})

		It("appends a test suffix in test mode", func() {
			key := service.DedupeKey("kofi", "txn-1", true, suffix)
			Expect(key).To(Equal("kofi:txn-1:test:abc"))
			Expect(strings.Count(key, ":")).To(Equal(3))
		})
	})
})
