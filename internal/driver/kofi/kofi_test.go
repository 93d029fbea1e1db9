package kofi_test

import (
	"encoding/json"
	"net/http"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/driver/kofi"
)

const formContentType = "application/x-www-form-urlencoded"

func formRequest(data map[string]any) *driver.Request {
	raw, err := json.Marshal(data)
	Expect(err).NotTo(HaveOccurred())
	body := url.Values{"data": {string(raw)}}.Encode()
	return &driver.Request{
		Header:      http.Header{"Content-Type": {formContentType}},
		Body:        []byte(body),
		ContentType: formContentType,
	}
}

func donation() map[string]any {
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

func integrationWith(token string) driver.Integration {
	creds := map[string]string{}
	if token != "" {
		creds["verification_token"] = token
	}
	return driver.Integration{ID: 1, Credentials: creds}
}

var _ = Describe("Ko-fi driver", func() {
	var d *kofi.Driver

	BeforeEach(func() {
		d = kofi.New()
	})

	Describe("DecodePayload", func() {
		It("reads the JSON embedded in the data form field", func() {
			payload, err := d.DecodePayload(formRequest(donation()))
			Expect(err).NotTo(HaveOccurred())
			Expect(payload.String("from_name")).To(Equal("Jo"))
			Expect(payload.String("amount")).To(Equal("10.00"))
		})

		It("accepts a bare JSON body", func() {
			raw, _ := json.Marshal(donation())
			payload, err := d.DecodePayload(&driver.Request{Body: raw, ContentType: "application/json"})
			Expect(err).NotTo(HaveOccurred())
			Expect(payload.String("type")).To(Equal("Donation"))
		})

		It("fails when the data field is missing", func() {
			_, err := d.DecodePayload(&driver.Request{Body: []byte("other=1"), ContentType: formContentType})
			Expect(err).To(MatchError(kofi.ErrMissingData))
		})

		It("fails on malformed JSON", func() {
			body := url.Values{"data": {"{not json"}}.Encode()
			_, err := d.DecodePayload(&driver.Request{Body: []byte(body), ContentType: formContentType})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("VerifyRequest", func() {
		It("accepts an exact token match", func() {
			Expect(d.VerifyRequest(formRequest(donation()), integrationWith("secret-token"))).To(BeTrue())
		})

		It("rejects when the stored credential is empty or absent", func() {
			Expect(d.VerifyRequest(formRequest(donation()), integrationWith(""))).To(BeFalse())
			Expect(d.VerifyRequest(formRequest(donation()), driver.Integration{})).To(BeFalse())
		})

		It("rejects a mismatched token", func() {
			Expect(d.VerifyRequest(formRequest(donation()), integrationWith("secret-tokeN"))).To(BeFalse())
			Expect(d.VerifyRequest(formRequest(donation()), integrationWith("secret-token-longer"))).To(BeFalse())
		})

		It("rejects payloads without a token", func() {
			payload := donation()
			delete(payload, "verification_token")
			Expect(d.VerifyRequest(formRequest(payload), integrationWith("secret-token"))).To(BeFalse())

			payload["verification_token"] = 42
			Expect(d.VerifyRequest(formRequest(payload), integrationWith("secret-token"))).To(BeFalse())
		})

		It("returns false on a malformed body", func() {
			req := &driver.Request{Body: []byte("data=%zz"), ContentType: formContentType}
			Expect(d.VerifyRequest(req, integrationWith("secret-token"))).To(BeFalse())
		})
	})

	Describe("ParseEventType", func() {
		DescribeTable("classification",
			func(kind any, want string, ok bool) {
				got, found := d.ParseEventType(driver.Payload{"type": kind})
				Expect(found).To(Equal(ok))
				Expect(got).To(Equal(want))
			},
			Entry("donation", "Donation", kofi.EventDonation, true),
			Entry("subscription", "Subscription", kofi.EventSubscription, true),
			Entry("commission", "Commission", kofi.EventCommission, true),
			Entry("shop order", "Shop Order", kofi.EventShopOrder, true),
			Entry("unknown", "Raffle", "", false),
			Entry("non-string", 7, "", false),
			Entry("nil", nil, "", false),
		)

		It("is stable across calls", func() {
			p := driver.Payload{"type": "Donation"}
			a, _ := d.ParseEventType(p)
			b, _ := d.ParseEventType(p)
			Expect(a).To(Equal(b))
		})
	})

	Describe("NormalizeEvent", func() {
		It("prefers the transaction id as message id", func() {
			payload, _ := d.DecodePayload(formRequest(donation()))
			event := d.NormalizeEvent(payload, kofi.EventDonation)

			Expect(event.Service).To(Equal(kofi.ServiceKey))
			Expect(event.MessageID).To(Equal("txn-1"))
			Expect(*event.ActorName).To(Equal("Jo"))
			Expect(*event.Message).To(Equal("Great stream!"))
			Expect(event.Amount.String()).To(Equal("10"))
			Expect(*event.Currency).To(Equal("USD"))
			Expect(event.Tags).To(HaveKeyWithValue("amount", "10.00"))
			Expect(event.Tags).To(HaveKeyWithValue("from_name", "Jo"))
		})

		It("falls back to message_id, then a generated id", func() {
			payload := donation()
			delete(payload, "kofi_transaction_id")
			p, _ := d.DecodePayload(formRequest(payload))
			Expect(d.NormalizeEvent(p, kofi.EventDonation).MessageID).To(Equal("msg-1"))

			delete(payload, "message_id")
			p, _ = d.DecodePayload(formRequest(payload))
			first := d.NormalizeEvent(p, kofi.EventDonation).MessageID
			second := d.NormalizeEvent(p, kofi.EventDonation).MessageID
			Expect(first).NotTo(BeEmpty())
			Expect(second).NotTo(Equal(first))
		})

		It("blanks the message of private events", func() {
			payload := donation()
			payload["is_public"] = false
			p, _ := d.DecodePayload(formRequest(payload))
			event := d.NormalizeEvent(p, kofi.EventDonation)

			Expect(event.Message).To(BeNil())
			Expect(event.Tags).To(HaveKeyWithValue("message", ""))
		})

		It("drops the verification token from the stored payload", func() {
			payload, _ := d.DecodePayload(formRequest(donation()))
			event := d.NormalizeEvent(payload, kofi.EventDonation)

			Expect(event.Raw).NotTo(HaveKey("verification_token"))
			Expect(event.Raw).To(HaveKeyWithValue("kofi_transaction_id", "txn-1"))
			Expect(payload).To(HaveKey("verification_token"))
		})

		It("coerces every tag to a string", func() {
			payload := donation()
			payload["amount"] = 5
			p, _ := d.DecodePayload(formRequest(payload))
			event := d.NormalizeEvent(p, kofi.EventDonation)
			Expect(event.Tags).To(HaveKeyWithValue("amount", "5"))
		})
	})

	Describe("ControlUpdates", func() {
		normalize := func(payload map[string]any, eventType string) driver.NormalizedEvent {
			p, err := d.DecodePayload(formRequest(payload))
			Expect(err).NotTo(HaveOccurred())
			return d.NormalizeEvent(p, eventType)
		}

		It("counts, totals and records the donor", func() {
			updates := d.ControlUpdates(normalize(donation(), kofi.EventDonation))

			Expect(updates).To(HaveLen(4))
			Expect(updates[kofi.ControlKofisReceived].Kind).To(Equal(driver.UpdateIncrement))
			Expect(updates[kofi.ControlTotalReceived].Kind).To(Equal(driver.UpdateAdd))
			Expect(updates[kofi.ControlTotalReceived].Amount.String()).To(Equal("10"))
			Expect(updates[kofi.ControlLatestDonorName]).To(Equal(driver.Set("Jo")))
			Expect(updates[kofi.ControlLatestDonationMessage]).To(Equal(driver.Set("Great stream!")))
		})

		It("still counts a donation without an amount", func() {
			payload := donation()
			delete(payload, "amount")
			updates := d.ControlUpdates(normalize(payload, kofi.EventDonation))

			Expect(updates).To(HaveKey(kofi.ControlKofisReceived))
			Expect(updates).NotTo(HaveKey(kofi.ControlTotalReceived))
		})

		It("records subscribers", func() {
			payload := donation()
			payload["type"] = "Subscription"
			updates := d.ControlUpdates(normalize(payload, kofi.EventSubscription))

			Expect(updates).To(HaveKey(kofi.ControlTotalReceived))
			Expect(updates[kofi.ControlLatestSubscriberName]).To(Equal(driver.Set("Jo")))
			Expect(updates).NotTo(HaveKey(kofi.ControlKofisReceived))
		})

		It("has no rules for commissions or shop orders", func() {
			Expect(d.ControlUpdates(normalize(donation(), kofi.EventCommission))).To(BeEmpty())
			Expect(d.ControlUpdates(normalize(donation(), kofi.EventShopOrder))).To(BeEmpty())
		})
	})

	It("declares a provisioned control for every key it updates", func() {
		keys := map[string]bool{}
		for _, def := range d.AutoProvisionedControls() {
			keys[def.Key] = true
		}
		for _, key := range []string{
			kofi.ControlKofisReceived,
			kofi.ControlTotalReceived,
			kofi.ControlLatestDonorName,
			kofi.ControlLatestDonationMessage,
			kofi.ControlLatestSubscriberName,
		} {
			Expect(keys).To(HaveKey(key))
		}
	})
})
