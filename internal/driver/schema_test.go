package driver_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/driver/kofi"
	"liveoverlay.app/hooks/internal/driver/patreon"
)

var _ = Describe("Credential schema", func() {
	It("marks the Ko-fi verification token as required", func() {
		schema := driver.CredentialSchema(kofi.New())
		Expect(schema.Required).To(ContainElement("verification_token"))
		_, ok := schema.Properties.Get("verification_token")
		Expect(ok).To(BeTrue())
	})

	It("marks the Patreon webhook secret as required", func() {
		schema := driver.CredentialSchema(patreon.New())
		Expect(schema.Required).To(ContainElement("webhook_secret"))
	})

	Describe("ValidateCredentials", func() {
		It("accepts a complete form", func() {
			err := driver.ValidateCredentials(kofi.New(), map[string]string{"verification_token": "abc"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects missing or blank required fields", func() {
			err := driver.ValidateCredentials(kofi.New(), map[string]string{"verification_token": "   "})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("verification_token"))

			err = driver.ValidateCredentials(kofi.New(), nil)
			Expect(err).To(HaveOccurred())
		})

		It("rejects unknown fields", func() {
			err := driver.ValidateCredentials(kofi.New(), map[string]string{
				"verification_token": "abc",
				"api_key":            "x",
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("api_key"))
		})
	})
})
