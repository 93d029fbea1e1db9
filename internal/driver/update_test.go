package driver_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"liveoverlay.app/hooks/internal/driver"
)

var _ = Describe("UpdateInstruction", func() {
	It("builds each variant", func() {
		Expect(driver.Set("x")).To(Equal(driver.UpdateInstruction{Kind: driver.UpdateSet, Value: "x"}))
		Expect(driver.Increment().Kind).To(Equal(driver.UpdateIncrement))

		add := driver.Add(decimal.RequireFromString("10.00"))
		Expect(add.Kind).To(Equal(driver.UpdateAdd))
		Expect(add.Amount.String()).To(Equal("10"))
	})

	It("names kinds", func() {
		Expect(driver.UpdateSet.String()).To(Equal("set"))
		Expect(driver.UpdateIncrement.String()).To(Equal("increment"))
		Expect(driver.UpdateAdd.String()).To(Equal("add"))
		Expect(driver.UpdateKind(9).String()).To(Equal("UpdateKind(9)"))
	})
})
