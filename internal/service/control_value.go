package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/model"
)

const maxTextValueRunes = 1000

// sanitizeValue normalizes an absolute value for the control type. Numeric
// types reject anything that does not parse as a decimal.
func sanitizeValue(t model.ControlType, value string) (string, error) {
	if t.Numeric() {
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return "", fmt.Errorf("%w: %q is not a number", ErrInvalidControlValue, value)
		}
		return d.String(), nil
	}
	if utf8.RuneCountInString(value) > maxTextValueRunes {
		value = string([]rune(value)[:maxTextValueRunes])
	}
	return value, nil
}

// numericValue reads a control's current value. Blank or non-numeric values
// count as zero.
func numericValue(c model.Control) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(c.Value))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// nextValue computes the value control c holds after applying in.
func nextValue(c model.Control, in driver.UpdateInstruction) (string, error) {
	switch in.Kind {
	case driver.UpdateSet:
		return sanitizeValue(c.Type, in.Value)
	case driver.UpdateIncrement:
		return clampCounter(c.Type, numericValue(c).Add(c.Config.StepOrDefault())).String(), nil
	case driver.UpdateAdd:
		return clampCounter(c.Type, numericValue(c).Add(in.Amount)).String(), nil
	default:
		return "", fmt.Errorf("unknown update kind %s", in.Kind)
	}
}

// clampCounter keeps counters from going below zero. A decrement can arrive
// for something counted before the control was provisioned.
func clampCounter(t model.ControlType, d decimal.Decimal) decimal.Decimal {
	if t == model.ControlTypeCounter && d.IsNegative() {
		return decimal.Zero
	}
	return d
}
