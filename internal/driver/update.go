package driver

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type UpdateKind int

const (
	// UpdateSet assigns Value after sanitizing for the control type.
	UpdateSet UpdateKind = iota + 1
	// UpdateIncrement adds the control's configured step.
	UpdateIncrement
	// UpdateAdd adds Amount.
	UpdateAdd
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateSet:
		return "set"
	case UpdateIncrement:
		return "increment"
	case UpdateAdd:
		return "add"
	default:
		return fmt.Sprintf("UpdateKind(%d)", int(k))
	}
}

type UpdateInstruction struct {
	Kind   UpdateKind
	Value  string
	Amount decimal.Decimal
}

func Set(value string) UpdateInstruction {
	return UpdateInstruction{Kind: UpdateSet, Value: value}
}

func Increment() UpdateInstruction {
	return UpdateInstruction{Kind: UpdateIncrement}
}

func Add(amount decimal.Decimal) UpdateInstruction {
	return UpdateInstruction{Kind: UpdateAdd, Amount: amount}
}
