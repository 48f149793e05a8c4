package pricing

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DeliveryFee is a fee that may not be known yet. A resolved zero fee means
// free delivery and is distinct from an unresolved fee.
type DeliveryFee struct {
	amount   decimal.Decimal
	resolved bool
}

func Unresolved() DeliveryFee {
	return DeliveryFee{}
}

func Resolved(amount decimal.Decimal) DeliveryFee {
	return DeliveryFee{amount: amount, resolved: true}
}

func (f DeliveryFee) IsResolved() bool {
	return f.resolved
}

// Amount returns the fee and whether it is resolved.
func (f DeliveryFee) Amount() (decimal.Decimal, bool) {
	return f.amount, f.resolved
}

func (f DeliveryFee) Equal(other DeliveryFee) bool {
	if f.resolved != other.resolved {
		return false
	}
	return !f.resolved || f.amount.Equal(other.amount)
}

// MarshalJSON renders null while unresolved.
func (f DeliveryFee) MarshalJSON() ([]byte, error) {
	if !f.resolved {
		return []byte("null"), nil
	}
	return json.Marshal(f.amount)
}

func (f *DeliveryFee) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Unresolved()
		return nil
	}
	var amount decimal.Decimal
	if err := json.Unmarshal(data, &amount); err != nil {
		return err
	}
	*f = Resolved(amount)
	return nil
}
