package avro

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domain "meal_storefront/internal/domain/order"
)

// OrderCodec turns orders into OrderPlaced records and back.
type OrderCodec struct {
	enc *Encoder
}

func NewOrderCodec() (*OrderCodec, error) {
	enc, err := NewEncoder(OrderPlacedSchema)
	if err != nil {
		return nil, err
	}
	return &OrderCodec{enc: enc}, nil
}

func (c *OrderCodec) Encode(o *domain.Order) ([]byte, error) {
	if o == nil {
		return nil, fmt.Errorf("order is nil")
	}
	return c.enc.EncodeNative(toNative(o))
}

func (c *OrderCodec) Decode(binary []byte) (*domain.Order, error) {
	native, err := c.enc.DecodeNative(binary)
	if err != nil {
		return nil, err
	}
	record, ok := native.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("order placed record has type %T", native)
	}
	return fromNative(record)
}

func toNative(o *domain.Order) map[string]interface{} {
	items := make([]interface{}, 0, len(o.Items))
	for _, it := range o.Items {
		var notes interface{}
		if it.Notes != "" {
			notes = goavroUnion("string", it.Notes)
		}
		items = append(items, map[string]interface{}{
			"product_id": it.ProductID,
			"title":      it.Title,
			"quantity":   int32(it.Quantity),
			"price":      it.Price.String(),
			"notes":      notes,
		})
	}

	return map[string]interface{}{
		"id":             o.ID,
		"user_id":        o.UserID,
		"address_id":     o.AddressID,
		"payment_method": o.PaymentMethod,
		"subtotal":       o.Subtotal.String(),
		"delivery_fee":   o.DeliveryFee.String(),
		"total":          o.Total.String(),
		"status":         string(o.Status),
		"created_at":     o.CreatedAt.UTC(),
		"items":          items,
	}
}

func fromNative(record map[string]interface{}) (*domain.Order, error) {
	r := reader{record: record}
	o := &domain.Order{
		ID:            r.str("id"),
		UserID:        r.str("user_id"),
		AddressID:     r.str("address_id"),
		PaymentMethod: r.str("payment_method"),
		Subtotal:      r.money("subtotal"),
		DeliveryFee:   r.money("delivery_fee"),
		Total:         r.money("total"),
		Status:        domain.Status(r.str("status")),
		CreatedAt:     r.timestamp("created_at"),
	}

	rawItems, _ := record["items"].([]interface{})
	for _, raw := range rawItems {
		fields, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("order placed item has type %T", raw)
		}
		ir := reader{record: fields}
		o.Items = append(o.Items, domain.Item{
			OrderID:   o.ID,
			ProductID: ir.str("product_id"),
			Title:     ir.str("title"),
			Quantity:  ir.integer("quantity"),
			Price:     ir.money("price"),
			Notes:     ir.optionalStr("notes"),
		})
		if ir.err != nil {
			return nil, ir.err
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return o, nil
}

// goavroUnion wraps a value the way goavro expects for union branches.
func goavroUnion(branch string, v interface{}) map[string]interface{} {
	return map[string]interface{}{branch: v}
}

// reader pulls typed fields out of a decoded record and keeps the first error.
type reader struct {
	record map[string]interface{}
	err    error
}

func (r *reader) fail(key string, v interface{}) {
	if r.err == nil {
		r.err = fmt.Errorf("field %s has unexpected type %T", key, v)
	}
}

func (r *reader) str(key string) string {
	s, ok := r.record[key].(string)
	if !ok {
		r.fail(key, r.record[key])
	}
	return s
}

func (r *reader) optionalStr(key string) string {
	switch v := r.record[key].(type) {
	case nil:
		return ""
	case map[string]interface{}:
		s, _ := v["string"].(string)
		return s
	default:
		r.fail(key, v)
		return ""
	}
}

func (r *reader) integer(key string) int {
	switch v := r.record[key].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		r.fail(key, v)
		return 0
	}
}

func (r *reader) money(key string) decimal.Decimal {
	d, err := decimal.NewFromString(r.str(key))
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("field %s: %w", key, err)
	}
	return d
}

func (r *reader) timestamp(key string) time.Time {
	t, ok := r.record[key].(time.Time)
	if !ok {
		r.fail(key, r.record[key])
	}
	return t.UTC()
}
