package avro

// OrderPlacedSchema describes an order that was written successfully.
// Money is carried as decimal strings so no precision is lost.
const OrderPlacedSchema = `{
	"type": "record",
	"name": "OrderPlaced",
	"namespace": "meal_storefront.order",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "user_id", "type": "string"},
		{"name": "address_id", "type": "string"},
		{"name": "payment_method", "type": "string"},
		{"name": "subtotal", "type": "string"},
		{"name": "delivery_fee", "type": "string"},
		{"name": "total", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "created_at", "type": {"type": "long", "logicalType": "timestamp-millis"}},

		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "OrderPlacedItem",
				"fields": [
					{"name": "product_id", "type": "string"},
					{"name": "title", "type": "string"},
					{"name": "quantity", "type": "int"},
					{"name": "price", "type": "string"},
					{"name": "notes", "type": ["null", "string"], "default": null}
				]
			}
		}}
	]
}`
