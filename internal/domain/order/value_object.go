package order

// Status is the lifecycle label of an order header.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Source tells where the lines of a draft came from, so the right
// collection is cleared after a successful submission.
type Source string

const (
	SourceCart    Source = "cart"
	SourceReorder Source = "reorder"
)
