package order

// Order statuses follow the fulfilment flow. New orders always start in
// StatusReceived; the remaining transitions are driven by admins.
const (
	StatusReceived  = "received"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusReceived, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Item is a line of an order. Name and unit price are snapshotted at order
// time so later catalog syncs cannot rewrite order history.
type Item struct {
	ProductID           string  `json:"productId"`
	ProductNameSnapshot string  `json:"productName"`
	UnitPriceSnapshot   float64 `json:"unitPrice"`
	Qty                 int     `json:"qty"`
	LineTotal           float64 `json:"lineTotal"`
}

type Order struct {
	ID               string  `json:"id"`
	UserID           int     `json:"userId"`
	Status           string  `json:"status"`
	Subtotal         float64 `json:"subtotal"`
	Shipping         float64 `json:"shipping"`
	Total            float64 `json:"total"`
	CustomerName     string  `json:"customerName"`
	CustomerWhatsApp string  `json:"customerWhatsapp"`
	CustomerEmail    string  `json:"customerEmail"`
	Notes            *string `json:"notes"`
	Items            []Item  `json:"items"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}
