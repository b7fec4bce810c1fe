package command

// Order Commands

// CreateOrder leaves fields nil when they are absent from the request body.
type CreateOrder struct {
	ProductID *int `json:"productId"`
	Quantity  *int `json:"quantity"`
}

type CancelOrder struct {
	OrderID int `json:"orderId"`
}

type ChangeOrderStatus struct {
	OrderID int    `json:"orderId"`
	Status  string `json:"status"`
}
