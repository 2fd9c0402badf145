package http

import (
	"time"

	"fooddelivery/internal/core/application/usecases/queries"
)

// CreateOrderRequest is the body of POST /order. CustomerID is only honoured
// for admins; customers always order for themselves.
type CreateOrderRequest struct {
	CustomerID   string             `json:"customerId,omitempty"`
	RestaurantID string             `json:"restaurantId"`
	Items        []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
	Price      int64  `json:"price"`
}

// CreateCourierRequest is the body of POST /courier. ID must match the sub
// claim the courier authenticates with; a new id is generated when omitted.
type CreateCourierRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type SetAvailabilityRequest struct {
	Availability string `json:"availability"`
}

type OrderItemResponse struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
	Price      int64  `json:"price"`
}

type OrderCourierResponse struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type OrderResponse struct {
	ID           string                `json:"id"`
	CustomerID   string                `json:"customerId"`
	RestaurantID string                `json:"restaurantId"`
	Status       string                `json:"status"`
	Items        []OrderItemResponse   `json:"items"`
	Total        int64                 `json:"total"`
	Courier      *OrderCourierResponse `json:"courier"`
	CourierID    *string               `json:"courierId"`
	PickedUpAt   *time.Time            `json:"pickedUpAt,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

type OrderStatusResponse struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	CourierID *string   `json:"courierId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CourierResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Availability string    `json:"availability"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newOrderResponse(o queries.GetOrderQueryResponse) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			MenuItemID: item.MenuItemID.String(),
			Quantity:   item.Quantity,
			Price:      item.Price,
		}
	}

	resp := OrderResponse{
		ID:           o.ID.String(),
		CustomerID:   o.CustomerID.String(),
		RestaurantID: o.RestaurantID.String(),
		Status:       o.Status.String(),
		Items:        items,
		Total:        o.Total,
		PickedUpAt:   o.PickedUpAt,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	if o.Courier != nil {
		id := o.Courier.ID.String()
		resp.Courier = &OrderCourierResponse{ID: id, Name: o.Courier.Name}
		resp.CourierID = &id
	}
	return resp
}

func newOrderStatusResponse(s queries.GetOrderStatusQueryResponse) OrderStatusResponse {
	resp := OrderStatusResponse{
		OrderID:   s.OrderID.String(),
		Status:    s.Status.String(),
		UpdatedAt: s.UpdatedAt,
	}
	if s.CourierID != nil {
		id := s.CourierID.String()
		resp.CourierID = &id
	}
	return resp
}

func newCourierResponse(c queries.GetAllCouriersQueryResponse) CourierResponse {
	return CourierResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Availability: c.Availability.String(),
		CreatedAt:    c.CreatedAt,
	}
}
