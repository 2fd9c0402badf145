package http

import (
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Handlers are the use cases exposed over HTTP.
type Handlers struct {
	CreateOrder            commands.CreateOrderCommandHandler
	ApplyTransition        commands.ApplyTransitionCommandHandler
	ClaimOrder             commands.ClaimOrderCommandHandler
	AssignCourier          commands.AssignCourierCommandHandler
	PickupOrder            commands.PickupOrderCommandHandler
	CreateCourier          commands.CreateCourierCommandHandler
	SetCourierAvailability commands.SetCourierAvailabilityCommandHandler

	GetOrder       queries.GetOrderQueryHandler
	GetOrderStatus queries.GetOrderStatusQueryHandler
	ListOrders     queries.ListOrdersQueryHandler
	GetAllCouriers queries.GetAllCouriersQueryHandler
}

// Server maps REST routes onto the application handlers.
type Server struct {
	h Handlers
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

// Register mounts the routes on e. Everything except /health and the push
// channel requires a bearer token. push may be nil.
func (s *Server) Register(e *echo.Echo, auth ports.Authenticator, push http.Handler) {
	e.GET("/health", s.Health)
	if push != nil {
		e.GET("/ws", echo.WrapHandler(push))
	}

	orders := e.Group("/order", BearerAuth(auth))
	orders.POST("", s.CreateOrder)
	orders.GET("", s.ListOrders)
	orders.GET("/:id", s.GetOrder)
	orders.GET("/:id/status", s.GetOrderStatus)
	orders.PATCH("/:id/prepare", s.transition(order.Preparing))
	orders.PATCH("/:id/ready", s.transition(order.Ready))
	orders.PATCH("/:id/deliver", s.transition(order.Delivered))
	orders.PATCH("/:id/cancel", s.transition(order.Cancelled))
	orders.PATCH("/:id/claim", s.ClaimOrder)
	orders.PATCH("/:id/assign", s.AssignCourier)
	orders.PATCH("/:id/pickup", s.PickupOrder)

	couriers := e.Group("/courier", BearerAuth(auth))
	couriers.GET("", s.GetCouriers)
	couriers.POST("", s.CreateCourier)
	couriers.PATCH("/:id/availability", s.SetCourierAvailability)
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /order.
func (s *Server) CreateOrder(c echo.Context) error {
	by, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	customerID := by.ID()
	if req.CustomerID != "" {
		if customerID, err = parseUUID("customerId", req.CustomerID); err != nil {
			return err
		}
	}

	restaurantID, err := parseUUID("restaurantId", req.RestaurantID)
	if err != nil {
		return err
	}

	items := make([]order.Item, 0, len(req.Items))
	for _, line := range req.Items {
		menuItemID, err := parseUUID("menuItemId", line.MenuItemID)
		if err != nil {
			return err
		}
		item, err := order.NewItem(menuItemID, line.Quantity, line.Price)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	cmd, err := commands.NewCreateOrderCommand(by, customerID, restaurantID, items)
	if err != nil {
		return err
	}

	o, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, newOrderResponse(queries.NewGetOrderQueryResponse(o, "")))
}

// ListOrders handles GET /order?status=<s>.
func (s *Server) ListOrders(c echo.Context) error {
	by, err := actorFrom(c)
	if err != nil {
		return err
	}

	var status *order.Status
	if raw := c.QueryParam("status"); raw != "" {
		parsed, err := order.ParseStatus(raw)
		if err != nil {
			return err
		}
		status = &parsed
	}

	query, err := queries.NewListOrdersQuery(by, status)
	if err != nil {
		return err
	}

	orders, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	resp := make([]OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = newOrderResponse(o)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetOrder handles GET /order/:id.
func (s *Server) GetOrder(c echo.Context) error {
	by, orderID, err := actorAndID(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(by, orderID)
	if err != nil {
		return err
	}

	o, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderResponse(o))
}

// GetOrderStatus handles GET /order/:id/status.
func (s *Server) GetOrderStatus(c echo.Context) error {
	by, orderID, err := actorAndID(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderStatusQuery(by, orderID)
	if err != nil {
		return err
	}

	status, err := s.h.GetOrderStatus.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderStatusResponse(status))
}

// transition handles the PATCH endpoints that map one-to-one onto a target status.
func (s *Server) transition(target order.Status) echo.HandlerFunc {
	return func(c echo.Context) error {
		by, orderID, err := actorAndID(c)
		if err != nil {
			return err
		}

		cmd, err := commands.NewApplyTransitionCommand(orderID, target, by)
		if err != nil {
			return err
		}

		o, err := s.h.ApplyTransition.Handle(c.Request().Context(), cmd)
		if err != nil {
			return err
		}
		return orderJSON(c, o)
	}
}

// ClaimOrder handles PATCH /order/:id/claim. The courier is the caller.
func (s *Server) ClaimOrder(c echo.Context) error {
	by, orderID, err := actorAndID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, by)
	if err != nil {
		return err
	}

	o, err := s.h.ClaimOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return orderJSON(c, o)
}

// AssignCourier handles PATCH /order/:id/assign.
func (s *Server) AssignCourier(c echo.Context) error {
	by, orderID, err := actorAndID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignCourierCommand(orderID, by)
	if err != nil {
		return err
	}

	o, err := s.h.AssignCourier.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return orderJSON(c, o)
}

// PickupOrder handles PATCH /order/:id/pickup.
func (s *Server) PickupOrder(c echo.Context) error {
	by, orderID, err := actorAndID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewPickupOrderCommand(orderID, by)
	if err != nil {
		return err
	}

	o, err := s.h.PickupOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return orderJSON(c, o)
}

// GetCouriers handles GET /courier.
func (s *Server) GetCouriers(c echo.Context) error {
	by, err := actorFrom(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetAllCouriersQuery(by)
	if err != nil {
		return err
	}

	couriers, err := s.h.GetAllCouriers.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	resp := make([]CourierResponse, len(couriers))
	for i, cr := range couriers {
		resp[i] = newCourierResponse(cr)
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateCourier handles POST /courier.
func (s *Server) CreateCourier(c echo.Context) error {
	by, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req CreateCourierRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	courierID := kernel.NewUUID()
	if req.ID != "" {
		if courierID, err = parseUUID("id", req.ID); err != nil {
			return err
		}
	}

	cmd, err := commands.NewCreateCourierCommand(by, courierID, req.Name)
	if err != nil {
		return err
	}

	cr, err := s.h.CreateCourier.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, courierJSON(cr))
}

// SetCourierAvailability handles PATCH /courier/:id/availability.
func (s *Server) SetCourierAvailability(c echo.Context) error {
	by, courierID, err := actorAndID(c)
	if err != nil {
		return err
	}

	var req SetAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	availability, err := courier.ParseAvailability(req.Availability)
	if err != nil {
		return err
	}

	cmd, err := commands.NewSetCourierAvailabilityCommand(by, courierID, availability)
	if err != nil {
		return err
	}

	cr, err := s.h.SetCourierAvailability.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courierJSON(cr))
}

func actorAndID(c echo.Context) (by actor.Actor, id kernel.UUID, err error) {
	if by, err = actorFrom(c); err != nil {
		return by, id, err
	}
	id, err = parseUUID("id", c.Param("id"))
	return by, id, err
}

func parseUUID(param, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, nil
}

func orderJSON(c echo.Context, o *order.Order) error {
	return c.JSON(http.StatusOK, newOrderResponse(queries.NewGetOrderQueryResponse(o, "")))
}

func courierJSON(cr *courier.Courier) CourierResponse {
	return CourierResponse{
		ID:           cr.ID().String(),
		Name:         cr.Name(),
		Availability: cr.Availability().String(),
		CreatedAt:    cr.CreatedAt(),
	}
}
