package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"fooddelivery/cmd"
	httpin "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/in/ws"
	"fooddelivery/internal/adapters/out/jwtauth"
	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/core/application/events"
	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type ServerSuite struct {
	suite.Suite
	srv      *httptest.Server
	verifier *jwtauth.Verifier

	customer   actor.Actor
	restaurant actor.Actor
	courierA   actor.Actor
	courierB   actor.Actor
	admin      actor.Actor
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var err error
	s.verifier, err = jwtauth.NewVerifier("test-secret")
	s.Require().NoError(err)

	hub := ws.NewHub(logger, ws.Options{})
	app := cmd.NewCompositionRoot(
		memory.NewUnitOfWorkFactory(memory.NewStore()),
		events.NewDispatcher(logger, hub),
	)

	e := httpin.NewEcho(logger)
	httpin.NewServer(app.CreateHTTPHandlers()).Register(e, s.verifier, hub)
	s.srv = httptest.NewServer(e)
	s.T().Cleanup(func() {
		hub.Close()
		s.srv.Close()
	})

	s.customer = s.newActor(actor.Customer)
	s.restaurant = s.newActor(actor.Restaurant)
	s.courierA = s.newActor(actor.Courier)
	s.courierB = s.newActor(actor.Courier)
	s.admin = s.newActor(actor.Admin)
}

func (s *ServerSuite) newActor(role actor.Role) actor.Actor {
	a, err := actor.New(kernel.NewUUID(), role)
	s.Require().NoError(err)
	return a
}

type response struct {
	status int
	body   []byte
}

func (s *ServerSuite) do(method, path string, as *actor.Actor, body any) response {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		token, err := s.verifier.Sign(*as, time.Minute)
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return response{status: resp.StatusCode, body: raw}
}

func (s *ServerSuite) order(r response) httpin.OrderResponse {
	var o httpin.OrderResponse
	s.Require().NoError(json.Unmarshal(r.body, &o), string(r.body))
	return o
}

func (s *ServerSuite) errorKind(r response) string {
	var e httpin.ErrorResponse
	s.Require().NoError(json.Unmarshal(r.body, &e), string(r.body))
	s.Equal(r.status, e.Code)
	return e.Error
}

func (s *ServerSuite) createOrder() httpin.OrderResponse {
	r := s.do(http.MethodPost, "/order", &s.customer, httpin.CreateOrderRequest{
		RestaurantID: s.restaurant.ID().String(),
		Items: []httpin.OrderItemRequest{
			{MenuItemID: kernel.NewUUID().String(), Quantity: 2, Price: 1250},
			{MenuItemID: kernel.NewUUID().String(), Quantity: 1, Price: 500},
		},
	})
	s.Require().Equal(http.StatusCreated, r.status, string(r.body))
	return s.order(r)
}

func (s *ServerSuite) patch(id, action string, as actor.Actor) response {
	return s.do(http.MethodPatch, "/order/"+id+"/"+action, &as, nil)
}

func (s *ServerSuite) readyOrder() httpin.OrderResponse {
	o := s.createOrder()
	s.Require().Equal(http.StatusOK, s.patch(o.ID, "prepare", s.restaurant).status)
	r := s.patch(o.ID, "ready", s.restaurant)
	s.Require().Equal(http.StatusOK, r.status)
	return s.order(r)
}

func (s *ServerSuite) TestHealth() {
	r := s.do(http.MethodGet, "/health", nil, nil)

	s.Equal(http.StatusOK, r.status)
}

func (s *ServerSuite) TestCreateOrder() {
	o := s.createOrder()

	s.Equal("Pending", o.Status)
	s.Equal(s.customer.ID().String(), o.CustomerID)
	s.Equal(s.restaurant.ID().String(), o.RestaurantID)
	s.Len(o.Items, 2)
	s.Equal(int64(3000), o.Total)
	s.Nil(o.CourierID)
}

func (s *ServerSuite) TestCreateOrder_Rejected() {
	s.Run("restaurant cannot order", func() {
		r := s.do(http.MethodPost, "/order", &s.restaurant, httpin.CreateOrderRequest{
			RestaurantID: s.restaurant.ID().String(),
			Items:        []httpin.OrderItemRequest{{MenuItemID: kernel.NewUUID().String(), Quantity: 1, Price: 1}},
		})
		s.Equal(http.StatusForbidden, r.status)
		s.Equal("forbidden", s.errorKind(r))
	})

	s.Run("no items", func() {
		r := s.do(http.MethodPost, "/order", &s.customer, httpin.CreateOrderRequest{RestaurantID: s.restaurant.ID().String()})
		s.Equal(http.StatusBadRequest, r.status)
		s.Equal("invalid_request", s.errorKind(r))
	})

	s.Run("bad quantity", func() {
		r := s.do(http.MethodPost, "/order", &s.customer, httpin.CreateOrderRequest{
			RestaurantID: s.restaurant.ID().String(),
			Items:        []httpin.OrderItemRequest{{MenuItemID: kernel.NewUUID().String(), Quantity: 0, Price: 1}},
		})
		s.Equal(http.StatusBadRequest, r.status)
	})

	s.Run("malformed restaurant id", func() {
		r := s.do(http.MethodPost, "/order", &s.customer, httpin.CreateOrderRequest{RestaurantID: "pizza"})
		s.Equal(http.StatusBadRequest, r.status)
	})
}

func (s *ServerSuite) TestAuthentication() {
	s.Run("missing token", func() {
		r := s.do(http.MethodGet, "/order", nil, nil)
		s.Equal(http.StatusUnauthorized, r.status)
		s.Equal("unauthorized", s.errorKind(r))
	})

	s.Run("garbage token", func() {
		req, err := http.NewRequest(http.MethodGet, s.srv.URL+"/order", nil)
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer nope")
		resp, err := http.DefaultClient.Do(req)
		s.Require().NoError(err)
		defer resp.Body.Close()
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
	})
}

// create, prepare, ready, claim by A, losing claim by B, deliver, late cancel.
func (s *ServerSuite) TestHappyPathWithLosingClaim() {
	o := s.createOrder()

	r := s.patch(o.ID, "prepare", s.restaurant)
	s.Require().Equal(http.StatusOK, r.status, string(r.body))
	s.Equal("Preparing", s.order(r).Status)

	r = s.patch(o.ID, "ready", s.restaurant)
	s.Require().Equal(http.StatusOK, r.status)
	s.Equal("Ready", s.order(r).Status)

	r = s.patch(o.ID, "claim", s.courierA)
	s.Require().Equal(http.StatusOK, r.status, string(r.body))
	claimed := s.order(r)
	s.Equal("OutForDelivery", claimed.Status)
	s.Require().NotNil(claimed.CourierID)
	s.Equal(s.courierA.ID().String(), *claimed.CourierID)

	r = s.patch(o.ID, "claim", s.courierB)
	s.Equal(http.StatusConflict, r.status)
	s.Equal("conflict", s.errorKind(r))

	r = s.do(http.MethodGet, "/order/"+o.ID, &s.admin, nil)
	s.Require().Equal(http.StatusOK, r.status)
	s.Equal(s.courierA.ID().String(), *s.order(r).CourierID)

	r = s.patch(o.ID, "pickup", s.courierA)
	s.Require().Equal(http.StatusOK, r.status, string(r.body))
	s.NotNil(s.order(r).PickedUpAt)
	s.Equal("OutForDelivery", s.order(r).Status)

	r = s.patch(o.ID, "deliver", s.courierA)
	s.Require().Equal(http.StatusOK, r.status)
	s.Equal("Delivered", s.order(r).Status)

	r = s.patch(o.ID, "cancel", s.admin)
	s.Equal(http.StatusUnprocessableEntity, r.status)
	s.Equal("invalid_transition", s.errorKind(r))
}

func (s *ServerSuite) TestCancelDeliveredByEveryRole() {
	o := s.readyOrder()
	s.Require().Equal(http.StatusOK, s.patch(o.ID, "claim", s.courierA).status)
	s.Require().Equal(http.StatusOK, s.patch(o.ID, "pickup", s.courierA).status)
	s.Require().Equal(http.StatusOK, s.patch(o.ID, "deliver", s.courierA).status)

	callers := map[string]actor.Actor{
		"customer":           s.customer,
		"restaurant":         s.restaurant,
		"assigned courier":   s.courierA,
		"unassigned courier": s.courierB,
		"admin":              s.admin,
	}
	for name, caller := range callers {
		r := s.patch(o.ID, "cancel", caller)
		s.Equal(http.StatusUnprocessableEntity, r.status, name)
		s.Equal("invalid_transition", s.errorKind(r), name)
	}
}

func (s *ServerSuite) TestCancelWhilePending() {
	o := s.createOrder()

	r := s.patch(o.ID, "cancel", s.customer)
	s.Require().Equal(http.StatusOK, r.status)
	s.Equal("Cancelled", s.order(r).Status)

	r = s.patch(o.ID, "prepare", s.restaurant)
	s.Equal(http.StatusUnprocessableEntity, r.status)
}

func (s *ServerSuite) TestRepeatedTransitionFails() {
	o := s.createOrder()

	s.Require().Equal(http.StatusOK, s.patch(o.ID, "prepare", s.restaurant).status)
	r := s.patch(o.ID, "prepare", s.restaurant)
	s.Equal(http.StatusUnprocessableEntity, r.status)

	r = s.do(http.MethodGet, "/order/"+o.ID+"/status", &s.customer, nil)
	s.Require().Equal(http.StatusOK, r.status)
	var status httpin.OrderStatusResponse
	s.Require().NoError(json.Unmarshal(r.body, &status))
	s.Equal("Preparing", status.Status)
}

func (s *ServerSuite) TestCustomerIsForbidden() {
	o := s.readyOrder()

	for _, action := range []string{"prepare", "ready", "assign", "claim", "pickup", "deliver"} {
		r := s.patch(o.ID, action, s.customer)
		s.Equal(http.StatusForbidden, r.status, action)
	}
}

func (s *ServerSuite) TestOtherRestaurantIsForbidden() {
	o := s.createOrder()
	other := s.newActor(actor.Restaurant)

	r := s.patch(o.ID, "prepare", other)

	s.Equal(http.StatusForbidden, r.status)
}

func (s *ServerSuite) TestConcurrentClaims() {
	o := s.readyOrder()

	const n = 12
	couriers := make([]actor.Actor, n)
	for i := range couriers {
		couriers[i] = s.newActor(actor.Courier)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = make(map[int]int)
		winner   string
	)
	start := make(chan struct{})
	for _, c := range couriers {
		wg.Add(1)
		go func(c actor.Actor) {
			defer wg.Done()
			<-start
			r := s.patch(o.ID, "claim", c)
			mu.Lock()
			defer mu.Unlock()
			statuses[r.status]++
			if r.status == http.StatusOK {
				winner = c.ID().String()
			}
		}(c)
	}
	close(start)
	wg.Wait()

	s.Equal(1, statuses[http.StatusOK])
	s.Equal(n-1, statuses[http.StatusConflict])

	r := s.do(http.MethodGet, "/order/"+o.ID, &s.admin, nil)
	s.Require().Equal(http.StatusOK, r.status)
	final := s.order(r)
	s.Equal("OutForDelivery", final.Status)
	s.Require().NotNil(final.CourierID)
	s.Equal(winner, *final.CourierID)
}

func (s *ServerSuite) TestAutoAssign() {
	o := s.readyOrder()

	r := s.patch(o.ID, "assign", s.admin)
	s.Equal(http.StatusConflict, r.status)
	s.Equal("no_courier_available", s.errorKind(r))

	r = s.do(http.MethodPost, "/courier", &s.admin, httpin.CreateCourierRequest{ID: s.courierA.ID().String(), Name: "Ann"})
	s.Require().Equal(http.StatusCreated, r.status, string(r.body))

	r = s.do(http.MethodPatch, "/courier/"+s.courierA.ID().String()+"/availability", &s.courierB,
		httpin.SetAvailabilityRequest{Availability: "available"})
	s.Equal(http.StatusForbidden, r.status)

	r = s.do(http.MethodPatch, "/courier/"+s.courierA.ID().String()+"/availability", &s.courierA,
		httpin.SetAvailabilityRequest{Availability: "available"})
	s.Require().Equal(http.StatusOK, r.status, string(r.body))

	r = s.patch(o.ID, "assign", s.admin)
	s.Require().Equal(http.StatusOK, r.status, string(r.body))
	s.Equal(s.courierA.ID().String(), *s.order(r).CourierID)

	r = s.do(http.MethodGet, "/order/"+o.ID, &s.courierA, nil)
	s.Require().Equal(http.StatusOK, r.status)
	got := s.order(r)
	s.Require().NotNil(got.Courier)
	s.Equal("Ann", got.Courier.Name)
}

func (s *ServerSuite) TestCouriers() {
	r := s.do(http.MethodPost, "/courier", &s.customer, httpin.CreateCourierRequest{Name: "Ann"})
	s.Equal(http.StatusForbidden, r.status)

	r = s.do(http.MethodPost, "/courier", &s.admin, httpin.CreateCourierRequest{Name: "  "})
	s.Equal(http.StatusBadRequest, r.status)

	r = s.do(http.MethodPost, "/courier", &s.admin, httpin.CreateCourierRequest{Name: "Bob"})
	s.Require().Equal(http.StatusCreated, r.status)

	r = s.do(http.MethodGet, "/courier", &s.admin, nil)
	s.Require().Equal(http.StatusOK, r.status)
	var couriers []httpin.CourierResponse
	s.Require().NoError(json.Unmarshal(r.body, &couriers))
	s.Require().Len(couriers, 1)
	s.Equal("Bob", couriers[0].Name)
	s.Equal("Offline", couriers[0].Availability)

	r = s.do(http.MethodPatch, "/courier/"+kernel.NewUUID().String()+"/availability", &s.admin,
		httpin.SetAvailabilityRequest{Availability: "busy"})
	s.Equal(http.StatusNotFound, r.status)

	r = s.do(http.MethodPatch, "/courier/"+couriers[0].ID+"/availability", &s.admin,
		httpin.SetAvailabilityRequest{Availability: "sleeping"})
	s.Equal(http.StatusBadRequest, r.status)
}

func (s *ServerSuite) TestGetOrder() {
	o := s.createOrder()

	s.Run("owner", func() {
		r := s.do(http.MethodGet, "/order/"+o.ID, &s.customer, nil)
		s.Equal(http.StatusOK, r.status)
		s.Equal(o.ID, s.order(r).ID)
	})

	s.Run("restaurant", func() {
		s.Equal(http.StatusOK, s.do(http.MethodGet, "/order/"+o.ID, &s.restaurant, nil).status)
	})

	s.Run("another customer", func() {
		other := s.newActor(actor.Customer)
		s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/order/"+o.ID, &other, nil).status)
	})

	s.Run("courier before ready", func() {
		s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/order/"+o.ID, &s.courierA, nil).status)
	})

	s.Run("unknown", func() {
		r := s.do(http.MethodGet, "/order/"+kernel.NewUUID().String(), &s.admin, nil)
		s.Equal(http.StatusNotFound, r.status)
		s.Equal("not_found", s.errorKind(r))
	})

	s.Run("malformed id", func() {
		s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/order/42", &s.admin, nil).status)
	})
}

func (s *ServerSuite) TestListOrders() {
	pending := s.createOrder()
	ready := s.readyOrder()

	r := s.do(http.MethodGet, "/order", &s.admin, nil)
	s.Require().Equal(http.StatusOK, r.status)
	var all []httpin.OrderResponse
	s.Require().NoError(json.Unmarshal(r.body, &all))
	s.Len(all, 2)

	r = s.do(http.MethodGet, "/order?status=ready", &s.courierA, nil)
	s.Require().Equal(http.StatusOK, r.status)
	var claimable []httpin.OrderResponse
	s.Require().NoError(json.Unmarshal(r.body, &claimable))
	s.Require().Len(claimable, 1)
	s.Equal(ready.ID, claimable[0].ID)
	s.NotEqual(pending.ID, claimable[0].ID)

	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/order", &s.customer, nil).status)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/order?status=shipped", &s.admin, nil).status)
}

func (s *ServerSuite) TestPushOnTransition() {
	o := s.createOrder()

	url := "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	defer conn.Close()

	s.Require().NoError(conn.WriteJSON(map[string]string{"action": "joinRoom", "orderId": o.ID}))
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	var ack map[string]any
	s.Require().NoError(conn.ReadJSON(&ack))
	s.Require().Equal("joinedRoom", ack["event"])

	s.Require().Equal(http.StatusOK, s.patch(o.ID, "prepare", s.restaurant).status)

	var pushed map[string]any
	s.Require().NoError(conn.ReadJSON(&pushed))
	s.Equal("orderUpdated", pushed["event"])
	s.Equal(o.ID, pushed["orderId"])
	s.Equal("Preparing", pushed["status"])
}

func (s *ServerSuite) TestUnknownRoute() {
	r := s.do(http.MethodGet, "/nowhere", nil, nil)

	s.Equal(http.StatusNotFound, r.status)
	s.Equal("not_found", s.errorKind(r))
}
