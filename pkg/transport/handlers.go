package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/PaulosSouza/gostack-desafio-database-relations/pkg/domain/model"
	"github.com/PaulosSouza/gostack-desafio-database-relations/pkg/domain/service"
)

func Router(customers service.CustomerService, products service.ProductService, orders service.OrderService) http.Handler {
	srv := &server{customers: customers, products: products, orders: orders}

	r := mux.NewRouter()
	s := r.PathPrefix("/api/v1").Subrouter()

	s.HandleFunc("/customers", srv.createCustomer).Methods(http.MethodPost)
	s.HandleFunc("/products", srv.createProduct).Methods(http.MethodPost)
	s.HandleFunc("/orders", srv.createOrder).Methods(http.MethodPost)
	s.HandleFunc("/orders/{ID}", srv.getOrder).Methods(http.MethodGet)
	return logMiddleware(r)
}

type server struct {
	customers service.CustomerService
	products  service.ProductService
	orders    service.OrderService
}

type createCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type customerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := s.customers.RegisterCustomer(r.Context(), req.Name, req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, customerResponse{
		ID:    customer.ID.String(),
		Name:  customer.Name,
		Email: customer.Email,
	})
}

type createProductRequest struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

type productResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

func (s *server) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := s.products.AddProduct(r.Context(), req.Name, req.PriceCents, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, productResponse{
		ID:         product.ID.String(),
		Name:       product.Name,
		PriceCents: product.PriceCents,
		Quantity:   product.Quantity,
	})
}

type createOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	Products   []orderItemRequest `json:"products"`
}

type orderItemRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type orderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customer_id"`
	Products   []orderItemResponse `json:"order_products"`
}

type orderItemResponse struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

func (s *server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	items := make([]model.OrderItem, 0, len(req.Products))
	for _, product := range req.Products {
		productID, err := uuid.Parse(product.ID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		items = append(items, model.OrderItem{ProductID: productID, Quantity: product.Quantity})
	}

	order, err := s.orders.PlaceOrder(r.Context(), customerID, items)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (s *server) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(mux.Vars(r)["ID"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := s.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func toOrderResponse(order *model.Order) orderResponse {
	resp := orderResponse{
		ID:         order.ID.String(),
		CustomerID: order.CustomerID.String(),
		Products:   make([]orderItemResponse, 0, len(order.Products)),
	}
	for _, lineItem := range order.Products {
		resp.Products = append(resp.Products, orderItemResponse{
			ID:         lineItem.ID.String(),
			ProductID:  lineItem.ProductID.String(),
			PriceCents: lineItem.PriceCents,
			Quantity:   lineItem.Quantity,
		})
	}
	return resp
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrCustomerNotFound),
		errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrInsufficientStock),
		errors.Is(err, model.ErrEmailTaken),
		errors.Is(err, model.ErrProductNameTaken),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrDuplicateItem),
		errors.Is(err, service.ErrInvalidCustomer),
		errors.Is(err, service.ErrInvalidProductName),
		errors.Is(err, service.ErrNegativePrice),
		errors.Is(err, service.ErrInvalidStockQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.WithField("err", err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithField("err", err).Error("write response")
	}
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
