package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

type HTTPHandler struct {
	sessions *service.SessionService
	catalog  *service.CatalogService
	logger   *zap.Logger
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

type UserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type UserResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}

type ProductResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Price        string `json:"price"`
	PriceDisplay string `json:"price_display"`
	Currency     string `json:"currency"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
}

// ItemPayload is a caller-built line item. Price uses the "<amount> <marker>"
// notation, e.g. "19.99 $".
type ItemPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

// AddToCartRequest adds either a catalog product (ProductID) or a
// caller-built item (Item).
type AddToCartRequest struct {
	ProductID string       `json:"product_id"`
	RequestID string       `json:"request_id"`
	Item      *ItemPayload `json:"item"`
}

type LineItemResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	PriceDisplay string `json:"price_display"`
	Image        string `json:"image"`
	Quantity     int    `json:"quantity"`
	Subtotal     string `json:"subtotal"`
}

type CartResponse struct {
	Items        []LineItemResponse `json:"items"`
	Total        string             `json:"total"`
	TotalDisplay string             `json:"total_display"`
	Currency     string             `json:"currency"`
}

func NewHTTPHandler(sessions *service.SessionService, catalog *service.CatalogService, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{sessions: sessions, catalog: catalog, logger: logger}
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *HTTPHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := h.sessions.CreateSession(r.Context())
	writeJSON(w, http.StatusCreated, SessionResponse{SessionID: id})
}

func (h *HTTPHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.CloseSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.signIn(w, r, h.sessions.Login)
}

func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.signIn(w, r, h.sessions.Register)
}

func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{LoggedIn: false})
}

func (h *HTTPHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessions.CurrentUser(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, r, chi.URLParam(r, "sessionID"))
}

func (h *HTTPHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	var err error
	switch {
	case req.Item != nil:
		var in domain.ProductInput
		in, err = h.toProductInput(*req.Item)
		if err == nil {
			err = h.sessions.AddItem(r.Context(), sessionID, in)
		}
	case req.ProductID != "":
		err = h.sessions.AddProduct(r.Context(), sessionID, req.ProductID, req.RequestID)
	default:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "missing required fields"})
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeCart(w, r, sessionID)
}

func (h *HTTPHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.sessions.RemoveItem)
}

func (h *HTTPHandler) IncrementQuantity(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.sessions.IncrementItem)
}

func (h *HTTPHandler) DecrementQuantity(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.sessions.DecrementItem)
}

func (h *HTTPHandler) mutate(w http.ResponseWriter, r *http.Request, cmd func(ctx context.Context, sessionID, productID string) error) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := cmd(r.Context(), sessionID, chi.URLParam(r, "productID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, r, sessionID)
}

func (h *HTTPHandler) signIn(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, sessionID string, user domain.User) error) {
	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := fn(r.Context(), sessionID, domain.User{Email: req.Email, Name: req.Name}); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.sessions.CurrentUser(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *HTTPHandler) writeCart(w http.ResponseWriter, r *http.Request, sessionID string) {
	view, err := h.sessions.Cart(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(view))
}

func (h *HTTPHandler) toProductInput(p ItemPayload) (domain.ProductInput, error) {
	price, err := domain.ParsePrice(p.Price, h.sessions.Currency())
	if err != nil {
		return domain.ProductInput{}, err
	}
	return domain.ProductInput{
		ID:       p.ID,
		Name:     p.Name,
		Price:    price,
		Image:    p.Image,
		Quantity: p.Quantity,
	}, nil
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := httpStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}

func httpStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidPrice):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, service.ErrDuplicateRequest):
		return http.StatusConflict, "duplicate request"
	case errors.Is(err, service.ErrCatalogUnavailable):
		return http.StatusBadGateway, "catalog unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Title:        p.Title,
		Price:        p.Price.String(),
		PriceDisplay: p.Price.Display(),
		Currency:     p.Price.Currency,
		Description:  p.Description,
		Image:        p.Image,
		Category:     p.Category,
	}
}

func toUserResponse(u *domain.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{LoggedIn: true, Email: u.Email, Name: u.Name}
}

func toCartResponse(view domain.CartView) CartResponse {
	items := make([]LineItemResponse, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, LineItemResponse{
			ID:           item.ID,
			Name:         item.Name,
			Price:        item.Price.String(),
			PriceDisplay: item.Price.Display(),
			Image:        item.Image,
			Quantity:     item.Quantity,
			Subtotal:     item.Subtotal().String(),
		})
	}
	return CartResponse{
		Items:        items,
		Total:        view.Total.String(),
		TotalDisplay: view.Total.Display(),
		Currency:     view.Total.Currency,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
