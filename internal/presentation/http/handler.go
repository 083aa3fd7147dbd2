package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apporder "github.com/Zhima-Mochi/orderdesk/internal/application/order"
	appproduct "github.com/Zhima-Mochi/orderdesk/internal/application/product"
	appuser "github.com/Zhima-Mochi/orderdesk/internal/application/user"
	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
	domorder "github.com/Zhima-Mochi/orderdesk/internal/domain/order"
	domproduct "github.com/Zhima-Mochi/orderdesk/internal/domain/product"
	domuser "github.com/Zhima-Mochi/orderdesk/internal/domain/user"
)

type Handler struct {
	users    *appuser.Service
	products *appproduct.Service
	orders   *apporder.Service
}

func NewHandler(users *appuser.Service, products *appproduct.Service, orders *apporder.Service) *Handler {
	return &Handler{
		users:    users,
		products: products,
		orders:   orders,
	}
}

// ===== Users =====

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func newUserResponse(u *domuser.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	u, err := h.users.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newUserResponse(u))
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), domuser.ID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(u))
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), paginationFrom(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	body := make([]userResponse, 0, len(users))
	for _, u := range users {
		body = append(body, newUserResponse(u))
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	u, err := h.users.Update(r.Context(), domuser.ID(chi.URLParam(r, "id")), req.Name, req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(u))
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), domuser.ID(chi.URLParam(r, "id"))); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Products =====

type productMetadataPayload struct {
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	SKU         string   `json:"sku"`
}

type createProductRequest struct {
	Name     string                 `json:"name"`
	Price    float64                `json:"price"`
	Stock    int32                  `json:"stock"`
	Status   string                 `json:"status,omitempty"`
	Metadata productMetadataPayload `json:"metadata"`
}

type productResponse struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Price     float64                `json:"price"`
	Stock     int32                  `json:"stock"`
	Status    string                 `json:"status"`
	Metadata  productMetadataPayload `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	DeletedAt *time.Time             `json:"deleted_at,omitempty"`
}

func newProductResponse(p *domproduct.Product) productResponse {
	return productResponse{
		ID:     p.ID.String(),
		Name:   p.Name,
		Price:  p.Price,
		Stock:  p.Stock,
		Status: string(p.Status),
		Metadata: productMetadataPayload{
			Description: p.Metadata.Description,
			Category:    p.Metadata.Category,
			Tags:        p.Metadata.Tags,
			SKU:         p.Metadata.SKU,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		DeletedAt: p.DeletedAt,
	}
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	p, err := h.products.Create(r.Context(), req.Name, req.Price, req.Stock,
		domproduct.Status(req.Status), domproduct.Metadata{
			Description: req.Metadata.Description,
			Category:    req.Metadata.Category,
			Tags:        req.Metadata.Tags,
			SKU:         req.Metadata.SKU,
		})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newProductResponse(p))
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.Get(r.Context(), domproduct.ID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductResponse(p))
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), paginationFrom(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	body := make([]productResponse, 0, len(products))
	for _, p := range products {
		body = append(body, newProductResponse(p))
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) handleUpdateProductMetadata(w http.ResponseWriter, r *http.Request) {
	var req productMetadataPayload
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	err := h.products.UpdateMetadata(r.Context(), domproduct.ID(chi.URLParam(r, "id")),
		domproduct.Metadata{
			Description: req.Description,
			Category:    req.Category,
			Tags:        req.Tags,
			SKU:         req.SKU,
		})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type adjustStockRequest struct {
	Delta int32 `json:"delta"`
}

func (h *Handler) handleAdjustProductStock(w http.ResponseWriter, r *http.Request) {
	var req adjustStockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.products.AdjustStock(r.Context(), domproduct.ID(chi.URLParam(r, "id")), req.Delta); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), domproduct.ID(chi.URLParam(r, "id"))); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Orders =====

type createOrderRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type orderResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	ProductID  string     `json:"product_id"`
	Quantity   int32      `json:"quantity"`
	TotalPrice float64    `json:"total_price"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

func newOrderResponse(o *domorder.Order) orderResponse {
	return orderResponse{
		ID:         o.ID.String(),
		UserID:     o.UserID.String(),
		ProductID:  o.ProductID.String(),
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		DeletedAt:  o.DeletedAt,
	}
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	// Boundary validation; the workflow re-checks quantity defensively.
	if req.UserID == "" {
		writeDomainError(w, core.Required("user_id"))
		return
	}
	if req.ProductID == "" {
		writeDomainError(w, core.Required("product_id"))
		return
	}
	if req.Quantity <= 0 {
		writeDomainError(w, core.Invalid("quantity", "must be greater than zero"))
		return
	}

	o, err := h.orders.CreateOrder(r.Context(), domuser.ID(req.UserID), domproduct.ID(req.ProductID), req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newOrderResponse(o))
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetOrder(r.Context(), domorder.ID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderResponse(o))
}

// handleListOrders serves both the plain listing and the by-user variant,
// selected by the user_id query parameter.
func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	p := paginationFrom(r)

	var (
		orders []*domorder.Order
		err    error
	)
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		orders, err = h.orders.ListOrdersByUser(r.Context(), domuser.ID(userID), p)
	} else {
		orders, err = h.orders.ListOrders(r.Context(), p)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	body := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		body = append(body, newOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.DeleteOrder(r.Context(), domorder.ID(chi.URLParam(r, "id"))); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Helpers =====

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func paginationFrom(r *http.Request) core.Pagination {
	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	return core.NewPagination(page, limit)
}
