package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/winstgrad/miniapp-api/internal/api/metrics"
	"github.com/winstgrad/miniapp-api/internal/core/domain"
	"github.com/winstgrad/miniapp-api/internal/core/ports"
)

// OrderHandler handles checkout and order listing.
type OrderHandler struct {
	orderService ports.OrderService
	notify       func(ports.OrderNotification)
}

// NewOrderHandler builds the handler. notify may be nil when no
// dispatcher is wired (tests).
func NewOrderHandler(orderService ports.OrderService, notify func(ports.OrderNotification)) *OrderHandler {
	return &OrderHandler{orderService: orderService, notify: notify}
}

type orderItemRequest struct {
	Type string          `json:"type"`
	ID   string          `json:"id"`
	Qty  decimal.Decimal `json:"qty"`
}

type createOrderRequest struct {
	Items         []orderItemRequest `json:"items"`
	Comment       string             `json:"comment"`
	DeliveryPrice decimal.Decimal    `json:"deliveryPrice"`
}

type createOrderResponse struct {
	OK      bool            `json:"ok"`
	OrderID string          `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
}

type orderErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Create materializes an order from cart lines. Unit prices come from
// the catalog, never from the request.
//
// @Summary      Create an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string              false  "Replay guard for duplicate submissions"
// @Param        body             body      createOrderRequest  true   "Cart lines"
// @Success      200              {object}  createOrderResponse
// @Failure      400              {object}  orderErrorResponse
// @Failure      401              {object}  map[string]string
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, orderErrorResponse{Error: "invalid_payload"})
	}

	items := make([]ports.OrderLineInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.OrderLineInput{Kind: it.Type, ItemID: it.ID, Quantity: it.Qty})
	}

	result, err := h.orderService.Create(c.Request().Context(), ports.CreateOrderInput{
		UserID:         user.ID,
		Items:          items,
		Comment:        req.Comment,
		DeliveryPrice:  req.DeliveryPrice,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		if code, ok := orderErrorCode(err); ok {
			metrics.OrderErrorsTotal.WithLabelValues(code).Inc()
			return c.JSON(http.StatusBadRequest, orderErrorResponse{Error: code})
		}
		return err
	}

	if !result.AlreadyExisted {
		metrics.OrdersCreatedTotal.Inc()
		if h.notify != nil {
			h.notify(ports.OrderNotification{
				OrderID:   result.OrderID,
				UserID:    user.ID,
				Username:  user.Username,
				Total:     result.Total,
				ItemCount: len(items),
			})
		}
	}

	return c.JSON(http.StatusOK, createOrderResponse{OK: true, OrderID: result.OrderID, Total: result.Total})
}

// orderErrorCode maps pricing validation failures to their wire codes.
func orderErrorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidType):
		return "invalid_type", true
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity", true
	case errors.Is(err, domain.ErrUnknownReference):
		return "unknown_reference", true
	case errors.Is(err, domain.ErrEmptyOrder):
		return "empty_order", true
	}
	return "", false
}

// List returns the caller's orders, newest first.
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  map[string]string
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// ListRecent returns the newest orders across all users (staff only; the
// RBAC middleware gates the route).
//
// @Summary      List recent orders (staff)
// @Tags         orders
// @Produce      json
// @Param        limit  query     int  false  "Max rows (default 100)"
// @Success      200    {array}   domain.Order
// @Failure      403    {object}  map[string]string
// @Router       /api/admin/orders [get]
func (h *OrderHandler) ListRecent(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	orders, err := h.orderService.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}
