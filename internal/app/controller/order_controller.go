package controller

import (
	"net/http"
	"time"

	"github.com/clozet/clozet-backend/internal/app/service"
	"github.com/clozet/clozet-backend/internal/middleware"
	ws "github.com/clozet/clozet-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type OrderController struct {
	orderService    service.OrderService
	trackingService service.TrackingService
	hub             *ws.Hub
	upgrader        websocket.Upgrader
}

// NewOrderController wires order history and live tracking. allowedOrigins
// gates websocket upgrades the same way CORS gates plain requests.
func NewOrderController(
	orderService service.OrderService,
	trackingService service.TrackingService,
	hub *ws.Hub,
	allowedOrigins []string,
) *OrderController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}
	return &OrderController{
		orderService:    orderService,
		trackingService: trackingService,
		hub:             hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins[origin]
			},
		},
	}
}

// GetOrders lists the signed-in identity's orders, newest first
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.List(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrderByID returns one order
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	order, err := ctrl.orderService.Get(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err, "get order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetConfirmation shows the order confirmation, reconciling session_id once
// GET /api/v1/orders/:id/confirmation
func (ctrl *OrderController) GetConfirmation(c *gin.Context) {
	confirmation, err := ctrl.orderService.Confirmation(c.Request.Context(), c.Param("id"), c.Query("session_id"))
	if err != nil {
		respondError(c, err, "order confirmation")
		return
	}
	c.JSON(http.StatusOK, confirmation)
}

// ExportOrders downloads the order history as a spreadsheet
// GET /api/v1/orders/export
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	data, err := ctrl.orderService.Export(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, "export orders")
		return
	}

	filename := "clozet-orders-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, exportContentType, data)
}

// TrackOrder returns the live marker and the delivery timeline
// GET /api/v1/orders/:id/track
func (ctrl *OrderController) TrackOrder(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.trackingService.Track(c.Param("id")))
}

// TrackOrderWS streams marker updates for one order
// GET /api/v1/orders/:id/track/ws
// The token arrives as a query parameter and is never logged.
func (ctrl *OrderController) TrackOrderWS(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	orderID := c.Param("id")

	// first sight starts the marker so the scheduler moves it
	ctrl.trackingService.Track(orderID)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, orderID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Tracking subscriber connected", map[string]interface{}{
		"order_id": orderID,
	})
}
