package handler

import (
	"curamind-be/internal/dto"
	"curamind-be/internal/pkg/apperror"
	"curamind-be/internal/pkg/logger"
	"curamind-be/internal/pkg/serverutils"
	"curamind-be/internal/service"
	internalWS "curamind-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	service *service.NotificationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewNotificationHandler(service *service.NotificationService, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

type notificationPage struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// ServeWs authenticates the handshake and hands the connection to the hub.
// Browsers cannot set headers on a websocket request, so the token query
// parameter is checked before the Authorization header.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return apperror.Unauthorized("missing token")
	}

	userIDStr, _, err := serverutils.ParseToken(tokenStr)
	if err != nil {
		h.logger.Warn("NOTIFICATION", "Invalid token in websocket handshake", map[string]interface{}{"error": err.Error()})
		return apperror.Unauthorized("invalid token")
	}
	accountID, err := uuid.Parse(userIDStr)
	if err != nil {
		return apperror.Unauthorized("invalid token")
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Debug("NOTIFICATION", "Websocket session started", map[string]interface{}{"account_id": accountID})
		internalWS.ServeWs(h.hub, conn, accountID)
		h.logger.Debug("NOTIFICATION", "Websocket session ended", map[string]interface{}{"account_id": accountID})
	})(c)
}

func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	accountID, err := serverutils.CurrentAccountId(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	notifications, total, err := h.service.GetNotifications(c.UserContext(), accountID, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse("Notifications", notificationPage{
		Items: notifications,
		Total: total,
		Page:  offset/limit + 1,
		Limit: limit,
	}))
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	accountID, err := serverutils.CurrentAccountId(c)
	if err != nil {
		return err
	}

	count, err := h.service.GetUnreadCount(c.UserContext(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Unread count", fiber.Map{"count": count}))
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	accountID, err := serverutils.CurrentAccountId(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid notification id")
	}

	if err := h.service.MarkAsRead(c.UserContext(), accountID, id); err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse[any]("Notification marked as read", nil))
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	accountID, err := serverutils.CurrentAccountId(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkAllAsRead(c.UserContext(), accountID); err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse[any]("All notifications marked as read", nil))
}

func (h *NotificationHandler) GetPreferences(c *fiber.Ctx) error {
	accountID, err := serverutils.CurrentAccountId(c)
	if err != nil {
		return err
	}

	res, err := h.service.GetPreference(c.UserContext(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Notification preferences", res))
}

func (h *NotificationHandler) SavePreferences(c *fiber.Ctx) error {
	accountID, err := serverutils.CurrentAccountId(c)
	if err != nil {
		return err
	}

	var req dto.NotificationPreferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := h.service.SavePreference(c.UserContext(), accountID, &req)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Notification preferences saved", res))
}

func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notif := router.Group("/notifications")
	notif.Use(serverutils.JwtMiddleware)
	notif.Get("/", h.GetNotifications)
	notif.Get("/unread-count", h.GetUnreadCount)
	notif.Patch("/read-all", h.MarkAllAsRead)
	notif.Patch("/:id/read", h.MarkAsRead)
	notif.Get("/preferences", h.GetPreferences)
	notif.Put("/preferences", h.SavePreferences)

	router.Get("/ws", h.ServeWs)
}
