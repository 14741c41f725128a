package order

import (
	"strconv"

	"aggregate-persistence/core/errs"
	"aggregate-persistence/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the order routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/orders")
	group.Get("/:id", h.HandleGet)
	group.Post("/", h.HandleCreate)
	group.Put("/:id", h.HandleUpdate)
}

// HandleGet returns one order with its items.
// @Summary Get Order
// @Description Returns the order with its items and current version.
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Not Found"
// @Security ApiKeyAuth
// @Router /orders/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.fail(c, err)
	}
	o, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(o)
}

// HandleCreate places an order.
// @Summary Create Order
// @Tags orders
// @Accept json
// @Produce json
// @Param order body CreateInput true "Order to place"
// @Success 201 {object} SaveResult
// @Failure 400 {object} map[string]string "Invalid Order"
// @Security ApiKeyAuth
// @Router /orders [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var in CreateInput
	if err := c.BodyParser(&in); err != nil {
		return h.fail(c, errs.Wrap(errs.CodeInvalidArgument, "order.HandleCreate", err))
	}
	res, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// HandleUpdate changes an order. The body must carry the version the client
// read; a stale version yields 409.
// @Summary Update Order
// @Description Applies the changes under the version the client read. Items, when given, replace the item list.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param changes body UpdateInput true "Changes and expected version"
// @Success 200 {object} SaveResult
// @Failure 400 {object} map[string]string "Invalid Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Version Conflict"
// @Security ApiKeyAuth
// @Router /orders/{id} [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.fail(c, err)
	}
	var in UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return h.fail(c, errs.Wrap(errs.CodeInvalidArgument, "order.HandleUpdate", err))
	}
	if in.Version <= 0 {
		return h.fail(c, errs.New(errs.CodeInvalidArgument, "order.HandleUpdate", "version is required"))
	}
	res, err := h.service.Update(c.UserContext(), id, in.Version, in.Apply)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(res)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Newf(errs.CodeInvalidArgument, "order.parseID", "invalid order id %q", c.Params("id"))
	}
	return id, nil
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	l := logger.WithRayID(h.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error("Order request failed", zap.Error(err))
	} else {
		l.Debug("Order request rejected", zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"code":  errs.CodeOf(err),
	})
}

// StatusOf maps an error to an HTTP status.
func StatusOf(err error) int {
	switch errs.CodeOf(err) {
	case errs.CodeNotFound:
		return fiber.StatusNotFound
	case errs.CodeOptimisticLock, errs.CodeDuplicateID:
		return fiber.StatusConflict
	case errs.CodeInvalidArgument, errs.CodeNullArgument, errs.CodeInvalidState, errs.CodeBatchLimit:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
