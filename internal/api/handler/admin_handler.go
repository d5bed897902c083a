package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
	"github.com/fitcoach/coaching-platform/internal/core/ports"
)

// AdminHandler carries the privileged mutations: role changes,
// assignment management and integrity audits. Routes using it sit
// behind the admin RBAC middleware, so the handlers themselves only
// deal with request shape.
type AdminHandler struct {
	roles         ports.RoleDirectory
	relationships ports.RelationshipDirectory
	gateway       ports.DataGateway
	notifier      ports.Notifier
}

func NewAdminHandler(roles ports.RoleDirectory, relationships ports.RelationshipDirectory, gateway ports.DataGateway, notifier ports.Notifier) *AdminHandler {
	return &AdminHandler{roles: roles, relationships: relationships, gateway: gateway, notifier: notifier}
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=client trainer admin"`
}

type assignRequest struct {
	ClientID  string `json:"clientId" validate:"required"`
	TrainerID string `json:"trainerId" validate:"required"`
}

type reassignRequest struct {
	ClientID      string `json:"clientId" validate:"required"`
	FromTrainerID string `json:"fromTrainerId" validate:"required"`
	ToTrainerID   string `json:"toTrainerId" validate:"required"`
}

// SetRole replaces a member's active role.
//
// @Summary      Set a member's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        memberId  path      string          true  "Member id"
// @Param        body      body      setRoleRequest  true  "New role"
// @Success      204       {string}  string  ""
// @Failure      400       {object}  map[string]string
// @Failure      403       {object}  map[string]string
// @Security     BearerAuth
// @Router       /admin/members/{memberId}/role [put]
func (h *AdminHandler) SetRole(c echo.Context) error {
	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.roles.SetRole(c.Request().Context(), c.Param("memberId"), domain.Role(req.Role)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Assign creates an active trainer-client assignment. Assigning an
// already-assigned pair is a no-op.
//
// @Summary      Assign a client to a trainer
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      assignRequest  true  "Assignment"
// @Success      204   {string}  string  ""
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Security     BearerAuth
// @Router       /admin/assignments [post]
func (h *AdminHandler) Assign(c echo.Context) error {
	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.relationships.Assign(c.Request().Context(), req.ClientID, req.TrainerID); err != nil {
		return err
	}

	if h.notifier != nil {
		h.notifier.Enqueue(ports.TrainerNotification{
			TrainerID: req.TrainerID,
			ClientID:  req.ClientID,
			Type:      "client_assigned",
			Message:   "A client was assigned to you.",
		})
	}
	return c.NoContent(http.StatusNoContent)
}

// Reassign moves a client to a new trainer. The old assignment is
// deactivated, not deleted, so historical records keep their original
// trainerId and remain reachable only to admins.
//
// @Summary      Reassign a client to a new trainer
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      reassignRequest  true  "Reassignment"
// @Success      204   {string}  string  ""
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Security     BearerAuth
// @Router       /admin/assignments/reassign [post]
func (h *AdminHandler) Reassign(c echo.Context) error {
	var req reassignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.relationships.Reassign(c.Request().Context(), req.ClientID, req.FromTrainerID, req.ToTrainerID); err != nil {
		return err
	}

	if h.notifier != nil {
		h.notifier.Enqueue(ports.TrainerNotification{
			TrainerID: req.ToTrainerID,
			ClientID:  req.ClientID,
			Type:      "client_assigned",
			Message:   "A client was reassigned to you.",
		})
	}
	return c.NoContent(http.StatusNoContent)
}

// Audit scans a collection and reports records violating its integrity
// rule, typically orphaned rows written before the rule existed.
//
// @Summary      Audit a collection's integrity
// @Tags         admin
// @Produce      json
// @Param        collection  path      string  true  "Protected collection name"
// @Success      200         {object}  domain.ValidationReport
// @Failure      400         {object}  map[string]string
// @Failure      403         {object}  map[string]string
// @Security     BearerAuth
// @Router       /admin/integrity/{collection} [get]
func (h *AdminHandler) Audit(c echo.Context) error {
	ac, err := ctxAuth(c)
	if err != nil {
		return err
	}
	col, err := collectionParam(c)
	if err != nil {
		return err
	}

	report, err := h.gateway.AuditCollection(c.Request().Context(), col, ac)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
