package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
	"github.com/fitcoach/coaching-platform/internal/core/ports"
)

// RelationshipHandler exposes the caller's own side of the
// trainer-client assignment graph.
type RelationshipHandler struct {
	relationships ports.RelationshipDirectory
}

func NewRelationshipHandler(relationships ports.RelationshipDirectory) *RelationshipHandler {
	return &RelationshipHandler{relationships: relationships}
}

type assignmentsResponse struct {
	Assignments []domain.TrainerClientAssignment `json:"assignments"`
	Count       int                              `json:"count"`
}

// MyClients lists the active assignments of the calling trainer.
//
// @Summary      List the caller's assigned clients
// @Tags         relationships
// @Produce      json
// @Success      200  {object}  assignmentsResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Security     BearerAuth
// @Router       /trainers/me/clients [get]
func (h *RelationshipHandler) MyClients(c echo.Context) error {
	ac, err := ctxAuth(c)
	if err != nil {
		return err
	}

	assignments, err := h.relationships.ClientsForTrainer(c.Request().Context(), ac.MemberID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, assignmentsResponse{Assignments: assignments, Count: len(assignments)})
}

// MyTrainer lists the active assignments of the calling client.
// Normally one, but the model does not forbid several.
//
// @Summary      List the caller's trainer assignments
// @Tags         relationships
// @Produce      json
// @Success      200  {object}  assignmentsResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Security     BearerAuth
// @Router       /clients/me/trainer [get]
func (h *RelationshipHandler) MyTrainer(c echo.Context) error {
	ac, err := ctxAuth(c)
	if err != nil {
		return err
	}

	assignments, err := h.relationships.TrainersForClient(c.Request().Context(), ac.MemberID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, assignmentsResponse{Assignments: assignments, Count: len(assignments)})
}
