package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
	"github.com/fitcoach/coaching-platform/internal/core/ports"
)

// RecordsHandler exposes the protected record collections over HTTP.
// Every call goes through the gateway, so handlers never touch the
// store directly and never apply scoping themselves.
type RecordsHandler struct {
	gateway  ports.DataGateway
	notifier ports.Notifier
}

func NewRecordsHandler(gateway ports.DataGateway, notifier ports.Notifier) *RecordsHandler {
	return &RecordsHandler{gateway: gateway, notifier: notifier}
}

type recordsResponse struct {
	Records []domain.Record `json:"records"`
	Count   int             `json:"count"`
}

// collectionParam parses the :collection path parameter. Unknown names
// surface as domain.ErrNotProtectedCollection, which the error handler
// maps to 400.
func collectionParam(c echo.Context) (domain.Collection, error) {
	name := c.Param("collection")
	if !domain.IsProtectedCollection(name) {
		return "", domain.ErrNotProtectedCollection
	}
	return domain.Collection(name), nil
}

// List returns the caller's own records in a collection.
//
// @Summary      List own records
// @Tags         records
// @Produce      json
// @Param        collection  path      string  true  "Protected collection name"
// @Success      200         {object}  recordsResponse
// @Failure      400         {object}  map[string]string
// @Failure      401         {object}  map[string]string
// @Failure      403         {object}  map[string]string
// @Security     BearerAuth
// @Router       /records/{collection} [get]
func (h *RecordsHandler) List(c echo.Context) error {
	ac, err := ctxAuth(c)
	if err != nil {
		return err
	}
	col, err := collectionParam(c)
	if err != nil {
		return err
	}

	records, err := h.gateway.GetScoped(c.Request().Context(), col, ac)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recordsResponse{Records: records, Count: len(records)})
}

// Get returns a single record by id. A record owned by someone else is
// indistinguishable from a missing one.
//
// @Summary      Get a record by id
// @Tags         records
// @Produce      json
// @Param        collection  path      string  true  "Protected collection name"
// @Param        id          path      string  true  "Record id"
// @Success      200         {object}  domain.Record
// @Failure      400         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Security     BearerAuth
// @Router       /records/{collection}/{id} [get]
func (h *RecordsHandler) Get(c echo.Context) error {
	ac, err := ctxAuth(c)
	if err != nil {
		return err
	}
	col, err := collectionParam(c)
	if err != nil {
		return err
	}

	rec, err := h.gateway.GetByIDScoped(c.Request().Context(), col, c.Param("id"), ac)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// Create inserts a record. Writes are validated against the
// collection's integrity rule and ownership policy before touching the
// store. A new weekly check-in additionally notifies the trainer named
// on the record.
//
// @Summary      Create a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        collection  path      string         true  "Protected collection name"
// @Param        body        body      domain.Record  true  "Record payload"
// @Success      201         {object}  domain.Record
// @Failure      400         {object}  map[string]string
// @Failure      403         {object}  map[string]string
// @Failure      422         {object}  map[string]string
// @Security     BearerAuth
// @Router       /records/{collection} [post]
func (h *RecordsHandler) Create(c echo.Context) error {
	ac, err := ctxAuth(c)
	if err != nil {
		return err
	}
	col, err := collectionParam(c)
	if err != nil {
		return err
	}

	var rec domain.Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	created, err := h.gateway.CreateRecord(c.Request().Context(), col, rec, ac)
	if err != nil {
		return err
	}

	if col == domain.CollectionWeeklyCheckins && h.notifier != nil {
		if trainerID := created.TrainerID(); trainerID != "" {
			h.notifier.Enqueue(ports.TrainerNotification{
				TrainerID: trainerID,
				ClientID:  created.ClientID(),
				Type:      "weekly_checkin",
				Message:   "A client submitted a weekly check-in.",
			})
		}
	}

	return c.JSON(http.StatusCreated, created)
}

// Update merges fields into an existing record the caller owns.
// Ownership fields cannot change after creation.
//
// @Summary      Update a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        collection  path      string         true  "Protected collection name"
// @Param        id          path      string         true  "Record id"
// @Param        body        body      domain.Record  true  "Fields to merge"
// @Success      204         {string}  string  ""
// @Failure      400         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Failure      409         {object}  map[string]string
// @Failure      422         {object}  map[string]string
// @Security     BearerAuth
// @Router       /records/{collection}/{id} [put]
func (h *RecordsHandler) Update(c echo.Context) error {
	ac, err := ctxAuth(c)
	if err != nil {
		return err
	}
	col, err := collectionParam(c)
	if err != nil {
		return err
	}

	var rec domain.Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.gateway.UpdateRecord(c.Request().Context(), col, c.Param("id"), rec, ac); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a record the caller owns.
//
// @Summary      Delete a record
// @Tags         records
// @Param        collection  path      string  true  "Protected collection name"
// @Param        id          path      string  true  "Record id"
// @Success      204         {string}  string  ""
// @Failure      400         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Security     BearerAuth
// @Router       /records/{collection}/{id} [delete]
func (h *RecordsHandler) Delete(c echo.Context) error {
	ac, err := ctxAuth(c)
	if err != nil {
		return err
	}
	col, err := collectionParam(c)
	if err != nil {
		return err
	}

	if err := h.gateway.DeleteRecord(c.Request().Context(), col, c.Param("id"), ac); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListForClient returns records for a named client. Clients may only
// name themselves; trainers must hold an active assignment to the
// client; admins pass.
//
// @Summary      List records for a client
// @Tags         records
// @Produce      json
// @Param        clientId    path      string  true  "Client member id"
// @Param        collection  path      string  true  "Protected collection name"
// @Success      200         {object}  recordsResponse
// @Failure      400         {object}  map[string]string
// @Failure      403         {object}  map[string]string
// @Security     BearerAuth
// @Router       /clients/{clientId}/records/{collection} [get]
func (h *RecordsHandler) ListForClient(c echo.Context) error {
	ac, err := ctxAuth(c)
	if err != nil {
		return err
	}
	col, err := collectionParam(c)
	if err != nil {
		return err
	}

	records, err := h.gateway.GetForClient(c.Request().Context(), col, c.Param("clientId"), ac)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recordsResponse{Records: records, Count: len(records)})
}

// ListForTrainer returns trainer-scoped records for a named trainer.
// Admin only.
//
// @Summary      List records for a trainer
// @Tags         records
// @Produce      json
// @Param        trainerId   path      string  true  "Trainer member id"
// @Param        collection  path      string  true  "Protected collection name"
// @Success      200         {object}  recordsResponse
// @Failure      400         {object}  map[string]string
// @Failure      403         {object}  map[string]string
// @Security     BearerAuth
// @Router       /trainers/{trainerId}/records/{collection} [get]
func (h *RecordsHandler) ListForTrainer(c echo.Context) error {
	ac, err := ctxAuth(c)
	if err != nil {
		return err
	}
	col, err := collectionParam(c)
	if err != nil {
		return err
	}

	records, err := h.gateway.GetForTrainer(c.Request().Context(), col, c.Param("trainerId"), ac)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recordsResponse{Records: records, Count: len(records)})
}
