package handlers

import (
	"net/http"

	"restaurant_pos_backend/internal/services"
	"restaurant_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TableHandler serves dining tables.
type TableHandler struct {
	tableService services.TableService
}

func NewTableHandler(tableService services.TableService) *TableHandler {
	return &TableHandler{tableService: tableService}
}

// GetTables lists tables, optionally filtered by ?status=.
func (h *TableHandler) GetTables(c *gin.Context) {
	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}
	tables, err := h.tableService.List(c.Request.Context(), status)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch tables")
		return
	}
	utils.RespondWithData(c, http.StatusOK, tables)
}

func (h *TableHandler) GetTable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	table, err := h.tableService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch table")
		return
	}
	utils.RespondWithData(c, http.StatusOK, table)
}

func (h *TableHandler) CreateTable(c *gin.Context) {
	var req services.TableRequest
	if !bindJSON(c, &req) {
		return
	}
	table, err := h.tableService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create table")
		return
	}
	utils.RespondWithData(c, http.StatusCreated, table)
}

func (h *TableHandler) UpdateTable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.TableRequest
	if !bindJSON(c, &req) {
		return
	}
	table, err := h.tableService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update table")
		return
	}
	utils.RespondWithData(c, http.StatusOK, table)
}

func (h *TableHandler) DeleteTable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.tableService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete table")
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Table deleted successfully")
}
