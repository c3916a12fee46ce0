package handler

import (
	"net/http"

	"github.com/AlexRayo/lcr-acopio/internal/apierror"
	"github.com/AlexRayo/lcr-acopio/internal/dto"
	"github.com/AlexRayo/lcr-acopio/internal/middleware"
	"github.com/AlexRayo/lcr-acopio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EntregasHandler struct{ svc service.EntregaService }

func NewEntregasHandler(svc service.EntregaService) *EntregasHandler {
	return &EntregasHandler{svc: svc}
}

// Crear godoc
// @Summary Registrar una entrega de cafe
// @Tags entregas
// @Accept json
// @Produce json
// @Param body body dto.CrearEntregaRequest true "Entrega"
// @Success 201 {object} dto.EntregaResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/entregas [post]
func (h *EntregasHandler) Crear(c *gin.Context) {
	var req dto.CrearEntregaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido"))
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EntregasHandler) Listar(c *gin.Context) {
	var proveedorID *uuid.UUID
	if raw := c.Query("proveedor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("proveedor_id invalido"))
			return
		}
		proveedorID = &id
	}
	soloPendientes := c.Query("pendientes") == "true"

	resp, err := h.svc.Listar(c.Request.Context(), proveedorID, soloPendientes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar entregas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EntregasHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Inventario godoc
// @Summary Inventario de cafe pendiente de liquidar
// @Description Agrupa las entregas no liquidadas por tipo de cafe y humedad.
// @Tags entregas
// @Produce json
// @Success 200 {array} dto.InventarioItemResponse
// @Router /v1/inventario [get]
func (h *EntregasHandler) Inventario(c *gin.Context) {
	resp, err := h.svc.Inventario(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar inventario"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
