package handler

import (
	"net/http"
	"strconv"

	"github.com/AlexRayo/lcr-acopio/internal/apierror"
	"github.com/AlexRayo/lcr-acopio/internal/dto"
	"github.com/AlexRayo/lcr-acopio/internal/middleware"
	"github.com/AlexRayo/lcr-acopio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler {
	return &CajaHandler{svc: svc}
}

// RegistrarMovimiento godoc
// @Summary Registrar un movimiento manual de caja
// @Description Entradas y salidas manuales. Las salidas por liquidacion las registra el propio flujo de liquidacion.
// @Tags caja
// @Accept json
// @Produce json
// @Param body body dto.MovimientoManualRequest true "Movimiento"
// @Success 201 {object} dto.CajaResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/caja/movimiento [post]
func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido"))
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CajaHandler) ListarMovimientos(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Saldo godoc
// @Summary Saldo actual de caja
// @Description Suma de entradas menos salidas de los movimientos activos.
// @Tags caja
// @Produce json
// @Success 200 {object} dto.SaldoCajaResponse
// @Router /v1/caja/saldo [get]
func (h *CajaHandler) Saldo(c *gin.Context) {
	resp, err := h.svc.Saldo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar saldo"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
