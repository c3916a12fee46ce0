package handler

import (
	"net/http"
	"strconv"

	"github.com/AlexRayo/lcr-acopio/internal/apierror"
	"github.com/AlexRayo/lcr-acopio/internal/dto"
	"github.com/AlexRayo/lcr-acopio/internal/middleware"
	"github.com/AlexRayo/lcr-acopio/internal/model"
	"github.com/AlexRayo/lcr-acopio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LiquidacionesHandler struct{ svc service.LiquidacionService }

func NewLiquidacionesHandler(svc service.LiquidacionService) *LiquidacionesHandler {
	return &LiquidacionesHandler{svc: svc}
}

// Crear godoc
// @Summary Liquidar entregas de cafe de un proveedor
// @Description Calcula el monto bruto de las entregas, opcionalmente retiene un abono a prestamo y registra la salida de caja por el neto.
// @Tags liquidaciones
// @Accept json
// @Produce json
// @Param body body dto.CrearLiquidacionRequest true "Liquidacion"
// @Success 201 {object} dto.LiquidacionResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/liquidaciones [post]
func (h *LiquidacionesHandler) Crear(c *gin.Context) {
	var req dto.CrearLiquidacionRequest
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

func (h *LiquidacionesHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.Listar(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar liquidaciones"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LiquidacionesHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Liquidacion no encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular godoc
// @Summary Anular una liquidacion
// @Description Marca la liquidacion como anulada y refleja el estado en el movimiento de caja. Idempotente.
// @Tags liquidaciones
// @Accept json
// @Produce json
// @Param id path string true "ID de la liquidacion"
// @Param body body dto.AnularLiquidacionRequest true "Razon de anulacion"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/liquidaciones/{id}/anular [post]
func (h *LiquidacionesHandler) Anular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AnularLiquidacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido"))
		return
	}
	if err := h.svc.Anular(c.Request.Context(), id, userID, req.Razon); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LiquidacionesHandler) Reactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Reactivar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Eliminar godoc
// @Summary Eliminar una liquidacion en cascada
// @Description Revierte los abonos ligados, libera las entregas y borra el movimiento de caja en una sola transaccion.
// @Tags liquidaciones
// @Param id path string true "ID de la liquidacion"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/liquidaciones/{id} [delete]
func (h *LiquidacionesHandler) Eliminar(c *gin.Context) {
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

// ObtenerRecibo returns the async receipt status for a settlement.
func (h *LiquidacionesHandler) ObtenerRecibo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	recibo, err := h.svc.Recibo(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Recibo no encontrado"))
		return
	}
	c.JSON(http.StatusOK, reciboToResponse(recibo))
}

// DescargarReciboPDF streams the generated PDF. 409 while the worker has not
// finished it yet.
func (h *LiquidacionesHandler) DescargarReciboPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	recibo, err := h.svc.Recibo(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Recibo no encontrado"))
		return
	}
	if recibo.Estado != model.ReciboEstadoGenerado || recibo.PDFPath == nil {
		c.JSON(http.StatusConflict, apierror.New("El recibo aun no ha sido generado"))
		return
	}
	c.FileAttachment(*recibo.PDFPath, "recibo_"+id.String()+".pdf")
}

func reciboToResponse(r *model.Recibo) *dto.ReciboResponse {
	resp := &dto.ReciboResponse{
		ID:            r.ID.String(),
		LiquidacionID: r.LiquidacionID.String(),
		Estado:        r.Estado,
		PDFPath:       r.PDFPath,
		RetryCount:    r.RetryCount,
		LastError:     r.LastError,
	}
	if r.NextRetryAt != nil {
		f := r.NextRetryAt.Format("2006-01-02 15:04:05")
		resp.NextRetryAt = &f
	}
	return resp
}
