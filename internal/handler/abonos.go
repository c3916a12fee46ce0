package handler

import (
	"errors"
	"net/http"

	"github.com/AlexRayo/lcr-acopio/internal/apierror"
	"github.com/AlexRayo/lcr-acopio/internal/dto"
	"github.com/AlexRayo/lcr-acopio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AbonosHandler struct{ svc service.AbonoService }

func NewAbonosHandler(svc service.AbonoService) *AbonosHandler {
	return &AbonosHandler{svc: svc}
}

// Crear godoc
// @Summary Registrar un abono directo a un prestamo
// @Tags abonos
// @Accept json
// @Produce json
// @Param body body dto.CrearAbonoRequest true "Abono"
// @Success 201 {object} dto.AbonoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/abonos [post]
func (h *AbonosHandler) Crear(c *gin.Context) {
	var req dto.CrearAbonoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrRangoFechasInvalido) {
			c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AbonosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarAbonoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrAbonoDeLiquidacion) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AbonosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrAbonoDeLiquidacion) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
