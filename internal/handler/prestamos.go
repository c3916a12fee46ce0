package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/apierror"
	"github.com/AlexRayo/lcr-acopio/internal/dto"
	"github.com/AlexRayo/lcr-acopio/internal/model"
	"github.com/AlexRayo/lcr-acopio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PrestamosHandler struct {
	svc    service.PrestamoService
	abonos service.AbonoService
}

func NewPrestamosHandler(svc service.PrestamoService, abonos service.AbonoService) *PrestamosHandler {
	return &PrestamosHandler{svc: svc, abonos: abonos}
}

// Crear godoc
// @Summary Registrar un nuevo prestamo a proveedor
// @Tags prestamos
// @Accept json
// @Produce json
// @Param body body dto.CrearPrestamoRequest true "Prestamo"
// @Success 201 {object} dto.PrestamoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/prestamos [post]
func (h *PrestamosHandler) Crear(c *gin.Context) {
	var req dto.CrearPrestamoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, prestamoToResponse(p))
}

func (h *PrestamosHandler) Listar(c *gin.Context) {
	var proveedorID *uuid.UUID
	if raw := c.Query("proveedor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("proveedor_id invalido"))
			return
		}
		proveedorID = &id
	}
	prestamos, err := h.svc.Listar(c.Request.Context(), proveedorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar prestamos"))
		return
	}
	resp := make([]dto.PrestamoResponse, 0, len(prestamos))
	for i := range prestamos {
		resp = append(resp, *prestamoToResponse(&prestamos[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PrestamosHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	p, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Prestamo no encontrado"))
		return
	}
	c.JSON(http.StatusOK, prestamoToResponse(p))
}

func (h *PrestamosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarPrestamoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, prestamoToResponse(p))
}

func (h *PrestamosHandler) Eliminar(c *gin.Context) {
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

// InteresAlCorte godoc
// @Summary Proyeccion de intereses acumulados a una fecha de corte
// @Tags prestamos
// @Produce json
// @Param id path string true "ID del prestamo"
// @Param fecha query string false "Fecha de corte (YYYY-MM-DD, default hoy)"
// @Success 200 {object} dto.CorteInteresResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/prestamos/{id}/interes [get]
func (h *PrestamosHandler) InteresAlCorte(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}

	fecha := time.Now()
	if raw := c.Query("fecha"); raw != "" {
		fecha, err = time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("fecha invalida, formato esperado YYYY-MM-DD"))
			return
		}
	}

	corte, err := h.svc.InteresAlCorte(c.Request.Context(), id, fecha)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPrestamoNoEncontrado):
			c.JSON(http.StatusNotFound, apierror.New("Prestamo no encontrado"))
		case errors.Is(err, service.ErrRangoFechasInvalido):
			c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular intereses"))
		}
		return
	}

	c.JSON(http.StatusOK, dto.CorteInteresResponse{
		PrestamoID: id.String(),
		FechaCorte: fecha.Format("2006-01-02"),
		Dias:       corte.Dias,
		Intereses:  corte.Intereses,
	})
}

func (h *PrestamosHandler) ListarAbonos(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.abonos.Listar(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar abonos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func prestamoToResponse(p *model.Prestamo) *dto.PrestamoResponse {
	resp := &dto.PrestamoResponse{
		ID:              p.ID.String(),
		ProveedorID:     p.ProveedorID.String(),
		Monto:           p.Monto,
		Interes:         p.Interes,
		FechaDesembolso: p.FechaDesembolso.Format("2006-01-02"),
		Saldo:           p.Saldo,
		Observaciones:   p.Observaciones,
	}
	if p.FechaUltimoPago != nil {
		f := p.FechaUltimoPago.Format("2006-01-02")
		resp.FechaUltimoPago = &f
	}
	return resp
}
