package handler

import (
	"net/http"

	"github.com/AlexRayo/lcr-acopio/internal/apierror"
	"github.com/AlexRayo/lcr-acopio/internal/service"

	"github.com/gin-gonic/gin"
)

type TipoCambioHandler struct{ fx service.TipoCambioClient }

func NewTipoCambioHandler(fx service.TipoCambioClient) *TipoCambioHandler {
	return &TipoCambioHandler{fx: fx}
}

// Obtener godoc
// @Summary Tipo de cambio del dia
// @Description Consulta el servicio externo de tipo de cambio a traves del circuit breaker.
// @Tags tipo-cambio
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} apierror.APIError
// @Router /v1/tipo-cambio [get]
func (h *TipoCambioHandler) Obtener(c *gin.Context) {
	if h.fx == nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("Servicio de tipo de cambio no configurado"))
		return
	}
	tc, err := h.fx.TipoCambio(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("No se pudo obtener el tipo de cambio"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"tipo_cambio": tc})
}
