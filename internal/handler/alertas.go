package handler

import (
	"net/http"
	"strconv"

	"github.com/AlexRayo/lcr-acopio/internal/apierror"
	"github.com/AlexRayo/lcr-acopio/internal/service"

	"github.com/gin-gonic/gin"
)

type AlertasHandler struct{ svc service.PrestamoService }

func NewAlertasHandler(svc service.PrestamoService) *AlertasHandler {
	return &AlertasHandler{svc: svc}
}

// Listar godoc
// @Summary Alertas de conciliacion del libro de prestamos
// @Description Operaciones de ledger toleradas contra prestamos inexistentes; cada fila es una discrepancia a revisar.
// @Tags alertas
// @Produce json
// @Param page query int false "Pagina"
// @Param limit query int false "Resultados por pagina"
// @Success 200 {object} dto.AlertaListResponse
// @Router /v1/alertas [get]
func (h *AlertasHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.ListarAlertas(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar alertas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
