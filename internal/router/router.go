package router

import (
	"time"

	"github.com/AlexRayo/lcr-acopio/internal/config"
	"github.com/AlexRayo/lcr-acopio/internal/handler"
	"github.com/AlexRayo/lcr-acopio/internal/infra"
	"github.com/AlexRayo/lcr-acopio/internal/middleware"
	"github.com/AlexRayo/lcr-acopio/internal/repository"
	"github.com/AlexRayo/lcr-acopio/internal/service"
	"github.com/AlexRayo/lcr-acopio/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, fxClient *infra.FXClient) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	prestamoRepo := repository.NewPrestamoRepository(db)
	abonoRepo := repository.NewAbonoRepository(db)
	alertaRepo := repository.NewAlertaRepository(db)
	entregaRepo := repository.NewEntregaRepository(db)
	liquidacionRepo := repository.NewLiquidacionRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	reciboRepo := repository.NewReciboRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	prestamoSvc := service.NewPrestamoService(prestamoRepo, abonoRepo, alertaRepo, cfg)
	abonoSvc := service.NewAbonoService(abonoRepo, prestamoRepo, prestamoSvc)
	entregaSvc := service.NewEntregaService(entregaRepo, proveedorRepo)
	cajaSvc := service.NewCajaService(cajaRepo)
	liquidacionSvc := service.NewLiquidacionService(
		liquidacionRepo, entregaRepo, cajaRepo, abonoRepo, prestamoRepo,
		prestamoSvc, fxClient, reciboRepo, dispatcher,
	)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	prestamosH := handler.NewPrestamosHandler(prestamoSvc, abonoSvc)
	abonosH := handler.NewAbonosHandler(abonoSvc)
	entregasH := handler.NewEntregasHandler(entregaSvc)
	liquidacionesH := handler.NewLiquidacionesHandler(liquidacionSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	alertasH := handler.NewAlertasHandler(prestamoSvc)
	tipoCambioH := handler.NewTipoCambioHandler(fxClient)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, fxClient))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operador, supervisor, administrador — declared per-endpoint
		lectura := middleware.RequireRole("operador", "supervisor", "administrador")

		v1.GET("/tipo-cambio", lectura, tipoCambioH.Obtener)
		v1.GET("/inventario", lectura, entregasH.Inventario)
		v1.GET("/alertas", middleware.RequireRole("supervisor", "administrador"), alertasH.Listar)

		entregas := v1.Group("/entregas")
		{
			entregas.POST("", lectura, entregasH.Crear)
			entregas.GET("", lectura, entregasH.Listar)
			entregas.DELETE("/:id", middleware.RequireRole("supervisor", "administrador"), entregasH.Eliminar)
		}

		prestamos := v1.Group("/prestamos")
		{
			prestamos.POST("", middleware.RequireRole("supervisor", "administrador"), prestamosH.Crear)
			prestamos.GET("", lectura, prestamosH.Listar)
			prestamos.GET("/:id", lectura, prestamosH.ObtenerPorID)
			prestamos.GET("/:id/interes", lectura, prestamosH.InteresAlCorte)
			prestamos.GET("/:id/abonos", lectura, prestamosH.ListarAbonos)
			prestamos.PUT("/:id", middleware.RequireRole("supervisor", "administrador"), prestamosH.Actualizar)
			prestamos.DELETE("/:id", middleware.RequireRole("administrador"), prestamosH.Eliminar)
		}

		abonos := v1.Group("/abonos")
		{
			abonos.POST("", lectura, abonosH.Crear)
			abonos.PUT("/:id", middleware.RequireRole("supervisor", "administrador"), abonosH.Actualizar)
			abonos.DELETE("/:id", middleware.RequireRole("supervisor", "administrador"), abonosH.Eliminar)
		}

		liq := v1.Group("/liquidaciones")
		{
			liq.POST("", lectura, liquidacionesH.Crear)
			liq.GET("", lectura, liquidacionesH.Listar)
			liq.GET("/:id", lectura, liquidacionesH.ObtenerPorID)
			liq.GET("/:id/recibo", lectura, liquidacionesH.ObtenerRecibo)
			liq.GET("/:id/recibo/pdf", lectura, liquidacionesH.DescargarReciboPDF)
			liq.POST("/:id/anular", middleware.RequireRole("supervisor", "administrador"), liquidacionesH.Anular)
			liq.POST("/:id/reactivar", middleware.RequireRole("supervisor", "administrador"), liquidacionesH.Reactivar)
			liq.DELETE("/:id", middleware.RequireRole("administrador"), liquidacionesH.Eliminar)
		}

		caja := v1.Group("/caja")
		{
			caja.POST("/movimiento", middleware.RequireRole("supervisor", "administrador"), cajaH.RegistrarMovimiento)
			caja.GET("/movimientos", lectura, cajaH.ListarMovimientos)
			caja.GET("/saldo", lectura, cajaH.Saldo)
		}

		prov := v1.Group("/proveedores")
		{
			prov.POST("", middleware.RequireRole("supervisor", "administrador"), proveedoresH.Crear)
			prov.GET("", lectura, proveedoresH.Listar)
			prov.GET("/:id", lectura, proveedoresH.ObtenerPorID)
			prov.PUT("/:id", middleware.RequireRole("supervisor", "administrador"), proveedoresH.Actualizar)
			prov.DELETE("/:id", middleware.RequireRole("administrador"), proveedoresH.Desactivar)
			prov.PATCH("/:id/reactivar", middleware.RequireRole("administrador"), proveedoresH.Reactivar)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
