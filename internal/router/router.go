package router

import (
	"time"

	"mesapos/internal/config"
	"mesapos/internal/handler"
	"mesapos/internal/infra"
	"mesapos/internal/middleware"
	"mesapos/internal/repository"
	"mesapos/internal/service"
	"mesapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker) *gin.Engine {
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
	turnoRepo := repository.NewTurnoRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	mesaRepo := repository.NewMesaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	mesaSvc := service.NewMesaService(mesaRepo)
	destinatariosSvc := service.NewDestinatariosService(rdb)
	reporteSvc := service.NewReporteService(turnoRepo, movimientoRepo, ventaRepo, destinatariosSvc, dispatcher, cfg)
	turnoSvc := service.NewTurnoService(turnoRepo, movimientoRepo, mesaSvc, reporteSvc, cfg)
	movimientoSvc := service.NewMovimientoService(movimientoRepo, turnoRepo, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	turnosH := handler.NewTurnoHandler(turnoSvc, movimientoSvc, mesaSvc, cfg)
	configH := handler.NewConfigHandler(destinatariosSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailCB))

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
		// Roles: cajero, supervisor, administrador — declared per-endpoint
		turnos := v1.Group("/turnos")
		{
			turnos.POST("/abrir", middleware.RequireRole("cajero", "supervisor", "administrador"), turnosH.Abrir)
			turnos.POST("/:id/cerrar", middleware.RequireRole("cajero", "supervisor", "administrador"), turnosH.Cerrar)
			turnos.POST("/:id/cierre-forzado", middleware.RequireRole("supervisor", "administrador"), turnosH.CierreForzado)
			turnos.POST("/movimiento", middleware.RequireRole("cajero", "supervisor", "administrador"), turnosH.RegistrarMovimiento)
			turnos.GET("/activo/:caja", middleware.RequireRole("cajero", "supervisor", "administrador"), turnosH.Activo)
			turnos.GET("/historial/:caja", middleware.RequireRole("supervisor", "administrador"), turnosH.Historial)
			turnos.GET("/mesas-pendientes", middleware.RequireRole("cajero", "supervisor", "administrador"), turnosH.MesasPendientes)
		}

		// Report recipient config — supervisors and up
		cfgGroup := v1.Group("/config", middleware.RequireRole("supervisor", "administrador"))
		{
			cfgGroup.GET("/destinatarios-reporte", configH.GetDestinatarios)
			cfgGroup.POST("/destinatarios-reporte", configH.PostDestinatarios)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
