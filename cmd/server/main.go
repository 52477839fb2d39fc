package main // Entry point package

import (
    "log" // Logging library

    "github.com/joho/godotenv"   // Loads .env files into the environment
    "github.com/labstack/echo/v4" // Echo web framework
    echomw "github.com/labstack/echo/v4/middleware" // Echo's built-in middleware (CORS, recover)

    "github.com/iliyamo/fleet-maintenance-desk/internal/config"     // Internal config loader
    "github.com/iliyamo/fleet-maintenance-desk/internal/database"   // MySQL connection pool
    "github.com/iliyamo/fleet-maintenance-desk/internal/handler"    // HTTP handlers
    "github.com/iliyamo/fleet-maintenance-desk/internal/middleware" // Cache and rate-limit middleware
    "github.com/iliyamo/fleet-maintenance-desk/internal/queue"      // Ticket event consumer
    "github.com/iliyamo/fleet-maintenance-desk/internal/repository" // Data access layer
    "github.com/iliyamo/fleet-maintenance-desk/internal/router"     // Route registration
    "github.com/iliyamo/fleet-maintenance-desk/internal/storage"    // Evidence image uploader
)

func main() {
    _ = godotenv.Load() // Load .env if present; real deployments use the environment directly

    cfg := config.Load() // Load environment config; exits on missing required vars

    db, err := database.Open(cfg) // Open the MySQL pool and verify connectivity
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    rdb := config.NewRedisClient() // nil when Redis is unreachable; dependents degrade to pass-through

    // Repositories share the single *sql.DB pool.
    catalogs := repository.NewCatalogRepo(db)
    tickets := repository.NewTicketRepo(db)
    internos := repository.NewInternalTicketRepo(db)
    fichas := repository.NewFichaRepo(db)
    extras := repository.NewExtraReportRepo(db)
    reports := repository.NewReportRepo(db)
    tecnicos := repository.NewTechnicianRepo(db)
    admins := repository.NewAdminRepo(db)
    tokens := repository.NewTokenRepo(db)

    // Evidence uploads are optional: without a CLOUDINARY_URL the endpoint
    // is simply not registered.
    var uploadH *handler.UploadHandler
    store, err := storage.NewCloudinary(cfg.CloudinaryURL)
    if err != nil {
        log.Fatalf("cloudinary: %v", err)
    }
    if store != nil {
        uploadH = handler.NewUploadHandler(store)
    }

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.CORS()) // the dashboard frontend is served from another origin
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

    cacheMW := middleware.ReportCache(config.LoadCacheConfig(), rdb)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, handler.NewAuthHandler(cfg, admins, tokens), cfg.JWTSecret)
    router.RegisterUsers(e, handler.NewAdminHandler(cfg, admins), cfg.JWTSecret)
    router.RegisterCatalogs(e, handler.NewCatalogHandler(catalogs))
    router.RegisterTickets(e,
        handler.NewTicketHandler(cfg, tickets, internos, tecnicos),
        handler.NewFichaHandler(fichas, extras))
    router.RegisterReports(e, handler.NewReportHandler(reports, tecnicos), cacheMW)
    router.RegisterExports(e, handler.NewExportHandler(reports), uploadH)

    // The consumer mirrors ticket.created events into the audit log and, when
    // configured, into Telegram.  It reconnects on its own; a permanent
    // failure only disables notifications, never the API.
    go func() {
        if err := queue.StartTicketConsumer(); err != nil {
            log.Printf("ticket consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port                                // Address string with port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

    if err := e.Start(addr); err != nil { // Start HTTP server
        log.Fatal(err)
    }
}
