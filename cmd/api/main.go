package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/etarang/garba-desk/internal/cache"
	"github.com/etarang/garba-desk/internal/config"
	"github.com/etarang/garba-desk/internal/infra/database"
	"github.com/etarang/garba-desk/internal/infra/http/handlers"
	custommiddleware "github.com/etarang/garba-desk/internal/infra/http/middleware"
	"github.com/etarang/garba-desk/internal/infra/mail"
	"github.com/etarang/garba-desk/internal/infra/mockstore"
	"github.com/etarang/garba-desk/internal/infra/queue"
	"github.com/etarang/garba-desk/internal/infra/sheets"
	"github.com/etarang/garba-desk/internal/infra/xlsxstore"
	"github.com/etarang/garba-desk/internal/usecase"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()

	// 1. Row store. The mock dataset keeps the dashboard usable without
	// credentials, both as an explicit backend and as a live fallback.
	mock := mockstore.New()

	var store usecase.RowStore
	switch {
	case cfg.UseMock || cfg.StoreBackend == "mock":
		store = nil
		log.Println("📋 Store: mock dataset")
	case cfg.StoreBackend == "xlsx":
		store = xlsxstore.NewStore(cfg.XLSXPath, cfg.SheetName())
		log.Printf("📋 Store: xlsx (%s)", cfg.XLSXPath)
	default:
		if err := cfg.ValidateSheets(); err != nil {
			log.Fatal(err)
		}
		svc, err := sheets.NewService(ctx, cfg)
		if err != nil {
			log.Fatal(err)
		}
		store = sheets.NewStore(svc, cfg.SpreadsheetID, cfg.Range, cfg.SheetName())
		log.Println("📋 Store: Google Sheets")
	}

	// 2. Optional Supabase mirror
	var db *sql.DB
	var mirror usecase.EntryMirror
	if cfg.SupabaseEnabled && cfg.DatabaseURL != "" {
		var err error
		db, err = database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			log.Printf("⚠️ Supabase mirror disabled: %v", err)
		} else {
			defer db.Close()
			mirror = database.NewEntryMirrorRepository(db)
			log.Println("🗄️ Supabase mirror enabled")
		}
	}

	// 3. Optional outcome-event broker
	var rabbitConn *amqp.Connection
	var events usecase.OutcomePublisher
	if cfg.AMQPURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			log.Printf("⚠️ RabbitMQ disabled: %v", err)
		} else {
			defer rabbitMQ.Conn.Close()
			defer rabbitMQ.Ch.Close()
			rabbitConn = rabbitMQ.Conn
			events = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
			log.Println("🐰 RabbitMQ producer enabled")
		}
	}

	mailSender := mail.NewTicketSender(
		cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.TemplatePath,
	)

	// 4. UseCases
	lister := usecase.NewEntryLister(
		store, mock, mirror, cache.New[usecase.EntrySet](),
		cfg.PageSize, cfg.UseMock || cfg.StoreBackend == "mock",
	)
	assigner := usecase.NewIDAssigner(effectiveStore(store, mock))
	generator := usecase.NewAssetGenerator(
		effectiveStore(store, mock),
		cfg.QRDir, cfg.TicketDir, cfg.BaseTicketPath, cfg.FontPath, cfg.DeskLabel,
	)
	dispatcher := usecase.NewEmailDispatcher(
		effectiveStore(store, mock), mailSender, events, cfg.TicketDir, cfg.MaxInFlight,
	)

	// 5. Handlers
	entriesHandler := handlers.NewEntriesHandler(lister, assigner)
	assetsHandler := handlers.NewAssetsHandler(generator)
	dispatchHandler := handlers.NewDispatchHandler(dispatcher)
	healthHandler := handlers.NewHealthHandler(cfg, db, rabbitConn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(custommiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Get("/api/entries", entriesHandler.HandleList)
	r.Post("/api/entries/refresh", entriesHandler.HandleRefresh)
	r.Post("/api/entries/generate-ids", entriesHandler.HandleGenerateIDs)
	r.Get("/api/generate-qr", assetsHandler.HandleGenerateQR)
	r.Get("/api/generate-ticket", assetsHandler.HandleGenerateTicket)
	r.Post("/api/send-emails", dispatchHandler.HandleSend)
	r.Get("/health", healthHandler.Handle)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	addr := ":" + cfg.Port
	log.Printf("🔥 Garba desk API listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}

// effectiveStore resolves which store write paths should hit. The lister keeps
// both so it can fall back, but writers target exactly one backend.
func effectiveStore(live usecase.RowStore, mock usecase.RowStore) usecase.RowStore {
	if live != nil {
		return live
	}
	return mock
}
