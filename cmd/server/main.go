package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"go-boutique-store/internal/ai"
	"go-boutique-store/internal/auth"
	"go-boutique-store/internal/checkout"
	"go-boutique-store/internal/config"
	"go-boutique-store/internal/database"
	"go-boutique-store/internal/handlers"
	"go-boutique-store/internal/middleware"
	"go-boutique-store/internal/repository"
	"go-boutique-store/internal/store"
	"go-boutique-store/internal/store/local"
	"go-boutique-store/internal/store/memory"
	"go-boutique-store/internal/store/remote"
	"go-boutique-store/internal/views"
	"go-boutique-store/internal/viewsync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// openStore picks the adapter named by STORE_DRIVER. db is only set for
// the local store; cleanup closes whatever was opened.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (adapter store.Adapter, db *gorm.DB, cleanup func(), err error) {
	cleanup = func() {}
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Println("⚠️ Using the in-memory store. Data is lost on restart!")
		return memory.New(), nil, cleanup, nil

	case config.StoreRemote:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, cleanup, err
		}
		docs := remote.NewMongoDocuments(client.Database(cfg.MongoDatabase))
		if err := docs.EnsureIndexes(ctx); err != nil {
			client.Disconnect(context.Background())
			return nil, nil, cleanup, err
		}

		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			client.Disconnect(context.Background())
			return nil, nil, cleanup, err
		}
		if cfg.RedisPassword != "" {
			redisOpts.Password = cfg.RedisPassword
		}
		rdb := redis.NewClient(redisOpts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			client.Disconnect(context.Background())
			return nil, nil, cleanup, err
		}

		log.Println("✅ Connected to MongoDB and Redis")
		cleanup = func() {
			rdb.Close()
			client.Disconnect(context.Background())
		}
		return remote.New(docs, remote.NewRedisNotifier(rdb), logger), nil, cleanup, nil

	default:
		db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, nil, cleanup, err
		}
		return local.New(db, store.NewBroadcaster(), logger), db, cleanup, nil
	}
}

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter, db, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatal("Failed to open the store:", err)
	}
	defer closeStore()

	// --- Repositories ---
	ledger := repository.NewLedger(adapter, logger)
	products := repository.NewProducts(adapter, logger)
	receipts := repository.NewReceipts(adapter, ledger, logger)
	for name, load := range map[string]func(context.Context) error{
		"products": products.Load,
		"ledger":   ledger.Load,
		"receipts": receipts.Load,
	} {
		if err := load(ctx); err != nil {
			log.Fatalf("Failed to load %s: %v", name, err)
		}
	}
	defer products.Close()
	defer ledger.Close()
	defer receipts.Close()

	// --- Live views ---
	hub := viewsync.NewHub(func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == cfg.BaseURL || slices.Contains(cfg.CORSOrigins, origin)
	}, logger)
	go hub.Run()
	defer hub.Stop()

	viewSync := viewsync.New(hub, logger)
	builder := &views.Builder{Products: products, Ledger: ledger, Receipts: receipts}
	if err := views.Register(viewSync, builder); err != nil {
		log.Fatal("Failed to register views:", err)
	}
	go func() {
		if err := viewSync.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Println("View sync stopped:", err)
		}
	}()

	// --- Auth ---
	h := &handlers.Handler{
		Products: products,
		Ledger:   ledger,
		Receipts: receipts,
		Formatter: checkout.New(checkout.Options{
			ShopName:    cfg.ShopName,
			Currency:    cfg.Currency,
			CountryCode: cfg.CountryCode,
			Contact:     cfg.WhatsAppNumber,
			BaseURL:     cfg.BaseURL,
		}),
		Views:       builder,
		Sync:        viewSync,
		Hub:         hub,
		Tokens:      auth.NewTokens(cfg.JWTSecret, auth.DefaultTokenTTL),
		Store:       adapter,
		StoreDriver: cfg.StoreDriver,
		DB:          db,
		SharedCart:  cfg.CartScope == "shared",
		Logger:      logger,
	}

	if cfg.AuthMode == config.AuthAccounts && db != nil {
		accounts := auth.NewAccounts(db)
		h.Auth = accounts
		// --- FEATURE FLAG: Admin Registration ---
		// Only opens if we explicitly allow it in .env
		if cfg.AllowRegistration {
			h.Accounts = accounts
			log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
		} else {
			log.Println("🔒 Registration route is safely DISABLED.")
		}
	} else {
		if cfg.AuthMode == config.AuthAccounts {
			log.Println("⚠️ AUTH_MODE=accounts needs the local store, falling back to ADMIN_PASSWORD")
		}
		h.Auth = auth.NewSharedSecret(cfg.AdminPassword)
	}

	if cfg.GeminiAPIKey != "" {
		agent, err := ai.NewAgent(ctx, cfg.GeminiAPIKey, &ai.Toolbox{Products: products, Ledger: ledger, Receipts: receipts}, logger)
		if err != nil {
			log.Println("Assistant disabled:", err)
		} else {
			agent.Shop = cfg.ShopName
			h.Assistant = agent
			defer agent.Close()
		}
	}

	// --- HTTP ---
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 4 << 20

	handlers.Routes(r, h, middleware.NewRateLimiter(10, 5).Limit())

	// --- DEPLOYMENT: Serve the web frontend ---
	r.Static("/assets", "./web/assets")
	r.NoRoute(func(c *gin.Context) {
		c.File("./web/index.html")
	})

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: r}
	go func() {
		log.Println("🚀 Server starting on " + cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Shutdown:", err)
	}
}
