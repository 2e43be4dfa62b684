package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"vgreen-backend/internal/config"
	infraCache "vgreen-backend/internal/infrastructure/cache"
	"vgreen-backend/internal/infrastructure/database"
	"vgreen-backend/pkg/cache"
	"vgreen-backend/pkg/jwt"

	cartHandler "vgreen-backend/internal/domains/cart/handler"
	cartService "vgreen-backend/internal/domains/cart/service"
	catalogHandler "vgreen-backend/internal/domains/catalog/handler"
	catalogRepo "vgreen-backend/internal/domains/catalog/repository"
	catalogService "vgreen-backend/internal/domains/catalog/service"
	"vgreen-backend/internal/domains/promotion/engine"
	promoHandler "vgreen-backend/internal/domains/promotion/handler"
	promoRepo "vgreen-backend/internal/domains/promotion/repository"
	promoService "vgreen-backend/internal/domains/promotion/service"
)

// Container chứa toàn bộ dependency graph của application.
// Thứ tự init: Config → Infrastructure → Repositories → Services → Handlers.
// Sai thứ tự là nil pointer dereference.
type Container struct {
	// ===== Infrastructure =====
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// ===== Repositories =====
	PromotionRepo promoRepo.PromotionRepository
	ProductRepo   catalogRepo.ProductRepository

	// ===== Services =====
	ProductService   catalogService.ProductService
	PromotionService promoService.PromotionService
	CartService      cartService.CartService

	// ===== Handlers =====
	PromotionPublicHandler *promoHandler.PublicHandler
	PromotionAdminHandler  *promoHandler.AdminHandler
	CartHandler            *cartHandler.CartHandler
	ProductHandler         *catalogHandler.ProductHandler
}

func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ===== STEP 1: Config =====
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ===== STEP 2: Database =====
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	// ===== STEP 3: Cache =====
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Redis down không chặn startup - cache miss thì đọc DB
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// ===== STEP 4: Repositories =====
	c.initRepositories()

	// ===== STEP 5: Services =====
	c.initServices()

	// ===== STEP 6: Handlers =====
	c.initHandlers()

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.PromotionRepo = promoRepo.NewPostgresRepository(pool)
	c.ProductRepo = catalogRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	cacheTTL := c.Config.Promotion.CatalogCacheTTL

	c.ProductService = catalogService.NewProductService(c.ProductRepo, c.Cache, cacheTTL)

	resolver := engine.NewResolver(c.ProductService)
	c.PromotionService = promoService.NewPromotionService(c.PromotionRepo, resolver, c.Cache, cacheTTL)

	c.CartService = cartService.NewCartService(c.PromotionService)
}

func (c *Container) initHandlers() {
	c.PromotionPublicHandler = promoHandler.NewPublicHandler(c.PromotionService)
	c.PromotionAdminHandler = promoHandler.NewAdminHandler(c.PromotionService)
	c.CartHandler = cartHandler.NewCartHandler(c.CartService)
	c.ProductHandler = catalogHandler.NewProductHandler(c.ProductService)
}

// Cleanup đóng các connection, gọi khi shutdown
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Redis close failed: %v", err)
		}
	}
	log.Println("✓ Container cleaned up")
}
