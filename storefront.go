// Package storefront wires the commerce services from configuration: the
// postgres repositories, the redis-backed session storage, the order event
// producer and the pickup-point source.
package storefront

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/volnyigory/storefront/internal/config"
	"github.com/volnyigory/storefront/internal/infra/cdek"
	"github.com/volnyigory/storefront/internal/infra/producer"
	"github.com/volnyigory/storefront/internal/infra/repository/db"
	"github.com/volnyigory/storefront/internal/infra/repository/kvstore"
	"github.com/volnyigory/storefront/internal/service"
)

// App bundles one storefront instance's services.
type App struct {
	Cart      service.ICartService
	Favorites service.IFavoritesService
	Settings  service.ISettingsService
	Checkout  service.ICheckoutService
	Orders    service.IOrderService

	producer producer.IOrderEventProducer
}

// New builds the full service graph. The auth provider is supplied by the
// embedding application; everything else comes from configuration.
func New(ctx context.Context, auth service.AuthProvider, logger zerolog.Logger) (*App, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}

	conn, err := db.GetDbConn(cfg.DbName, cfg.DbHost, cfg.DbPort, cfg.DbUser, cfg.DbPas)
	if err != nil {
		return nil, err
	}
	dao := db.NewDbDao(conn)
	if err := dao.InitMigrate(); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	kv := kvstore.NewRedisKV(rdb, "storefront")

	orderRepo := db.NewOrderRepo(dao)
	productRepo := db.NewProductRepo(dao)
	favoriteRepo := db.NewFavoriteRepo(dao)
	profileRepo := db.NewProfileRepo(dao)
	settingsRepo := db.NewSettingsRepo(dao)

	var eventProducer producer.IOrderEventProducer
	if cfg.KafkaBrokers != "" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		eventProducer = producer.NewOrderEventProducer(brokers, cfg.OrderTopic, 3)
	}

	var points service.PickupPointProvider
	if cfg.CdekAPIURL != "" {
		points = cdek.NewPointProvider(cdek.NewClient(cfg.CdekAPIURL, logger), logger)
	} else {
		points = cdek.NewStaticPointProvider()
	}

	cart := service.NewCartService(ctx, kv, logger)
	favorites := service.NewFavoritesService(ctx, kv, favoriteRepo, productRepo, logger)
	settings := service.NewSettingsService(settingsRepo, logger)
	orders := service.NewOrderService(orderRepo, profileRepo, eventProducer, logger)
	checkout := service.NewCheckoutService(settings, cart, orders, profileRepo, auth, points, logger)

	return &App{
		Cart:      cart,
		Favorites: favorites,
		Settings:  settings,
		Checkout:  checkout,
		Orders:    orders,
		producer:  eventProducer,
	}, nil
}

// Close releases the kafka writer. Safe to call when no producer was wired.
func (a *App) Close() error {
	if a.producer == nil {
		return nil
	}
	return a.producer.Close()
}
