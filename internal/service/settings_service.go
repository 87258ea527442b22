package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/volnyigory/storefront/internal/domain/model"
	"github.com/volnyigory/storefront/internal/infra/repository/db"
)

// ErrLastPaymentMethod rejects an update that would leave no selectable
// payment method.
var ErrLastPaymentMethod = errors.New("at least one payment method must remain enabled")

var settingsKeys = []string{"general", "delivery", "payment", "notifications"}

var settingDescriptions = map[string]string{
	"general":       "Общие настройки сайта",
	"delivery":      "Настройки доставки",
	"payment":       "Настройки оплаты",
	"notifications": "Настройки уведомлений",
}

type ISettingsService interface {
	GetSettings(ctx context.Context) (*model.Settings, error)
	UpdateDeliveryMethods(ctx context.Context, methods []model.DeliveryMethod) error
	UpdatePaymentMethods(ctx context.Context, methods []model.PaymentMethod) error
}

type SettingsService struct {
	repo   db.ISettingsRepository
	logger zerolog.Logger
}

func NewSettingsService(repo db.ISettingsRepository, logger zerolog.Logger) *SettingsService {
	return &SettingsService{repo: repo, logger: logger}
}

// DefaultSettings is the baseline every stored section is merged over.
func DefaultSettings() model.Settings {
	return model.Settings{
		General: model.GeneralSettings{
			SiteName:        "Волны&Горы",
			SiteDescription: "Продажа и аренда SUP в Екатеринбурге",
			ContactEmail:    "volnyigory@mail.ru",
			ContactPhone:    "+7 (343) 236-63-11",
			Address:         "г. Москва, р. Академический, ул.Евгения Савкова д.6",
			Currency:        "RUB",
		},
		Delivery: model.DeliverySettings{
			EnableFreeDelivery:    true,
			FreeDeliveryThreshold: 10000,
			DeliveryMethods: []model.DeliveryMethod{
				{ID: "cdek", Name: "СДЭК", Enabled: true, Price: 300},
				{ID: "russian_post", Name: "Почта России", Enabled: true, Price: 250},
				{ID: "yandex_taxi", Name: "Яндекс Такси", Enabled: true, Price: 400},
			},
		},
		Payment: model.PaymentSettings{
			PaymentMethods: []model.PaymentMethod{
				{ID: "card", Name: "Банковская карта", Enabled: true},
				{ID: "sbp", Name: "СБП", Enabled: true},
				{ID: "cash", Name: "Наличными при получении", Enabled: true, CityGate: cashCity},
			},
		},
		Notifications: model.NotificationSettings{
			EnableOrderNotifications:    true,
			EnableLowStockNotifications: true,
			NotificationEmail:           "volnyigory@mail.ru",
			EnableCustomerNotifications: true,
		},
	}
}

// GetSettings merges the stored sections over the defaults. A missing or
// unreadable row leaves its section at the default.
func (s *SettingsService) GetSettings(ctx context.Context) (*model.Settings, error) {
	settings := DefaultSettings()

	rows, err := s.repo.GetSettings(ctx, settingsKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	for _, row := range rows {
		var target any
		switch row.Key {
		case "general":
			target = &settings.General
		case "delivery":
			target = &settings.Delivery
		case "payment":
			target = &settings.Payment
		case "notifications":
			target = &settings.Notifications
		default:
			continue
		}
		if err := json.Unmarshal([]byte(row.Value), target); err != nil {
			s.logger.Warn().Err(err).Str("key", row.Key).Msg("ignoring unreadable settings row")
		}
	}
	return &settings, nil
}

func (s *SettingsService) UpdateDeliveryMethods(ctx context.Context, methods []model.DeliveryMethod) error {
	current, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	current.Delivery.DeliveryMethods = methods
	return s.upsertSection(ctx, "delivery", current.Delivery)
}

// UpdatePaymentMethods rejects a list without a single enabled method.
func (s *SettingsService) UpdatePaymentMethods(ctx context.Context, methods []model.PaymentMethod) error {
	anyEnabled := false
	for _, m := range methods {
		if m.Enabled {
			anyEnabled = true
			break
		}
	}
	if !anyEnabled {
		return ErrLastPaymentMethod
	}

	current, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	current.Payment.PaymentMethods = methods
	return s.upsertSection(ctx, "payment", current.Payment)
}

func (s *SettingsService) upsertSection(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.repo.UpsertSetting(ctx, &model.Setting{
		Key:         key,
		Value:       string(raw),
		Description: settingDescriptions[key],
	})
}
