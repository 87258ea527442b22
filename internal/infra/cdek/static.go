package cdek

import (
	"context"

	"github.com/volnyigory/storefront/internal/domain/model"
)

// StaticPointProvider serves the fixed pickup-point sample set used until the
// proxy integration is enabled for a region.
type StaticPointProvider struct{}

func NewStaticPointProvider() *StaticPointProvider {
	return &StaticPointProvider{}
}

var staticPoints = []model.PickupPoint{
	{
		ID:           1,
		Name:         "На Тысячелетия",
		Address:      "г. Екатеринбург, ул. Тысячелетия",
		Issuer:       "Яндекс.Маркет",
		DeliveryTime: "8:00-9:00",
		Phone:        "+7 (999) 999-99-99",
		WorkHours: model.WorkHours{
			Weekdays: "пн-пт 9:00-18:00",
			Weekend:  "сб-вс 10:00-17:00",
		},
		MaxWeight:  50,
		Directions: "Вход со двора, рядом с продуктовым магазином.",
	},
	{
		ID:           2,
		Name:         "На Ленина",
		Address:      "г. Екатеринбург, пр. Ленина, 50",
		Issuer:       "СДЭК",
		DeliveryTime: "10:00-11:00",
		Phone:        "+7 (888) 888-88-88",
		WorkHours: model.WorkHours{
			Weekdays: "пн-пт 10:00-20:00",
			Weekend:  "сб-вс 11:00-18:00",
		},
		MaxWeight:  30,
		Directions: "Центр города, любой транспорт до остановки «Площадь 1905 года».",
	},
}

func (p *StaticPointProvider) PointsForCity(ctx context.Context, city string) ([]model.PickupPoint, error) {
	points := make([]model.PickupPoint, len(staticPoints))
	copy(points, staticPoints)
	return points, nil
}
