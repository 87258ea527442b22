package cdek

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/volnyigory/storefront/internal/domain/model"
)

// cityCodes maps the cities the storefront ships to onto CDEK city codes.
var cityCodes = map[string]int{
	"екатеринбург":    250,
	"москва":          44,
	"санкт-петербург": 137,
}

// PointProvider resolves pickup points through the proxy and falls back to
// the static sample set for unknown cities or when the proxy is down, so the
// checkout wizard always has something to offer.
type PointProvider struct {
	client   *Client
	fallback *StaticPointProvider
	logger   zerolog.Logger
}

func NewPointProvider(client *Client, logger zerolog.Logger) *PointProvider {
	return &PointProvider{
		client:   client,
		fallback: NewStaticPointProvider(),
		logger:   logger,
	}
}

func (p *PointProvider) PointsForCity(ctx context.Context, city string) ([]model.PickupPoint, error) {
	code, ok := cityCodes[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		return p.fallback.PointsForCity(ctx, city)
	}

	points, err := p.client.GetDeliveryPoints(ctx, DeliveryPointsParams{CityCode: code})
	if err != nil {
		p.logger.Warn().Err(err).Str("city", city).Msg("cdek proxy unavailable, serving static points")
		return p.fallback.PointsForCity(ctx, city)
	}
	if len(points) == 0 {
		return p.fallback.PointsForCity(ctx, city)
	}
	return points, nil
}
