package cdek

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDeliveryPointsMapsWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/delivery-points", r.URL.Path)
		assert.Equal(t, "250", r.URL.Query().Get("city_code"))
		assert.Equal(t, "20", r.URL.Query().Get("size"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"code": "EKB1",
				"name": "На Ленина",
				"location": {"address": "пр. Ленина, 50", "city": "Екатеринбург"},
				"phones": [{"number": "+7 (888) 888-88-88"}],
				"work_time": "пн-пт 10:00-20:00",
				"weight_max": 30,
				"note": "Центр города"
			}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	points, err := client.GetDeliveryPoints(context.Background(), DeliveryPointsParams{CityCode: 250, Size: 20})
	require.NoError(t, err)

	require.Len(t, points, 1)
	p := points[0]
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "На Ленина", p.Name)
	assert.Equal(t, "пр. Ленина, 50", p.Address)
	assert.Equal(t, "СДЭК", p.Issuer)
	assert.Equal(t, "+7 (888) 888-88-88", p.Phone)
	assert.Equal(t, "пн-пт 10:00-20:00", p.WorkHours.Weekdays)
	assert.Equal(t, float64(30), p.MaxWeight)
}

func TestGetDeliveryPointsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	_, err := client.GetDeliveryPoints(context.Background(), DeliveryPointsParams{})
	assert.ErrorContains(t, err, "status 502")
}

func TestCalculateDelivery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calculate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"delivery_sum": 300, "period_min": 2, "period_max": 4, "currency": "RUB"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	result, err := client.CalculateDelivery(context.Background(), CalculateDeliveryParams{
		FromCityCode: 44, ToCityCode: 250, Weight: 12.5,
	})
	require.NoError(t, err)

	assert.Equal(t, float64(300), result.DeliverySum)
	assert.Equal(t, 2, result.PeriodMin)
	assert.Equal(t, "RUB", result.CurrencyCode)
}

func TestStaticProviderReturnsCopies(t *testing.T) {
	provider := NewStaticPointProvider()
	ctx := context.Background()

	first, err := provider.PointsForCity(ctx, "Екатеринбург")
	require.NoError(t, err)
	require.Len(t, first, 2)

	first[0].Name = "mutated"
	second, err := provider.PointsForCity(ctx, "Екатеринбург")
	require.NoError(t, err)
	assert.Equal(t, "На Тысячелетия", second[0].Name)
}

func TestGetCities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cities", r.URL.Path)
		assert.Equal(t, "620000", r.URL.Query().Get("postal_code"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"code": 250, "city": "Екатеринбург", "region": "Свердловская область", "region_code": 81}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	cities, err := client.GetCities(context.Background(), CitiesParams{PostalCode: "620000"})
	require.NoError(t, err)

	require.Len(t, cities, 1)
	assert.Equal(t, 250, cities[0].Code)
	assert.Equal(t, "Екатеринбург", cities[0].City)
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/create-order", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entity": {"uuid": "72753031-1111-2222-3333-444455556666"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())
	result, err := client.CreateOrder(context.Background(), CreateOrderParams{
		Type:          1,
		TariffCode:    136,
		DeliveryPoint: "EKB1",
		FromLocation:  OrderLocation{Code: 44},
		ToLocation:    OrderLocation{Code: 250},
		Packages:      []OrderPackage{{Number: "1", Weight: 12000}},
	})
	require.NoError(t, err)
	assert.Equal(t, "72753031-1111-2222-3333-444455556666", result.Entity.UUID)
}

func TestPointProviderFallsBackWhenProxyFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	provider := NewPointProvider(NewClient(srv.URL, zerolog.Nop()), zerolog.Nop())
	points, err := provider.PointsForCity(context.Background(), "Екатеринбург")
	require.NoError(t, err)
	assert.Len(t, points, 2, "static sample set served instead")
}

func TestPointProviderSkipsProxyForUnknownCity(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	provider := NewPointProvider(NewClient(srv.URL, zerolog.Nop()), zerolog.Nop())
	points, err := provider.PointsForCity(context.Background(), "Нижний Тагил")
	require.NoError(t, err)
	assert.Len(t, points, 2)
	assert.False(t, called)
}
