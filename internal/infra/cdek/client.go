package cdek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/volnyigory/storefront/internal/domain/model"
)

// Client talks to the CDEK proxy (a thin HTTP facade over the carrier API).
// All calls carry a request timeout; a timeout is an ordinary retryable error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

type DeliveryPointsParams struct {
	CityCode   int
	PostalCode string
	WeightMax  float64
	Size       int
	Page       int
}

// deliveryPoint is the proxy wire format.
type deliveryPoint struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Location struct {
		Address string `json:"address"`
		City    string `json:"city"`
	} `json:"location"`
	Phones []struct {
		Number string `json:"number"`
	} `json:"phones"`
	WorkTime  string  `json:"work_time"`
	WeightMax float64 `json:"weight_max"`
	Note      string  `json:"note"`
}

type CalculateDeliveryParams struct {
	FromCityCode int     `json:"from_city_code"`
	ToCityCode   int     `json:"to_city_code"`
	Weight       float64 `json:"weight"`
}

type CalculateDeliveryResult struct {
	DeliverySum  float64 `json:"delivery_sum"`
	PeriodMin    int     `json:"period_min"`
	PeriodMax    int     `json:"period_max"`
	CurrencyCode string  `json:"currency"`
}

func (c *Client) GetDeliveryPoints(ctx context.Context, params DeliveryPointsParams) ([]model.PickupPoint, error) {
	q := url.Values{}
	if params.CityCode != 0 {
		q.Set("city_code", strconv.Itoa(params.CityCode))
	}
	if params.PostalCode != "" {
		q.Set("postal_code", params.PostalCode)
	}
	if params.WeightMax != 0 {
		q.Set("weight_max", strconv.FormatFloat(params.WeightMax, 'f', -1, 64))
	}
	if params.Size != 0 {
		q.Set("size", strconv.Itoa(params.Size))
	}
	if params.Page != 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}

	var points []deliveryPoint
	if err := c.getJSON(ctx, "/delivery-points?"+q.Encode(), &points); err != nil {
		return nil, err
	}

	result := make([]model.PickupPoint, 0, len(points))
	for i, p := range points {
		phone := ""
		if len(p.Phones) > 0 {
			phone = p.Phones[0].Number
		}
		result = append(result, model.PickupPoint{
			ID:         i + 1,
			Name:       p.Name,
			Address:    p.Location.Address,
			Issuer:     "СДЭК",
			Phone:      phone,
			WorkHours:  model.WorkHours{Weekdays: p.WorkTime},
			MaxWeight:  p.WeightMax,
			Directions: p.Note,
		})
	}
	return result, nil
}

type City struct {
	Code        int      `json:"code"`
	City        string   `json:"city"`
	Region      string   `json:"region"`
	RegionCode  int      `json:"region_code"`
	PostalCodes []string `json:"postal_codes"`
}

type CitiesParams struct {
	PostalCode string
	RegionCode int
	Size       int
	Page       int
}

func (c *Client) GetCities(ctx context.Context, params CitiesParams) ([]City, error) {
	q := url.Values{}
	if params.PostalCode != "" {
		q.Set("postal_code", params.PostalCode)
	}
	if params.RegionCode != 0 {
		q.Set("region_code", strconv.Itoa(params.RegionCode))
	}
	if params.Size != 0 {
		q.Set("size", strconv.Itoa(params.Size))
	}
	if params.Page != 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}

	var cities []City
	if err := c.getJSON(ctx, "/cities?"+q.Encode(), &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

type OrderLocation struct {
	Code       int    `json:"code"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	Address    string `json:"address,omitempty"`
}

type OrderPackage struct {
	Number string  `json:"number"`
	Weight float64 `json:"weight"`
	Length int     `json:"length,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
}

type CreateOrderParams struct {
	Type          int            `json:"type"`
	TariffCode    int            `json:"tariff_code"`
	Comment       string         `json:"comment,omitempty"`
	DeliveryPoint string         `json:"delivery_point,omitempty"`
	FromLocation  OrderLocation  `json:"from_location"`
	ToLocation    OrderLocation  `json:"to_location"`
	Packages      []OrderPackage `json:"packages"`
}

type CreateOrderResult struct {
	Entity struct {
		UUID string `json:"uuid"`
	} `json:"entity"`
}

// CreateOrder registers a shipment with the carrier once an order is paid.
func (c *Client) CreateOrder(ctx context.Context, params CreateOrderParams) (*CreateOrderResult, error) {
	var result CreateOrderResult
	if err := c.postJSON(ctx, "/create-order", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CalculateDelivery(ctx context.Context, params CalculateDeliveryParams) (*CalculateDeliveryResult, error) {
	var result CalculateDeliveryResult
	if err := c.postJSON(ctx, "/calculate", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cdek request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("url", req.URL.Path).Msg("cdek proxy returned non-200")
		return fmt.Errorf("cdek proxy returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
