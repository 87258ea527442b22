package service

import (
	"strings"

	"github.com/volnyigory/storefront/internal/domain/model"
)

// cashCity is the only city where cash on delivery is offered.
const cashCity = "Екатеринбург"

// fallbackCashMethod is appended when the settings carry no cash method at
// all but the declared city qualifies.
var fallbackCashMethod = model.PaymentMethod{
	ID:       "cash",
	Name:     "Наличными при получении",
	Enabled:  true,
	CityGate: cashCity,
}

// cityMatches compares a declared city against a gate, ignoring case and
// surrounding whitespace.
func cityMatches(gate, city string) bool {
	return strings.EqualFold(strings.TrimSpace(city), gate)
}

// EligibleDeliveryMethods returns the enabled methods in configured order.
// Delivery is not city-gated; CDEK only differs in requiring the
// pickup-point sub-flow, which the checkout orchestrator owns.
func EligibleDeliveryMethods(methods []model.DeliveryMethod) []model.DeliveryMethod {
	eligible := make([]model.DeliveryMethod, 0, len(methods))
	for _, m := range methods {
		if m.Enabled {
			eligible = append(eligible, m)
		}
	}
	return eligible
}

// EligiblePaymentMethods returns the enabled ungated methods plus any
// city-gated method whose gate matches the declared city. When no gated
// method is configured but the city qualifies for cash, the stock cash
// method is appended, so enabling the city never removes existing options.
func EligiblePaymentMethods(methods []model.PaymentMethod, city string) []model.PaymentMethod {
	eligible := make([]model.PaymentMethod, 0, len(methods))
	sawGated := false
	for _, m := range methods {
		if m.CityGate != "" {
			sawGated = true
			if cityMatches(m.CityGate, city) {
				eligible = append(eligible, m)
			}
			continue
		}
		if m.Enabled {
			eligible = append(eligible, m)
		}
	}
	if !sawGated && cityMatches(cashCity, city) {
		eligible = append(eligible, fallbackCashMethod)
	}
	return eligible
}

// DefaultDeliveryMethod is the first enabled method in configured order.
func DefaultDeliveryMethod(methods []model.DeliveryMethod) (model.DeliveryMethod, bool) {
	eligible := EligibleDeliveryMethods(methods)
	if len(eligible) == 0 {
		return model.DeliveryMethod{}, false
	}
	return eligible[0], true
}

// DefaultPaymentMethod prefers preferredID when eligible, else the first
// eligible method.
func DefaultPaymentMethod(eligible []model.PaymentMethod, preferredID string) (model.PaymentMethod, bool) {
	for _, m := range eligible {
		if m.ID == preferredID {
			return m, true
		}
	}
	if len(eligible) == 0 {
		return model.PaymentMethod{}, false
	}
	return eligible[0], true
}
