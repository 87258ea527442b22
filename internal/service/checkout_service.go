package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/volnyigory/storefront/internal/domain/model"
	"github.com/volnyigory/storefront/internal/infra/repository/db"
	"github.com/volnyigory/storefront/internal/pricing"
)

// CheckoutState is the page-level phase of a checkout session.
type CheckoutState int

const (
	StateFillingForm CheckoutState = iota + 1
	StateChoosingPickupPoint
	StateSubmitted
)

const (
	carrierCdek        = "cdek"
	preferredPaymentID = "card"
)

var (
	ErrNotAuthenticated         = errors.New("checkout requires an authenticated user")
	ErrNoDeliveryMethods        = errors.New("no delivery methods are available")
	ErrNoDeliveryMethodSelected = errors.New("no delivery method selected")
	ErrNoPaymentMethodSelected  = errors.New("no payment method selected")
	ErrPaymentMethodNotEligible = errors.New("payment method is not available for the declared city")
	ErrPickupPointRequired      = errors.New("a pickup point must be confirmed for this carrier")
	ErrEmptyCart                = errors.New("cart is empty")
	ErrPickupFlowNotActive      = errors.New("no pickup flow is in progress")
	ErrCheckoutFinished         = errors.New("checkout already submitted")
)

// RecipientForm is the shopper-editable part of the checkout page.
type RecipientForm struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

type ICheckoutService interface {
	Begin(ctx context.Context) (*Checkout, error)
}

// CheckoutService starts checkout sessions with the collaborators a session
// needs: settings, the cart, order submission, the session provider and the
// pickup-point source.
type CheckoutService struct {
	settings ISettingsService
	cart     ICartService
	orders   IOrderService
	profiles db.IProfileRepository
	auth     AuthProvider
	points   PickupPointProvider
	logger   zerolog.Logger
}

func NewCheckoutService(settings ISettingsService, cart ICartService, orders IOrderService, profiles db.IProfileRepository, auth AuthProvider, points PickupPointProvider, logger zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		settings: settings,
		cart:     cart,
		orders:   orders,
		profiles: profiles,
		auth:     auth,
		points:   points,
		logger:   logger,
	}
}

// Checkout is one shopper's in-progress checkout. It is not safe for
// concurrent use; a session belongs to a single flow of control.
type Checkout struct {
	svc    *CheckoutService
	userID string
	state  CheckoutState

	form           RecipientForm
	profile        *model.Profile
	city           string
	region         string
	zip            string
	additionalInfo string

	deliveryMethods  []model.DeliveryMethod
	selectedDelivery *model.DeliveryMethod
	allPayments      []model.PaymentMethod
	eligiblePayments []model.PaymentMethod
	selectedPayment  *model.PaymentMethod

	flow        *PickupFlow
	pickupPoint *model.PickupPoint
}

// Begin opens a checkout session: it requires a signed-in user, loads the
// storefront settings, default-selects the first delivery method and prefills
// the form from the profile when one exists.
func (s *CheckoutService) Begin(ctx context.Context) (*Checkout, error) {
	userID, ok := s.auth.CurrentUserID()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	c := &Checkout{
		svc:             s,
		userID:          userID,
		state:           StateFillingForm,
		deliveryMethods: EligibleDeliveryMethods(settings.Delivery.DeliveryMethods),
		allPayments:     settings.Payment.PaymentMethods,
	}
	if len(c.deliveryMethods) == 0 {
		return nil, ErrNoDeliveryMethods
	}
	first := c.deliveryMethods[0]
	c.selectedDelivery = &first

	c.prefillFromProfile(ctx)
	c.reevaluatePayments()
	return c, nil
}

// prefillFromProfile loads the recipient data saved by a previous order. The
// stored address leads with the city, so the first comma-separated part
// becomes the declared city and the rest the street address.
func (c *Checkout) prefillFromProfile(ctx context.Context) {
	if c.svc.profiles == nil {
		return
	}
	profile, err := c.svc.profiles.GetProfileByID(ctx, c.userID)
	if err != nil {
		c.svc.logger.Debug().Err(err).Str("user_id", c.userID).Msg("no profile to prefill checkout from")
		return
	}
	c.profile = profile
	c.form.Name = profile.Name
	c.form.Phone = profile.Phone
	c.form.Email = profile.Email

	if profile.Address != "" {
		parts := strings.SplitN(profile.Address, ", ", 2)
		c.city = parts[0]
		if len(parts) > 1 {
			c.form.Address = parts[1]
		}
	}
}

func (c *Checkout) State() CheckoutState { return c.state }
func (c *Checkout) Form() RecipientForm { return c.form }
func (c *Checkout) City() string { return c.city }
func (c *Checkout) AdditionalInfo() string { return c.additionalInfo }
func (c *Checkout) PickupFlow() *PickupFlow { return c.flow }

func (c *Checkout) DeliveryMethods() []model.DeliveryMethod {
	methods := make([]model.DeliveryMethod, len(c.deliveryMethods))
	copy(methods, c.deliveryMethods)
	return methods
}

// PaymentMethods returns the methods eligible for the declared city.
func (c *Checkout) PaymentMethods() []model.PaymentMethod {
	methods := make([]model.PaymentMethod, len(c.eligiblePayments))
	copy(methods, c.eligiblePayments)
	return methods
}

func (c *Checkout) SelectedDeliveryMethod() (model.DeliveryMethod, bool) {
	if c.selectedDelivery == nil {
		return model.DeliveryMethod{}, false
	}
	return *c.selectedDelivery, true
}

func (c *Checkout) SelectedPaymentMethod() (model.PaymentMethod, bool) {
	if c.selectedPayment == nil {
		return model.PaymentMethod{}, false
	}
	return *c.selectedPayment, true
}

func (c *Checkout) PickupPoint() (model.PickupPoint, bool) {
	if c.pickupPoint == nil {
		return model.PickupPoint{}, false
	}
	return *c.pickupPoint, true
}

func (c *Checkout) SetRecipient(form RecipientForm) { c.form = form }
func (c *Checkout) SetRegion(region string)         { c.region = region }
func (c *Checkout) SetZip(zip string)               { c.zip = zip }
func (c *Checkout) SetAdditionalInfo(info string)   { c.additionalInfo = info }

// SetUseProfileData overwrites the contact fields from the stored profile.
// Passing false leaves the form as the shopper edited it.
func (c *Checkout) SetUseProfileData(use bool) {
	if !use || c.profile == nil {
		return
	}
	c.form.Name = c.profile.Name
	c.form.Phone = c.profile.Phone
	c.form.Email = c.profile.Email
}

// SetCity re-evaluates payment eligibility. The current payment selection
// survives when still eligible; otherwise the default rule reapplies.
func (c *Checkout) SetCity(city string) {
	c.city = city
	c.reevaluatePayments()
}

func (c *Checkout) reevaluatePayments() {
	c.eligiblePayments = EligiblePaymentMethods(c.allPayments, c.city)

	if c.selectedPayment != nil {
		for _, m := range c.eligiblePayments {
			if m.ID == c.selectedPayment.ID {
				c.selectedPayment = &m
				return
			}
		}
	}
	if def, ok := DefaultPaymentMethod(c.eligiblePayments, preferredPaymentID); ok {
		c.selectedPayment = &def
	} else {
		c.selectedPayment = nil
	}
}

// SelectDeliveryMethod picks one of the offered methods. Moving off the CDEK
// carrier drops any confirmed pickup point.
func (c *Checkout) SelectDeliveryMethod(id string) error {
	for _, m := range c.deliveryMethods {
		if m.ID == id {
			method := m
			c.selectedDelivery = &method
			if method.ID != carrierCdek {
				c.pickupPoint = nil
			}
			return nil
		}
	}
	return ErrNoDeliveryMethodSelected
}

// SelectPaymentMethod picks one of the currently eligible methods.
func (c *Checkout) SelectPaymentMethod(id string) error {
	for _, m := range c.eligiblePayments {
		if m.ID == id {
			method := m
			c.selectedPayment = &method
			return nil
		}
	}
	return ErrPaymentMethodNotEligible
}

// StartPickupFlow opens the pickup-point wizard for the declared city. Only
// meaningful while the CDEK carrier is selected.
func (c *Checkout) StartPickupFlow(ctx context.Context) error {
	if c.selectedDelivery == nil || c.selectedDelivery.ID != carrierCdek {
		return ErrNoDeliveryMethodSelected
	}
	points, err := c.svc.points.PointsForCity(ctx, c.city)
	if err != nil {
		return err
	}
	c.flow = NewPickupFlow(points)
	c.state = StateChoosingPickupPoint
	return nil
}

// ConfirmPickupPoint commits the wizard's choice: the point becomes the
// delivery address and the wizard closes.
func (c *Checkout) ConfirmPickupPoint() error {
	if c.flow == nil {
		return ErrPickupFlowNotActive
	}
	point, err := c.flow.Confirm()
	if err != nil {
		return err
	}
	c.pickupPoint = &point
	c.form.Address = point.Address
	c.flow = nil
	c.state = StateFillingForm
	return nil
}

// CancelPickupFlow discards the wizard without touching any previously
// confirmed point.
func (c *Checkout) CancelPickupFlow() {
	c.flow = nil
	if c.state == StateChoosingPickupPoint {
		c.state = StateFillingForm
	}
}

// FinalTotal is the cart total in rubles plus the selected delivery price.
func (c *Checkout) FinalTotal() decimal.Decimal {
	total := pricing.MinorToMajor(c.svc.cart.TotalPrice())
	if c.selectedDelivery != nil {
		total = total.Add(decimal.NewFromInt(c.selectedDelivery.Price))
	}
	return total
}

// Submit validates the session and hands it to order submission. The cart is
// cleared only after the order is durably persisted.
func (c *Checkout) Submit(ctx context.Context) (string, error) {
	if c.state == StateSubmitted {
		return "", ErrCheckoutFinished
	}
	lines := c.svc.cart.Lines()
	if len(lines) == 0 {
		return "", ErrEmptyCart
	}
	if c.selectedDelivery == nil {
		return "", ErrNoDeliveryMethodSelected
	}
	if c.selectedPayment == nil {
		return "", ErrNoPaymentMethodSelected
	}
	if c.selectedDelivery.ID == carrierCdek && c.pickupPoint == nil {
		return "", ErrPickupPointRequired
	}

	draft := OrderDraft{
		UserID:         c.userID,
		Lines:          lines,
		TotalAmount:    c.FinalTotal(),
		Recipient:      c.form,
		City:           c.city,
		Region:         c.region,
		Zip:            c.zip,
		PaymentMethod:  *c.selectedPayment,
		DeliveryMethod: *c.selectedDelivery,
		AdditionalInfo: c.additionalInfo,
	}

	orderID, err := c.svc.orders.Submit(ctx, draft)
	if err != nil {
		return "", err
	}

	c.svc.cart.Clear()
	c.state = StateSubmitted
	c.svc.logger.Info().Str("order_id", orderID).Str("user_id", c.userID).Msg("order submitted")
	return orderID, nil
}
