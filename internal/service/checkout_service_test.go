package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volnyigory/storefront/internal/domain/model"
	"github.com/volnyigory/storefront/internal/infra/cdek"
)

type fakeAuth struct {
	userID string
	signed bool
}

func (a *fakeAuth) CurrentUserID() (string, bool) {
	return a.userID, a.signed
}

// fakeSubmitter records the last draft and can be told to fail.
type fakeSubmitter struct {
	lastDraft *OrderDraft
	orderID   string
	err       error
}

func (f *fakeSubmitter) Submit(ctx context.Context, draft OrderDraft) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastDraft = &draft
	return f.orderID, nil
}

type fakeProfileRepo struct {
	profiles map[string]*model.Profile
	saved    *model.Profile
}

func newFakeProfileRepo(profiles ...*model.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: make(map[string]*model.Profile)}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeProfileRepo) GetProfileByID(ctx context.Context, id string) (*model.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, errors.New("profile not found")
	}
	return p, nil
}

func (r *fakeProfileRepo) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	r.saved = profile
	r.profiles[profile.ID] = profile
	return nil
}

type checkoutFixture struct {
	svc       *CheckoutService
	cart      *CartService
	submitter *fakeSubmitter
	profiles  *fakeProfileRepo
	auth      *fakeAuth
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	cart := NewCartService(context.Background(), newMemKV(), testLogger())
	submitter := &fakeSubmitter{orderID: "order-1"}
	profiles := newFakeProfileRepo()
	auth := &fakeAuth{userID: "user-1", signed: true}
	settings := NewSettingsService(newFakeSettingsRepo(), testLogger())
	svc := NewCheckoutService(settings, cart, submitter, profiles, auth, cdek.NewStaticPointProvider(), testLogger())
	return &checkoutFixture{svc: svc, cart: cart, submitter: submitter, profiles: profiles, auth: auth}
}

func TestBeginRequiresAuthentication(t *testing.T) {
	f := newCheckoutFixture(t)
	f.auth.signed = false

	_, err := f.svc.Begin(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestBeginDefaultSelectsFirstDeliveryMethod(t *testing.T) {
	f := newCheckoutFixture(t)

	c, err := f.svc.Begin(context.Background())
	require.NoError(t, err)

	method, ok := c.SelectedDeliveryMethod()
	require.True(t, ok)
	assert.Equal(t, "cdek", method.ID)
	assert.Equal(t, StateFillingForm, c.State())
}

func TestBeginPrefillsFromProfile(t *testing.T) {
	f := newCheckoutFixture(t)
	f.profiles.profiles["user-1"] = &model.Profile{
		ID:      "user-1",
		Name:    "Иван Петров",
		Phone:   "+7 900 000-00-00",
		Email:   "ivan@example.com",
		Address: "Екатеринбург, ул. Мира, 1",
	}

	c, err := f.svc.Begin(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Иван Петров", c.Form().Name)
	assert.Equal(t, "Екатеринбург", c.City())
	assert.Equal(t, "ул. Мира, 1", c.Form().Address)

	ids := methodIDs(c.PaymentMethods())
	assert.Contains(t, ids, "cash", "profile city unlocks the gated method")
}

func TestSetCityReevaluatesPaymentMethods(t *testing.T) {
	f := newCheckoutFixture(t)
	c, err := f.svc.Begin(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, methodIDs(c.PaymentMethods()), "cash")

	c.SetCity("Екатеринбург")
	assert.Contains(t, methodIDs(c.PaymentMethods()), "cash")

	c.SetCity("Москва")
	assert.NotContains(t, methodIDs(c.PaymentMethods()), "cash")
}

func TestCityChangeResetsIneligibleSelection(t *testing.T) {
	f := newCheckoutFixture(t)
	c, err := f.svc.Begin(context.Background())
	require.NoError(t, err)

	c.SetCity("Екатеринбург")
	require.NoError(t, c.SelectPaymentMethod("cash"))

	c.SetCity("Москва")
	method, ok := c.SelectedPaymentMethod()
	require.True(t, ok)
	assert.Equal(t, "card", method.ID, "falls back to the preferred method")
}

func TestCityChangeKeepsEligibleSelection(t *testing.T) {
	f := newCheckoutFixture(t)
	c, err := f.svc.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.SelectPaymentMethod("sbp"))
	c.SetCity("Екатеринбург")

	method, ok := c.SelectedPaymentMethod()
	require.True(t, ok)
	assert.Equal(t, "sbp", method.ID)
}

func TestSelectPaymentMethodRejectsIneligible(t *testing.T) {
	f := newCheckoutFixture(t)
	c, err := f.svc.Begin(context.Background())
	require.NoError(t, err)

	c.SetCity("Москва")
	assert.ErrorIs(t, c.SelectPaymentMethod("cash"), ErrPaymentMethodNotEligible)
}

func TestPickupFlowConfirmFillsAddress(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	c, err := f.svc.Begin(ctx)
	require.NoError(t, err)
	c.SetCity("Екатеринбург")

	require.NoError(t, c.StartPickupFlow(ctx))
	assert.Equal(t, StateChoosingPickupPoint, c.State())

	flow := c.PickupFlow()
	require.NotNil(t, flow)
	require.Len(t, flow.Points(), 2)
	require.NoError(t, flow.SelectPoint(2))
	require.NoError(t, flow.Next())
	require.NoError(t, flow.Next())
	require.NoError(t, flow.Next())

	require.NoError(t, c.ConfirmPickupPoint())
	assert.Equal(t, StateFillingForm, c.State())

	point, ok := c.PickupPoint()
	require.True(t, ok)
	assert.Equal(t, 2, point.ID)
	assert.Equal(t, point.Address, c.Form().Address)
}

func TestCancelPickupFlowKeepsPreviousPoint(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	c, err := f.svc.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, c.StartPickupFlow(ctx))
	flow := c.PickupFlow()
	require.NoError(t, flow.SelectPoint(1))
	require.NoError(t, flow.Next())
	require.NoError(t, flow.Next())
	require.NoError(t, flow.Next())
	require.NoError(t, c.ConfirmPickupPoint())

	require.NoError(t, c.StartPickupFlow(ctx))
	c.CancelPickupFlow()

	assert.Equal(t, StateFillingForm, c.State())
	point, ok := c.PickupPoint()
	require.True(t, ok)
	assert.Equal(t, 1, point.ID, "cancel discards the new flow only")
}

func TestStartPickupFlowRequiresCdek(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	c, err := f.svc.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, c.SelectDeliveryMethod("russian_post"))
	assert.ErrorIs(t, c.StartPickupFlow(ctx), ErrNoDeliveryMethodSelected)
}

func TestSwitchingOffCdekDropsPickupPoint(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	c, err := f.svc.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, c.StartPickupFlow(ctx))
	flow := c.PickupFlow()
	require.NoError(t, flow.SelectPoint(1))
	require.NoError(t, flow.Next())
	require.NoError(t, flow.Next())
	require.NoError(t, flow.Next())
	require.NoError(t, c.ConfirmPickupPoint())

	require.NoError(t, c.SelectDeliveryMethod("yandex_taxi"))
	_, ok := c.PickupPoint()
	assert.False(t, ok)
}

func TestSetUseProfileDataOverwritesContactFields(t *testing.T) {
	f := newCheckoutFixture(t)
	f.profiles.profiles["user-1"] = &model.Profile{
		ID: "user-1", Name: "Иван Петров", Phone: "+7 900 000-00-00", Email: "ivan@example.com",
	}
	c, err := f.svc.Begin(context.Background())
	require.NoError(t, err)

	c.SetRecipient(RecipientForm{Name: "Другой", Phone: "+7 111", Email: "other@example.com"})
	c.SetUseProfileData(true)

	assert.Equal(t, "Иван Петров", c.Form().Name)
	assert.Equal(t, "ivan@example.com", c.Form().Email)
}

func TestFinalTotalIsCartPlusDelivery(t *testing.T) {
	f := newCheckoutFixture(t)
	f.cart.Add(snapshot("sup-1", "SUP доска", 3500000), 2) // 70 000 ₽
	c, err := f.svc.Begin(context.Background())
	require.NoError(t, err)

	// cdek default, 300 ₽
	assert.True(t, c.FinalTotal().Equal(decimal.NewFromInt(70300)))

	require.NoError(t, c.SelectDeliveryMethod("yandex_taxi")) // 400 ₽
	assert.True(t, c.FinalTotal().Equal(decimal.NewFromInt(70400)))
}

func TestSubmitPreconditions(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	c, err := f.svc.Begin(ctx)
	require.NoError(t, err)

	_, err = c.Submit(ctx)
	assert.ErrorIs(t, err, ErrEmptyCart)

	f.cart.Add(snapshot("sup-1", "SUP доска", 3500000), 1)
	_, err = c.Submit(ctx)
	assert.ErrorIs(t, err, ErrPickupPointRequired, "cdek selected without a confirmed point")
}

func TestSubmitHappyPathClearsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	f.cart.Add(snapshot("sup-1", "SUP доска", 3500000), 1)

	c, err := f.svc.Begin(ctx)
	require.NoError(t, err)
	c.SetCity("Екатеринбург")
	c.SetRegion("Свердловская область")
	c.SetZip("620000")
	c.SetRecipient(RecipientForm{Name: "Иван", Phone: "+7 900", Email: "ivan@example.com", Address: "ул. Мира, 1"})
	require.NoError(t, c.SelectDeliveryMethod("russian_post"))
	require.NoError(t, c.SelectPaymentMethod("cash"))
	c.SetAdditionalInfo("Позвонить заранее")

	orderID, err := c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "order-1", orderID)
	assert.Equal(t, StateSubmitted, c.State())
	assert.Empty(t, f.cart.Lines(), "cart cleared after a durable order")

	draft := f.submitter.lastDraft
	require.NotNil(t, draft)
	assert.Equal(t, "user-1", draft.UserID)
	assert.Equal(t, "Екатеринбург", draft.City)
	assert.Equal(t, "cash", draft.PaymentMethod.ID)
	assert.True(t, draft.TotalAmount.Equal(decimal.NewFromInt(35250)))

	_, err = c.Submit(ctx)
	assert.ErrorIs(t, err, ErrCheckoutFinished)
}

func TestSubmitFailureLeavesCartIntact(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	f.cart.Add(snapshot("sup-1", "SUP доска", 3500000), 1)
	f.submitter.err = errors.New("order tables unavailable")

	c, err := f.svc.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, c.SelectDeliveryMethod("russian_post"))
	require.NoError(t, c.SelectPaymentMethod("card"))

	_, err = c.Submit(ctx)
	require.Error(t, err)

	assert.Equal(t, StateFillingForm, c.State())
	assert.Len(t, f.cart.Lines(), 1, "cart untouched when nothing was persisted")
}
