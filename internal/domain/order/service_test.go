package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pronoy1004/uniblox-assignment/internal/domain/analytics"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/cart"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/coupon"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/product"
)

// --- Mock implementations ---

type mockProductRepo struct {
	byID map[string]*product.Product
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

type mockOrderRepo struct {
	orders    []*Order
	createErr error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.orders = append(m.orders, o)
	return nil
}

func (m *mockOrderRepo) Count(_ context.Context) (int, error) {
	return len(m.orders), nil
}

// --- Helpers ---

type fixture struct {
	cart      *cart.Service
	coupons   *coupon.Registry
	orders    *mockOrderRepo
	analytics *analytics.Aggregator
	svc       *Service
}

func newFixture(products ...product.Product) *fixture {
	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	cartSvc := cart.NewService(&mockProductRepo{byID: byID})
	registry := coupon.NewRegistry(5)
	orderRepo := &mockOrderRepo{}
	agg := analytics.NewAggregator()

	return &fixture{
		cart:      cartSvc,
		coupons:   registry,
		orders:    orderRepo,
		analytics: agg,
		svc:       NewService(cartSvc, registry, orderRepo, agg),
	}
}

func newTestProduct(id, price string, stock int) product.Product {
	return product.Product{
		ID:    id,
		Name:  "Test " + id,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// --- Tests ---

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Checkout(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyCart)

	// No state may change on a rejected checkout.
	count, err := f.orders.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	report := f.analytics.Report(nil)
	assert.Equal(t, 0, report.TotalItemsPurchased)
	assert.True(t, decimal.Zero.Equal(report.TotalPurchaseAmount))
}

func TestCheckout_NoDiscountCode(t *testing.T) {
	f := newFixture(newTestProduct("prod_001", "10.00", 5))

	_, err := f.cart.AddItem(context.Background(), "prod_001", 2)
	require.NoError(t, err)

	o, err := f.svc.Checkout(context.Background(), "")
	require.NoError(t, err)

	assert.True(t, amount("20.00").Equal(o.TotalAmount))
	assert.True(t, decimal.Zero.Equal(o.DiscountAmount))
	assert.True(t, amount("20.00").Equal(o.FinalAmount))
	assert.Empty(t, o.DiscountCode)
	assert.Regexp(t, `^order_[0-9a-f]{8}$`, o.ID)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "prod_001", o.Items[0].ProductID)
	assert.Equal(t, 2, o.Items[0].Quantity)

	// Cart is cleared after a successful checkout.
	assert.Empty(t, f.cart.Snapshot().Items)

	count, err := f.orders.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCheckout_WithDiscountCode(t *testing.T) {
	f := newFixture(newTestProduct("prod_010", "25.00", 10))

	// Place five orders to unlock code generation.
	for i := 0; i < 5; i++ {
		_, err := f.cart.AddItem(context.Background(), "prod_010", 1)
		require.NoError(t, err)
		_, err = f.svc.Checkout(context.Background(), "")
		require.NoError(t, err)
	}

	c, err := f.coupons.Generate(5)
	require.NoError(t, err)

	_, err = f.cart.AddItem(context.Background(), "prod_010", 2)
	require.NoError(t, err)

	o, err := f.svc.Checkout(context.Background(), c.Code)
	require.NoError(t, err)

	assert.True(t, amount("50.00").Equal(o.TotalAmount))
	assert.True(t, amount("5.00").Equal(o.DiscountAmount), "expected 5.00, got %s", o.DiscountAmount)
	assert.True(t, amount("45.00").Equal(o.FinalAmount))
	assert.Equal(t, c.Code, o.DiscountCode)

	// The code is spent.
	got, err := f.coupons.Lookup(c.Code)
	require.NoError(t, err)
	assert.True(t, got.Used)
}

func TestCheckout_InvalidDiscountCode(t *testing.T) {
	f := newFixture(newTestProduct("prod_001", "10.00", 5))

	_, err := f.cart.AddItem(context.Background(), "prod_001", 1)
	require.NoError(t, err)

	_, err = f.svc.Checkout(context.Background(), "SAVE10_BOGUS1")
	require.ErrorIs(t, err, coupon.ErrInvalidCoupon)

	// Cart and counters are untouched.
	assert.Equal(t, 1, f.cart.Snapshot().ItemCount)
	count, err := f.orders.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCheckout_ReusedDiscountCode(t *testing.T) {
	f := newFixture(newTestProduct("prod_001", "10.00", 50))

	for i := 0; i < 5; i++ {
		_, err := f.cart.AddItem(context.Background(), "prod_001", 1)
		require.NoError(t, err)
		_, err = f.svc.Checkout(context.Background(), "")
		require.NoError(t, err)
	}

	c, err := f.coupons.Generate(5)
	require.NoError(t, err)

	_, err = f.cart.AddItem(context.Background(), "prod_001", 1)
	require.NoError(t, err)
	_, err = f.svc.Checkout(context.Background(), c.Code)
	require.NoError(t, err)

	// Every later attempt with the same code fails.
	_, err = f.cart.AddItem(context.Background(), "prod_001", 1)
	require.NoError(t, err)
	_, err = f.svc.Checkout(context.Background(), c.Code)
	require.ErrorIs(t, err, coupon.ErrCouponUsed)

	// The failed attempt left the cart intact.
	assert.Equal(t, 1, f.cart.Snapshot().ItemCount)
}

func TestCheckout_UpdatesAnalytics(t *testing.T) {
	f := newFixture(newTestProduct("prod_001", "10.00", 50))

	for i := 0; i < 5; i++ {
		_, err := f.cart.AddItem(context.Background(), "prod_001", 1)
		require.NoError(t, err)
		_, err = f.svc.Checkout(context.Background(), "")
		require.NoError(t, err)
	}
	c, err := f.coupons.Generate(5)
	require.NoError(t, err)

	_, err = f.cart.AddItem(context.Background(), "prod_001", 5)
	require.NoError(t, err)
	_, err = f.svc.Checkout(context.Background(), c.Code)
	require.NoError(t, err)

	report := f.analytics.Report(f.coupons.Codes())
	assert.Equal(t, 10, report.TotalItemsPurchased)
	// 5 x 10.00 plus 50.00 - 5.00 discount.
	assert.True(t, amount("95.00").Equal(report.TotalPurchaseAmount),
		"expected 95.00, got %s", report.TotalPurchaseAmount)
	assert.True(t, amount("5.00").Equal(report.TotalDiscountAmount))
	assert.Equal(t, []string{c.Code}, report.DiscountCodes)
}

func TestCheckout_OrderCreateError(t *testing.T) {
	f := newFixture(newTestProduct("prod_001", "10.00", 5))
	f.orders.createErr = errors.New("store full")

	_, err := f.cart.AddItem(context.Background(), "prod_001", 1)
	require.NoError(t, err)

	_, err = f.svc.Checkout(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}

func TestCheckout_RoundsFinalAmount(t *testing.T) {
	f := newFixture(newTestProduct("prod_odd", "33.33", 50))

	for i := 0; i < 5; i++ {
		_, err := f.cart.AddItem(context.Background(), "prod_odd", 1)
		require.NoError(t, err)
		_, err = f.svc.Checkout(context.Background(), "")
		require.NoError(t, err)
	}
	c, err := f.coupons.Generate(5)
	require.NoError(t, err)

	_, err = f.cart.AddItem(context.Background(), "prod_odd", 1)
	require.NoError(t, err)
	o, err := f.svc.Checkout(context.Background(), c.Code)
	require.NoError(t, err)

	// 10% of 33.33 is 3.333, rounded half away from zero to 3.33.
	assert.True(t, amount("3.33").Equal(o.DiscountAmount), "got %s", o.DiscountAmount)
	assert.True(t, amount("30.00").Equal(o.FinalAmount), "got %s", o.FinalAmount)
}

// An add racing a checkout must never vanish: it is either included in the
// order's snapshot or still in the cart once the checkout completes.
func TestCheckout_ConcurrentAddIsNotLost(t *testing.T) {
	f := newFixture(newTestProduct("prod_001", "10.00", 1000))

	_, err := f.cart.AddItem(context.Background(), "prod_001", 1)
	require.NoError(t, err)

	const adds = 50

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < adds; i++ {
			if _, err := f.cart.AddItem(context.Background(), "prod_001", 1); err != nil {
				record(err)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < adds; i++ {
			if _, err := f.svc.Checkout(context.Background(), ""); err != nil && !errors.Is(err, ErrEmptyCart) {
				record(err)
			}
		}
	}()
	wg.Wait()

	require.Empty(t, errs)

	// Conservation: every added unit was either purchased or is still carted.
	purchased := f.analytics.Report(nil).TotalItemsPurchased
	remaining := f.cart.Snapshot().ItemCount
	assert.Equal(t, adds+1, purchased+remaining)
}

func TestCheckout_DeterministicClockAndID(t *testing.T) {
	f := newFixture(newTestProduct("prod_001", "10.00", 5))
	fixedNow := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixedNow }
	f.svc.newID = func() string { return "order_deadbeef" }

	_, err := f.cart.AddItem(context.Background(), "prod_001", 1)
	require.NoError(t, err)

	o, err := f.svc.Checkout(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "order_deadbeef", o.ID)
	assert.Equal(t, fixedNow, o.CreatedAt)
}
