package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	orders    map[string]Order
	ids       []string
	createErr error
	countErr  error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.orders[o.ID] = o.Clone()
	m.ids = append(m.ids, o.ID)
	return nil
}

func (m *mockOrderRepo) Get(_ context.Context, id string) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o = o.Clone()
	return &o, nil
}

func (m *mockOrderRepo) List(_ context.Context) ([]Order, error) {
	out := make([]Order, 0, len(m.ids))
	for _, id := range m.ids {
		if o, ok := m.orders[id]; ok {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, status Status) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Status = status
	m.orders[id] = o
	o = o.Clone()
	return &o, nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id string, guard func(Order) error) error {
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	if err := guard(o); err != nil {
		return err
	}
	delete(m.orders, id)
	return nil
}

func (m *mockOrderRepo) Count(_ context.Context) (int, error) {
	return len(m.orders), m.countErr
}

// --- Helpers ---

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc, err := NewService(repo, tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
	require.NoError(t, err)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func createOrder(t *testing.T, svc *Service, req Request) *Order {
	t.Helper()
	o, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	return o
}

// --- Tests ---

func TestCreate(t *testing.T) {
	t.Run("small hot", func(t *testing.T) {
		svc := newTestService(t, newMockOrderRepo())

		o := createOrder(t, svc, Request{Size: SizeSmall, CoffeeType: CoffeeTypeHot})
		assert.NotEmpty(t, o.ID)
		assert.True(t, decimal.RequireFromString("3.50").Equal(o.Price))
		assert.GreaterOrEqual(t, o.PrepTime, MinPrepTime)
		assert.Equal(t, StatusReceived, o.Status)
		assert.Equal(t, fixedNow, o.CreatedAt)
	})

	t.Run("medium iced", func(t *testing.T) {
		svc := newTestService(t, newMockOrderRepo())

		o := createOrder(t, svc, Request{Size: SizeMedium, CoffeeType: CoffeeTypeIced})
		assert.True(t, decimal.RequireFromString("4.25").Equal(o.Price))
	})

	t.Run("large with extras", func(t *testing.T) {
		svc := newTestService(t, newMockOrderRepo())

		o := createOrder(t, svc, Request{
			Size:       SizeLarge,
			CoffeeType: CoffeeTypeHot,
			Flavors:    []Flavor{FlavorHazelnut, FlavorCaramel},
			Milk:       ptr(MilkOat),
			ExtraShots: ptr(2),
		})
		assert.True(t, decimal.RequireFromString("8.10").Equal(o.Price), "got %s", o.Price)
	})

	t.Run("unique ids", func(t *testing.T) {
		svc := newTestService(t, newMockOrderRepo())

		a := createOrder(t, svc, validRequest())
		b := createOrder(t, svc, validRequest())
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestCreate_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{
			name: "four flavors",
			req: Request{
				Size:       SizeSmall,
				CoffeeType: CoffeeTypeHot,
				Flavors:    []Flavor{FlavorHazelnut, FlavorCaramel, FlavorMocha, FlavorVanilla},
			},
		},
		{
			name: "negative extra shot",
			req:  Request{Size: SizeSmall, CoffeeType: CoffeeTypeHot, ExtraShots: ptr(-1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockOrderRepo()
			svc := newTestService(t, repo)

			_, err := svc.Create(context.Background(), tt.req)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Empty(t, repo.orders, "invalid order must not be stored")
		})
	}
}

func TestCreate_RepositoryError(t *testing.T) {
	repo := newMockOrderRepo()
	repo.createErr = errors.New("store unavailable")
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), validRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}

func TestCreate_DoesNotAliasRequest(t *testing.T) {
	svc := newTestService(t, newMockOrderRepo())

	req := Request{Size: SizeSmall, CoffeeType: CoffeeTypeHot, Flavors: []Flavor{FlavorMocha}}
	o := createOrder(t, svc, req)
	req.Flavors[0] = FlavorVanilla

	got, err := svc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, []Flavor{FlavorMocha}, got.Flavors)
}

func TestGet(t *testing.T) {
	svc := newTestService(t, newMockOrderRepo())
	req := Request{
		Size:                SizeLarge,
		CoffeeType:          CoffeeTypeIced,
		Flavors:             []Flavor{FlavorCinnamon},
		Milk:                ptr(MilkAlmond),
		ExtraShots:          ptr(1),
		SpecialInstructions: ptr("light ice"),
	}
	created := createOrder(t, svc, req)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, req, got.Request)
	assert.True(t, created.Price.Equal(got.Price))
	assert.Equal(t, created.PrepTime, got.PrepTime)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.Equal(t, StatusReceived, got.Status)

	_, err = svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	svc := newTestService(t, newMockOrderRepo())

	empty, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty)

	a := createOrder(t, svc, validRequest())
	b := createOrder(t, svc, Request{Size: SizeMedium, CoffeeType: CoffeeTypeIced})

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	second, err := svc.List(context.Background())
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, a.ID, first[0].ID)
	assert.Equal(t, b.ID, first[1].ID)
	assert.Equal(t, first, second)
}

func TestUpdateStatus(t *testing.T) {
	svc := newTestService(t, newMockOrderRepo())
	o := createOrder(t, svc, Request{
		Size:       SizeLarge,
		CoffeeType: CoffeeTypeHot,
		Flavors:    []Flavor{FlavorHazelnut, FlavorCaramel},
		ExtraShots: ptr(2),
	})
	require.Equal(t, 5, o.PrepTime)

	t.Run("preparing sets ready time", func(t *testing.T) {
		res, err := svc.UpdateStatus(context.Background(), o.ID, StatusPreparing)
		require.NoError(t, err)
		assert.Equal(t, o.ID, res.OrderID)
		assert.Equal(t, StatusPreparing, res.Status)
		require.NotNil(t, res.EstimatedReadyAt)
		assert.Equal(t, fixedNow.Add(5*time.Minute), *res.EstimatedReadyAt)
	})

	t.Run("completed has no ready time", func(t *testing.T) {
		res, err := svc.UpdateStatus(context.Background(), o.ID, StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, res.Status)
		assert.Nil(t, res.EstimatedReadyAt)
	})

	t.Run("backwards transition is accepted", func(t *testing.T) {
		res, err := svc.UpdateStatus(context.Background(), o.ID, StatusReceived)
		require.NoError(t, err)
		assert.Equal(t, StatusReceived, res.Status)

		got, err := svc.Get(context.Background(), o.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusReceived, got.Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := svc.UpdateStatus(context.Background(), "missing", StatusReady)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.UpdateStatus(context.Background(), o.ID, "burnt")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "status", vErr.Fields[0].Name)
	})

	t.Run("empty status", func(t *testing.T) {
		_, err := svc.UpdateStatus(context.Background(), o.ID, "")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}

func TestCancel(t *testing.T) {
	for _, status := range []Status{StatusReceived, StatusPreparing} {
		t.Run("cancel from "+string(status), func(t *testing.T) {
			svc := newTestService(t, newMockOrderRepo())
			o := createOrder(t, svc, validRequest())
			_, err := svc.UpdateStatus(context.Background(), o.ID, status)
			require.NoError(t, err)

			require.NoError(t, svc.Cancel(context.Background(), o.ID))

			_, err = svc.Get(context.Background(), o.ID)
			require.ErrorIs(t, err, ErrNotFound)
			require.ErrorIs(t, svc.Cancel(context.Background(), o.ID), ErrNotFound)
		})
	}

	for _, status := range []Status{StatusReady, StatusCompleted} {
		t.Run("refuse from "+string(status), func(t *testing.T) {
			svc := newTestService(t, newMockOrderRepo())
			o := createOrder(t, svc, validRequest())
			_, err := svc.UpdateStatus(context.Background(), o.ID, status)
			require.NoError(t, err)

			err = svc.Cancel(context.Background(), o.ID)
			require.ErrorIs(t, err, ErrNotCancellable)

			got, err := svc.Get(context.Background(), o.ID)
			require.NoError(t, err)
			assert.Equal(t, status, got.Status)
		})
	}

	t.Run("unknown order", func(t *testing.T) {
		svc := newTestService(t, newMockOrderRepo())
		require.ErrorIs(t, svc.Cancel(context.Background(), "missing"), ErrNotFound)
	})
}

func TestCount(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestService(t, repo)

	createOrder(t, svc, validRequest())
	createOrder(t, svc, validRequest())

	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	repo.countErr = errors.New("boom")
	_, err = svc.Count(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count orders")
}
