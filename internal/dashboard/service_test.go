package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipment-dashboard/internal/analytics"
	"shipment-dashboard/internal/api"
	"shipment-dashboard/internal/cache"
	"shipment-dashboard/internal/shipment"
)

var testNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

// fakeBackend serves a fixed collection and records status updates.
type fakeBackend struct {
	mu         sync.Mutex
	collection shipment.Collection
	fetchErr   error
	updateErr  error
	fetches    int
	updates    [][2]string
	created    *api.CreateShipmentRequest
	lookedUp   string
	lookups    int
}

func (f *fakeBackend) GetShipments(ctx context.Context) (shipment.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return shipment.Collection{}, f.fetchErr
	}
	return f.collection.Clone(), nil
}

func (f *fakeBackend) GetStatusByResi(ctx context.Context, resi string) (*api.TrackingResult, error) {
	f.lookedUp = resi
	f.lookups++
	if resi == "UNKNOWN" {
		return nil, &api.APIError{StatusCode: 404, Message: api.MsgResiNotFound}
	}
	return &api.TrackingResult{NoResi: resi, Status: shipment.StatusPickup}, nil
}

func (f *fakeBackend) CreateShipment(ctx context.Context, req *api.CreateShipmentRequest) (*api.TrackingResult, error) {
	f.created = req
	return &api.TrackingResult{NoResi: "RESI-NEW", Status: shipment.StatusProcessing}, nil
}

func (f *fakeBackend) UpdateStatus(ctx context.Context, docID, status string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, [2]string{docID, status})
	return nil
}

func sampleCollection() shipment.Collection {
	return shipment.Collection{
		Aktif: []shipment.Record{
			{
				DocID: "A1", NoResi: "RESI-1", Buyer: "Budi", ItemName: "Kopi",
				RouteOrigin: "Jakarta", RouteDest: "Bandung",
				Price: shipment.V(30000.0), Status: shipment.StatusProcessing,
				PurchasedAt: shipment.V("2026-10-17"), EtaDays: shipment.V(2.0),
				Items: []shipment.LineItem{
					{Name: "Kopi", Quantity: shipment.V("2")},
					{Name: "Gula", Quantity: shipment.V(1.0)},
				},
			},
			{
				DocID: "A2", NoResi: "RESI-2", Buyer: "Sari",
				RouteOrigin: "Jakarta", RouteDest: "Bandung",
				Price: shipment.V("20000"), Status: shipment.StatusOutForDelivery,
				CreatedAt: shipment.V("2026-09-02T08:00:00Z"), EtaText: shipment.V("Besok"),
				Qty: shipment.V(4.0),
			},
		},
		History: []shipment.Record{
			{
				DocID: "H1", NoResi: "RESI-0", Buyer: "Andi",
				RouteOrigin: "Surabaya", RouteDest: "Malang",
				Price: shipment.V(50000.0), Status: shipment.StatusCompleted,
				PurchasedAt: shipment.V("-"),
				EtaText: shipment.V("Reguler"), EtaDeliveryDate: shipment.V("2026-10-01"),
			},
		},
	}
}

func newTestService(backend Backend) *Service {
	engine := analytics.NewEngine(
		analytics.WithClock(func() time.Time { return testNow }),
		analytics.WithLocation(time.UTC),
	)
	return NewService(backend, engine, Options{})
}

func TestService_Dashboard(t *testing.T) {
	backend := &fakeBackend{collection: sampleCollection()}
	svc := newTestService(backend)

	view, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, view.Stats.Total)
	assert.Equal(t, 1, view.Stats.Proses)
	assert.Equal(t, 1, view.Stats.Kirim)
	assert.Equal(t, 1, view.Stats.Selesai)
	assert.Equal(t, 33, view.Stats.CompletionRate)

	require.Len(t, view.Months, analytics.DefaultMonthsBack)
	assert.Equal(t, 1, view.Months[5].Count)
	assert.Equal(t, 1, view.Months[4].Count)

	require.Len(t, view.Recent, 2)
	assert.Equal(t, "RESI-1", view.Recent[0].NoResi)
	assert.Equal(t, "Jakarta → Bandung", view.Recent[0].Route)
	assert.Equal(t, "17 Okt 2026", view.Recent[0].PurchaseDate)
	assert.Equal(t, "Rp 30.000", view.Recent[0].PriceDisplay)
	assert.Equal(t, shipment.ClassProcessing, view.Recent[0].StatusClass)
	assert.Equal(t, "-", view.Recent[1].PurchaseDate)
	assert.Equal(t, testNow, view.LoadedAt)
}

func TestService_DashboardRecentLimit(t *testing.T) {
	c := shipment.Collection{}
	for i := 0; i < 15; i++ {
		c.Aktif = append(c.Aktif, shipment.Record{DocID: string(rune('a' + i))})
	}
	svc := newTestService(&fakeBackend{collection: c})

	view, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, view.Recent, DefaultRecentLimit)
	assert.Equal(t, "a", view.Recent[0].DocID)
}

func TestService_Orders(t *testing.T) {
	backend := &fakeBackend{collection: sampleCollection()}
	svc := newTestService(backend)

	view, err := svc.Orders(context.Background(), OrderQuery{})
	require.NoError(t, err)

	assert.Equal(t, 2, view.Total)
	assert.Equal(t, shipment.Statuses, view.Statuses)
	require.Len(t, view.Rows, 2)

	first := view.Rows[0]
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, []string{"Kopi (2)", "Gula (1)"}, first.Items)
	assert.Equal(t, 3, first.Quantity)
	assert.Equal(t, "2 hari", first.Eta)

	second := view.Rows[1]
	assert.Equal(t, []string{"-"}, second.Items)
	assert.Equal(t, 4, second.Quantity)
	assert.Equal(t, "Besok", second.Eta)
	assert.Equal(t, shipment.ClassInTransit, second.StatusClass)
	assert.Equal(t, "Rp 20.000", second.PriceDisplay)
}

func TestService_OrdersFilterFromCache(t *testing.T) {
	backend := &fakeBackend{collection: sampleCollection()}
	svc := newTestService(backend)

	_, err := svc.Orders(context.Background(), OrderQuery{})
	require.NoError(t, err)

	view, err := svc.Orders(context.Background(), OrderQuery{Search: "sari", Cached: true})
	require.NoError(t, err)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "RESI-2", view.Rows[0].NoResi)
	assert.Equal(t, 1, view.Rows[0].Index)

	view, err = svc.Orders(context.Background(), OrderQuery{Status: shipment.StatusProcessing, Cached: true})
	require.NoError(t, err)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "RESI-1", view.Rows[0].NoResi)

	assert.Equal(t, 1, backend.fetches)
}

func TestService_CachedQueryFetchesWhenEmpty(t *testing.T) {
	backend := &fakeBackend{collection: sampleCollection()}
	svc := newTestService(backend)

	_, err := svc.History(context.Background(), OrderQuery{Cached: true})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.fetches)
}

func TestService_History(t *testing.T) {
	svc := newTestService(&fakeBackend{collection: sampleCollection()})

	view, err := svc.History(context.Background(), OrderQuery{})
	require.NoError(t, err)

	require.Len(t, view.Rows, 1)
	row := view.Rows[0]
	assert.Equal(t, "RESI-0", row.NoResi)
	assert.Equal(t, "Reguler (1 Okt 2026)", row.Eta)
	assert.Equal(t, "-", row.PurchaseDate)

	view, err = svc.History(context.Background(), OrderQuery{Search: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, view.Rows)
	assert.Equal(t, 1, view.Total)
}

func TestService_Analytics(t *testing.T) {
	svc := newTestService(&fakeBackend{collection: sampleCollection()})

	view, err := svc.Analytics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 100000.0, view.Metrics.TotalRevenue)
	// October 30000 against September 20000.
	assert.Equal(t, 50, view.Metrics.RevenueGrowth)
	assert.Equal(t, 2, view.Metrics.AvgDelivery)
	assert.Equal(t, 33, view.Metrics.SuccessRate)
	assert.Equal(t, 2, view.Metrics.ActiveRoutes)

	require.Len(t, view.Revenue, analytics.DefaultMonthsBack)
	assert.Equal(t, 30000.0, view.Revenue[5].Revenue)
	assert.Equal(t, 20000.0, view.Revenue[4].Revenue)

	assert.Equal(t, []analytics.RouteCount{
		{Route: "Jakarta → Bandung", Count: 2},
		{Route: "Surabaya → Malang", Count: 1},
	}, view.TopRoutes)

	require.Len(t, view.Statuses, 3)
	assert.Equal(t, 1, view.Statuses[0].Count)
	assert.Equal(t, 1, view.Statuses[1].Count)
	assert.Equal(t, 1, view.Statuses[2].Count)

	assert.Equal(t, analytics.MonthSummary{Total: 1, Revenue: 30000, Completed: 0, CompletionRate: 0}, view.Monthly)
	assert.Equal(t, "Oktober 2026", view.MonthLabel)
}

func TestService_FailedLoadKeepsPreviousData(t *testing.T) {
	backend := &fakeBackend{collection: sampleCollection()}
	svc := newTestService(backend)

	_, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	backend.fetchErr = errors.New("connection refused")
	_, err = svc.Dashboard(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	c, ok := svc.Session().Snapshot()
	require.True(t, ok)
	assert.Len(t, c.Aktif, 2)
}

func TestService_Track(t *testing.T) {
	backend := &fakeBackend{}
	svc := newTestService(backend)

	result, err := svc.Track(context.Background(), "  RESI-1 ")
	require.NoError(t, err)
	assert.Equal(t, "RESI-1", result.NoResi)
	assert.Equal(t, "RESI-1", backend.lookedUp)

	_, err = svc.Track(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyResi)

	_, err = svc.Track(context.Background(), "UNKNOWN")
	assert.True(t, api.IsNotFound(err))
}

func TestService_TrackCache(t *testing.T) {
	backend := &fakeBackend{collection: sampleCollection()}
	trackCache := cache.NewManager(time.Minute, nil)
	t.Cleanup(trackCache.Close)

	engine := analytics.NewEngine(
		analytics.WithClock(func() time.Time { return testNow }),
		analytics.WithLocation(time.UTC),
	)
	svc := NewService(backend, engine, Options{TrackCache: trackCache})
	ctx := context.Background()

	_, err := svc.Track(ctx, "RESI-1")
	require.NoError(t, err)
	_, err = svc.Track(ctx, "RESI-1")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.lookups)

	_, err = svc.Track(ctx, "UNKNOWN")
	assert.Error(t, err)
	_, err = svc.Track(ctx, "UNKNOWN")
	assert.Error(t, err)
	assert.Equal(t, 3, backend.lookups, "failed lookups are not cached")

	_, err = svc.Orders(ctx, OrderQuery{})
	require.NoError(t, err)
	require.NoError(t, svc.SetStatus(ctx, "A1", shipment.StatusPickup))

	_, err = svc.Track(ctx, "RESI-1")
	require.NoError(t, err)
	assert.Equal(t, 4, backend.lookups, "a status change drops the cached lookup")
}

func TestService_Create(t *testing.T) {
	backend := &fakeBackend{}
	svc := newTestService(backend)

	req := &api.CreateShipmentRequest{BuyerID: "B1", ItemName: "Kopi", Quantity: 2, Origin: "Jakarta", Dest: "Bandung"}
	created, err := svc.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "RESI-NEW", created.NoResi)
	assert.Same(t, req, backend.created)

	_, err = svc.Create(context.Background(), nil)
	assert.Error(t, err)
}

func TestService_SetStatus(t *testing.T) {
	backend := &fakeBackend{collection: sampleCollection()}
	svc := newTestService(backend)
	_, err := svc.Orders(context.Background(), OrderQuery{})
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(context.Background(), "A1", shipment.StatusAtSorting))
	assert.Equal(t, [][2]string{{"A1", shipment.StatusAtSorting}}, backend.updates)

	c, _ := svc.Session().Snapshot()
	assert.Equal(t, shipment.StatusAtSorting, c.FindActive("A1").Status)

	err = svc.SetStatus(context.Background(), "A1", "Hilang di jalan")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	err = svc.SetStatus(context.Background(), " ", shipment.StatusPickup)
	assert.ErrorIs(t, err, ErrEmptyDocID)

	assert.Len(t, backend.updates, 1)
}

func TestService_SetStatusBackendFailure(t *testing.T) {
	backend := &fakeBackend{collection: sampleCollection(), updateErr: &api.APIError{StatusCode: 404, Message: api.MsgUpdateFailed}}
	svc := newTestService(backend)
	_, err := svc.Orders(context.Background(), OrderQuery{})
	require.NoError(t, err)

	err = svc.SetStatus(context.Background(), "A1", shipment.StatusPickup)
	require.Error(t, err)
	assert.Equal(t, api.MsgUpdateFailed, err.Error())

	c, _ := svc.Session().Snapshot()
	assert.Equal(t, shipment.StatusProcessing, c.FindActive("A1").Status)
}

func TestService_Complete(t *testing.T) {
	backend := &fakeBackend{collection: sampleCollection()}
	svc := newTestService(backend)
	_, err := svc.Orders(context.Background(), OrderQuery{})
	require.NoError(t, err)

	require.NoError(t, svc.Complete(context.Background(), "A2"))
	assert.Equal(t, [][2]string{{"A2", shipment.StatusCompleted}}, backend.updates)

	view, err := svc.History(context.Background(), OrderQuery{Cached: true})
	require.NoError(t, err)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "RESI-2", view.Rows[0].NoResi)

	orders, err := svc.Orders(context.Background(), OrderQuery{Cached: true})
	require.NoError(t, err)
	require.Len(t, orders.Rows, 1)
	assert.Equal(t, "RESI-1", orders.Rows[0].NoResi)
}

func TestSession_LastResolvedWins(t *testing.T) {
	s := NewSession()

	_, ok := s.Snapshot()
	assert.False(t, ok)
	assert.False(t, s.Apply(func(*shipment.Collection) bool { return true }))

	older := shipment.Collection{Aktif: []shipment.Record{{DocID: "old"}}}
	newer := shipment.Collection{Aktif: []shipment.Record{{DocID: "new"}}}

	// The newer request resolves first; the stale one lands after it.
	s.Replace(newer, testNow)
	s.Replace(older, testNow.Add(-time.Second))

	c, ok := s.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "old", c.Aktif[0].DocID)
	assert.NotNil(t, c.History)
}

func TestSession_SnapshotIsACopy(t *testing.T) {
	s := NewSession()
	s.Replace(sampleCollection(), testNow)

	c, _ := s.Snapshot()
	c.Aktif[0].Status = "changed"
	c.Aktif = c.Aktif[:0]

	again, _ := s.Snapshot()
	require.Len(t, again.Aktif, 2)
	assert.Equal(t, shipment.StatusProcessing, again.Aktif[0].Status)
}
