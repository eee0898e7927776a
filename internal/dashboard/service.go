// Package dashboard owns the fetched shipment data and builds the views the
// presentation layers render.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"shipment-dashboard/internal/analytics"
	"shipment-dashboard/internal/api"
	"shipment-dashboard/internal/cache"
	"shipment-dashboard/internal/shipment"
)

// DefaultRecentLimit is the number of active orders on the dashboard tab.
const DefaultRecentLimit = 10

var (
	// ErrInvalidStatus is returned for a status outside the vocabulary.
	ErrInvalidStatus = errors.New("status tidak valid")
	// ErrEmptyResi is returned when a lookup has no tracking number.
	ErrEmptyResi = errors.New("no_resi wajib")
	// ErrEmptyDocID is returned when a status change names no shipment.
	ErrEmptyDocID = errors.New("doc_id wajib")
)

// Backend is the shipment backend as used by the dashboard.
type Backend interface {
	GetShipments(ctx context.Context) (shipment.Collection, error)
	GetStatusByResi(ctx context.Context, resi string) (*api.TrackingResult, error)
	CreateShipment(ctx context.Context, req *api.CreateShipmentRequest) (*api.TrackingResult, error)
	UpdateStatus(ctx context.Context, docID, status string) error
}

// Options tunes a Service. Zero values fall back to the defaults.
type Options struct {
	MonthsBack  int
	RecentLimit int
	Logger      *slog.Logger
	// TrackCache keeps recent tracking lookups; nil sends every lookup to
	// the backend.
	TrackCache  *cache.Manager
}

// Service loads shipments through a Backend into a Session and renders views
// from them.
type Service struct {
	backend     Backend
	engine      *analytics.Engine
	session     *Session
	trackCache  *cache.Manager
	logger      *slog.Logger
	monthsBack  int
	recentLimit int
}

// NewService creates a dashboard service.
func NewService(backend Backend, engine *analytics.Engine, opts Options) *Service {
	if engine == nil {
		engine = analytics.NewEngine()
	}
	if opts.MonthsBack <= 0 {
		opts.MonthsBack = analytics.DefaultMonthsBack
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Service{
		backend:     backend,
		engine:      engine,
		session:     NewSession(),
		trackCache:  opts.TrackCache,
		logger:      opts.Logger,
		monthsBack:  opts.MonthsBack,
		recentLimit: opts.RecentLimit,
	}
}

// Session exposes the service's session.
func (s *Service) Session() *Session {
	return s.session
}

// Engine exposes the aggregation engine the views are computed with.
func (s *Service) Engine() *analytics.Engine {
	return s.engine
}

// Load fetches the collection and stores it in the session. A failed fetch
// leaves the previously stored collection untouched.
func (s *Service) Load(ctx context.Context) (shipment.Collection, error) {
	c, err := s.backend.GetShipments(ctx)
	if err != nil {
		s.logger.Error("failed to load shipments", "error", err)
		return shipment.Collection{}, fmt.Errorf("load shipments: %w", err)
	}
	c.Normalize()
	s.session.Replace(c, s.engine.Now())
	s.logger.Debug("shipments loaded", "aktif", len(c.Aktif), "history", len(c.History))
	return c.Clone(), nil
}

// collection returns the stored collection when cached is set and something
// has been loaded; otherwise it fetches.
func (s *Service) collection(ctx context.Context, cached bool) (shipment.Collection, error) {
	if cached {
		if c, ok := s.session.Snapshot(); ok {
			return c, nil
		}
	}
	return s.Load(ctx)
}

// Dashboard fetches shipments and builds the landing tab.
func (s *Service) Dashboard(ctx context.Context) (DashboardView, error) {
	c, err := s.collection(ctx, false)
	if err != nil {
		return DashboardView{}, err
	}
	view := buildDashboard(s.engine, c, s.monthsBack, s.recentLimit)
	view.LoadedAt = s.session.LoadedAt()
	return view, nil
}

// OrderQuery selects active orders. With Cached set the last loaded
// collection is filtered instead of fetching again.
type OrderQuery struct {
	Search string
	Status string
	Cached bool
}

// Orders builds the active orders table.
func (s *Service) Orders(ctx context.Context, q OrderQuery) (OrdersView, error) {
	c, err := s.collection(ctx, q.Cached)
	if err != nil {
		return OrdersView{}, err
	}
	return buildOrders(s.engine, c, q.Search, q.Status), nil
}

// History builds the completed orders table.
func (s *Service) History(ctx context.Context, q OrderQuery) (HistoryView, error) {
	c, err := s.collection(ctx, q.Cached)
	if err != nil {
		return HistoryView{}, err
	}
	return buildHistory(s.engine, c, q.Search), nil
}

// Analytics fetches shipments and builds the analytics tab.
func (s *Service) Analytics(ctx context.Context) (AnalyticsView, error) {
	c, err := s.collection(ctx, false)
	if err != nil {
		return AnalyticsView{}, err
	}
	view := buildAnalytics(s.engine, c, s.monthsBack)
	view.LoadedAt = s.session.LoadedAt()
	return view, nil
}

// Track looks a shipment up by tracking number.
func (s *Service) Track(ctx context.Context, resi string) (*api.TrackingResult, error) {
	resi = strings.TrimSpace(resi)
	if resi == "" {
		return nil, ErrEmptyResi
	}

	if s.trackCache != nil {
		if cached := s.trackCache.Get(resi); cached != nil {
			return cached, nil
		}
	}

	result, err := s.backend.GetStatusByResi(ctx, resi)
	if err != nil {
		return nil, err
	}
	if s.trackCache != nil {
		s.trackCache.Set(resi, result)
	}
	return result, nil
}

// Create registers a new order with the backend.
func (s *Service) Create(ctx context.Context, req *api.CreateShipmentRequest) (*api.TrackingResult, error) {
	if req == nil {
		return nil, errors.New("create request is required")
	}
	created, err := s.backend.CreateShipment(ctx, req)
	if err != nil {
		s.logger.Warn("failed to create shipment", "buyer", req.BuyerID, "error", err)
		return nil, err
	}
	s.logger.Info("shipment created", "no_resi", created.NoResi)
	return created, nil
}

// SetStatus changes the status of an active order. The stored collection is
// updated once the backend accepts the change; setting the completed status
// moves the order to history.
func (s *Service) SetStatus(ctx context.Context, docID, status string) error {
	docID = strings.TrimSpace(docID)
	status = strings.TrimSpace(status)
	if docID == "" {
		return ErrEmptyDocID
	}
	if !shipment.IsValidStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := s.backend.UpdateStatus(ctx, docID, status); err != nil {
		s.logger.Warn("failed to update status", "doc_id", docID, "status", status, "error", err)
		return err
	}

	s.session.Apply(func(c *shipment.Collection) bool {
		if r := c.FindActive(docID); r != nil && s.trackCache != nil {
			s.trackCache.Delete(r.NoResi)
		}
		return c.SetStatus(docID, status)
	})
	s.logger.Info("status updated", "doc_id", docID, "status", status)
	return nil
}

// Complete marks an active order as finished, moving it to history.
func (s *Service) Complete(ctx context.Context, docID string) error {
	return s.SetStatus(ctx, docID, shipment.StatusCompleted)
}
