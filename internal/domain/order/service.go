package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/ogen-go/ogen/validate"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/xenking/coffee-orders/internal/domain/order"

// Service encapsulates the order lifecycle: creation with pricing, status
// changes, and cancellation.
type Service struct {
	orders Repository
	now    func() time.Time
	newID  func() string

	tracer        trace.Tracer
	created       metric.Int64Counter
	statusUpdates metric.Int64Counter
	cancelled     metric.Int64Counter
}

// NewService creates an order Service backed by the given repository.
func NewService(
	orders Repository,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
) (*Service, error) {
	meter := mp.Meter(instrumentationName)

	created, err := meter.Int64Counter("coffee.orders.created",
		metric.WithDescription("Number of accepted orders"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "created counter")
	}
	statusUpdates, err := meter.Int64Counter("coffee.orders.status_updates",
		metric.WithDescription("Number of order status changes"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "status updates counter")
	}
	cancelled, err := meter.Int64Counter("coffee.orders.cancelled",
		metric.WithDescription("Number of cancelled orders"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "cancelled counter")
	}

	return &Service{
		orders:        orders,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
		tracer:        tp.Tracer(instrumentationName),
		created:       created,
		statusUpdates: statusUpdates,
		cancelled:     cancelled,
	}, nil
}

// Create validates the request, prices it, and stores a new order in the
// received status.
func (s *Service) Create(ctx context.Context, req Request) (_ *Order, rerr error) {
	ctx, span := s.tracer.Start(ctx, "order.Create")
	defer func() { endSpan(span, rerr) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	o := &Order{
		ID:        s.newID(),
		Request:   req.Clone(),
		Price:     Price(req),
		PrepTime:  PrepTime(req),
		CreatedAt: s.now(),
		Status:    StatusReceived,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	span.SetAttributes(attribute.String("order.id", o.ID))
	s.created.Add(ctx, 1, metric.WithAttributes(
		attribute.String("size", string(o.Size)),
		attribute.String("coffee_type", string(o.CoffeeType)),
	))
	zctx.From(ctx).Info("Order created",
		zap.String("order_id", o.ID),
		zap.String("price", o.Price.StringFixed(2)),
		zap.Int("prep_time", o.PrepTime),
	)
	return o, nil
}

// Get returns the order with the given ID.
func (s *Service) Get(ctx context.Context, id string) (_ *Order, rerr error) {
	ctx, span := s.tracer.Start(ctx, "order.Get",
		trace.WithAttributes(attribute.String("order.id", id)),
	)
	defer func() { endSpan(span, rerr) }()

	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	return o, nil
}

// List returns all orders in creation order.
func (s *Service) List(ctx context.Context) (_ []Order, rerr error) {
	ctx, span := s.tracer.Start(ctx, "order.List")
	defer func() { endSpan(span, rerr) }()

	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

// UpdateStatus overwrites the status of an order. Any known status is
// accepted regardless of the current one. Moving to preparing also yields the
// estimated ready time, which is not stored.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (_ *StatusUpdate, rerr error) {
	ctx, span := s.tracer.Start(ctx, "order.UpdateStatus",
		trace.WithAttributes(
			attribute.String("order.id", id),
			attribute.String("order.status", string(status)),
		),
	)
	defer func() { endSpan(span, rerr) }()

	if status == "" {
		return nil, &ValidationError{Fields: []validate.FieldError{{Name: "status", Error: validate.ErrFieldRequired}}}
	}
	if err := status.Validate(); err != nil {
		return nil, &ValidationError{Fields: []validate.FieldError{{Name: "status", Error: err}}}
	}

	o, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, errors.Wrap(err, "update status")
	}

	res := &StatusUpdate{
		OrderID: o.ID,
		Status:  o.Status,
	}
	if status == StatusPreparing {
		readyAt := s.now().Add(time.Duration(o.PrepTime) * time.Minute)
		res.EstimatedReadyAt = &readyAt
	}

	s.statusUpdates.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
	zctx.From(ctx).Info("Order status updated",
		zap.String("order_id", o.ID),
		zap.String("status", string(status)),
	)
	return res, nil
}

// Cancel removes an order unless it is already ready or completed.
func (s *Service) Cancel(ctx context.Context, id string) (rerr error) {
	ctx, span := s.tracer.Start(ctx, "order.Cancel",
		trace.WithAttributes(attribute.String("order.id", id)),
	)
	defer func() { endSpan(span, rerr) }()

	err := s.orders.Delete(ctx, id, func(o Order) error {
		if o.Status.IsTerminal() {
			return ErrNotCancellable
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "cancel order")
	}

	s.cancelled.Add(ctx, 1)
	zctx.From(ctx).Info("Order cancelled", zap.String("order_id", id))
	return nil
}

// Count returns the number of stored orders.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.orders.Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "count orders")
	}
	return n, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
