package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrNotCancellable is returned when cancelling an order that already
	// reached a terminal status.
	ErrNotCancellable = errors.New("cannot cancel order that is ready or completed")
	// ErrAlreadyExists is returned when inserting an order with a taken ID.
	ErrAlreadyExists = errors.New("order already exists")
)

// Size is the cup size of a drink.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Validate checks that s is a known size.
func (s Size) Validate() error {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return nil
	default:
		return errors.Errorf("invalid value: %q", string(s))
	}
}

// CoffeeType is the temperature class of a drink.
type CoffeeType string

const (
	CoffeeTypeHot  CoffeeType = "hot"
	CoffeeTypeIced CoffeeType = "iced"
)

// Validate checks that t is a known coffee type.
func (t CoffeeType) Validate() error {
	switch t {
	case CoffeeTypeHot, CoffeeTypeIced:
		return nil
	default:
		return errors.Errorf("invalid value: %q", string(t))
	}
}

// Flavor is a syrup added to a drink.
type Flavor string

const (
	FlavorFrenchVanilla Flavor = "french vanilla"
	FlavorHazelnut      Flavor = "hazelnut"
	FlavorCaramel       Flavor = "caramel"
	FlavorMocha         Flavor = "mocha"
	FlavorVanilla       Flavor = "vanilla"
	FlavorCinnamon      Flavor = "cinnamon"
)

// Validate checks that f is a known flavor.
func (f Flavor) Validate() error {
	switch f {
	case FlavorFrenchVanilla, FlavorHazelnut, FlavorCaramel, FlavorMocha, FlavorVanilla, FlavorCinnamon:
		return nil
	default:
		return errors.Errorf("invalid value: %q", string(f))
	}
}

// Milk is the milk type of a drink.
type Milk string

const (
	MilkWhole  Milk = "whole"
	MilkOat    Milk = "oat"
	MilkAlmond Milk = "almond"
	MilkSoy    Milk = "soy"
	MilkNone   Milk = "none"
)

// Validate checks that m is a known milk type.
func (m Milk) Validate() error {
	switch m {
	case MilkWhole, MilkOat, MilkAlmond, MilkSoy, MilkNone:
		return nil
	default:
		return errors.Errorf("invalid value: %q", string(m))
	}
}

// IsPremium reports whether m carries the plant-milk surcharge.
func (m Milk) IsPremium() bool {
	switch m {
	case MilkOat, MilkAlmond, MilkSoy:
		return true
	default:
		return false
	}
}

// Status is a stage of the order lifecycle.
type Status string

const (
	StatusReceived  Status = "received"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
)

// Validate checks that s is a known status.
func (s Status) Validate() error {
	switch s {
	case StatusReceived, StatusPreparing, StatusReady, StatusCompleted:
		return nil
	default:
		return errors.Errorf("invalid value: %q", string(s))
	}
}

// IsTerminal reports whether an order in status s can no longer be cancelled.
func (s Status) IsTerminal() bool {
	return s == StatusReady || s == StatusCompleted
}

// Request is a client-submitted drink configuration. Optional fields are nil
// when absent.
type Request struct {
	Size                Size
	CoffeeType          CoffeeType
	Flavors             []Flavor
	Milk                *Milk
	ExtraShots          *int
	SpecialInstructions *string
}

// Clone returns a deep copy of r.
func (r Request) Clone() Request {
	out := r
	if r.Flavors != nil {
		out.Flavors = make([]Flavor, len(r.Flavors))
		copy(out.Flavors, r.Flavors)
	}
	if r.Milk != nil {
		v := *r.Milk
		out.Milk = &v
	}
	if r.ExtraShots != nil {
		v := *r.ExtraShots
		out.ExtraShots = &v
	}
	if r.SpecialInstructions != nil {
		v := *r.SpecialInstructions
		out.SpecialInstructions = &v
	}
	return out
}

// Order is a stored drink order with its computed price and preparation time.
// Only Status changes after creation.
type Order struct {
	ID string
	Request
	Price     decimal.Decimal
	PrepTime  int
	CreatedAt time.Time
	Status    Status
}

// Clone returns a deep copy of o.
func (o Order) Clone() Order {
	o.Request = o.Request.Clone()
	return o
}

// StatusUpdate is the result of a status change. EstimatedReadyAt is set only
// when the order moved to preparing.
type StatusUpdate struct {
	OrderID          string
	Status           Status
	EstimatedReadyAt *time.Time
}

// Repository defines storage operations for orders. Implementations must
// return copies so callers never share state with the store.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	// List returns all orders in insertion order.
	List(ctx context.Context) ([]Order, error)
	// UpdateStatus overwrites the status and returns the updated order.
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
	// Delete removes the order if guard returns nil. The guard runs
	// atomically with the removal.
	Delete(ctx context.Context, id string, guard func(Order) error) error
	Count(ctx context.Context) (int, error)
}
