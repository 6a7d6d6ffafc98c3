package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "small hot",
			req:  Request{Size: SizeSmall, CoffeeType: CoffeeTypeHot},
			want: "3.50",
		},
		{
			name: "medium iced",
			req:  Request{Size: SizeMedium, CoffeeType: CoffeeTypeIced},
			want: "4.25",
		},
		{
			name: "large with flavors oat milk and shots",
			req: Request{
				Size:       SizeLarge,
				CoffeeType: CoffeeTypeHot,
				Flavors:    []Flavor{FlavorHazelnut, FlavorCaramel},
				Milk:       ptr(MilkOat),
				ExtraShots: ptr(2),
			},
			want: "8.10",
		},
		{
			name: "duplicate flavors charged per instance",
			req: Request{
				Size:       SizeSmall,
				CoffeeType: CoffeeTypeHot,
				Flavors:    []Flavor{FlavorMocha, FlavorMocha, FlavorMocha},
			},
			want: "5.00",
		},
		{
			name: "whole milk has no surcharge",
			req:  Request{Size: SizeMedium, CoffeeType: CoffeeTypeHot, Milk: ptr(MilkWhole)},
			want: "4.25",
		},
		{
			name: "no milk has no surcharge",
			req:  Request{Size: SizeMedium, CoffeeType: CoffeeTypeHot, Milk: ptr(MilkNone)},
			want: "4.25",
		},
		{
			name: "almond surcharge is flat",
			req:  Request{Size: SizeSmall, CoffeeType: CoffeeTypeIced, Milk: ptr(MilkAlmond)},
			want: "4.15",
		},
		{
			name: "soy surcharge",
			req:  Request{Size: SizeSmall, CoffeeType: CoffeeTypeIced, Milk: ptr(MilkSoy)},
			want: "4.15",
		},
		{
			name: "zero extra shots",
			req:  Request{Size: SizeLarge, CoffeeType: CoffeeTypeHot, ExtraShots: ptr(0)},
			want: "4.95",
		},
		{
			name: "maximum order",
			req: Request{
				Size:       SizeLarge,
				CoffeeType: CoffeeTypeIced,
				Flavors:    []Flavor{FlavorVanilla, FlavorMocha, FlavorCinnamon},
				Milk:       ptr(MilkAlmond),
				ExtraShots: ptr(5),
			},
			want: "10.85",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Price(tt.req)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got),
				"expected price %s, got %s", tt.want, got)
		})
	}
}

func TestPrice_Properties(t *testing.T) {
	cent := decimal.RequireFromString("0.01")
	for _, size := range GetMenu().Sizes {
		for _, ct := range GetMenu().CoffeeTypes {
			for shots := 0; shots <= MaxExtraShots; shots++ {
				for flavors := 0; flavors <= MaxFlavors; flavors++ {
					for _, milk := range GetMenu().MilkTypes {
						req := Request{
							Size:       size,
							CoffeeType: ct,
							Flavors:    make([]Flavor, flavors),
							Milk:       ptr(milk),
							ExtraShots: ptr(shots),
						}
						for i := range req.Flavors {
							req.Flavors[i] = FlavorCaramel
						}

						price := Price(req)
						assert.True(t, price.GreaterThanOrEqual(BasePrice(size)))
						assert.True(t, price.Mod(cent).IsZero(), "price %s is not a multiple of a cent", price)
						assert.True(t, price.Equal(Price(req.Clone())), "price must be deterministic")
						assert.GreaterOrEqual(t, PrepTime(req), MinPrepTime)
					}
				}
			}
		}
	}
}

func TestPrepTime(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want int
	}{
		{
			name: "plain hot",
			req:  Request{Size: SizeSmall, CoffeeType: CoffeeTypeHot},
			want: 3,
		},
		{
			name: "plain iced",
			req:  Request{Size: SizeSmall, CoffeeType: CoffeeTypeIced},
			want: 4,
		},
		{
			name: "one extra shot truncates half minute",
			req:  Request{Size: SizeSmall, CoffeeType: CoffeeTypeIced, ExtraShots: ptr(1)},
			want: 4,
		},
		{
			name: "two extra shots",
			req:  Request{Size: SizeSmall, CoffeeType: CoffeeTypeHot, ExtraShots: ptr(2)},
			want: 4,
		},
		{
			name: "single flavor adds nothing",
			req:  Request{Size: SizeSmall, CoffeeType: CoffeeTypeHot, Flavors: []Flavor{FlavorMocha}},
			want: 3,
		},
		{
			name: "multiple flavors add a flat minute",
			req: Request{
				Size:       SizeSmall,
				CoffeeType: CoffeeTypeHot,
				Flavors:    []Flavor{FlavorMocha, FlavorVanilla, FlavorCaramel},
			},
			want: 4,
		},
		{
			name: "scenario order",
			req: Request{
				Size:       SizeLarge,
				CoffeeType: CoffeeTypeHot,
				Flavors:    []Flavor{FlavorHazelnut, FlavorCaramel},
				Milk:       ptr(MilkOat),
				ExtraShots: ptr(2),
			},
			want: 5,
		},
		{
			name: "everything",
			req: Request{
				Size:       SizeLarge,
				CoffeeType: CoffeeTypeIced,
				Flavors:    []Flavor{FlavorHazelnut, FlavorCaramel},
				ExtraShots: ptr(5),
			},
			want: 7,
		},
		{
			name: "size does not matter",
			req:  Request{Size: SizeLarge, CoffeeType: CoffeeTypeHot},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrepTime(tt.req))
		})
	}
}
