package order

import "github.com/shopspring/decimal"

// MinPrepTime is the lower bound of any preparation estimate, in minutes.
const MinPrepTime = 2

var (
	basePrices = map[Size]decimal.Decimal{
		SizeSmall:  decimal.RequireFromString("3.50"),
		SizeMedium: decimal.RequireFromString("4.25"),
		SizeLarge:  decimal.RequireFromString("4.95"),
	}
	extraShotPrice   = decimal.RequireFromString("0.75")
	flavorPrice      = decimal.RequireFromString("0.50")
	premiumMilkPrice = decimal.RequireFromString("0.65")

	basePrepTime      = decimal.NewFromInt(3)
	icedPrepTime      = decimal.NewFromInt(1)
	extraShotPrepTime = decimal.RequireFromString("0.5")
	flavorsPrepTime   = decimal.NewFromInt(1)
)

// BasePrice returns the price of a plain drink of the given size.
func BasePrice(s Size) decimal.Decimal {
	return basePrices[s]
}

// Price computes the price of a validated request, rounded to cents.
// Coffee type does not affect price.
func Price(r Request) decimal.Decimal {
	price := BasePrice(r.Size)
	if r.ExtraShots != nil {
		price = price.Add(extraShotPrice.Mul(decimal.NewFromInt(int64(*r.ExtraShots))))
	}
	// Charged per flavor, duplicates included.
	price = price.Add(flavorPrice.Mul(decimal.NewFromInt(int64(len(r.Flavors)))))
	if r.Milk != nil && r.Milk.IsPremium() {
		price = price.Add(premiumMilkPrice)
	}
	return price.Round(2)
}

// PrepTime estimates preparation time in whole minutes. Fractional minutes
// are truncated, never rounded up.
func PrepTime(r Request) int {
	acc := basePrepTime
	if r.CoffeeType == CoffeeTypeIced {
		acc = acc.Add(icedPrepTime)
	}
	if r.ExtraShots != nil {
		acc = acc.Add(extraShotPrepTime.Mul(decimal.NewFromInt(int64(*r.ExtraShots))))
	}
	if len(r.Flavors) > 1 {
		acc = acc.Add(flavorsPrepTime)
	}
	return max(MinPrepTime, int(acc.IntPart()))
}
