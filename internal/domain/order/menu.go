package order

// Menu lists every orderable option and the request limits.
type Menu struct {
	Sizes         []Size
	CoffeeTypes   []CoffeeType
	Flavors       []Flavor
	MilkTypes     []Milk
	MaxExtraShots int
	MaxFlavors    int
}

// GetMenu returns the static menu.
func GetMenu() Menu {
	return Menu{
		Sizes:       []Size{SizeSmall, SizeMedium, SizeLarge},
		CoffeeTypes: []CoffeeType{CoffeeTypeIced, CoffeeTypeHot},
		Flavors: []Flavor{
			FlavorFrenchVanilla,
			FlavorHazelnut,
			FlavorCaramel,
			FlavorMocha,
			FlavorVanilla,
			FlavorCinnamon,
		},
		MilkTypes:     []Milk{MilkWhole, MilkOat, MilkAlmond, MilkSoy, MilkNone},
		MaxExtraShots: MaxExtraShots,
		MaxFlavors:    MaxFlavors,
	}
}
