package domain

// PackageTier is one ranking option offered for a work type on the booking form.
type PackageTier struct {
	Value string
	Label string
}

var packageTiers = map[string][]PackageTier{
	"graphics": {
		{Value: "basic", Label: "Basic - Logo & simple graphics"},
		{Value: "advance", Label: "Advance - Full branding package"},
		{Value: "premium", Label: "Premium - Complete visual identity"},
	},
	"ecommerce": {
		{Value: "basic", Label: "Basic - Up to 50 products"},
		{Value: "advance", Label: "Advance - Up to 200 products"},
		{Value: "premium", Label: "Premium - Unlimited products"},
		{Value: "enterprise", Label: "Enterprise - Multi-vendor marketplace"},
	},
	"landing": {
		{Value: "basic", Label: "Basic - Single section landing page"},
		{Value: "advance", Label: "Advance - Multi-section with animations"},
		{Value: "premium", Label: "Premium - Advanced interactive features"},
	},
}

var defaultPackageTiers = []PackageTier{
	{Value: "basic", Label: "Basic - Simple design & functionality"},
	{Value: "landing", Label: "Landing Page - Single page showcase"},
	{Value: "advance", Label: "Advance - Enhanced features & design"},
	{Value: "premium", Label: "Premium - Full-featured solution"},
	{Value: "ecommerce", Label: "E-Commerce - Online store setup"},
	{Value: "enterprise", Label: "Enterprise - Large-scale project"},
}

// PackageTiers returns the ranking options the form offers for workType.
func PackageTiers(workType string) []PackageTier {
	if tiers, ok := packageTiers[workType]; ok {
		return tiers
	}
	return defaultPackageTiers
}

// PackageLabel describes ranking in the context of workType. Rankings the
// form would not offer for that work type are returned unchanged; the
// pairing is informational and never enforced.
func PackageLabel(workType, ranking string) string {
	for _, tier := range PackageTiers(workType) {
		if tier.Value == ranking {
			return tier.Label
		}
	}
	return ranking
}
