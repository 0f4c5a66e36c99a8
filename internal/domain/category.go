package domain

// Category is an expense category assigned to every canonical record.
type Category string

const (
	CategoryFoodDining     Category = "Food & Dining"
	CategoryTravel         Category = "Travel"
	CategoryOfficeSupplies Category = "Office Supplies"
	CategoryUtilities      Category = "Utilities"
	CategoryTechnology     Category = "Technology"
	CategoryEntertainment  Category = "Entertainment"
	CategoryMedical        Category = "Medical"
	CategoryOther          Category = "Other"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryFoodDining,
	CategoryTravel,
	CategoryOfficeSupplies,
	CategoryUtilities,
	CategoryTechnology,
	CategoryEntertainment,
	CategoryMedical,
	CategoryOther,
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
