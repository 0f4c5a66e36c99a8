// Package categorizer assigns an expense category to a document using an
// additive keyword and vendor scorer over a fixed rule table.
package categorizer

import (
	"strings"

	"docanalyzer/internal/domain"
)

const (
	vendorWeight  = 5
	keywordWeight = 1
)

// Rule ties a category to the keywords and vendor names that vote for it.
type Rule struct {
	Category domain.Category
	Keywords []string
	Vendors  []string
}

// Rules is the scoring table in declaration order. Order decides ties.
var Rules = []Rule{
	{
		Category: domain.CategoryFoodDining,
		Keywords: []string{"restaurant", "cafe", "coffee", "burger", "pizza", "grill", "diner", "food", "meal", "breakfast", "lunch", "dinner"},
		Vendors:  []string{"mcdonalds", "starbucks", "subway", "chipotle", "panera", "wendys", "dominos", "taco bell"},
	},
	{
		Category: domain.CategoryTravel,
		Keywords: []string{"hotel", "motel", "flight", "airline", "car rental", "taxi", "uber", "lyft", "train", "bus", "travel", "transportation", "airport"},
		Vendors:  []string{"marriott", "hilton", "airbnb", "expedia", "delta", "united", "southwest", "hertz", "enterprise"},
	},
	{
		Category: domain.CategoryOfficeSupplies,
		Keywords: []string{"office", "supplies", "paper", "ink", "toner", "printer", "pen", "stapler", "notebook", "stationery"},
		Vendors:  []string{"staples", "office depot", "officemax", "amazon"},
	},
	{
		Category: domain.CategoryUtilities,
		Keywords: []string{"electric", "water", "gas", "utility", "power", "energy", "bill", "phone", "internet", "broadband", "cable"},
		Vendors:  []string{"at&t", "verizon", "comcast", "xfinity", "sprint", "t-mobile"},
	},
	{
		Category: domain.CategoryTechnology,
		Keywords: []string{"computer", "laptop", "monitor", "software", "hardware", "electronics", "camera", "phone", "tablet", "subscription"},
		Vendors:  []string{"apple", "microsoft", "samsung", "google", "best buy", "newegg", "adobe", "dropbox", "zoom"},
	},
	{
		Category: domain.CategoryEntertainment,
		Keywords: []string{"movie", "theater", "concert", "ticket", "show", "entertainment", "music", "streaming", "netflix", "spotify"},
		Vendors:  []string{"amc", "netflix", "spotify", "hulu", "disney+", "hbo", "ticketmaster"},
	},
	{
		Category: domain.CategoryMedical,
		Keywords: []string{"doctor", "pharmacy", "clinic", "health", "medical", "medicine", "prescription", "hospital", "dental", "healthcare"},
		Vendors:  []string{"walgreens", "cvs", "rite aid", "express scripts"},
	},
	{
		Category: domain.CategoryOther,
	},
}

// Score is the total a category collected for one input.
type Score struct {
	Category domain.Category
	Points   int
}

// Scores returns one score per rule, in rule order. Vendor matching is
// containment in either direction on the lowercased vendor as given, so an
// empty vendor matches every listed vendor name.
func Scores(text, vendor string) []Score {
	lowerText := strings.ToLower(text)
	lowerVendor := strings.ToLower(vendor)

	scores := make([]Score, 0, len(Rules))
	for _, rule := range Rules {
		points := 0
		for _, v := range rule.Vendors {
			if strings.Contains(lowerVendor, v) || strings.Contains(v, lowerVendor) {
				points += vendorWeight
			}
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(lowerText, kw) {
				points += keywordWeight
			}
		}
		scores = append(scores, Score{Category: rule.Category, Points: points})
	}
	return scores
}

// Classify returns the highest scoring category. The earliest rule wins ties
// and an all-zero result is Other.
func Classify(text, vendor string) domain.Category {
	best := domain.CategoryOther
	bestPoints := 0
	for _, s := range Scores(text, vendor) {
		if s.Points > bestPoints {
			best = s.Category
			bestPoints = s.Points
		}
	}
	return best
}
