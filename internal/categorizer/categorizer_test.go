package categorizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docanalyzer/internal/categorizer"
	"docanalyzer/internal/domain"
)

func pointsFor(scores []categorizer.Score, c domain.Category) int {
	for _, s := range scores {
		if s.Category == c {
			return s.Points
		}
	}
	return -1
}

func TestClassify_VendorBonus(t *testing.T) {
	scores := categorizer.Scores("receipt #1", "Starbucks Coffee #402")

	assert.GreaterOrEqual(t, pointsFor(scores, domain.CategoryFoodDining), 5)
	assert.Equal(t, domain.CategoryFoodDining, categorizer.Classify("receipt #1", "Starbucks Coffee #402"))
}

func TestClassify_ShortVendorMatchesLongRuleName(t *testing.T) {
	// "mcdonald" is contained in the rule vendor "mcdonalds".
	assert.Equal(t, domain.CategoryFoodDining, categorizer.Classify("", "McDonald"))
}

func TestClassify_KeywordsOnly(t *testing.T) {
	text := "HOTEL CONFIRMATION\nAirport shuttle\nTaxi fare"
	assert.Equal(t, domain.CategoryTravel, categorizer.Classify(text, "Grand Plaza"))
}

func TestClassify_NoMatchIsOther(t *testing.T) {
	assert.Equal(t, domain.CategoryOther, categorizer.Classify("qwerty zxcv", "Acme Widgets"))
}

func TestScores_EmptyVendorMatchesEveryVendorName(t *testing.T) {
	scores := categorizer.Scores("pizza burger", "")

	assert.Equal(t, 8*5+2, pointsFor(scores, domain.CategoryFoodDining))
	assert.Equal(t, 9*5, pointsFor(scores, domain.CategoryTravel))
	assert.Equal(t, 0, pointsFor(scores, domain.CategoryOther))
	assert.Equal(t, domain.CategoryTravel, categorizer.Classify("pizza burger", ""))
}

func TestClassify_VendorIsNotTrimmed(t *testing.T) {
	// "at" alone would be contained in "at&t"; the leading space prevents it.
	assert.Equal(t, domain.CategoryOther, categorizer.Classify("", " at"))
	assert.Equal(t, domain.CategoryUtilities, categorizer.Classify("", "at"))
}

func TestClassify_TieGoesToEarliestRule(t *testing.T) {
	// With no text and no vendor, Travel and Technology both list nine
	// vendors. Travel is declared first.
	scores := categorizer.Scores("", "")
	assert.Equal(t, pointsFor(scores, domain.CategoryTravel), pointsFor(scores, domain.CategoryTechnology))
	assert.Equal(t, domain.CategoryTravel, categorizer.Classify("", ""))
}

func TestClassify_KeywordCountsOncePerKeyword(t *testing.T) {
	scores := categorizer.Scores("pizza pizza pizza", "Qqq Ltd")
	assert.Equal(t, 1, pointsFor(scores, domain.CategoryFoodDining))
}

func TestClassify_Deterministic(t *testing.T) {
	text := "Office supplies: paper, toner, pen\nTotal 45.00"
	vendor := "Staples #1234"

	first := categorizer.Classify(text, vendor)
	firstScores := categorizer.Scores(text, vendor)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, categorizer.Classify(text, vendor))
		assert.Equal(t, firstScores, categorizer.Scores(text, vendor))
	}
	assert.Equal(t, domain.CategoryOfficeSupplies, first)
}

func TestScores_CoverEveryCategory(t *testing.T) {
	scores := categorizer.Scores("", "")
	assert.Len(t, scores, len(domain.Categories))
	for i, s := range scores {
		assert.Equal(t, domain.Categories[i], s.Category)
	}
}
