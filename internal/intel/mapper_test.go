package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clearsignal/intel-cli/internal/model"
)

func TestMapConstraints_TotalOverEnums(t *testing.T) {
	for _, c := range model.SearchCategories() {
		for _, w := range model.RecencyWindows() {
			got := MapConstraints(c, w)
			assert.NotEmpty(t, got.TopicalEmphasis, "category %s", c)
			assert.NotEmpty(t, got.RecencyFilter, "window %s", w)
			assert.NotEmpty(t, got.RecencyPhrase, "window %s", w)
			assert.Equal(t, "sonar", got.ModelTier)
			assert.Equal(t, 1024, got.MaxOutputTokens)
		}
	}
}

func TestMapConstraints_QuarterClampsToMonth(t *testing.T) {
	got := MapConstraints(model.CategoryFinancial, model.RecencyQuarter)
	assert.Equal(t, "month", got.RecencyFilter)
	assert.True(t, got.Clamped)
	// The prompt phrase keeps the caller's intent.
	assert.Equal(t, "the past quarter", got.RecencyPhrase)
}

func TestMapConstraints_NoClampBelowQuarter(t *testing.T) {
	for _, w := range []model.RecencyWindow{
		model.RecencyHour, model.RecencyDay, model.RecencyWeek, model.RecencyMonth,
	} {
		got := MapConstraints(model.CategoryNews, w)
		assert.Equal(t, string(w), got.RecencyFilter)
		assert.False(t, got.Clamped, "window %s", w)
	}
}

func TestMapConstraints_Pure(t *testing.T) {
	a := MapConstraints(model.CategoryCompetitive, model.RecencyQuarter)
	b := MapConstraints(model.CategoryCompetitive, model.RecencyQuarter)
	assert.Equal(t, a, b)
}

func TestMapConstraints_UnknownInputsFallBack(t *testing.T) {
	got := MapConstraints("bogus", "decade")
	assert.Equal(t, MapConstraints(model.CategoryNews, model.RecencyWeek), got)
}
