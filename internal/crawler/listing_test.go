package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveListingURL(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		sortBy     string
		want       string
	}{
		{
			name: "no categories",
			want: "https://appsumo.com/software/",
		},
		{
			name:       "exact match",
			categories: []string{"marketing"},
			want:       "https://appsumo.com/software/marketing-sales/",
		},
		{
			name:       "case and whitespace normalized",
			categories: []string{"  Productivity "},
			want:       "https://appsumo.com/software/operations/",
		},
		{
			name:       "partial match category contains keyword",
			categories: []string{"video editing"},
			want:       "https://appsumo.com/software/media-tools/",
		},
		{
			name:       "partial match keyword contains category",
			categories: []string{"custom"},
			want:       "https://appsumo.com/software/customer-experience/",
		},
		{
			name:       "unknown category falls back",
			categories: []string{"crypto"},
			want:       "https://appsumo.com/software/",
		},
		{
			name:       "only the first category counts",
			categories: []string{"finance", "marketing"},
			want:       "https://appsumo.com/software/finance/",
		},
		{
			name:   "sort appended",
			sortBy: "rating",
			want:   "https://appsumo.com/software/?sort=rating",
		},
		{
			name:       "category with sort",
			categories: []string{"development"},
			sortBy:     "latest",
			want:       "https://appsumo.com/software/development-it/?sort=latest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveListingURL(tt.categories, tt.sortBy))
		})
	}
}
