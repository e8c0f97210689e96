package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageParams_Validate(t *testing.T) {
	tests := []struct {
		name string
		in   PageParams
		want PageParams
	}{
		{"defaults", PageParams{}, PageParams{Page: 1, Limit: DefaultPageLimit}},
		{"negative page", PageParams{Page: -3, Limit: 5}, PageParams{Page: 1, Limit: 5}},
		{"clamped limit", PageParams{Page: 2, Limit: 5000}, PageParams{Page: 2, Limit: MaxPageLimit}},
		{"untouched", PageParams{Page: 4, Limit: 20}, PageParams{Page: 4, Limit: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Validate()
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestPageParams_Offset(t *testing.T) {
	assert.Equal(t, 0, PageParams{Page: 1, Limit: 12}.Offset())
	assert.Equal(t, 24, PageParams{Page: 3, Limit: 12}.Offset())
}

func TestNewPage_PageCount(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{25, 5, 5},
	}

	for _, tt := range tests {
		page := NewPage[int](nil, tt.total, PageParams{Page: 1, Limit: tt.limit})
		assert.Equal(t, tt.want, page.PageCount, "total=%d limit=%d", tt.total, tt.limit)
		assert.NotNil(t, page.Items)
	}
}
