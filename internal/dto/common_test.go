package dto

import "testing"

func TestNewPage(t *testing.T) {
	tests := []struct {
		name           string
		total          int64
		pageSize       int
		wantPagesCount int64
	}{
		{"empty", 0, 10, 0},
		{"exact fit", 20, 10, 2},
		{"partial last page", 21, 10, 3},
		{"single item", 1, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage([]string{}, 1, tt.pageSize, tt.total)
			if p.PagesCount != tt.wantPagesCount {
				t.Errorf("PagesCount = %d, want %d", p.PagesCount, tt.wantPagesCount)
			}
			if p.TotalCount != tt.total {
				t.Errorf("TotalCount = %d, want %d", p.TotalCount, tt.total)
			}
		})
	}
}

func TestPageQueryOffset(t *testing.T) {
	tests := []struct {
		page, size, want int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{3, 25, 50},
	}

	for _, tt := range tests {
		q := PageQuery{PageNumber: tt.page, PageSize: tt.size}
		if got := q.Offset(); got != tt.want {
			t.Errorf("Offset() for page %d size %d = %d, want %d", tt.page, tt.size, got, tt.want)
		}
	}
}
