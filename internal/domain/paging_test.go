package domain

import "testing"

func TestNewPaged(t *testing.T) {
	cases := []struct {
		total     int64
		pageSize  int
		wantPages int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
	}
	for _, c := range cases {
		p := NewPaged([]int{}, c.total, 1, c.pageSize)
		if p.TotalPages != c.wantPages {
			t.Errorf("NewPaged(total=%d, pageSize=%d).TotalPages = %d, want %d",
				c.total, c.pageSize, p.TotalPages, c.wantPages)
		}
	}
}

func TestNewPagedZeroPageSize(t *testing.T) {
	p := NewPaged([]string{"a"}, 1, 1, 0)
	if p.TotalPages != 0 {
		t.Errorf("TotalPages = %d, want 0 for zero page size", p.TotalPages)
	}
}
