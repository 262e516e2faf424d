package pagination

import (
	"testing"
)

func TestNewClampsPageNumber(t *testing.T) {
	// 13 条、每页 10 条：第 1 页 10 条，第 2 页 3 条，第 3 页收敛到第 2 页
	tests := []struct {
		name       string
		number     int
		wantNumber int
		wantOffset int
		wantPrev   bool
		wantNext   bool
	}{
		{"first page", 1, 1, 0, false, true},
		{"last page", 2, 2, 10, true, false},
		{"overflow clamps to last", 3, 2, 10, true, false},
		{"zero clamps to first", 0, 1, 0, false, true},
		{"negative clamps to first", -5, 1, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(13, tt.number, 10)
			if p.Number != tt.wantNumber {
				t.Errorf("Number = %d, want %d", p.Number, tt.wantNumber)
			}
			if p.Offset() != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", p.Offset(), tt.wantOffset)
			}
			if p.HasPrev != tt.wantPrev {
				t.Errorf("HasPrev = %v, want %v", p.HasPrev, tt.wantPrev)
			}
			if p.HasNext != tt.wantNext {
				t.Errorf("HasNext = %v, want %v", p.HasNext, tt.wantNext)
			}
			if p.TotalPages != 2 {
				t.Errorf("TotalPages = %d, want 2", p.TotalPages)
			}
		})
	}
}

func TestNewEmptyResultSet(t *testing.T) {
	// 没有数据也有一个空的第 1 页，而不是 0 页
	p := New(0, 1, 10)
	if p.Number != 1 || p.TotalPages != 1 {
		t.Errorf("got Number=%d TotalPages=%d, want 1/1", p.Number, p.TotalPages)
	}
	if p.HasNext || p.HasPrev {
		t.Error("empty page should have no next/prev")
	}
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"2", 2},
		{"99", 2}, // 越界收敛到最后一页
	}

	for _, tt := range tests {
		p := FromQuery(13, tt.raw)
		if p.Number != tt.want {
			t.Errorf("FromQuery(13, %q).Number = %d, want %d", tt.raw, p.Number, tt.want)
		}
		if p.PerPage != PerPage {
			t.Errorf("FromQuery should use the site-wide PerPage, got %d", p.PerPage)
		}
	}
}

func TestNextPrevNumbers(t *testing.T) {
	p := New(30, 2, 10)
	if p.NextNumber() != 3 {
		t.Errorf("NextNumber() = %d, want 3", p.NextNumber())
	}
	if p.PrevNumber() != 1 {
		t.Errorf("PrevNumber() = %d, want 1", p.PrevNumber())
	}
	if p.Limit() != 10 {
		t.Errorf("Limit() = %d, want 10", p.Limit())
	}
}
