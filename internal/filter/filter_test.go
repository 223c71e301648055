package filter

import (
	"testing"
	"time"

	"github.com/pfrederiksen/bvk-outages/internal/outage"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func strPtr(s string) *string {
	return &s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func addr(municipality, label string) outage.Address {
	a := outage.Address{Label: label, URL: "https://www.google.com/maps/place/x"}
	if municipality != "" {
		a.Municipality = strPtr(municipality)
	}
	return a
}

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{
			name:   "empty filter",
			filter: NewFilter(),
			want:   true,
		},
		{
			name:   "zero value",
			filter: &Filter{},
			want:   true,
		},
		{
			name: "filter with date from",
			filter: &Filter{
				DateFrom: timePtr(time.Now()),
			},
			want: false,
		},
		{
			name: "filter with municipality",
			filter: &Filter{
				Municipalities: []string{"Земун"},
			},
			want: false,
		},
		{
			name: "filter with street",
			filter: &Filter{
				Streets: []string{"Главна"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("Filter.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	nov13 := day(2025, 11, 13)
	nov10 := day(2025, 11, 10)
	nov15 := day(2025, 11, 15)

	zemun := outage.NewRecord(&nov13, "До 22:00", "", "", []outage.Address{
		addr("Земун", "Земун: Главна 1"),
		addr("", "Угриновачка 12"),
	})
	undated := outage.NewRecord(nil, "Радови", "", "", []outage.Address{
		addr("Врачар", "Врачар: Његошева 2"),
	})
	noAddresses := outage.NewRecord(&nov13, "Без адреса", "Текст", "", nil)

	tests := []struct {
		name   string
		filter *Filter
		record *outage.Record
		want   bool
	}{
		{
			name:   "empty filter matches all",
			filter: NewFilter(),
			record: zemun,
			want:   true,
		},
		{
			name:   "within date range",
			filter: &Filter{DateFrom: &nov10, DateTo: &nov15},
			record: zemun,
			want:   true,
		},
		{
			name:   "date bounds are inclusive",
			filter: &Filter{DateFrom: &nov13, DateTo: &nov13},
			record: zemun,
			want:   true,
		},
		{
			name:   "inclusive end with time of day",
			filter: &Filter{DateTo: timePtr(time.Date(2025, 11, 13, 8, 0, 0, 0, time.UTC))},
			record: zemun,
			want:   true,
		},
		{
			name:   "before date range",
			filter: &Filter{DateFrom: &nov15},
			record: zemun,
			want:   false,
		},
		{
			name:   "after date range",
			filter: &Filter{DateTo: &nov10},
			record: zemun,
			want:   false,
		},
		{
			name:   "undated record passes date range",
			filter: &Filter{DateFrom: &nov15},
			record: undated,
			want:   true,
		},
		{
			name:   "municipality match",
			filter: &Filter{Municipalities: []string{"Земун"}},
			record: zemun,
			want:   true,
		},
		{
			name:   "municipality case-insensitive",
			filter: &Filter{Municipalities: []string{"ЗЕМУН"}},
			record: zemun,
			want:   true,
		},
		{
			name:   "municipality no match",
			filter: &Filter{Municipalities: []string{"Звездара"}},
			record: zemun,
			want:   false,
		},
		{
			name:   "municipality filter excludes records without addresses",
			filter: &Filter{Municipalities: []string{"Земун"}},
			record: noAddresses,
			want:   false,
		},
		{
			name:   "street substring",
			filter: &Filter{Streets: []string{"угриновачка"}},
			record: zemun,
			want:   true,
		},
		{
			name:   "street no match",
			filter: &Filter{Streets: []string{"Булевар"}},
			record: zemun,
			want:   false,
		},
		{
			name:   "all criteria must match",
			filter: &Filter{DateFrom: &nov10, Municipalities: []string{"Врачар"}},
			record: zemun,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.record); got != tt.want {
				t.Errorf("Filter.Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	nov13 := day(2025, 11, 13)
	nov14 := day(2025, 11, 14)

	records := []*outage.Record{
		outage.NewRecord(&nov13, "Први", "", "", []outage.Address{addr("Земун", "Земун: Главна 1")}),
		outage.NewRecord(&nov14, "Други", "", "", []outage.Address{addr("Врачар", "Врачар: Његошева 2")}),
		outage.NewRecord(nil, "Трећи", "", "", []outage.Address{addr("Земун", "Земун: Цара Душана 5")}),
	}

	t.Run("empty filter returns input", func(t *testing.T) {
		got := NewFilter().Apply(records)
		if len(got) != 3 {
			t.Errorf("Apply() returned %d records, want 3", len(got))
		}
	})

	t.Run("municipality keeps order", func(t *testing.T) {
		got := (&Filter{Municipalities: []string{"Земун"}}).Apply(records)
		if len(got) != 2 {
			t.Fatalf("Apply() returned %d records, want 2", len(got))
		}
		if got[0].Title != "Први" || got[1].Title != "Трећи" {
			t.Errorf("Apply() order = %q, %q", got[0].Title, got[1].Title)
		}
	})

	t.Run("no matches gives empty slice", func(t *testing.T) {
		got := (&Filter{Municipalities: []string{"Сурчин"}}).Apply(records)
		if got == nil || len(got) != 0 {
			t.Errorf("Apply() = %v, want empty non-nil slice", got)
		}
	})
}

func TestFilter_String(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   string
	}{
		{
			name:   "empty",
			filter: NewFilter(),
			want:   "No active filters",
		},
		{
			name: "all criteria",
			filter: &Filter{
				DateFrom:       timePtr(day(2025, 11, 13)),
				DateTo:         timePtr(day(2025, 11, 15)),
				Municipalities: []string{"Земун", "Врачар"},
				Streets:        []string{"Главна"},
			},
			want: "From: 13.11.2025 | To: 15.11.2025 | Municipalities: Земун, Врачар | Streets: Главна",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.String(); got != tt.want {
				t.Errorf("Filter.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilter_Clone(t *testing.T) {
	original := &Filter{
		DateFrom:       timePtr(day(2025, 11, 13)),
		Municipalities: []string{"Земун"},
		Streets:        []string{"Главна"},
	}

	clone := original.Clone()

	clone.Municipalities[0] = "Врачар"
	clone.Streets = append(clone.Streets, "Булевар")
	*clone.DateFrom = day(2030, 1, 1)

	if original.Municipalities[0] != "Земун" {
		t.Error("modifying clone municipalities changed original")
	}
	if len(original.Streets) != 1 {
		t.Error("modifying clone streets changed original")
	}
	if !original.DateFrom.Equal(day(2025, 11, 13)) {
		t.Error("modifying clone date changed original")
	}
	if clone.DateTo != nil {
		t.Error("clone should keep nil DateTo")
	}
}
