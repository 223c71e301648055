package scraper

import "testing"

func TestClassifyMunicipality(t *testing.T) {
	tests := []struct {
		label            string
		wantMunicipality string // empty for nil
		wantRemainder    string
	}{
		{"Стари град: Булевар деспота Стефана 9", "Стари град", "Булевар деспота Стефана 9"},
		{"Нови Београд: Народних хероја 63, Јурија Гагарина бб", "Нови Београд", "Народних хероја 63, Јурија Гагарина бб"},
		{"Звездара: Булевар краља Александра 199а", "Звездара", "Булевар краља Александра 199а"},
		{"  Земун :  Карађорђев трг 5  ", "Земун", "Карађорђев трг 5"},
		{"ЗЕМУН: Главна 1", "Земун", "Главна 1"},
		{"савски венац: Војводе Миленка 36", "Савски венац", "Војводе Миленка 36"},
		{"Сурчин:", "Сурчин", ""},
		{"Земун Карађорђев трг 5", "", "Земун Карађорђев трг 5"},
		{"Булевар деспота Стефана 9", "", "Булевар деспота Стефана 9"},
		{"Улица Земун: 5", "", "Улица Земун: 5"},
		{"Zemun: Glavna 1", "", "Zemun: Glavna 1"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			municipality, remainder := ClassifyMunicipality(tt.label)

			if tt.wantMunicipality == "" {
				if municipality != nil {
					t.Errorf("municipality = %q, want nil", *municipality)
				}
			} else if municipality == nil {
				t.Errorf("municipality = nil, want %q", tt.wantMunicipality)
			} else if *municipality != tt.wantMunicipality {
				t.Errorf("municipality = %q, want %q", *municipality, tt.wantMunicipality)
			}

			if remainder != tt.wantRemainder {
				t.Errorf("remainder = %q, want %q", remainder, tt.wantRemainder)
			}
		})
	}
}

func TestClassifyMunicipality_AllKnownNames(t *testing.T) {
	for _, name := range Municipalities {
		municipality, remainder := ClassifyMunicipality(name + ": Улица 1")
		if municipality == nil || *municipality != name {
			t.Errorf("ClassifyMunicipality(%q) did not match its own name", name)
		}
		if remainder != "Улица 1" {
			t.Errorf("remainder for %q = %q, want %q", name, remainder, "Улица 1")
		}
	}
}
