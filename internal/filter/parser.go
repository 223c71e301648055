package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/bvk-outages/internal/scraper"
)

// accepted layouts for --from/--to
var dateLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"02.01.2006.",
	"2.1.2006.",
	"2006-01-02",
}

// nowFunc is replaced in tests
var nowFunc = time.Now

// ParseDate parses a date bound given on the command line.
//
// Supported formats:
//   - "13.11.2025" or "13.11.2025." (day.month.year)
//   - "2025-11-13"
//   - "today"/"danas", "yesterday"/"juče", "tomorrow"/"sutra"
//
// Returns UTC midnight of that day.
func ParseDate(input string) (*time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("date cannot be empty")
	}

	now := nowFunc().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch strings.ToLower(input) {
	case "today", "danas", "данас":
		return &today, nil
	case "yesterday", "juče", "juce", "јуче":
		d := today.AddDate(0, 0, -1)
		return &d, nil
	case "tomorrow", "sutra", "сутра":
		d := today.AddDate(0, 0, 1)
		return &d, nil
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, input)
		if err == nil {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("invalid date %q. Use '13.11.2025', '2025-11-13', 'today' or 'tomorrow'", input)
}

// ParseDateRange parses optional from/to bounds and checks their order
func ParseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var dateFrom, dateTo *time.Time
	var err error

	if strings.TrimSpace(from) != "" {
		if dateFrom, err = ParseDate(from); err != nil {
			return nil, nil, fmt.Errorf("parsing start date: %w", err)
		}
	}

	if strings.TrimSpace(to) != "" {
		if dateTo, err = ParseDate(to); err != nil {
			return nil, nil, fmt.Errorf("parsing end date: %w", err)
		}
	}

	if dateFrom != nil && dateTo != nil && dateFrom.After(*dateTo) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}

	return dateFrom, dateTo, nil
}

// ParseMunicipality resolves user input to a known municipality name.
// Input may be Cyrillic or Serbian Latin and is matched case-insensitively,
// so "novi beograd" resolves to "Нови Београд".
func ParseMunicipality(input string) (string, error) {
	input = strings.Join(strings.Fields(input), " ")
	if input == "" {
		return "", fmt.Errorf("municipality cannot be empty")
	}

	cyrillic := ToCyrillic(input)
	for _, name := range scraper.Municipalities {
		if strings.EqualFold(name, input) || strings.EqualFold(name, cyrillic) {
			return name, nil
		}
	}

	return "", fmt.Errorf("unknown municipality: %s", input)
}

// ParseMunicipalities resolves a list of municipalities, dropping duplicates
func ParseMunicipalities(inputs []string) ([]string, error) {
	names := make([]string, 0, len(inputs))
	seen := make(map[string]bool)

	for _, input := range inputs {
		name, err := ParseMunicipality(input)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return names, nil
}

// Serbian Latin to Cyrillic; digraphs are matched before single letters
var latinToCyrillic = strings.NewReplacer(
	"dž", "џ", "Dž", "Џ", "DŽ", "Џ",
	"lj", "љ", "Lj", "Љ", "LJ", "Љ",
	"nj", "њ", "Nj", "Њ", "NJ", "Њ",
	"a", "а", "A", "А",
	"b", "б", "B", "Б",
	"c", "ц", "C", "Ц",
	"č", "ч", "Č", "Ч",
	"ć", "ћ", "Ć", "Ћ",
	"d", "д", "D", "Д",
	"đ", "ђ", "Đ", "Ђ",
	"e", "е", "E", "Е",
	"f", "ф", "F", "Ф",
	"g", "г", "G", "Г",
	"h", "х", "H", "Х",
	"i", "и", "I", "И",
	"j", "ј", "J", "Ј",
	"k", "к", "K", "К",
	"l", "л", "L", "Л",
	"m", "м", "M", "М",
	"n", "н", "N", "Н",
	"o", "о", "O", "О",
	"p", "п", "P", "П",
	"r", "р", "R", "Р",
	"s", "с", "S", "С",
	"š", "ш", "Š", "Ш",
	"t", "т", "T", "Т",
	"u", "у", "U", "У",
	"v", "в", "V", "В",
	"z", "з", "Z", "З",
	"ž", "ж", "Ž", "Ж",
)

// ToCyrillic transliterates Serbian Latin text to Cyrillic
func ToCyrillic(s string) string {
	return latinToCyrillic.Replace(s)
}
