package scraper

import (
	"regexp"
	"strings"
)

// Municipalities lists the Belgrade municipalities recognized as address prefixes.
// Matching is done in this order and the first match wins.
var Municipalities = []string{
	"Чукарица",
	"Нови Београд",
	"Палилула",
	"Раковица",
	"Савски венац",
	"Стари град",
	"Вождовац",
	"Врачар",
	"Земун",
	"Звездара",
	"Барајево",
	"Гроцка",
	"Лазаревац",
	"Младеновац",
	"Обреновац",
	"Сопот",
	"Сурчин",
}

type municipalityPattern struct {
	name  string
	regex *regexp.Regexp
}

// "Name:" at the start of a label, case-insensitive, spaces allowed around the colon
var municipalityPatterns = compileMunicipalityPatterns(Municipalities)

func compileMunicipalityPatterns(names []string) []municipalityPattern {
	patterns := make([]municipalityPattern, 0, len(names))
	for _, name := range names {
		patterns = append(patterns, municipalityPattern{
			name:  name,
			regex: regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(name) + `[\s\p{Z}]*:[\s\p{Z}]*`),
		})
	}
	return patterns
}

// ClassifyMunicipality matches the label against the known municipalities.
// When a municipality prefix is found it returns the municipality and the rest of
// the label; otherwise it returns nil and the trimmed label.
func ClassifyMunicipality(label string) (*string, string) {
	trimmed := strings.TrimSpace(label)

	for _, p := range municipalityPatterns {
		loc := p.regex.FindStringIndex(trimmed)
		if loc == nil {
			continue
		}
		name := p.name
		return &name, strings.TrimSpace(trimmed[loc[1]:])
	}

	return nil, trimmed
}
