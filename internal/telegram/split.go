package telegram

import "strings"

// MaxMessageLength is the Telegram limit for a single message, in characters
const MaxMessageLength = 4096

// SplitMessage splits text into parts of at most limit runes.
// It prefers blank-line boundaries (between records), then line boundaries,
// and only cuts inside a line when a single line is longer than limit.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || runeLen(text) <= limit {
		return []string{text}
	}

	parts := make([]string, 0)
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	appendPiece := func(piece, sep string) {
		if current.Len() == 0 {
			current.WriteString(piece)
			return
		}
		if runeLen(current.String())+runeLen(sep)+runeLen(piece) > limit {
			flush()
			current.WriteString(piece)
			return
		}
		current.WriteString(sep)
		current.WriteString(piece)
	}

	for _, block := range strings.Split(text, "\n\n") {
		if runeLen(block) <= limit {
			appendPiece(block, "\n\n")
			continue
		}

		flush()
		for _, line := range strings.Split(block, "\n") {
			for _, chunk := range chunkRunes(line, limit) {
				appendPiece(chunk, "\n")
			}
		}
		flush()
	}
	flush()

	return parts
}

func chunkRunes(s string, limit int) []string {
	runes := []rune(s)
	if len(runes) <= limit {
		return []string{s}
	}

	chunks := make([]string, 0, len(runes)/limit+1)
	for len(runes) > limit {
		n := safeCut(runes, limit)
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return append(chunks, string(runes))
}

// safeCut returns how many of the first limit runes can form a part without
// splitting an HTML tag, an entity or an element such as <a>...</a>, which
// Telegram's HTML mode rejects. Falls back to limit when no such point exists.
func safeCut(runes []rune, limit int) int {
	var open []int // starts of elements not yet closed
	tagStart, entityStart := -1, -1

	for i := 0; i < limit; i++ {
		switch r := runes[i]; {
		case r == '<':
			tagStart = i
		case r == '>' && tagStart >= 0:
			if tagStart+1 < i && runes[tagStart+1] == '/' {
				if len(open) > 0 {
					open = open[:len(open)-1]
				}
			} else {
				open = append(open, tagStart)
			}
			tagStart = -1
		case r == '&' && tagStart < 0:
			entityStart = i
		case r == ';':
			entityStart = -1
		}
	}

	cut := limit
	if len(open) > 0 {
		cut = open[0]
	}
	for _, start := range []int{tagStart, entityStart} {
		if start >= 0 && start < cut {
			cut = start
		}
	}

	if cut == 0 {
		return limit
	}
	return cut
}

func runeLen(s string) int {
	return len([]rune(s))
}
