package textchunk

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// minBreakRatio is the earliest point in a window, as a fraction of its
// length, at which a soft boundary is accepted.
const minBreakRatio = 0.5

// Split breaks text into trimmed, non-empty segments of at most maxLen runes.
// Within each window it cuts at the last paragraph break, then the last
// sentence end, then the last newline, then the last whitespace, provided
// the boundary falls in the second half of the window. Otherwise it cuts
// hard at maxLen. Text is NFC-normalized first and no cut separates a
// combining mark from its base. A maxLen below 1 returns the trimmed text as
// a single segment.
func Split(text string, maxLen int) []string {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return nil
	}
	if maxLen < 1 {
		return []string{text}
	}

	var (
		chunks []string
		runes  = []rune(text)
	)
	for len(runes) > 0 {
		runes = trimLeft(runes)
		if len(runes) == 0 {
			break
		}
		if len(runes) <= maxLen {
			chunks = appendTrimmed(chunks, runes)
			break
		}

		cut := clusterBoundary(runes, 0, breakPoint(runes[:maxLen]))
		chunks = appendTrimmed(chunks, runes[:cut])
		runes = runes[cut:]
	}
	return chunks
}

// Fixed slices the NFC form of text into consecutive pieces of size runes.
// A piece is shorter when the cut would split a combining sequence, and
// longer only when one such sequence exceeds size. Nothing is trimmed, so
// joining the pieces gives back the normalized text. A size below 1 returns
// it as a single piece.
func Fixed(text string, size int) []string {
	if text == "" {
		return nil
	}
	text = norm.NFC.String(text)
	runes := []rune(text)
	if size < 1 || len(runes) <= size {
		return []string{text}
	}

	pieces := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); {
		end := clusterBoundary(runes, start, min(start+size, len(runes)))
		pieces = append(pieces, string(runes[start:end]))
		start = end
	}
	return pieces
}

// clusterBoundary moves cut back to the start of the combining sequence it
// falls in. If that would leave nothing after start, it moves forward past
// the sequence instead.
func clusterBoundary(r []rune, start, cut int) int {
	c := cut
	for c > start && c < len(r) && unicode.Is(unicode.M, r[c]) {
		c--
	}
	if c > start {
		return c
	}
	for cut < len(r) && unicode.Is(unicode.M, r[cut]) {
		cut++
	}
	return cut
}

// breakPoint returns the exclusive end of the segment to take from window.
func breakPoint(window []rune) int {
	floor := max(1, int(float64(len(window))*minBreakRatio))

	finders := []func([]rune) int{
		lastParagraphBreak,
		lastSentenceEnd,
		lastRune(func(r rune) bool { return r == '\n' }),
		lastRune(unicode.IsSpace),
	}
	for _, find := range finders {
		if cut := find(window); cut >= floor {
			return cut
		}
	}
	return len(window)
}

func lastParagraphBreak(w []rune) int {
	for i := len(w) - 2; i >= 0; i-- {
		if w[i] == '\n' && w[i+1] == '\n' {
			return i + 2
		}
	}
	return -1
}

func lastSentenceEnd(w []rune) int {
	for i := len(w) - 1; i >= 0; i-- {
		switch w[i] {
		case '。', '！', '？':
			return i + 1
		case '.', '!', '?', '…':
			if i+1 < len(w) && unicode.IsSpace(w[i+1]) {
				return i + 1
			}
		}
	}
	return -1
}

func lastRune(match func(rune) bool) func([]rune) int {
	return func(w []rune) int {
		for i := len(w) - 1; i >= 0; i-- {
			if match(w[i]) {
				return i + 1
			}
		}
		return -1
	}
}

func trimLeft(r []rune) []rune {
	for len(r) > 0 && unicode.IsSpace(r[0]) {
		r = r[1:]
	}
	return r
}

func appendTrimmed(chunks []string, r []rune) []string {
	if s := strings.TrimSpace(string(r)); s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}
