package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Analysis is the parsed result of the story analysis stage.
type Analysis struct {
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
	Summary string   `json:"summary,omitempty"`
}

var analysisTags = []string{"SCORE", "FACTOR", "SUMMARY"}

var tagPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(analysisTags))
	for _, tag := range analysisTags {
		m[tag] = regexp.MustCompile(`(?s)\[` + tag + `\](.*?)\[/` + tag + `\]`)
	}
	return m
}()

// ParseAnalysis extracts the tagged fields of an analysis answer. It fails
// with ErrMalformedTag when a tag is unbalanced or nested, when SCORE is
// missing, repeated, or not an integer in [0,100], or when no FACTOR is
// present.
func ParseAnalysis(raw string) (*Analysis, error) {
	for _, tag := range analysisTags {
		opens := strings.Count(raw, "["+tag+"]")
		closes := strings.Count(raw, "[/"+tag+"]")
		if opens != closes {
			return nil, fmt.Errorf("%w: %d [%s] against %d [/%s]", ErrMalformedTag, opens, tag, closes, tag)
		}
	}

	values := make(map[string][]string, len(analysisTags))
	for _, tag := range analysisTags {
		for _, m := range tagPatterns[tag].FindAllStringSubmatch(raw, -1) {
			body := strings.TrimSpace(m[1])
			for _, other := range analysisTags {
				if strings.Contains(body, "["+other+"]") {
					return nil, fmt.Errorf("%w: [%s] nested inside [%s]", ErrMalformedTag, other, tag)
				}
			}
			values[tag] = append(values[tag], body)
		}
	}

	scores := values["SCORE"]
	if len(scores) != 1 {
		return nil, fmt.Errorf("%w: expected one [SCORE], found %d", ErrMalformedTag, len(scores))
	}
	score, err := strconv.Atoi(scores[0])
	if err != nil || score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: score %q is not a number from 0 to 100", ErrMalformedTag, scores[0])
	}

	var factors []string
	for _, f := range values["FACTOR"] {
		if f != "" {
			factors = append(factors, f)
		}
	}
	if len(factors) == 0 {
		return nil, fmt.Errorf("%w: no [FACTOR] found", ErrMalformedTag)
	}

	return &Analysis{
		Score:   score,
		Factors: factors,
		Summary: strings.Join(values["SUMMARY"], " "),
	}, nil
}

// String renders the analysis as plain text for terminals and files.
func (a *Analysis) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d/100\n", a.Score)
	for _, f := range a.Factors {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	if a.Summary != "" {
		fmt.Fprintf(&b, "%s\n", a.Summary)
	}
	return strings.TrimRight(b.String(), "\n")
}
