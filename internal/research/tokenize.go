package research

import "strings"

// englishStopwords covers the common function words the original
// vectorizer filtered. Short list; domain terms are what matter.
var englishStopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"a an and are as at be but by for from has have how in is it its " +
			"of on or that the their there these they this to was were what " +
			"when which who will with") {
		englishStopwords[w] = struct{}{}
	}
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := englishStopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}
