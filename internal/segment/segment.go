// Package segment splits normalized article text into paragraph-aware
// sentence records with character spans and quote flags.
package segment

import (
	"regexp"
	"strings"

	"github.com/crediblehq/credible/internal/model"
)

// newsroomMarkers force a sentence break: wire copy often glues them to
// the preceding paragraph without punctuation.
var newsroomMarkers = []string{
	"BREAKING:",
	"UPDATE:",
	"EXCLUSIVE:",
	"WATCH:",
	"JUST IN:",
}

var markerPatterns = compileMarkerPatterns()

func compileMarkerPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(newsroomMarkers))
	for _, m := range newsroomMarkers {
		patterns = append(patterns, regexp.MustCompile(`(?:\n\s*)?`+regexp.QuoteMeta(m)))
	}
	return patterns
}

// minFragmentLen: anything shorter is a journalistic fragment
// ("However.", "But.") merged into the preceding sentence.
const minFragmentLen = 12

// Segment splits text into ordered sentence records. Paragraphs are
// delimited by blank lines; sentence IDs are monotonic within the call.
func Segment(text string) []model.SentenceRecord {
	text = normalizeMarkers(text)
	paragraphs := splitParagraphs(text)

	var records []model.SentenceRecord
	id := 0
	charOffset := 0

	for paraIndex, paragraph := range paragraphs {
		for _, span := range splitSentences(paragraph) {
			sentence := paragraph[span.start:span.end]
			records = append(records, model.SentenceRecord{
				ID:             id,
				Text:           sentence,
				ParagraphIndex: paraIndex,
				CharStart:      charOffset + span.start,
				CharEnd:        charOffset + span.end,
				ContainsQuote:  containsQuote(sentence),
			})
			id++
		}
		// +2 accounts for the paragraph break
		charOffset += len(paragraph) + 2
	}

	return mergeFragments(records)
}

func normalizeMarkers(text string) string {
	for i, pattern := range markerPatterns {
		text = pattern.ReplaceAllString(text, "\n\n"+newsroomMarkers[i])
	}
	return text
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return paragraphs
}

type span struct {
	start, end int
}

// splitSentences scans for sentence terminators followed by whitespace.
// Returned spans are byte offsets into the paragraph, trimmed of
// surrounding whitespace.
func splitSentences(paragraph string) []span {
	var spans []span
	start := 0

	for i := 0; i < len(paragraph); i++ {
		c := paragraph[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		// Only break when followed by whitespace, so "7.2%" and
		// abbreviations mid-token stay intact.
		if i+1 < len(paragraph) && paragraph[i+1] != ' ' && paragraph[i+1] != '\t' && paragraph[i+1] != '\n' {
			continue
		}
		if s, ok := trimSpan(paragraph, start, i+1); ok {
			spans = append(spans, s)
		}
		start = i + 1
	}

	if s, ok := trimSpan(paragraph, start, len(paragraph)); ok {
		spans = append(spans, s)
	}

	return spans
}

func trimSpan(paragraph string, start, end int) (span, bool) {
	for start < end && isSpace(paragraph[start]) {
		start++
	}
	for end > start && isSpace(paragraph[end-1]) {
		end--
	}
	if start >= end {
		return span{}, false
	}
	return span{start: start, end: end}, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func containsQuote(s string) bool {
	return strings.ContainsAny(s, `"`) ||
		strings.Contains(s, "“") || strings.Contains(s, "”")
}

// mergeFragments folds very short fragments into the preceding
// sentence, extending its span and quote flag. IDs keep their original
// assignment, so they stay monotonic but not necessarily contiguous.
func mergeFragments(records []model.SentenceRecord) []model.SentenceRecord {
	if len(records) == 0 {
		return records
	}

	merged := make([]model.SentenceRecord, 0, len(records))
	buffer := records[0]

	for _, current := range records[1:] {
		if len(current.Text) < minFragmentLen {
			buffer.Text = buffer.Text + " " + current.Text
			buffer.CharEnd = current.CharEnd
			buffer.ContainsQuote = buffer.ContainsQuote || current.ContainsQuote
			continue
		}
		merged = append(merged, buffer)
		buffer = current
	}

	return append(merged, buffer)
}
