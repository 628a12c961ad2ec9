// internal/extract/extractor.go

// Package extract parses free-form prospect utterances into typed candidate
// fields. A single message delimited by commas or conjunctions may yield
// several fields in one pass; each part is classified independently, so the
// order of parts never determines the field type.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"lease-concierge/internal/models"
)

// Candidate is one typed field parsed out of an utterance. Explicit marks a
// restatement ("my name is ...", "actually my email is ...") that is allowed
// to replace an already-merged value.
type Candidate struct {
	Field      models.FieldType
	Value      string
	Confidence float64
	Explicit   bool
}

var (
	emailRe      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	emailFindRe  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	emailPhoneRe = regexp.MustCompile(`([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})\s+(\d{10})`)
	nonDigitRe   = regexp.MustCompile(`\D`)
	strictDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearRe       = regexp.MustCompile(`\b\d{4}\b`)
	nameRe       = regexp.MustCompile(`^[a-zA-Z\s\-'\.]+$`)
	namePrefixRe = regexp.MustCompile(`(?i)(?:my\s+name\s+is\s+|i\s+am\s+|i'm\s+|call\s+me\s+)([a-zA-Z\s\-'\.]+)`)
	emailStateRe = regexp.MustCompile(`(?i)(?:my\s+email\s+is\s+|new\s+email\s+is\s+|email\s*:\s*)(\S+)`)
	phoneStateRe = regexp.MustCompile(`(?i)(?:my\s+(?:phone|number)\s+is\s+|phone\s*:\s*)([\d\s\-\(\)\.\+]+)`)
	bedsDigitRe  = regexp.MustCompile(`\b([1-4])\s*(?:-?\s*(?:bed|beds|bedroom|bedrooms|br|bhk))?\b`)
	partSplitRe  = regexp.MustCompile(`(?i)\s*(?:[,;]|\band\b)\s*`)
)

var greetingWords = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "yo": {}, "hiya": {},
	"good morning": {}, "good afternoon": {}, "good evening": {},
}

var dateKeywords = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
	"asap", "soon", "immediately", "winter", "spring", "summer", "fall",
	"month", "week", "today", "tomorrow",
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4,
}

// Extract parses an utterance into zero or more typed candidates. Unparseable
// parts are dropped silently; absence of a match is the failure signal.
func Extract(utterance string) []Candidate {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return nil
	}

	// A bare greeting is conversational glue, never a name.
	if _, ok := greetingWords[strings.ToLower(text)]; ok {
		return nil
	}

	var out []Candidate
	claimed := map[models.FieldType]bool{}

	add := func(c Candidate) {
		if claimed[c.Field] {
			return
		}
		claimed[c.Field] = true
		out = append(out, c)
	}

	// Explicit restatements win over positional parsing and may replace
	// previously merged values.
	if m := namePrefixRe.FindStringSubmatch(text); m != nil {
		if name := cleanName(m[1]); name != "" {
			add(Candidate{Field: models.FieldName, Value: name, Confidence: 0.9, Explicit: true})
		}
	}
	if m := emailStateRe.FindStringSubmatch(text); m != nil {
		if addr := emailFindRe.FindString(m[1]); addr != "" {
			add(Candidate{Field: models.FieldEmail, Value: strings.ToLower(addr), Confidence: 0.95, Explicit: true})
		}
	}
	if m := phoneStateRe.FindStringSubmatch(text); m != nil {
		if phone, ok := normalizePhone(m[1]); ok {
			add(Candidate{Field: models.FieldPhone, Value: phone, Confidence: 0.95, Explicit: true})
		}
	}

	for _, raw := range partSplitRe.Split(text, -1) {
		part := strings.TrimSpace(raw)
		if part == "" {
			continue
		}
		if c, ok := classify(part); ok {
			add(c)
		}
	}

	return out
}

// classify assigns a single delimited part to at most one field type.
// Precedence: email > phone > date > bedroom count > name fallback.
func classify(part string) (Candidate, bool) {
	if emailRe.MatchString(part) {
		return Candidate{Field: models.FieldEmail, Value: strings.ToLower(part), Confidence: 0.99}, true
	}

	// A part like "jane@example.com 5551230000" carries two fields; the email
	// wins the part and the caller re-splits on whitespace rarely enough that
	// we pull the phone out here directly.
	if m := emailPhoneRe.FindStringSubmatch(part); m != nil {
		return Candidate{Field: models.FieldEmail, Value: strings.ToLower(m[1]), Confidence: 0.99}, true
	}

	if phone, ok := normalizePhone(part); ok {
		return Candidate{Field: models.FieldPhone, Value: phone, Confidence: 0.95}, true
	}

	if looksLikeDate(part) {
		conf := 0.7
		if strictDateRe.MatchString(part) {
			conf = 0.9
		}
		return Candidate{Field: models.FieldMoveIn, Value: part, Confidence: conf}, true
	}

	if beds, ok := parseBeds(part); ok {
		return Candidate{Field: models.FieldBeds, Value: strconv.Itoa(beds), Confidence: 0.9}, true
	}

	if name := cleanName(part); name != "" {
		return Candidate{Field: models.FieldName, Value: name, Confidence: 0.5}, true
	}

	return Candidate{}, false
}

// SecondaryPhone pulls a phone number trailing an email in the same part,
// e.g. "jane@example.com 5551230000".
func SecondaryPhone(utterance string) (string, bool) {
	if m := emailPhoneRe.FindStringSubmatch(utterance); m != nil {
		return normalizePhone(m[2])
	}
	return "", false
}

func normalizePhone(text string) (string, bool) {
	// Reject parts with letters so "Unit B301" or a name never reads as a
	// phone number.
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return "", false
		}
	}
	digits := nonDigitRe.ReplaceAllString(text, "")
	switch {
	case len(digits) == 10:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:], true
	case len(digits) == 11 && digits[0] == '1':
		return "(" + digits[1:4] + ") " + digits[4:7] + "-" + digits[7:], true
	default:
		return "", false
	}
}

func looksLikeDate(part string) bool {
	lower := strings.ToLower(part)
	if strictDateRe.MatchString(part) {
		return true
	}
	for _, kw := range dateKeywords {
		if containsWord(lower, kw) {
			return true
		}
	}
	// A bare year like "2026" reads as a timeframe, not a name or phone. A
	// part carrying more digits than a year (a phone fragment) does not.
	return yearRe.MatchString(part) && len(nonDigitRe.ReplaceAllString(part, "")) == 4
}

// parseBeds recognizes "studio" as 0 and digits or number words 1-4,
// optionally suffixed with a bedroom noun. Counts outside 0-4 are rejected
// outright rather than merged speculatively.
func parseBeds(part string) (int, bool) {
	lower := strings.ToLower(strings.TrimSpace(part))

	if containsWord(lower, "studio") {
		return 0, true
	}

	// Require the bedroom noun unless the part is just a small number; a bare
	// "3" inside a longer sentence could be anything.
	fields := strings.Fields(lower)
	if len(fields) == 1 {
		if n, ok := numberWords[fields[0]]; ok {
			return n, true
		}
		if len(fields[0]) == 1 && fields[0][0] >= '1' && fields[0][0] <= '4' {
			return int(fields[0][0] - '0'), true
		}
	}

	if !strings.Contains(lower, "bed") && !strings.Contains(lower, "br") && !strings.Contains(lower, "bhk") {
		return 0, false
	}
	for word, n := range numberWords {
		if containsWord(lower, word) {
			return n, true
		}
	}
	if m := bedsDigitRe.FindStringSubmatch(lower); m != nil {
		return int(m[1][0] - '0'), true
	}
	return 0, false
}

func cleanName(text string) string {
	name := strings.TrimSpace(text)
	if len(name) < 2 || len(strings.Fields(name)) > 4 {
		return ""
	}
	if !nameRe.MatchString(name) {
		return ""
	}
	lower := strings.ToLower(name)
	if _, ok := greetingWords[lower]; ok {
		return ""
	}
	// Date phrases like "next month" pass the letters-only check but are not
	// names.
	for _, kw := range []string{"month", "year", "asap", "soon", "week"} {
		if strings.Contains(lower, kw) {
			return ""
		}
	}
	for _, kw := range dateKeywords {
		if lower == kw {
			return ""
		}
	}
	// Apartment vocabulary is a topic, not a name.
	for _, kw := range []string{"apartment", "bedroom", "studio", "unit", "looking", "searching", "place", "home", "bath"} {
		if strings.Contains(lower, kw) {
			return ""
		}
	}
	return name
}

func containsWord(haystack, word string) bool {
	idx := strings.Index(haystack, word)
	for idx >= 0 {
		before := idx == 0 || !isAlnum(haystack[idx-1])
		afterIdx := idx + len(word)
		after := afterIdx >= len(haystack) || !isAlnum(haystack[afterIdx])
		if before && after {
			return true
		}
		next := strings.Index(haystack[idx+1:], word)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
