// Package ner pulls named entities and identifiers out of extracted text
// with deterministic rules: regular expressions for machine-readable
// identifiers, label cues and small gazetteers for names, places and
// organizations.  It trades recall for reproducibility; the same text
// always yields the same entity set.
package ner

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/claimlens/claimlens/internal/domain/document"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// phoneRe admits an optional +country prefix and common separators,
	// requiring at least nine digits overall.
	phoneRe = regexp.MustCompile(`\+?[0-9][0-9 \-()]{7,}[0-9]`)

	// nationalIDRe is the 12-digit identity number; lookaround is not
	// available, so longer digit runs are filtered after matching.
	nationalIDRe = regexp.MustCompile(`[0-9]{12,}`)

	taxIDRe = regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`)

	dateRe = regexp.MustCompile(`\b(?:[0-9]{4}-[0-9]{2}-[0-9]{2}|[0-9]{1,2}[/\-][0-9]{1,2}[/\-][0-9]{4}|[0-9]{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+[0-9]{4})\b`)

	numberRe = regexp.MustCompile(`\b[0-9]+(?:\.[0-9]+)?\b`)

	// personCueRe catches honorific-led names; nameAfterLabelRe catches
	// form fields like "Applicant Name: Ramu Majhi".
	personCueRe      = regexp.MustCompile(`\b(?:Shri|Smt|Sri|Kum|Mr|Mrs|Ms)\.?[ \t]+([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){0,3})`)
	nameAfterLabelRe = regexp.MustCompile(`(?i:\b(?:applicant|holder|owner|claimant|father'?s?)[ \t]*(?:name)?[ \t]*[:\-])[ \t]*([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){0,3})`)

	locationLabelRe = regexp.MustCompile(`(?i:\b(?:village|gram|district|tehsil|taluka|block|state)[ \t]*[:\-])[ \t]*([A-Z][A-Za-z]+(?:[ \t]+[A-Z][A-Za-z]+){0,2})`)
)

// orgKeywords mark a capitalized phrase as an organization when any word
// matches.
var orgKeywords = []string{
	"Ministry", "Department", "Committee", "Sabha", "Panchayat",
	"Society", "Authority", "Office", "Board", "Tribunal", "Federation",
}

var capPhraseRe = regexp.MustCompile(`\b[A-Z][A-Za-z]+(?:[ \t]+(?:of|for|and|[A-Z][A-Za-z]+)){0,5}`)

// Extract returns every entity found in text.  It never fails: garbage in,
// empty set out.
func Extract(text string) document.EntitySet {
	set := document.EmptyEntitySet()
	if strings.TrimSpace(text) == "" {
		return set
	}
	text = norm.NFC.String(text)

	set.Emails = dedupe(emailRe.FindAllString(text, -1))
	set.Phones = dedupe(phones(text))
	set.Identifiers.NationalIDs = dedupe(nationalIDs(text))
	set.Identifiers.TaxIDs = dedupe(taxIDRe.FindAllString(text, -1))
	set.Dates = dedupe(dateRe.FindAllString(text, -1))
	set.Numbers = dedupe(plainNumbers(text, set))
	set.People = dedupe(people(text))
	set.Organizations = dedupe(organizations(text))
	set.Locations = dedupe(locations(text))
	return set
}

func phones(text string) []string {
	var out []string
	for _, m := range phoneRe.FindAllString(text, -1) {
		if digits := countDigits(m); digits >= 9 && digits <= 15 {
			out = append(out, strings.TrimSpace(m))
		}
	}
	return out
}

func nationalIDs(text string) []string {
	var out []string
	for _, m := range nationalIDRe.FindAllString(text, -1) {
		// An exact 12-digit run; anything longer is some other number.
		if len(m) == 12 {
			out = append(out, m)
		}
	}
	return out
}

// plainNumbers keeps numeric tokens that were not already claimed as an
// identifier or phone.
func plainNumbers(text string, set document.EntitySet) []string {
	claimed := map[string]bool{}
	for _, id := range set.Identifiers.NationalIDs {
		claimed[id] = true
	}
	for _, p := range set.Phones {
		claimed[strings.Map(keepDigits, p)] = true
	}
	var out []string
	for _, m := range numberRe.FindAllString(text, -1) {
		if !claimed[m] {
			out = append(out, m)
		}
	}
	return out
}

func people(text string) []string {
	var out []string
	for _, m := range personCueRe.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	for _, m := range nameAfterLabelRe.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

func organizations(text string) []string {
	var out []string
	for _, phrase := range capPhraseRe.FindAllString(text, -1) {
		for _, kw := range orgKeywords {
			if containsWord(phrase, kw) {
				out = append(out, strings.TrimSpace(phrase))
				break
			}
		}
	}
	return out
}

func locations(text string) []string {
	var out []string
	for _, m := range locationLabelRe.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

func containsWord(phrase, word string) bool {
	for _, w := range strings.Fields(phrase) {
		if w == word {
			return true
		}
	}
	return false
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func keepDigits(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}

// dedupe trims and removes duplicates preserving first-seen order, and
// normalizes nil to an empty slice so JSON stays an array.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
