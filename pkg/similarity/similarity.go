// ABOUTME: Lexical similarity heuristics for PRD reconciliation
// ABOUTME: Token-set similarity plus new-feature and add-feature-intent signals

package similarity

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/nainya/prdstore/pkg/markdown"
)

// Decision thresholds used by the reconciliation policy. They are deliberately
// exported as named constants so the policy stays auditable and testable in
// isolation.
const (
	// TitleMatch is the title similarity above which two documents are
	// candidates for the same logical document.
	TitleMatch = 0.8

	// StrongContent marks content similarity high enough to match regardless
	// of title.
	StrongContent = 0.7

	// ModerateContent is the content floor paired with a title match.
	ModerateContent = 0.5

	// TrustedContent is the looser floor applied to auto-mergeable origins.
	TrustedContent = 0.3

	// MinUpdateSimilarity is the minimum similarity for a potential match to
	// be treated as an update target at all.
	MinUpdateSimilarity = 0.3

	// EnhancementCeiling caps the score of "X Enhancement" vs "X" titles.
	EnhancementCeiling = 0.85

	// GenericTitleScore is assigned when both titles normalize to nothing
	// (e.g. "PRD 1/2/2025" vs "PRD"): generic titles are likely duplicates.
	GenericTitleScore = 0.9

	// LopsidedTitleScore is assigned when exactly one title normalizes to
	// nothing.
	LopsidedTitleScore = 0.1

	// AutoMergeGrowth is the content-length delta (in characters) that counts
	// as meaningfully new for auto-mergeable origins.
	AutoMergeGrowth = 25

	// ManualGrowth is the same delta for all other origins.
	ManualGrowth = 50
)

// featureVocabulary is the fixed keyword list whose first appearance in new
// content signals a feature addition.
var featureVocabulary = []string{
	"feature", "functionality", "capability", "enhancement", "improvement",
	"module", "component", "system", "integration", "api", "endpoint",
	"authentication", "authorization", "dashboard", "interface", "ui", "ux",
	"database", "storage", "cache", "search", "filter", "sort",
	"notification", "email", "sms", "push", "alert",
	"payment", "billing", "subscription", "pricing",
	"analytics", "reporting", "metrics", "tracking",
}

// addFeaturePatterns match natural-language phrasings of explicit feature
// addition.
var addFeaturePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)add\s+feature`),
	regexp.MustCompile(`(?i)new\s+.*?feature`),
	regexp.MustCompile(`(?i)additional\s+.*?feature`),
	regexp.MustCompile(`(?i)implement\s+.*?feature`),
	regexp.MustCompile(`(?i)feature\s+addition`),
	regexp.MustCompile(`(?i)enhance\s+with`),
	regexp.MustCompile(`(?i)extend\s+functionality`),
	regexp.MustCompile(`(?i)add\s+functionality`),
	regexp.MustCompile(`(?i)\bnew\s+\w+\s+feature`),
	regexp.MustCompile(`(?i)with\s+.*?feature`),
	regexp.MustCompile(`(?i)including\s+.*?feature`),
	regexp.MustCompile(`(?i)added\s+.*?feature`),
	regexp.MustCompile(`(?i)enhancement`),
}

// featureCategoryPhrases are common product features whose mention alone
// signals feature-addition intent.
var featureCategoryPhrases = []string{
	"shopping cart", "payment processing", "user dashboard", "admin panel",
	"search functionality", "notification system", "reporting module",
	"analytics dashboard", "user management", "content management",
}

var (
	prdPrefixPattern   = regexp.MustCompile(`(?i)^prd\s*-?\s*`)
	enhancementPattern = regexp.MustCompile(`(?i)\s*enhancement\s*-?\s*`)
	datePattern        = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// Content returns the Jaccard similarity of the lowercase token sets of a
// and b. Tokens are whitespace-delimited with surrounding punctuation
// stripped, so "catalog." and "catalog," count as the same word. Two empty
// documents are identical (1); an empty vs a non-empty document is 0.
func Content(a, b string) float64 {
	return jaccard(tokenSet(a), tokenSet(b))
}

// Title scores how likely two titles name the same logical document. Titles
// are normalized by stripping a "PRD -" prefix, an "enhancement" marker and
// embedded dates. An enhancement title sharing any token with its base title
// scores up to EnhancementCeiling.
func Title(a, b string) float64 {
	na := normalizeTitle(a)
	nb := normalizeTitle(b)

	mentionsEnhancement := containsFold(a, "enhancement") || containsFold(b, "enhancement")
	if mentionsEnhancement && na != "" && nb != "" {
		sa, sb := tokenSet(na), tokenSet(nb)
		if inter := intersectionSize(sa, sb); inter > 0 {
			return math.Min(EnhancementCeiling, float64(inter)/float64(min(len(sa), len(sb))))
		}
	}

	if na == "" && nb == "" {
		return GenericTitleScore
	}
	if na == "" || nb == "" {
		return LopsidedTitleScore
	}
	return jaccard(tokenSet(na), tokenSet(nb))
}

// HasNewFeatureSignal reports whether newContent introduces feature vocabulary
// absent from oldContent, or grows the document's markdown structure (more
// headings, or more than one additional bullet line).
func HasNewFeatureSignal(oldContent, newContent string) bool {
	oldWords := tokenSet(oldContent)
	newWords := tokenSet(newContent)

	for _, keyword := range featureVocabulary {
		if _, inNew := newWords[keyword]; !inNew {
			continue
		}
		if _, inOld := oldWords[keyword]; !inOld {
			return true
		}
	}

	oldOutline := markdown.Scan(oldContent)
	newOutline := markdown.Scan(newContent)
	if len(newOutline.Headings) > len(oldOutline.Headings) {
		return true
	}
	return bulletCount(newOutline) > bulletCount(oldOutline)+1
}

// HasAddFeatureIntent reports whether content (or an enhancement-tagged
// origin) explicitly asks for a feature addition.
func HasAddFeatureIntent(content string, enhancementOrigin bool) bool {
	if enhancementOrigin {
		return true
	}
	for _, pattern := range addFeaturePatterns {
		if pattern.MatchString(content) {
			return true
		}
	}
	lower := strings.ToLower(content)
	for _, phrase := range featureCategoryPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func normalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = replaceFirst(prdPrefixPattern, s)
	s = replaceFirst(enhancementPattern, s)
	s = datePattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// replaceFirst removes the first match of re from s.
func replaceFirst(re *regexp.Regexp, s string) string {
	if loc := re.FindStringIndex(s); loc != nil {
		return s[:loc[0]] + s[loc[1]:]
	}
	return s
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.TrimFunc(tok, unicode.IsPunct)
		if tok == "" {
			// Pure punctuation, e.g. markdown decoration.
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	union := len(a) + len(b)
	inter := intersectionSize(a, b)
	union -= inter
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}

func bulletCount(o markdown.Outline) int {
	n := 0
	for _, item := range o.Items {
		switch item.Marker {
		case '-', '*', '+':
			n++
		}
	}
	return n
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
