package adscan

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/skywavefm/nowplaying/pkg/logging"
	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

var brandCaser = cases.Title(language.English)

// Confidence constants for the cheap tiers. The keyword scan is a
// coarse heuristic; the pattern tier cites a specific indicator and is
// trusted accordingly.
const (
	keywordConfidence = 0.5
	patternConfidence = 0.8
)

// minKeywordHits is the number of independent vocabulary hits required
// before the keyword tier reports an ad
const minKeywordHits = 2

// Classifier runs the two metadata-only tiers of the detection chain
type Classifier struct {
	vocabulary []string
	logger     logging.Logger
}

// NewClassifier creates a classifier over the packaged rules table
func NewClassifier(logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &Classifier{
		vocabulary: keywordVocabulary(),
		logger:     logger,
	}
}

// Classify runs the pattern tier and then the keyword tier over a
// metadata snapshot. The pattern tier is evaluated first because its
// verdict supersedes the coarse scan whenever both would fire.
func (c *Classifier) Classify(title, artist, description string) common.AdVerdict {
	text := normalize(title + " " + artist + " " + description)
	if text == "" {
		return common.AdVerdict{}
	}

	if verdict := c.matchPatterns(text, title, artist); verdict.IsAd {
		c.logger.Debug("Pattern tier matched", logging.Fields{
			"category": verdict.Category,
			"brand":    verdict.Brand,
			"reason":   verdict.Reason,
		})
		return verdict
	}

	return c.scanKeywords(text)
}

// scanKeywords is Tier 1: count cue-phrase hits over the normalized
// text and report an ad at two or more
func (c *Classifier) scanKeywords(text string) common.AdVerdict {
	hits := 0
	var matched []string
	for _, phrase := range c.vocabulary {
		if containsToken(text, phrase) {
			hits++
			matched = append(matched, phrase)
		}
	}

	if hits < minKeywordHits {
		return common.AdVerdict{}
	}

	return common.AdVerdict{
		IsAd:       true,
		Confidence: keywordConfidence,
		Category:   "commercial",
		Reason:     "keyword scan matched: " + strings.Join(matched, ", "),
		Tier:       common.TierKeyword,
	}
}

// matchPatterns is Tier 2: ordered category checks against the full
// normalized text, then shape-based heuristics. Brand indicators are
// checked across every category before the phrase lists because a
// brand hit identifies the advertiser and must win the verdict even
// when a generic phrase would also fire.
func (c *Classifier) matchPatterns(text, title, artist string) common.AdVerdict {
	for _, rule := range categoryRules {
		for _, brand := range rule.Brands {
			if containsToken(text, brand) {
				return common.AdVerdict{
					IsAd:       true,
					Confidence: patternConfidence,
					Category:   rule.Name,
					Brand:      brandCaser.String(brand),
					Reason:     "brand indicator " + strconv.Quote(brand) + " in category " + rule.Name,
					Tier:       common.TierPattern,
				}
			}
		}
	}

	for _, rule := range categoryRules {
		for _, phrase := range rule.Phrases {
			if containsToken(text, phrase) {
				return common.AdVerdict{
					IsAd:       true,
					Confidence: patternConfidence,
					Category:   rule.Name,
					Reason:     "phrase indicator " + strconv.Quote(phrase) + " in category " + rule.Name,
					Tier:       common.TierPattern,
				}
			}
		}
	}

	return c.matchShapes(title, artist)
}

// matchShapes applies structural heuristics that do not depend on the
// rules vocabulary
func (c *Classifier) matchShapes(title, artist string) common.AdVerdict {
	lowerTitle := normalize(title)
	lowerArtist := normalize(artist)

	verdict := common.AdVerdict{
		IsAd:       true,
		Confidence: patternConfidence,
		Category:   "commercial",
		Tier:       common.TierPattern,
	}

	if strings.Contains(lowerTitle, "call") && strings.Contains(lowerTitle, "now") {
		verdict.Reason = "title carries a call-to-action shape"
		return verdict
	}

	for _, suffix := range corporateSuffixes {
		if strings.HasSuffix(lowerArtist, suffix) || strings.Contains(lowerArtist, suffix+" ") {
			verdict.Reason = "artist field carries a corporate suffix"
			return verdict
		}
	}

	if hasDurationToken(lowerTitle) {
		verdict.Reason = "title reads like a spot length"
		return verdict
	}

	return common.AdVerdict{}
}

// hasDurationToken reports titles like "30 second spot" where a number
// co-occurs with a seconds marker
func hasDurationToken(text string) bool {
	if !strings.Contains(text, "second") && !strings.Contains(text, " sec") {
		return false
	}
	for _, field := range strings.Fields(text) {
		if len(field) > 0 && field[0] >= '0' && field[0] <= '9' {
			return true
		}
	}
	return false
}

// containsToken reports whether pattern occurs in text bounded by
// non-letter characters, so "chase" does not fire inside "purchase"
func containsToken(text, pattern string) bool {
	for from := 0; ; {
		idx := strings.Index(text[from:], pattern)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(pattern)
		if (start == 0 || !isWordByte(text[start-1])) &&
			(end == len(text) || !isWordByte(text[end])) {
			return true
		}
		from = start + 1
	}
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
