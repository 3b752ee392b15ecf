// Package adscan classifies now-playing metadata snapshots as music or
// advertisement using the two cheap tiers of the detection chain: a
// keyword scan and an ordered structured pattern match. Both tiers
// consume the single rules table below so the vocabularies cannot
// drift apart.
package adscan

// RulesVersion identifies the classification rules table revision
const RulesVersion = 3

// CategoryRule groups the brand names and indicator phrases for one
// advertisement category. Brands and phrases are matched lowercase as
// substrings of the normalized metadata text.
type CategoryRule struct {
	Name    string
	Brands  []string
	Phrases []string
}

// categoryRules is evaluated in order by the pattern tier; the first
// matching category wins.
var categoryRules = []CategoryRule{
	{
		Name: "commercial",
		Phrases: []string{
			"call now", "limited time", "act now", "order now",
			"sponsored by", "brought to you by", "special offer",
			"free trial", "no obligation", "money back guarantee",
			"visit us at", "terms and conditions apply",
			"commercial break", "advertisement", "paid programming",
		},
	},
	{
		Name: "financial",
		Brands: []string{
			"capital one", "chase", "wells fargo", "bank of america",
			"citibank", "discover card", "american express",
			"credit karma", "rocket mortgage", "quicken loans",
			"sofi", "experian",
		},
		Phrases: []string{
			"apr", "credit score", "member fdic", "interest rate",
			"refinance", "0% intro", "annual percentage rate",
			"loan approval", "debt consolidation",
		},
	},
	{
		Name: "insurance",
		Brands: []string{
			"geico", "progressive", "state farm", "allstate",
			"liberty mutual", "farmers insurance", "nationwide",
			"usaa", "aflac",
		},
		Phrases: []string{
			"insurance quote", "save on car insurance", "bundle and save",
			"deductible", "premium rates",
		},
	},
	{
		Name: "fast_food",
		Brands: []string{
			"mcdonald's", "mcdonalds", "burger king", "wendy's",
			"taco bell", "subway", "kfc", "chick-fil-a", "chipotle",
			"domino's", "dominos", "pizza hut", "dunkin",
		},
		Phrases: []string{
			"value menu", "limited time offer", "drive thru",
			"order ahead", "dollar menu",
		},
	},
	{
		Name: "automotive",
		Brands: []string{
			"toyota", "honda", "ford", "chevrolet", "chevy", "nissan",
			"hyundai", "kia", "jeep", "subaru", "carmax", "carvana",
			"autozone",
		},
		Phrases: []string{
			"test drive", "mpg", "lease offer", "0% financing",
			"dealership", "certified pre-owned", "msrp",
		},
	},
	{
		Name: "telecom",
		Brands: []string{
			"verizon", "at&t", "t-mobile", "xfinity", "comcast",
			"spectrum", "cricket wireless", "mint mobile",
		},
		Phrases: []string{
			"unlimited data", "5g network", "switch and save",
			"no contract", "family plan",
		},
	},
	{
		Name: "retail",
		Brands: []string{
			"walmart", "target", "amazon", "costco", "home depot",
			"lowe's", "lowes", "best buy", "kroger", "walgreens",
			"cvs pharmacy",
		},
		Phrases: []string{
			"while supplies last", "in stores now", "free shipping",
			"black friday", "clearance sale",
		},
	},
}

// genericCues are coarse single-word promotional markers consumed only
// by the keyword tier. Too weak to identify a category on their own,
// they catch promotional copy the structured lists miss when two or
// more co-occur.
var genericCues = []string{
	"free", "sale", "offer", "deal", "save", "savings", "discount",
	"hurry", "guarantee", "coupon", "promo", "hotline", "financing",
}

// keywordVocabulary is the Tier 1 cue list: every category phrase and
// brand name plus the generic cues. Songs that happen to mention a
// brand can trip this tier; that false-positive rate is accepted
// because the coarse scan demands two independent hits and the pattern
// tier supersedes it anyway.
func keywordVocabulary() []string {
	vocab := make([]string, 0, 160)
	for _, rule := range categoryRules {
		vocab = append(vocab, rule.Phrases...)
		vocab = append(vocab, rule.Brands...)
	}
	vocab = append(vocab, genericCues...)
	return vocab
}

// corporateSuffixes mark artist fields that carry a company name
// rather than a performer
var corporateSuffixes = []string{" corp", " inc", " llc", " co.", " ltd"}
