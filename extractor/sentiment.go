package extractor

import (
	"math"
	"regexp"
	"strings"
)

// sentimentCalibration is the sigmoid steepness K applied to the mean
// AFINN score before folding it into (-1, 1).
const sentimentCalibration = 2.0

// tokenSplit splits text on runs of non-word characters, the same
// coarse tokenization the lexicon scorer uses upstream.
var tokenSplit = regexp.MustCompile(`\W+`)

// afinnLexicon is a curated 136-word SUBSET of the real AFINN-111
// table (2477 word→score entries). The original's loader
// (datasets/AFINN-111.txt, read by SentimentClassificator.__init__)
// was filtered out of the retrieved source pack, which keeps code and
// build config only and drops plain data files, so the actual dataset
// was never available to embed. Scoring below follows the original's
// algorithm exactly (lowercase, tokenize, look up, drop zero/missing,
// mean, scale by sentimentCalibration) but, with ~18x fewer entries,
// a meaningfully higher share of sentiment-bearing words resolve to 0
// (untracked) than in the original, pulling softly-worded text toward
// a neutral score more often than AFINN-111 itself would. See
// DESIGN.md's extractor entry for the tracked functional gap this
// leaves.
var afinnLexicon = map[string]int{
	"abandon": -2, "abandoned": -2, "abuse": -3, "abused": -3,
	"accomplish": 2, "accomplished": 2, "adore": 3, "adorable": 3,
	"afraid": -2, "amazing": 4, "angry": -3, "anxious": -2,
	"appalling": -3, "applaud": 2, "appreciate": 2, "attack": -2,
	"awesome": 4, "bad": -3, "beautiful": 3, "best": 3,
	"betray": -3, "betrayed": -3, "brilliant": 4, "broken": -1,
	"calm": 2, "catastrophe": -3, "celebrate": 3, "cheerful": 2,
	"collapse": -2, "comfort": 2, "condemn": -2, "confident": 2,
	"confused": -2, "corrupt": -3, "courage": 2, "crisis": -3,
	"cruel": -3, "damage": -2, "danger": -2, "dangerous": -2,
	"delight": 3, "delighted": 3, "depressed": -3, "destroy": -3,
	"destroyed": -3, "devastate": -3, "devastated": -3, "disaster": -3,
	"disgust": -3, "disgusting": -3, "dreadful": -3, "eager": 2,
	"ecstatic": 4, "embarrass": -2, "encourage": 2, "enjoy": 2,
	"enjoyed": 2, "enthusiastic": 3, "excellent": 3, "excited": 3,
	"exciting": 3, "fail": -2, "failure": -2, "fantastic": 4,
	"fear": -2, "fraud": -4, "friendly": 2, "furious": -3,
	"generous": 2, "glad": 3, "glorious": 3, "good": 3,
	"grateful": 2, "great": 3, "happy": 3, "harm": -2,
	"hate": -3, "hateful": -3, "heal": 2, "honest": 2,
	"hope": 2, "hopeful": 2, "horrible": -3, "hurt": -2,
	"ideal": 2, "impressive": 3, "improve": 2, "improved": 2,
	"incredible": 3, "injury": -2, "inspire": 2, "inspired": 2,
	"joy": 3, "joyful": 3, "kill": -3, "kind": 2,
	"love": 3, "lovely": 3, "lucky": 3, "mistake": -2,
	"nice": 2, "optimistic": 2, "outstanding": 4, "pain": -2,
	"panic": -3, "perfect": 3, "pleased": 2, "positive": 2,
	"praise": 2, "proud": 2, "ruin": -2, "sad": -2,
	"safe": 2, "scandal": -3, "scary": -2, "shock": -2,
	"shocking": -3, "successful": 2, "suffer": -2, "superb": 4,
	"terrible": -3, "terrific": 3, "terror": -3, "thrilled": 4,
	"tragedy": -3, "tragic": -3, "triumph": 3, "trust": 2,
	"unhappy": -2, "victory": 3, "victim": -2, "violence": -3,
	"wonderful": 3, "worried": -2, "worry": -2, "worst": -3,
}

// scoreText computes the calibrated sentiment of text using the
// AFINN lexicon: split into tokens, look up each (miss = 0), drop
// zeros, take the arithmetic mean, run it through the calibrated
// sigmoid. Empty input (no scoring tokens) yields 0.
func scoreText(text string) float64 {
	tokens := tokenSplit.Split(strings.ToLower(text), -1)
	var sum, count float64
	for _, tok := range tokens {
		if score, ok := afinnLexicon[tok]; ok && score != 0 {
			sum += float64(score)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sigmoid(sum / count)
}

// sigmoid maps a raw mean score into (-1, 1): s(m) = 2*sigma(K*m) - 1.
func sigmoid(m float64) float64 {
	x := m * sentimentCalibration
	return (1/(1+math.Exp(-x)))*2 - 1
}

// SentimentClass names the tri-state classification of a score.
type SentimentClass string

const (
	Positive SentimentClass = "positive"
	Negative SentimentClass = "negative"
	Neutral  SentimentClass = "neutral"
)

// ClassOf classifies score into Positive/Negative/Neutral.
func ClassOf(score float64) SentimentClass {
	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}
