// Package extractor turns a scraped PageRecord into an ExtractedPage:
// sentences are split, chunked into named-entity candidates, resolved
// against the Entity Dictionary, and scored for sentiment; entities
// and candidates accumulate a running-mean sentiment across the
// page, and a suggested-entity ranking is produced from a
// title-biased weighted count.
package extractor

import (
	"net/url"
	"strings"
	"time"

	"github.com/trendin/entitycrawler/crawlerrors"
	"github.com/trendin/entitycrawler/entity"
	"github.com/trendin/entitycrawler/scraper"
)

// Title and entity-over-candidate weighting applied when building the
// suggested-entities ranking.
const (
	titleWeight                  = 2
	entitiesOverCandidatesWeight = 2
)

const extractorName = "entitycrawler_extractor2"

// Sentiment is the on-wire sentiment triple attached to every
// entity/candidate.
type Sentiment struct {
	Score float64        `json:"score"`
	Count int            `json:"count"`
	Class SentimentClass `json:"class"`
}

// ScoredEntity is a dictionary-resolved entity plus its accumulated
// sentiment for one page.
type ScoredEntity struct {
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Sentiment Sentiment `json:"sentiment"`
}

// ScoredCandidate is an unresolved candidate phrase plus its
// accumulated sentiment for one page.
type ScoredCandidate struct {
	Name      string    `json:"name"`
	Sentiment Sentiment `json:"sentiment"`
}

// Page is the extracted result for a single scraped page.
type Page struct {
	Extractor         string            `json:"extractor"`
	URL               string            `json:"url"`
	Site              string            `json:"site"`
	Parser            string            `json:"parser"`
	Title             string            `json:"title"`
	Text              string            `json:"text"`
	ExtractedAt       time.Time         `json:"extracted_at"`
	Keywords          []string          `json:"keywords"`
	Entities          []ScoredEntity    `json:"entities"`
	Candidates        []ScoredCandidate `json:"candidates"`
	SuggestedEntities []string          `json:"suggested_entities"`
}

// Extractor resolves entity mentions against a Dictionary and scores
// sentiment over a page's text.
type Extractor struct {
	dict *entity.Dictionary
	now  func() time.Time
}

// New creates an Extractor backed by dict. now defaults to time.Now
// when nil.
func New(dict *entity.Dictionary, now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	return &Extractor{dict: dict, now: now}
}

type runningStat struct {
	score float64
	count int
}

func updateRunningMean(prior *runningStat, s float64) runningStat {
	if prior == nil {
		return runningStat{score: s, count: 1}
	}
	count := prior.count + 1
	newScore := (prior.score*float64(prior.count) + s) / float64(count)
	return runningStat{score: newScore, count: count}
}

// Extract runs the full pipeline over page, returning a
// *crawlerrors.ExtractionError if page has no text.
func (x *Extractor) Extract(page *scraper.PageRecord) (*Page, error) {
	if len(page.Text) == 0 {
		return nil, &crawlerrors.ExtractionError{URL: page.URL}
	}
	text := strings.Join(page.Text, " . ")

	entityStats := make(map[string]*runningStat)
	entityMeta := make(map[string]*entity.Entry)
	candidateStats := make(map[string]*runningStat)

	var bodyEntityNames, bodyCandidateNames []string

	for _, sent := range SplitSentences(text) {
		if len(sent) < 3 {
			continue
		}
		r := chunkAndCheck(sent, x.dict)
		for _, h := range page.HighlightedStrings {
			includeHighlight(h, sent, x.dict, &r)
		}
		if len(r.entities) == 0 && len(r.candidates) == 0 {
			continue
		}

		for _, e := range r.entities {
			bodyEntityNames = append(bodyEntityNames, e.Name)
		}
		bodyCandidateNames = append(bodyCandidateNames, r.candidates...)

		sentiment := scoreText(r.residue)
		for _, e := range r.entities {
			key := entityKey(e)
			entityMeta[key] = e
			updated := updateRunningMean(entityStats[key], sentiment)
			entityStats[key] = &updated
		}
		for _, c := range r.candidates {
			updated := updateRunningMean(candidateStats[c], sentiment)
			candidateStats[c] = &updated
		}
	}

	titleResult := chunkAndCheck(page.Title, x.dict)
	if len(titleResult.entities) > 0 || len(titleResult.candidates) > 0 {
		titleSentiment := scoreText(titleResult.residue)
		for _, e := range titleResult.entities {
			key := entityKey(e)
			entityMeta[key] = e
			updated := updateRunningMean(entityStats[key], titleSentiment)
			entityStats[key] = &updated
		}
		for _, c := range titleResult.candidates {
			updated := updateRunningMean(candidateStats[c], titleSentiment)
			candidateStats[c] = &updated
		}
	}
	var titleEntityNames []string
	for _, e := range titleResult.entities {
		titleEntityNames = append(titleEntityNames, e.Name)
	}

	keywords := page.Metadata["keywords"]
	for _, kw := range keywords {
		e := x.dict.Check(kw)
		if e == nil {
			continue
		}
		key := entityKey(e)
		entityMeta[key] = e
		if prior, ok := entityStats[key]; ok {
			entityStats[key] = &runningStat{score: prior.score, count: prior.count + 1}
		} else {
			entityStats[key] = &runningStat{score: 0, count: 1}
		}
	}

	suggested := suggestedEntities(titleEntityNames, bodyEntityNames, titleResult.candidates, bodyCandidateNames)

	return &Page{
		Extractor:         extractorName,
		URL:               page.URL,
		Site:              hostnameOf(page.URL),
		Parser:            page.Parser,
		Title:             page.Title,
		Text:              text,
		ExtractedAt:       x.now(),
		Keywords:          keywords,
		Entities:          wrapEntities(entityMeta, entityStats),
		Candidates:        wrapCandidates(candidateStats),
		SuggestedEntities: suggested,
	}, nil
}

func entityKey(e *entity.Entry) string {
	return e.Name + "." + e.Category
}

func hostnameOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func wrapEntities(meta map[string]*entity.Entry, stats map[string]*runningStat) []ScoredEntity {
	result := make([]ScoredEntity, 0, len(stats))
	for key, stat := range stats {
		e := meta[key]
		result = append(result, ScoredEntity{
			Name:     e.Name,
			Category: e.Category,
			Sentiment: Sentiment{
				Score: stat.score,
				Count: stat.count,
				Class: ClassOf(stat.score),
			},
		})
	}
	return result
}

func wrapCandidates(stats map[string]*runningStat) []ScoredCandidate {
	result := make([]ScoredCandidate, 0, len(stats))
	for name, stat := range stats {
		result = append(result, ScoredCandidate{
			Name: name,
			Sentiment: Sentiment{
				Score: stat.score,
				Count: stat.count,
				Class: ClassOf(stat.score),
			},
		})
	}
	return result
}
