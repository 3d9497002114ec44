package htmlutil

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// timeTagLayouts are the layouts tried, in order, against a <time> tag's
// `datetime` attribute or text content.
var timeTagLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"01/02/2006",
	"1/2/2006",
}

// monthNameDate matches dates like "January 2nd, 2024" or "Jan 2 2024".
var monthNameDate = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t|tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+([0-3]?\d)(?:st|nd|rd|th)?,?\s*(\d{4})?\b`)

// americanNumericDate matches M/D/YY or M/D/YYYY style dates.
var americanNumericDate = regexp.MustCompile(`\b(0?[1-9]|1[0-2])[-/](0?[1-9]|[12]\d|3[01])[-/](\d{2}|\d{4})\b`)

// ofMonthDate matches "the 21st of December, 2014" style dates.
var ofMonthDate = regexp.MustCompile(`(?i)\bthe\s+([0-3]?\d)(?:st|nd|rd|th)?\s+of\s+(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t|tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?),?\s*(\d{4})?\b`)

// weekdayDate matches "Monday the 23rd" style dates; neither year nor
// month is present, so it is resolved against now by walking backward
// to the nearest past day-of-month/weekday combination that matches.
var weekdayDate = regexp.MustCompile(`(?i)\b(mon|tue|wed|thu|fri|sat|sun)[a-z]*\s+the\s+([0-3]?\d)(?:st|nd|rd|th)?\b`)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdayIndex = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// BestEffortDate implements the publication-date heuristic from the
// scraper's common base behavior: parse every <time> tag, falling back
// to a set of raw-HTML regex heuristics, and return the latest date
// that is not in the future, or the zero Time if none qualify.
func BestEffortDate(doc *goquery.Document, rawHTML string, now time.Time) (time.Time, bool) {
	var candidates []time.Time

	if doc != nil {
		doc.Find("time").Each(func(_ int, sel *goquery.Selection) {
			value, ok := sel.Attr("datetime")
			if !ok {
				value = sel.Text()
			}
			if t, ok := parseKnownLayout(value); ok {
				candidates = append(candidates, t)
			}
		})
	}

	if best, ok := latestBefore(candidates, now); ok {
		return best, true
	}

	var heuristic []time.Time
	for _, m := range monthNameDate.FindAllStringSubmatch(rawHTML, -1) {
		if t, ok := buildMonthNameDate(m[1], m[2], m[3], now); ok {
			heuristic = append(heuristic, t)
		}
	}
	for _, m := range americanNumericDate.FindAllStringSubmatch(rawHTML, -1) {
		if t, ok := parseKnownLayout(m[0]); ok {
			heuristic = append(heuristic, t)
		}
	}
	for _, m := range ofMonthDate.FindAllStringSubmatch(rawHTML, -1) {
		if t, ok := buildMonthNameDate(m[2], m[1], m[3], now); ok {
			heuristic = append(heuristic, t)
		}
	}
	for _, m := range weekdayDate.FindAllStringSubmatch(rawHTML, -1) {
		if t, ok := buildWeekdayDate(m[1], m[2], now); ok {
			heuristic = append(heuristic, t)
		}
	}

	return latestBefore(heuristic, now)
}

func parseKnownLayout(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeTagLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func buildMonthNameDate(monthText, dayText, yearText string, now time.Time) (time.Time, bool) {
	month, ok := monthIndex[strings.ToLower(monthText)[:3]]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayText)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	year := now.Year()
	if yearText != "" {
		if y, err := strconv.Atoi(yearText); err == nil {
			year = y
		}
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

// buildWeekdayDate resolves a weekday+day-of-month pair (no month or
// year given in the text) against the nearest day at or before now
// whose weekday and day-of-month both match. Gives up after scanning
// back a full year, which is enough to place any valid day-of-month.
func buildWeekdayDate(weekdayText, dayText string, now time.Time) (time.Time, bool) {
	wd, ok := weekdayIndex[strings.ToLower(weekdayText)[:3]]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayText)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	cursor := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < 366; i++ {
		if cursor.Day() == day && cursor.Weekday() == wd {
			return cursor, true
		}
		cursor = cursor.AddDate(0, 0, -1)
	}
	return time.Time{}, false
}

// latestBefore returns the latest timestamp in ts that is not after now.
func latestBefore(ts []time.Time, now time.Time) (time.Time, bool) {
	var filtered []time.Time
	for _, t := range ts {
		if !t.After(now) {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return time.Time{}, false
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Before(filtered[j]) })
	return filtered[len(filtered)-1], true
}
