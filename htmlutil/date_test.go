package htmlutil

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestBuildWeekdayDateFindsNearestPastMatch(t *testing.T) {
	now := time.Date(2026, time.July, 31, 12, 0, 0, 0, time.UTC)
	target := now.AddDate(0, 0, -10)
	weekdayName := strings.ToLower(target.Weekday().String())[:3]
	dayText := fmt.Sprintf("%d", target.Day())

	got, ok := buildWeekdayDate(weekdayName, dayText, now)
	if !ok {
		t.Fatalf("expected a match, got none")
	}
	want := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBuildWeekdayDateRejectsUnknownWeekday(t *testing.T) {
	now := time.Date(2026, time.July, 31, 12, 0, 0, 0, time.UTC)
	if _, ok := buildWeekdayDate("xyz", "12", now); ok {
		t.Errorf("expected no match for an unrecognized weekday abbreviation")
	}
}

func TestBestEffortDateResolvesWeekdayHeuristicFromRawHTML(t *testing.T) {
	now := time.Date(2026, time.July, 31, 12, 0, 0, 0, time.UTC)
	target := now.AddDate(0, 0, -17)
	weekdayName := target.Weekday().String()

	rawHTML := fmt.Sprintf("<p>Posted %s the %dth, the story broke.</p>", weekdayName, target.Day())

	got, ok := BestEffortDate(nil, rawHTML, now)
	if !ok {
		t.Fatalf("expected BestEffortDate to resolve a date from the weekday heuristic")
	}
	want := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
