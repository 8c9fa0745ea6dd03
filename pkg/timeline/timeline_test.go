package timeline

import (
	"errors"
	"reflect"
	"testing"
)

func TestMergeOverlappingFirstWins(t *testing.T) {
	rows := []Interval{
		{Label: "a", Start: 0, End: 600},
		{Label: "b", Start: 300, End: 900},
	}
	got := MergeOverlapping(SortByStart(rows))
	want := []Interval{
		{Label: "a", Start: 0, End: 600},
		{Label: "b", Start: 600, End: 900},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeOverlapping = %v, want %v", got, want)
	}
}

func TestMergeOverlappingDropsContained(t *testing.T) {
	rows := []Interval{
		{Label: "a", Start: 0, End: 600},
		{Label: "b", Start: 100, End: 500},
		{Label: "c", Start: 550, End: 700},
	}
	got := MergeOverlapping(SortByStart(rows))
	want := []Interval{
		{Label: "a", Start: 0, End: 600},
		{Label: "c", Start: 600, End: 700},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeOverlapping = %v, want %v", got, want)
	}
}

func TestFillGaps(t *testing.T) {
	rows := []Interval{
		{Label: "sleep", Start: 60, End: 480},
		{Label: "work", Start: 540, End: 1020},
	}
	got := FillGaps(rows, GapLabel)
	want := []Interval{
		{Label: GapLabel, Start: 0, End: 60},
		{Label: "sleep", Start: 60, End: 480},
		{Label: GapLabel, Start: 480, End: 540},
		{Label: "work", Start: 540, End: 1020},
		{Label: GapLabel, Start: 1020, End: 1440},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FillGaps = %v, want %v", got, want)
	}
}

func TestFillGapsIdempotent(t *testing.T) {
	rows := []Interval{
		{Label: "sleep", Start: 0, End: 480},
		{Label: "work", Start: 600, End: 1440},
	}
	once := FillGaps(rows, GapLabel)
	twice := FillGaps(once, GapLabel)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("FillGaps not idempotent: %v vs %v", once, twice)
	}
}

func TestNormalizeLenientFullCoverage(t *testing.T) {
	rows := []Interval{
		{Label: "b", Start: 300, End: 900},
		{Label: "a", Start: 0, End: 600},
	}
	got, err := Normalize(rows, Lenient)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	minutes, err := Minutes(got)
	if err != nil {
		t.Fatalf("Minutes: %v", err)
	}
	if len(minutes) != 1440 {
		t.Fatalf("got %d minutes, want 1440", len(minutes))
	}
	for i, label := range minutes {
		if label == "" {
			t.Fatalf("minute %d unresolved", i)
		}
	}
}

func TestNormalizeStrictOverlap(t *testing.T) {
	rows := []Interval{
		{Label: "a", Start: 0, End: 600},
		{Label: "b", Start: 599, End: 1440},
	}
	_, err := Normalize(rows, Strict)
	var overlapErr *OverlapError
	if !errors.As(err, &overlapErr) {
		t.Fatalf("Normalize error = %v, want OverlapError", err)
	}
	if overlapErr.Minute != 599 {
		t.Errorf("overlap at minute %d, want 599", overlapErr.Minute)
	}
}

func TestNormalizeStrictCoverage(t *testing.T) {
	rows := []Interval{
		{Label: "a", Start: 0, End: 600},
		{Label: "b", Start: 700, End: 1440},
	}
	_, err := Normalize(rows, Strict)
	var covErr *CoverageError
	if !errors.As(err, &covErr) {
		t.Fatalf("Normalize error = %v, want CoverageError", err)
	}
	if covErr.FirstGap != 600 || covErr.Missing != 100 {
		t.Errorf("CoverageError = %+v, want first gap 600, missing 100", covErr)
	}
}

func TestNormalizeRejectsInvalidInterval(t *testing.T) {
	for _, rows := range [][]Interval{
		{{Label: "a", Start: 600, End: 600}},
		{{Label: "a", Start: -1, End: 600}},
		{{Label: "a", Start: 0, End: 1441}},
	} {
		if _, err := Normalize(rows, Lenient); err == nil {
			t.Errorf("Normalize(%v) succeeded, want error", rows)
		}
	}
}

func TestMinutesRejectsGaps(t *testing.T) {
	rows := []Interval{
		{Label: "a", Start: 0, End: 600},
		{Label: "b", Start: 700, End: 1440},
	}
	if _, err := Minutes(rows); err == nil {
		t.Error("Minutes accepted gapped timeline")
	}
}

func TestLabels(t *testing.T) {
	rows := []Interval{
		{Label: "work", Start: 0, End: 100},
		{Label: "sleep", Start: 100, End: 200},
		{Label: "work", Start: 200, End: 1440},
	}
	got := Labels(rows)
	want := []string{"work", "sleep"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Labels = %v, want %v", got, want)
	}
}
