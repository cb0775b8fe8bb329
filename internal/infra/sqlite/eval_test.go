package sqlite

import (
	"context"
	"testing"

	"github.com/tutu-network/reimburse/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleResults() []domain.CaseResult {
	return []domain.CaseResult{
		{Index: 0, Trip: domain.Trip{Days: 3, Miles: 100, Receipts: 50}, Expected: 295, Actual: 295, Error: 0, Path: domain.PathStandard},
		{Index: 1, Trip: domain.Trip{Days: 5, Miles: 900}, Expected: 1430, Actual: 1426.32, Error: 3.68, Path: domain.PathMegaTrip},
		{Index: 2, Trip: domain.Trip{Days: 3, Miles: 100, Receipts: 50.49}, Expected: 305.5, Actual: 305, Error: 0.5, Path: domain.PathStandard, LuckyCents: true},
		{Index: 3, Trip: domain.Trip{Days: 5, Miles: 500, Receipts: 1000}, Expected: 1351.17, Actual: 1351.17, Error: 0, Path: domain.PathFullWorkWeek},
	}
}

// ─── Summary ────────────────────────────────────────────────────────────────

func TestSummary_Empty(t *testing.T) {
	db := newTestDB(t)

	s, err := db.Summary(context.Background(), 0.01, 1.0)
	if err != nil {
		t.Fatalf("Summary() error: %v", err)
	}
	if s.Cases != 0 || s.AvgError != 0 || s.Score != 0 {
		t.Errorf("empty Summary() = %+v, want zero", s)
	}
}

func TestSummary(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if err := db.InsertResults(ctx, sampleResults()); err != nil {
		t.Fatalf("InsertResults() error: %v", err)
	}

	s, err := db.Summary(ctx, 0.01, 1.0)
	if err != nil {
		t.Fatalf("Summary() error: %v", err)
	}
	if s.Cases != 4 {
		t.Errorf("Cases = %d, want 4", s.Cases)
	}
	if s.ExactMatches != 2 {
		t.Errorf("ExactMatches = %d, want 2", s.ExactMatches)
	}
	if s.CloseMatches != 3 {
		t.Errorf("CloseMatches = %d, want 3", s.CloseMatches)
	}
	if s.MaxError != 3.68 {
		t.Errorf("MaxError = %v, want 3.68", s.MaxError)
	}
	wantAvg := (3.68 + 0.5) / 4
	if diff := s.AvgError - wantAvg; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("AvgError = %v, want %v", s.AvgError, wantAvg)
	}
	wantScore := s.AvgError*100 + 2*0.1
	if s.Score != wantScore {
		t.Errorf("Score = %v, want %v", s.Score, wantScore)
	}
}

// ─── Breakdown & Worst ──────────────────────────────────────────────────────

func TestPathBreakdown(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.InsertResults(ctx, sampleResults())

	stats, err := db.PathBreakdown(ctx)
	if err != nil {
		t.Fatalf("PathBreakdown() error: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("len(stats) = %d, want 3", len(stats))
	}

	byPath := make(map[domain.Path]domain.PathStats)
	for _, ps := range stats {
		byPath[ps.Path] = ps
	}
	if byPath[domain.PathStandard].Cases != 2 {
		t.Errorf("standard cases = %d, want 2", byPath[domain.PathStandard].Cases)
	}
	if byPath[domain.PathStandard].AvgError != 0.25 {
		t.Errorf("standard avg error = %v, want 0.25", byPath[domain.PathStandard].AvgError)
	}
	if byPath[domain.PathMegaTrip].Cases != 1 {
		t.Errorf("mega trip cases = %d, want 1", byPath[domain.PathMegaTrip].Cases)
	}
}

func TestWorstCases(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.InsertResults(ctx, sampleResults())

	worst, err := db.WorstCases(ctx, 2)
	if err != nil {
		t.Fatalf("WorstCases() error: %v", err)
	}
	if len(worst) != 2 {
		t.Fatalf("len(worst) = %d, want 2", len(worst))
	}
	if worst[0].Index != 1 || worst[1].Index != 2 {
		t.Errorf("worst indexes = %d,%d, want 1,2", worst[0].Index, worst[1].Index)
	}
	if worst[0].Path != domain.PathMegaTrip {
		t.Errorf("worst[0].Path = %q, want mega_trip", worst[0].Path)
	}
	if !worst[1].LuckyCents {
		t.Error("worst[1].LuckyCents should round-trip as true")
	}
	if worst[1].Trip.Receipts != 50.49 {
		t.Errorf("worst[1].Trip.Receipts = %v, want 50.49", worst[1].Trip.Receipts)
	}
}

func TestWorstCases_TiesByIndex(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	db.InsertResults(ctx, sampleResults())

	worst, err := db.WorstCases(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(worst) != 4 {
		t.Fatalf("len(worst) = %d, want 4", len(worst))
	}
	// Cases 0 and 3 both have zero error.
	if worst[2].Index != 0 || worst[3].Index != 3 {
		t.Errorf("tie order = %d,%d, want 0,3", worst[2].Index, worst[3].Index)
	}
}

func TestWorstCases_Zero(t *testing.T) {
	db := newTestDB(t)
	worst, err := db.WorstCases(context.Background(), 0)
	if err != nil || worst != nil {
		t.Errorf("WorstCases(0) = %v, %v; want nil, nil", worst, err)
	}
}

func TestInsertResults_DuplicateIndexRollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	dup := []domain.CaseResult{
		{Index: 7, Trip: domain.Trip{Days: 1}, Path: domain.PathStandard},
		{Index: 7, Trip: domain.Trip{Days: 2}, Path: domain.PathStandard},
	}
	if err := db.InsertResults(ctx, dup); err == nil {
		t.Fatal("InsertResults() with duplicate index should fail")
	}

	s, err := db.Summary(ctx, 0.01, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Cases != 0 {
		t.Errorf("Cases = %d after rollback, want 0", s.Cases)
	}
}
