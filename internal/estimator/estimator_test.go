package estimator

import (
	"sort"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// clock returns 2024-03-01 at hh:mm UTC.
func clock(hh, mm int) time.Time {
	return time.Date(2024, 3, 1, hh, mm, 0, 0, time.UTC)
}

// generateSorted produces an ascending slice of timestamps with gaps up to
// three hours, including zero gaps for commits in the same second.
func generateSorted(t *rapid.T) []time.Time {
	n := rapid.IntRange(0, 40).Draw(t, "n")
	base := time.Unix(rapid.Int64Range(1_000_000_000, 1_700_000_000).Draw(t, "base"), 0).UTC()
	out := make([]time.Time, n)
	cur := base
	for i := range out {
		step := rapid.Int64Range(0, 3*60*60).Draw(t, "step")
		cur = cur.Add(time.Duration(step) * time.Second)
		out[i] = cur
	}
	return out
}

func generateGap(t *rapid.T) time.Duration {
	return time.Duration(rapid.IntRange(0, 120).Draw(t, "gap_minutes")) * time.Minute
}

func TestEstimateExampleSplitsOnLargeGap(t *testing.T) {
	ts := []time.Time{clock(9, 0), clock(9, 10), clock(9, 45), clock(9, 50)}

	got := Estimate(ts, 20*time.Minute)
	if len(got) != 2 {
		t.Fatalf("expected 2 sessions, got %d: %+v", len(got), got)
	}
	if !got[0].Start.Equal(clock(9, 0)) || !got[0].End.Equal(clock(9, 10)) {
		t.Errorf("session 0: got %v–%v, want 09:00–09:10", got[0].Start, got[0].End)
	}
	if !got[1].Start.Equal(clock(9, 45)) || !got[1].End.Equal(clock(9, 50)) {
		t.Errorf("session 1: got %v–%v, want 09:45–09:50", got[1].Start, got[1].End)
	}
	if total := TotalActive(got); total != 15*time.Minute {
		t.Errorf("TotalActive: got %v, want 15m", total)
	}
	if streak := CurrentStreak(got); streak != 5*time.Minute {
		t.Errorf("CurrentStreak: got %v, want 5m", streak)
	}
}

func TestEstimateGapEqualToThresholdMerges(t *testing.T) {
	ts := []time.Time{clock(8, 0), clock(8, 5), clock(8, 10)}

	got := Estimate(ts, 5*time.Minute)
	if len(got) != 1 {
		t.Fatalf("expected 1 session, got %d: %+v", len(got), got)
	}
	if d := got[0].Duration(); d != 10*time.Minute {
		t.Errorf("Duration: got %v, want 10m", d)
	}
	if got[0].Commits != 3 {
		t.Errorf("Commits: got %d, want 3", got[0].Commits)
	}
}

func TestEstimateEmptyInput(t *testing.T) {
	if got := Estimate(nil, time.Hour); len(got) != 0 {
		t.Errorf("expected no sessions, got %+v", got)
	}
	if got := TotalActive(nil); got != 0 {
		t.Errorf("TotalActive(nil): got %v, want 0", got)
	}
	if got := CurrentStreak(nil); got != 0 {
		t.Errorf("CurrentStreak(nil): got %v, want 0", got)
	}
	if _, ok := Longest(nil); ok {
		t.Error("Longest(nil): expected ok=false")
	}
}

func TestEstimateSingleTimestamp(t *testing.T) {
	got := Estimate([]time.Time{clock(12, 0)}, 30*time.Minute)
	if len(got) != 1 {
		t.Fatalf("expected 1 session, got %d", len(got))
	}
	if got[0].Duration() != 0 {
		t.Errorf("single-commit session should last zero, got %v", got[0].Duration())
	}
	if got[0].First != 0 || got[0].Last != 0 {
		t.Errorf("index range: got [%d,%d], want [0,0]", got[0].First, got[0].Last)
	}
}

func TestEstimateUnsortedInputDoesNotPanic(t *testing.T) {
	ts := []time.Time{clock(10, 0), clock(9, 0), clock(11, 0), clock(8, 0)}
	got := Estimate(ts, 15*time.Minute)
	if len(got) == 0 {
		t.Fatal("expected at least one session for non-empty input")
	}
}

func TestLongestPrefersEarlierOnTie(t *testing.T) {
	ts := []time.Time{clock(9, 0), clock(9, 10), clock(11, 0), clock(11, 10)}
	s, ok := Longest(Estimate(ts, 15*time.Minute))
	if !ok {
		t.Fatal("expected a longest session")
	}
	if !s.Start.Equal(clock(9, 0)) {
		t.Errorf("Longest: got session starting %v, want 09:00", s.Start)
	}
}

func TestSummarizeOngoing(t *testing.T) {
	ts := []time.Time{clock(9, 0), clock(9, 20)}
	gap := 30 * time.Minute

	sum := Summarize(ts, gap, clock(9, 45))
	if !sum.Ongoing {
		t.Error("expected ongoing session 25m after the last commit")
	}
	if !sum.LastCommit.Equal(clock(9, 20)) {
		t.Errorf("LastCommit: got %v, want 09:20", sum.LastCommit)
	}
	if sum.Total != 20*time.Minute || sum.CurrentStreak != 20*time.Minute {
		t.Errorf("Total/CurrentStreak: got %v/%v, want 20m/20m", sum.Total, sum.CurrentStreak)
	}

	later := Summarize(ts, gap, clock(10, 30))
	if later.Ongoing {
		t.Error("expected session to be over 70m after the last commit")
	}

	empty := Summarize(nil, gap, clock(9, 0))
	if empty.Ongoing || !empty.LastCommit.IsZero() {
		t.Errorf("empty summary: got %+v", empty)
	}
}

// Sessions cover every input index exactly once, in order.
func TestEstimatePartitionsInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ts := generateSorted(t)
		sessions := Estimate(ts, generateGap(t))

		next := 0
		commits := 0
		for i, s := range sessions {
			if s.First != next {
				t.Fatalf("session %d starts at index %d, want %d", i, s.First, next)
			}
			if s.Last < s.First {
				t.Fatalf("session %d has Last %d < First %d", i, s.Last, s.First)
			}
			if s.Commits != s.Last-s.First+1 {
				t.Fatalf("session %d: Commits %d does not match range [%d,%d]", i, s.Commits, s.First, s.Last)
			}
			if !s.Start.Equal(ts[s.First]) || !s.End.Equal(ts[s.Last]) {
				t.Fatalf("session %d bounds %v–%v do not match input", i, s.Start, s.End)
			}
			commits += s.Commits
			next = s.Last + 1
		}
		if next != len(ts) || commits != len(ts) {
			t.Fatalf("sessions cover %d of %d timestamps", commits, len(ts))
		}
	})
}

// Internal gaps stay within the threshold; boundary gaps exceed it.
func TestEstimateGapInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ts := generateSorted(t)
		gap := generateGap(t)
		sessions := Estimate(ts, gap)

		for i, s := range sessions {
			for j := s.First + 1; j <= s.Last; j++ {
				if d := ts[j].Sub(ts[j-1]); d > gap {
					t.Fatalf("session %d: internal gap %v exceeds %v", i, d, gap)
				}
			}
			if i > 0 {
				prev := sessions[i-1]
				if d := s.Start.Sub(prev.End); d <= gap {
					t.Fatalf("boundary %d: gap %v does not exceed %v", i, d, gap)
				}
			}
		}
	})
}

func TestEstimateIsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ts := generateSorted(t)
		gap := generateGap(t)

		a := Estimate(ts, gap)
		b := Estimate(ts, gap)
		if len(a) != len(b) {
			t.Fatalf("session counts differ: %d vs %d", len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("session %d differs: %+v vs %+v", i, a[i], b[i])
			}
		}
	})
}

// The total never exceeds the span from first to last commit, and sessions
// stay in chronological order.
func TestEstimateTotalsAreBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ts := generateSorted(t)
		sessions := Estimate(ts, generateGap(t))
		if len(ts) == 0 {
			return
		}
		span := ts[len(ts)-1].Sub(ts[0])
		if total := TotalActive(sessions); total > span || total < 0 {
			t.Fatalf("TotalActive %v outside [0, %v]", total, span)
		}
		if !sort.SliceIsSorted(sessions, func(i, j int) bool { return sessions[i].Start.Before(sessions[j].Start) }) {
			t.Fatal("sessions are not chronological")
		}
		if CurrentStreak(sessions) != sessions[len(sessions)-1].Duration() {
			t.Fatal("CurrentStreak does not match the last session")
		}
	})
}
