package engine

import (
	"strings"
	"testing"
)

func TestScore_EmptyAndWhitespace(t *testing.T) {
	s := NewScorer()
	for _, text := range []string{"", "   ", "\n\t  \n"} {
		snap := s.Score(text, 5)
		if snap.Value != 0 {
			t.Errorf("Score(%q, 5).Value = %d, want 0", text, snap.Value)
		}
		if snap.TimeBonus != 0 || snap.QualityBonus != 0 {
			t.Errorf("Score(%q, 5) granted bonuses to an empty answer: %+v", text, snap)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := NewScorer()
	first := s.Score("closures capture their lexical environment", 42)
	for i := 0; i < 10; i++ {
		if got := s.Score("closures capture their lexical environment", 42); got != first {
			t.Fatalf("call %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestScore_QuantizedAndBounded(t *testing.T) {
	s := NewScorer()
	texts := []string{
		"one",
		"a b c d e f g",
		strings.Repeat("word ", 25),
		strings.Repeat("word ", 80) + " 예를 들어",
	}
	for _, text := range texts {
		for _, elapsed := range []int{0, 1, 10, 100, 600, 100000} {
			snap := s.Score(text, elapsed)
			if snap.Value%5 != 0 {
				t.Errorf("Score(%d words, %ds).Value = %d, not a multiple of 5", snap.WordCount, elapsed, snap.Value)
			}
			if snap.Value < 0 || snap.Value > 100 {
				t.Errorf("Score(%d words, %ds).Value = %d, out of [0,100]", snap.WordCount, elapsed, snap.Value)
			}
		}
	}
}

func TestScore_BaseScoreCapsAt30Words(t *testing.T) {
	s := NewScorer()
	at30 := s.Score(strings.Repeat("w ", 30), 10)
	at31 := s.Score(strings.Repeat("w ", 31), 10)
	at100 := s.Score(strings.Repeat("w ", 100), 10)
	if at30.BaseScore != 60 {
		t.Errorf("base score at 30 words = %v, want 60", at30.BaseScore)
	}
	if at31.BaseScore != at30.BaseScore || at100.BaseScore != at30.BaseScore {
		t.Errorf("base score grew past the cap: 30=%v 31=%v 100=%v", at30.BaseScore, at31.BaseScore, at100.BaseScore)
	}
}

func TestScore_TimeBonusNeverNegative(t *testing.T) {
	s := NewScorer()
	for _, elapsed := range []int{600, 601, 10000, 1 << 30} {
		snap := s.Score("short answer", elapsed)
		if snap.TimeBonus < 0 {
			t.Errorf("time bonus at %ds = %v, want >= 0", elapsed, snap.TimeBonus)
		}
	}
	// Exactly at the decay boundary: 30 - 600*0.05 == 0.
	if snap := s.Score("short answer", 600); snap.TimeBonus != 0 {
		t.Errorf("time bonus at 600s = %v, want 0", snap.TimeBonus)
	}
}

func TestScore_LongAnswerWithExampleMarker(t *testing.T) {
	s := NewScorer()
	// 40 words including the marker: base caps at 60, time bonus 29.5,
	// quality 10 -> raw 99.5 -> quantized 100.
	text := strings.Repeat("단어 ", 38) + "예를 들어"
	snap := s.Score(text, 10)
	if snap.WordCount != 40 {
		t.Fatalf("word count = %d, want 40", snap.WordCount)
	}
	if snap.BaseScore != 60 {
		t.Errorf("base score = %v, want 60", snap.BaseScore)
	}
	if snap.TimeBonus != 29.5 {
		t.Errorf("time bonus = %v, want 29.5", snap.TimeBonus)
	}
	if snap.QualityBonus != 10 {
		t.Errorf("quality bonus = %v, want 10", snap.QualityBonus)
	}
	if snap.Value != 100 {
		t.Errorf("value = %d, want 100", snap.Value)
	}
}

func TestScore_CustomMarkers(t *testing.T) {
	s := NewScorer("for instance")
	with := s.Score("for instance a goroutine leak shows up in pprof", 10)
	without := s.Score("a goroutine leak shows up in pprof", 10)
	if with.QualityBonus != 10 {
		t.Errorf("custom marker not honored: %+v", with)
	}
	if without.QualityBonus != 0 {
		t.Errorf("bonus granted without marker: %+v", without)
	}
	// Default markers are replaced, not appended.
	if def := s.Score("예를 들어 goroutine", 10); def.QualityBonus != 0 {
		t.Errorf("default marker still active after override: %+v", def)
	}
}
