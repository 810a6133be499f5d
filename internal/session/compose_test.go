package session

import (
	"slices"
	"sort"
	"testing"

	"github.com/abhisek/quizreplay/internal/quiz"
	"github.com/abhisek/quizreplay/internal/weakness"
)

func textsOf(qs []quiz.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Text
	}
	return out
}

func TestComposeWeakFirst(t *testing.T) {
	qs := []quiz.Question{singleQ("a"), singleQ("b"), singleQ("c"), singleQ("d"), singleQ("e")}
	weak := weakness.NewSet("d", "b", "not in batch")

	for seed := uint64(1); seed <= 25; seed++ {
		got := Compose(qs, weak, quiz.NewRand(seed))
		if len(got) != len(qs) {
			t.Fatalf("len = %d, want %d", len(got), len(qs))
		}

		head := textsOf(got[:2])
		sort.Strings(head)
		if !slices.Equal(head, []string{"b", "d"}) {
			t.Fatalf("seed %d: weak group = %v", seed, textsOf(got[:2]))
		}
		for i, q := range got {
			if q.IsWeakness != (i < 2) {
				t.Fatalf("seed %d: %q IsWeakness = %v", seed, q.Text, q.IsWeakness)
			}
		}

		all := textsOf(got)
		sort.Strings(all)
		if !slices.Equal(all, []string{"a", "b", "c", "d", "e"}) {
			t.Fatalf("seed %d: not a permutation: %v", seed, textsOf(got))
		}
	}
}

func TestComposeDoesNotMutateInput(t *testing.T) {
	qs := []quiz.Question{singleQ("a"), singleQ("b")}
	_ = Compose(qs, weakness.NewSet("a"), quiz.NewRand(1))
	if qs[0].IsWeakness || qs[0].Text != "a" || qs[1].Text != "b" {
		t.Errorf("input modified: %+v", qs)
	}
}

func TestComposeMatchesByText(t *testing.T) {
	a := singleQ("Same prompt")
	a.ID = "1 Quiz"
	b := singleQ("Same prompt")
	b.ID = "7 Quiz"

	got := Compose([]quiz.Question{a, b, singleQ("other")}, weakness.NewSet("Same prompt"), quiz.NewRand(9))
	if !got[0].IsWeakness || !got[1].IsWeakness || got[2].IsWeakness {
		t.Errorf("sheets sharing a prompt should both be weak: %+v", got)
	}
}

func TestComposeNilSet(t *testing.T) {
	got := Compose([]quiz.Question{singleQ("a")}, nil, quiz.NewRand(1))
	if len(got) != 1 || got[0].IsWeakness {
		t.Errorf("got %+v", got)
	}
}

func TestComposeEmpty(t *testing.T) {
	if got := Compose(nil, weakness.NewSet("x"), quiz.NewRand(1)); len(got) != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestRetryKeepsOrderReshufflesAnswers(t *testing.T) {
	composed := []quiz.Question{multiQ("x"), singleQ("y")}
	composed[0].IsWeakness = true
	before := slices.Clone(composed[0].Answers)

	got := Retry(composed, quiz.NewRand(5))

	if !slices.Equal(textsOf(got), []string{"x", "y"}) {
		t.Errorf("order changed: %v", textsOf(got))
	}
	if !got[0].IsWeakness {
		t.Error("weakness tag lost on retry")
	}
	if !slices.Equal(composed[0].Answers, before) {
		t.Error("retry modified the original answers")
	}
	for i := range got {
		if len(got[i].Answers) != len(composed[i].Answers) ||
			got[i].CorrectCount() != composed[i].CorrectCount() {
			t.Errorf("question %d answers changed: %+v", i, got[i].Answers)
		}
	}
}
