package bandit_test

import (
	"encoding/json"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"theramuse/internal/bandit"
)

const dim = 20

func testContext() []float64 {
	c := make([]float64, dim)
	c[0] = 1
	c[3] = 0.78
	c[4] = 0.6
	c[14] = 0.4
	return c
}

func newPolicy(seed int64) *bandit.Policy {
	return bandit.NewPolicy(1.0, 0.98, rand.New(rand.NewSource(seed)), nil)
}

func TestFreshArmDislikeUpdate(t *testing.T) {
	policy := newPolicy(1)
	arm := bandit.NewArm("seasonal", dim, 1.0)
	c := testContext()

	policy.Update(arm, c, -1.0)

	for i := 0; i < dim; i++ {
		if got := arm.Accumulator().AtVec(i); got != -c[i] {
			t.Fatalf("b[%d] = %v, want %v", i, got, -c[i])
		}
		for j := 0; j < dim; j++ {
			want := c[i] * c[j]
			if i == j {
				want += 1.0
			}
			if got := arm.Precision().At(i, j); math.Abs(got-want) > 1e-12 {
				t.Fatalf("A[%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}

	if score := policy.MeanScore(arm, c); score >= 0 {
		t.Fatalf("mean score after dislike = %v, want negative", score)
	}
}

func TestRewardMonotonicity(t *testing.T) {
	c := testContext()
	cases := []struct {
		feedback string
		compare  func(before, after float64) bool
	}{
		{"like", func(before, after float64) bool { return after > before }},
		{"dislike", func(before, after float64) bool { return after < before }},
		{"skip", func(before, after float64) bool { return math.Abs(after-before) < 1e-9 }},
	}
	for _, tc := range cases {
		policy := bandit.NewPolicy(1.0, 1.0, rand.New(rand.NewSource(7)), nil)
		arm := bandit.NewArm("instruments", dim, 1.0)
		before := policy.MeanScore(arm, c)
		reward, err := bandit.Reward(tc.feedback)
		if err != nil {
			t.Fatalf("Reward(%s): %v", tc.feedback, err)
		}
		policy.Update(arm, c, reward)
		after := policy.MeanScore(arm, c)
		if !tc.compare(before, after) {
			t.Errorf("%s: mean score went %v -> %v", tc.feedback, before, after)
		}
	}
}

func TestPrecisionStaysSymmetricPositiveDefinite(t *testing.T) {
	policy := newPolicy(3)
	arm := bandit.NewArm("favorite_genre", dim, 1.0)
	rng := rand.New(rand.NewSource(11))

	for step := 0; step < 200; step++ {
		c := make([]float64, dim)
		for i := range c {
			c[i] = rng.Float64()
		}
		reward := float64(rng.Intn(3) - 1)
		policy.Update(arm, c, reward)
	}

	for i := 0; i < dim; i++ {
		for j := i + 1; j < dim; j++ {
			if arm.Precision().At(i, j) != arm.Precision().At(j, i) {
				t.Fatalf("A asymmetric at (%d,%d)", i, j)
			}
		}
	}
	// Sampling factorizes A; a non positive definite matrix would take the
	// fallback path and leave w near the mean with 0.1 noise instead.
	w := policy.SampleWeights(arm)
	if w.Len() != dim {
		t.Fatalf("sample length = %d", w.Len())
	}
}

func TestSampleDeterministicForFixedSeed(t *testing.T) {
	arm := bandit.NewArm("seasonal", dim, 1.0)
	c := testContext()
	newPolicy(42).Update(arm, c, 1)

	first := newPolicy(99).SampleWeights(arm)
	second := newPolicy(99).SampleWeights(arm)
	for i := 0; i < dim; i++ {
		if first.AtVec(i) != second.AtVec(i) {
			t.Fatalf("seeded draws differ at %d: %v vs %v", i, first.AtVec(i), second.AtVec(i))
		}
	}
}

func TestSamplingFallbackOnIllConditionedMatrix(t *testing.T) {
	// A stored blob with a negative diagonal cannot be factorized; the
	// policy must fall back to mean-plus-noise instead of failing.
	state := map[string]any{
		"dim":    2,
		"lambda": 1.0,
		"a":      []float64{-1, 0, 0, -1},
		"b":      []float64{0, 0},
	}
	blob, err := json.Marshal(state)
	if err != nil {
		t.Fatal(err)
	}
	arm, err := bandit.UnmarshalArm("broken", blob)
	if err != nil {
		t.Fatalf("UnmarshalArm: %v", err)
	}

	w := newPolicy(5).SampleWeights(arm)
	if w.Len() != 2 {
		t.Fatalf("fallback sample length = %d", w.Len())
	}
	for i := 0; i < 2; i++ {
		if math.Abs(w.AtVec(i)) > 1.0 {
			t.Fatalf("fallback draw too far from mean: %v", w.AtVec(i))
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	policy := newPolicy(13)
	arm := bandit.NewArm("natural_elements", dim, 1.0)
	c := testContext()
	policy.Update(arm, c, 1)
	policy.Update(arm, c, -1)

	blob, err := bandit.MarshalArm(arm)
	if err != nil {
		t.Fatalf("MarshalArm: %v", err)
	}
	restored, err := bandit.UnmarshalArm(arm.Key, blob)
	if err != nil {
		t.Fatalf("UnmarshalArm: %v", err)
	}

	if restored.Interactions != arm.Interactions || restored.TotalReward != arm.TotalReward {
		t.Fatalf("counters lost: %+v vs %+v", restored, arm)
	}
	for i := 0; i < dim; i++ {
		if restored.Accumulator().AtVec(i) != arm.Accumulator().AtVec(i) {
			t.Fatalf("b[%d] changed in round trip", i)
		}
		for j := 0; j < dim; j++ {
			if math.Abs(restored.Precision().At(i, j)-arm.Precision().At(i, j)) > 1e-12 {
				t.Fatalf("A[%d][%d] changed in round trip", i, j)
			}
		}
	}
}

func TestUnmarshalRejectsBadShapes(t *testing.T) {
	bad := []string{
		`{"dim":0,"lambda":1,"a":[],"b":[]}`,
		`{"dim":2,"lambda":1,"a":[1,2,3],"b":[0,0]}`,
		`{"dim":2,"lambda":1,"a":[1,0,0,1],"b":[0]}`,
		`not json`,
	}
	for _, blob := range bad {
		if _, err := bandit.UnmarshalArm("x", []byte(blob)); err == nil {
			t.Errorf("accepted bad blob %q", blob)
		}
	}
}

func TestRankStableTiesAndTopN(t *testing.T) {
	scores := []float64{0.5, 0.9, 0.5, 0.1, 0.9}
	got := bandit.Rank(scores, 4)
	want := []int{1, 4, 0, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Rank = %v, want %v", got, want)
	}

	if got := bandit.Rank(nil, 5); len(got) != 0 {
		t.Fatalf("Rank(nil) = %v", got)
	}
	if got := bandit.Rank([]float64{1, 2}, 0); len(got) != 2 {
		t.Fatalf("topN=0 should keep all, got %v", got)
	}
}

func TestRewardMap(t *testing.T) {
	cases := map[string]float64{
		"like":          1,
		"LIKE":          1,
		" skip ":        0,
		"neutral":       0,
		"dislike":       -1,
		"inappropriate": -1,
	}
	for feedback, want := range cases {
		got, err := bandit.Reward(feedback)
		if err != nil {
			t.Errorf("Reward(%q): %v", feedback, err)
			continue
		}
		if got != want {
			t.Errorf("Reward(%q) = %v, want %v", feedback, got, want)
		}
	}
	if _, err := bandit.Reward("meh"); err == nil {
		t.Error("unknown feedback type accepted")
	}
}

func TestExplorationRate(t *testing.T) {
	if got := bandit.ExplorationRate(0); got != 0.3 {
		t.Errorf("rate(0) = %v, want 0.3", got)
	}
	if got := bandit.ExplorationRate(50); got != 0.3 {
		t.Errorf("rate(50) = %v, want 0.3", got)
	}
	if got := bandit.ExplorationRate(150); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("rate(150) = %v, want 0.1", got)
	}
	if got := bandit.ExplorationRate(10000); got != 0.1 {
		t.Errorf("rate(10000) = %v, want floored 0.1", got)
	}
}
