package bandit

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Arm holds the Bayesian linear model state for one category. A is the
// precision matrix (starts at lambda*I), b the reward-weighted feature
// accumulator. The posterior mean is A^-1 b.
type Arm struct {
	Key          string
	Dim          int
	Lambda       float64
	Interactions int64
	TotalReward  float64

	a *mat.SymDense
	b *mat.VecDense
}

// NewArm initializes an arm at the regularized prior.
func NewArm(key string, dim int, lambda float64) *Arm {
	a := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		a.SetSym(i, i, lambda)
	}
	return &Arm{
		Key:    key,
		Dim:    dim,
		Lambda: lambda,
		a:      a,
		b:      mat.NewVecDense(dim, nil),
	}
}

// Precision returns the precision matrix A.
func (arm *Arm) Precision() *mat.SymDense {
	return arm.a
}

// Accumulator returns the reward accumulator b.
func (arm *Arm) Accumulator() *mat.VecDense {
	return arm.b
}

// AverageReward is the running mean reward across all updates.
func (arm *Arm) AverageReward() float64 {
	if arm.Interactions == 0 {
		return 0
	}
	return arm.TotalReward / float64(arm.Interactions)
}

type armState struct {
	Dim          int       `json:"dim"`
	Lambda       float64   `json:"lambda"`
	A            []float64 `json:"a"`
	B            []float64 `json:"b"`
	Interactions int64     `json:"n_interactions"`
	TotalReward  float64   `json:"total_reward"`
}

// MarshalArm serializes arm state to the JSON blob stored per (scope, key).
// The matrix is written row major.
func MarshalArm(arm *Arm) ([]byte, error) {
	state := armState{
		Dim:          arm.Dim,
		Lambda:       arm.Lambda,
		A:            make([]float64, arm.Dim*arm.Dim),
		B:            make([]float64, arm.Dim),
		Interactions: arm.Interactions,
		TotalReward:  arm.TotalReward,
	}
	for i := 0; i < arm.Dim; i++ {
		state.B[i] = arm.b.AtVec(i)
		for j := 0; j < arm.Dim; j++ {
			state.A[i*arm.Dim+j] = arm.a.At(i, j)
		}
	}
	return json.Marshal(state)
}

// UnmarshalArm restores an arm from its stored blob. Symmetry is re-enforced
// by averaging mirrored entries so accumulated rounding in a stored blob can
// never make the precision matrix asymmetric.
func UnmarshalArm(key string, data []byte) (*Arm, error) {
	var state armState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode arm state: %w", err)
	}
	if state.Dim <= 0 {
		return nil, fmt.Errorf("arm state has invalid dimension %d", state.Dim)
	}
	if len(state.A) != state.Dim*state.Dim || len(state.B) != state.Dim {
		return nil, fmt.Errorf("arm state shape mismatch: dim=%d len(a)=%d len(b)=%d", state.Dim, len(state.A), len(state.B))
	}

	arm := NewArm(key, state.Dim, state.Lambda)
	arm.Interactions = state.Interactions
	arm.TotalReward = state.TotalReward
	for i := 0; i < state.Dim; i++ {
		arm.b.SetVec(i, state.B[i])
		for j := i; j < state.Dim; j++ {
			upper := state.A[i*state.Dim+j]
			lower := state.A[j*state.Dim+i]
			arm.a.SetSym(i, j, (upper+lower)/2)
		}
	}
	return arm, nil
}
