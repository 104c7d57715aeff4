package bandit

import (
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Policy implements linear Thompson sampling over category arms. It is
// stateless apart from its random source; all learned state lives in the
// arms.
type Policy struct {
	sigma2 float64
	decay  float64
	rng    *rand.Rand
	logger *slog.Logger
}

// NewPolicy creates a policy. sigma2 is the observation noise variance used
// to scale the posterior covariance, decay the forgetting factor applied
// before each update.
func NewPolicy(sigma2, decay float64, rng *rand.Rand, logger *slog.Logger) *Policy {
	if sigma2 <= 0 {
		sigma2 = 1.0
	}
	if decay <= 0 || decay > 1 {
		decay = 1.0
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Policy{sigma2: sigma2, decay: decay, rng: rng, logger: logger}
}

// Mean computes the posterior mean A^-1 b. When the precision matrix is too
// ill conditioned even for a dense solve, the zero vector is returned.
func (p *Policy) Mean(arm *Arm) *mat.VecDense {
	mean := mat.NewVecDense(arm.Dim, nil)

	var chol mat.Cholesky
	if chol.Factorize(arm.a) {
		if err := chol.SolveVecTo(mean, arm.b); err == nil {
			return mean
		}
	}
	if err := mean.SolveVec(arm.a, arm.b); err != nil {
		p.logger.Warn("posterior mean solve failed, using zero mean",
			slog.String("arm", arm.Key))
		mean.Zero()
	}
	return mean
}

// SampleWeights draws one weight vector from the arm's posterior
// N(mu, sigma2 * A^-1). The draw uses the Cholesky factor of A: with
// A = L Lt, the solve Lt y = z gives y with covariance A^-1, so
// w = mu + sigma * y. If factorization fails the arm falls back to the
// posterior mean plus small isotropic noise, with a warning; scoring never
// aborts a request.
func (p *Policy) SampleWeights(arm *Arm) *mat.VecDense {
	z := mat.NewVecDense(arm.Dim, nil)
	for i := 0; i < arm.Dim; i++ {
		z.SetVec(i, p.rng.NormFloat64())
	}

	var chol mat.Cholesky
	if !chol.Factorize(arm.a) {
		p.logger.Warn("precision matrix not positive definite, sampling around mean",
			slog.String("arm", arm.Key),
			slog.Int64("interactions", arm.Interactions))
		w := p.Mean(arm)
		w.AddScaledVec(w, 0.1, z)
		return w
	}

	mean := mat.NewVecDense(arm.Dim, nil)
	if err := chol.SolveVecTo(mean, arm.b); err != nil {
		p.logger.Warn("posterior mean solve failed, sampling around zero",
			slog.String("arm", arm.Key))
		mean.Zero()
	}

	var lower mat.TriDense
	chol.LTo(&lower)
	y := mat.NewVecDense(arm.Dim, nil)
	if err := y.SolveVec(lower.T(), z); err != nil {
		p.logger.Warn("posterior sample solve failed, sampling around mean",
			slog.String("arm", arm.Key))
		w := mat.NewVecDense(arm.Dim, nil)
		w.AddScaledVec(mean, 0.1, z)
		return w
	}

	w := mat.NewVecDense(arm.Dim, nil)
	w.AddScaledVec(mean, math.Sqrt(p.sigma2), y)
	return w
}

// Score returns the sampled expected reward for a context under a drawn
// weight vector.
func Score(w *mat.VecDense, context []float64) float64 {
	return mat.Dot(w, mat.NewVecDense(len(context), context))
}

// MeanScore returns the posterior-mean expected reward for a context.
func (p *Policy) MeanScore(arm *Arm, context []float64) float64 {
	return Score(p.Mean(arm), context)
}

// Update folds one observed reward into the arm: rank-1 precision update
// A += c ct and accumulator step b += reward * c. The forgetting factor is
// applied first so stale observations fade, but only once the arm has seen
// data; a fresh arm keeps its exact lambda*I prior through its first update.
func (p *Policy) Update(arm *Arm, context []float64, reward float64) {
	c := mat.NewVecDense(len(context), context)

	if p.decay < 1 && arm.Interactions > 0 {
		raw := arm.a.RawSymmetric()
		for i := range raw.Data {
			raw.Data[i] *= p.decay
		}
		arm.b.ScaleVec(p.decay, arm.b)
	}

	arm.a.SymRankOne(arm.a, 1, c)
	arm.b.AddScaledVec(arm.b, reward, c)
	arm.Interactions++
	arm.TotalReward += reward
}
