// Package bandit implements the linear Thompson sampling policy that ranks
// therapy categories: per-arm Gaussian posteriors over a linear reward
// model, sampled scoring, and the rank-1 feedback update.
package bandit
