package features

import (
	"theramuse/internal/profile"
)

// Dim is the fixed dimensionality of the patient context vector. Arm state
// persisted by the bandit is tied to this layout; changing it invalidates
// learned posteriors.
const Dim = 20

// Feature slot layout. Slots 0-2 one-hot the condition so a single scope can
// in principle pool observations across conditions without losing the signal.
const (
	slotDementia = iota
	slotDownSyndrome
	slotADHD
	slotAge
	slotOpenness
	slotConscientiousness
	slotExtraversion
	slotAgreeableness
	slotNeuroticism
	slotDifficultySleeping
	slotTroubleRemembering
	slotForgetsEverydayThings
	slotDifficultyRecallingOld
	slotMemoryWorse
	slotInstrumentCount
	slotNaturalElementCount
	slotHasBirthplaceCountry
	slotHasBirthplaceCity
	slotHasFavoriteMusician
	slotGenreCount
)

// neutralBig5 is substituted when the intake omits personality scores.
const neutralBig5 = 4.0

// Vector is a patient context in the bandit's feature space.
type Vector [Dim]float64

// Slice returns the vector as a float64 slice for matrix operations.
func (v Vector) Slice() []float64 {
	out := make([]float64, Dim)
	copy(out, v[:])
	return out
}

// Derive produces the context vector for a patient. The derivation is a pure
// function of the profile: identical profiles yield bit-identical vectors,
// which feedback processing relies on when replaying stored contexts.
func Derive(p *profile.Profile, condition profile.Condition) Vector {
	var v Vector

	switch condition {
	case profile.ConditionDementia:
		v[slotDementia] = 1
	case profile.ConditionDownSyndrome:
		v[slotDownSyndrome] = 1
	case profile.ConditionADHD:
		v[slotADHD] = 1
	}

	if p.Age > 0 {
		v[slotAge] = float64(p.Age) / 100.0
	}

	big5 := func(trait profile.Trait) float64 {
		if score, ok := p.Big5Scores[trait]; ok {
			return score / 7.0
		}
		return neutralBig5 / 7.0
	}
	v[slotOpenness] = big5(profile.TraitOpenness)
	v[slotConscientiousness] = big5(profile.TraitConscientiousness)
	v[slotExtraversion] = big5(profile.TraitExtraversion)
	v[slotAgreeableness] = big5(profile.TraitAgreeableness)
	v[slotNeuroticism] = big5(profile.TraitNeuroticism)

	v[slotDifficultySleeping] = boolFeature(p.Clinical.DifficultySleeping)
	v[slotTroubleRemembering] = boolFeature(p.Clinical.TroubleRemembering)
	v[slotForgetsEverydayThings] = boolFeature(p.Clinical.ForgetsEverydayThings)
	v[slotDifficultyRecallingOld] = boolFeature(p.Clinical.DifficultyRecallingOldMemories)
	v[slotMemoryWorse] = boolFeature(p.Clinical.MemoryWorseThanYearAgo)

	v[slotInstrumentCount] = cappedCount(len(p.Instruments))
	v[slotNaturalElementCount] = cappedCount(len(p.NaturalElements))
	v[slotHasBirthplaceCountry] = boolFeature(p.BirthplaceCountry != "")
	v[slotHasBirthplaceCity] = boolFeature(p.BirthplaceCity != "")
	v[slotHasFavoriteMusician] = boolFeature(p.FavoriteMusician != "")
	v[slotGenreCount] = cappedCount(len(p.FavoriteGenres))

	return v
}

// FromSlice reconstructs a vector from a stored context snapshot. Snapshots
// of a different dimensionality are rejected by the caller.
func FromSlice(values []float64) (Vector, bool) {
	var v Vector
	if len(values) != Dim {
		return v, false
	}
	copy(v[:], values)
	return v, true
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func cappedCount(n int) float64 {
	if n > 5 {
		n = 5
	}
	return float64(n) / 5.0
}
