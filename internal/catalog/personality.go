package catalog

import "theramuse/internal/profile"

type scoreBand struct {
	low, high float64
	genres    []string
}

// Big Five trait scores map onto genre preferences in three bands per trait.
var personalityBands = map[profile.Trait][]scoreBand{
	profile.TraitOpenness: {
		{1, 2, []string{"Mainstream Pop", "Folk", "Easy Listening", "Classic Rock", "Soft Indie"}},
		{3, 4, []string{"Indie Rock", "Soft Alternative", "Progressive Rock", "Alternative"}},
		{5, 7, []string{"Art Rock", "Avant-Garde", "Jazz Fusion", "Contemporary Classical", "Experimental Electronic"}},
	},
	profile.TraitConscientiousness: {
		{1, 2, []string{"Jam Band", "Lo-Fi", "Singer-Songwriter"}},
		{3, 4, []string{"Adult Contemporary", "Acoustic Folk", "Smooth Jazz"}},
		{5, 7, []string{"Baroque", "Orchestral", "Classical Symphony", "Opera"}},
	},
	profile.TraitExtraversion: {
		{1, 2, []string{"Chillout", "Ambient", "Easy Listening"}},
		{3, 4, []string{"Pop Rock", "Funk", "Soul", "Disco"}},
		{5, 7, []string{"Dance Music", "Hip-Hop", "EDM", "Reggae", "Club Music"}},
	},
	profile.TraitAgreeableness: {
		{1, 2, []string{"Hard Rock", "Heavy Metal", "Punk Rock", "Blues"}},
		{3, 4, []string{"Soft Rock", "Soft Pop"}},
		{5, 7, []string{"Jazz", "R&B", "Neo-Soul", "Smooth Jazz", "Orchestral"}},
	},
	profile.TraitNeuroticism: {
		{1, 2, []string{"Thrash Metal", "Hardcore Punk"}},
		{3, 4, []string{"Indie Pop", "Emo", "Trip-Hop"}},
		{5, 7, []string{"Ambient", "Dream Pop", "Classical Piano", "Meditative Music"}},
	},
}

// PersonalityGenres returns genre suggestions for a set of Big Five scores.
// Traits are walked in their canonical order and duplicates are dropped while
// keeping first occurrence, so the same scores always yield the same list.
func PersonalityGenres(scores map[profile.Trait]float64) []string {
	var out []string
	seen := make(map[string]bool)
	for _, trait := range profile.Traits() {
		score, ok := scores[trait]
		if !ok {
			continue
		}
		for _, band := range personalityBands[trait] {
			if score >= band.low && score <= band.high {
				for _, genre := range band.genres {
					if !seen[genre] {
						seen[genre] = true
						out = append(out, genre)
					}
				}
				break
			}
		}
	}
	return out
}
