package profile

import (
	"errors"
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Weights tunes the composite scores. The exact coefficients are product
// configuration, not algorithm: creativity rewards breadth of genre and
// obscurity of choice, overall blends all four component scores. Each weight
// lies in [0,1]; combinations are normalized by their weight sum, so the
// weights need not sum to one.
type Weights struct {
	CreativityVariety float64 `yaml:"creativity_variety"`
	CreativityRarity  float64 `yaml:"creativity_rarity"`
	OverallVariety    float64 `yaml:"overall_variety"`
	OverallCohesion   float64 `yaml:"overall_cohesion"`
	OverallRarity     float64 `yaml:"overall_rarity"`
	OverallCreativity float64 `yaml:"overall_creativity"`
}

// DefaultWeights weighs every component equally.
func DefaultWeights() Weights {
	return Weights{
		CreativityVariety: 0.5,
		CreativityRarity:  0.5,
		OverallVariety:    0.25,
		OverallCohesion:   0.25,
		OverallRarity:     0.25,
		OverallCreativity: 0.25,
	}
}

// Validate checks that every weight is in [0,1] and that neither composite
// score has all of its inputs weighted to zero.
func (w Weights) Validate() error {
	err := validation.ValidateStruct(&w,
		validation.Field(&w.CreativityVariety, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&w.CreativityRarity, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&w.OverallVariety, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&w.OverallCohesion, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&w.OverallRarity, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&w.OverallCreativity, validation.Min(0.0), validation.Max(1.0)),
	)
	if err != nil {
		return err
	}
	if w.CreativityVariety+w.CreativityRarity <= 0 {
		return errors.New("creativity weights must not all be zero")
	}
	if w.OverallVariety+w.OverallCohesion+w.OverallRarity+w.OverallCreativity <= 0 {
		return errors.New("overall weights must not all be zero")
	}
	return nil
}

// Rating is the composite multi-factor score bundle. All five scores are
// normalized to [0,1]; presentation layers may rescale to 0-100.
type Rating struct {
	Variety     float64 `yaml:"variety" json:"variety"`
	RarityScore float64 `yaml:"rarityScore" json:"rarityScore"`
	Cohesion    float64 `yaml:"cohesion" json:"cohesion"`
	Overall     float64 `yaml:"overall" json:"overall"`
	Creativity  float64 `yaml:"creativity" json:"creativity"`
}

// Rate derives the five scores from the unique track set. The functions are
// pure: the same deduplicated set produces bit-identical results in any
// input order, because tracks arrives pre-sorted by identity key.
func Rate(tracks []Track, w Weights) Rating {
	if len(tracks) == 0 {
		return Rating{}
	}

	var r Rating
	r.Variety = variety(tracks)
	r.Cohesion = cohesion(tracks)
	r.RarityScore = rarityScore(tracks)
	r.Creativity = weighted(
		[]float64{r.Variety, r.RarityScore},
		[]float64{w.CreativityVariety, w.CreativityRarity},
	)
	r.Overall = weighted(
		[]float64{r.Variety, r.Cohesion, r.RarityScore, r.Creativity},
		[]float64{w.OverallVariety, w.OverallCohesion, w.OverallRarity, w.OverallCreativity},
	)
	return r
}

// variety is the distinct primary-genre count over the unique track count,
// capped at 1.
func variety(tracks []Track) float64 {
	genres := make(map[string]struct{})
	for _, t := range tracks {
		if t.PrimaryGenre != "" {
			genres[t.PrimaryGenre] = struct{}{}
		}
	}
	v := float64(len(genres)) / float64(len(tracks))
	return clamp01(v)
}

// cohesion inverts the dispersion of the (danceability, energy, valence)
// vector: tightly clustered taste scores near 1, widely dispersed near 0.
// The per-dimension standard deviation of values in [0,1] never exceeds 0.5,
// which anchors the normalization.
func cohesion(tracks []Track) float64 {
	dims := [3]func(Track) float64{
		func(t Track) float64 { return t.Danceability },
		func(t Track) float64 { return t.Energy },
		func(t Track) float64 { return t.Valence },
	}

	var totalStddev float64
	for _, dim := range dims {
		var sum float64
		for _, t := range tracks {
			sum += dim(t)
		}
		mean := sum / float64(len(tracks))

		var sq float64
		for _, t := range tracks {
			d := dim(t) - mean
			sq += d * d
		}
		totalStddev += math.Sqrt(sq / float64(len(tracks)))
	}

	dispersion := totalStddev / float64(len(dims))
	return clamp01(1 - dispersion/0.5)
}

// rarityScore is one minus the mean popularity scaled to [0,1]: higher means
// rarer average listening choices.
func rarityScore(tracks []Track) float64 {
	var sum float64
	for _, t := range tracks {
		sum += float64(t.Popularity)
	}
	mean := sum / float64(len(tracks))
	return clamp01(1 - mean/100)
}

func weighted(scores, weights []float64) float64 {
	var sum, totalWeight float64
	for i, s := range scores {
		sum += s * weights[i]
		totalWeight += weights[i]
	}
	if totalWeight == 0 {
		return 0
	}
	return clamp01(sum / totalWeight)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
