package profile

// TasteVector holds the mean audio-feature values over the unique track set.
// Every component lies in [0,1] for a non-empty set; on an empty set all
// components are zero by definition, never an error.
type TasteVector struct {
	AvgDanceability  float64 `yaml:"avgDanceability" json:"avgDanceability"`
	AvgEnergy        float64 `yaml:"avgEnergy" json:"avgEnergy"`
	AvgValence       float64 `yaml:"avgValence" json:"avgValence"`
	AcousticBias     float64 `yaml:"acousticBias" json:"acousticBias"`
	InstrumentalBias float64 `yaml:"instrumentalBias" json:"instrumentalBias"`
}

// BuildTaste computes the arithmetic feature means over unique tracks.
func BuildTaste(tracks []Track) TasteVector {
	if len(tracks) == 0 {
		return TasteVector{}
	}

	var v TasteVector
	for _, t := range tracks {
		v.AvgDanceability += t.Danceability
		v.AvgEnergy += t.Energy
		v.AvgValence += t.Valence
		v.AcousticBias += t.Acousticness
		v.InstrumentalBias += t.Instrumentalness
	}
	n := float64(len(tracks))
	v.AvgDanceability /= n
	v.AvgEnergy /= n
	v.AvgValence /= n
	v.AcousticBias /= n
	v.InstrumentalBias /= n
	return v
}
