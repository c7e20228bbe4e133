package profile

// Analyzer is an injectable hook applied to each normalized track before
// aggregation. The shipped implementation passes tracks through unchanged;
// a real genre classifier or feature model can be substituted without
// touching the pipeline.
type Analyzer interface {
	Analyze(t Track) Track
}

type passthroughAnalyzer struct{}

func (passthroughAnalyzer) Analyze(t Track) Track { return t }

// PassthroughAnalyzer returns the default no-op Analyzer.
func PassthroughAnalyzer() Analyzer {
	return passthroughAnalyzer{}
}
