package advice

// Confidence is the three-level certainty attached to every piece of advice.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Basis is the shape shared by every advice category: an emoji, a short
// human sentence, a confidence level, and the ordered reasoning that led to
// the call. Reasoning entries are informational annotations; they never feed
// back into the decision.
type Basis struct {
	Emoji      string     `json:"emoji"`
	Text       string     `json:"text"`
	Confidence Confidence `json:"confidence"`
	Reasoning  []string   `json:"reasoning"`
}

// GoOutside says whether stepping out is a good idea.
type GoOutside struct {
	Basis
	Level string `json:"level"` // yes | maybe | no
}

// Umbrella says whether to carry one.
type Umbrella struct {
	Basis
	Needed bool `json:"needed"`
}

// Travel says whether conditions suit a trip.
type Travel struct {
	Basis
	Suitable bool `json:"suitable"`
}

// UV carries sun-protection guidance. Produced only when the provider
// reported a UV index.
type UV struct {
	Basis
	Level string `json:"level"` // low | moderate | high | very-high | extreme
}

// OutfitItem is one clothing suggestion with the condition that triggered it.
type OutfitItem struct {
	Item   string `json:"item"`
	Reason string `json:"reason"`
}

// Set bundles one advice object per category. UV is nil when the reading
// had no UV data.
type Set struct {
	GoOutside GoOutside    `json:"go_outside"`
	Umbrella  Umbrella     `json:"umbrella"`
	Travel    Travel       `json:"travel"`
	Outfit    []OutfitItem `json:"outfit"`
	UV        *UV          `json:"uv,omitempty"`
}
