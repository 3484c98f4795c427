package assistant

// Reply is what the assistant answers. Confidence and Metadata are advisory.
type Reply struct {
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

type Metadata struct {
	DetectedIntent string `json:"detectedIntent,omitempty"`
	ProjectType    string `json:"projectType,omitempty"`
	Complexity     string `json:"complexity,omitempty"`
	EstimatedPrice string `json:"estimatedPrice,omitempty"`
}

func (m *Metadata) Intent() string {
	if m == nil {
		return ""
	}
	return m.DetectedIntent
}

// Strategy names the branch that produced a reply.
type Strategy string

const (
	StrategyNotConfigured Strategy = "not_configured"
	StrategyRemote        Strategy = "remote"
	StrategyFallback      Strategy = "fallback"
)

const (
	confidenceNone     = 0.0
	confidenceRemote   = 0.95
	confidenceKeyword  = 0.9
	confidenceRule     = 0.8
	confidenceGeneric  = 0.7
	sentinelDemo       = "demo"
	sentinelTest       = "test"
	intentMatched      = "matched_example"
	intentGeneral      = "general_coding"
	intentProject      = "project_inquiry"
	intentCode         = "code_assistance"
	intentDebugging    = "debugging"
	intentPricing      = "pricing_inquiry"
	intentContact      = "contact_inquiry"
	intentTimeline     = "timeline_inquiry"
	intentLocation     = "location_inquiry"
	projectEcommerce   = "e-commerce site"
	projectApp         = "web application"
	projectWebsite     = "website"
	complexityAdvanced = "advanced"
	complexityMid      = "intermediate"
	complexityBasic    = "basic"
)

var tierPrice = map[string]string{
	complexityAdvanced: "₹1899",
	complexityMid:      "₹999",
	complexityBasic:    "₹299",
}
