// Package classifier holds the request/response contract of the external
// toxicity classification service.
package classifier

// Label categories returned by the classifier, in display order.
const (
	LabelThreat     = "Threat"
	LabelHateSpeech = "Hate Speech"
	LabelInsult     = "Insult"
	LabelObscenity  = "Obscenity"
	LabelSarcasm    = "Sarcasm"
)

// Labels is the fixed key set of Result.Labels.
var Labels = []string{LabelThreat, LabelHateSpeech, LabelInsult, LabelObscenity, LabelSarcasm}

// Request is the body of POST /analyze.
type Request struct {
	Text      string  `json:"text"`
	Threshold float64 `json:"threshold"`
}

// Result is the outcome of one classification call.
type Result struct {
	RiskScore        float64            `json:"risk_score"`
	Labels           map[string]float64 `json:"labels"`
	Highlights       []string           `json:"highlights"`
	ProcessingTimeMs float64            `json:"processing_time_ms"`
}

// IsToxic reports whether the result exceeds the threshold (a fraction in [0,1]).
func (r Result) IsToxic(threshold float64) bool {
	return r.RiskScore > threshold*100
}

// RowResult is one row of a bulk analysis.
type RowResult struct {
	Index            int                `json:"index"`
	Text             string             `json:"text"`
	RiskScore        float64            `json:"risk_score"`
	Labels           map[string]float64 `json:"labels"`
	Highlights       []string           `json:"highlights"`
	IsToxic          bool               `json:"is_toxic"`
	ProcessingTimeMs float64            `json:"processing_time_ms,omitempty"`
}

// BulkResponse is returned by POST /analyze-file.
type BulkResponse struct {
	Results          []RowResult `json:"results"`
	Total            int         `json:"total"`
	ToxicCount       int         `json:"toxic_count"`
	SafeCount        int         `json:"safe_count"`
	AvgRiskScore     float64     `json:"avg_risk_score"`
	ProcessingTimeMs float64     `json:"processing_time_ms"`
}

// URLRequest is the body of POST /analyze-url.
type URLRequest struct {
	URL       string  `json:"url"`
	Threshold float64 `json:"threshold"`
}

// URLResult is returned by POST /analyze-url.
type URLResult struct {
	Result
	PageTitle   string `json:"page_title"`
	CharCount   int    `json:"char_count"`
	FetchStatus int    `json:"fetch_status"`
}

// Health is returned by GET /health.
type Health struct {
	Status    string   `json:"status"`
	Model     string   `json:"model"`
	Endpoints []string `json:"endpoints"`
}
