package model

import (
	"time"
)

// Severity levels for risks and impact levels for opportunities.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// Risk is a single identified contract risk.
type Risk struct {
	Risk        string `json:"risk" firestore:"risk"`
	Explanation string `json:"explanation" firestore:"explanation"`
	Severity    string `json:"severity" firestore:"severity"`
}

// Opportunity is a single identified contract opportunity.
type Opportunity struct {
	Opportunity string `json:"opportunity" firestore:"opportunity"`
	Explanation string `json:"explanation" firestore:"explanation"`
	Impact      string `json:"impact" firestore:"impact"`
}

// FinancialTerms summarizes compensation or payment clauses.
type FinancialTerms struct {
	Description string   `json:"description" firestore:"description"`
	Details     []string `json:"details" firestore:"details"`
}

// Feedback is the user's rating of an analysis. It is the only part of a
// persisted record that is ever mutated.
type Feedback struct {
	Rating   int    `json:"rating" firestore:"rating"`
	Comments string `json:"comments" firestore:"comments"`
}

// AnalysisPayload is the AI-produced portion of an analysis. Its JSON
// shape is exactly what the model is prompted to emit.
type AnalysisPayload struct {
	Risks                 []Risk          `json:"risks" firestore:"risks"`
	Opportunities         []Opportunity   `json:"opportunities" firestore:"opportunities"`
	Summary               string          `json:"summary" firestore:"summary"`
	Recommendations       []string        `json:"recommendations" firestore:"recommendations"`
	KeyClauses            []string        `json:"keyClauses" firestore:"keyClauses"`
	LegalCompliance       string          `json:"legalCompliance" firestore:"legalCompliance"`
	NegotiationPoints     []string        `json:"negotiationPoints" firestore:"negotiationPoints"`
	ContractDuration      string          `json:"contractDuration" firestore:"contractDuration"`
	TerminationConditions string          `json:"terminationConditions" firestore:"terminationConditions"`
	OverallScore          float64         `json:"overallScore" firestore:"overallScore"`
	FinancialTerms        *FinancialTerms `json:"financialTerms,omitempty" firestore:"financialTerms,omitempty"`
	PerformanceMetrics    []string        `json:"performanceMetrics" firestore:"performanceMetrics"`
}

// Analysis is the persisted result of analyzing one contract. The owner
// never changes after creation and the AI-produced content is append-only;
// Feedback is the single mutable sub-field.
type Analysis struct {
	ID           string `json:"id" firestore:"id"`
	UserID       string `json:"userId" firestore:"userId"`
	ContractText string `json:"contractText" firestore:"contractText"`
	ContractType string `json:"contractType" firestore:"contractType"`

	AnalysisPayload

	Feedback       *Feedback  `json:"userFeedback,omitempty" firestore:"userFeedback,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty" firestore:"expirationDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" firestore:"createdAt"`
	Version        int        `json:"version" firestore:"version"`
	AIModel        string     `json:"aiModel" firestore:"aiModel"`
	Language       string     `json:"language" firestore:"language"`
}

// ClampScore bounds a favorability score into [0,100]. The AI backend is
// not contractually bounded, so every producer clamps before persisting.
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
