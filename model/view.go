package model

// FreeVisibleFindings is how many risks and opportunities a free user sees.
const FreeVisibleFindings = 3

const upgradeMessage = "Upgrade to Premium to view the full analysis"

// AnalysisView is the rendering-ready projection of an Analysis after the
// free/premium access gate has been applied.
type AnalysisView struct {
	ID           string `json:"id"`
	ContractType string `json:"contractType"`

	Risks               []Risk        `json:"risks"`
	Opportunities       []Opportunity `json:"opportunities"`
	RisksHidden         int           `json:"risksHidden,omitempty"`
	OpportunitiesHidden int           `json:"opportunitiesHidden,omitempty"`

	Summary      string  `json:"summary"`
	OverallScore float64 `json:"overallScore"`

	// Premium-only fields, omitted for free users.
	ContractText          string          `json:"contractText,omitempty"`
	Recommendations       []string        `json:"recommendations,omitempty"`
	KeyClauses            []string        `json:"keyClauses,omitempty"`
	LegalCompliance       string          `json:"legalCompliance,omitempty"`
	NegotiationPoints     []string        `json:"negotiationPoints,omitempty"`
	ContractDuration      string          `json:"contractDuration,omitempty"`
	TerminationConditions string          `json:"terminationConditions,omitempty"`
	PerformanceMetrics    []string        `json:"performanceMetrics,omitempty"`
	FinancialTerms        *FinancialTerms `json:"financialTerms,omitempty"`

	Feedback       *Feedback `json:"userFeedback,omitempty"`
	UpgradeMessage string    `json:"upgradeMessage,omitempty"`

	CreatedAt string `json:"createdAt"`
	Version   int    `json:"version"`
	AIModel   string `json:"aiModel"`
	Language  string `json:"language"`
	Premium   bool   `json:"premium"`
}

// VisibleFields applies the free/premium access gate to an analysis.
// Premium users see every field unredacted. Free users see the first
// FreeVisibleFindings risks and opportunities with hidden counts, the
// summary and the overall score; detailed fields are replaced by an
// upgrade message.
func VisibleFields(a *Analysis, premium bool) *AnalysisView {
	view := &AnalysisView{
		ID:           a.ID,
		ContractType: a.ContractType,
		Summary:      a.Summary,
		OverallScore: a.OverallScore,
		Feedback:     a.Feedback,
		CreatedAt:    a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Version:      a.Version,
		AIModel:      a.AIModel,
		Language:     a.Language,
		Premium:      premium,
	}

	if premium {
		view.Risks = a.Risks
		view.Opportunities = a.Opportunities
		view.ContractText = a.ContractText
		view.Recommendations = a.Recommendations
		view.KeyClauses = a.KeyClauses
		view.LegalCompliance = a.LegalCompliance
		view.NegotiationPoints = a.NegotiationPoints
		view.ContractDuration = a.ContractDuration
		view.TerminationConditions = a.TerminationConditions
		view.PerformanceMetrics = a.PerformanceMetrics
		view.FinancialTerms = a.FinancialTerms
		return view
	}

	view.Risks = truncateRisks(a.Risks)
	view.Opportunities = truncateOpportunities(a.Opportunities)
	if hidden := len(a.Risks) - len(view.Risks); hidden > 0 {
		view.RisksHidden = hidden
	}
	if hidden := len(a.Opportunities) - len(view.Opportunities); hidden > 0 {
		view.OpportunitiesHidden = hidden
	}
	view.UpgradeMessage = upgradeMessage

	return view
}

func truncateRisks(risks []Risk) []Risk {
	if len(risks) <= FreeVisibleFindings {
		return risks
	}
	return risks[:FreeVisibleFindings]
}

func truncateOpportunities(opps []Opportunity) []Opportunity {
	if len(opps) <= FreeVisibleFindings {
		return opps
	}
	return opps[:FreeVisibleFindings]
}
