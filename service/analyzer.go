package service

import (
	"context"
	"fmt"

	"github.com/shubham-bhadra-10/Legalyze/pkg/apperr"
)

// Analyzer produces a structured analysis of a contract's full text. One
// backend invocation per analysis; retries, if any, are the caller's
// responsibility.
type Analyzer struct {
	gen Generator
}

func NewAnalyzer(gen Generator) *Analyzer {
	return &Analyzer{gen: gen}
}

const analysisPromptFormat = `Analyze the following %s contract and provide:
1. A list of at least 10 potential risks for the party receiving the contract, each with a brief explanation and severity level (low, medium, high).
2. A list of at least 10 potential opportunities or benefits for the receiving party, each with a brief explanation and impact level (low, medium, high).
3. A comprehensive summary of the contract, including key terms and conditions.
4. Any recommendations for improving the contract from the receiving party's perspective.
5. A list of key clauses in the contract.
6. An assessment of the contract's legal compliance.
7. A list of potential negotiation points.
8. The contract duration or term, if applicable.
9. A summary of the termination conditions, if applicable.
10. A breakdown of any financial terms or compensation structure, if applicable.
11. Any performance metrics or penalties, if applicable.
12. An overall score from 0 to 100, with 100 being the most favorable for the receiving party.

Format your response as a JSON object with the following structure:
{
  "risks": [{"risk": "Risk description", "explanation": "Brief explanation", "severity": "low|medium|high"}],
  "opportunities": [{"opportunity": "Opportunity description", "explanation": "Brief explanation", "impact": "low|medium|high"}],
  "summary": "Comprehensive summary of the contract",
  "recommendations": ["Recommendation 1", "Recommendation 2"],
  "keyClauses": ["Clause 1", "Clause 2"],
  "legalCompliance": "Assessment of legal compliance",
  "negotiationPoints": ["Point 1", "Point 2"],
  "contractDuration": "Duration of the contract, if applicable",
  "terminationConditions": "Summary of termination conditions, if applicable",
  "overallScore": 75,
  "financialTerms": {"description": "Overview of financial terms", "details": ["Detail 1", "Detail 2"]},
  "performanceMetrics": ["Metric 1", "Metric 2"]
}

Important: Provide only the JSON object in your response, without any additional text, markdown formatting or code fences.

Contract text:
%s`

// Analyze invokes the AI backend once with the full contract text and
// converts the free-text reply into a well-typed payload. An invocation
// failure is fatal for this attempt; a malformed reply is not, it comes
// back as a degraded ParseResult.
func (a *Analyzer) Analyze(ctx context.Context, text, contractType string) (ParseResult, error) {
	prompt := fmt.Sprintf(analysisPromptFormat, contractType, text)

	reply, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return ParseResult{}, apperr.Wrap(apperr.KindAnalysisBackend, "analyze contract", err)
	}

	return ParseAnalysis(reply), nil
}
