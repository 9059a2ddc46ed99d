package service

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/shubham-bhadra-10/Legalyze/model"
)

// ParseResult is the outcome of parsing an AI analysis reply. Degraded
// marks payloads recovered by the best-effort fallback after strict JSON
// parsing failed; callers branch on quality instead of on error type.
type ParseResult struct {
	Payload  model.AnalysisPayload
	Degraded bool
}

// fallbackSummary is the placeholder used when no summary is recoverable.
const fallbackSummary = "No summary provided"

var (
	fenceOpenRe     = regexp.MustCompile("^```(?:json)?[ \t]*\n?")
	fenceCloseRe    = regexp.MustCompile("\n?```$")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

	risksBlockRe = regexp.MustCompile(`"risks"\s*:\s*\[([\s\S]*?)\]`)
	oppsBlockRe  = regexp.MustCompile(`"opportunities"\s*:\s*\[([\s\S]*?)\]`)

	riskFieldRe        = regexp.MustCompile(`"risk"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	opportunityFieldRe = regexp.MustCompile(`"opportunity"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	explanationFieldRe = regexp.MustCompile(`"explanation"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	summaryFieldRe     = regexp.MustCompile(`"summary"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// ParseAnalysis converts an AI reply into an analysis payload. The reply
// is first repaired (fences stripped, trailing commas removed) and parsed
// strictly; if that fails the regex fallback recovers what it can. The
// fallback never fails: a malformed reply degrades analysis quality, not
// pipeline availability.
func ParseAnalysis(reply string) ParseResult {
	cleaned := stripTrailingCommas(stripFences(reply))

	var payload model.AnalysisPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err == nil {
		return ParseResult{Payload: normalizePayload(payload)}
	}

	return ParseResult{Payload: extractFallback(reply), Degraded: true}
}

// normalizePayload fills the holes a valid but sparse JSON reply leaves.
// Records always carry non-nil collection fields and a summary, so a
// reply that omits keys (or is a bare null) still renders "risks": []
// instead of "risks": null.
func normalizePayload(p model.AnalysisPayload) model.AnalysisPayload {
	if p.Risks == nil {
		p.Risks = []model.Risk{}
	}
	if p.Opportunities == nil {
		p.Opportunities = []model.Opportunity{}
	}
	if p.Recommendations == nil {
		p.Recommendations = []string{}
	}
	if p.KeyClauses == nil {
		p.KeyClauses = []string{}
	}
	if p.NegotiationPoints == nil {
		p.NegotiationPoints = []string{}
	}
	if p.PerformanceMetrics == nil {
		p.PerformanceMetrics = []string{}
	}
	if p.Summary == "" {
		p.Summary = fallbackSummary
	}
	return p
}

// stripFences removes a surrounding markdown code fence, a common AI
// output artifact.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = fenceOpenRe.ReplaceAllString(s, "")
	s = fenceCloseRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// stripTrailingCommas removes commas directly before a closing } or ],
// which is illegal JSON but common in model output.
func stripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// extractFallback is the grammar-free, best-effort recovery path for
// replies that are not valid JSON. Facets it cannot recover are left at
// their type-appropriate empty values; severity and impact default to
// "low" since the patterns cannot reliably recover enum fields.
func extractFallback(reply string) model.AnalysisPayload {
	payload := model.AnalysisPayload{
		Risks:              []model.Risk{},
		Opportunities:      []model.Opportunity{},
		Summary:            fallbackSummary,
		Recommendations:    []string{},
		KeyClauses:         []string{},
		NegotiationPoints:  []string{},
		PerformanceMetrics: []string{},
	}

	if m := risksBlockRe.FindStringSubmatch(reply); m != nil {
		for _, fragment := range strings.Split(m[1], "},") {
			risk := firstMatch(riskFieldRe, fragment)
			if risk == "" {
				continue
			}
			payload.Risks = append(payload.Risks, model.Risk{
				Risk:        risk,
				Explanation: firstMatch(explanationFieldRe, fragment),
				Severity:    model.LevelLow,
			})
		}
	}

	if m := oppsBlockRe.FindStringSubmatch(reply); m != nil {
		for _, fragment := range strings.Split(m[1], "},") {
			opp := firstMatch(opportunityFieldRe, fragment)
			if opp == "" {
				continue
			}
			payload.Opportunities = append(payload.Opportunities, model.Opportunity{
				Opportunity: opp,
				Explanation: firstMatch(explanationFieldRe, fragment),
				Impact:      model.LevelLow,
			})
		}
	}

	if m := summaryFieldRe.FindStringSubmatch(reply); m != nil {
		payload.Summary = unescape(m[1])
	}

	return payload
}

func firstMatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return unescape(m[1])
	}
	return ""
}

// unescape resolves JSON string escapes captured by the fallback
// patterns. Unparseable captures are returned as-is.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	if unquoted, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return unquoted
	}
	return s
}
