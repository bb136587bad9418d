package domain

import "encoding/json"

// HubConfig is the branding configuration of a partner hub.
type HubConfig struct {
	HubSlug          string `json:"hub_slug"`
	BrandName        string `json:"brand_name"`
	BrandDescription string `json:"brand_description"`
	PrimaryColor     string `json:"primary_color"`
	LogoURL          string `json:"logo_url"`
	SiteDomain       string `json:"site_domain,omitempty"`
}

// HubSummary is one row of the public hub directory.
type HubSummary struct {
	HubSlug          string `json:"hub_slug"`
	BrandName        string `json:"brand_name"`
	BrandDescription string `json:"brand_description"`
	PrimaryColor     string `json:"primary_color"`
	HubType          string `json:"hub_type"`
}

// GradeScore is a letter grade with its numeric score.
type GradeScore struct {
	Grade string  `json:"grade"`
	Score float64 `json:"score"`
}

// MoatSummary is the AI-citation summary for a client.
type MoatSummary struct {
	Score         float64 `json:"score"`
	Grade         string  `json:"grade"`
	CitationRate  float64 `json:"citation_rate"`
	QueryCoverage float64 `json:"query_coverage"`
}

// ClientInfo is one client card on a partner hub.
type ClientInfo struct {
	Slug     string       `json:"slug"`
	Name     string       `json:"name"`
	URL      string       `json:"url"`
	Industry string       `json:"industry"`
	EEAT     *GradeScore  `json:"eeat"`
	Moat     *MoatSummary `json:"moat"`
}

// HubData is everything the analysis backend returns for one partner.
type HubData struct {
	Config  *HubConfig   `json:"config"`
	Clients []ClientInfo `json:"clients"`
	HubType string       `json:"hub_type,omitempty"`
}

// AxisScore is one E-E-A-T axis with its supporting evidence and gaps.
type AxisScore struct {
	Score    float64  `json:"score"`
	Evidence []string `json:"evidence"`
	Gaps     []string `json:"gaps"`
}

// Scorecard is the brand trust scorecard computed by the analysis backend.
type Scorecard struct {
	OverallScore      float64   `json:"overall_score"`
	OverallGrade      string    `json:"overall_grade"`
	Experience        AxisScore `json:"experience"`
	Expertise         AxisScore `json:"expertise"`
	Authoritativeness AxisScore `json:"authoritativeness"`
	Trustworthiness   AxisScore `json:"trustworthiness"`
}

// EEATAnalysis is the site-level analysis for one client.
type EEATAnalysis struct {
	Slug      string    `json:"slug"`
	URL       string    `json:"url"`
	Industry  string    `json:"industry"`
	Scorecard Scorecard `json:"scorecard"`
}

// PageScore is the per-page score breakdown.
type PageScore struct {
	URL               string  `json:"url"`
	OverallScore      float64 `json:"overall_score"`
	Experience        float64 `json:"experience"`
	Expertise         float64 `json:"expertise"`
	Authoritativeness float64 `json:"authoritativeness"`
	Trustworthiness   float64 `json:"trustworthiness"`
}

// Compliance summarizes compliance findings for a client.
// Violations are passed through verbatim for the view layer.
type Compliance struct {
	TotalItems int               `json:"total_items"`
	HighRisk   int               `json:"high_risk"`
	MediumRisk int               `json:"medium_risk"`
	LowRisk    int               `json:"low_risk"`
	Violations []json.RawMessage `json:"violations"`
}

// EEATData bundles the analysis payload for one client.
type EEATData struct {
	Analysis   *EEATAnalysis `json:"analysis"`
	PageScores []PageScore   `json:"page_scores"`
	Compliance *Compliance   `json:"compliance"`
}

// ClientDashboard is the composed view served for a (partner, client) pair.
// Fields are filled independently; a partial dashboard still renders.
type ClientDashboard struct {
	Partner string     `json:"partner"`
	Client  string     `json:"client"`
	Config  *HubConfig `json:"config"`
	EEAT    *EEATData  `json:"eeat"`
}
