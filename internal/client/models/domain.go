package models

import "encoding/json"

type Domain struct {
	ID             int64           `json:"id"`
	Domain         string          `json:"domain"`
	QualityScore   *float64        `json:"quality_score"`
	TotalSnapshots int             `json:"total_snapshots"`
	YearsCovered   int             `json:"years_covered"`
	AICategory     string          `json:"ai_category,omitempty"`
	IsGood         bool            `json:"is_good"`
	Recommended    bool            `json:"recommended"`
	HasSnapshot    bool            `json:"has_snapshot"`
	FirstSnapshot  string          `json:"first_snapshot,omitempty"`
	LastSnapshot   string          `json:"last_snapshot,omitempty"`
	Description    string          `json:"description,omitempty"`
	DNSRecords     json.RawMessage `json:"dns_records,omitempty"`
	WhoisData      json.RawMessage `json:"whois_data,omitempty"`
	SSLInfo        json.RawMessage `json:"ssl_info,omitempty"`
	IsAvailable    *bool           `json:"is_available,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
	AnalyzedAt     string          `json:"analyzed_at,omitempty"`
}

type DomainPage struct {
	Domains []Domain `json:"domains"`
	Page
}

// DomainAnalysis is one entry of an analyze batch.
type DomainAnalysis struct {
	Domain          string          `json:"domain"`
	Timestamp       string          `json:"timestamp,omitempty"`
	DNSRecords      json.RawMessage `json:"dns_records,omitempty"`
	WhoisInfo       json.RawMessage `json:"whois_info,omitempty"`
	SSLInfo         json.RawMessage `json:"ssl_info,omitempty"`
	Signatures      json.RawMessage `json:"signatures,omitempty"`
	IsAvailable     bool            `json:"is_available"`
	QualityScore    float64         `json:"quality_score"`
	Recommendations []string        `json:"recommendations,omitempty"`
	Error           string          `json:"error,omitempty"`
}

type AnalyzeResult struct {
	TotalDomains int              `json:"total_domains"`
	Processed    int              `json:"processed"`
	Successful   int              `json:"successful"`
	Failed       int              `json:"failed"`
	Domains      []DomainAnalysis `json:"domains"`
}

// LLMAnalysis is one entry of an LLM analyze batch.
type LLMAnalysis struct {
	Domain      string `json:"domain"`
	LLMAnalysis string `json:"llm_analysis"`
	ModelUsed   string `json:"model_used"`
	TokensUsed  int    `json:"tokens_used"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

type LLMResult struct {
	TotalDomains int           `json:"total_domains"`
	Processed    int           `json:"processed"`
	Successful   int           `json:"successful"`
	Failed       int           `json:"failed"`
	Domains      []LLMAnalysis `json:"domains"`
	Error        string        `json:"error,omitempty"`
}
