package models

import "encoding/json"

type Report struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	CreatedAt string          `json:"created_at"`
	Domain    string          `json:"domain"`
}

type ReportPage struct {
	Reports []Report `json:"reports"`
	Page
}

// Settings maps setting keys to their string values.
type Settings map[string]string
