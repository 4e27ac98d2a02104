package models

import "encoding/json"

// Setting is one process-wide preference. Value keeps its raw JSON so the
// pair stays extensible without a schema change.
type Setting struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Settings keys used by the surrounding application.
const (
	SettingActiveClassID  = "activeClassId"
	SettingLastTemplateID = "lastTemplateId"
)
