// Package types provides type definitions for structured data used throughout the internship-checker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Posting is one internship opportunity as listed by the directory.
type Posting struct {
	ID        string `json:"_id"`
	ShortName string `json:"shortname"`
	FullName  string `json:"fullname"`
}

// FileRef is a candidate document attached to a posting.
type FileRef struct {
	Path string `json:"path"`
}

// PostingDetail is the per-posting item returned by the directory detail endpoint.
// The zero value is the empty detail.
type PostingDetail struct {
	Files        []FileRef `json:"internshipFiles"`
	FallbackFile string    `json:"internshipFile"`

	FullName  string `json:"fullname,omitempty"`
	ShortName string `json:"shortname,omitempty"`

	// Slot counters; nil when the directory omits them.
	StudentRegister    *int `json:"studentRegister,omitempty"`
	MaxRegister        *int `json:"maxRegister,omitempty"`
	StudentAccepted    *int `json:"studentAccepted,omitempty"`
	MaxAcceptedStudent *int `json:"maxAcceptedStudent,omitempty"`
}

// UnmarshalJSON decodes the document fields strictly. Names and slot counters
// are informational, so a value of the wrong shape is dropped instead of
// failing the whole detail.
func (d *PostingDetail) UnmarshalJSON(b []byte) error {
	type documents PostingDetail
	var raw struct {
		documents
		FullName           json.RawMessage `json:"fullname"`
		ShortName          json.RawMessage `json:"shortname"`
		StudentRegister    json.RawMessage `json:"studentRegister"`
		MaxRegister        json.RawMessage `json:"maxRegister"`
		StudentAccepted    json.RawMessage `json:"studentAccepted"`
		MaxAcceptedStudent json.RawMessage `json:"maxAcceptedStudent"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*d = PostingDetail(raw.documents)
	d.FullName = lenientString(raw.FullName)
	d.ShortName = lenientString(raw.ShortName)
	d.StudentRegister = lenientCount(raw.StudentRegister)
	d.MaxRegister = lenientCount(raw.MaxRegister)
	d.StudentAccepted = lenientCount(raw.StudentAccepted)
	d.MaxAcceptedStudent = lenientCount(raw.MaxAcceptedStudent)
	return nil
}

func lenientString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// lenientCount accepts a whole number given as a JSON number or a numeric
// string. Anything else is treated as absent.
func lenientCount(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	text := string(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = s
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(f)
	return &n
}

// IsEmpty reports whether the detail carries no document information.
func (d PostingDetail) IsEmpty() bool {
	return len(d.Files) == 0 && strings.TrimSpace(d.FallbackFile) == ""
}

// RequirementResult is the classifier's structured answer for one document.
type RequirementResult struct {
	IsCV         bool   `json:"isCV"`
	IsTranscript bool   `json:"isTranscript"`
	GPA          string `json:"GPA"`
}

// NoGPA is the sentinel GPA value meaning no requirement was found.
const NoGPA = "0"

// DefaultRequirementResult returns the result used whenever classification fails.
func DefaultRequirementResult() RequirementResult {
	return RequirementResult{IsCV: false, IsTranscript: false, GPA: NoGPA}
}

// RequirementRecord is the persisted requirement outcome for one posting.
// PostingID is the idempotency key.
type RequirementRecord struct {
	PostingID    string `json:"companyid"`
	PostingName  string `json:"companyname"`
	ShortName    string `json:"shortname"`
	IsCV         bool   `json:"isCV"`
	IsTranscript bool   `json:"isTranscript"`
	GPA          string `json:"GPA"`

	SourceFile string    `json:"sourceFile,omitempty"`
	RunID      string    `json:"runId,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
}

// NewRequirementRecord builds the record for a posting from its classification.
func NewRequirementRecord(p Posting, r RequirementResult) RequirementRecord {
	return RequirementRecord{
		PostingID:    p.ID,
		PostingName:  p.FullName,
		ShortName:    p.ShortName,
		IsCV:         r.IsCV,
		IsTranscript: r.IsTranscript,
		GPA:          r.GPA,
	}
}
