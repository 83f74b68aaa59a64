// Package audit defines the per-run audit record and the worker that
// archives published records to object storage.
package audit

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/ContractLens/pkg/errors"
	"github.com/turtacn/ContractLens/pkg/types/contract"
)

// JurisdictionScope states the legal frame every analysis is written in.
const JurisdictionScope = "India (generic contractual practice, no statutes)"

// Actions lists, in order, the steps a completed run performed.
var Actions = []string{
	"received_input",
	"normalized_language",
	"classified_contract_type",
	"parsed_structure",
	"extracted_entities",
	"ambiguity_detection",
	"clause_template_matching",
	"classified_clause_intents",
	"assigned_clause_risks",
	"generated_renegotiation_suggestions",
	"computed_contract_level_risk_score",
	"generated_executive_summary",
	"compiled_best_practices",
}

// Meta carries the context an analysis was requested in.
type Meta struct {
	JurisdictionScope string `json:"jurisdiction_scope"`
	BusinessRoleInput string `json:"business_role_input,omitempty"`
}

// Record is the audit trail of one analysis run.  It is kept apart from the
// AnalysisResult so that the result stays a pure function of its input.
type Record struct {
	EventID          string                    `json:"event_id"`
	RequestID        string                    `json:"request_id"`
	TimestampUTC     time.Time                 `json:"timestamp_utc"`
	Source           string                    `json:"source,omitempty"`
	Actions          []string                  `json:"actions"`
	RiskFlagsSummary []contract.FairnessFlag   `json:"risk_flags_summary"`
	Meta             Meta                      `json:"meta"`
	InputSHA256      string                    `json:"input_sha256"`
	SegmentationMode contract.SegmentationMode `json:"segmentation_mode"`
	Degradations     []string                  `json:"degradations"`
	CompositeScore   int                       `json:"composite_score"`
}

// NewRecord starts a record for requestID stamped at now.
func NewRecord(requestID, source, businessRole string, now time.Time) *Record {
	return &Record{
		EventID:          uuid.New().String(),
		RequestID:        requestID,
		TimestampUTC:     now.UTC(),
		Source:           source,
		Actions:          append([]string{}, Actions...),
		RiskFlagsSummary: []contract.FairnessFlag{},
		Meta:             Meta{JurisdictionScope: JurisdictionScope, BusinessRoleInput: businessRole},
		Degradations:     []string{},
	}
}

// Degraded reports whether any stage fell back to a default.
func (r *Record) Degraded() bool { return len(r.Degradations) > 0 }

// HashInput returns the hex SHA-256 of the submitted text.
func HashInput(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// EncodeJSONL renders records as newline-delimited JSON.
func EncodeJSONL(records []*Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode audit record").
				WithDetail("request_id=" + r.RequestID)
		}
	}
	return buf.Bytes(), nil
}

// DecodeJSONL is the inverse of EncodeJSONL.
func DecodeJSONL(data []byte) ([]*Record, error) {
	var out []*Record
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var r Record
		if err := dec.Decode(&r); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode audit record")
		}
		out = append(out, &r)
	}
	return out, nil
}

//Personal.AI order the ending
