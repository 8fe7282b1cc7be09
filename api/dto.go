/*
dto.go - Wire-level request/response shapes for the two service-surface
endpoints plus a small read-only admin surface.
*/
package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CalendarRequest is POST /calendar's request body.
type CalendarRequest struct {
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	Department     string          `json:"department"`
	TimezoneOffset int             `json:"timezone_offset_hours"`
	UseGlobalPTO   bool            `json:"use_global_pto"`
	BaseStore      json.RawMessage `json:"base_store,omitempty"`
	PlanData       json.RawMessage `json:"plan_data,omitempty"`
	AdditionalPTO  json.RawMessage `json:"additional_pto,omitempty"`
}

// AssignmentDTO is one (day, person, task) entry in a CalendarResponse.
type AssignmentDTO struct {
	Day               string   `json:"day"`
	PersonID          string   `json:"person_id"`
	TaskID            string   `json:"task_id"`
	SkillsContributed []string `json:"skills_contributed"`
}

// UnsatisfiedDTO names one day that could not be fully scheduled.
type UnsatisfiedDTO struct {
	Date     string                    `json:"date"`
	Deficits map[string]map[string]int `json:"deficits"`
}

// CalendarResponse is POST /calendar's response body.
type CalendarResponse struct {
	RequestID   string           `json:"request_id"`
	Success     bool             `json:"success"`
	TookMs      int64            `json:"took_ms"`
	Year        int              `json:"year"`
	Month       int              `json:"month"`
	Assignments []AssignmentDTO  `json:"assignments"`
	Unsatisfied []UnsatisfiedDTO `json:"unsatisfied"`
}

// PTOApproveRequest is POST /pto/approve's request body.
type PTOApproveRequest struct {
	PersonID       string          `json:"person_id"`
	PTODays        []string        `json:"pto_days"`
	People         json.RawMessage `json:"people"`
	Tasks          json.RawMessage `json:"tasks"`
	NowEpoch       int64           `json:"now_epoch"`
	BaseStore      json.RawMessage `json:"base_store,omitempty"`
	BaselinePTOMap json.RawMessage `json:"baseline_pto_map,omitempty"`
	CohortRequests json.RawMessage `json:"cohort_pto_requests,omitempty"`
	TimezoneOffset int             `json:"timezone_offset_hours"`
}

// PTOApproveResult is the nested `result` object in a PTOApproveResponse.
type PTOApproveResult struct {
	PTOPersonID string              `json:"pto_person_id"`
	PTODays     []string            `json:"pto_days"`
	Feasible    bool                `json:"feasible"`
	Unsatisfied []UnsatisfiedDTO    `json:"unsatisfied"`
	Assignments []AssignmentDTO     `json:"assignments"`
	CombinedPTO map[string][]string `json:"combined_pto_map"`
}

// PTOApproveResponse is POST /pto/approve's response body.
type PTOApproveResponse struct {
	Success  bool             `json:"success"`
	Feasible bool             `json:"feasible"`
	Result   PTOApproveResult `json:"result"`
}

// ErrorResponse is the body written on any handler failure.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CoverageSummaryDTO reports, per skill, required vs covered headcount
// across a computed horizon, as an exact-arithmetic utilization ratio
// computed with shopspring/decimal.
type CoverageSummaryDTO struct {
	Skill       string          `json:"skill"`
	Required    int             `json:"required"`
	Covered     int             `json:"covered"`
	Utilization decimal.Decimal `json:"utilization"`
}
