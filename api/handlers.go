/*
handlers.go - HTTP API handlers for the scheduling service.

PURPOSE:
  Exposes the scheduling core via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to solver/admission: two primary
  endpoints plus a small read-only admin surface used by local demos.

ENDPOINTS:
  POST /api/calendar      Compute a month's HorizonSchedule
  POST /api/pto/approve   Strict PTO admission check
  GET  /api/departments   List departments (admin/demo convenience)
  GET  /api/departments/{name}/coverage   Per-skill coverage summary

ARCHITECTURE:
  Handler struct holds all dependencies: Repository, Calendar. No cached
  in-memory state beyond what a single request needs — unlike the
  teacher's Handler, there is no policy cache, since this domain has no
  policy objects to cache.

ERROR HANDLING:
  - 400: InvalidInput
  - 408: Cancelled
  - 500: RepositoryFailure or any other unexpected error
  - Infeasible is NOT an error: it is a 200 response, with feasible=false
    on /pto/approve and a non-empty unsatisfied list on /calendar.

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/warp/shift-scheduler/admission"
	"github.com/warp/shift-scheduler/core"
	"github.com/warp/shift-scheduler/repository"
	"github.com/warp/shift-scheduler/solver"
	"github.com/warp/shift-scheduler/wire"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Repo     repository.Repository
	Calendar core.Calendar
}

// NewHandler creates a new handler against repo, computing days in cal's
// time zone.
func NewHandler(repo repository.Repository, cal core.Calendar) *Handler {
	return &Handler{Repo: repo, Calendar: cal}
}

// PostCalendar implements POST /calendar.
func (h *Handler) PostCalendar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetReqID(r.Context())

	var req CalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	department := req.Department
	ctx := r.Context()

	people, err := h.Repo.ListPeopleIn(ctx, department)
	if err != nil {
		h.writeCoreError(w, err)
		return
	}

	monthStart := h.Calendar.StartOfMonth(req.Year, time.Month(req.Month))
	monthEnd := h.Calendar.EndOfMonth(req.Year, time.Month(req.Month))
	tasks, err := h.Repo.ListTasksOverlapping(ctx, department, monthStart, monthEnd)
	if err != nil {
		h.writeCoreError(w, err)
		return
	}

	baseline := core.PTOMap{}
	if req.UseGlobalPTO {
		baseline, err = h.Repo.ReadPTO(ctx, monthStart, monthEnd)
		if err != nil {
			h.writeCoreError(w, err)
			return
		}
	}
	additional, err := wire.ParsePTOMap(req.AdditionalPTO, h.Calendar)
	if err != nil {
		h.writeCoreError(w, err)
		return
	}
	pto := core.MergePTO(baseline, additional)

	storeRaw := req.BaseStore
	if len(storeRaw) == 0 {
		storeRaw = req.PlanData
	}
	store, err := wire.ParsePlanStore(storeRaw, h.Calendar)
	if err != nil {
		h.writeCoreError(w, err)
		return
	}

	schedule, err := solver.ScheduleMonth(ctx, h.Calendar, req.Year, time.Month(req.Month), people, tasks, pto, store)
	if err != nil {
		h.writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CalendarResponse{
		RequestID:   requestID,
		Success:     true,
		TookMs:      time.Since(start).Milliseconds(),
		Year:        req.Year,
		Month:       req.Month,
		Assignments: toAssignmentDTOs(schedule),
		Unsatisfied: toUnsatisfiedDTOs(schedule),
	})
}

// PostPTOApprove implements POST /pto/approve.
func (h *Handler) PostPTOApprove(w http.ResponseWriter, r *http.Request) {
	var req PTOApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.PersonID == "" {
		h.writeCoreError(w, &core.InvalidInputError{Field: "person_id", Message: "person_id is required"})
		return
	}

	people, err := wire.ParsePeople(req.People)
	if err != nil {
		h.writeCoreError(w, err)
		return
	}
	tasks, err := wire.ParseTasks(req.Tasks)
	if err != nil {
		h.writeCoreError(w, err)
		return
	}
	days := make([]core.Day, 0, len(req.PTODays))
	for _, iso := range req.PTODays {
		d, err := core.ParseDay(h.Calendar.Location, iso)
		if err != nil {
			h.writeCoreError(w, err)
			return
		}
		days = append(days, d)
	}

	baseline, err := wire.ParsePTOMap(req.BaselinePTOMap, h.Calendar)
	if err != nil {
		h.writeCoreError(w, err)
		return
	}
	cohort, err := wire.ParsePTOMap(req.CohortRequests, h.Calendar)
	if err != nil {
		h.writeCoreError(w, err)
		return
	}
	startStore, err := wire.ParsePlanStore(req.BaseStore, h.Calendar)
	if err != nil {
		h.writeCoreError(w, err)
		return
	}

	result, err := admission.CanApprove(r.Context(), h.Calendar, admission.Request{
		PersonID:    req.PersonID,
		Days:        days,
		People:      people,
		Tasks:       tasks,
		BaselinePTO: baseline,
		CohortPTO:   cohort,
		StartStore:  startStore,
	})
	if err != nil {
		h.writeCoreError(w, err)
		return
	}

	combined := map[string][]string{}
	for day, ids := range result.CombinedPTO {
		names := make([]string, 0, len(ids))
		for id := range ids {
			names = append(names, id)
		}
		sort.Strings(names)
		combined[day.ISO()] = names
	}

	writeJSON(w, http.StatusOK, PTOApproveResponse{
		Success:  true,
		Feasible: result.Feasible,
		Result: PTOApproveResult{
			PTOPersonID: req.PersonID,
			PTODays:     req.PTODays,
			Feasible:    result.Feasible,
			Unsatisfied: violationsToUnsatisfied(result.Violations, result.Deficits),
			Assignments: toAssignmentDTOsFlat(result.Assignments),
			CombinedPTO: combined,
		},
	})
}

// GetDepartments implements GET /departments, a read-only admin/demo
// convenience useful for exercising the Repository surface without a
// seeded request body.
func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	depts, err := h.Repo.ListDepartments(r.Context())
	if err != nil {
		h.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"departments": depts})
}

// GetCoverage implements GET /departments/{name}/coverage, reporting
// per-skill fill ratios as exact decimal.Decimal values.
func (h *Handler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	department := chi.URLParam(r, "name")
	ctx := r.Context()

	people, err := h.Repo.ListPeopleIn(ctx, department)
	if err != nil {
		h.writeCoreError(w, err)
		return
	}

	today := h.Calendar.Today()
	weekStart := h.Calendar.MondayOnOrBefore(today)
	weekEnd := weekStart.AddDays(6)

	tasks, err := h.Repo.ListTasksOverlapping(ctx, department, weekStart, weekEnd)
	if err != nil {
		h.writeCoreError(w, err)
		return
	}
	pto, err := h.Repo.ReadPTO(ctx, weekStart, weekEnd)
	if err != nil {
		h.writeCoreError(w, err)
		return
	}

	driver := solver.NewWeekDriver(h.Calendar, weekStart)
	schedule, err := driver.Run(ctx, people, solver.TaskSet{Calendar: h.Calendar, Tasks: tasks}, pto, core.NewPlanStore())
	if err != nil {
		h.writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"coverage": summarizeCoverage(schedule)})
}

func summarizeCoverage(schedule core.HorizonSchedule) []CoverageSummaryDTO {
	required := map[string]int{}
	covered := map[string]int{}
	for _, day := range schedule.Days {
		for _, tc := range day.Tasks {
			for skill, persons := range tc.SkillCoverage {
				covered[skill] += len(persons)
			}
		}
	}
	for _, deficit := range schedule.Deficits {
		for _, skills := range deficit {
			for skill, n := range skills {
				required[skill] += n
			}
		}
	}
	for skill, n := range covered {
		required[skill] += n
	}

	skills := make([]string, 0, len(required))
	for skill := range required {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	out := make([]CoverageSummaryDTO, 0, len(skills))
	for _, skill := range skills {
		req := required[skill]
		cov := covered[skill]
		util := decimal.Zero
		if req > 0 {
			util = decimal.NewFromInt(int64(cov)).DivRound(decimal.NewFromInt(int64(req)), 4)
		}
		out = append(out, CoverageSummaryDTO{Skill: skill, Required: req, Covered: cov, Utilization: util})
	}
	return out
}

func toAssignmentDTOs(schedule core.HorizonSchedule) []AssignmentDTO {
	var flat []core.Assignment
	for _, day := range schedule.Days {
		flat = append(flat, day.Assignments...)
	}
	return toAssignmentDTOsFlat(flat)
}

func toAssignmentDTOsFlat(assignments []core.Assignment) []AssignmentDTO {
	out := make([]AssignmentDTO, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, AssignmentDTO{
			Day:               a.Day.ISO(),
			PersonID:          a.PersonID,
			TaskID:            a.TaskID,
			SkillsContributed: a.SkillsContributed,
		})
	}
	return out
}

func toUnsatisfiedDTOs(schedule core.HorizonSchedule) []UnsatisfiedDTO {
	return violationsToUnsatisfied(schedule.Violations, schedule.Deficits)
}

func violationsToUnsatisfied(violations []string, deficits map[string]core.Deficit) []UnsatisfiedDTO {
	dates := make([]string, 0, len(deficits))
	for date := range deficits {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	out := make([]UnsatisfiedDTO, 0, len(dates))
	for _, date := range dates {
		out = append(out, UnsatisfiedDTO{Date: date, Deficits: deficits[date]})
	}
	// violations is intentionally unused here: the DTO's date keys are
	// drawn from deficits (Deficits is authoritative per §4.5/§7), not
	// parsed back out of the human-readable violation strings.
	_ = violations
	return out
}

func (h *Handler) writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case core.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, "invalid input", err)
	case core.IsCancelled(err):
		writeError(w, http.StatusRequestTimeout, "cancelled", err)
	case core.IsRepositoryFailure(err):
		writeError(w, http.StatusInternalServerError, "repository failure", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Success: false, Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

