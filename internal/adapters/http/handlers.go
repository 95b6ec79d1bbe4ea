package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"fjorlistinn/internal/adapters/http/middleware"
	"fjorlistinn/internal/application/orchestrators"
	"fjorlistinn/internal/application/projections"
	accountDomain "fjorlistinn/internal/domain/account"
	"fjorlistinn/internal/domain/attendance"
	commentDomain "fjorlistinn/internal/domain/comment"
	midstigDomain "fjorlistinn/internal/domain/midstig"
	scheduleDomain "fjorlistinn/internal/domain/schedule"
	studentDomain "fjorlistinn/internal/domain/student"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// Domain status vocabulary returned in response bodies. Transport problems
// use plain HTTP status codes instead.
const (
	statusSuccess   = "success"
	statusDuplicate = "duplicate"
	statusError     = "error"
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err.Error())
	}
}

// writeStatusError reports a recognized domain failure in the body with a
// 200 transport status, which is what the client's status switch expects.
func writeStatusError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]any{"status": statusError, "message": msg})
}

// requireIdentity returns the caller's identity or writes 401.
func requireIdentity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return middleware.Identity{}, false
	}
	return id, true
}

// requireStaffFor returns the caller's identity if it may act for the
// center, or writes 401/403.
func requireStaffFor(w http.ResponseWriter, r *http.Request, centerID string) (middleware.Identity, bool) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return middleware.Identity{}, false
	}
	if !id.CanActFor(centerID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return middleware.Identity{}, false
	}
	return id, true
}

// requireAdmin returns the caller's identity if it is an admin.
func requireAdmin(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return middleware.Identity{}, false
	}
	if id.Role != accountDomain.RoleAdmin {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return middleware.Identity{}, false
	}
	return id, true
}

// requireMethod writes 405 unless the request uses the given method.
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// handleHealth is a plain liveness probe.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAPI dispatches on the action query parameter. The whole API is one
// endpoint; the action name selects the operation.
func handleAPI(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	switch action {
	case "attendance":
		handleAttendance(w, r)
	case "attendanceMidstig":
		handleAttendanceMidstig(w, r)
	case "attendanceToday":
		handleAttendanceToday(w, r)
	case "midstigToday":
		handleMidstigToday(w, r)
	case "students":
		handleStudents(w, r)
	case "newStudent":
		handleNewStudent(w, r)
	case "deleteStudent":
		handleDeleteStudent(w, r)
	case "leaderboard":
		handleLeaderboard(w, r)
	case "centers":
		handleCenters(w, r)
	case "schedule":
		handleSchedule(w, r)
	case "scheduleSave":
		handleScheduleSave(w, r)
	case "scheduleDelete":
		handleScheduleDelete(w, r)
	case "scheduleNow":
		handleScheduleNow(w, r)
	case "studentStats":
		handleStudentStats(w, r)
	case "statistics":
		handleStatistics(w, r)
	case "activity":
		handleActivity(w, r)
	case "staffLogin":
		handleStaffLogin(w, r)
	case "adminLogin":
		handleAdminLogin(w, r)
	case "users":
		handleUsers(w, r)
	case "addUser":
		handleAddUser(w, r)
	case "deleteUser":
		handleDeleteUser(w, r)
	case "resetPassword":
		handleResetPassword(w, r)
	case "comment":
		handleComment(w, r)
	case "comments":
		handleComments(w, r)
	case "yearEndCleanup":
		handleYearEndCleanup(w, r)
	case "activityReport":
		handleActivityReport(w, r)
	case "perf":
		handlePerf(w, r)
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
	}
}

// gamificationPayload is the stats block returned after a check-in and
// from the studentStats action.
type gamificationPayload struct {
	StudentID            string `json:"studentId"`
	Name                 string `json:"name"`
	TotalCount           int    `json:"totalCount"`
	StreakWeeks          int    `json:"streakWeeks"`
	Title                string `json:"title"`
	MilestoneJustReached string `json:"milestoneJustReached,omitempty"`
	DaysSinceLast        int    `json:"daysSinceLast"`
	FirstAttendance      string `json:"firstAttendance,omitempty"`
	LastAttendance       string `json:"lastAttendance,omitempty"`
	Status               string `json:"status,omitempty"`
}

func toGamificationPayload(stats projections.StudentStatsResult) gamificationPayload {
	return gamificationPayload{
		StudentID:            stats.StudentID,
		Name:                 stats.Name,
		TotalCount:           stats.TotalCount,
		StreakWeeks:          stats.StreakWeeks,
		Title:                stats.Title,
		MilestoneJustReached: stats.MilestoneJustReached,
		DaysSinceLast:        stats.DaysSinceLast,
		FirstAttendance:      stats.FirstAttendance,
		LastAttendance:       stats.LastAttendance,
		Status:               stats.Status,
	}
}

func studentStatsDeps() projections.StudentStatsDeps {
	return projections.StudentStatsDeps{
		StudentStore:   stores.StudentStore,
		LedgerStore:    stores.LedgerStore,
		MilestoneStore: stores.MilestoneStore,
		Now:            timeNow,
	}
}

// handleAttendance records an individual check-in and returns the
// gamification summary in the same response. Self-service and kiosk
// submissions need no token; staff entry does.
func handleAttendance(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var input struct {
		StudentID   string `json:"studentId"`
		CenterID    string `json:"centerId"`
		Date        string `json:"date"`
		Time        string `json:"time"`
		ProgramItem string `json:"programItem"`
		Source      string `json:"source"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if input.Source == "" {
		input.Source = attendance.SourceSelf
	}

	staffID := ""
	if input.Source == attendance.SourceStaff {
		id, ok := requireStaffFor(w, r, input.CenterID)
		if !ok {
			return
		}
		staffID = id.AccountID
	}

	result, err := orchestrators.ExecuteRecordCheckIn(r.Context(), orchestrators.RecordCheckInInput{
		StudentID:   input.StudentID,
		CenterID:    input.CenterID,
		Date:        input.Date,
		Time:        input.Time,
		ProgramItem: input.ProgramItem,
		Source:      input.Source,
		StaffID:     staffID,
	}, orchestrators.RecordCheckInDeps{
		StudentStore:   stores.StudentStore,
		LedgerStore:    stores.LedgerStore,
		MilestoneStore: stores.MilestoneStore,
		Now:            timeNow,
		GenerateID:     generateID,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrStudentNotFound),
			errors.Is(err, orchestrators.ErrStudentInactive),
			errors.Is(err, orchestrators.ErrStudentMidstig),
			errors.Is(err, attendance.ErrFutureDate),
			errors.Is(err, attendance.ErrTooFarBack),
			errors.Is(err, attendance.ErrInvalidDate),
			errors.Is(err, attendance.ErrInvalidSource),
			errors.Is(err, attendance.ErrEmptyStudentID),
			errors.Is(err, attendance.ErrEmptyCenterID):
			writeStatusError(w, err.Error())
		default:
			internalError(w, err)
		}
		return
	}

	// Stats are computed synchronously so the client can celebrate
	// milestones in the same round trip.
	stats, err := projections.QueryStudentStats(r.Context(), input.StudentID, studentStatsDeps())
	if err != nil {
		internalError(w, err)
		return
	}

	status := statusSuccess
	if result.Duplicate {
		status = statusDuplicate
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       status,
		"gamification": toGamificationPayload(stats),
	})
}

// handleAttendanceMidstig records an aggregate grade 5-7 headcount.
func handleAttendanceMidstig(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var input struct {
		CenterID string `json:"centerId"`
		School   string `json:"school"`
		Date     string `json:"date"`
		Grade5   int    `json:"grade5"`
		Grade6   int    `json:"grade6"`
		Grade7   int    `json:"grade7"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	id, ok := requireStaffFor(w, r, input.CenterID)
	if !ok {
		return
	}

	err := orchestrators.ExecuteRecordMidstig(r.Context(), orchestrators.RecordMidstigInput{
		CenterID: input.CenterID,
		School:   input.School,
		Date:     input.Date,
		Grade5:   input.Grade5,
		Grade6:   input.Grade6,
		Grade7:   input.Grade7,
		StaffID:  id.AccountID,
	}, orchestrators.RecordMidstigDeps{
		MidstigStore: stores.MidstigStore,
		Now:          timeNow,
		GenerateID:   generateID,
	})
	if err != nil {
		var domainErr error
		for _, known := range []error{
			midstigDomain.ErrEmptyCenterID, midstigDomain.ErrEmptySchool,
			midstigDomain.ErrInvalidDate, midstigDomain.ErrNegativeCount,
			midstigDomain.ErrEmptyEntry,
		} {
			if errors.Is(err, known) {
				domainErr = err
				break
			}
		}
		if domainErr != nil {
			writeStatusError(w, domainErr.Error())
		} else {
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess})
}

// handleAttendanceToday lists a center's check-ins for one day, with
// student names attached.
func handleAttendanceToday(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	centerID := r.URL.Query().Get("centerId")
	if _, ok := requireStaffFor(w, r, centerID); !ok {
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = timeNow().Format("2006-01-02")
	}

	entries, err := projections.QueryAttendanceToday(r.Context(), centerID, date, projections.AttendanceTodayDeps{
		LedgerStore:  stores.LedgerStore,
		StudentStore: stores.StudentStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	type row struct {
		EntryID     string `json:"entryId"`
		StudentID   string `json:"studentId"`
		Name        string `json:"name"`
		School      string `json:"school"`
		Grade       int    `json:"grade"`
		Time        string `json:"time"`
		ProgramItem string `json:"programItem,omitempty"`
		Source      string `json:"source"`
	}
	rows := make([]row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, row{
			EntryID: e.EntryID, StudentID: e.StudentID, Name: e.Name,
			School: e.School, Grade: e.Grade, Time: e.Time,
			ProgramItem: e.ProgramItem, Source: e.Source,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess, "date": date, "entries": rows})
}

// handleStudents lists a center's roster.
func handleStudents(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	centerID := r.URL.Query().Get("centerId")
	if _, ok := requireStaffFor(w, r, centerID); !ok {
		return
	}
	activeOnly := r.URL.Query().Get("includeInactive") != "true"

	students, err := projections.QueryStudents(r.Context(), stores.StudentStore, centerID, activeOnly)
	if err != nil {
		internalError(w, err)
		return
	}

	type row struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		School   string `json:"school"`
		Grade    int    `json:"grade"`
		CenterID string `json:"centerId"`
		Active   bool   `json:"active"`
	}
	rows := make([]row, 0, len(students))
	for _, s := range students {
		rows = append(rows, row{ID: s.ID, Name: s.Name, School: s.School, Grade: s.Grade, CenterID: s.CenterID, Active: s.Active})
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess, "students": rows})
}

// handleMidstigToday lists the aggregate grade 5-7 headcounts a center has
// recorded for one day, so staff can see what is already entered.
func handleMidstigToday(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	centerID := r.URL.Query().Get("centerId")
	if _, ok := requireStaffFor(w, r, centerID); !ok {
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = timeNow().Format("2006-01-02")
	}

	entries, err := stores.MidstigStore.ListByCenterAndDate(r.Context(), centerID, date)
	if err != nil {
		internalError(w, err)
		return
	}

	type row struct {
		ID     string `json:"id"`
		School string `json:"school"`
		Grade5 int    `json:"grade5"`
		Grade6 int    `json:"grade6"`
		Grade7 int    `json:"grade7"`
		Total  int    `json:"total"`
	}
	rows := make([]row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, row{
			ID: e.ID, School: e.School,
			Grade5: e.Grade5, Grade6: e.Grade6, Grade7: e.Grade7,
			Total: e.Total(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess, "date": date, "entries": rows})
}

// handleLeaderboard returns the center's top students by check-in count.
func handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	centerID := r.URL.Query().Get("centerId")
	if _, ok := requireStaffFor(w, r, centerID); !ok {
		return
	}

	board, err := projections.QueryLeaderboard(r.Context(), centerID, r.URL.Query().Get("period"),
		projections.LeaderboardDeps{
			LedgerStore:  stores.LedgerStore,
			StudentStore: stores.StudentStore,
			Now:          timeNow,
		})
	if err != nil {
		internalError(w, err)
		return
	}

	type row struct {
		StudentID string `json:"studentId"`
		Name      string `json:"name"`
		School    string `json:"school"`
		Grade     int    `json:"grade"`
		Count     int    `json:"count"`
	}
	rows := make([]row, 0, len(board))
	for _, e := range board {
		rows = append(rows, row{StudentID: e.StudentID, Name: e.Name, School: e.School, Grade: e.Grade, Count: e.Count})
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess, "leaderboard": rows})
}

// handleNewStudent registers a student.
func handleNewStudent(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var input struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		School   string `json:"school"`
		Grade    int    `json:"grade"`
		CenterID string `json:"centerId"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, ok := requireStaffFor(w, r, input.CenterID); !ok {
		return
	}

	err := orchestrators.ExecuteRegisterStudent(r.Context(), orchestrators.RegisterStudentInput{
		ID: input.ID, Name: input.Name, School: input.School,
		Grade: input.Grade, CenterID: input.CenterID,
	}, orchestrators.RegisterStudentDeps{StudentStore: stores.StudentStore})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrStudentExists),
			errors.Is(err, studentDomain.ErrEmptyID),
			errors.Is(err, studentDomain.ErrEmptyName),
			errors.Is(err, studentDomain.ErrEmptySchool),
			errors.Is(err, studentDomain.ErrInvalidGrade):
			writeStatusError(w, err.Error())
		default:
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess})
}

// handleDeleteStudent removes a student from the roster. The student is
// deactivated, not erased: ledger history stays until the retention purge.
func handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var input struct {
		StudentID string `json:"studentId"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	s, err := stores.StudentStore.GetByID(r.Context(), input.StudentID)
	if err != nil {
		writeStatusError(w, orchestrators.ErrStudentNotFound.Error())
		return
	}
	if !id.CanActFor(s.CenterID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := orchestrators.ExecuteDeleteStudent(r.Context(), input.StudentID, stores.StudentStore); err != nil {
		if errors.Is(err, orchestrators.ErrStudentNotFound) {
			writeStatusError(w, err.Error())
		} else {
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess})
}

// handleCenters lists all centers. Public: the check-in page needs it
// before any login.
func handleCenters(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	centers, err := projections.QueryCenters(r.Context(), stores.CenterStore)
	if err != nil {
		internalError(w, err)
		return
	}

	type row struct {
		ID      string   `json:"id"`
		Name    string   `json:"name"`
		Color   string   `json:"color,omitempty"`
		Schools []string `json:"schools,omitempty"`
	}
	rows := make([]row, 0, len(centers))
	for _, c := range centers {
		rows = append(rows, row{ID: c.ID, Name: c.Name, Color: c.Color, Schools: c.Schools})
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess, "centers": rows})
}

type scheduleItemPayload struct {
	ID        string `json:"id"`
	CenterID  string `json:"centerId"`
	Day       string `json:"day"`
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Category  string `json:"category,omitempty"`
}

func toScheduleItemPayload(item scheduleDomain.Item) scheduleItemPayload {
	return scheduleItemPayload{
		ID: item.ID, CenterID: item.CenterID, Day: item.Day, Name: item.Name,
		StartTime: item.StartTime, EndTime: item.EndTime, Category: item.Category,
	}
}

// handleSchedule lists a center's weekly schedule. Public.
func handleSchedule(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	centerID := r.URL.Query().Get("centerId")
	if centerID == "" {
		http.Error(w, "centerId is required", http.StatusBadRequest)
		return
	}
	items, err := projections.QuerySchedule(r.Context(), stores.ScheduleStore, centerID)
	if err != nil {
		internalError(w, err)
		return
	}
	rows := make([]scheduleItemPayload, 0, len(items))
	for _, item := range items {
		rows = append(rows, toScheduleItemPayload(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess, "schedule": rows})
}

// handleScheduleSave creates or updates a schedule item.
func handleScheduleSave(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var input scheduleItemPayload
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, ok := requireStaffFor(w, r, input.CenterID); !ok {
		return
	}

	id, err := orchestrators.ExecuteSaveScheduleItem(r.Context(), orchestrators.SaveScheduleItemInput{
		ID: input.ID, CenterID: input.CenterID, Day: input.Day, Name: input.Name,
		StartTime: input.StartTime, EndTime: input.EndTime, Category: input.Category,
	}, orchestrators.SaveScheduleItemDeps{ScheduleStore: stores.ScheduleStore, GenerateID: generateID})
	if err != nil {
		switch {
		case errors.Is(err, scheduleDomain.ErrOverlap),
			errors.Is(err, scheduleDomain.ErrInvalidTime),
			errors.Is(err, scheduleDomain.ErrEndBeforeStart),
			errors.Is(err, scheduleDomain.ErrInvalidDay),
			errors.Is(err, scheduleDomain.ErrEmptyName),
			errors.Is(err, scheduleDomain.ErrEmptyCenterID):
			writeStatusError(w, err.Error())
		default:
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess, "id": id})
}

// handleScheduleDelete removes a schedule item.
func handleScheduleDelete(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var input struct {
		ID       string `json:"id"`
		CenterID string `json:"centerId"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, ok := requireStaffFor(w, r, input.CenterID); !ok {
		return
	}
	if err := orchestrators.ExecuteDeleteScheduleItem(r.Context(), input.ID,
		orchestrators.SaveScheduleItemDeps{ScheduleStore: stores.ScheduleStore}); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess})
}

// handleScheduleNow reports the program item active right now, or an
// explicit closed signal. Public: the check-in page shows it.
func handleScheduleNow(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	centerID := r.URL.Query().Get("centerId")
	if centerID == "" {
		http.Error(w, "centerId is required", http.StatusBadRequest)
		return
	}

	result, err := projections.QueryScheduleNow(r.Context(), centerID, timeNow(),
		projections.ScheduleNowDeps{ScheduleStore: stores.ScheduleStore})
	if err != nil {
		internalError(w, err)
		return
	}

	resp := map[string]any{"status": statusSuccess, "open": result.Open, "dagskrarlid": nil}
	if result.Open {
		resp["dagskrarlid"] = toScheduleItemPayload(*result.Item)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStudentStats returns the gamification summary for one student.
// Public: shown to the student on the check-in page.
func handleStudentStats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	studentID := r.URL.Query().Get("studentId")
	if studentID == "" {
		http.Error(w, "studentId is required", http.StatusBadRequest)
		return
	}

	stats, err := projections.QueryStudentStats(r.Context(), studentID, studentStatsDeps())
	if err != nil {
		writeStatusError(w, "student not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess, "gamification": toGamificationPayload(stats)})
}

// handleStatistics returns attendance rollups for a date range.
func handleStatistics(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	centerID := r.URL.Query().Get("centerId")
	if _, ok := requireStaffFor(w, r, centerID); !ok {
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if to == "" {
		to = timeNow().Format("2006-01-02")
	}
	if from == "" {
		from = timeNow().AddDate(0, -1, 0).Format("2006-01-02")
	}

	result, err := projections.QueryStatistics(r.Context(), projections.StatisticsInput{
		CenterID: centerID, StartDate: from, EndDate: to,
	}, projections.StatisticsDeps{
		LedgerStore:  stores.LedgerStore,
		MidstigStore: stores.MidstigStore,
		StudentStore: stores.StudentStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    statusSuccess,
		"from":      from,
		"to":        to,
		"total":     result.Total,
		"byDay":     result.ByDay,
		"byWeek":    result.ByWeek,
		"byMonth":   result.ByMonth,
		"bySchool":  result.BySchool,
		"byGrade":   result.ByGrade,
		"byWeekday": result.ByWeekday,
	})
}

// handleActivity returns the center's activity buckets for the staff
// virkni page.
func handleActivity(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	centerID := r.URL.Query().Get("centerId")
	if _, ok := requireStaffFor(w, r, centerID); !ok {
		return
	}

	result, err := projections.QueryActivityStatus(r.Context(), centerID, projections.ActivityStatusDeps{
		StudentStore: stores.StudentStore,
		LedgerStore:  stores.LedgerStore,
		Now:          timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	type row struct {
		StudentID     string `json:"studentId"`
		Name          string `json:"name"`
		School        string `json:"school"`
		Grade         int    `json:"grade"`
		LastDate      string `json:"lastDate,omitempty"`
		DaysSinceLast int    `json:"daysSinceLast"`
	}
	students := make(map[string][]row, len(result.Students))
	for bucket, list := range result.Students {
		rows := make([]row, 0, len(list))
		for _, s := range list {
			rows = append(rows, row{
				StudentID: s.StudentID, Name: s.Name, School: s.School,
				Grade: s.Grade, LastDate: s.LastDate, DaysSinceLast: s.DaysSinceLast,
			})
		}
		students[bucket] = rows
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   statusSuccess,
		"counts":   result.Counts,
		"bySchool": result.BySchool,
		"students": students,
	})
}

// loginResponse issues a token for a successful login.
func loginResponse(w http.ResponseWriter, result orchestrators.LoginResult) {
	token, err := tokenIssuer.Issue(middleware.Identity{
		AccountID:   result.AccountID,
		Username:    result.Username,
		DisplayName: result.DisplayName,
		Role:        result.Role,
		CenterID:    result.CenterID,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": statusSuccess,
		"token":  token,
		"user": map[string]any{
			"username":    result.Username,
			"displayName": result.DisplayName,
			"role":        result.Role,
			"centerId":    result.CenterID,
		},
	})
}

// handleStaffLogin authenticates a staff or supervisor account.
func handleStaffLogin(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Username: input.Username, Password: input.Password,
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrInvalidCredentials),
			errors.Is(err, orchestrators.ErrAccountLocked):
			writeStatusError(w, err.Error())
		default:
			internalError(w, err)
		}
		return
	}
	loginResponse(w, result)
}

// handleAdminLogin authenticates the reserved admin account by password.
func handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var input struct {
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteAdminLogin(r.Context(), input.Password,
		orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrInvalidCredentials),
			errors.Is(err, orchestrators.ErrAccountLocked):
			writeStatusError(w, err.Error())
		default:
			internalError(w, err)
		}
		return
	}
	loginResponse(w, result)
}

// handleUsers lists all accounts for the admin user-management view.
func handleUsers(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	accounts, err := orchestrators.QueryAccounts(r.Context(), stores.AccountStore)
	if err != nil {
		internalError(w, err)
		return
	}

	type row struct {
		Username    string `json:"username"`
		DisplayName string `json:"displayName"`
		Role        string `json:"role"`
		CenterID    string `json:"centerId,omitempty"`
	}
	rows := make([]row, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, row{Username: a.Username, DisplayName: a.DisplayName, Role: a.Role, CenterID: a.CenterID})
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess, "users": rows})
}

// handleAddUser provisions a staff, supervisor, or admin account.
func handleAddUser(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	var input struct {
		Username    string `json:"username"`
		DisplayName string `json:"displayName"`
		Password    string `json:"password"`
		Role        string `json:"role"`
		CenterID    string `json:"centerId"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	_, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
		Username:    input.Username,
		DisplayName: input.DisplayName,
		Password:    input.Password,
		Role:        input.Role,
		CenterID:    input.CenterID,
	}, orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrUsernameTaken),
			errors.Is(err, accountDomain.ErrEmptyUsername),
			errors.Is(err, accountDomain.ErrInvalidRole),
			errors.Is(err, accountDomain.ErrMissingCenter),
			errors.Is(err, accountDomain.ErrEmptyPassword),
			errors.Is(err, accountDomain.ErrPasswordTooShort):
			writeStatusError(w, err.Error())
		default:
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess})
}

// handleDeleteUser removes a staff or supervisor account.
func handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	var input struct {
		Username string `json:"username"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := orchestrators.ExecuteDeleteAccount(r.Context(), input.Username, stores.AccountStore); err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrReservedAccount),
			errors.Is(err, orchestrators.ErrAccountNotFound):
			writeStatusError(w, err.Error())
		default:
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess})
}

// handleResetPassword sets a new password for an account and clears its
// lockout.
func handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := orchestrators.ExecuteResetPassword(r.Context(), input.Username, input.Password, stores.AccountStore); err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrAccountNotFound),
			errors.Is(err, accountDomain.ErrEmptyPassword),
			errors.Is(err, accountDomain.ErrPasswordTooShort):
			writeStatusError(w, err.Error())
		default:
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess})
}

// handleComment appends a staff annotation to a student.
func handleComment(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var input struct {
		StudentID string `json:"studentId"`
		Content   string `json:"content"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	author := id.DisplayName
	if author == "" {
		author = id.Username
	}
	err := orchestrators.ExecuteAddComment(r.Context(), orchestrators.AddCommentInput{
		StudentID: input.StudentID, Content: input.Content, Author: author,
	}, orchestrators.AddCommentDeps{
		StudentStore: stores.StudentStore,
		CommentStore: stores.CommentStore,
		Now:          timeNow,
		GenerateID:   generateID,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrStudentNotFound),
			errors.Is(err, commentDomain.ErrEmptyContent),
			errors.Is(err, commentDomain.ErrContentTooLong):
			writeStatusError(w, err.Error())
		default:
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess})
}

// handleComments lists a student's comments, newest first, with the
// markdown rendered to safe HTML.
func handleComments(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireIdentity(w, r); !ok {
		return
	}
	studentID := r.URL.Query().Get("studentId")
	if studentID == "" {
		http.Error(w, "studentId is required", http.StatusBadRequest)
		return
	}

	comments, err := stores.CommentStore.ListByStudentID(r.Context(), studentID)
	if err != nil {
		internalError(w, err)
		return
	}

	type row struct {
		ID        string `json:"id"`
		Author    string `json:"author"`
		Content   string `json:"content"`
		HTML      string `json:"html"`
		CreatedAt string `json:"createdAt"`
	}
	rows := make([]row, 0, len(comments))
	for _, c := range comments {
		var buf bytes.Buffer
		html := c.Content
		if err := mdRenderer.Convert([]byte(c.Content), &buf); err == nil {
			html = buf.String()
		}
		rows = append(rows, row{
			ID: c.ID, Author: c.Author, Content: c.Content, HTML: html,
			CreatedAt: c.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess, "comments": rows})
}

// handleYearEndCleanup runs the annual rollover. Admin only, and the
// admin password is re-checked in the body.
func handleYearEndCleanup(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	var input struct {
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteYearEndCleanup(r.Context(), orchestrators.YearEndCleanupInput{
		AdminPassword: input.Password,
	}, orchestrators.YearEndCleanupDeps{
		AccountStore:     stores.AccountStore,
		MaintenanceStore: stores.MaintenanceStore,
		Now:              timeNow,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrInvalidCredentials) {
			writeStatusError(w, err.Error())
		} else {
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          statusSuccess,
		"promoted":        result.Promoted,
		"deactivated":     result.Deactivated,
		"purgedEntries":   result.PurgedEntries,
		"purgedHeadcount": result.PurgedHeadcount,
	})
}

// handleActivityReport emails a center's activity summary.
func handleActivityReport(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var input struct {
		CenterID  string `json:"centerId"`
		Recipient string `json:"recipient"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, ok := requireStaffFor(w, r, input.CenterID); !ok {
		return
	}
	if emailSender == nil {
		writeStatusError(w, "email delivery is not configured")
		return
	}

	err := orchestrators.ExecuteSendActivityReport(r.Context(), orchestrators.SendActivityReportInput{
		CenterID: input.CenterID, Recipient: input.Recipient,
	}, orchestrators.SendActivityReportDeps{
		CenterStore: stores.CenterStore,
		ActivityDeps: projections.ActivityStatusDeps{
			StudentStore: stores.StudentStore,
			LedgerStore:  stores.LedgerStore,
			Now:          timeNow,
		},
		Sender: emailSender,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrNoRecipient) {
			writeStatusError(w, err.Error())
		} else {
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess})
}

// handlePerf returns the timing snapshot. Admin only.
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	if perfCollector == nil {
		writeStatusError(w, "perf collection is not enabled")
		return
	}
	since := timeNow().Add(-1 * time.Hour)
	snap := perfCollector.Snapshot(since, 10)
	writeJSON(w, http.StatusOK, map[string]any{"status": statusSuccess, "perf": snap})
}
