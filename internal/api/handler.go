// Package api exposes entries, selections and reports over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tiliavir/daily-work-report/internal/export"
	"github.com/Tiliavir/daily-work-report/internal/model"
	"github.com/Tiliavir/daily-work-report/internal/period"
	"github.com/Tiliavir/daily-work-report/internal/report"
	"github.com/Tiliavir/daily-work-report/internal/storage"
	"github.com/Tiliavir/daily-work-report/internal/timecalc"
)

// Handler serves the entry, selection and report endpoints.
type Handler struct {
	store  storage.Store
	logger *zap.Logger
	now    func() time.Time

	// mu serialises load-modify-save cycles on the store.
	mu sync.Mutex
}

// NewHandler returns a handler backed by store.
func NewHandler(store storage.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger, now: time.Now}
}

// EntryRequest is the body of create and update requests.
type EntryRequest struct {
	Date        string `json:"date" binding:"required,len=10"`
	StartTime   string `json:"start_time" binding:"max=8"`
	EndTime     string `json:"end_time" binding:"max=8"`
	JobNumber   string `json:"job_number" binding:"max=64"`
	ProjectName string `json:"project_name" binding:"max=256"`
	Description string `json:"description" binding:"max=4000"`
}

func (r EntryRequest) apply(e *model.TimeEntry) {
	e.Date = r.Date
	e.StartTime = r.StartTime
	e.EndTime = r.EndTime
	e.JobNumber = r.JobNumber
	e.ProjectName = r.ProjectName
	e.Description = r.Description
}

func (r EntryRequest) validate() error {
	var e model.TimeEntry
	r.apply(&e)
	return e.Validate()
}

// bindEntry decodes and validates an entry body, answering 400 on failure.
func bindEntry(c *gin.Context) (EntryRequest, bool) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return req, false
	}
	if err := req.validate(); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return req, false
	}
	return req, true
}

// SelectionRequest is the body of PUT /selection.
type SelectionRequest struct {
	Mode     string `json:"mode" binding:"required,oneof=custom month"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Week     string `json:"week"`
}

// SelectionResponse is returned by the selection endpoints. Stored is false
// when the employee has no selection and the current month is shown.
type SelectionResponse struct {
	Selection model.Selection `json:"selection"`
	Stored    bool            `json:"stored"`
}

// Router builds the gin engine with logging and recovery middleware.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(Recovery(h.logger), RequestLogger(h.logger))
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes mounts all endpoints on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)

	emp := r.Group("/api/v1/employees/:employee")
	emp.GET("/entries", h.ListEntries)
	emp.POST("/entries", h.CreateEntry)
	emp.PUT("/entries/:id", h.UpdateEntry)
	emp.DELETE("/entries/:id", h.DeleteEntry)
	emp.GET("/selection", h.GetSelection)
	emp.PUT("/selection", h.PutSelection)
	emp.GET("/report", h.Report)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"status": "ok"})
}

// ListEntries returns every entry of the employee in insertion order.
func (h *Handler) ListEntries(c *gin.Context) {
	employee, ok := h.employee(c)
	if !ok {
		return
	}
	h.mu.Lock()
	entries, err := storage.ListEntries(h.store, employee)
	h.mu.Unlock()
	if err != nil {
		h.storageError(c, err)
		return
	}
	respond(c, http.StatusOK, entries)
}

// CreateEntry stores a new manual entry and returns it with its id.
func (h *Handler) CreateEntry(c *gin.Context) {
	employee, ok := h.employee(c)
	if !ok {
		return
	}
	req, ok := bindEntry(c)
	if !ok {
		return
	}

	e := model.TimeEntry{ID: timecalc.GenerateID(h.now()), Source: model.SourceManual}
	req.apply(&e)

	h.mu.Lock()
	err := storage.CreateEntry(h.store, employee, e)
	h.mu.Unlock()
	if err != nil {
		h.storageError(c, err)
		return
	}
	h.logger.Debug("entry created", zap.String("employee", employee), zap.String("id", e.ID))
	respond(c, http.StatusCreated, e)
}

// UpdateEntry replaces the editable fields of an entry. Source and external
// id are kept.
func (h *Handler) UpdateEntry(c *gin.Context) {
	employee, ok := h.employee(c)
	if !ok {
		return
	}
	req, ok := bindEntry(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := storage.GetEntry(h.store, employee, c.Param("id"))
	if err != nil {
		h.storageError(c, err)
		return
	}
	req.apply(&e)
	if err := storage.UpdateEntry(h.store, employee, e); err != nil {
		h.storageError(c, err)
		return
	}
	respond(c, http.StatusOK, e)
}

// DeleteEntry removes an entry.
func (h *Handler) DeleteEntry(c *gin.Context) {
	employee, ok := h.employee(c)
	if !ok {
		return
	}
	h.mu.Lock()
	err := storage.DeleteEntry(h.store, employee, c.Param("id"))
	h.mu.Unlock()
	if err != nil {
		h.storageError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSelection returns the stored selection or the current month.
func (h *Handler) GetSelection(c *gin.Context) {
	employee, ok := h.employee(c)
	if !ok {
		return
	}
	h.mu.Lock()
	sel, err := storage.LoadSelection(h.store, employee)
	h.mu.Unlock()
	if err != nil {
		h.storageError(c, err)
		return
	}
	if sel == nil {
		respond(c, http.StatusOK, SelectionResponse{Selection: period.CurrentMonth(h.now())})
		return
	}
	respond(c, http.StatusOK, SelectionResponse{Selection: *sel, Stored: true})
}

// PutSelection stores the selector inputs as given. Values that do not
// form a valid window are accepted and yield an empty report.
func (h *Handler) PutSelection(c *gin.Context) {
	employee, ok := h.employee(c)
	if !ok {
		return
	}
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	sel := model.Selection{Mode: req.Mode}
	switch req.Mode {
	case model.ModeCustom:
		sel = model.CustomRange(req.DateFrom, req.DateTo)
	case model.ModeMonth:
		sel = model.MonthWeek(req.Year, req.Month, req.Week)
	}

	h.mu.Lock()
	err := storage.SaveSelection(h.store, employee, sel)
	h.mu.Unlock()
	if err != nil {
		h.storageError(c, err)
		return
	}
	respond(c, http.StatusOK, SelectionResponse{Selection: sel, Stored: true})
}

// Report aggregates the employee's entries over the requested window.
// Query parameters from/to select a custom range, year/month/week a month
// (missing year or month default to the current one); without either the
// stored selection is used.
func (h *Handler) Report(c *gin.Context) {
	employee, ok := h.employee(c)
	if !ok {
		return
	}

	h.mu.Lock()
	f, err := h.store.Load(employee)
	h.mu.Unlock()
	if err != nil {
		h.storageError(c, err)
		return
	}

	sel := h.querySelection(c, f.Selection)
	r := report.Build(employee, f.Entries, period.Build(sel))
	respond(c, http.StatusOK, export.NewDocument(r))
}

func (h *Handler) querySelection(c *gin.Context, stored *model.Selection) model.Selection {
	from, hasFrom := c.GetQuery("from")
	to, hasTo := c.GetQuery("to")
	if hasFrom || hasTo {
		return model.CustomRange(from, to)
	}

	year, hasYear := c.GetQuery("year")
	month, hasMonth := c.GetQuery("month")
	week, hasWeek := c.GetQuery("week")
	if hasYear || hasMonth || hasWeek {
		now := h.now()
		y, m := now.Year(), int(now.Month())
		// Unparseable numbers become 0 and degrade to an empty window.
		if hasYear {
			y, _ = strconv.Atoi(year)
		}
		if hasMonth {
			m, _ = strconv.Atoi(month)
		}
		return model.MonthWeek(y, m, week)
	}

	if stored != nil {
		return *stored
	}
	return period.CurrentMonth(h.now())
}

func (h *Handler) employee(c *gin.Context) (string, bool) {
	employee := c.Param("employee")
	if err := storage.ValidateEmployee(employee); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return "", false
	}
	return employee, true
}

func (h *Handler) storageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, storage.ErrInvalidEmployee):
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, storage.ErrDuplicate):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
