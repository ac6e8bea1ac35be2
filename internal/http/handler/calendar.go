package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rezkam/taskmaster/internal/calendar"
	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/export"
	"github.com/rezkam/taskmaster/internal/http/response"
)

var (
	errInvalidYear  = errors.New("must be a year between 1 and 9999")
	errInvalidMonth = errors.New("must be a month between 1 and 12")
)

// GetCalendar handles GET /api/v1/calendar.
//
//	?date=YYYY-MM-DD      tasks due that day
//	?year=2025&month=3    month grid (defaults to the current month)
func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	today := s.today()

	if v := q.Get("date"); v != "" {
		day, err := domain.ParseDate(v)
		if err != nil {
			response.FromDomainError(w, r, response.Invalid("date", err))
			return
		}
		response.OK(w, dayResponse{Date: day, Tasks: calendar.TasksForDate(s.tasks.Tasks(), day)})
		return
	}

	year, month := today.Year, today.Month
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 9999 {
			response.FromDomainError(w, r, response.Invalid("year", errInvalidYear))
			return
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			response.FromDomainError(w, r, response.Invalid("month", errInvalidMonth))
			return
		}
		month = time.Month(n)
	}

	response.OK(w, calendar.Month(s.tasks.Tasks(), year, month, today))
}

// Export handles GET /api/v1/export?format=json|yaml|csv|ics|pdf.
// The document is rendered in memory first so a failure still gets a JSON
// error instead of a truncated download.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(export.FormatJSON)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	now := s.now()
	var buf bytes.Buffer
	if err := export.Write(&buf, format, s.tasks.Tasks(), now); err != nil {
		response.InternalError(w, r, fmt.Errorf("failed to export tasks: %w", err))
		return
	}

	filename := "taskmaster-" + domain.DateOf(now).String() + "." + format.Extension()
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
