// Package export writes a task list in the formats users can download:
// JSON, YAML, CSV, iCalendar and PDF.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"github.com/rezkam/taskmaster/internal/calendar"
	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/ptr"
)

// ErrUnknownFormat is returned for a format this package cannot write.
var ErrUnknownFormat = errors.New("unknown export format")

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatICS  Format = "ics"
	FormatPDF  Format = "pdf"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatYAML, FormatCSV, FormatICS, FormatPDF}

// ParseFormat accepts a format name case-insensitively. "yml" is an alias for yaml.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatCSV, FormatICS, FormatPDF:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatICS:
		return "text/calendar; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// document is the JSON and YAML envelope.
type document struct {
	ExportedAt time.Time     `json:"exportedAt" yaml:"exportedAt"`
	Tasks      []domain.Task `json:"tasks" yaml:"tasks"`
}

// Write encodes tasks to w. now stamps the export; calendar times use time.Local.
func Write(w io.Writer, format Format, tasks []domain.Task, now time.Time) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(document{ExportedAt: now, Tasks: tasks}); err != nil {
			return fmt.Errorf("failed to write json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{ExportedAt: now, Tasks: tasks}); err != nil {
			return fmt.Errorf("failed to write yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to write yaml: %w", err)
		}
		return nil
	case FormatCSV:
		return writeCSV(w, tasks)
	case FormatICS:
		if _, err := io.WriteString(w, calendar.BuildICS(tasks, now, time.Local)); err != nil {
			return fmt.Errorf("failed to write ics: %w", err)
		}
		return nil
	case FormatPDF:
		return writePDF(w, tasks, now)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

var csvHeader = []string{
	"id", "title", "description", "due_date", "due_time", "priority", "category",
	"completed", "created_at", "completed_at", "reminder_enabled", "reminder_time",
}

func writeCSV(w io.Writer, tasks []domain.Task) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.String()
		}
		completedAt := ""
		if t.CompletedAt != nil {
			completedAt = t.CompletedAt.Format(time.RFC3339)
		}
		_ = cw.Write([]string{
			t.ID, t.Title, t.Description, due, ptr.ToString(t.DueTime), string(t.Priority), t.Category,
			strconv.FormatBool(t.Completed), t.CreatedAt.Format(time.RFC3339), completedAt,
			strconv.FormatBool(t.ReminderEnabled), ptr.ToString(t.ReminderTime),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writePDF(w io.Writer, tasks []domain.Task, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate so accented titles survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle("TaskMaster export", true)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "TaskMaster Tasks")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 6, "Exported "+now.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	for _, t := range tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s  (%s, %s)", mark, t.Title, t.Priority, t.Category)
		if t.DueDate != nil {
			line += "  due " + t.DueDate.String()
			if t.DueTime != nil {
				line += " " + *t.DueTime
			}
		}
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
		if t.Description != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(0, 5, tr("    "+t.Description), "0", "L", false)
			pdf.SetFont("Arial", "", 10)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
