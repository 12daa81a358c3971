// Package export renders a user's tasks as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"github.com/yukikurage/task-reminder-api/internal/constants"
	"github.com/yukikurage/task-reminder-api/internal/models"
)

const (
	SheetName   = "Tasks"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	minColumnWidth = 8
	maxColumnWidth = 80
)

var headers = []string{
	"ID",
	"Title",
	"Description",
	"Category",
	"Priority",
	"Status",
	"Due Date",
	"Created At",
	"Updated At",
}

// Filename builds the download name, e.g. tasks_Jane_2024-05-10_21-03-00.xlsx.
func Filename(userName string, now time.Time) string {
	return fmt.Sprintf("tasks_%s_%s.xlsx", userName, now.Format("2006-01-02_15-04-05"))
}

// WriteTasks writes one header row plus one row per task. Times are
// rendered in loc.
func WriteTasks(w io.Writer, tasks []models.Task, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	widths := make([]int, len(headers))
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := f.SetSheetRow(SheetName, "A1", &row); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, task := range tasks {
		values := []string{
			fmt.Sprint(task.ID),
			task.Title,
			task.Description,
			task.Category,
			HumanizePriority(task.Priority),
			HumanizeStatus(task.Status),
			formatTime(task.DueDate, loc),
			formatTime(task.CreatedAt, loc),
			formatTime(task.UpdatedAt, loc),
		}
		cells := make([]interface{}, len(values))
		for j, v := range values {
			cells[j] = v
			if n := utf8.RuneCountInString(v); n > widths[j] {
				widths[j] = n
			}
		}
		cells[0] = task.ID

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
			return fmt.Errorf("failed to write task %d: %w", task.ID, err)
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, columnWidth(width)); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// HumanizePriority turns "high" into "High".
func HumanizePriority(p models.TaskPriority) string {
	return upperFirst(string(p))
}

// HumanizeStatus turns "in_progress" into "In progress".
func HumanizeStatus(s models.TaskStatus) string {
	return upperFirst(strings.ReplaceAll(string(s), "_", " "))
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(constants.DateTimeLayout)
}

func columnWidth(chars int) float64 {
	w := float64(chars) + 2
	if w < minColumnWidth {
		return minColumnWidth
	}
	if w > maxColumnWidth {
		return maxColumnWidth
	}
	return w
}
