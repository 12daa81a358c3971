package push

import (
	"fmt"
	"net/url"
	"time"

	"github.com/yukikurage/task-reminder-api/internal/models"
)

const dueReminderTitle = "Task Due Soon!"

// Payload is the JSON document handed to the browser service worker.
type Payload struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	TaskID uint64 `json:"taskId"`
	URL    string `json:"url"`
}

// TaskDuePayload builds the evening reminder for task. The remaining time
// counts down to the end of now's calendar day, not to the task's due
// timestamp.
func TaskDuePayload(task models.Task, now time.Time) Payload {
	remaining := FormatHMS(RemainingUntilEndOfDay(now))

	return Payload{
		Title:  dueReminderTitle,
		Body:   fmt.Sprintf("Your task '%s' is going to expire in %s hours.", task.Title, remaining),
		TaskID: task.ID,
		URL:    "/dashboard?search=" + url.QueryEscape(task.Title) + "&page=1",
	}
}

// RemainingUntilEndOfDay returns the time left until 23:59:59.999999999 of
// now's day, in now's location.
func RemainingUntilEndOfDay(now time.Time) time.Duration {
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	return endOfDay.Sub(now)
}

// FormatHMS renders d as zero-padded HH:MM:SS, dropping fractional seconds.
func FormatHMS(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)

	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	seconds := int(d % time.Minute / time.Second)

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
