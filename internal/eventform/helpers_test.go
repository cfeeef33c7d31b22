// ABOUTME: Test helpers for event form tests
// ABOUTME: Converts requests back into events

package eventform

import "github.com/gursheyss/cs157a/internal/client"

func eventFromRequest(req client.EventRequest) *client.Event {
	return &client.Event{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Category:     req.Category,
		MaxAttendees: req.MaxAttendees,
	}
}
