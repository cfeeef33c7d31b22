// ABOUTME: Demo accounts and events for the development server
// ABOUTME: Dates are relative to now so the catalog always has upcoming events

package services

import (
	"fmt"
	"time"

	"github.com/gursheyss/cs157a/internal/mockapi/models"
)

// DemoPassword is the password of every seeded account
const DemoPassword = "password123"

// Seed fills an empty store with two accounts and a handful of events
func Seed(store *Store, hasher *Hasher, now time.Time) error {
	hash, err := hasher.Hash(DemoPassword)
	if err != nil {
		return err
	}

	organizer, err := store.CreateUser(models.User{
		Username:     "organizer",
		Email:        "organizer@sjsu.edu",
		PasswordHash: hash,
		FirstName:    "Olivia",
		LastName:     "Organizer",
		Roles:        []string{models.RoleUser, models.RoleOrganizer},
	})
	if err != nil {
		return fmt.Errorf("failed to seed organizer: %w", err)
	}

	student, err := store.CreateUser(models.User{
		Username:     "student",
		Email:        "student@sjsu.edu",
		PasswordHash: hash,
		FirstName:    "Sam",
		LastName:     "Student",
	})
	if err != nil {
		return fmt.Errorf("failed to seed student: %w", err)
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	at := func(days, hour, minute int) time.Time {
		return day.AddDate(0, 0, days).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}
	capacity := func(n int) *int { return &n }

	seeds := []models.Event{
		{Title: "Spring Career Fair", Description: "Meet recruiters from more than fifty Bay Area employers.", Location: "Student Union Ballroom", StartTime: at(3, 10, 0), EndTime: at(3, 15, 0), Category: "Career & Networking", MaxAttendees: capacity(300)},
		{Title: "Intro to Go Workshop", Description: "Hands-on session covering goroutines, channels and testing.", Location: "MacQuarrie Hall 222", StartTime: at(5, 17, 30), EndTime: at(5, 19, 30), Category: "Workshops & Training", MaxAttendees: capacity(40)},
		{Title: "Database Systems Study Jam", Description: "Group review of normalization, indexing and transactions.", Location: "King Library 4th Floor", StartTime: at(6, 18, 0), EndTime: at(6, 21, 0), Category: "Academic"},
		{Title: "Campus Cleanup Day", Description: "Help keep campus green; gloves and snacks provided.", Location: "Tower Lawn", StartTime: at(8, 9, 0), EndTime: at(8, 12, 0), Category: "Community Service", MaxAttendees: capacity(60)},
		{Title: "Intramural Volleyball Night", Description: "Casual pickup games, all skill levels welcome.", Location: "Spartan Recreation Center", StartTime: at(10, 19, 0), EndTime: at(10, 22, 0), Category: "Sports & Recreation"},
	}

	for _, e := range seeds {
		e.OrganizerID = organizer.ID
		store.CreateEvent(e)
	}

	if _, err := store.Register(student.ID, 1); err != nil {
		return fmt.Errorf("failed to seed registration: %w", err)
	}
	return nil
}
