package reminder

import (
	"fmt"
	"time"
)

var urgencyTemplates = []string{
	"🔔 **Friendly Reminder**\nYour task %q is due in %d minutes!",
	"⏰ **Task Due Soon**\nYour task %q is due in %d minutes! Please complete it soon.",
	"⚠️ **Urgent Reminder**\nYour task %q is due in %d minutes! Time is running out!",
	"🚨 **VERY URGENT**\nYour task %q is due in %d minutes! Complete it NOW!",
	"🔥 **FINAL WARNING**\nYour task %q is due in %d minutes! This is your LAST CHANCE!",
}

// MaxUrgency is the highest urgency level with its own message.
const MaxUrgency = 4

// MinutesLeft returns the whole minutes until due, never negative.
func MinutesLeft(due, now time.Time) int {
	left := int(due.Sub(now) / time.Minute)
	if left < 0 {
		return 0
	}
	return left
}

// Message renders the reminder for an urgency level. Levels above
// MaxUrgency reuse the last message.
func Message(description string, level, minutesLeft int) string {
	if level < 0 {
		level = 0
	}
	if level > MaxUrgency {
		level = MaxUrgency
	}
	return fmt.Sprintf(urgencyTemplates[level], description, minutesLeft)
}
