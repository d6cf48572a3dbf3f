package models

import (
	"slices"
	"time"
)

// Achievement is an unlocked badge.
type Achievement struct {
	ID         string    `json:"id"`
	Title      string    `json:"title,omitempty"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// Stats aggregates the user's progress.
type Stats struct {
	TotalTasksCompleted int           `json:"totalTasksCompleted"`
	CurrentStreak       int           `json:"currentStreak"`
	LongestStreak       int           `json:"longestStreak"`
	TotalStudyMinutes   int           `json:"totalStudyMinutes"`
	Achievements        []Achievement `json:"achievements"`
}

// Clone returns a deep copy of s.
func (s *Stats) Clone() *Stats {
	if s == nil {
		return nil
	}
	c := *s
	c.Achievements = slices.Clone(s.Achievements)
	return &c
}

// HasAchievement reports whether an achievement with the given id is unlocked.
func (s *Stats) HasAchievement(id string) bool {
	return slices.ContainsFunc(s.Achievements, func(a Achievement) bool { return a.ID == id })
}
