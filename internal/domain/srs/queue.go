package srs

import (
	"sort"
	"time"
)

// Candidate is the slice of a flashcard the queue selector needs.
type Candidate struct {
	ID          int64
	PalaceID    int64
	FurnitureID int64
	NextReview  time.Time
}

// Scope narrows the candidate set to one palace and/or one piece of furniture.
// Nil fields do not filter.
type Scope struct {
	PalaceID    *int64
	FurnitureID *int64
}

func (s *Scope) contains(c Candidate) bool {
	if s == nil {
		return true
	}
	if s.PalaceID != nil && c.PalaceID != *s.PalaceID {
		return false
	}
	if s.FurnitureID != nil && c.FurnitureID != *s.FurnitureID {
		return false
	}
	return true
}

// SelectDue returns the IDs of the cards in scope whose next review is at or
// before now, earliest first with ties broken by ascending ID.
// The input slice is not modified.
func SelectDue(cards []Candidate, now time.Time, scope *Scope) []int64 {
	due := make([]Candidate, 0, len(cards))
	for _, c := range cards {
		if !scope.contains(c) {
			continue
		}
		if c.NextReview.After(now) {
			continue
		}
		due = append(due, c)
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReview.Equal(due[j].NextReview) {
			return due[i].NextReview.Before(due[j].NextReview)
		}
		return due[i].ID < due[j].ID
	})

	ids := make([]int64, len(due))
	for i, c := range due {
		ids[i] = c.ID
	}
	return ids
}
