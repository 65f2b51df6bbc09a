package valueobjects

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var priorityRank = map[Priority]int{
	PriorityLow:    1,
	PriorityNormal: 2,
	PriorityHigh:   3,
	PriorityUrgent: 4,
}

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Rank orders priorities from low (1) to urgent (4). Invalid values rank 0.
func (p Priority) Rank() int {
	return priorityRank[p]
}

func NewPriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}
