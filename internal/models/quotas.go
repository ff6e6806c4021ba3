package models

import (
	"strings"
	"time"
)

// ComplexityTier is the heuristic scope classification of a project
type ComplexityTier string

const (
	TierLow    ComplexityTier = "low"
	TierMedium ComplexityTier = "medium"
	TierHigh   ComplexityTier = "high"
)

// Upper returns the tier in upper case, as it appears in prompts
func (t ComplexityTier) Upper() string {
	return strings.ToUpper(string(t))
}

// Quotas are the task counts derived for one planning request
type Quotas struct {
	DurationDays   int     `json:"durationDays"`
	NumSprints     int     `json:"numSprints"`
	TeamFactor     float64 `json:"teamFactor"`
	TasksPerSprint int     `json:"tasksPerSprint"`
	TotalTasks     int     `json:"totalTasks"`
	MainTasks      int     `json:"mainTasks"`
	SubTasks       int     `json:"subTasks"`
}

// BalanceReport describes the sprint loads around a rebalancing pass
type BalanceReport struct {
	Target         int   `json:"target"`
	QuotaTarget    int   `json:"quotaTarget"`
	Tolerance      int   `json:"tolerance"`
	CountsBefore   []int `json:"countsBefore"`
	CountsAfter    []int `json:"countsAfter"`
	FamiliesMoved  int   `json:"familiesMoved"`
	TasksMoved     int   `json:"tasksMoved"`
	Overflowing    []int `json:"overflowing"`
	Underflowing   []int `json:"underflowing"`
	ReachedBalance bool  `json:"reachedBalance"`
}

// PlanResult is the saved output of a planning run
type PlanResult struct {
	Project     ProjectData    `json:"project"`
	ProjectKey  string         `json:"projectKey"`
	Tier        ComplexityTier `json:"tier"`
	Quotas      Quotas         `json:"quotas"`
	Plan        Plan           `json:"plan"`
	Report      BalanceReport  `json:"report"`
	GeneratedAt time.Time      `json:"generatedAt"`

	// RawResponse is the unprocessed generator text
	RawResponse string `json:"-"`
}
