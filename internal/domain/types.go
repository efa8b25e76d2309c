package domain

import (
	"fmt"
	"strings"
	"time"
)

type BoardID string

type Timestamp = time.Time

// FocusArea steers the tone of a generated plan.
// Values are the labels sent to the model.
type FocusArea string

const (
	FocusBalanced   FocusArea = "Balanced"
	FocusBusiness   FocusArea = "사업 & 수익"
	FocusHealth     FocusArea = "건강 & 웰니스"
	FocusLearning   FocusArea = "학습 & 자기계발"
	FocusNetworking FocusArea = "네트워킹 & 브랜딩"
)

// FocusAreas lists every supported focus area in display order.
var FocusAreas = []FocusArea{
	FocusBalanced,
	FocusBusiness,
	FocusHealth,
	FocusLearning,
	FocusNetworking,
}

var focusAliases = map[string]FocusArea{
	"balanced":              FocusBalanced,
	"business":              FocusBusiness,
	"business & revenue":    FocusBusiness,
	"health":                FocusHealth,
	"health & wellness":     FocusHealth,
	"learning":              FocusLearning,
	"learning & growth":     FocusLearning,
	"networking":            FocusNetworking,
	"networking & branding": FocusNetworking,
}

// ParseFocusArea accepts the wire labels, the English labels and short aliases.
// An empty string means Balanced.
func ParseFocusArea(s string) (FocusArea, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FocusBalanced, nil
	}
	for _, fa := range FocusAreas {
		if s == string(fa) {
			return fa, nil
		}
	}
	if fa, ok := focusAliases[strings.ToLower(s)]; ok {
		return fa, nil
	}
	return "", fmt.Errorf("%w: unknown focus area %q", ErrInvalidInput, s)
}

// Valid reports whether f is one of FocusAreas.
func (f FocusArea) Valid() bool {
	for _, fa := range FocusAreas {
		if f == fa {
			return true
		}
	}
	return false
}

// BoardRecord is the persisted form of one board's state.
type BoardRecord struct {
	ID          BoardID       `json:"id"`
	Document    *PlanDocument `json:"document,omitempty"`
	FocusArea   FocusArea     `json:"focusArea"`
	CreatedAt   Timestamp     `json:"createdAt"`
	LastUpdated Timestamp     `json:"lastUpdated"`
}
