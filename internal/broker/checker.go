package broker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mazen160/go-random"

	"github.com/freightwiz/loadscout/pkg/models"
)

// Checker looks up a broker's risk profile by MC number.
//
// This is a stub: no real FMCSA or factoring integration exists yet, so the
// report is randomized. The risk-derivation rules are real and shared with
// whatever data source eventually replaces the randomness.
type Checker struct {
	logger *slog.Logger
}

var (
	safetyRatings    = []string{"Satisfactory", "Conditional", "Unsatisfactory", "Not Rated"}
	factoringRatings = []string{"Excellent", "Good", "Fair", "Poor", "Unknown"}
)

// NewChecker creates a new broker checker
func NewChecker(logger *slog.Logger) *Checker {
	return &Checker{logger: logger.With("component", "broker_checker")}
}

// Check builds a risk report for the given MC number.
func (c *Checker) Check(ctx context.Context, mc string) (*models.BrokerReport, error) {
	mc = strings.TrimSpace(mc)
	if mc == "" {
		return nil, fmt.Errorf("mc number is required")
	}

	scamReports, err := random.IntRange(0, 6)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}
	daysInBusiness, err := random.IntRange(30, 3630)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}
	activeRoll, err := random.IntRange(0, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}
	safety, err := pick(safetyRatings)
	if err != nil {
		return nil, err
	}
	factoring, err := pick(factoringRatings)
	if err != nil {
		return nil, err
	}

	report := &models.BrokerReport{
		MCNumber:        mc,
		CompanyName:     companyName(mc),
		IsActive:        activeRoll > 0,
		SafetyRating:    safety,
		ScamReports:     scamReports,
		FactoringRating: factoring,
		DaysInBusiness:  daysInBusiness,
		RiskLevel:       DeriveRisk(scamReports, daysInBusiness, safety),
	}

	c.logger.Debug("broker report generated", "mc", mc, "risk", report.RiskLevel)
	return report, nil
}

// DeriveRisk classifies a broker from its report facts.
func DeriveRisk(scamReports, daysInBusiness int, safetyRating string) models.RiskLevel {
	switch {
	case scamReports > 2 || safetyRating == "Unsatisfactory":
		return models.RiskHigh
	case scamReports > 0 || daysInBusiness < 180:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func companyName(mc string) string {
	suffix := mc
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return "Transport Co " + suffix
}

func pick(options []string) (string, error) {
	i, err := random.IntRange(0, len(options))
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}
	return options[i], nil
}
