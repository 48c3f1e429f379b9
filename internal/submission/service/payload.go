package service

import (
	"strings"
	"time"

	"leadrouting_backend/internal/category"
	leadsrepo "leadrouting_backend/internal/leads/repository"
)

// LeadPayload is the wire format delivered to partner endpoints. The base
// fields are common to every category; Solar and HomeWarranty carry
// category-specific extensions derived from the inspection issues.
type LeadPayload struct {
	LeadSource    string            `json:"leadSource"`
	ReportID      string            `json:"reportId"`
	CategoryKey   string            `json:"categoryKey"`
	CategoryLabel string            `json:"categoryLabel"`
	Homeowner     HomeownerPayload  `json:"homeowner"`
	Property      PropertyPayload   `json:"property"`
	ClosingDate   *time.Time        `json:"closingDate,omitempty"`
	MatchedIssues []string          `json:"matchedIssues,omitempty"`
	Solar         *SolarExtension   `json:"solar,omitempty"`
	HomeWarranty  *WarrantyExtension `json:"homeWarranty,omitempty"`
}

type HomeownerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type PropertyPayload struct {
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	Region      string `json:"region"`
	PostalCode  string `json:"postalCode"`
}

// SolarExtension summarizes roof findings for solar installers.
type SolarExtension struct {
	RoofCondition string `json:"roofCondition"`
}

// WarrantyExtension lists the home systems the inspection flagged.
type WarrantyExtension struct {
	AffectedSystems []string `json:"affectedSystems"`
}

// BuildPayload assembles the delivery payload for one category from the lead
// profile.
func BuildPayload(sourceTag string, profile *leadsrepo.LeadProfile, key category.Key) LeadPayload {
	matched := category.MatchIssues(key, profile.Issues)

	payload := LeadPayload{
		LeadSource:    sourceTag,
		ReportID:      profile.ReportID,
		CategoryKey:   string(key),
		CategoryLabel: category.Label(key),
		Homeowner: HomeownerPayload{
			Name:  profile.HomeownerName,
			Email: profile.Email,
			Phone: profile.Phone,
		},
		Property: PropertyPayload{
			AddressLine: profile.AddressLine,
			City:        profile.City,
			Region:      profile.Region,
			PostalCode:  profile.PostalCode,
		},
		ClosingDate:   profile.ClosingDate,
		MatchedIssues: matched,
	}

	switch key {
	case category.Solar:
		payload.Solar = &SolarExtension{RoofCondition: roofCondition(matched)}
	case category.HomeWarranty:
		payload.HomeWarranty = &WarrantyExtension{AffectedSystems: affectedSystems(matched)}
	}
	return payload
}

// roofCondition collapses matched roof issues into a coarse condition grade.
func roofCondition(matched []string) string {
	if len(matched) == 0 {
		return "good"
	}
	if len(matched) >= 3 {
		return "poor"
	}
	return "fair"
}

// affectedSystems maps matched warranty issues onto the system names partners
// expect. Order follows the issue list; duplicates collapse.
func affectedSystems(matched []string) []string {
	systems := []struct {
		fragment string
		system   string
	}{
		{"hvac", "hvac"},
		{"furnace", "hvac"},
		{"air condition", "hvac"},
		{"water heater", "water_heater"},
		{"appliance", "appliances"},
		{"plumbing", "plumbing"},
		{"electrical", "electrical"},
	}

	seen := make(map[string]bool)
	var out []string
	for _, issue := range matched {
		lowered := strings.ToLower(issue)
		for _, m := range systems {
			if strings.Contains(lowered, m.fragment) && !seen[m.system] {
				seen[m.system] = true
				out = append(out, m.system)
			}
		}
	}
	return out
}
