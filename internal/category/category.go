// Package category defines the closed set of service categories a lead can be
// routed into, plus the keyword tables used to match inspection issues to a
// category. The set is fixed: seeding, eligibility, and the portal UI all
// iterate the same list, and a matrix row exists for every key.
package category

import "strings"

// Key identifies a service category.
type Key string

const (
	UtilityConnect     Key = "utility_connect"
	InternetCablePhone Key = "internet_cable_phone"
	HomeWarranty       Key = "home_warranty"
	HomeSecurity       Key = "home_security"
	InsuranceHomeAuto  Key = "insurance_home_auto"
	InsuranceLife      Key = "insurance_life"
	Solar              Key = "solar"
	EVCharger          Key = "ev_charger"
	PestControl        Key = "pest_control"
	MovingCompanies    Key = "moving_companies"
	CleaningServices   Key = "cleaning_services"
	LawnService        Key = "lawn_service"
)

// all is ordered; seeding and UI listings follow this order.
var all = []Key{
	UtilityConnect,
	InternetCablePhone,
	HomeWarranty,
	HomeSecurity,
	InsuranceHomeAuto,
	InsuranceLife,
	Solar,
	EVCharger,
	PestControl,
	MovingCompanies,
	CleaningServices,
	LawnService,
}

var labels = map[Key]string{
	UtilityConnect:     "Utility Connection",
	InternetCablePhone: "Internet, Cable & Phone",
	HomeWarranty:       "Home Warranty",
	HomeSecurity:       "Home Security",
	InsuranceHomeAuto:  "Home & Auto Insurance",
	InsuranceLife:      "Life Insurance",
	Solar:              "Solar",
	EVCharger:          "EV Charger",
	PestControl:        "Pest Control",
	MovingCompanies:    "Moving Companies",
	CleaningServices:   "Cleaning Services",
	LawnService:        "Lawn Service",
}

// issueKeywords maps each category to the lowercase keyword fragments used to
// select relevant inspection issues for a partner payload. Categories with no
// entry receive no issue context (e.g. life insurance, moving).
var issueKeywords = map[Key][]string{
	UtilityConnect:     {"utility", "meter", "gas line", "service entrance"},
	InternetCablePhone: {"coax", "cable", "phone jack", "network"},
	HomeWarranty:       {"hvac", "furnace", "air condition", "water heater", "appliance", "plumbing", "electrical"},
	HomeSecurity:       {"alarm", "smoke detector", "carbon monoxide", "door lock", "window lock"},
	InsuranceHomeAuto:  {"roof", "foundation", "water damage", "hail", "wind damage"},
	Solar:              {"roof", "shingle", "flashing", "solar"},
	EVCharger:          {"electrical panel", "breaker", "garage", "240v"},
	PestControl:        {"termite", "pest", "rodent", "insect", "wood destroying", "ant"},
	CleaningServices:   {"mold", "mildew", "stain", "debris"},
	LawnService:        {"grading", "drainage", "vegetation", "landscap", "tree limb"},
}

// All returns every category key in canonical order.
func All() []Key {
	keys := make([]Key, len(all))
	copy(keys, all)
	return keys
}

// IsValid reports whether key names a known category.
func IsValid(key Key) bool {
	_, ok := labels[key]
	return ok
}

// Label returns the display label for a category, or the raw key for unknown input.
func Label(key Key) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return string(key)
}

// Keywords returns the issue keyword fragments for a category.
// Returns nil for categories without issue context.
func Keywords(key Key) []string {
	return issueKeywords[key]
}

// MatchIssues filters issue titles down to those containing at least one of
// the category's keywords (case-insensitive substring match). Categories with
// no keyword table match nothing.
func MatchIssues(key Key, issues []string) []string {
	keywords := issueKeywords[key]
	if len(keywords) == 0 {
		return nil
	}

	matched := make([]string, 0)
	for _, issue := range issues {
		lowered := strings.ToLower(issue)
		for _, keyword := range keywords {
			if strings.Contains(lowered, keyword) {
				matched = append(matched, issue)
				break
			}
		}
	}
	return matched
}
