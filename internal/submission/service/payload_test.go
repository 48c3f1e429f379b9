package service

import (
	"testing"
	"time"

	"leadrouting_backend/internal/category"
	leadsrepo "leadrouting_backend/internal/leads/repository"
)

func testProfile(issues ...string) *leadsrepo.LeadProfile {
	return &leadsrepo.LeadProfile{
		ReportID:      "rpt-1001",
		HomeownerName: "Dana Whitfield",
		Email:         "dana@example.com",
		Phone:         "+15125550147",
		AddressLine:   "418 Pecan Hollow Dr",
		City:          "Austin",
		Region:        "TX",
		PostalCode:    "78745",
		Issues:        issues,
	}
}

func TestBuildPayloadBaseFields(t *testing.T) {
	payload := BuildPayload("inspection_report", testProfile(), category.PestControl)

	if payload.LeadSource != "inspection_report" {
		t.Errorf("leadSource = %q", payload.LeadSource)
	}
	if payload.ReportID != "rpt-1001" {
		t.Errorf("reportId = %q", payload.ReportID)
	}
	if payload.CategoryKey != "pest_control" {
		t.Errorf("categoryKey = %q", payload.CategoryKey)
	}
	if payload.Homeowner.Email != "dana@example.com" {
		t.Errorf("homeowner email = %q", payload.Homeowner.Email)
	}
	if payload.Property.Region != "TX" {
		t.Errorf("property region = %q", payload.Property.Region)
	}
	if payload.Solar != nil || payload.HomeWarranty != nil {
		t.Error("pest control payload should carry no extensions")
	}
}

func TestBuildPayloadSolarExtension(t *testing.T) {
	tests := []struct {
		name   string
		issues []string
		want   string
	}{
		{"clean roof", nil, "good"},
		{"one finding", []string{"Shingles curling at ridge"}, "fair"},
		{"many findings", []string{
			"Shingles curling at ridge",
			"Roof flashing lifted at chimney",
			"Roof decking soft near vent",
		}, "poor"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := BuildPayload("inspection_report", testProfile(tc.issues...), category.Solar)
			if payload.Solar == nil {
				t.Fatal("solar payload missing extension")
			}
			if payload.Solar.RoofCondition != tc.want {
				t.Errorf("roofCondition = %q, want %q", payload.Solar.RoofCondition, tc.want)
			}
		})
	}
}

func TestBuildPayloadWarrantyExtension(t *testing.T) {
	payload := BuildPayload("inspection_report", testProfile(
		"Furnace beyond service life",
		"Water heater TPR valve corroded",
		"HVAC condensate line clogged",
	), category.HomeWarranty)

	if payload.HomeWarranty == nil {
		t.Fatal("home warranty payload missing extension")
	}

	got := payload.HomeWarranty.AffectedSystems
	want := []string{"hvac", "water_heater"}
	if len(got) != len(want) {
		t.Fatalf("affectedSystems = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("affectedSystems[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPayoutDueDate(t *testing.T) {
	sent := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	due := payoutDueDate(sent, 30)
	if due == nil {
		t.Fatal("expected a due date for net-30")
	}
	want := time.Date(2026, 4, 9, 23, 59, 59, 0, time.UTC)
	if !due.Equal(want) {
		t.Errorf("due = %v, want %v", due, want)
	}

	if payoutDueDate(sent, 0) != nil {
		t.Error("net-0 partners should have no payout due date")
	}
}
