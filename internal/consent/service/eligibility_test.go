package service

import (
	"testing"

	"leadrouting_backend/internal/consent/repository"
)

func consent(channel repository.Channel, revoked bool) *repository.Consent {
	return &repository.Consent{Channel: channel, Revoked: revoked}
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name     string
		consents []*repository.Consent
		want     bool
	}{
		{"no consents", nil, false},
		{"email only", []*repository.Consent{consent(repository.ChannelEmail, false)}, true},
		{"revoked email", []*repository.Consent{consent(repository.ChannelEmail, true)}, false},
		{"phone only", []*repository.Consent{consent(repository.ChannelPhone, false)}, false},
		{"sms only", []*repository.Consent{consent(repository.ChannelSMS, false)}, false},
		{"phone and sms", []*repository.Consent{
			consent(repository.ChannelPhone, false),
			consent(repository.ChannelSMS, false),
		}, true},
		{"phone active, sms revoked", []*repository.Consent{
			consent(repository.ChannelPhone, false),
			consent(repository.ChannelSMS, true),
		}, false},
		{"revoked email but active phone and sms", []*repository.Consent{
			consent(repository.ChannelEmail, true),
			consent(repository.ChannelPhone, false),
			consent(repository.ChannelSMS, false),
		}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Eligible(tc.consents); got != tc.want {
				t.Errorf("Eligible() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDeriveFlagsInterestLocksOnAnyRecord(t *testing.T) {
	flags := DeriveFlags(nil)
	if !flags.CanEditInterest {
		t.Error("interest should be editable with no consents")
	}

	// A revoked consent still counts as a record: interest stays locked.
	flags = DeriveFlags([]*repository.Consent{consent(repository.ChannelEmail, true)})
	if flags.CanEditInterest {
		t.Error("interest should lock once any consent exists, revoked or not")
	}
}

func TestDeriveFlagsPartnerLock(t *testing.T) {
	// Email consent alone does not lock the partner choice.
	flags := DeriveFlags([]*repository.Consent{consent(repository.ChannelEmail, false)})
	if !flags.CanChangePartner {
		t.Error("email consent alone should not lock partner choice")
	}

	// Active phone consent locks it.
	flags = DeriveFlags([]*repository.Consent{consent(repository.ChannelPhone, false)})
	if flags.CanChangePartner {
		t.Error("active phone consent should lock partner choice")
	}

	// Active sms consent locks it.
	flags = DeriveFlags([]*repository.Consent{consent(repository.ChannelSMS, false)})
	if flags.CanChangePartner {
		t.Error("active sms consent should lock partner choice")
	}

	// Revoking the phone/sms consents unlocks it again.
	flags = DeriveFlags([]*repository.Consent{
		consent(repository.ChannelPhone, true),
		consent(repository.ChannelSMS, true),
	})
	if !flags.CanChangePartner {
		t.Error("revoked phone/sms consents should not lock partner choice")
	}
}
