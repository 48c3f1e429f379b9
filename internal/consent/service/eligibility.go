package service

import "leadrouting_backend/internal/consent/repository"

// Flags are the derived consent flags for one (report, category) pair. The
// portal uses them to decide which matrix controls stay editable.
type Flags struct {
	Eligible         bool
	CanEditInterest  bool
	CanChangePartner bool
}

// HasActive reports whether any non-revoked consent exists for the channel.
func HasActive(consents []*repository.Consent, channel repository.Channel) bool {
	for _, c := range consents {
		if !c.Revoked && c.Channel == channel {
			return true
		}
	}
	return false
}

// Eligible reports whether the consents permit submitting the lead: either a
// non-revoked email consent, or non-revoked phone AND sms consents together.
func Eligible(consents []*repository.Consent) bool {
	if HasActive(consents, repository.ChannelEmail) {
		return true
	}
	return HasActive(consents, repository.ChannelPhone) && HasActive(consents, repository.ChannelSMS)
}

// DeriveFlags computes the full flag set for one (report, category).
//
// Interest is editable only while no consent has ever been recorded, revoked
// rows included: once the homeowner has signed anything, the choice is on
// record. Partner choice locks on active phone or sms consent only; an email
// consent alone does not lock it.
func DeriveFlags(consents []*repository.Consent) Flags {
	return Flags{
		Eligible:         Eligible(consents),
		CanEditInterest:  len(consents) == 0,
		CanChangePartner: !HasActive(consents, repository.ChannelPhone) && !HasActive(consents, repository.ChannelSMS),
	}
}
