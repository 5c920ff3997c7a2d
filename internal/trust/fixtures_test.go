package trust

import "time"

var evalTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newUser() UserSignals {
	return UserSignals{
		EmailVerified: true,
		UserType:      UserTypeIndividual,
	}
}

func midTierUser() UserSignals {
	return UserSignals{
		EmailVerified:            true,
		PhoneVerified:            true,
		IdentityDocumentVerified: true,
		CompletedTransactions:    5,
		AverageRating:            4.2,
		ReviewCount:              8,
		AccountAgeDays:           60,
		UserType:                 UserTypeIndividual,
		Verified:                 true,
	}
}

func expertAgent() UserSignals {
	return UserSignals{
		EmailVerified:            true,
		PhoneVerified:            true,
		IdentityDocumentVerified: true,
		AddressProofVerified:     true,
		CompletedTransactions:    30,
		AverageRating:            4.8,
		ReviewCount:              45,
		AccountAgeDays:           200,
		UserType:                 UserTypeAgent,
		Verified:                 true,
	}
}

func enterpriseCompany() UserSignals {
	return UserSignals{
		EmailVerified:            true,
		PhoneVerified:            true,
		IdentityDocumentVerified: true,
		AddressProofVerified:     true,
		CompletedTransactions:    75,
		AverageRating:            4.9,
		ReviewCount:              120,
		AccountAgeDays:           365,
		UserType:                 UserTypeCompany,
		Verified:                 true,
	}
}

func premiumUntil(t time.Time) *time.Time {
	return &t
}
