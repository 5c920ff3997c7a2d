package verification

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

const (
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Provider represents a connector to an external KYC vendor.
type Provider interface {
	CheckDocument(ctx context.Context, input DocumentSubmission) (Decision, error)
	CheckAddress(ctx context.Context, input AddressSubmission) (Decision, error)
}

// Decision captures the vendor's verdict.
type Decision struct {
	Reference string
	Status    string
	Reason    string
}

// Approved reports whether the vendor accepted the submission.
func (d Decision) Approved() bool {
	return d.Status == StatusApproved
}

// DocumentSubmission describes an identity document.
type DocumentSubmission struct {
	Kind    string
	Number  string
	Country string
}

// AddressSubmission describes a proof of address.
type AddressSubmission struct {
	Line1          string
	City           string
	Country        string
	ProofReference string
}

// StaticProvider approves any complete submission with a synthetic reference.
type StaticProvider struct{}

// CheckDocument approves documents with a known kind and a number.
func (StaticProvider) CheckDocument(_ context.Context, input DocumentSubmission) (Decision, error) {
	switch strings.ToLower(input.Kind) {
	case "passport", "national_id", "driver_license":
	default:
		return Decision{Reference: uuid.NewString(), Status: StatusRejected, Reason: "unsupported document kind"}, nil
	}
	if strings.TrimSpace(input.Number) == "" || strings.TrimSpace(input.Country) == "" {
		return Decision{Reference: uuid.NewString(), Status: StatusRejected, Reason: "incomplete document"}, nil
	}
	return Decision{Reference: uuid.NewString(), Status: StatusApproved}, nil
}

// CheckAddress approves addresses that carry every field.
func (StaticProvider) CheckAddress(_ context.Context, input AddressSubmission) (Decision, error) {
	for _, v := range []string{input.Line1, input.City, input.Country, input.ProofReference} {
		if strings.TrimSpace(v) == "" {
			return Decision{Reference: uuid.NewString(), Status: StatusRejected, Reason: "incomplete address"}, nil
		}
	}
	return Decision{Reference: uuid.NewString(), Status: StatusApproved}, nil
}
