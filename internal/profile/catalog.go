package profile

import "github.com/listinghub/listinghub/internal/trust"

// Descriptor is how a tier is presented to end users.
type Descriptor struct {
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
	Color    string   `json:"color"`
	Benefits []string `json:"benefits,omitempty"`
}

// Catalog maps tiers to their presentation.
type Catalog struct {
	membership map[trust.MembershipLevel]Descriptor
	experience map[trust.ExperienceLevel]Descriptor
}

// DefaultCatalog returns the descriptors shipped with the marketplace.
func DefaultCatalog() Catalog {
	return Catalog{
		membership: map[trust.MembershipLevel]Descriptor{
			trust.MembershipBasic: {
				Label: "Basic", Icon: "user", Color: "gray",
				Benefits: []string{"Publish listings", "Message buyers"},
			},
			trust.MembershipPremium: {
				Label: "Premium", Icon: "star", Color: "blue",
				Benefits: []string{"Premium badge", "Priority in search results", "Extended listing photos"},
			},
			trust.MembershipVIP: {
				Label: "VIP", Icon: "crown", Color: "gold",
				Benefits: []string{"VIP badge", "Featured listings", "Dedicated support"},
			},
			trust.MembershipEnterprise: {
				Label: "Enterprise", Icon: "building", Color: "purple",
				Benefits: []string{"Enterprise badge", "Bulk listing tools", "Account manager", "Analytics dashboard"},
			},
		},
		experience: map[trust.ExperienceLevel]Descriptor{
			trust.ExperienceBeginner:     {Label: "Beginner", Icon: "seedling", Color: "green-light"},
			trust.ExperienceIntermediate: {Label: "Intermediate", Icon: "leaf", Color: "green"},
			trust.ExperienceAdvanced:     {Label: "Advanced", Icon: "tree", Color: "teal"},
			trust.ExperienceExpert:       {Label: "Expert", Icon: "trophy", Color: "orange"},
		},
	}
}

// Membership returns the descriptor for a membership tier. Unknown tiers
// are presented as basic.
func (c Catalog) Membership(level trust.MembershipLevel) Descriptor {
	if d, ok := c.membership[level]; ok {
		return d
	}
	return c.membership[trust.MembershipBasic]
}

// Experience returns the descriptor for an experience tier.
func (c Catalog) Experience(level trust.ExperienceLevel) Descriptor {
	if d, ok := c.experience[level]; ok {
		return d
	}
	return c.experience[trust.ExperienceBeginner]
}

// Tier is one entry of the public tier listing.
type Tier struct {
	Level      trust.MembershipLevel `json:"level"`
	Descriptor Descriptor            `json:"descriptor"`
	Criteria   []trust.Criterion     `json:"criteria"`
}

// Tiers lists every membership tier with its criteria, lowest first.
func (c Catalog) Tiers() []Tier {
	reqs := trust.MembershipRequirements()
	out := make([]Tier, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, Tier{Level: r.Level, Descriptor: c.Membership(r.Level), Criteria: r.Criteria})
	}
	return out
}
