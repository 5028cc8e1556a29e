// Package client holds the polymorphic client aggregate: one root record plus
// exactly one variant-specific detail record, with the field registry,
// cross-variant validation rules and the field-level diff engine built on it.
package client

import (
	"time"

	id "bimadesk/pkg/domain"
)

// Variant is the discriminator for the three mutually exclusive client kinds.
type Variant string

const (
	VariantPersonal       Variant = "PERSONAL"
	VariantFamilyEmployee Variant = "FAMILY_EMPLOYEE"
	VariantCorporate      Variant = "CORPORATE"
)

// IsValidVariant reports whether tag names a known variant.
func IsValidVariant(tag Variant) bool {
	switch tag {
	case VariantPersonal, VariantFamilyEmployee, VariantCorporate:
		return true
	}
	return false
}

// Relationship enumerates how a family/employee client relates to the primary
// policy holder.
type Relationship string

const (
	RelationshipSpouse    Relationship = "SPOUSE"
	RelationshipChild     Relationship = "CHILD"
	RelationshipParent    Relationship = "PARENT"
	RelationshipSibling   Relationship = "SIBLING"
	RelationshipEmployee  Relationship = "EMPLOYEE"
	RelationshipDependent Relationship = "DEPENDENT"
	RelationshipOther     Relationship = "OTHER"
)

// Details is the sealed union of variant-specific detail records. Exactly one
// implementation is attached to a Client at any time; attaching a second kind
// requires detaching the first, which ordinary updates never do.
type Details interface {
	Variant() Variant
	clone() Details
}

// PersonalDetails backs a PERSONAL client. MobileNumber and BirthDate are
// mandatory; everything else is optional demographic/financial data.
type PersonalDetails struct {
	MobileNumber  string
	BirthDate     string // canonical YYYY-MM-DD
	Gender        string
	Height        *float64
	Weight        *float64
	Education     string
	MaritalStatus string
	Occupation    string
	AnnualIncome  *float64
}

func (*PersonalDetails) Variant() Variant { return VariantPersonal }

func (d *PersonalDetails) clone() Details {
	c := *d
	c.Height = cloneFloat(d.Height)
	c.Weight = cloneFloat(d.Weight)
	c.AnnualIncome = cloneFloat(d.AnnualIncome)
	return &c
}

// FamilyDetails backs a FAMILY_EMPLOYEE client. PhoneNumber, WhatsappNumber
// and DateOfBirth are mandatory.
type FamilyDetails struct {
	PhoneNumber    string
	WhatsappNumber string
	DateOfBirth    string // canonical YYYY-MM-DD
	Relationship   Relationship
	Gender         string
	Height         *float64
	Weight         *float64
}

func (*FamilyDetails) Variant() Variant { return VariantFamilyEmployee }

func (d *FamilyDetails) clone() Details {
	c := *d
	c.Height = cloneFloat(d.Height)
	c.Weight = cloneFloat(d.Weight)
	return &c
}

// CorporateDetails backs a CORPORATE client. CompanyName is mandatory.
type CorporateDetails struct {
	CompanyName       string
	ContactMobile     string
	ContactEmail      string
	RegisteredAddress string
	AnnualIncome      *float64
}

func (*CorporateDetails) Variant() Variant { return VariantCorporate }

func (d *CorporateDetails) clone() Details {
	c := *d
	c.AnnualIncome = cloneFloat(d.AnnualIncome)
	return &c
}

// Client is the aggregate root. Shared fields are optional for every variant;
// the attached Details record carries the variant's mandatory contract.
//
// Invariants:
//   - Details is non-nil once the aggregate is constructed
//   - the Details kind never changes after creation (variant immutability)
//   - UpdatedAt only moves when a mutation actually changed a field
type Client struct {
	ID           id.ClientID
	FirstName    string
	LastName     string
	Email        string
	Address      string
	City         string
	State        string
	Pincode      string
	PANNumber    string
	GSTNumber    string
	ProfileImage string
	Details      Details
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Variant returns the discriminator of the attached detail record.
func (c *Client) Variant() Variant {
	if c.Details == nil {
		return ""
	}
	return c.Details.Variant()
}

// Clone returns a deep copy so update merging never mutates the loaded
// snapshot the diff is computed against.
func (c *Client) Clone() *Client {
	cp := *c
	if c.Details != nil {
		cp.Details = c.Details.clone()
	}
	return &cp
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
