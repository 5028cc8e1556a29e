package client

import (
	"time"

	id "bimadesk/pkg/domain"
	dErrors "bimadesk/pkg/domain-errors"
)

// Input is the write payload for both create and update. Pointer fields
// distinguish "not supplied" from "supplied empty" so partial updates can
// clear optional fields without touching the rest. Exactly one of the three
// detail payloads selects the variant on create.
type Input struct {
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	Email        *string `json:"email,omitempty"`
	Address      *string `json:"address,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	Pincode      *string `json:"pincode,omitempty"`
	PANNumber    *string `json:"panNumber,omitempty"`
	GSTNumber    *string `json:"gstNumber,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`

	Personal  *PersonalInput  `json:"personalDetails,omitempty"`
	Family    *FamilyInput    `json:"familyDetails,omitempty"`
	Corporate *CorporateInput `json:"corporateDetails,omitempty"`
}

type PersonalInput struct {
	MobileNumber  *string  `json:"mobileNumber,omitempty"`
	BirthDate     *string  `json:"birthDate,omitempty"`
	Gender        *string  `json:"gender,omitempty"`
	Height        *float64 `json:"height,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	Education     *string  `json:"education,omitempty"`
	MaritalStatus *string  `json:"maritalStatus,omitempty"`
	Occupation    *string  `json:"occupation,omitempty"`
	AnnualIncome  *float64 `json:"annualIncome,omitempty"`
}

type FamilyInput struct {
	PhoneNumber    *string  `json:"phoneNumber,omitempty"`
	WhatsappNumber *string  `json:"whatsappNumber,omitempty"`
	DateOfBirth    *string  `json:"dateOfBirth,omitempty"`
	Relationship   *string  `json:"relationship,omitempty"`
	Gender         *string  `json:"gender,omitempty"`
	Height         *float64 `json:"height,omitempty"`
	Weight         *float64 `json:"weight,omitempty"`
}

type CorporateInput struct {
	CompanyName       *string  `json:"companyName,omitempty"`
	ContactMobile     *string  `json:"contactMobile,omitempty"`
	ContactEmail      *string  `json:"contactEmail,omitempty"`
	RegisteredAddress *string  `json:"registeredAddress,omitempty"`
	AnnualIncome      *float64 `json:"annualIncome,omitempty"`
}

// SelectVariant resolves the variant a create payload asks for. Zero detail
// payloads is MISSING_VARIANT, more than one is AMBIGUOUS_VARIANT.
func (in *Input) SelectVariant() (Variant, *dErrors.FieldViolation) {
	var selected Variant
	count := 0
	if in.Personal != nil {
		selected = VariantPersonal
		count++
	}
	if in.Family != nil {
		selected = VariantFamilyEmployee
		count++
	}
	if in.Corporate != nil {
		selected = VariantCorporate
		count++
	}
	switch count {
	case 0:
		return "", &dErrors.FieldViolation{Reason: dErrors.ReasonMissingVariant}
	case 1:
		return selected, nil
	default:
		return "", &dErrors.FieldViolation{Reason: dErrors.ReasonAmbiguousVariant}
	}
}

// SwitchesVariant reports whether an update payload supplies a detail record
// of a different kind than the one attached. The variant is fixed at creation
// time, so any such payload is rejected outright.
func (in *Input) SwitchesVariant(current Variant) bool {
	if in.Personal != nil && current != VariantPersonal {
		return true
	}
	if in.Family != nil && current != VariantFamilyEmployee {
		return true
	}
	if in.Corporate != nil && current != VariantCorporate {
		return true
	}
	return false
}

// NewClient builds a fresh aggregate from a create payload. Variant selection
// must already have succeeded; validation happens afterwards on the flattened
// record.
func NewClient(clientID id.ClientID, in *Input, now time.Time) *Client {
	c := &Client{ID: clientID, CreatedAt: now, UpdatedAt: now}
	switch {
	case in.Personal != nil:
		c.Details = &PersonalDetails{}
	case in.Family != nil:
		c.Details = &FamilyDetails{}
	case in.Corporate != nil:
		c.Details = &CorporateDetails{}
	}
	in.Apply(c)
	return c
}

// Apply merges the supplied fields over the aggregate and returns the set of
// flat field names that were supplied, which the update path feeds to
// ValidatePartial and the create path ignores.
func (in *Input) Apply(c *Client) map[string]bool {
	supplied := make(map[string]bool)
	setString(&c.FirstName, in.FirstName, "firstName", supplied)
	setString(&c.LastName, in.LastName, "lastName", supplied)
	setString(&c.Email, in.Email, "email", supplied)
	setString(&c.Address, in.Address, "address", supplied)
	setString(&c.City, in.City, "city", supplied)
	setString(&c.State, in.State, "state", supplied)
	setString(&c.Pincode, in.Pincode, "pincode", supplied)
	setString(&c.PANNumber, in.PANNumber, "panNumber", supplied)
	setString(&c.GSTNumber, in.GSTNumber, "gstNumber", supplied)
	setString(&c.ProfileImage, in.ProfileImage, "profileImage", supplied)

	switch d := c.Details.(type) {
	case *PersonalDetails:
		if p := in.Personal; p != nil {
			setString(&d.MobileNumber, p.MobileNumber, "mobileNumber", supplied)
			setString(&d.BirthDate, p.BirthDate, "birthDate", supplied)
			setString(&d.Gender, p.Gender, "gender", supplied)
			setFloat(&d.Height, p.Height, "height", supplied)
			setFloat(&d.Weight, p.Weight, "weight", supplied)
			setString(&d.Education, p.Education, "education", supplied)
			setString(&d.MaritalStatus, p.MaritalStatus, "maritalStatus", supplied)
			setString(&d.Occupation, p.Occupation, "occupation", supplied)
			setFloat(&d.AnnualIncome, p.AnnualIncome, "annualIncome", supplied)
		}
	case *FamilyDetails:
		if f := in.Family; f != nil {
			setString(&d.PhoneNumber, f.PhoneNumber, "phoneNumber", supplied)
			setString(&d.WhatsappNumber, f.WhatsappNumber, "whatsappNumber", supplied)
			setString(&d.DateOfBirth, f.DateOfBirth, "dateOfBirth", supplied)
			if f.Relationship != nil {
				d.Relationship = Relationship(*f.Relationship)
				supplied["relationship"] = true
			}
			setString(&d.Gender, f.Gender, "gender", supplied)
			setFloat(&d.Height, f.Height, "height", supplied)
			setFloat(&d.Weight, f.Weight, "weight", supplied)
		}
	case *CorporateDetails:
		if co := in.Corporate; co != nil {
			setString(&d.CompanyName, co.CompanyName, "companyName", supplied)
			setString(&d.ContactMobile, co.ContactMobile, "contactMobile", supplied)
			setString(&d.ContactEmail, co.ContactEmail, "contactEmail", supplied)
			setString(&d.RegisteredAddress, co.RegisteredAddress, "registeredAddress", supplied)
			setFloat(&d.AnnualIncome, co.AnnualIncome, "annualIncome", supplied)
		}
	}
	return supplied
}

func setString(dst *string, src *string, name string, supplied map[string]bool) {
	if src != nil {
		*dst = *src
		supplied[name] = true
	}
}

func setFloat(dst **float64, src *float64, name string, supplied map[string]bool) {
	if src != nil {
		v := *src
		*dst = &v
		supplied[name] = true
	}
}
