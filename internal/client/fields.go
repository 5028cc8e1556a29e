package client

import "strconv"

// FieldDef binds a flat field name to its canonical string serialization.
// The registry is explicit rather than reflective so the diff engine and the
// audit recorder never depend on runtime type inspection, and so field order
// is fixed: shared fields first, then the variant's declared fields.
type FieldDef struct {
	Name string
	Get  func(*Client) string
}

// Flat is the flattened representation used uniformly by validation, diffing
// and audit serialization. Absent fields serialize to "".
type Flat map[string]string

var sharedFields = []FieldDef{
	{"firstName", func(c *Client) string { return c.FirstName }},
	{"lastName", func(c *Client) string { return c.LastName }},
	{"email", func(c *Client) string { return c.Email }},
	{"address", func(c *Client) string { return c.Address }},
	{"city", func(c *Client) string { return c.City }},
	{"state", func(c *Client) string { return c.State }},
	{"pincode", func(c *Client) string { return c.Pincode }},
	{"panNumber", func(c *Client) string { return c.PANNumber }},
	{"gstNumber", func(c *Client) string { return c.GSTNumber }},
	{"profileImage", func(c *Client) string { return c.ProfileImage }},
}

var personalFields = []FieldDef{
	{"mobileNumber", personal(func(d *PersonalDetails) string { return d.MobileNumber })},
	{"birthDate", personal(func(d *PersonalDetails) string { return d.BirthDate })},
	{"gender", personal(func(d *PersonalDetails) string { return d.Gender })},
	{"height", personal(func(d *PersonalDetails) string { return formatFloat(d.Height) })},
	{"weight", personal(func(d *PersonalDetails) string { return formatFloat(d.Weight) })},
	{"education", personal(func(d *PersonalDetails) string { return d.Education })},
	{"maritalStatus", personal(func(d *PersonalDetails) string { return d.MaritalStatus })},
	{"occupation", personal(func(d *PersonalDetails) string { return d.Occupation })},
	{"annualIncome", personal(func(d *PersonalDetails) string { return formatFloat(d.AnnualIncome) })},
}

var familyFields = []FieldDef{
	{"phoneNumber", family(func(d *FamilyDetails) string { return d.PhoneNumber })},
	{"whatsappNumber", family(func(d *FamilyDetails) string { return d.WhatsappNumber })},
	{"dateOfBirth", family(func(d *FamilyDetails) string { return d.DateOfBirth })},
	{"relationship", family(func(d *FamilyDetails) string { return string(d.Relationship) })},
	{"gender", family(func(d *FamilyDetails) string { return d.Gender })},
	{"height", family(func(d *FamilyDetails) string { return formatFloat(d.Height) })},
	{"weight", family(func(d *FamilyDetails) string { return formatFloat(d.Weight) })},
}

var corporateFields = []FieldDef{
	{"companyName", corporate(func(d *CorporateDetails) string { return d.CompanyName })},
	{"contactMobile", corporate(func(d *CorporateDetails) string { return d.ContactMobile })},
	{"contactEmail", corporate(func(d *CorporateDetails) string { return d.ContactEmail })},
	{"registeredAddress", corporate(func(d *CorporateDetails) string { return d.RegisteredAddress })},
	{"annualIncome", corporate(func(d *CorporateDetails) string { return formatFloat(d.AnnualIncome) })},
}

// Fields returns the full declared field list for a variant, shared fields
// first. The switch is exhaustive over the Details union: adding a fourth
// variant means adding its arm here or every flatten/diff call fails loudly.
func Fields(v Variant) []FieldDef {
	var variant []FieldDef
	switch v {
	case VariantPersonal:
		variant = personalFields
	case VariantFamilyEmployee:
		variant = familyFields
	case VariantCorporate:
		variant = corporateFields
	default:
		return nil
	}
	out := make([]FieldDef, 0, len(sharedFields)+len(variant))
	out = append(out, sharedFields...)
	out = append(out, variant...)
	return out
}

// FieldNames returns the deterministic field ordering for a variant.
func FieldNames(v Variant) []string {
	defs := Fields(v)
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

// Flatten serializes the aggregate into its flat representation. Every
// declared field appears; absent values map to "".
func (c *Client) Flatten() Flat {
	defs := Fields(c.Variant())
	flat := make(Flat, len(defs))
	for _, d := range defs {
		flat[d.Name] = d.Get(c)
	}
	return flat
}

func personal(get func(*PersonalDetails) string) func(*Client) string {
	return func(c *Client) string {
		if d, ok := c.Details.(*PersonalDetails); ok {
			return get(d)
		}
		return ""
	}
}

func family(get func(*FamilyDetails) string) func(*Client) string {
	return func(c *Client) string {
		if d, ok := c.Details.(*FamilyDetails); ok {
			return get(d)
		}
		return ""
	}
}

func corporate(get func(*CorporateDetails) string) func(*Client) string {
	return func(c *Client) string {
		if d, ok := c.Details.(*CorporateDetails); ok {
			return get(d)
		}
		return ""
	}
}

// formatFloat keeps numeric serialization canonical so diffs are stable and
// human readable: no exponent form, no trailing zeros.
func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
