package client

import dErrors "bimadesk/pkg/domain-errors"

// variantRules is the static table mapping each variant to its mandatory
// field set. Optional fields are everything else the registry declares for
// the variant; they need no separate listing because required-ness is the
// only per-variant distinction the rules enforce.
var variantRules = map[Variant][]string{
	VariantPersonal:       {"mobileNumber", "birthDate"},
	VariantFamilyEmployee: {"phoneNumber", "whatsappNumber", "dateOfBirth"},
	VariantCorporate:      {"companyName"},
}

// formatChecks maps field names to their format validator and the violation
// reason reported on failure. Fields absent here are free-form.
var formatChecks = map[string]struct {
	valid  func(string) bool
	reason string
}{
	"mobileNumber":   {ValidatePhone, dErrors.ReasonInvalidPhone},
	"phoneNumber":    {ValidatePhone, dErrors.ReasonInvalidPhone},
	"whatsappNumber": {ValidatePhone, dErrors.ReasonInvalidPhone},
	"relationship":   {ValidateRelationship, dErrors.ReasonInvalidRelation},
	"contactMobile":  {ValidatePhone, dErrors.ReasonInvalidPhone},
	"panNumber":      {ValidatePAN, dErrors.ReasonInvalidPAN},
	"gstNumber":      {ValidateGST, dErrors.ReasonInvalidGST},
	"email":          {ValidateEmail, dErrors.ReasonInvalidEmail},
	"contactEmail":   {ValidateEmail, dErrors.ReasonInvalidEmail},
}

// RequiredFields returns the mandatory field names for a variant.
func RequiredFields(v Variant) []string {
	return variantRules[v]
}

// Validate checks a full flattened record against the variant's contract and
// returns every violation found: one MISSING_FIELD per absent required field
// and one format violation per present field that fails its validator. It
// never stops at the first error so callers can report the complete set.
func Validate(v Variant, flat Flat) []dErrors.FieldViolation {
	return validate(v, flat, nil)
}

// ValidatePartial is the update-path variant: required-field checks apply
// only to the fields being supplied (a partial payload must not be punished
// for omitting fields it does not touch, but clearing a mandatory field is
// still rejected). Format checks run on every present field of the merged
// record.
func ValidatePartial(v Variant, flat Flat, supplied map[string]bool) []dErrors.FieldViolation {
	return validate(v, flat, supplied)
}

func validate(v Variant, flat Flat, supplied map[string]bool) []dErrors.FieldViolation {
	var violations []dErrors.FieldViolation
	for _, name := range variantRules[v] {
		if supplied != nil && !supplied[name] {
			continue
		}
		if flat[name] == "" {
			violations = append(violations, dErrors.FieldViolation{
				Field:  name,
				Reason: dErrors.ReasonMissingField,
			})
		}
	}
	// Registry order keeps the reported set deterministic.
	for _, name := range FieldNames(v) {
		value := flat[name]
		if value == "" {
			continue
		}
		check, ok := formatChecks[name]
		if !ok {
			continue
		}
		if !check.valid(value) {
			violations = append(violations, dErrors.FieldViolation{
				Field:  name,
				Reason: check.reason,
			})
		}
	}
	return violations
}
