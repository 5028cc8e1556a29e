package client

import "regexp"

// Format validators are optional-field-aware: an absent value always passes,
// required-ness is enforced separately by the variant rules. Patterns follow
// the Indian conventions this CRM operates under.
var (
	// 10-digit mobile, first digit 6-9.
	phonePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	// PAN: 5 letters, 4 digits, 1 letter.
	panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	// GSTIN: 2-digit state code, embedded PAN, entity digit, 'Z', checksum.
	gstPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	// local@domain.tld shape, nothing fancier.
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidatePhone accepts an empty value or a 10-digit Indian mobile number.
func ValidatePhone(value string) bool {
	return value == "" || phonePattern.MatchString(value)
}

// ValidatePAN accepts an empty value or a well-formed PAN.
func ValidatePAN(value string) bool {
	return value == "" || panPattern.MatchString(value)
}

// ValidateGST accepts an empty value or a well-formed GSTIN.
func ValidateGST(value string) bool {
	return value == "" || gstPattern.MatchString(value)
}

// ValidateEmail accepts an empty value or a local@domain.tld address.
func ValidateEmail(value string) bool {
	return value == "" || emailPattern.MatchString(value)
}

var knownRelationships = map[Relationship]bool{
	RelationshipSpouse:    true,
	RelationshipChild:     true,
	RelationshipParent:    true,
	RelationshipSibling:   true,
	RelationshipEmployee:  true,
	RelationshipDependent: true,
	RelationshipOther:     true,
}

// ValidateRelationship accepts an empty value or one of the declared
// relationship tags. Membership is exact: tags are stored uppercase.
func ValidateRelationship(value string) bool {
	return value == "" || knownRelationships[Relationship(value)]
}
