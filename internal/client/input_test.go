package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "bimadesk/pkg/domain"
	dErrors "bimadesk/pkg/domain-errors"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestSelectVariant(t *testing.T) {
	t.Run("personal", func(t *testing.T) {
		in := &Input{Personal: &PersonalInput{}}
		v, violation := in.SelectVariant()
		require.Nil(t, violation)
		assert.Equal(t, VariantPersonal, v)
	})

	t.Run("no detail payload", func(t *testing.T) {
		in := &Input{FirstName: strPtr("Ravi")}
		_, violation := in.SelectVariant()
		require.NotNil(t, violation)
		assert.Equal(t, dErrors.ReasonMissingVariant, violation.Reason)
	})

	t.Run("two detail payloads", func(t *testing.T) {
		in := &Input{Personal: &PersonalInput{}, Corporate: &CorporateInput{}}
		_, violation := in.SelectVariant()
		require.NotNil(t, violation)
		assert.Equal(t, dErrors.ReasonAmbiguousVariant, violation.Reason)
	})
}

func TestIsValidVariant(t *testing.T) {
	for _, v := range []Variant{VariantPersonal, VariantFamilyEmployee, VariantCorporate} {
		assert.True(t, IsValidVariant(v))
	}
	assert.False(t, IsValidVariant(""))
	assert.False(t, IsValidVariant("personal"))
	assert.False(t, IsValidVariant("TRUST"))
}

func TestSwitchesVariant(t *testing.T) {
	update := &Input{Family: &FamilyInput{Gender: strPtr("F")}}
	assert.True(t, update.SwitchesVariant(VariantPersonal))
	assert.False(t, update.SwitchesVariant(VariantFamilyEmployee))

	sharedOnly := &Input{City: strPtr("Pune")}
	assert.False(t, sharedOnly.SwitchesVariant(VariantPersonal))
	assert.False(t, sharedOnly.SwitchesVariant(VariantCorporate))
}

func TestNewClientAndFlatten(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	in := &Input{
		FirstName: strPtr("Ravi"),
		LastName:  strPtr("Kumar"),
		PANNumber: strPtr("ABCDE1234F"),
		Personal: &PersonalInput{
			MobileNumber: strPtr("9876543210"),
			BirthDate:    strPtr("1988-11-02"),
			Height:       floatPtr(172.5),
		},
	}

	c := NewClient(id.NewClientID(), in, now)
	require.Equal(t, VariantPersonal, c.Variant())
	assert.Equal(t, now, c.CreatedAt)
	assert.Equal(t, now, c.UpdatedAt)

	flat := c.Flatten()
	assert.Equal(t, "Ravi", flat["firstName"])
	assert.Equal(t, "9876543210", flat["mobileNumber"])
	assert.Equal(t, "172.5", flat["height"])
	assert.Equal(t, "", flat["weight"], "absent optional fields flatten to empty")
	assert.Equal(t, "", flat["email"])

	// Every registered field name is present in the flat map.
	for _, name := range FieldNames(VariantPersonal) {
		_, ok := flat[name]
		assert.True(t, ok, "missing field %q", name)
	}
}

func TestApplyReportsSuppliedFields(t *testing.T) {
	c := &Client{Details: &FamilyDetails{PhoneNumber: "9123456780"}}
	in := &Input{
		City: strPtr("Nagpur"),
		Family: &FamilyInput{
			WhatsappNumber: strPtr("9123456780"),
			Relationship:   strPtr("SPOUSE"),
		},
	}

	supplied := in.Apply(c)
	assert.Equal(t, map[string]bool{
		"city":           true,
		"whatsappNumber": true,
		"relationship":   true,
	}, supplied)
	assert.Equal(t, "Nagpur", c.City)

	fd := c.Details.(*FamilyDetails)
	assert.Equal(t, "9123456780", fd.WhatsappNumber)
	assert.Equal(t, RelationshipSpouse, fd.Relationship)
	assert.Equal(t, "9123456780", fd.PhoneNumber, "untouched fields keep their value")
}

func TestApplyCanClearOptionalField(t *testing.T) {
	c := &Client{Email: "old@example.com", Details: &CorporateDetails{CompanyName: "Acme"}}
	supplied := (&Input{Email: strPtr("")}).Apply(c)
	assert.True(t, supplied["email"])
	assert.Equal(t, "", c.Email)
}

func TestCloneIsDeep(t *testing.T) {
	c := &Client{
		FirstName: "Ravi",
		Details: &PersonalDetails{
			MobileNumber: "9876543210",
			Height:       floatPtr(172.5),
		},
	}
	clone := c.Clone()

	clone.FirstName = "Changed"
	clone.Details.(*PersonalDetails).MobileNumber = "9000000000"
	*clone.Details.(*PersonalDetails).Height = 180

	assert.Equal(t, "Ravi", c.FirstName)
	assert.Equal(t, "9876543210", c.Details.(*PersonalDetails).MobileNumber)
	assert.Equal(t, 172.5, *c.Details.(*PersonalDetails).Height)
}
