package ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleForm = `FORM A - CLAIM FOR RIGHTS TO FOREST LAND
Applicant Name: Ramu Majhi
Father's Name: Budhu Majhi
Village: Salepali
District: Bargarh
State: Odisha
Occupation since: 1998-06-01
Aadhaar: 234567890123
PAN: ABCDE1234F
Phone: +91 94370 12345
Email: ward.officer@odisha.gov.in
Area claimed: 1.5 hectares
Resolution of the Gram Sabha dated 12/03/2023
Forwarded to the Sub Divisional Level Committee`

func TestExtractIdentifiers(t *testing.T) {
	set := Extract(sampleForm)

	assert.Equal(t, []string{"234567890123"}, set.Identifiers.NationalIDs)
	assert.Equal(t, []string{"ABCDE1234F"}, set.Identifiers.TaxIDs)
	assert.Equal(t, []string{"ward.officer@odisha.gov.in"}, set.Emails)
	assert.Contains(t, set.Phones, "+91 94370 12345")
}

func TestExtractPeopleAndPlaces(t *testing.T) {
	set := Extract(sampleForm)

	assert.Contains(t, set.People, "Ramu Majhi")
	assert.Contains(t, set.People, "Budhu Majhi")
	assert.Contains(t, set.Locations, "Salepali")
	assert.Contains(t, set.Locations, "Bargarh")
	assert.Contains(t, set.Locations, "Odisha")
}

func TestExtractDatesAndNumbers(t *testing.T) {
	set := Extract(sampleForm)

	assert.Contains(t, set.Dates, "1998-06-01")
	assert.Contains(t, set.Dates, "12/03/2023")
	assert.Contains(t, set.Numbers, "1.5")
	assert.NotContains(t, set.Numbers, "234567890123", "identity numbers are not plain numbers")
}

func TestExtractOrganizations(t *testing.T) {
	set := Extract(sampleForm)

	assert.NotEmpty(t, set.Organizations)
	found := false
	for _, org := range set.Organizations {
		if org == "Gram Sabha" || org == "Sub Divisional Level Committee" {
			found = true
		}
	}
	assert.True(t, found, "expected committee or sabha in %v", set.Organizations)
}

func TestThirteenDigitRunIsNotAnIdentity(t *testing.T) {
	set := Extract("ref 2345678901234 end")
	assert.Empty(t, set.Identifiers.NationalIDs)
}

func TestExtractNeverFailsAndIsDeterministic(t *testing.T) {
	for _, text := range []string{"", "   ", "\x00\xff garbage �", sampleForm} {
		a := Extract(text)
		b := Extract(text)
		assert.Equal(t, a, b)
		assert.NotNil(t, a.People)
		assert.NotNil(t, a.Identifiers.NationalIDs)
	}
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupe([]string{" a", "b", "a ", "", "b"}))
	assert.Equal(t, []string{}, dedupe(nil))
}
