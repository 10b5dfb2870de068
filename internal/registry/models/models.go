package models

import (
	"time"

	id "suratdesa/pkg/domain"
)

// Record is one resident's entry in the civil registry, as returned by the
// upstream lookup service. Attribute values are plain strings because they
// feed directly into letter field values.
type Record struct {
	NationalID      id.NationalID `json:"national_id"`
	FullName        string        `json:"full_name"`
	BirthPlace      string        `json:"birth_place"`
	BirthDate       string        `json:"birth_date"`
	Gender          string        `json:"gender"`
	Religion        string        `json:"religion"`
	MaritalStatus   string        `json:"marital_status"`
	Occupation      string        `json:"occupation"`
	Nationality     string        `json:"nationality"`
	Education       string        `json:"education"`
	BloodType       string        `json:"blood_type"`
	Address         string        `json:"address"`
	Unit            string        `json:"unit"`
	SubUnit         string        `json:"sub_unit"`
	Telephone       string        `json:"telephone"`
	HouseholdNumber string        `json:"household_number"`
	HouseholdHead   string        `json:"household_head_name"`
	RelationToHead  string        `json:"relation_to_head"`
	FetchedAt       time.Time     `json:"fetched_at"`
}

// Attributes flattens the record into the key→value table the autofill
// resolver matches normalized field names against. Alias keys carry the
// same value as their canonical counterpart so either spelling resolves.
func (r *Record) Attributes() map[string]string {
	return map[string]string{
		"national_id":         r.NationalID.String(),
		"full_name":           r.FullName,
		"name":                r.FullName,
		"birth_place":         r.BirthPlace,
		"birth_date":          r.BirthDate,
		"date_of_birth":       r.BirthDate,
		"gender":              r.Gender,
		"sex":                 r.Gender,
		"religion":            r.Religion,
		"marital_status":      r.MaritalStatus,
		"occupation":          r.Occupation,
		"nationality":         r.Nationality,
		"education":           r.Education,
		"blood_type":          r.BloodType,
		"address":             r.Address,
		"unit":                r.Unit,
		"sub_unit":            r.SubUnit,
		"rt":                  r.SubUnit,
		"telephone":           r.Telephone,
		"household_number":    r.HouseholdNumber,
		"household_head_name": r.HouseholdHead,
		"relation_to_head":    r.RelationToHead,
	}
}
