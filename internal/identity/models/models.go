package models

// Profile is a point-in-time snapshot of a person fetched from the identity
// directory. It is enrichment data: nothing in this service owns or mutates it.
type Profile struct {
	ID                 string   `json:"id"`
	Username           string   `json:"username"`
	Email              string   `json:"email,omitempty"`
	FullNameEN         string   `json:"full_name_en"`
	PhotoURL           *string  `json:"photo_url"`
	Roles              []string `json:"roles,omitempty"`
	PhoneNumber        *string  `json:"phone_number"`
	Address            *string  `json:"address"`
	Gender             *string  `json:"gender"`
	University         *string  `json:"university"`
	BaccalaureateGrade *string  `json:"baccalaureate_grade"`
	KhmerName          *string  `json:"khmer_name"`
	Province           *string  `json:"province"`
	DateOfBirth        *string  `json:"date_of_birth"`
	EducationLevel     *string  `json:"education_level"`
}
