package schedule

// Patient accumulates caller-provided intake data over a booking interaction.
// Fields are overwritten wholesale when restated; the last value wins.
type Patient struct {
	ID               string `json:"id"`
	Name             string `json:"name,omitempty"`
	DateOfBirth      string `json:"dob,omitempty"`
	Address          string `json:"address,omitempty"`
	Phone            string `json:"phone,omitempty"`
	PayerName        string `json:"payer_name,omitempty"`
	PayerID          string `json:"payer_id,omitempty"`
	Email            string `json:"email,omitempty"`
	MedicalComplaint string `json:"medical_complaint,omitempty"`
	HasReferral      *bool  `json:"has_referral,omitempty"`
}

// Required patient field names, in the order they are reported back when
// missing.
const (
	FieldName        = "name"
	FieldDateOfBirth = "dob"
	FieldAddress     = "address"
	FieldPhone       = "phone"
	FieldPayerName   = "payer_name"
	FieldPayerID     = "payer_id"
)

// MissingFields lists every legally-required field that is still absent.
// An empty result means the patient record is complete enough to book.
func (p *Patient) MissingFields() []string {
	var missing []string
	if p.Name == "" {
		missing = append(missing, FieldName)
	}
	if p.DateOfBirth == "" {
		missing = append(missing, FieldDateOfBirth)
	}
	if p.Address == "" {
		missing = append(missing, FieldAddress)
	}
	if p.Phone == "" {
		missing = append(missing, FieldPhone)
	}
	if p.PayerName == "" {
		missing = append(missing, FieldPayerName)
	}
	if p.PayerID == "" {
		missing = append(missing, FieldPayerID)
	}
	return missing
}
