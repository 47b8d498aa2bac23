package entity

// Entry is one registrant row from the backing sheet.
type Entry struct {
	RegistrationNumber string `json:"registrationNumber"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	PhoneNumber        string `json:"phoneNumber"`
	ResidencyStatus    string `json:"residencyStatus"` // "Hosteller" | "Day Scholar" | free-form
	UniqueID           string `json:"uniqueId"`
	TransactionID      string `json:"transactionId"`
	Desk               string `json:"desk"`
	MailSent           bool   `json:"mailSent"`

	// RowNumber is the 1-based sheet row (header is row 1, data starts at 2).
	// It is the durable address used for targeted write-backs.
	RowNumber int `json:"rowNumber"`
}

// Pending reports whether this entry still needs its confirmation email.
func (e Entry) Pending() bool {
	return !e.MailSent
}
