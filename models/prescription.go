package models

// Medicine is one extracted medicine entry.
type Medicine struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
	Frequency    string `json:"frequency,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

// OCRData is the extraction result for a single prescription document.
type OCRData struct {
	DoctorName   string     `json:"doctor_name,omitempty"`
	Hospital     string     `json:"hospital,omitempty"`
	PatientName  string     `json:"patient_name,omitempty"`
	Date         string     `json:"date,omitempty"`
	Medicines    []Medicine `json:"medicines"`
	FollowUpDate string     `json:"follow_up_date,omitempty"`
	RawText      string     `json:"raw_text"`
}

// Prescription is one archived prescription document.
type Prescription struct {
	PrescriptionID string  `json:"prescription_id"`
	Filename       string  `json:"filename"`
	UploadDate     string  `json:"upload_date"`
	OCRData        OCRData `json:"ocr_data"`
}

// MedicineHit is one result of a medicine-name search across the archive.
type MedicineHit struct {
	Medicine Medicine `json:"medicine"`
	Date     string   `json:"date"`
	Doctor   string   `json:"doctor"`
}
