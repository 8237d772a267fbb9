package models

// JobAd is the career API position document.
type JobAd struct {
	Description   *string       `json:"description,omitempty"`
	IsForStudents bool          `json:"isForStudents"`
	Location      Location      `json:"location"`
	ExecutiveUser ExecutiveUser `json:"executiveUser"`
}

type Location struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	City    string `json:"city"`
	Street  string `json:"street"`
	ZipCode string `json:"zipCode"`
}

// ExecutiveUser is the hiring manager shown on the job ad.
type ExecutiveUser struct {
	Name        string `json:"name"`
	PhotoURL    string `json:"photoUrl"`
	Description string `json:"description"`
}
