package models

// Expected holds the literal values a stable fixture position must carry.
type Expected struct {
	IsForStudents bool     `json:"isForStudents"`
	Location      Location `json:"location"`
	ExecutiveName string   `json:"executiveName"`
}

func DefaultExpected() Expected {
	return Expected{
		IsForStudents: true,
		Location: Location{
			Name:    "Hall office park",
			Country: "Česká republika",
			City:    "Praha",
			Street:  "U Pergamenky 2",
			ZipCode: "17000",
		},
		ExecutiveName: "Kozák Michal",
	}
}
