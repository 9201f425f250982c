package dto

// RowOutcome summarises one successfully parsed spreadsheet row for the
// upload response and the server log.
type RowOutcome struct {
	Sheet string `json:"sheet"`
	Date  string `json:"date"`
	Name  string `json:"name"`
	Time  string `json:"time"`
}

// UploadSummary is the availability upload response payload.
type UploadSummary struct {
	Updates int          `json:"updates"`
	Entries []RowOutcome `json:"entries"`
}
