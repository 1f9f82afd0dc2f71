package models

// LinkedInProfile is the profile a personalized outreach message is written for
type LinkedInProfile struct {
	Name     string `json:"name"`
	JobTitle string `json:"job_title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Summary  string `json:"summary"`
}
