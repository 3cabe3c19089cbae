package domain

import "time"

type Course struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Category      string   `json:"category,omitempty"`
	Difficulty    string   `json:"difficulty"`
	Duration      string   `json:"duration"`
	Instructor    string   `json:"instructor,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	Enrolled      int      `json:"enrolled,omitempty"`
	ModulesCount  int      `json:"modules_count,omitempty"`
	RequiresTerms bool     `json:"requires_terms,omitempty"`
	PDFURL        string   `json:"pdf_url,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

type CourseModule struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id,omitempty"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	Order    int    `json:"order,omitempty"`
}

type Enrollment struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CourseID      string    `json:"course_id"`
	TermsAccepted bool      `json:"terms_accepted"`
	EnrolledAt    time.Time `json:"enrolled_at,omitempty"`
}

type ModuleProgress struct {
	UserID    string     `json:"user_id,omitempty"`
	CourseID  string     `json:"course_id"`
	ModuleID  string     `json:"module_id"`
	Completed bool       `json:"completed"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
