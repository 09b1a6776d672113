package api

// User is the authenticated user's profile.
type User struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	School    string `json:"school"`
	Major     string `json:"major"`
	Year      string `json:"year"`
}

// Course is one course the user is enrolled in.
type Course struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Semester    string `json:"semester"`
	AuthLevel   string `json:"auth_level"`
}

// Assessment is a course assessment summary. Timestamps are passed through
// as the service formats them.
type Assessment struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category_name"`
	StartAt     string `json:"start_at"`
	DueAt       string `json:"due_at"`
	EndAt       string `json:"end_at"`
}

// DetailedAssessment carries the per-assessment settings beyond the summary.
type DetailedAssessment struct {
	Assessment
	Description    string `json:"description"`
	MaxGraceDays   int    `json:"max_grace_days"`
	MaxSubmissions int    `json:"max_submissions"`
	GroupSize      int    `json:"group_size"`
	Disableable    bool   `json:"disable_handins"`
	HasScoreboard  bool   `json:"has_scoreboard"`
	HandoutFormat  string `json:"handout_format"`
	WriteupFormat  string `json:"writeup_format"`
}

// Problem is one graded problem of an assessment.
type Problem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MaxScore    float64 `json:"max_score"`
	Optional    bool    `json:"optional"`
}

// Submission is one submission version with its released scores. A nil
// score means the problem is not yet released.
type Submission struct {
	Version   int                 `json:"version"`
	Filename  string              `json:"filename"`
	CreatedAt string              `json:"created_at"`
	Scores    map[string]*float64 `json:"scores"`
}

// AttachmentFormat describes what an assessment attaches as its handout or
// writeup.
type AttachmentFormat int

const (
	// AttachmentNone means the assessment has no such attachment.
	AttachmentNone AttachmentFormat = iota
	// AttachmentURL means the attachment is an external link.
	AttachmentURL
	// AttachmentFile means the attachment was downloaded to a local file.
	AttachmentFile
)

// Attachment is the result of fetching a handout or writeup. Exactly one of
// Path and URL is set, per Format.
type Attachment struct {
	Format AttachmentFormat
	Path   string
	URL    string
}
