package models

// StartRequest opens a new elicitation dialogue.
type StartRequest struct {
	Idea      string `json:"idea"`
	CreatedBy string `json:"created_by"`
	Title     string `json:"title"`
}

// StartResponse carries the first question of a new dialogue.
type StartResponse struct {
	SpecID         string `json:"spec_id"`
	Title          string `json:"title"`
	FirstQuestion  string `json:"first_question"`
	QuestionNumber int    `json:"question_number"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

// AnswerRequest submits the answer to the current question together with
// the whole dialogue state held by the caller.
type AnswerRequest struct {
	SpecID          string  `json:"spec_id"`
	CurrentQuestion string  `json:"current_question"`
	Answer          string  `json:"answer"`
	PreviousAnswers History `json:"previous_answers"`
	InitialIdea     string  `json:"initial_idea"`
	Title           string  `json:"title"`
}

// Dialogue statuses reported to callers.
const (
	StatusStarted    = "started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Progress estimates how far the dialogue has come.
type Progress struct {
	Current        int `json:"current"`
	EstimatedTotal int `json:"estimated_total"`
	Percentage     int `json:"percentage"`
}

// InProgressResponse carries the next question of an ongoing dialogue.
type InProgressResponse struct {
	SpecID          string   `json:"spec_id"`
	Status          string   `json:"status"`
	NextQuestion    string   `json:"next_question"`
	QuestionNumber  int      `json:"question_number"`
	PreviousAnswers History  `json:"previous_answers"`
	Progress        Progress `json:"progress"`
}

// Summary condenses a completed specification.
type Summary struct {
	Title            string `json:"title"`
	Idea             string `json:"idea"`
	StakeholderCount int    `json:"stakeholder_count"`
	QuestionsCount   int    `json:"questions_count"`
}

// CompletedResponse carries the outcome of a finished dialogue.
type CompletedResponse struct {
	SpecID           string        `json:"spec_id"`
	Status           string        `json:"status"`
	Stakeholders     []Stakeholder `json:"stakeholders"`
	FinalDocument    string        `json:"final_document"`
	TotalQuestions   int           `json:"total_questions"`
	AllAnswers       History       `json:"all_answers"`
	CompletedAt      string        `json:"completed_at"`
	CompletionReason string        `json:"completion_reason"`
	Summary          Summary       `json:"summary"`
}
