package handlers

import "github.com/gofiber/fiber/v2"

type Routes struct {
	Resume    *ResumeHandler
	Question  *QuestionHandler
	Interview *InterviewHandler
	Candidate *CandidateHandler
}

// Mount registers the API endpoints on router. Trailing slashes are
// accepted since fiber routing is not strict by default.
func (r Routes) Mount(router fiber.Router) {
	router.Post("/resume-upload", r.Resume.HandleUpload)
	router.Get("/resumes/:id", r.Resume.HandleGet)
	router.Delete("/resumes/:id", r.Resume.HandleDelete)
	router.Get("/questions", r.Question.HandleStatic)
	router.Get("/generate-questions", r.Question.HandleGenerate)
	router.Post("/submit-answers", r.Interview.HandleSubmit)

	// search before :id so the literal segment wins
	router.Get("/candidates/search", r.Candidate.HandleSearch)
	router.Get("/candidates", r.Candidate.HandleList)
	router.Get("/candidates/:id", r.Candidate.HandleGet)
	router.Delete("/candidates/:id", r.Candidate.HandleDelete)
}
