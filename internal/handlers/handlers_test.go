package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"alfredoptarigan/interview-screener/internal/config"
	"alfredoptarigan/interview-screener/internal/models"
	"alfredoptarigan/interview-screener/internal/repositories"
	"alfredoptarigan/interview-screener/internal/services"
)

const maxUpload = 1 << 20

type fakeWorker struct {
	enqueued []uuid.UUID
}

func (f *fakeWorker) Start(ctx context.Context) {}
func (f *fakeWorker) Stop()                     {}
func (f *fakeWorker) EnqueueJob(docID uuid.UUID) {
	f.enqueued = append(f.enqueued, docID)
}

type fakeIndex struct {
	hits      []services.ResumeHit
	query     string
	limit     int
	removed   []string
	removeErr error
}

func (f *fakeIndex) IndexDocument(ctx context.Context, docID string, text string) (int, error) {
	return 1, nil
}

func (f *fakeIndex) Search(ctx context.Context, query string, limit int) ([]services.ResumeHit, error) {
	f.query = query
	f.limit = limit
	return f.hits, nil
}

func (f *fakeIndex) Remove(ctx context.Context, docID string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, docID)
	return nil
}

type testServer struct {
	app           *fiber.App
	docRepo       repositories.DocumentRepository
	candidateRepo repositories.CandidateRepository
	storage       services.StorageService
}

func newTestServer(t *testing.T, worker services.Worker, index services.ResumeIndex) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "handlers.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	docRepo := repositories.NewDocumentRepository(db)
	candidateRepo := repositories.NewCandidateRepository(db)
	storage := services.NewStorageService(t.TempDir())

	routes := Routes{
		Resume:    NewResumeHandler(docRepo, storage, services.NewDocumentDecoder(), worker, index, maxUpload, nil),
		Question:  NewQuestionHandler(services.NewQuestionService(nil, 0, nil)),
		Interview: NewInterviewHandler(services.NewInterviewService(candidateRepo, nil), nil),
		Candidate: NewCandidateHandler(candidateRepo, docRepo, index, nil),
	}

	app := fiber.New()
	routes.Mount(app.Group("/api/v1"))

	return &testServer{app: app, docRepo: docRepo, candidateRepo: candidateRepo, storage: storage}
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()

	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		w, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	} else if err := mw.WriteField("note", "no file"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume-upload/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func resumeDOCX(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document part: %v", err)
	}
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>John Smith</w:t></w:r></w:p>
<w:p><w:r><w:t>Software Engineer</w:t></w:r></w:p>
<w:p><w:r><w:t>john.smith@example.com | +1 555-123-4567</w:t></w:r></w:p>
</w:body></w:document>`))
	if err != nil {
		t.Fatalf("write document part: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode error body %q: %v", body, err)
	}
	return payload.Error
}

func TestUploadResume(t *testing.T) {
	t.Parallel()

	worker := &fakeWorker{}
	srv := newTestServer(t, worker, nil)

	status, body := srv.do(t, uploadRequest(t, "resume", "john.docx", resumeDOCX(t)))
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}

	var resp models.UploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Filename != "john.docx" || resp.IndexStatus != string(models.IndexQueued) {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.ParsedFields.Name == nil || *resp.ParsedFields.Name != "John Smith" {
		t.Fatalf("unexpected name %v", resp.ParsedFields.Name)
	}
	if resp.ParsedFields.Email == nil || *resp.ParsedFields.Email != "john.smith@example.com" {
		t.Fatalf("unexpected email %v", resp.ParsedFields.Email)
	}
	if resp.ParsedFields.Phone == nil || *resp.ParsedFields.Phone != "+15551234567" {
		t.Fatalf("unexpected phone %v", resp.ParsedFields.Phone)
	}

	id, err := uuid.Parse(resp.DocumentID)
	if err != nil {
		t.Fatalf("document id: %v", err)
	}
	doc, err := srv.docRepo.FindByID(id)
	if err != nil {
		t.Fatalf("find document: %v", err)
	}
	if doc.Format != "docx" || !strings.Contains(doc.Text, "Software Engineer") {
		t.Fatalf("unexpected document %+v", doc)
	}
	if len(worker.enqueued) != 1 || worker.enqueued[0] != id {
		t.Fatalf("expected document queued for indexing, got %v", worker.enqueued)
	}
}

func TestUploadResumeWithoutIndex(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, nil)
	status, body := srv.do(t, uploadRequest(t, "resume", "john.docx", resumeDOCX(t)))
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	if !strings.Contains(string(body), `"index_status":"skipped"`) {
		t.Fatalf("expected skipped index status, got %s", body)
	}
}

func uploadedDocument(t *testing.T, srv *testServer) *models.Document {
	t.Helper()

	status, body := srv.do(t, uploadRequest(t, "resume", "john.docx", resumeDOCX(t)))
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	var resp models.UploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	doc, err := srv.docRepo.FindByID(uuid.MustParse(resp.DocumentID))
	if err != nil {
		t.Fatalf("find document: %v", err)
	}
	return doc
}

func TestGetAndDeleteResume(t *testing.T) {
	t.Parallel()

	index := &fakeIndex{}
	srv := newTestServer(t, &fakeWorker{}, index)
	doc := uploadedDocument(t, srv)
	path := "/api/v1/resumes/" + doc.ID.String()

	status, body := srv.do(t, httptest.NewRequest(http.MethodGet, path, nil))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(string(body), `"original_filename":"john.docx"`) || strings.Contains(string(body), "Software Engineer") {
		t.Fatalf("unexpected document body %s", body)
	}

	if _, err := os.Stat(srv.storage.GetFilePath(doc.Filename)); err != nil {
		t.Fatalf("expected stored file before delete: %v", err)
	}

	status, body = srv.do(t, httptest.NewRequest(http.MethodDelete, path+"/", nil))
	if status != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", status, body)
	}
	if len(index.removed) != 1 || index.removed[0] != doc.ID.String() {
		t.Fatalf("expected vectors removed for %s, got %v", doc.ID, index.removed)
	}
	if _, err := os.Stat(srv.storage.GetFilePath(doc.Filename)); !os.IsNotExist(err) {
		t.Fatalf("expected stored file deleted, got %v", err)
	}

	status, _ = srv.do(t, httptest.NewRequest(http.MethodGet, path, nil))
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
	status, _ = srv.do(t, httptest.NewRequest(http.MethodDelete, path, nil))
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", status)
	}
	status, _ = srv.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/resumes/not-a-uuid", nil))
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", status)
	}
}

func TestDeleteResumeKeepsRowWhenVectorRemovalFails(t *testing.T) {
	t.Parallel()

	index := &fakeIndex{removeErr: errors.New("qdrant unavailable")}
	srv := newTestServer(t, &fakeWorker{}, index)
	doc := uploadedDocument(t, srv)

	status, body := srv.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/resumes/"+doc.ID.String(), nil))
	if status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", status, body)
	}
	if _, err := srv.docRepo.FindByID(doc.ID); err != nil {
		t.Fatalf("document should survive a failed vector delete: %v", err)
	}
	if _, err := os.Stat(srv.storage.GetFilePath(doc.Filename)); err != nil {
		t.Fatalf("stored file should survive a failed vector delete: %v", err)
	}
}

func TestDeleteUnindexedResumeSkipsIndex(t *testing.T) {
	t.Parallel()

	index := &fakeIndex{}
	srv := newTestServer(t, nil, index)
	doc := uploadedDocument(t, srv)

	status, _ := srv.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/resumes/"+doc.ID.String(), nil))
	if status != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d", status)
	}
	if len(index.removed) != 0 {
		t.Fatalf("skipped document should not touch the index, got %v", index.removed)
	}
}

func TestUploadResumeRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		field    string
		filename string
		content  []byte
		status   int
		message  string
	}{
		{"missing file", "", "", nil, fiber.StatusBadRequest, "No file uploaded"},
		{"wrong extension", "resume", "resume.txt", []byte("John Smith"), fiber.StatusBadRequest, "Unsupported file type. Only PDF and DOCX allowed."},
		{"content mismatch", "resume", "resume.pdf", []byte("not really a pdf"), fiber.StatusBadRequest, "Unsupported file type. Only PDF and DOCX allowed."},
		{"too large", "resume", "resume.pdf", bytes.Repeat([]byte("a"), maxUpload+1), fiber.StatusBadRequest, "File too large. Maximum size is 1MB."},
		{"corrupt pdf", "resume", "resume.pdf", []byte("%PDF-1.4\ngarbage"), fiber.StatusInternalServerError, "Failed to parse resume. Please try another file."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, nil, nil)
			status, body := srv.do(t, uploadRequest(t, tt.field, tt.filename, tt.content))
			if status != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, status, body)
			}
			if got := errorMessage(t, body); got != tt.message {
				t.Fatalf("expected %q, got %q", tt.message, got)
			}
		})
	}
}

func TestQuestionEndpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, nil)

	status, body := srv.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/questions/", nil))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var static []map[string]any
	if err := json.Unmarshal(body, &static); err != nil || len(static) != 6 {
		t.Fatalf("unexpected static questions %s (%v)", body, err)
	}

	status, body = srv.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/generate-questions/", nil))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var generated models.GeneratedQuestionsResponse
	if err := json.Unmarshal(body, &generated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(generated.Questions) != 6 || generated.Questions[5].Time != 120 {
		t.Fatalf("unexpected generated questions %+v", generated)
	}
}

const submitBody = `{
	"name": "Jane Doe",
	"email": "jane@example.com",
	"phone": "+1 555 0100",
	"resume": "jane.pdf",
	"answers": [
		{"question": "q1", "answer": "a", "difficulty": "Easy", "attended": true},
		{"question": "q2", "answer": "", "difficulty": "Easy", "attended": false},
		{"question": "q3", "answer": null, "difficulty": "Medium", "attended": false},
		{"question": "q4", "answer": "", "difficulty": "Medium", "attended": false},
		{"question": "q5", "answer": "b", "difficulty": "Hard", "attended": true},
		{"question": "q6", "answer": "c", "difficulty": "Hard", "attended": true}
	]
}`

func TestSubmitAnswersAndCandidateLifecycle(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, nil)

	status, body := srv.do(t, jsonRequest(http.MethodPost, "/api/v1/submit-answers/", submitBody))
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	var submitted models.SubmitAnswersResponse
	if err := json.Unmarshal(body, &submitted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if submitted.Score != 58 || submitted.Attended != 3 || submitted.Total != 6 {
		t.Fatalf("unexpected response %+v", submitted)
	}
	if !strings.HasSuffix(submitted.Summary, "Resume file: jane.pdf.") {
		t.Fatalf("unexpected summary %q", submitted.Summary)
	}

	status, body = srv.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/candidates/"+submitted.ID+"/", nil))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var candidate models.Candidate
	if err := json.Unmarshal(body, &candidate); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(candidate.Answers) != 6 || candidate.Answers[2].Answer != nil {
		t.Fatalf("unexpected stored answers %+v", candidate.Answers)
	}

	status, body = srv.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/candidates/", nil))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var list []models.Candidate
	if err := json.Unmarshal(body, &list); err != nil || len(list) != 1 {
		t.Fatalf("unexpected list %s (%v)", body, err)
	}

	status, _ = srv.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/candidates/"+submitted.ID+"/", nil))
	if status != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d", status)
	}

	status, _ = srv.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/candidates/"+submitted.ID+"/", nil))
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", status)
	}
}

func TestSubmitAnswersValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"malformed", `{"name": `, "Invalid request payload"},
		{"missing phone", `{"name":"A","email":"a@b.co","answers":[{"difficulty":"Easy","attended":true,"answer":"x"}]}`, "Name, email, and phone are required"},
		{"blank name", `{"name":"  ","email":"a@b.co","phone":"1","answers":[{"difficulty":"Easy"}]}`, "Name, email, and phone are required"},
		{"no answers", `{"name":"A","email":"a@b.co","phone":"1","answers":[]}`, "No answers provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, nil, nil)
			status, body := srv.do(t, jsonRequest(http.MethodPost, "/api/v1/submit-answers/", tt.body))
			if status != fiber.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", status, body)
			}
			if got := errorMessage(t, body); got != tt.message {
				t.Fatalf("expected %q, got %q", tt.message, got)
			}
		})
	}
}

func TestCandidateLookupErrors(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, nil)

	status, _ := srv.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/candidates/not-a-uuid", nil))
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}

	status, _ = srv.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/candidates/"+uuid.NewString(), nil))
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestCandidateSearch(t *testing.T) {
	t.Parallel()

	index := &fakeIndex{}
	srv := newTestServer(t, nil, index)

	doc := &models.Document{OriginalFileName: "jane.pdf", Format: "pdf", Text: "Go developer"}
	if err := srv.docRepo.Create(doc); err != nil {
		t.Fatalf("create document: %v", err)
	}
	index.hits = []services.ResumeHit{{DocumentID: doc.ID.String(), Score: 0.91, Text: "Go   developer\nwith Postgres"}}

	status, body := srv.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/candidates/search/?q=golang+postgres&limit=3", nil))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	var resp models.ResumeSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if index.query != "golang postgres" || index.limit != 3 {
		t.Fatalf("unexpected search call %q/%d", index.query, index.limit)
	}
	if len(resp.Results) != 1 || resp.Results[0].Filename != "jane.pdf" || resp.Results[0].Snippet != "Go developer with Postgres" {
		t.Fatalf("unexpected results %+v", resp.Results)
	}

	status, _ = srv.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/candidates/search?q=", nil))
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for empty query, got %d", status)
	}
}

func TestCandidateSearchDisabled(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, nil)
	status, _ := srv.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/candidates/search?q=go", nil))
	if status != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", status)
	}
}
