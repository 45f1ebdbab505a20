package resume_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Affan1415/auto-apply/internal/domain"
	"github.com/Affan1415/auto-apply/internal/resume"
)

type storeFake struct {
	binary     []byte
	binaryName string
	binaryErr  error

	structured *domain.ResumeData

	storedName string
	storedData []byte
}

func (s *storeFake) GetResumeBinary(ctx context.Context, ref string) ([]byte, string, error) {
	if s.binaryErr != nil {
		return nil, "", s.binaryErr
	}
	return s.binary, s.binaryName, nil
}

func (s *storeFake) GetStructuredResume(ctx context.Context, userID string) (*domain.ResumeData, error) {
	return s.structured, nil
}

func (s *storeFake) StoreGeneratedDocument(ctx context.Context, data []byte, name string) (string, error) {
	s.storedData = data
	s.storedName = name
	return "generated-ref", nil
}

func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}

func TestRenderProducesPDF(t *testing.T) {
	data, err := resume.Render(domain.ResumeData{
		Name:     "Pat Doe",
		Email:    "pat@example.com",
		Headline: "Backend Engineer",
		Summary:  "Ten years of Go and distributed systems.",
		Skills:   []string{"Go", "PostgreSQL", "Kubernetes"},
		History: []domain.ResumeExperience{
			{Company: "Initech", Title: "Senior Engineer", Period: "2020-2024", Detail: "Owned the billing platform."},
		},
		Education: []domain.ResumeEducation{
			{School: "State University", Degree: "BSc Computer Science", Year: "2014"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !isPDF(data) {
		t.Fatalf("output does not look like a PDF (%d bytes)", len(data))
	}
}

func TestPlaceholderNeverEmpty(t *testing.T) {
	data, err := resume.Placeholder(domain.UserProfile{})
	if err != nil {
		t.Fatalf("placeholder: %v", err)
	}
	if !isPDF(data) {
		t.Fatalf("placeholder is not a PDF")
	}
}

func TestResolvePrefersStoredBinary(t *testing.T) {
	st := &storeFake{binary: []byte("%PDF-1.4 stored"), binaryName: "mine.pdf"}

	doc := resume.Resolve(context.Background(), st, domain.UserProfile{ID: "u1", ResumeRef: "r1"})
	if doc.Name != "mine.pdf" || string(doc.Data) != "%PDF-1.4 stored" {
		t.Fatalf("doc = %q (%d bytes)", doc.Name, len(doc.Data))
	}
	if st.storedData != nil {
		t.Errorf("stored binary path generated a document")
	}
}

func TestResolveRendersStructured(t *testing.T) {
	st := &storeFake{structured: &domain.ResumeData{Name: "Pat Doe", Summary: "Engineer."}}

	doc := resume.Resolve(context.Background(), st, domain.UserProfile{ID: "u1", FullName: "Pat Doe"})
	if doc.Name != "pat-doe-resume.pdf" {
		t.Errorf("name = %q", doc.Name)
	}
	if !isPDF(doc.Data) {
		t.Fatalf("rendered document is not a PDF")
	}
	// the rendered document is persisted for audit
	if st.storedName != "pat-doe-resume.pdf" || len(st.storedData) == 0 {
		t.Errorf("generated document not stored back: %q (%d bytes)", st.storedName, len(st.storedData))
	}
}

func TestResolveFallsBackToPlaceholder(t *testing.T) {
	st := &storeFake{binaryErr: errors.New("database is locked")}

	doc := resume.Resolve(context.Background(), st, domain.UserProfile{ID: "u1", FullName: "Pat Doe"})
	if len(doc.Data) == 0 {
		t.Fatalf("resolve produced no document")
	}
	if !isPDF(doc.Data) {
		t.Fatalf("placeholder fallback is not a PDF")
	}
}
