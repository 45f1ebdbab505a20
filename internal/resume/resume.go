// Package resume resolves the document to attach to an application:
// stored binary, rendered from structured data, or a minimal placeholder.
// The chain never fails — an attempt always has something to attach.
package resume

import (
	"context"
	"log"
	"strings"

	"github.com/Affan1415/auto-apply/internal/domain"
)

// Store is the slice of the record store resume resolution needs.
type Store interface {
	GetResumeBinary(ctx context.Context, ref string) (data []byte, name string, err error)
	GetStructuredResume(ctx context.Context, userID string) (*domain.ResumeData, error)
	StoreGeneratedDocument(ctx context.Context, data []byte, name string) (ref string, err error)
}

type Document struct {
	Name string
	Data []byte
}

// Resolve walks the fallback chain for p. Rendered documents are persisted
// back to the store for audit; a persistence failure does not block the
// attempt.
func Resolve(ctx context.Context, st Store, p domain.UserProfile) Document {
	if data, name, err := st.GetResumeBinary(ctx, p.ResumeRef); err != nil {
		log.Printf("[resume] stored binary %q: %v", p.ResumeRef, err)
	} else if len(data) > 0 {
		if name == "" {
			name = "resume.pdf"
		}
		return Document{Name: name, Data: data}
	}

	if rd, err := st.GetStructuredResume(ctx, p.ID); err != nil {
		log.Printf("[resume] structured resume for %s: %v", p.ID, err)
	} else if rd != nil {
		if data, err := Render(*rd); err != nil {
			log.Printf("[resume] render: %v", err)
		} else {
			name := docName(p.FullName)
			if _, err := st.StoreGeneratedDocument(ctx, data, name); err != nil {
				log.Printf("[resume] store generated: %v", err)
			}
			return Document{Name: name, Data: data}
		}
	}

	data, err := Placeholder(p)
	if err != nil {
		log.Printf("[resume] placeholder: %v", err)
		// last-ditch: a one-line text file still satisfies the attach step
		return Document{Name: "resume.txt", Data: []byte(p.FullName + "\n" + p.Email + "\n")}
	}
	return Document{Name: docName(p.FullName), Data: data}
}

func docName(fullName string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(fullName), "-"))
	if slug == "" {
		slug = "resume"
	}
	return slug + "-resume.pdf"
}
