package apply

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/Affan1415/auto-apply/internal/domain"
	"github.com/Affan1415/auto-apply/internal/form"
	"github.com/Affan1415/auto-apply/internal/resume"
)

// attachResume resolves the document to attach, writes it to a transient
// file, and tries the attachment strategies in order: direct file-input
// send, drop-zone trigger then retry, programmatic unhide as last resort.
// Upload failure is non-fatal; the attempt continues without a resume. The
// temp file is removed regardless of outcome.
func (s *Stage) attachResume(ctx context.Context, resolver *form.Resolver, user domain.UserProfile) {
	doc := resume.Resolve(ctx, s.resumes, user)
	if len(doc.Data) == 0 {
		log.Printf("[apply] no resume document produced, skipping upload")
		return
	}

	dir, err := os.MkdirTemp("", "autoapply")
	if err != nil {
		log.Printf("[apply] upload failed: temp dir: %v", err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, doc.Name)
	if err := os.WriteFile(path, doc.Data, 0o600); err != nil {
		log.Printf("[apply] upload failed: write temp: %v", err)
		return
	}

	if s.sendToFileInput(path) {
		return
	}

	// a drop-zone click often reveals the real input
	if el, err := resolver.Resolve(form.DropZone); err == nil {
		if err := s.nav.Click(el); err == nil {
			time.Sleep(500 * time.Millisecond)
			if s.sendToFileInput(path) {
				return
			}
		}
	}

	// last resort: unhide any file input and retry
	_, _ = s.nav.ExecScript(`
document.querySelectorAll('input[type="file"]').forEach(function(n){
  n.style.display = 'block';
  n.style.visibility = 'visible';
  n.removeAttribute('hidden');
});`, nil)
	if s.sendToFileInput(path) {
		return
	}

	log.Printf("[apply] upload failed: no attachment strategy succeeded")
}

// sendToFileInput types the local path into the first file input that
// accepts it. Hidden inputs are tried too; the driver rejects them and the
// loop moves on.
func (s *Stage) sendToFileInput(path string) bool {
	for _, loc := range form.ResumeUpload.Locators {
		els, _ := s.nav.FindAll(loc.By, loc.Value)
		for _, el := range els {
			if err := el.SendKeys(path); err == nil {
				log.Printf("[apply] resume attached via %s", loc.Value)
				return true
			}
		}
	}
	return false
}
