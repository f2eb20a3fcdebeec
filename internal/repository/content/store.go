// Package content loads the portfolio knowledge base: projects, expertise
// areas, blog posts, the owner biography, the assistant persona, and a
// manifest of source files indexed for code-aware answers. Content ships
// embedded as a fallback so the binary runs without any external files.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/redwards/digitaltwin/internal/domain"
)

//go:embed defaults.yaml
var defaultContent []byte

// file is the on-disk YAML shape of the knowledge base.
type file struct {
	Persona     personaRecord    `yaml:"persona"`
	Biography   biographyRecord  `yaml:"biography"`
	Projects    []projectRecord  `yaml:"projects"`
	Expertise   []recordBase     `yaml:"expertise"`
	Blog        []blogRecord     `yaml:"blog"`
	SourceFiles []sourceManifest `yaml:"source_files"`
}

type recordBase struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
}

type personaRecord struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
	Body  string   `yaml:"body"`
}

type biographyRecord struct {
	Title               string `yaml:"title"`
	Bio                 string `yaml:"bio"`
	Philosophy          string `yaml:"philosophy"`
	TechnicalBackground string `yaml:"technical_background"`
}

type projectRecord struct {
	recordBase `yaml:",inline"`
	Category   string   `yaml:"category"`
	Tags       []string `yaml:"tags"`
}

type blogRecord struct {
	recordBase `yaml:",inline"`
	Date       string `yaml:"date"`
	Body       string `yaml:"body"`
}

type sourceManifest struct {
	recordBase `yaml:",inline"`
	Path       string `yaml:"path"`
}

// Store holds the loaded knowledge documents. Vectors are attached after
// load by the indexer; reads and vector writes are safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	docs []domain.KnowledgeDocument
}

// Load reads the knowledge base from path. An empty path, or a path that
// does not exist, falls back to the embedded default content.
func Load(path string, logger *zap.Logger) (*Store, error) {
	data := defaultContent
	baseDir := "."

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			data = b
			baseDir = filepath.Dir(path)
		case os.IsNotExist(err):
			logger.Warn("Content file not found, using embedded defaults", zap.String("path", path))
		default:
			return nil, fmt.Errorf("read content file: %w", err)
		}
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse content file: %w", err)
	}

	s := &Store{docs: buildDocuments(f, baseDir, logger)}
	logger.Info("Knowledge base loaded", zap.Int("documents", len(s.docs)))
	return s, nil
}

func buildDocuments(f file, baseDir string, logger *zap.Logger) []domain.KnowledgeDocument {
	docs := make([]domain.KnowledgeDocument, 0,
		len(f.Projects)+len(f.Expertise)+len(f.Blog)+len(f.SourceFiles)+2)

	for _, p := range f.Projects {
		docs = append(docs, domain.KnowledgeDocument{
			ID:      p.ID,
			Kind:    domain.KindProject,
			Title:   p.Title,
			Summary: p.Summary,
			Tags:    append([]string{}, p.Tags...),
		})
	}

	for i, e := range f.Expertise {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("expertise-%d", i+1)
		}
		docs = append(docs, domain.KnowledgeDocument{
			ID:      id,
			Kind:    domain.KindExpertise,
			Title:   e.Title,
			Summary: e.Summary,
		})
	}

	for _, b := range f.Blog {
		docs = append(docs, domain.KnowledgeDocument{
			ID:      b.ID,
			Kind:    domain.KindBlogPost,
			Title:   b.Title,
			Summary: b.Summary,
			Body:    b.Body,
		})
	}

	for _, sf := range f.SourceFiles {
		body := loadSourceFile(baseDir, sf.Path, logger)
		docs = append(docs, domain.KnowledgeDocument{
			ID:      sf.ID,
			Kind:    domain.KindSourceFile,
			Title:   sf.Title,
			Summary: sf.Summary,
			Body:    body,
		})
	}

	if bio := f.Biography; bio.Bio != "" || bio.Philosophy != "" || bio.TechnicalBackground != "" {
		title := bio.Title
		if title == "" {
			title = "Biography"
		}
		docs = append(docs, domain.KnowledgeDocument{
			ID:    "biography",
			Kind:  domain.KindBiography,
			Title: title,
			Body: strings.TrimSpace(strings.Join([]string{
				bio.Bio, bio.Philosophy, bio.TechnicalBackground,
			}, "\n\n")),
		})
	}

	if f.Persona.Body != "" {
		title := f.Persona.Title
		if title == "" {
			title = "AI Persona & Core Instructions"
		}
		docs = append(docs, domain.KnowledgeDocument{
			ID:      "persona",
			Kind:    domain.KindPersona,
			Title:   title,
			Summary: "The core identity, contact information, and operating rules for the assistant.",
			Tags:    append([]string{}, f.Persona.Tags...),
			Body:    f.Persona.Body,
		})
	}

	return docs
}

// loadSourceFile reads the indexed file from disk. The manifest summary still
// makes the document searchable when the file itself is unavailable.
func loadSourceFile(baseDir, path string, logger *zap.Logger) string {
	if path == "" {
		return ""
	}
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		logger.Warn("Failed to read indexed source file", zap.String("path", full), zap.Error(err))
		return ""
	}
	return string(data)
}

// Documents returns a snapshot of all knowledge documents.
func (s *Store) Documents() []domain.KnowledgeDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.KnowledgeDocument, len(s.docs))
	copy(out, s.docs)
	return out
}

// PersonaText returns the persona document body, or "" if none is loaded.
func (s *Store) PersonaText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if d.Kind == domain.KindPersona {
			return d.Body
		}
	}
	return ""
}

// SetVector attaches an embedding to the document with the given ID.
func (s *Store) SetVector(id string, vec []float32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.docs {
		if s.docs[i].ID == id {
			s.docs[i].Vector = vec
			return true
		}
	}
	return false
}

// Len reports the number of loaded documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
