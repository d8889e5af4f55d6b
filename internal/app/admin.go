package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/kitikazis/ELAC-Lectura/internal/domain"
)

// AdminService covers the authoring side: category CRUD, content saves, the
// currently selected category, and room-code generation against it. Store
// failures are surfaced verbatim; nothing is assumed written on error.
type AdminService struct {
	categories CategoryStore
	codes      *RoomCodeManager
	auth       Authenticator

	mu       sync.Mutex
	selected string
}

func NewAdminService(categories CategoryStore, codes *RoomCodeManager, auth Authenticator) *AdminService {
	return &AdminService{categories: categories, codes: codes, auth: auth}
}

// Login checks the credential pair and returns the actor's role.
func (s *AdminService) Login(username, password string) (domain.Role, error) {
	return s.auth.Authenticate(username, password)
}

// ListCategories returns every stored category.
func (s *AdminService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory returns one category by key.
func (s *AdminService) GetCategory(ctx context.Context, key string) (domain.Category, error) {
	return s.categories.Get(ctx, key)
}

// CreateCategory derives the key from the name and stores an empty category.
// A blank name is a validation error; a colliding key is rejected.
func (s *AdminService) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, fmt.Errorf("%w: category name is required", domain.ErrValidation)
	}
	key := domain.SlugKey(name)
	if key == "" {
		return domain.Category{}, fmt.Errorf("%w: name %q yields an empty key", domain.ErrValidation, name)
	}
	category := domain.Category{Key: key, Name: name, Questions: []domain.Question{}}
	if err := s.categories.Create(ctx, category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

// DeleteCategory removes a category and clears the selection when the
// deleted one was selected.
func (s *AdminService) DeleteCategory(ctx context.Context, key string) error {
	if err := s.categories.Delete(ctx, key); err != nil {
		return err
	}
	s.mu.Lock()
	if s.selected == key {
		s.selected = ""
	}
	s.mu.Unlock()
	return nil
}

// SelectCategory marks the category the admin is working on.
func (s *AdminService) SelectCategory(ctx context.Context, key string) (domain.Category, error) {
	category, err := s.categories.Get(ctx, key)
	if err != nil {
		return domain.Category{}, err
	}
	s.mu.Lock()
	s.selected = key
	s.mu.Unlock()
	return category, nil
}

// Selected returns the currently selected category key, if any.
func (s *AdminService) Selected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected != ""
}

// SaveContent persists the draft passage and questions to the selected
// category after validating every question.
func (s *AdminService) SaveContent(ctx context.Context, readingText string, questions []domain.Question) error {
	key, ok := s.Selected()
	if !ok {
		return fmt.Errorf("%w: select a category before saving", domain.ErrInvalidState)
	}
	for i, q := range questions {
		if err := validateQuestion(i, q); err != nil {
			return err
		}
	}
	return s.categories.Update(ctx, key, readingText, questions)
}

// GenerateCode mints a room code for the selected category.
func (s *AdminService) GenerateCode(ctx context.Context) (domain.RoomCode, error) {
	key, _ := s.Selected()
	return s.codes.Generate(ctx, key)
}

// CodeRemaining reports the active code's time to live.
func (s *AdminService) CodeRemaining() string {
	return FormatRemaining(s.codes.Remaining())
}

// ExportBackup writes every category as a JSON backup document.
func (s *AdminService) ExportBackup(ctx context.Context, w io.Writer) error {
	return Export(ctx, s.categories, w)
}

// ImportBackup restores categories from a JSON backup document.
func (s *AdminService) ImportBackup(ctx context.Context, r io.Reader) error {
	return Import(ctx, s.categories, r)
}

func validateQuestion(i int, q domain.Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: question %d has no text", domain.ErrValidation, i+1)
	}
	if len(q.Options) != domain.OptionsPerQuestion {
		return fmt.Errorf("%w: question %d needs %d options", domain.ErrValidation, i+1, domain.OptionsPerQuestion)
	}
	for j, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: question %d option %d is empty", domain.ErrValidation, i+1, j+1)
		}
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return fmt.Errorf("%w: question %d correct index %d out of range", domain.ErrValidation, i+1, q.Correct)
	}
	return nil
}
