// Package memory keeps every collection in process. It backs the API when
// STORAGE_BACKEND=memory and the service tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/entescheme/ente-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store implements the profile, scheme, news, user, OTP and audit stores.
type Store struct {
	mu sync.RWMutex

	profiles map[string]models.Profile
	schemes  []models.Scheme
	news     []models.News
	users    []models.User
	otps     map[string]models.OTP
	audit    []models.AuditRecord
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		profiles: make(map[string]models.Profile),
		otps:     make(map[string]models.OTP),
	}
}

func cloneProfile(p models.Profile) models.Profile {
	p.Dependents = slices.Clone(p.Dependents)
	p.Documents = slices.Clone(p.Documents)
	return p
}

func cloneScheme(s models.Scheme) models.Scheme {
	s.RequiredDocuments = slices.Clone(s.RequiredDocuments)
	r := &s.Eligibility
	r.MaritalStatuses = slices.Clone(r.MaritalStatuses)
	r.Districts = slices.Clone(r.Districts)
	r.RationCardTypes = slices.Clone(r.RationCardTypes)
	r.CasteCategories = slices.Clone(r.CasteCategories)
	r.Occupations = slices.Clone(r.Occupations)
	r.EducationLevels = slices.Clone(r.EducationLevels)
	r.HousingStatuses = slices.Clone(r.HousingStatuses)
	return s
}

// InsertProfile stores a new profile for its user.
func (s *Store) InsertProfile(ctx context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[profile.UserID]; exists {
		return models.ErrDuplicateProfile
	}
	if profile.ID.IsZero() {
		profile.ID = primitive.NewObjectID()
	}
	s.profiles[profile.UserID] = cloneProfile(*profile)
	return nil
}

// FindProfile returns the profile of userID.
func (s *Store) FindProfile(ctx context.Context, userID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, models.ErrProfileNotFound
	}
	p = cloneProfile(p)
	return &p, nil
}

// ReplaceProfile overwrites the profile when its stored version matches.
func (s *Store) ReplaceProfile(ctx context.Context, profile *models.Profile, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.profiles[profile.UserID]
	if !ok {
		return models.ErrProfileNotFound
	}
	if current.Version != expectedVersion {
		return models.ErrVersionConflict
	}
	s.profiles[profile.UserID] = cloneProfile(*profile)
	return nil
}

// InsertScheme appends a scheme to the catalogue.
func (s *Store) InsertScheme(ctx context.Context, scheme *models.Scheme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if scheme.ID.IsZero() {
		scheme.ID = primitive.NewObjectID()
	}
	s.schemes = append(s.schemes, cloneScheme(*scheme))
	return nil
}

// FindScheme returns the scheme with id.
func (s *Store) FindScheme(ctx context.Context, id primitive.ObjectID) (*models.Scheme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.schemeIndex(id)
	if i < 0 {
		return nil, models.ErrSchemeNotFound
	}
	sc := cloneScheme(s.schemes[i])
	return &sc, nil
}

// ListSchemes returns the catalogue in insertion order.
func (s *Store) ListSchemes(ctx context.Context) ([]models.Scheme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Scheme, 0, len(s.schemes))
	for _, sc := range s.schemes {
		out = append(out, cloneScheme(sc))
	}
	return out, nil
}

// ReplaceScheme overwrites a scheme when its stored version matches.
func (s *Store) ReplaceScheme(ctx context.Context, scheme *models.Scheme, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.schemeIndex(scheme.ID)
	if i < 0 {
		return models.ErrSchemeNotFound
	}
	if s.schemes[i].Version != expectedVersion {
		return models.ErrVersionConflict
	}
	s.schemes[i] = cloneScheme(*scheme)
	return nil
}

// DeleteScheme removes the scheme with id.
func (s *Store) DeleteScheme(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.schemeIndex(id)
	if i < 0 {
		return models.ErrSchemeNotFound
	}
	s.schemes = slices.Delete(s.schemes, i, i+1)
	return nil
}

func (s *Store) schemeIndex(id primitive.ObjectID) int {
	return slices.IndexFunc(s.schemes, func(sc models.Scheme) bool { return sc.ID == id })
}

// InsertNews stores a news item.
func (s *Store) InsertNews(ctx context.Context, news *models.News) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if news.ID.IsZero() {
		news.ID = primitive.NewObjectID()
	}
	s.news = append(s.news, *news)
	return nil
}

// FindNews returns the item with id.
func (s *Store) FindNews(ctx context.Context, id primitive.ObjectID) (*models.News, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.newsIndex(id)
	if i < 0 {
		return nil, models.ErrNewsNotFound
	}
	n := s.news[i]
	return &n, nil
}

// ListNews returns every item, newest first.
func (s *Store) ListNews(ctx context.Context) ([]models.News, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.news)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b models.News) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if out == nil {
		out = []models.News{}
	}
	return out, nil
}

// ReplaceNews overwrites an existing item.
func (s *Store) ReplaceNews(ctx context.Context, news *models.News) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.newsIndex(news.ID)
	if i < 0 {
		return models.ErrNewsNotFound
	}
	s.news[i] = *news
	return nil
}

// DeleteNews removes the item with id.
func (s *Store) DeleteNews(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.newsIndex(id)
	if i < 0 {
		return models.ErrNewsNotFound
	}
	s.news = slices.Delete(s.news, i, i+1)
	return nil
}

func (s *Store) newsIndex(id primitive.ObjectID) int {
	return slices.IndexFunc(s.news, func(n models.News) bool { return n.ID == id })
}

// InsertUser stores a new account. Email and username are unique.
func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return models.ErrEmailTaken
		}
		if u.Username == user.Username {
			return models.ErrUsernameTaken
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users = append(s.users, *user)
	return nil
}

// FindUserByID returns the account with id.
func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

// FindUserByEmail returns the account registered with email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

// SetEmailVerified marks the account's email as verified.
func (s *Store) SetEmailVerified(ctx context.Context, email string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if strings.EqualFold(s.users[i].Email, email) {
			s.users[i].IsEmailVerified = true
			s.users[i].UpdatedAt = at
			return nil
		}
	}
	return models.ErrUserNotFound
}

// ReplaceOTP drops any code held for the email and stores otp.
func (s *Store) ReplaceOTP(ctx context.Context, otp *models.OTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if otp.ID.IsZero() {
		otp.ID = primitive.NewObjectID()
	}
	s.otps[otp.Email] = *otp
	return nil
}

// FindOTP returns the code held for email, or nil.
func (s *Store) FindOTP(ctx context.Context, email string) (*models.OTP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	otp, ok := s.otps[email]
	if !ok {
		return nil, nil
	}
	return &otp, nil
}

// UpdateOTP saves the state of the current code for its email.
func (s *Store) UpdateOTP(ctx context.Context, otp *models.OTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.otps[otp.Email]
	if !ok || current.ID != otp.ID {
		return models.ErrOTPInvalid
	}
	s.otps[otp.Email] = *otp
	return nil
}

// WriteAudit appends a batch of audit records.
func (s *Store) WriteAudit(ctx context.Context, records []models.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.audit = append(s.audit, records...)
	return nil
}

// AuditRecords returns a copy of every audit record written so far.
func (s *Store) AuditRecords() []models.AuditRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.audit)
}
