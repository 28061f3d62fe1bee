// Package memory provides in-process implementations of the repository
// interfaces. All repositories built from one Store share a single lock, so a
// multi-entity write is atomic with respect to every reader.
package memory

import (
	"sync"
	"time"

	"qbank/internal/interfaces"
	"qbank/internal/models"
)

type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users        map[string]models.User
	resets       map[string]models.PasswordResetToken
	subjects     map[string]models.Subject
	topics       map[string]models.Topic
	questions    map[string]questionRow
	alternatives map[string][]models.Alternative
}

type questionRow struct {
	ID        string
	Text      string
	SubjectID string
	TopicIDs  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewStore() *Store {
	return &Store{
		now:          time.Now,
		users:        map[string]models.User{},
		resets:       map[string]models.PasswordResetToken{},
		subjects:     map[string]models.Subject{},
		topics:       map[string]models.Topic{},
		questions:    map[string]questionRow{},
		alternatives: map[string][]models.Alternative{},
	}
}

func (s *Store) Users() interfaces.UserRepository                   { return &userRepository{s} }
func (s *Store) PasswordResets() interfaces.PasswordResetRepository { return &passwordResetRepository{s} }
func (s *Store) Subjects() interfaces.SubjectRepository             { return &subjectRepository{s} }
func (s *Store) Topics() interfaces.TopicRepository                 { return &topicRepository{s} }
func (s *Store) Questions() interfaces.QuestionRepository           { return &questionRepository{s} }

// ResetTokensFor returns every reset token issued to userID, oldest first.
func (s *Store) ResetTokensFor(userID string) []models.PasswordResetToken {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.PasswordResetToken
	for _, t := range s.resets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sortBy(out, func(a, b models.PasswordResetToken) bool { return a.CreatedAt.Before(b.CreatedAt) })
	return out
}

func (s *Store) ts() time.Time {
	return s.now().UTC()
}
