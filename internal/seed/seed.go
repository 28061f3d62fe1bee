// Package seed loads the reference subject/topic taxonomy.
package seed

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"qbank/internal/models"
	"qbank/internal/services"
)

type Subject struct {
	Name   string
	Topics []string
}

// ENEM is the taxonomy of the Brazilian national high-school exam.
var ENEM = []Subject{
	{
		Name:   "Ciências Humanas e suas Tecnologias",
		Topics: []string{"História", "Geografia", "Filosofia", "Sociologia"},
	},
	{
		Name:   "Ciências da Natureza e suas Tecnologias",
		Topics: []string{"Biologia", "Física", "Química"},
	},
	{
		Name:   "Linguagens, Códigos e suas Tecnologias",
		Topics: []string{"Interpretação de Texto", "Gramática", "Literatura", "Artes"},
	},
	{
		Name:   "Matemática e suas Tecnologias",
		Topics: []string{"Álgebra", "Geometria", "Estatística e Probabilidade", "Aritmética"},
	},
	{
		Name:   "Redação",
		Topics: []string{"Estrutura Dissertativa", "Coesão e Coerência", "Proposta de Intervenção", "Argumentação"},
	},
	{
		Name:   "Língua Inglesa",
		Topics: []string{"Reading Comprehension", "Vocabulary", "Grammar"},
	},
	{
		Name:   "Língua Espanhola",
		Topics: []string{"Lectura y Comprensión", "Vocabulario", "Gramática"},
	},
}

type SubjectStore interface {
	Create(ctx context.Context, req models.CreateSubjectRequest) (*models.Subject, error)
	List(ctx context.Context) ([]models.Subject, error)
}

type TopicStore interface {
	Create(ctx context.Context, req models.CreateTopicRequest) (*models.Topic, error)
}

type Result struct {
	SubjectsCreated int
	SubjectsSkipped int
	TopicsCreated   int
	TopicsSkipped   int
}

// Run creates every subject and topic in data that does not exist yet.
// Existing rows are left untouched, so running it again is a no-op.
func Run(ctx context.Context, subjects SubjectStore, topics TopicStore, data []Subject, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res Result

	byName, err := subjectsByName(ctx, subjects)
	if err != nil {
		return res, err
	}

	for _, s := range data {
		subject, ok := byName[s.Name]
		if ok {
			res.SubjectsSkipped++
		} else {
			created, err := subjects.Create(ctx, models.CreateSubjectRequest{Name: s.Name})
			switch {
			case err == nil:
				subject = *created
				res.SubjectsCreated++
			case hasCode(err, "subject_exists"):
				// created concurrently
				if byName, err = subjectsByName(ctx, subjects); err != nil {
					return res, err
				}
				if subject, ok = byName[s.Name]; !ok {
					return res, oops.In("seed").Code("SEED_FAILED").With("subject", s.Name).Errorf("subject vanished during seed")
				}
				res.SubjectsSkipped++
			default:
				return res, oops.In("seed").Code("SEED_FAILED").With("subject", s.Name).Wrap(err)
			}
		}

		for _, name := range s.Topics {
			_, err := topics.Create(ctx, models.CreateTopicRequest{Name: name, SubjectID: subject.ID})
			switch {
			case err == nil:
				res.TopicsCreated++
			case hasCode(err, "topic_exists"):
				res.TopicsSkipped++
			default:
				return res, oops.In("seed").Code("SEED_FAILED").With("subject", s.Name).With("topic", name).Wrap(err)
			}
		}
		logger.InfoContext(ctx, "seeded subject", "subject", s.Name, "topics", len(s.Topics))
	}

	logger.InfoContext(ctx, "seed finished",
		"subjects_created", res.SubjectsCreated,
		"subjects_skipped", res.SubjectsSkipped,
		"topics_created", res.TopicsCreated,
		"topics_skipped", res.TopicsSkipped,
	)
	return res, nil
}

func subjectsByName(ctx context.Context, subjects SubjectStore) (map[string]models.Subject, error) {
	list, err := subjects.List(ctx)
	if err != nil {
		return nil, oops.In("seed").Code("SEED_FAILED").Wrap(err)
	}
	out := make(map[string]models.Subject, len(list))
	for _, s := range list {
		out[s.Name] = s
	}
	return out, nil
}

func hasCode(err error, code string) bool {
	appErr, ok := services.AsAppError(err)
	return ok && appErr.Code == code
}
