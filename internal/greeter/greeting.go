package greeter

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/iocboot/database"
	"github.com/kbukum/iocboot/database/query"
	apperrors "github.com/kbukum/iocboot/errors"
	"github.com/kbukum/iocboot/logger"
	"github.com/kbukum/iocboot/repository"
)

// DefaultLanguage is used when Greet is called without a language.
const DefaultLanguage = "en"

// Greeting counts how often a name was greeted in a language.
type Greeting struct {
	database.BaseModel
	Name     string `gorm:"not null;uniqueIndex:idx_greeting_name_language" json:"name"`
	Language string `gorm:"not null;uniqueIndex:idx_greeting_name_language" json:"language"`
	Count    int    `gorm:"not null;default:0" json:"count"`
}

// Greeter greets people and remembers whom it greeted.
type Greeter interface {
	// Greet returns the greeting for name in lang and records it.
	Greet(ctx context.Context, name, lang string) (string, error)
	// History lists recorded greetings matching filters.
	History(ctx context.Context, page query.Page, filters ...query.Condition) (*query.Result[*Greeting], error)
	// Forget deletes every greeting recorded for name for good, so the name
	// starts over at its next Greet.
	Forget(ctx context.Context, name string) (int64, error)
}

// Repository is the persistence contract of the greeter.
type Repository = repository.GuidRepository[*Greeting]

// Service is the default Greeter.
type Service struct {
	uow     *repository.UnitOfWork
	repo    Repository
	phrases Phrasebook
	log     *logger.Logger
}

var _ Greeter = (*Service)(nil)

// NewService creates a Service. It is the constructor the registrar binds.
func NewService(uow *repository.UnitOfWork, repo Repository, phrases Phrasebook, log *logger.Logger) Greeter {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Service{uow: uow, repo: repo, phrases: phrases, log: log.WithComponent("greeter")}
}

func (s *Service) Greet(ctx context.Context, name, lang string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.InvalidInput("name", "must not be empty")
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = DefaultLanguage
	}
	phrase, ok := s.phrases.Phrase(lang)
	if !ok {
		return "", apperrors.InvalidInput("language", fmt.Sprintf("%q is not supported", lang)).
			WithDetail("supported", strings.Join(s.phrases.Languages(), ","))
	}

	err := repository.Transact(ctx, s.uow, func(repo repository.Repository[*Greeting, uuid.UUID]) error {
		g, err := repo.SingleWhere(ctx, repository.And(
			repository.Eq("name", name),
			repository.Eq("language", lang),
		))
		switch {
		case apperrors.CodeOf(err) == apperrors.ErrCodeNotFound:
			return repo.Add(ctx, &Greeting{Name: name, Language: lang, Count: 1})
		case err != nil:
			return err
		}
		g.Count++
		return repo.Update(ctx, g)
	})
	if err != nil {
		s.log.WithContext(ctx).Error("recording greeting failed", logger.ErrorFields("greet", err))
		return "", err
	}

	s.log.WithContext(ctx).Debug("greeted", logger.Fields("name", name, "language", lang))
	return fmt.Sprintf(phrase, name), nil
}

func (s *Service) History(ctx context.Context, page query.Page, filters ...query.Condition) (*query.Result[*Greeting], error) {
	db, err := query.ApplyConditions(s.repo.QueryNoTracking(ctx), filters...)
	if err != nil {
		return nil, apperrors.InvalidInput("filter", err.Error())
	}
	if page.SortBy == "" {
		page.SortBy, page.Desc = "count", true
	}
	res, err := query.Paginate[*Greeting](db, page)
	if err != nil {
		return nil, database.FromDatabase(err, "greeting")
	}
	return res, nil
}

func (s *Service) Forget(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperrors.InvalidInput("name", "must not be empty")
	}
	n, err := s.repo.Purge(ctx, repository.Eq("name", name))
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, apperrors.NotFound("greeting", name)
	}
	s.log.WithContext(ctx).Info("greetings forgotten", logger.Fields("name", name, logger.FieldCount, n))
	return n, nil
}
