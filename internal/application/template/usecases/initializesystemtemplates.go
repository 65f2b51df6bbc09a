package usecases

import (
	"context"
	"fmt"

	"github.com/rewardsboard/eventcast/internal/application/template/dto"
	"github.com/rewardsboard/eventcast/internal/domain/template"
	"github.com/rewardsboard/eventcast/internal/shared/biztime"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// DefinitionSource supplies the built-in template catalogue.
type DefinitionSource interface {
	Load() ([]template.Definition, error)
}

// TransactionRunner runs fn inside a single database transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// InitializeSystemTemplatesUseCase seeds missing system templates. It is
// idempotent: a system template whose name already exists is skipped.
type InitializeSystemTemplatesUseCase struct {
	repo   template.Repository
	source DefinitionSource
	tx     TransactionRunner
	logger logger.Interface
}

func NewInitializeSystemTemplatesUseCase(
	repo template.Repository,
	source DefinitionSource,
	tx TransactionRunner,
	logger logger.Interface,
) *InitializeSystemTemplatesUseCase {
	return &InitializeSystemTemplatesUseCase{
		repo:   repo,
		source: source,
		tx:     tx,
		logger: logger,
	}
}

func (uc *InitializeSystemTemplatesUseCase) Execute(ctx context.Context) (*dto.InitializeSystemTemplatesResponse, error) {
	uc.logger.Infow("executing initialize system templates use case")

	defs, err := uc.source.Load()
	if err != nil {
		uc.logger.Errorw("failed to load system template catalogue", "error", err)
		return nil, fmt.Errorf("failed to load system templates: %w", err)
	}

	result := &dto.InitializeSystemTemplatesResponse{
		Created: []string{},
		Skipped: []string{},
	}

	seed := func(ctx context.Context) error {
		now := biztime.NowUTC()
		for _, def := range defs {
			exists, err := uc.repo.ExistsSystemTemplate(ctx, def.Name)
			if err != nil {
				return fmt.Errorf("failed to check system template %q: %w", def.Name, err)
			}
			if exists {
				result.Skipped = append(result.Skipped, def.Name)
				continue
			}

			tpl, err := template.NewSystemTemplate(def, now)
			if err != nil {
				return fmt.Errorf("invalid system template %q: %w", def.Name, err)
			}
			if err := uc.repo.Create(ctx, tpl); err != nil {
				return fmt.Errorf("failed to create system template %q: %w", def.Name, err)
			}
			result.Created = append(result.Created, def.Name)
		}
		return nil
	}

	if uc.tx != nil {
		err = uc.tx.RunInTransaction(ctx, seed)
	} else {
		err = seed(ctx)
	}
	if err != nil {
		uc.logger.Errorw("failed to initialize system templates", "error", err)
		return nil, err
	}

	uc.logger.Infow("system templates initialized",
		"created", len(result.Created),
		"skipped", len(result.Skipped),
	)
	return result, nil
}
