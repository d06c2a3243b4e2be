package http

import (
	"harvestcycle/internal/application/replacement/usecases"
	"harvestcycle/internal/domain/replacement"
	"harvestcycle/internal/shared/services/markdown"
)

type allUseCases struct {
	createRequestUC *usecases.CreateReplacementRequestUseCase
	listMyUC        *usecases.ListMyReplacementRequestsUseCase
	listRequestsUC  *usecases.ListReplacementRequestsUseCase
	updateRequestUC *usecases.UpdateReplacementRequestUseCase
	applyRequestUC  *usecases.ApplyReplacementRequestUseCase
	getCycleUC      *usecases.GetCycleUseCase
}

func (c *Container) newUseCases() *allUseCases {
	repo := c.repos.replacementRepo
	monthlyCap := c.cfg.Replacement.MonthlyCap
	quota := replacement.NewQuotaTracker(c.clock, repo, monthlyCap)
	sanitizer := markdown.NewMarkdownService()

	createUC := usecases.NewCreateReplacementRequestUseCase(
		repo, quota, c.clock, c.repos.txManager, c.subscriberLocker(), sanitizer, c.dispatcher, c.now, c.log.Named("replacement.create"),
	)
	updateUC := usecases.NewUpdateReplacementRequestUseCase(
		repo, sanitizer, c.dispatcher, c.clock.Location(), c.now, c.log.Named("replacement.update"),
	)

	return &allUseCases{
		createRequestUC: createUC,
		listMyUC:        usecases.NewListMyReplacementRequestsUseCase(repo, quota, c.clock, c.now, c.log.Named("replacement.mine")),
		listRequestsUC:  usecases.NewListReplacementRequestsUseCase(repo, c.clock, monthlyCap, c.now, c.log.Named("replacement.list")),
		updateRequestUC: updateUC,
		applyRequestUC:  usecases.NewApplyReplacementRequestUseCase(updateUC),
		getCycleUC:      usecases.NewGetCycleUseCase(c.clock, c.now),
	}
}
