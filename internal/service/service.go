// Package service implements the chat-to-task pipeline: classification,
// field extraction, task resolution and operation execution.
package service

import (
	"github.com/xiaot623/taskchat/internal/adapter/llm"
	"github.com/xiaot623/taskchat/internal/adapter/taskapi"
	"github.com/xiaot623/taskchat/internal/config"
	"github.com/xiaot623/taskchat/internal/store"
	"github.com/xiaot623/taskchat/policy"
)

type Service struct {
	store        store.Store
	llmClient    llm.CompletionClient
	taskClient   *taskapi.Client
	config       *config.Config
	policyEngine *policy.Engine
}

func New(db store.Store, llmClient llm.CompletionClient, taskClient *taskapi.Client, cfg *config.Config, policyEngine *policy.Engine) *Service {
	return &Service{
		store:        db,
		llmClient:    llmClient,
		taskClient:   taskClient,
		config:       cfg,
		policyEngine: policyEngine,
	}
}
