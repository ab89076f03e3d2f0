package braindump

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/llm"
	"github.com/jryandunlap/brain-dump/internal/logger"
	"github.com/jryandunlap/brain-dump/internal/models/category"
	"github.com/jryandunlap/brain-dump/internal/models/goals"
	"github.com/jryandunlap/brain-dump/internal/models/task"
)

// Pipeline runs prompt construction, extraction, parsing and materialization.
// It does not touch storage.
type Pipeline struct {
	completer llm.Completer
}

func NewPipeline(completer llm.Completer) *Pipeline {
	return &Pipeline{completer: completer}
}

// Run returns the tasks to persist. Only an Extraction Service failure is an error;
// unusable output yields an empty list.
func (p *Pipeline) Run(ctx context.Context, userID string, categories []*category.Category, g *goals.Goals, dumpText string) ([]*task.Task, error) {
	start := time.Now()

	prompt := BuildPrompt(categories, g, dumpText)
	msg, err := p.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extract tasks: %w", err)
	}

	result := ParseResponse(msg.FirstText())
	tasks := Materialize(userID, categories, result.Tasks)

	logger.Info("Pipeline: brain dump processed",
		zap.String("user_id", userID),
		zap.Int("extracted", len(tasks)),
		zap.Bool("degraded", result.Degraded),
		zap.Duration("ms", time.Since(start)))
	return tasks, nil
}
