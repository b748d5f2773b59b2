package app

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VrindaSoni2/hire.ai/internal/config"
	"github.com/VrindaSoni2/hire.ai/internal/interview"
	"github.com/VrindaSoni2/hire.ai/internal/llm"
)

func TestNewPipelineAppliesConfig(t *testing.T) {
	cfg := &config.App{
		LLM:        config.LLM{Provider: "mock"},
		Generation: config.Generation{MaxQuestions: 2, MaxAttempts: 1},
	}
	client := llm.NewMockClient(llm.MockReply{Text: "1. What is a goroutine?\n2. What is a channel?\n3. What is select?"})

	svc := NewPipeline(cfg, client, zerolog.Nop())
	assert.Equal(t, 2, svc.Limits().MaxQuestions)

	res, err := svc.GenerateQuestions(context.Background(), interview.GenerationRequest{
		Role:          "Go Developer",
		Skills:        []string{"Go"},
		Complexity:    10,
		QuestionCount: 5,
	})
	require.NoError(t, err)
	require.Len(t, res.Questions, 2)
	assert.Equal(t, interview.DifficultyEasy, res.Questions[0].ExpectedDifficulty)
	assert.NotEmpty(t, res.Warnings, "clamped question count is reported")
	assert.False(t, res.Degraded)
	assert.Equal(t, 1, client.CallCount())
}
