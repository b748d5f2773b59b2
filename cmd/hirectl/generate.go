package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/VrindaSoni2/hire.ai/internal/app"
	"github.com/VrindaSoni2/hire.ai/internal/config"
	"github.com/VrindaSoni2/hire.ai/internal/interview"
	"github.com/VrindaSoni2/hire.ai/internal/llm"
	"github.com/VrindaSoni2/hire.ai/internal/logging"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate interview questions for a role",
	Example: `  hirectl generate --role "Backend Engineer" --skills Go,PostgreSQL --complexity 70 --count 5
  hirectl generate --role "Data Analyst" --skills SQL --document resume.pdf --provider mock`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.String("role", "", "Role the candidate is interviewing for")
	f.StringSlice("skills", nil, "Skills to cover (comma separated or repeated)")
	f.Int("complexity", interview.DefaultComplexity, "Question complexity from 0 to 100")
	f.Int("count", interview.DefaultQuestionCount, "Number of questions")
	f.String("document", "", "Optional resume or job description (pdf, txt, md, html)")
	f.String("media-type", "", "Media type of --document when the extension is ambiguous")
	f.String("provider", "", "Override LLM_PROVIDER (gemini, openai, anthropic, proxy, mock)")
	f.Bool("json", false, "Print the result as JSON")
	f.Bool("verbose", false, "Log pipeline progress to stderr")
	_ = generateCmd.MarkFlagRequired("role")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	role, _ := f.GetString("role")
	skills, _ := f.GetStringSlice("skills")
	complexity, _ := f.GetInt("complexity")
	count, _ := f.GetInt("count")
	docPath, _ := f.GetString("document")
	mediaType, _ := f.GetString("media-type")
	provider, _ := f.GetString("provider")
	asJSON, _ := f.GetBool("json")
	verbose, _ := f.GetBool("verbose")

	cfg := &config.App{Name: "hirectl", Env: "cli"}
	if err := config.LoadInto(&cfg.LLM); err != nil {
		return err
	}
	if err := config.LoadInto(&cfg.Generation); err != nil {
		return err
	}
	if provider != "" {
		cfg.LLM.Provider = provider
	}

	logger := zerolog.Nop()
	if verbose {
		logger = logging.New(cfg.Name, cfg.Env)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var client llm.Client
	if strings.EqualFold(cfg.LLM.Provider, "mock") {
		mock := llm.NewMockClient()
		mock.SetFallback(llm.MockReply{Text: sampleReply(skills, count)})
		client = llm.WithLogging(mock, "mock", logger)
	} else {
		c, err := llm.NewClient(ctx, cfg.LLM, logger)
		if err != nil {
			return fmt.Errorf("llm client: %w", err)
		}
		client = c
	}

	req := interview.GenerationRequest{
		Role:          role,
		Skills:        skills,
		Complexity:    complexity,
		QuestionCount: count,
	}
	if docPath != "" {
		data, err := os.ReadFile(docPath)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		req.Document = &interview.Document{Data: data, MediaType: mediaType, Filename: filepath.Base(docPath)}
	}

	if verbose {
		ctx = interview.WithTransitionObserver(ctx, func(t interview.StateTransition) {
			fmt.Fprintf(cmd.ErrOrStderr(), "state %s -> %s (attempt %d)\n", t.From, t.To, t.Attempt)
		})
	}

	result, err := app.NewPipeline(cfg, client, logger).GenerateQuestions(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	for _, q := range result.Questions {
		tag := ""
		if q.SkillTag != "" {
			tag = " [" + q.SkillTag + "]"
		}
		fmt.Fprintf(out, "%d. (%s)%s %s\n", q.Index+1, q.ExpectedDifficulty, tag, q.Text)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	return nil
}

// sampleReply gives the offline mock provider something shaped like a model answer.
func sampleReply(skills []string, count int) string {
	if len(skills) == 0 {
		skills = []string{"the role"}
	}
	type item struct {
		Text  string `json:"text"`
		Skill string `json:"skill"`
	}
	items := make([]item, 0, count)
	for i := 0; i < count; i++ {
		skill := skills[i%len(skills)]
		items = append(items, item{
			Text:  fmt.Sprintf("Describe a problem you solved with %s and the trade-offs you made (%d).", skill, i+1),
			Skill: skill,
		})
	}
	data, _ := json.Marshal(map[string]any{"questions": items})
	return string(data)
}
