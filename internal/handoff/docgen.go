package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"draftdeck.app/refinery/internal/model"
)

// DesignDoc is the structured long-form expansion of a finalized
// template, generated with a schema-constrained completion so the
// shape is guaranteed.
type DesignDoc struct {
	Overview      string   `json:"overview" jsonschema_description:"Two to three paragraphs framing the problem and the user outcome"`
	Approach      string   `json:"approach" jsonschema_description:"Proposed technical approach"`
	Scope         []string `json:"scope" jsonschema_description:"What is in scope, one item per entry"`
	OutOfScope    []string `json:"out_of_scope" jsonschema_description:"What is explicitly out of scope"`
	Risks         []string `json:"risks" jsonschema_description:"Known risks and mitigations"`
	OpenQuestions []string `json:"open_questions" jsonschema_description:"Unresolved questions for the team"`
}

// DocGeneratorConfig configures the design-doc completion call.
type DocGeneratorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func (c DocGeneratorConfig) Enabled() bool { return c.APIKey != "" }

// DocGenerator expands a template into a design doc via a
// non-streaming structured completion.
type DocGenerator struct {
	openai openai.Client
	model  string
}

func NewDocGenerator(cfg DocGeneratorConfig) *DocGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	mdl := cfg.Model
	if mdl == "" {
		mdl = "gpt-4o-mini"
	}

	return &DocGenerator{openai: openai.NewClient(opts...), model: mdl}
}

func (g *DocGenerator) Generate(ctx context.Context, itemType model.WorkItemType, title, description string, acceptance []string) (*DesignDoc, error) {
	tpl := model.CatalogDefault(itemType)

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "%s: %s\n\n%s\n\n%s:\n", tpl.Label, title, description, tpl.ListLabel)
	for i, item := range acceptance {
		fmt.Fprintf(&prompt, "%d. %s\n", i+1, item)
	}

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "design_doc",
		Description: openai.String("Design document expansion of a work item"),
		Schema:      generateSchema[DesignDoc](),
		Strict:      openai.Bool(true),
	}

	start := time.Now()
	resp, err := g.openai.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You expand refined work items into concise engineering design documents. Be concrete and skip filler."),
			openai.UserMessage(prompt.String()),
		},
		MaxTokens: openai.Int(2000),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generating design doc: %w", err)
	}

	slog.DebugContext(ctx, "design doc generated",
		"model", g.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	var doc DesignDoc
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal design doc: %w", err)
	}
	return &doc, nil
}

// StorageBody renders the doc as Confluence storage-format markup.
func (d *DesignDoc) StorageBody() string {
	var b strings.Builder

	section := func(heading, text string) {
		if text == "" {
			return
		}
		fmt.Fprintf(&b, "<h2>%s</h2><p>%s</p>", html.EscapeString(heading), html.EscapeString(text))
	}
	list := func(heading string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "<h2>%s</h2><ul>", html.EscapeString(heading))
		for _, item := range items {
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(item))
		}
		b.WriteString("</ul>")
	}

	section("Overview", d.Overview)
	section("Approach", d.Approach)
	list("Scope", d.Scope)
	list("Out of Scope", d.OutOfScope)
	list("Risks", d.Risks)
	list("Open Questions", d.OpenQuestions)

	return b.String()
}

func generateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
