package mockapi

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v3"

	"visionlink/internal/types"
)

// PromptSpec is the YAML chatbot prompt: a system text and sampling style.
type PromptSpec struct {
	System string `yaml:"system"`
	Style  struct {
		Temperature float32 `yaml:"temperature"`
		Language    string  `yaml:"language"`
		MaxTokens   int     `yaml:"max_tokens"`
	} `yaml:"style"`
}

// LoadPromptSpec reads path, or the built-in prompt when path is empty.
func LoadPromptSpec(path string) (PromptSpec, error) {
	var (
		b   []byte
		err error
	)
	if path == "" {
		b, err = defaultData.ReadFile("data/chatbot.yaml")
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return PromptSpec{}, err
	}
	var spec PromptSpec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return PromptSpec{}, fmt.Errorf("parse chatbot prompt: %w", err)
	}
	if strings.TrimSpace(spec.System) == "" {
		return PromptSpec{}, fmt.Errorf("chatbot prompt has no system text")
	}
	return spec, nil
}

// OpenAIReplier asks a chat completion model, grounding it on the catalog.
type OpenAIReplier struct {
	spec   PromptSpec
	client *openai.Client
	model  string
	plans  func() []types.Plan
}

func NewOpenAIReplier(spec PromptSpec, client *openai.Client, model string, plans func() []types.Plan) *OpenAIReplier {
	return &OpenAIReplier{spec: spec, client: client, model: model, plans: plans}
}

func (o *OpenAIReplier) Reply(ctx context.Context, history []types.ChatExchange, message string) (string, error) {
	temperature := o.spec.Style.Temperature
	if temperature <= 0 {
		temperature = 0.3
	}
	maxTok := o.spec.Style.MaxTokens
	if maxTok <= 0 {
		maxTok = 250
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: temperature,
		MaxTokens:   maxTok,
		Messages:    o.buildMessages(history, message),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices")
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("empty completion")
	}
	return reply, nil
}

func (o *OpenAIReplier) buildMessages(history []types.ChatExchange, message string) []openai.ChatCompletionMessage {
	var sys strings.Builder
	sys.WriteString(o.spec.System)
	sys.WriteString("\n\nPlanos disponíveis: ")
	sys.WriteString(summarizePlans(o.plans()))
	sys.WriteString(".")

	out := make([]openai.ChatCompletionMessage, 0, 2+2*len(history))
	out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: sys.String()})
	for _, h := range history {
		out = append(out,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: h.Message},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: h.Response},
		)
	}
	return append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})
}
