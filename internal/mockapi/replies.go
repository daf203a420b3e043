package mockapi

import (
	"context"
	"fmt"
	"strings"

	"visionlink/internal/types"
)

// Replier produces the chatbot answer for one message.
type Replier interface {
	Reply(ctx context.Context, history []types.ChatExchange, message string) (string, error)
}

type replyIntent string

const (
	intentUnknown   replyIntent = "unknown"
	intentGreeting  replyIntent = "greeting"
	intentPlans     replyIntent = "plans"
	intentSubscribe replyIntent = "subscribe"
	intentSupport   replyIntent = "support"
	intentThanks    replyIntent = "thanks"
)

// detectIntent is a keyword heuristic over Portuguese and English phrasing.
// Order matters: "quero assinar o plano" is a subscription, not a catalog question.
func detectIntent(message string) replyIntent {
	m := strings.ToLower(strings.TrimSpace(message))
	if m == "" {
		return intentUnknown
	}
	switch {
	case containsAny(m, []string{"assinar", "contratar", "subscribe", "sign up", "quero o plano"}):
		return intentSubscribe
	case containsAny(m, []string{"plano", "planos", "preço", "preco", "valor", "quanto custa", "velocidade", "mbps", "plan", "price"}):
		return intentPlans
	case containsAny(m, []string{"suporte", "problema", "lenta", "caiu", "sem internet", "técnico", "tecnico", "support", "not working"}):
		return intentSupport
	case containsAny(m, []string{"obrigad", "valeu", "thanks", "thank you"}):
		return intentThanks
	case containsAny(m, []string{"oi", "olá", "ola", "bom dia", "boa tarde", "boa noite", "hello", "hi"}):
		return intentGreeting
	}
	return intentUnknown
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// KeywordReplier answers from canned texts plus the live plan catalog.
type KeywordReplier struct {
	plans func() []types.Plan
}

func NewKeywordReplier(plans func() []types.Plan) *KeywordReplier {
	return &KeywordReplier{plans: plans}
}

func (k *KeywordReplier) Reply(_ context.Context, _ []types.ChatExchange, message string) (string, error) {
	switch detectIntent(message) {
	case intentGreeting:
		return "Olá! Sou o assistente da VisionLink. Posso ajudar com planos, contratação ou suporte.", nil
	case intentPlans:
		return "Nossos planos: " + summarizePlans(k.plans()) + ".", nil
	case intentSubscribe:
		return "Para contratar, entre na sua conta e escolha o plano na página de planos. A instalação é grátis!", nil
	case intentSupport:
		return "Sinto muito pelo problema. Reinicie o roteador e, se continuar, nosso suporte 24h atende pelo 0800 000 0000.", nil
	case intentThanks:
		return "Por nada! Qualquer dúvida, é só chamar.", nil
	}
	return "Não entendi bem. Você pode perguntar sobre planos, contratação ou suporte técnico.", nil
}

func summarizePlans(plans []types.Plan) string {
	parts := make([]string, 0, len(plans))
	for _, p := range plans {
		parts = append(parts, fmt.Sprintf("%s (%d Mbps) por %s", p.Name, p.SpeedMbps, p.Price))
	}
	if len(parts) == 0 {
		return "nenhum plano disponível no momento"
	}
	return strings.Join(parts, "; ")
}
