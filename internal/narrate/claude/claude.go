// Package claude generates a short patient-facing narrative for a
// completed assessment using the Anthropic API.
package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/linnemanlabs/intake/internal/triage"
)

const maxNarrativeTokens = 512

// Narrator implements triage.Narrator over the Anthropic messages API.
type Narrator struct {
	client anthropic.Client
	model  string
}

// New creates a narrator with the given API key and model name.
func New(apiKey, model string) *Narrator {
	return &Narrator{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Narrate turns a verdict into two or three plain sentences a patient can
// read. The classifier's explanations are input facts; the model must not
// invent clinical detail beyond them.
func (n *Narrator) Narrate(ctx context.Context, p *triage.Patient, v *triage.Verdict) (string, error) {
	msg, err := n.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(n.model),
		MaxTokens: maxNarrativeTokens,
		System: []anthropic.TextBlockParam{{
			Text: systemPrompt,
		}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(p, v))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("narrate: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

const systemPrompt = `You are a medical intake assistant. Rewrite a triage verdict as a short,
calm message for the patient. Two or three sentences, plain language, no
medical jargon, no diagnosis beyond the given explanations, no treatment
advice. Mention the assessed risk level and the recommended department.`

func buildPrompt(p *triage.Patient, v *triage.Verdict) string {
	return fmt.Sprintf(`Patient: %s
Assessed risk level: %s
Recommended department: %s

Why this risk level:
%s

Why this department:
%s`,
		p.Name,
		v.Risk,
		v.Department,
		v.RiskExplanation,
		v.DepartmentExplanation,
	)
}
