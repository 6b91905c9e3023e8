// Package proposals turns a short prompt into proposal text. Generation is an
// opaque capability behind TextGenerator; the default implementation is a
// deterministic template so the application works without an external model.
package proposals

import (
	"context"
	"fmt"
	"strings"
)

// TextGenerator produces proposal content from a prompt
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TemplateGenerator is the built-in generator: a fixed proposal skeleton with
// the prompt folded into the scope section.
type TemplateGenerator struct {
	CompanyName string
}

// NewTemplateGenerator creates the default generator
func NewTemplateGenerator(companyName string) *TemplateGenerator {
	if companyName == "" {
		companyName = "Golexcel"
	}
	return &TemplateGenerator{CompanyName: companyName}
}

// Generate renders the proposal skeleton for a prompt
func (g *TemplateGenerator) Generate(_ context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("prompt is required")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Proposal\n\n")
	fmt.Fprintf(&b, "Prepared by %s\n\n", g.CompanyName)
	fmt.Fprintf(&b, "## Scope\n\n%s\n\n", prompt)
	b.WriteString("## Approach\n\n")
	b.WriteString("We begin with a discovery phase to align on goals, timeline, and success criteria. ")
	b.WriteString("Delivery proceeds in short iterations with a review checkpoint at the end of each.\n\n")
	b.WriteString("## Next Steps\n\n")
	b.WriteString("Reply to this proposal to schedule a kickoff call.\n")
	return b.String(), nil
}
