package executor

import (
	"fmt"
	"strings"

	"github.com/BaSui01/dynabaml/schema"
	"github.com/BaSui01/dynabaml/types"
)

// clientNames maps provider identifiers to the client blocks rendered into
// clients.baml.
var clientNames = map[types.ProviderID]string{
	types.ProviderOllama:     "Ollama",
	types.ProviderOpenAI:     "OpenAI",
	types.ProviderAnthropic:  "Anthropic",
	types.ProviderOpenRouter: "OpenRouter",
}

func clientName(id types.ProviderID) string {
	if n, ok := clientNames[id]; ok {
		return n
	}
	return "Ollama"
}

// renderFunction emits the extraction function tying the root type to the
// selected client.
func renderFunction(functionName, rootName, client, prompt string) string {
	return fmt.Sprintf(`function %s(input_text: string) -> %s {
  client %s
  prompt #"
    %s

    INPUT TEXT:
    ---
    {{ input_text }}
    ---

    {{ ctx.output_format }}
  "#
}
`, functionName, rootName, client, prompt)
}

// renderGenerators emits the generator block for the external runtime.
func renderGenerators() string {
	return `generator target {
  output_type "rest/openapi"
  output_dir "../"
  version "0.89.0"
}
`
}

// renderClients emits one client block per backend, defaulting models per
// provider and resolving cloud credentials from the environment.
func renderClients(opts types.ProviderOptions) string {
	model := func(id types.ProviderID, fallback string) string {
		if opts.Provider == id && opts.Model != "" {
			return opts.Model
		}
		return fallback
	}
	ollamaBase := "http://localhost:11434/v1"
	if opts.Provider == types.ProviderOllama && opts.BaseURL != "" {
		ollamaBase = strings.TrimRight(opts.BaseURL, "/") + "/v1"
	}

	return fmt.Sprintf(`client<llm> Ollama {
  provider openai-generic
  options {
    model "%s"
    base_url "%s"
    api_key "dummy"
  }
}

client<llm> OpenAI {
  provider openai
  options {
    model "%s"
    api_key env.OPENAI_API_KEY
  }
}

client<llm> Anthropic {
  provider anthropic
  options {
    model "%s"
    api_key env.ANTHROPIC_API_KEY
  }
}

client<llm> OpenRouter {
  provider openai-generic
  options {
    model "%s"
    api_key env.OPENROUTER_API_KEY
    base_url "https://openrouter.ai/api/v1"
  }
}
`,
		model(types.ProviderOllama, "gemma3:1b"),
		ollamaBase,
		model(types.ProviderOpenAI, "gpt-4o"),
		model(types.ProviderAnthropic, "claude-3-5-sonnet-20241022"),
		model(types.ProviderOpenRouter, "google/gemini-2.0-flash-exp"))
}

// renderOutputFormat turns the compiled schema into the response-format
// block appended to the provider prompt.
func renderOutputFormat(cs *schema.CompiledSchema) string {
	var b strings.Builder
	b.WriteString("Answer with a single JSON object conforming to type ")
	b.WriteString(cs.RootName)
	b.WriteString(" below. Output only the JSON object, no prose.\n\n")
	b.WriteString(cs.Code)
	return b.String()
}
