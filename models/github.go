package models

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms/openai"
)

// GitHubModelsBaseURL is the OpenAI-compatible endpoint of the GitHub Models API.
const GitHubModelsBaseURL = "https://models.github.ai/inference"

// ErrMissingToken is returned when a constructor is called without an API token.
var ErrMissingToken = errors.New("api token is required")

// githubHeaderTransport injects GitHub-specific headers into every request.
type githubHeaderTransport struct {
	base http.RoundTripper
}

func (t *githubHeaderTransport) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	return t.base.RoundTrip(req)
}

// NewGitHubModel creates a model backed by the GitHub Models API.
//
// The token must be a fine-grained personal access token with the models:read permission.
// Model names use the publisher/model format, see the GitHub* constants. Extra openai
// options are applied last so they can override the defaults.
//
//	model, err := models.NewGitHubModel(models.GitHubGPT41Mini, os.Getenv("GITHUB_TOKEN"))
func NewGitHubModel(model, token string, opts ...openai.Option) (*LCG, error) {
	if token == "" {
		return nil, fmt.Errorf(
			"github models: %w: create a fine-grained PAT with models:read "+
				"at https://github.com/settings/personal-access-tokens/new",
			ErrMissingToken,
		)
	}

	base := []openai.Option{
		openai.WithBaseURL(GitHubModelsBaseURL),
		openai.WithToken(token),
		openai.WithModel(model),
		openai.WithHTTPClient(&githubHeaderTransport{base: http.DefaultTransport}),
	}
	llm, err := openai.New(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub Models client: %w", err)
	}
	return NewLCG(llm).WithModelName(model), nil
}

// NewOpenAICompatible creates a model for any OpenAI-compatible chat completions endpoint
// (OpenAI, xAI, Ollama, vLLM, ...). An empty baseURL uses the OpenAI default.
func NewOpenAICompatible(baseURL, model, token string, opts ...openai.Option) (*LCG, error) {
	if token == "" {
		return nil, fmt.Errorf("openai-compatible: %w", ErrMissingToken)
	}

	base := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(model),
	}
	if baseURL != "" {
		base = append(base, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI-compatible client: %w", err)
	}
	return NewLCG(llm).WithModelName(model), nil
}
