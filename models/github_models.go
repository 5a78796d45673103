package models

// GitHubModel is a model ID for the GitHub Models API, in "publisher/model-name" form.
//
// The list is not exhaustive. The full catalog is served at
// https://models.github.ai/catalog/models.
type GitHubModel = string

// OpenAI
const (
	GitHubGPT41     GitHubModel = "openai/gpt-4.1"
	GitHubGPT41Mini GitHubModel = "openai/gpt-4.1-mini"
	GitHubGPT41Nano GitHubModel = "openai/gpt-4.1-nano"
	GitHubGPT4o     GitHubModel = "openai/gpt-4o"
	GitHubGPT4oMini GitHubModel = "openai/gpt-4o-mini"
	GitHubO3Mini    GitHubModel = "openai/o3-mini"
	GitHubO4Mini    GitHubModel = "openai/o4-mini"
)

// Open-weight models
const (
	GitHubLlama33_70B   GitHubModel = "meta-llama/llama-3.3-70b-instruct"
	GitHubLlama4Scout   GitHubModel = "meta-llama/llama-4-scout-17b-16e-instruct"
	GitHubLlama31_8B    GitHubModel = "meta-llama/meta-llama-3.1-8b-instruct"
	GitHubMistralSmall  GitHubModel = "mistralai/mistral-small-3.1"
	GitHubDeepSeekV3    GitHubModel = "deepseek/deepseek-v3-0324"
	GitHubPhi4MiniInstr GitHubModel = "azureml/Phi-4-mini-instruct"
)
