package vapi

// Fixed assistant configuration. The platform requires the full model
// block on every PATCH, so these identify the model on updates too.
const (
	defaultModelProvider  = "openai"
	defaultModelName      = "gpt-4o-mini"
	defaultVoiceProvider  = "openai"
	defaultVoiceID        = "nova"
	knowledgeBaseProvider = "google"

	defaultFirstMessage = "Hello, thank you for calling. How can I help you today?"
)

// NewAssistantRequest builds the creation payload for a clinic assistant
// with the fixed model/voice configuration and the given seed prompt.
func NewAssistantRequest(name, systemPrompt string) AssistantRequest {
	return AssistantRequest{
		Name: name,
		Model: ModelConfig{
			Provider:     defaultModelProvider,
			Model:        defaultModelName,
			SystemPrompt: systemPrompt,
		},
		Voice: VoiceConfig{
			Provider: defaultVoiceProvider,
			VoiceID:  defaultVoiceID,
		},
		FirstMessage:           defaultFirstMessage,
		EndCallFunctionEnabled: true,
		ResponseDelaySeconds:   0.5,
	}
}
