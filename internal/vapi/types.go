package vapi

import (
	"time"
)

// ModelConfig is the assistant's language-model configuration as the
// platform represents it. KnowledgeBase rides along on updates so file
// attachments survive prompt changes.
type ModelConfig struct {
	Provider      string         `json:"provider"`
	Model         string         `json:"model"`
	SystemPrompt  string         `json:"systemPrompt,omitempty"`
	KnowledgeBase *KnowledgeBase `json:"knowledgeBase,omitempty"`
}

// KnowledgeBase lists the file ids attached to an assistant.
type KnowledgeBase struct {
	Provider string   `json:"provider"`
	FileIDs  []string `json:"fileIds"`
}

// VoiceConfig is the assistant's voice configuration.
type VoiceConfig struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

// AssistantRequest is the payload for creating an assistant.
type AssistantRequest struct {
	Name                   string      `json:"name"`
	Model                  ModelConfig `json:"model"`
	Voice                  VoiceConfig `json:"voice"`
	FirstMessage           string      `json:"firstMessage,omitempty"`
	EndCallFunctionEnabled bool        `json:"endCallFunctionEnabled"`
	ResponseDelaySeconds   float64     `json:"responseDelaySeconds"`
}

// Assistant is the platform's view of a hosted assistant.
type Assistant struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Model ModelConfig `json:"model"`
}

// FileIDs returns the knowledge-base file ids, or nil when none are attached.
func (a *Assistant) FileIDs() []string {
	if a.Model.KnowledgeBase == nil {
		return nil
	}
	return a.Model.KnowledgeBase.FileIDs
}

// PhoneNumber is the platform's view of a provisioned telephony number.
type PhoneNumber struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

// File is the platform's view of an uploaded document.
type File struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Customer holds the caller side of a call record.
type Customer struct {
	Number string `json:"number"`
}

// Call is one entry of the platform's call list.
type Call struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	Customer  *Customer  `json:"customer,omitempty"`
}
