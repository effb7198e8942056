// Package rag drives one chat session: retrieve the chunks nearest to a
// question, send them with the running transcript to the chat model, and
// record the completed turn.
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"document-chat/internal/config"
	"document-chat/internal/helper"
	"document-chat/internal/index"
	"document-chat/internal/llmservice"
	"document-chat/internal/models"
)

var (
	// ErrNotReady means Ask was called before the index was built.
	ErrNotReady = errors.New("chat session not ready")
	// ErrCompletion wraps failures of the external chat-completion service.
	ErrCompletion = errors.New("completion service failed")
)

// Session owns the transcript for one chat session. It is created after
// ingest and discarded when the loop ends; a failed Ask never records a turn.
type Session struct {
	id         string
	index      index.Index
	llm        llms.Model
	topK       int
	transcript []models.ConversationTurn
}

func NewSession(idx index.Index, llm llms.Model, cfg *config.Config) *Session {
	id, err := helper.GenerateUUID()
	if err != nil {
		id = "session"
	}
	topK := cfg.RAG.TopK
	if topK <= 0 {
		topK = 4
	}
	return &Session{
		id:    id,
		index: idx,
		llm:   llm,
		topK:  topK,
	}
}

func (s *Session) ID() string { return s.id }

// Transcript returns the recorded turns in order.
func (s *Session) Transcript() []models.ConversationTurn { return s.transcript }

// Ask answers one question: retrieve, complete, record. On any failure the
// transcript is left exactly as it was.
func (s *Session) Ask(ctx context.Context, question string) (*models.Answer, error) {
	if s.index == nil || !s.index.Built() {
		return nil, ErrNotReady
	}

	chunks, err := s.index.Query(ctx, question, s.topK)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("session", s.id).Int("sources", len(chunks)).Msg("Retrieved chunks")

	resp, err := llmservice.GenerateContent(ctx, s.llm, s.buildMessages(question, chunks))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompletion, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrCompletion)
	}

	answer := resp.Choices[0].Content
	s.transcript = append(s.transcript, models.ConversationTurn{
		Question: question,
		Answer:   answer,
	})
	return &models.Answer{Content: answer, Sources: chunks}, nil
}

// buildMessages assembles system prompt, prior turns, and the new question
// with its retrieved excerpts tagged by page.
func (s *Session) buildMessages(question string, chunks []models.Chunk) []llms.MessageContent {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextContent{Text: models.SystemPrompt}},
		},
	}
	for _, turn := range s.transcript {
		messages = append(messages,
			llms.MessageContent{
				Role:  llms.ChatMessageTypeHuman,
				Parts: []llms.ContentPart{llms.TextContent{Text: turn.Question}},
			},
			llms.MessageContent{
				Role:  llms.ChatMessageTypeAI,
				Parts: []llms.ContentPart{llms.TextContent{Text: turn.Answer}},
			},
		)
	}

	var sources strings.Builder
	for _, chunk := range chunks {
		sources.WriteString(fmt.Sprintf(models.SourceTemplate, chunk.Page, chunk.Text))
		sources.WriteString("\n\n")
	}
	prompt := fmt.Sprintf(models.QuestionPromptTemplate, sources.String(), question)
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
	})
	return messages
}
