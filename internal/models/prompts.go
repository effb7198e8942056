package models

const (
	// SystemPrompt frames every completion request.
	SystemPrompt = "You are a helpful assistant. Use the provided document excerpts to answer the question. Cite the page numbers you used. If the excerpts do not contain the answer, say so."

	// QuestionPromptTemplate carries the retrieved excerpts and the new
	// question: first %s is the excerpt block, second is the question.
	QuestionPromptTemplate = `Document excerpts:
%s
Question: %s`

	// SourceTemplate renders one retrieved excerpt inside the prompt.
	SourceTemplate = "[Page %d]\n%s"
)
