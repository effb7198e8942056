package models

// Page is one physical page of a loaded document, in document order.
type Page struct {
	Text   string
	Number int
}

// Chunk is a bounded text window cut from a single page.
// Seq is the global insertion index across the whole document.
type Chunk struct {
	Text string
	Page int
	Seq  int
}

// ConversationTurn is one completed question/answer exchange.
type ConversationTurn struct {
	Question string
	Answer   string
}

// Answer is the result of one question: the model's reply plus the
// retrieved chunks that were handed to it, nearest first.
type Answer struct {
	Content string
	Sources []Chunk
}
