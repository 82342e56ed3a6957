// Package bank talks to the remote question bank: account bootstrap, topic
// creation and bulk question import.
package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// TopicID is the identifier the bank assigns to a topic. The bank decides its
// shape (numeric or UUID); it is kept as the raw JSON token and echoed back
// unchanged.
type TopicID string

// UnmarshalJSON stores the raw token, so 42 and "42" stay distinguishable.
func (id *TopicID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if !json.Valid(data) {
		return fmt.Errorf("invalid topic id %q", data)
	}
	*id = TopicID(data)
	return nil
}

// MarshalJSON writes the raw token back. An empty id encodes as null.
func (id TopicID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if !json.Valid([]byte(id)) {
		return json.Marshal(string(id))
	}
	return []byte(id), nil
}

// String returns the id without JSON quoting.
func (id TopicID) String() string {
	var s string
	if err := json.Unmarshal([]byte(id), &s); err == nil {
		return s
	}
	return string(id)
}

// Question is one question record as submitted to /questions/import.
type Question struct {
	Bibliografia     string   `json:"bibliografia"`
	Items            string   `json:"items"`
	Correct          string   `json:"correct"`
	CorrectAnswer    string   `json:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers"`
	Pergunta         string   `json:"pergunta"`
	Questao          string   `json:"questao"`
}

// Topic is the subset of the topic resource the importer needs.
type Topic struct {
	ID          TopicID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
}

// ImportResult is what the bank reports for one import call.
type ImportResult struct {
	// Accepted is the number of questions the bank says it stored.
	Accepted int
}

// Auth bootstraps the admin account and obtains a bearer token.
type Auth interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
}

// TopicStore creates topics.
type TopicStore interface {
	CreateTopic(ctx context.Context, name, description, token string) (Topic, error)
}

// QuestionImporter submits a batch of questions under one topic.
type QuestionImporter interface {
	ImportQuestions(ctx context.Context, topicID TopicID, questions []Question, token string) (ImportResult, error)
}

// Bank is the full collaborator surface used by an import run.
type Bank interface {
	Auth
	TopicStore
	QuestionImporter
}
