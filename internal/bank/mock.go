package bank

import (
	"context"
	"fmt"
	"sync"
)

// ImportCall records one ImportQuestions invocation on a Mock.
type ImportCall struct {
	TopicID   TopicID
	Questions []Question
	Token     string
}

// Mock is a test double for Bank. Topics listed in Existing fail creation
// with a 409, mimicking a bank that already holds them.
type Mock struct {
	Token       string
	RegisterErr error
	LoginErr    error
	Existing    map[string]bool
	TopicErrs   map[string]error
	// ImportErr, when set, decides the outcome of each import call by its
	// zero-based position.
	ImportErr func(call int) error

	mu      sync.Mutex
	nextID  int
	created []Topic
	imports []ImportCall
}

// NewMock creates a Mock that issues the given token on login.
func NewMock(token string) *Mock {
	return &Mock{Token: token}
}

func (m *Mock) Register(_ context.Context, _, _, _ string) error {
	return m.RegisterErr
}

func (m *Mock) Login(_ context.Context, _, _ string) (string, error) {
	if m.LoginErr != nil {
		return "", m.LoginErr
	}
	return m.Token, nil
}

func (m *Mock) CreateTopic(_ context.Context, name, description, _ string) (Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.TopicErrs[name]; ok {
		return Topic{}, err
	}
	if m.Existing[name] {
		return Topic{}, &APIError{Method: "POST", Path: "/topics", StatusCode: 409, Body: `{"message":"topic exists"}`}
	}

	m.nextID++
	topic := Topic{ID: TopicID(fmt.Sprintf("%d", m.nextID)), Name: name, Description: description}
	m.created = append(m.created, topic)
	if m.Existing == nil {
		m.Existing = make(map[string]bool)
	}
	m.Existing[name] = true
	return topic, nil
}

func (m *Mock) ImportQuestions(_ context.Context, topicID TopicID, questions []Question, token string) (ImportResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := len(m.imports)
	m.imports = append(m.imports, ImportCall{TopicID: topicID, Questions: questions, Token: token})
	if m.ImportErr != nil {
		if err := m.ImportErr(call); err != nil {
			return ImportResult{}, err
		}
	}
	return ImportResult{Accepted: len(questions)}, nil
}

// Created returns the topics created so far.
func (m *Mock) Created() []Topic {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Topic{}, m.created...)
}

// Imports returns the import calls made so far.
func (m *Mock) Imports() []ImportCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ImportCall{}, m.imports...)
}
