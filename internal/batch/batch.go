// Package batch reads question batches from a directory of JSON files.
//
// Each file holds an object whose "results" array carries raw question
// objects; any other JSON document is read as an empty batch. Files are imported one request per file, in the order returned by
// Dir.List.
package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/p-n-ai/pratico-importer/internal/bank"
)

// ErrInvalid marks a batch file whose content cannot be used.
var ErrInvalid = errors.New("invalid batch file")

// Batch is the content of one batch file.
type Batch struct {
	Name    string
	Records []bank.Question
}

// Len returns the number of records.
func (b Batch) Len() int {
	return len(b.Records)
}

// Citation returns the bibliography of the first record, which is what the
// whole batch is classified by.
func (b Batch) Citation() string {
	if len(b.Records) == 0 {
		return ""
	}
	return b.Records[0].Bibliografia
}

const envelopeSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"results": {"type": ["array", "null"]}
	}
}`

var envelope = mustSchema(envelopeSchema)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("batch: compile envelope schema: %v", err))
	}
	return s
}

// Decode parses the content of a batch file. Only content that is not JSON
// at all is an error. A document that is not an object with a "results"
// array is logged and yields an empty batch; records are extracted
// best-effort and missing fields take their defaults.
func Decode(name string, data []byte) (Batch, error) {
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		return Batch{}, fmt.Errorf("%w %s: %v", ErrInvalid, name, err)
	}

	if problems := envelopeProblems(data); problems != "" {
		slog.Warn("batch file has no results array, treating as empty", "file", name, "problems", problems)
		return Batch{Name: name, Records: []bank.Question{}}, nil
	}

	var file struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return Batch{}, fmt.Errorf("%w %s: %v", ErrInvalid, name, err)
	}

	b := Batch{Name: name, Records: make([]bank.Question, 0, len(file.Results))}
	for _, raw := range file.Results {
		b.Records = append(b.Records, extract(raw))
	}
	return b, nil
}

// envelopeProblems describes how data deviates from the envelope schema,
// or returns "" when it conforms.
func envelopeProblems(data []byte) string {
	res, err := envelope.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err.Error()
	}
	if res.Valid() {
		return ""
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return strings.Join(msgs, "; ")
}

// extract maps a raw question object onto the submitted record shape.
// Anything that is not an object yields an all-default record.
func extract(raw json.RawMessage) bank.Question {
	fields := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		fields = map[string]any{}
	}

	pergunta := text(fields["pergunta"])
	if pergunta == "" {
		pergunta = text(fields["question"])
	}

	return bank.Question{
		Bibliografia:     text(fields["Bibliografia"]),
		Items:            text(fields["Items"]),
		Correct:          text(fields["correct"]),
		CorrectAnswer:    text(fields["correct_answer"]),
		IncorrectAnswers: texts(fields["incorrect_answers"]),
		Pergunta:         pergunta,
		Questao:          text(fields["questao"]),
	}
}

func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func texts(v any) []string {
	out := []string{}
	list, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range list {
		switch item.(type) {
		case string, json.Number, bool:
			out = append(out, text(item))
		}
	}
	return out
}
