// Package export turns calculation results into flat
// {inputs, costs, results} documents with pre-formatted values.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"frizo/quant_calc/internal/common"
	"frizo/quant_calc/pkg/utils"
)

// Field is one key/value pair of a document section.
type Field struct {
	Key   string
	Value string
}

// Fields keeps insertion order and marshals to a JSON object in that order.
type Fields []Field

func (f *Fields) Add(key, value string) *Fields {
	*f = append(*f, Field{Key: key, Value: value})
	return f
}

// Get returns the value stored under key.
func (f Fields) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Document is the export artifact of one calculation.
type Document struct {
	ID         string   `json:"id"`
	Calculator string   `json:"calculator"`
	Title      string   `json:"title"`
	Inputs     Fields   `json:"inputs"`
	Costs      Fields   `json:"costs"`
	Results    Fields   `json:"results"`
	Breakdown  []Fields `json:"breakdown,omitempty"`
}

// NewDocument stamps an empty document for calculator. A Caser is stateful,
// so each document gets its own.
func NewDocument(calculator string) *Document {
	return &Document{
		ID:         common.GenerateCalculationID(calculator),
		Calculator: calculator,
		Title:      cases.Title(language.English).String(strings.NewReplacer("_", " ", "-", " ").Replace(calculator)) + " Calculator",
		Inputs:     Fields{},
		Costs:      Fields{},
		Results:    Fields{},
	}
}

// FileName is "<calculator>-<id>.json".
func (d *Document) FileName() string {
	return fmt.Sprintf("%s-%s.json", d.Calculator, d.ID)
}

// JSON renders the document indented for humans.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// WriteFile writes the document under dir, creating dir if needed, and
// returns the file path.
func WriteFile(dir string, d *Document) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	data, err := d.JSON()
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}
	path := filepath.Join(dir, d.FileName())
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
