package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/jsontree/internal/errors" // Custom errors package
	"github.com/mcncl/jsontree/internal/models"
	"github.com/tidwall/gjson"
)

// Parse reads a single JSON document from reader and converts it into a Value
func Parse(reader io.Reader) (models.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Value{}, errors.NewInputError("failed to read input", err)
	}
	return ParseString(string(data))
}

// ParseString parses a JSON document held in a string. No partial tree is
// returned on failure.
func ParseString(jsonString string) (models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Value{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	if !gjson.Valid(jsonString) {
		return models.Value{}, syntaxError(jsonString)
	}
	if !utf8.ValidString(jsonString) {
		return models.Value{}, errors.NewParsingError("input is not valid UTF-8", errors.ErrInvalidJSON)
	}

	return fromResult(gjson.Parse(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Value{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Value{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return ParseString(string(data))
}

// Validate reports whether text holds exactly one well-formed JSON value
func Validate(text string) error {
	_, err := ParseString(text)
	return err
}

// syntaxError builds a parsing error for text that gjson rejected, using the
// standard decoder to locate the offending byte where it can.
func syntaxError(text string) error {
	var scratch any
	err := json.Unmarshal([]byte(text), &scratch)

	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxErr.Offset, syntaxErr.Error()),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError("failed to decode JSON", errors.ErrInvalidJSON)
}

// fromResult converts a validated gjson result into the Value union.
// ForEach walks members in document order, which keeps object keys in
// insertion order. Numbers too large for a float64 are rejected.
func fromResult(r gjson.Result) (models.Value, error) {
	switch r.Type {
	case gjson.Null:
		return models.Null(), nil
	case gjson.False:
		return models.Bool(false), nil
	case gjson.True:
		return models.Bool(true), nil
	case gjson.Number:
		if math.IsInf(r.Num, 0) || math.IsNaN(r.Num) {
			return models.Value{}, errors.NewParsingError(
				fmt.Sprintf("number %s is out of range", r.Raw),
				errors.ErrInvalidJSON,
			)
		}
		return models.Number(r.Num), nil
	case gjson.String:
		return models.String(r.Str), nil
	case gjson.JSON:
		var err error
		if r.IsArray() {
			items := make([]models.Value, 0)
			r.ForEach(func(_, value gjson.Result) bool {
				var item models.Value
				item, err = fromResult(value)
				items = append(items, item)
				return err == nil
			})
			if err != nil {
				return models.Value{}, err
			}
			return models.Array(items...), nil
		}
		members := make([]models.Member, 0)
		r.ForEach(func(key, value gjson.Result) bool {
			var member models.Value
			member, err = fromResult(value)
			members = append(members, models.Member{Key: key.Str, Value: member})
			return err == nil
		})
		if err != nil {
			return models.Value{}, err
		}
		return models.Object(members...), nil
	}
	return models.Null(), nil
}
