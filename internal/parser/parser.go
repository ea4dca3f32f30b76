package parser

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/models"
)

// Parse converts JSON data from an io.Reader into an IntermediateRepresentation.
// Object member order is kept as it appears in the input. When a key repeats,
// the last value wins and the member stays at its first position.
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	tok, err := decoder.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.IntermediateRepresentation{}, errors.NewSerializationError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.IntermediateRepresentation{}, decodeError(err)
	}

	rootValue, err := parseValue(decoder, tok)
	if err != nil {
		return models.IntermediateRepresentation{}, decodeError(err)
	}

	// Anything other than EOF after the first value is either a second
	// document or garbage.
	if _, err := decoder.Token(); err == nil {
		return models.IntermediateRepresentation{}, errors.NewSerializationError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return models.IntermediateRepresentation{}, errors.NewSerializationError("invalid trailing data after first JSON value", err)
	}

	_, isArray := rootValue.(models.JSONArray)
	return models.IntermediateRepresentation{Root: rootValue, RootIsArray: isArray}, nil
}

func parseValue(decoder *json.Decoder, tok json.Token) (models.JSONValue, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return parseObject(decoder)
		case '[':
			return parseArray(decoder)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(v))
		}
	case string, json.Number, bool, nil:
		return v, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseObject(decoder *json.Decoder) (models.JSONValue, error) {
	obj := models.JSONObject{}
	for decoder.More() {
		keyTok, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
		}
		valTok, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		val, err := parseValue(decoder, valTok)
		if err != nil {
			return nil, err
		}
		if i := obj.IndexOf(key); i >= 0 {
			obj[i].Value = val
			continue
		}
		obj = append(obj, models.Member{Key: key, Value: val})
	}
	// consume '}'
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func parseArray(decoder *json.Decoder) (models.JSONValue, error) {
	arr := models.JSONArray{}
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		val, err := parseValue(decoder, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	// consume ']'
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

func decodeError(err error) error {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewSerializationError(
			fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) || stderrors.Is(err, io.EOF) {
		return errors.NewSerializationError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewSerializationError("failed to decode JSON", err)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.IntermediateRepresentation{}, errors.NewSerializationError("document text is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.IntermediateRepresentation, error) {
	data, err := ReadFile(filePath)
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}
	return ParseString(string(data))
}

// ReadFile reads a document file, mapping the common failure modes onto
// input errors.
func ReadFile(filePath string) ([]byte, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", filePath), errors.ErrFileNotFound)
		}
		return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", filePath), err)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(fmt.Sprintf("input file '%s' is empty", filePath), errors.ErrFileEmpty)
	}
	return data, nil
}
