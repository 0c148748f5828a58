package grammar

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/block.schema.json
var blockSchemaSource []byte

var (
	ErrSchemaValidation = errors.New("grammar: block json does not match schema")
	ErrUnknownTag       = errors.New("grammar: unknown tag")
)

// SchemaIssue is a single schema violation.
type SchemaIssue struct {
	Location string
	Message  string
}

// SchemaError reports why a block document was rejected.
type SchemaError struct {
	Issues []SchemaIssue
	Cause  error
}

func (e *SchemaError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaValidation
}

var blockSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("block.schema.json", bytes.NewReader(blockSchemaSource)); err != nil {
		return nil, err
	}
	return compiler.Compile("block.schema.json")
})

type envelope struct {
	Tag     string          `json:"tag"`
	Content json.RawMessage `json:"content,omitempty"`
}

type taggedValue struct {
	Tag     string `json:"tag"`
	Content any    `json:"content"`
}

type textPayload struct {
	Content  string `json:"content"`
	IsBold   bool   `json:"is_bold"`
	IsItalic bool   `json:"is_italic"`
	IsStrike bool   `json:"is_strike"`
}

type linkPayload struct {
	Content string  `json:"content"`
	Href    *string `json:"href"`
	Title   *string `json:"title,omitempty"`
}

type titlePayload struct {
	Level   string          `json:"level"`
	Content json.RawMessage `json:"content"`
}

type listItemPayload struct {
	Level   int             `json:"level"`
	Index   *int            `json:"index"`
	Bullet  string          `json:"bullet,omitempty"`
	Content json.RawMessage `json:"content"`
}

type codePayload struct {
	Lang *string `json:"lang"`
	Code string  `json:"code"`
}

type imagePayload struct {
	Title *string `json:"title"`
	Src   *string `json:"src"`
}

type todoPayload struct {
	IsFinished bool            `json:"is_finished"`
	Content    json.RawMessage `json:"content"`
}

type footerPayload struct {
	Index   string          `json:"index"`
	Content json.RawMessage `json:"content"`
}

type errorPayload struct {
	Raw     string `json:"raw"`
	Message string `json:"message,omitempty"`
}

// MarshalBlock encodes a block as a {"tag","content"} document.
func MarshalBlock(block Block) ([]byte, error) {
	value, err := blockValue(block)
	if err != nil {
		return nil, err
	}
	return json.Marshal(value)
}

// UnmarshalBlock validates data against the block schema and decodes it.
func UnmarshalBlock(data []byte) (Block, error) {
	if err := ValidateBlockJSON(data); err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return decodeBlock(env)
}

// MarshalSentence encodes a single inline span.
func MarshalSentence(sentence Sentence) ([]byte, error) {
	value, err := sentenceValue(sentence)
	if err != nil {
		return nil, err
	}
	return json.Marshal(value)
}

// UnmarshalSentence decodes a single inline span. It does not run schema
// validation; use UnmarshalBlock for untrusted documents.
func UnmarshalSentence(data []byte) (Sentence, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return decodeSentence(env)
}

// ValidateBlockJSON checks data against the embedded block schema.
func ValidateBlockJSON(data []byte) error {
	schema, err := blockSchema()
	if err != nil {
		return fmt.Errorf("grammar: compile block schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &SchemaError{Issues: []SchemaIssue{{Message: err.Error()}}, Cause: err}
	}
	if err := schema.Validate(doc); err != nil {
		return &SchemaError{Issues: schemaIssues(err), Cause: err}
	}
	return nil
}

func schemaIssues(err error) []SchemaIssue {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) || validationErr == nil {
		return []SchemaIssue{{Message: err.Error()}}
	}
	var issues []SchemaIssue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, SchemaIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return issues
}

func blockValue(block Block) (taggedValue, error) {
	switch b := block.(type) {
	case Title:
		if !b.Level.Valid() {
			return taggedValue{}, fmt.Errorf("grammar: invalid title level %d", int(b.Level))
		}
		content, err := paragraphValue(b.Content)
		if err != nil {
			return taggedValue{}, err
		}
		return tagged(BlockTitle, map[string]any{"level": b.Level.String(), "content": content}), nil
	case ParagraphBlock:
		content, err := paragraphValue(b.Content)
		return tagged(BlockParagraph, content), err
	case Quote:
		content, err := paragraphValue(b.Content)
		return tagged(BlockQuote, content), err
	case ListItem:
		if b.Level < 0 {
			return taggedValue{}, fmt.Errorf("grammar: negative list level %d", b.Level)
		}
		content, err := paragraphValue(b.Content)
		if err != nil {
			return taggedValue{}, err
		}
		payload := map[string]any{"level": b.Level, "index": b.Index, "content": content}
		if b.Bullet != "" {
			payload["bullet"] = b.Bullet
		}
		return tagged(BlockListItem, payload), nil
	case CodeBlock:
		return tagged(BlockCode, codePayload{Lang: b.Lang, Code: b.Code}), nil
	case Image:
		return tagged(BlockImage, imagePayload{Title: b.Title, Src: b.Src}), nil
	case LineBlock:
		return tagged(BlockLine, nil), nil
	case MathBlock:
		return tagged(BlockMath, b.Math), nil
	case TodoItem:
		content, err := paragraphValue(b.Content)
		if err != nil {
			return taggedValue{}, err
		}
		return tagged(BlockTodoItem, map[string]any{"is_finished": b.Finished, "content": content}), nil
	case Footer:
		content, err := paragraphValue(b.Content)
		if err != nil {
			return taggedValue{}, err
		}
		return tagged(BlockFooter, map[string]any{"index": b.Index.Key, "content": content}), nil
	case ErrorBlock:
		return tagged(BlockError, errorPayload{Raw: b.Raw, Message: b.Message}), nil
	default:
		return taggedValue{}, fmt.Errorf("%w: block %T", ErrUnknownTag, block)
	}
}

func paragraphValue(p Paragraph) ([]taggedValue, error) {
	out := make([]taggedValue, 0, len(p))
	for _, s := range p {
		value, err := sentenceValue(s)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

func sentenceValue(sentence Sentence) (taggedValue, error) {
	switch s := sentence.(type) {
	case Text:
		return taggedSentence(SentenceText, textPayload{Content: s.Content, IsBold: s.Bold, IsItalic: s.Italic, IsStrike: s.Strike}), nil
	case Link:
		return taggedSentence(SentenceLink, linkPayload{Content: s.Content, Href: s.Href, Title: s.Title}), nil
	case Code:
		return taggedSentence(SentenceCode, s.Content), nil
	case Math:
		return taggedSentence(SentenceMath, s.Content), nil
	case Emoji:
		return taggedSentence(SentenceEmoji, s.Content), nil
	case FooterIndex:
		return taggedSentence(SentenceFooterIndex, s.Key), nil
	default:
		return taggedValue{}, fmt.Errorf("%w: sentence %T", ErrUnknownTag, sentence)
	}
}

func tagged(kind BlockKind, content any) taggedValue {
	return taggedValue{Tag: string(kind), Content: content}
}

func taggedSentence(kind SentenceKind, content any) taggedValue {
	return taggedValue{Tag: string(kind), Content: content}
}

func decodeBlock(env envelope) (Block, error) {
	switch BlockKind(env.Tag) {
	case BlockTitle:
		var payload titlePayload
		if err := json.Unmarshal(env.Content, &payload); err != nil {
			return nil, err
		}
		level, err := parseLevelName(payload.Level)
		if err != nil {
			return nil, err
		}
		content, err := decodeParagraph(payload.Content)
		if err != nil {
			return nil, err
		}
		return Title{Level: level, Content: content}, nil
	case BlockParagraph:
		content, err := decodeParagraph(env.Content)
		if err != nil {
			return nil, err
		}
		return ParagraphBlock{Content: content}, nil
	case BlockQuote:
		content, err := decodeParagraph(env.Content)
		if err != nil {
			return nil, err
		}
		return Quote{Content: content}, nil
	case BlockListItem:
		var payload listItemPayload
		if err := json.Unmarshal(env.Content, &payload); err != nil {
			return nil, err
		}
		content, err := decodeParagraph(payload.Content)
		if err != nil {
			return nil, err
		}
		return ListItem{Level: payload.Level, Index: payload.Index, Bullet: payload.Bullet, Content: content}, nil
	case BlockCode:
		var payload codePayload
		if err := json.Unmarshal(env.Content, &payload); err != nil {
			return nil, err
		}
		return CodeBlock{Lang: payload.Lang, Code: payload.Code}, nil
	case BlockImage:
		var payload imagePayload
		if err := json.Unmarshal(env.Content, &payload); err != nil {
			return nil, err
		}
		return Image{Title: payload.Title, Src: payload.Src}, nil
	case BlockLine:
		return LineBlock{}, nil
	case BlockMath:
		var math string
		if err := json.Unmarshal(env.Content, &math); err != nil {
			return nil, err
		}
		return MathBlock{Math: math}, nil
	case BlockTodoItem:
		var payload todoPayload
		if err := json.Unmarshal(env.Content, &payload); err != nil {
			return nil, err
		}
		content, err := decodeParagraph(payload.Content)
		if err != nil {
			return nil, err
		}
		return TodoItem{Finished: payload.IsFinished, Content: content}, nil
	case BlockFooter:
		var payload footerPayload
		if err := json.Unmarshal(env.Content, &payload); err != nil {
			return nil, err
		}
		content, err := decodeParagraph(payload.Content)
		if err != nil {
			return nil, err
		}
		return Footer{Index: FooterIndex{Key: payload.Index}, Content: content}, nil
	case BlockError:
		var payload errorPayload
		if err := json.Unmarshal(env.Content, &payload); err != nil {
			return nil, err
		}
		return ErrorBlock{Raw: payload.Raw, Message: payload.Message}, nil
	default:
		return nil, fmt.Errorf("%w: block %q", ErrUnknownTag, env.Tag)
	}
}

func decodeParagraph(raw json.RawMessage) (Paragraph, error) {
	var envs []envelope
	if err := json.Unmarshal(raw, &envs); err != nil {
		return nil, err
	}
	out := make(Paragraph, 0, len(envs))
	for _, env := range envs {
		s, err := decodeSentence(env)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeSentence(env envelope) (Sentence, error) {
	switch SentenceKind(env.Tag) {
	case SentenceText:
		var payload textPayload
		if err := json.Unmarshal(env.Content, &payload); err != nil {
			return nil, err
		}
		return Text{Content: payload.Content, Bold: payload.IsBold, Italic: payload.IsItalic, Strike: payload.IsStrike}, nil
	case SentenceLink:
		var payload linkPayload
		if err := json.Unmarshal(env.Content, &payload); err != nil {
			return nil, err
		}
		return Link{Content: payload.Content, Href: payload.Href, Title: payload.Title}, nil
	}
	var content string
	if err := json.Unmarshal(env.Content, &content); err != nil {
		return nil, err
	}
	switch SentenceKind(env.Tag) {
	case SentenceCode:
		return Code{Content: content}, nil
	case SentenceMath:
		return Math{Content: content}, nil
	case SentenceEmoji:
		return Emoji{Content: content}, nil
	case SentenceFooterIndex:
		return FooterIndex{Key: content}, nil
	default:
		return nil, fmt.Errorf("%w: sentence %q", ErrUnknownTag, env.Tag)
	}
}

func parseLevelName(name string) (TitleLevel, error) {
	var depth int
	if _, err := fmt.Sscanf(name, "H%d", &depth); err != nil {
		return 0, fmt.Errorf("grammar: invalid title level %q", name)
	}
	return ParseTitleLevel(depth)
}
