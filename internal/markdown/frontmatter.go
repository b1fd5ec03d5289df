package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// ValueKind tags the restricted set of front-matter value types.
// Anything the grammar does not understand stays a string, including
// dates; downstream normalization owns date parsing.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindFloat
	KindBool
	KindList
)

// Value is a tagged variant covering string | int | float | bool |
// []string, so consumers can switch exhaustively instead of poking at
// an untyped map.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	List  []string
}

func StringValue(s string) Value   { return Value{Kind: KindString, Str: s} }
func IntValue(n int64) Value       { return Value{Kind: KindInt, Int: n} }
func FloatValue(f float64) Value   { return Value{Kind: KindFloat, Float: f} }
func BoolValue(b bool) Value       { return Value{Kind: KindBool, Bool: b} }
func ListValue(items []string) Value {
	return Value{Kind: KindList, List: items}
}

// AsString renders any scalar value as the string a template or slug
// would see. Lists come back comma-joined.
func (v Value) AsString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindList:
		return strings.Join(v.List, ",")
	}
	return ""
}

// IsEmpty reports whether a value would be falsy for field-presence
// purposes: the empty string. Lists, numbers and booleans always
// count as present.
func (v Value) IsEmpty() bool {
	return v.Kind == KindString && v.Str == ""
}

type FrontMatter map[string]Value

// GetString returns the stringified value for key if present and
// non-empty.
func (fm FrontMatter) GetString(key string) (string, bool) {
	v, ok := fm[key]
	if !ok || v.IsEmpty() {
		return "", false
	}
	return v.AsString(), true
}

var (
	frontMatterRegex = regexp.MustCompile(`(?s)^---[ \t]*\n(.*?)\n---[ \t]*\n(.*)$`)
	intRegex         = regexp.MustCompile(`^\d+$`)
	floatRegex       = regexp.MustCompile(`^\d+\.\d+$`)
)

// ParseFrontMatter splits a raw markdown document into its front
// matter and body. Without a leading delimiter block the whole input
// is the body.
func ParseFrontMatter(raw string) (FrontMatter, string) {
	match := frontMatterRegex.FindStringSubmatch(raw)
	if match == nil {
		return FrontMatter{}, raw
	}
	return parseBlock(match[1]), strings.TrimSpace(match[2])
}

// parseBlock handles the deliberately restricted YAML subset: flat
// key/value lines only. Nested structures and multi-line scalars pass
// through as raw strings on their own line's key.
func parseBlock(block string) FrontMatter {
	fm := FrontMatter{}
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		colon := strings.Index(trimmed, ":")
		if colon == -1 {
			continue
		}
		key := strings.TrimSpace(trimmed[:colon])
		value := strings.TrimSpace(trimmed[colon+1:])
		if key == "" {
			continue
		}
		fm[key] = parseValue(value)
	}
	return fm
}

func parseValue(value string) Value {
	if value == "" {
		return StringValue("")
	}
	if unquoted, ok := stripQuotes(value); ok {
		return StringValue(unquoted)
	}
	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		inner := value[1 : len(value)-1]
		items := make([]string, 0)
		for _, item := range strings.Split(inner, ",") {
			item = strings.TrimSpace(item)
			if unquoted, ok := stripQuotes(item); ok {
				item = unquoted
			}
			if item == "" {
				continue
			}
			items = append(items, item)
		}
		return ListValue(items)
	}
	if value == "true" {
		return BoolValue(true)
	}
	if value == "false" {
		return BoolValue(false)
	}
	if intRegex.MatchString(value) {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return IntValue(n)
		}
	}
	if floatRegex.MatchString(value) {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return FloatValue(f)
		}
	}
	return StringValue(value)
}

func stripQuotes(value string) (string, bool) {
	if len(value) < 2 {
		return "", false
	}
	first, last := value[0], value[len(value)-1]
	if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
		return value[1 : len(value)-1], true
	}
	return "", false
}
