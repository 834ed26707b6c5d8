package catalog

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrEmptyContent is reported for resource files without any content.
	ErrEmptyContent = errors.New("resource content is empty")
	// ErrUnsupportedFormat is reported when no known format accepts the content.
	ErrUnsupportedFormat = errors.New("no supported catalog format accepts the content")
	errNoRootElement     = errors.New("document has no root element")
	errNullCatalog       = errors.New("document is null")
)

// ParseError carries the reasons every format rejected a resource.
type ParseError struct {
	Causes []error
}

func (e *ParseError) Error() string {
	msgs := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		msgs = append(msgs, c.Error())
	}
	return fmt.Sprintf("%s (%s)", ErrUnsupportedFormat, strings.Join(msgs, "; "))
}

func (e *ParseError) Unwrap() []error {
	return append([]error{ErrUnsupportedFormat}, e.Causes...)
}

var utf8BOM = []byte("\xef\xbb\xbf") //nolint:gochecknoglobals // constant byte sequence

// resx elements that describe the file rather than carry text.
var skippedElements = map[string]struct{}{ //nolint:gochecknoglobals // fixed lookup set
	"resheader": {},
	"metadata":  {},
	"assembly":  {},
}

// Parse reads a resource file into a catalog. A flat JSON object of strings is tried
// first, then a resx resource table.
func Parse(content []byte) (Catalog, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, &ParseError{Causes: []error{ErrEmptyContent}}
	}

	cat, jsonErr := parseJSON(content)
	if jsonErr == nil {
		return cat, nil
	}

	cat, resxErr := parseResx(content)
	if resxErr == nil {
		return cat, nil
	}

	return nil, &ParseError{Causes: []error{
		fmt.Errorf("json: %w", jsonErr),
		fmt.Errorf("resx: %w", resxErr),
	}}
}

func parseJSON(content []byte) (Catalog, error) {
	var cat Catalog
	if err := json.Unmarshal(content, &cat); err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, errNullCatalog
	}
	return cat, nil
}

// resxEntry tracks one element of the resource table while its children stream by.
type resxEntry struct {
	name     string
	named    bool
	skip     bool
	value    strings.Builder
	hasValue bool
}

func parseResx(content []byte) (Catalog, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))

	cat := Catalog{}
	sawRoot := false

	var stack []*resxEntry
	// owner is the named entry whose <value> is open; valueDepth is the stack depth
	// of that <value> element.
	var owner *resxEntry
	valueDepth := 0

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			sawRoot = true
			if owner == nil && t.Name.Local == "value" && len(stack) > 0 && stack[len(stack)-1].named {
				owner = stack[len(stack)-1]
				owner.hasValue = true
				owner.value.Reset()
				valueDepth = len(stack) + 1
			}
			stack = append(stack, newResxEntry(t))

		case xml.CharData:
			if owner != nil {
				owner.value.Write(t)
			}

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			depth := len(stack)
			entry := stack[depth-1]
			stack = stack[:depth-1]

			if owner != nil {
				if depth == valueDepth {
					owner = nil
				}
				continue
			}

			if entry.named && !entry.skip && entry.hasValue {
				if _, exists := cat[entry.name]; !exists {
					cat[entry.name] = entry.value.String()
				}
			}
		}
	}

	if !sawRoot {
		return nil, errNoRootElement
	}

	return cat, nil
}

func newResxEntry(el xml.StartElement) *resxEntry {
	entry := &resxEntry{}
	if _, ok := skippedElements[el.Name.Local]; ok {
		entry.skip = true
	}

	for _, attr := range el.Attr {
		switch attr.Name.Local {
		case "name":
			if attr.Name.Space == "" {
				entry.name = attr.Value
				entry.named = true
			}
		case "type", "mimetype":
			entry.skip = true
		}
	}

	return entry
}
