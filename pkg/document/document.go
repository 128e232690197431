// Package document assembles the files of a project and checks that they survive
// a round-trip through their serializer before they may be saved.
package document

import (
	"fmt"
	"reflect"

	"github.com/clbanning/mxj"
	"github.com/oneconcern/snapgit/pkg/errors"
	"github.com/oneconcern/snapgit/pkg/model"
)

// ErrRoundTrip is returned when serialized content does not parse back to the same structure
var ErrRoundTrip = errors.New("serialized content does not survive a round-trip")

func init() {
	// program text routinely holds markup characters in attribute values
	mxj.XMLEscapeChars(true)
}

// Serializer knows how to parse and serialize the content of a document
type Serializer interface {
	Parse([]byte) (interface{}, error)
	Serialize(interface{}) ([]byte, error)
}

// XMLSerializer parses XML into a generic structure, regardless of sibling element order
type XMLSerializer struct{}

// Parse an XML document
func (XMLSerializer) Parse(data []byte) (interface{}, error) {
	return mxj.NewMapXml(data)
}

// Serialize a structure obtained from Parse
func (XMLSerializer) Serialize(v interface{}) ([]byte, error) {
	m, ok := v.(mxj.Map)
	if !ok {
		return nil, fmt.Errorf("cannot serialize %T as XML", v)
	}
	return m.Xml()
}

// RoundTrip checks that content parses, serializes and parses again to an equivalent structure
func RoundTrip(s Serializer, content string) error {
	parsed, err := s.Parse([]byte(content))
	if err != nil {
		return ErrRoundTrip.Wrap(err)
	}
	serialized, err := s.Serialize(parsed)
	if err != nil {
		return ErrRoundTrip.Wrap(err)
	}
	reparsed, err := s.Parse(serialized)
	if err != nil {
		return ErrRoundTrip.Wrap(err)
	}
	if !reflect.DeepEqual(parsed, reparsed) {
		return ErrRoundTrip
	}
	return nil
}

// Validate runs the round-trip check on every non-empty part
func Validate(s Serializer, parts ...string) error {
	for i, part := range parts {
		if part == "" {
			continue
		}
		if err := RoundTrip(s, part); err != nil {
			return fmt.Errorf("part %d: %w", i, err)
		}
	}
	return nil
}

// Assemble the program and its media into the envelope persisted as the program file
func Assemble(program, media string) string {
	return "<snapdata>" + program + media + "</snapdata>"
}

// NewProject validates the program and its media, and builds the document to save.
//
// Empty media are not validated. The returned document is marked as validated.
func NewProject(s Serializer, program, media, notes string) (model.Document, error) {
	if err := RoundTrip(s, program); err != nil {
		return model.Document{}, fmt.Errorf("serialization of program data failed: %w", err)
	}
	if media != "" {
		if err := RoundTrip(s, media); err != nil {
			return model.Document{}, fmt.Errorf("serialization of media failed: %w", err)
		}
	}
	doc := model.ProjectDocument(Assemble(program, media), notes)
	doc.Validated = true
	return doc, nil
}
