package document

import (
	"testing"

	"github.com/oneconcern/snapgit/pkg/errors"
	"github.com/oneconcern/snapgit/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	program = `<project name="demo" app="Snap! 4.0"><notes>hello</notes><stage width="480"><sprites/></stage></project>`
	media   = `<media name="demo" app="Snap! 4.0"><costume name="cat" image="data:image/png;base64,AAAA"/></media>`
)

// lossySerializer drops everything on the floor
type lossySerializer struct{ XMLSerializer }

func (lossySerializer) Serialize(interface{}) ([]byte, error) {
	return []byte("<empty/>"), nil
}

func TestRoundTrip(t *testing.T) {
	require.NoError(t, RoundTrip(XMLSerializer{}, program))
	require.NoError(t, RoundTrip(XMLSerializer{}, media))
	require.NoError(t, RoundTrip(XMLSerializer{}, `<block s="reportLessThan"><l>&lt;3 &amp; &quot;x&quot;</l></block>`))

	err := RoundTrip(XMLSerializer{}, "<project><unclosed></project>")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRoundTrip))

	err = RoundTrip(lossySerializer{}, program)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRoundTrip))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(XMLSerializer{}, program, "", media))
	err := Validate(XMLSerializer{}, program, "<broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRoundTrip))
	assert.Contains(t, err.Error(), "part 1")
}

func TestNewProject(t *testing.T) {
	doc, err := NewProject(XMLSerializer{}, program, media, "my notes")
	require.NoError(t, err)
	assert.True(t, doc.Validated)

	content, ok := doc.Content(model.ProgramFile)
	require.True(t, ok)
	assert.Equal(t, "<snapdata>"+program+media+"</snapdata>", content)

	notes, ok := doc.Content(model.NotesFile)
	require.True(t, ok)
	assert.Equal(t, "my notes", notes)

	doc, err = NewProject(XMLSerializer{}, program, "", "")
	require.NoError(t, err)
	content, _ = doc.Content(model.ProgramFile)
	assert.Equal(t, "<snapdata>"+program+"</snapdata>", content)

	_, err = NewProject(XMLSerializer{}, program, "<media>", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "media")

	_, err = NewProject(XMLSerializer{}, "not xml at all <", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "program")
}
