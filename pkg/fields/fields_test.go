package fields

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStopsAtFirstFailure(t *testing.T) {
	form := map[string][]string{
		"title": {""},
		"url":   {"not a url"},
	}

	_, verr := Validate(form, []Rule{
		{Field: "title", Message: "title is required", Parse: String()},
		{Field: "url", Message: "url must be valid", Parse: URL()},
	})

	require.NotNil(t, verr)
	assert.Equal(t, "title", verr.Field)
	assert.Equal(t, "title is required", verr.Message)
}

func TestValidateSkipsAbsentOptionalFields(t *testing.T) {
	form := map[string][]string{
		"title": {"My Page"},
	}

	values, verr := Validate(form, []Rule{
		{Field: "title", Message: "title is required", Parse: String()},
		{Field: "url", Optional: true, Message: "url must be valid", Parse: URL()},
	})

	require.Nil(t, verr)
	assert.True(t, values.Has("title"))
	assert.False(t, values.Has("url"))
	assert.Equal(t, "My Page", values.String("title"))
}

func TestValidateRequiredFieldAbsentFails(t *testing.T) {
	_, verr := Validate(map[string][]string{}, []Rule{
		{Field: "title", Message: "title is required", Parse: String()},
	})

	require.NotNil(t, verr)
	assert.Equal(t, "title", verr.Field)
}

func TestValidateOptionalPresentButInvalidFails(t *testing.T) {
	form := map[string][]string{
		"footer_toggle": {"yes"},
	}

	_, verr := Validate(form, []Rule{
		{Field: "footer_toggle", Optional: true, Message: "footer_toggle must be a boolean", Parse: Bool()},
	})

	require.NotNil(t, verr)
	assert.Equal(t, "footer_toggle", verr.Field)
}

func TestAllowlisted(t *testing.T) {
	allow := []string{"url", "title"}

	assert.True(t, Allowlisted(map[string][]string{"url": {"a.com"}}, allow))
	assert.True(t, Allowlisted(map[string][]string{}, allow))
	assert.False(t, Allowlisted(map[string][]string{"url": {"a.com"}, "owner": {"x"}}, allow))
}

func TestBool(t *testing.T) {
	parse := Bool()

	v, err := parse("TRUE")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = parse("false")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	_, err = parse("1")
	assert.Error(t, err)
}

func TestURLAcceptsProtocolAndTLDOptional(t *testing.T) {
	parse := URL()

	for _, raw := range []string{"a.com", "localhost:3000", "https://a.com/x", "sub.domain.io/path?q=1"} {
		_, err := parse(raw)
		assert.NoError(t, err, raw)
	}

	for _, raw := range []string{"has space.com", "://"} {
		_, err := parse(raw)
		assert.Error(t, err, raw)
	}
}

func TestBoundedString(t *testing.T) {
	parse := BoundedString(2, 4)

	_, err := parse("ab")
	assert.NoError(t, err)
	_, err = parse("a")
	assert.Error(t, err)
	_, err = parse("abcde")
	assert.Error(t, err)
	_, err = parse("   ")
	assert.Error(t, err)
}

func TestID(t *testing.T) {
	parse := ID()

	id := uuid.New()
	v, err := parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, v)

	_, err = parse("not-an-id")
	assert.Error(t, err)
}

func TestIDList(t *testing.T) {
	parse := IDList()

	a, b := uuid.New(), uuid.New()
	v, err := parse(`["` + a.String() + `","` + b.String() + `"]`)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, v)

	_, err = parse(`[]`)
	assert.Error(t, err)
	_, err = parse(`["nope"]`)
	assert.Error(t, err)
	_, err = parse(`{`)
	assert.Error(t, err)
}

type linkShape struct {
	Title *string `json:"title" validate:"required"`
	URL   *string `json:"url" validate:"required"`
}

func TestJSONSliceOf(t *testing.T) {
	parse := JSONSliceOf[linkShape](validator.New())

	v, err := parse(`[{"title":"Home","url":"a.com"}]`)
	require.NoError(t, err)
	links, ok := v.([]linkShape)
	require.True(t, ok)
	require.Len(t, links, 1)
	assert.Equal(t, "Home", *links[0].Title)

	// missing required key
	_, err = parse(`[{"title":"Home"}]`)
	assert.Error(t, err)

	_, err = parse(`[]`)
	assert.Error(t, err)

	// malformed JSON surfaces as an error, not a panic
	_, err = parse(`[{"title":`)
	assert.Error(t, err)
}

type themeShape struct {
	Type       *string `json:"type" validate:"required"`
	ToggleMode *bool   `json:"toggle_mode" validate:"required"`
}

func TestJSONOfPointerBoolCountsFalseAsPresent(t *testing.T) {
	parse := JSONOf[themeShape](validator.New())

	v, err := parse(`{"type":"dark","toggle_mode":false}`)
	require.NoError(t, err)
	theme, ok := v.(themeShape)
	require.True(t, ok)
	assert.False(t, *theme.ToggleMode)

	_, err = parse(`{"type":"dark"}`)
	assert.Error(t, err)
}
