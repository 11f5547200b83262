package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct{ name string }

func (s stubGenerator) GenerateText(context.Context, TextRequest) (string, error) {
	return s.name, nil
}

func (s stubGenerator) GenerateImage(context.Context, ImageRequest) (*Image, error) {
	return &Image{Data: []byte(s.name)}, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("Gemini", stubGenerator{"gemini"})
	r.Register("echo", stubGenerator{"echo"})

	g, err := r.Get("gemini")
	require.NoError(t, err)
	text, _ := g.GenerateText(context.Background(), TextRequest{})
	assert.Equal(t, "gemini", text)

	g, err = r.Get("")
	require.NoError(t, err)
	assert.Equal(t, stubGenerator{"gemini"}, g)

	require.NoError(t, r.SetDefault("ECHO"))
	g, err = r.Get("")
	require.NoError(t, err)
	assert.Equal(t, stubGenerator{"echo"}, g)

	_, err = r.Get("openai")
	assert.ErrorIs(t, err, ErrUnknownProvider)
	assert.ErrorIs(t, r.SetDefault("openai"), ErrUnknownProvider)

	assert.Equal(t, []string{"echo", "gemini"}, r.Names())
}

func TestRegistry_EmptyHasNoDefault(t *testing.T) {
	_, err := NewRegistry().Get("")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestRequestValidation(t *testing.T) {
	assert.ErrorIs(t, TextRequest{Prompt: "  "}.Validate(), ErrEmptyPrompt)
	assert.NoError(t, TextRequest{Prompt: "viết truyện"}.Validate())

	req := ImageRequest{Prompt: "a cat"}
	require.NoError(t, req.Normalize())
	assert.Equal(t, DefaultAspectRatio, req.AspectRatio)

	req = ImageRequest{Prompt: "a cat", AspectRatio: "16:9"}
	assert.NoError(t, req.Normalize())

	req = ImageRequest{Prompt: "a cat", AspectRatio: "2:1"}
	assert.ErrorIs(t, req.Normalize(), ErrUnsupportedAspectRatio)

	req = ImageRequest{}
	assert.ErrorIs(t, req.Normalize(), ErrEmptyPrompt)

	ratios := AspectRatios()
	ratios[0] = "mutated"
	assert.Equal(t, "1:1", AspectRatios()[0])
}
