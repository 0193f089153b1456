package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_ListsAndSteps(t *testing.T) {
	out := Render(Parse("Recipe 1: Pancakes\nIngredients: Flour, Eggs\n1. Mix\n2. Cook"))

	assert.Equal(t, "Pancakes\nIngredients:\n- Flour\n- Eggs\nSteps:\n1. Mix\n2. Cook", out)
}

func TestRender_FallbackParagraphs(t *testing.T) {
	recipes := []ParsedRecipe{{
		Title:        "Notes",
		Ingredients:  []string{},
		Steps:        []string{},
		FallbackText: "first thought\n\n  second thought  ",
	}}

	assert.True(t, recipes[0].NeedsFallback())
	assert.Equal(t, []string{"first thought", "second thought"}, Paragraphs(recipes[0].FallbackText))
	assert.Equal(t, "Notes\nfirst thought\nsecond thought", Render(recipes))
}

func TestRender_SeparatesRecipes(t *testing.T) {
	out := Render(Parse("Recipe 1: A\n1. one\nRecipe 2: B\n1. two"))

	assert.Equal(t, "A\nSteps:\n1. one\n\nB\nSteps:\n1. two", out)
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render(nil))
	assert.Empty(t, Paragraphs(""))
}
