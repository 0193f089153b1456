package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EmptyInput(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("   \n\n"))
	assert.NotNil(t, Parse(""))
}

func TestParse_NonEmptyInputAlwaysYieldsRecipe(t *testing.T) {
	inputs := []string{
		"x",
		"Recipe",
		"Recipe 1:",
		"Ingredients:",
		"???\n!!!",
		"  \n\t just one line \n",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got := Parse(in)
			require.NotEmpty(t, got)
			for _, r := range got {
				assert.NotEmpty(t, r.Title)
			}
		})
	}
}

func TestParse_LabeledRecipe(t *testing.T) {
	got := Parse("Recipe 1: Pancakes\nIngredients: Flour, Eggs, Milk\n1. Mix\n2. Cook")

	require.Len(t, got, 1)
	assert.Equal(t, "Pancakes", got[0].Title)
	assert.Equal(t, []string{"Flour", "Eggs", "Milk"}, got[0].Ingredients)
	assert.Equal(t, []string{"Mix", "Cook"}, got[0].Steps)
	assert.Equal(t, "", got[0].FallbackText)
}

func TestParse_MultipleBlocks(t *testing.T) {
	got := Parse("Recipe 1: A\nIngredients: x\n1. step\n\nRecipe 2: B\nIngredients: y\n1. step2")

	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, []string{"X"}, got[0].Ingredients)
	assert.Equal(t, []string{"step"}, got[0].Steps)
	assert.Equal(t, "B", got[1].Title)
	assert.Equal(t, []string{"Y"}, got[1].Ingredients)
	assert.Equal(t, []string{"step2"}, got[1].Steps)
}

func TestParse_UnlabeledFallsBackToSentences(t *testing.T) {
	got := Parse("Carbonara\nCook pasta. Add eggs. Mix well.")

	require.Len(t, got, 1)
	assert.Equal(t, "Carbonara", got[0].Title)
	assert.Empty(t, got[0].Ingredients)
	assert.Equal(t, []string{"Cook pasta.", "Add eggs.", "Mix well."}, got[0].Steps)
	assert.Equal(t, "Cook pasta. Add eggs. Mix well.", got[0].FallbackText)
}

func TestParse_FallbackTextJoinsRestLines(t *testing.T) {
	got := Parse("Soup\nBoil water.\nAdd salt and stir.")

	require.Len(t, got, 1)
	assert.Equal(t, []string{"Boil water.", "Add salt and stir."}, got[0].Steps)
	assert.Equal(t, "Boil water.\nAdd salt and stir.", got[0].FallbackText)
}

func TestParse_BareSectionHeaders(t *testing.T) {
	text := `Recipe 1: Tomato Omelette
Ingredients:
- 2 eggs
- ripe tomatoes, diced
* salt
Steps:
1. Beat the eggs.
2. Fry the tomatoes.
- Fold and serve`

	got := Parse(text)
	require.Len(t, got, 1)
	r := got[0]
	assert.Equal(t, "Tomato Omelette", r.Title)
	// 以項目符號開頭的行即使含逗號也不拆分
	assert.Equal(t, []string{"2 Eggs", "Ripe Tomatoes, Diced", "Salt"}, r.Ingredients)
	assert.Equal(t, []string{"Beat the eggs.", "Fry the tomatoes.", "Fold and serve"}, r.Steps)
	assert.Equal(t, "", r.FallbackText)
}

func TestParse_NumberedIngredientList(t *testing.T) {
	got := Parse("Recipe 1: Cake\nIngredients:\n1. flour\n2. sugar\nSteps:\n1. Mix\n2. Bake")

	require.Len(t, got, 1)
	assert.Equal(t, []string{"Flour", "Sugar"}, got[0].Ingredients)
	assert.Equal(t, []string{"Mix", "Bake"}, got[0].Steps)
}

func TestParse_NumberedLineAfterInlineIngredientsIsStep(t *testing.T) {
	got := Parse("Recipe 1: Cake\nIngredients: flour, sugar\n1. Mix\n2. Bake")

	require.Len(t, got, 1)
	assert.Equal(t, []string{"Flour", "Sugar"}, got[0].Ingredients)
	assert.Equal(t, []string{"Mix", "Bake"}, got[0].Steps)
}

func TestParse_CommaLineInIngredientsSectionIsSplit(t *testing.T) {
	got := Parse("Salad\nIngredients\nlettuce, cucumber; olive oil")

	require.Len(t, got, 1)
	assert.Equal(t, []string{"Lettuce", "Cucumber", "Olive Oil"}, got[0].Ingredients)
}

func TestParse_InlineLabelsReplaceLists(t *testing.T) {
	text := `Recipe: Toast
Ingredients:
- butter
Ingredients: bread, jam
Steps: Toast the bread. Spread jam! 2 slices are enough.
Method: Serve warm.`

	got := Parse(text)
	require.Len(t, got, 1)
	assert.Equal(t, "Toast", got[0].Title)
	assert.Equal(t, []string{"Bread", "Jam"}, got[0].Ingredients)
	assert.Equal(t, []string{"Serve warm."}, got[0].Steps)
}

func TestParse_InlineStepsSentenceSplit(t *testing.T) {
	got := Parse("Rice\nProcedure: Rinse rice. Boil for 12 minutes. 5 minutes rest is fine. let it cool.")

	require.Len(t, got, 1)
	assert.Equal(t, []string{
		"Rinse rice.",
		"Boil for 12 minutes.",
		"5 minutes rest is fine. let it cool.",
	}, got[0].Steps)
}

func TestParse_SectionToggles(t *testing.T) {
	text := `Name: Stew
Ingredients
- beef
Steps
1. Brown the beef.
Ingredients
- carrots
Method
2. Simmer.`

	got := Parse(text)
	require.Len(t, got, 1)
	assert.Equal(t, "Stew", got[0].Title)
	assert.Equal(t, []string{"Beef", "Carrots"}, got[0].Ingredients)
	assert.Equal(t, []string{"Brown the beef.", "Simmer."}, got[0].Steps)
}

func TestParse_TitleDefaults(t *testing.T) {
	got := Parse("Recipe 1:\nIngredients: egg\n\nRecipe 2\n1. boil")

	require.Len(t, got, 2)
	assert.Equal(t, "Recipe 1", got[0].Title)
	assert.Equal(t, "Recipe 2", got[1].Title)
}

func TestParse_PluralRecipesIsNotAHeader(t *testing.T) {
	got := Parse("Recipe 1: Only\nRecipes are fun.")

	require.Len(t, got, 1)
	assert.Equal(t, "Only", got[0].Title)
	assert.Equal(t, "Recipes are fun.", got[0].FallbackText)
}

func TestParse_DuplicateIngredientsPreserved(t *testing.T) {
	got := Parse("Dish\nIngredients: salt, Salt, salt.")

	require.Len(t, got, 1)
	assert.Equal(t, []string{"Salt", "Salt", "Salt"}, got[0].Ingredients)
}

func TestParse_WindowsLineEndings(t *testing.T) {
	got := Parse("Recipe 1: Tea\r\nIngredients: water, tea leaves\r\n1. Boil water\r\n2. Steep")

	require.Len(t, got, 1)
	assert.Equal(t, []string{"Water", "Tea Leaves"}, got[0].Ingredients)
	assert.Equal(t, []string{"Boil water", "Steep"}, got[0].Steps)
}

func TestParse_Deterministic(t *testing.T) {
	text := "Recipe 1: A\nIngredients: x, y\n1. one\n2. two\nRecipe 2: B\nsome notes here. More notes."
	first := Parse(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Parse(text))
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"extra-virgin olive oil.": "Extra-Virgin Olive Oil",
		"  GARLIC  cloves ":       "Garlic Cloves",
		"salt...":                 "Salt",
		"...":                     "",
		"":                        "",
		"crème fraîche":           "Crème Fraîche",
		"sun-dried--tomato":       "Sun-Dried--Tomato",
	}
	for in, want := range tests {
		assert.Equal(t, want, TitleCase(in), "input %q", in)
	}
}

func TestSplitSentences(t *testing.T) {
	assert.Equal(t, []string{"Cook pasta.", "Add eggs.", "Mix well."}, SplitSentences("Cook pasta. Add eggs. Mix well."))
	assert.Equal(t, []string{"Heat oil!", "Is it hot?", "3 eggs go in."}, SplitSentences("Heat oil! Is it hot? 3 eggs go in."))
	assert.Equal(t, []string{"e.g. this stays together"}, SplitSentences("e.g. this stays together"))
	assert.Empty(t, SplitSentences("   "))
}

func TestSplitSentences_NonASCIICapitals(t *testing.T) {
	assert.Equal(t, []string{"Stir.", "Émincer les oignons."}, SplitSentences("Stir. Émincer les oignons."))
	assert.Equal(t, []string{"Rühren.", "Öl erhitzen!", "Ça suffit."}, SplitSentences("Rühren. Öl erhitzen! Ça suffit."))

	got := Parse("Recipe 1: Cake\nStir. Émincer les oignons.")
	require.Len(t, got, 1)
	assert.Equal(t, []string{"Stir.", "Émincer les oignons."}, got[0].Steps)
}
