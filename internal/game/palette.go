package game

import "math/rand"

// Themes is the prompt pool a duel draws from. In vote mode the two players
// share one theme; in guess mode each player gets their own secret prompt.
var Themes = []string{
	"Cat", "Dog", "House", "Tree", "Sun", "Moon", "Star", "Heart",
	"Fish", "Bird", "Flower", "Car", "Boat", "Robot", "Alien", "Ghost",
	"Sword", "Crown", "Apple", "Cake", "Pizza", "Mountain", "Ocean", "Cloud",
	"Rainbow", "Mushroom", "Cactus", "Snowman", "Fire", "Lightning", "Skull",
	"Diamond", "Key", "Rocket", "Planet", "Dragon", "Snake", "Butterfly",
	"Frog", "Turtle",
}

// ColorPalette is the full set of pickable colors, as CSS hex strings.
var ColorPalette = []string{
	"#FF0000", "#FF6B35", "#FFC107", "#FFEB3B", "#4CAF50",
	"#2E7D32", "#00BCD4", "#2196F3", "#1565C0", "#9C27B0",
	"#E91E63", "#F48FB1", "#795548", "#5D4037", "#FF9800",
	"#607D8B", "#9E9E9E", "#424242", "#000000", "#FFFFFF",
	"#FFCDD2", "#C8E6C9", "#BBDEFB", "#FFF9C4", "#D1C4E9",
}

func randomTheme(rng *rand.Rand) string {
	return Themes[rng.Intn(len(Themes))]
}

// randomColors draws count distinct colors from the palette, skipping any in
// exclude. Returns fewer than count when the remainder is too small.
func randomColors(rng *rand.Rand, count int, exclude []string) []string {
	excluded := make(map[string]bool, len(exclude))
	for _, c := range exclude {
		excluded[c] = true
	}
	available := make([]string, 0, len(ColorPalette))
	for _, c := range ColorPalette {
		if !excluded[c] {
			available = append(available, c)
		}
	}

	result := make([]string, 0, count)
	for i := 0; i < count && len(available) > 0; i++ {
		idx := rng.Intn(len(available))
		result = append(result, available[idx])
		available = append(available[:idx], available[idx+1:]...)
	}
	return result
}
