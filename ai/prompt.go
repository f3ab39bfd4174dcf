package ai

// Preset instruction strings shown to the model when no free text is given.
var presetPrompts = map[string]string{
	"declutter":       "Remove all unwanted objects, clutter, and personal items from this property photo while maintaining natural lighting and proportions",
	"virtual-staging": "Add modern, tasteful furniture and decor to this empty space to make it more appealing to potential buyers",
	"enhance":         "Improve the lighting, colors, and overall quality of this property photo to make it more professional and attractive",
	"repair":          "Fix any visible damage, stains, or imperfections in this property photo while keeping it realistic",
}

const defaultPrompt = "Enhance this property photo to make it more appealing and professional"

// ResolvePrompt picks the instruction sent to the model: free text wins,
// then the preset table, then the generic default. Multi-turn edits do not
// replay prior instructions; the submitted image already encodes them.
func ResolvePrompt(prompt, preset string) string {
	if prompt != "" {
		return prompt
	}
	if p, ok := presetPrompts[preset]; ok {
		return p
	}
	return defaultPrompt
}
