package journal

import "fmt"

type Category string

const (
	Positive Category = "positive"
	Negative Category = "negative"
	Neutral  Category = "neutral"
)

// EmotionTag is a self-reported state attached to a trade before or after it.
type EmotionTag struct {
	ID       string   `json:"id" yaml:"id" toml:"id"`
	Label    string   `json:"label" yaml:"label" toml:"label"`
	Color    string   `json:"color" yaml:"color" toml:"color"`
	Category Category `json:"category" yaml:"category" toml:"category"`
}

// DefaultEmotionTags is the stock catalog, in display order.
var DefaultEmotionTags = []EmotionTag{
	{ID: "confident", Label: "Confident", Color: "#10b981", Category: Positive},
	{ID: "excited", Label: "Excited", Color: "#f59e0b", Category: Positive},
	{ID: "calm", Label: "Calm", Color: "#3b82f6", Category: Positive},
	{ID: "focused", Label: "Focused", Color: "#8b5cf6", Category: Positive},
	{ID: "fearful", Label: "Fearful", Color: "#ef4444", Category: Negative},
	{ID: "greedy", Label: "Greedy", Color: "#dc2626", Category: Negative},
	{ID: "anxious", Label: "Anxious", Color: "#f97316", Category: Negative},
	{ID: "frustrated", Label: "Frustrated", Color: "#be123c", Category: Negative},
	{ID: "neutral", Label: "Neutral", Color: "#6b7280", Category: Neutral},
	{ID: "uncertain", Label: "Uncertain", Color: "#64748b", Category: Neutral},
}

// ValidateCatalog rejects tags without an id, unknown categories and
// duplicate ids.
func ValidateCatalog(tags []EmotionTag) error {
	seen := make(map[string]bool, len(tags))
	for i, tag := range tags {
		if tag.ID == "" {
			return fmt.Errorf("emotion %d: id is required", i)
		}
		switch tag.Category {
		case Positive, Negative, Neutral:
		default:
			return fmt.Errorf("emotion %s: unknown category %q", tag.ID, tag.Category)
		}
		if seen[tag.ID] {
			return fmt.Errorf("emotion %s: duplicate id", tag.ID)
		}
		seen[tag.ID] = true
	}
	return nil
}

// FindEmotion looks up a tag by id.
func FindEmotion(tags []EmotionTag, id string) (EmotionTag, bool) {
	for _, tag := range tags {
		if tag.ID == id {
			return tag, true
		}
	}
	return EmotionTag{}, false
}
