package cli

import "fmt"

// Palette is the fixed emoji set offered by the composer picker.
var Palette = []string{
	"😊", "😂", "❤️", "😍", "👍", "😒", "😘", "😭", "😁", "😔",
	"😉", "😎", "😢", "😆", "😜", "😋", "😡", "🙄", "😴", "🤔",
	"😳", "😅", "😩", "😌", "😀", "😃", "😄", "😱", "😏", "😚",
	"😝", "🔥", "👏", "👌", "💯", "🙏", "💕", "💔", "💓", "💖",
}

// PickEmoji resolves a 1-based palette index to its glyph.
func PickEmoji(index int) (string, error) {
	if index < 1 || index > len(Palette) {
		return "", fmt.Errorf("emoji index out of range: %d (1-%d)", index, len(Palette))
	}
	return Palette[index-1], nil
}
