package presentation

import (
	"fmt"
	"strings"

	"github.com/citygreen/mastersbot/core/telegram/format"
	"github.com/citygreen/mastersbot/internal/domain"
)

// Card is a provider rendered for a chat: a photo with caption when the
// provider has photos, otherwise a text message. Text is legacy Markdown.
type Card struct {
	Photo string
	Text  string
}

// HasPhoto reports whether the card is sent as a photo.
func (c Card) HasPhoto() bool { return c.Photo != "" }

func md(s string) string { return format.Markdown(s) }

// Caption renders the client-facing provider fields.
func Caption(p domain.Provider) string {
	return fmt.Sprintf("👤 *Name:* %s\n🏙️ *City:* %s\n💰 *Price:* %s\n📞 *Contact:* %s",
		md(p.Name), md(p.City), md(p.Price), md(p.Contact))
}

// ProviderCard renders p for search results.
func ProviderCard(p domain.Provider) Card {
	return cardWith(p, Caption(p))
}

// DeletionCard renders p in the admin deletion list.
func DeletionCard(p domain.Provider) Card {
	caption := fmt.Sprintf("ID: *%d*\n👤 *Name:* %s\n🛠️ *Category:* %s\n💰 *Price:* %s",
		p.ID, md(p.Name), md(p.Category), md(p.Price))
	return cardWith(p, caption)
}

func cardWith(p domain.Provider, caption string) Card {
	if photo, ok := p.FirstPhoto(); ok {
		return Card{Photo: photo, Text: caption}
	}
	return Card{Text: "Provider card:\n" + caption}
}

// CardFailed replaces a card that could not be delivered.
func CardFailed(p domain.Provider) string {
	return fmt.Sprintf("❌ Could not load the card of %s. Please try again later.", p.Name)
}

// ProviderSummary confirms a provider created through the dialogue.
func ProviderSummary(p domain.Provider) string {
	var b strings.Builder
	b.WriteString("🎉 *Master added!*\n\n")
	fmt.Fprintf(&b, "Category: %s\n", md(p.Category))
	fmt.Fprintf(&b, "🏙️ City: %s\n", md(p.City))
	fmt.Fprintf(&b, "Name: %s\n", md(p.Name))
	fmt.Fprintf(&b, "Price: %s\n", md(p.Price))
	fmt.Fprintf(&b, "Contact: %s\n", md(p.Contact))
	fmt.Fprintf(&b, "Photos: %d", len(p.Photos))
	return b.String()
}
