package presentation

import (
	"fmt"
	"strings"

	"github.com/citygreen/mastersbot/internal/domain"
)

// Texts containing *bold* are sent with the legacy Markdown parse mode;
// user-supplied values are escaped by the helpers that take them.

const (
	GreetingAdmin  = "👋 Welcome, administrator! This is the control panel."
	GreetingClient = "👋 Welcome to CityGreen! Pick a section below."
	MenuAdmin      = "↩️ Back to the admin panel."
	MenuClient     = "↩️ Back to the main menu."

	HelpAdmin = "ℹ️ Admin panel help:\n" +
		"➕ *Add master*: step-by-step entry of a new master with contacts, price and photos.\n" +
		"🗑️ *Delete master*: lists every master with a delete button.\n" +
		"📢 *Broadcast*: sends your message to every registered client.\n" +
		"📄 *Bulk import (CSV)*: adds many masters from one file.\n" +
		"/start, /menu, /help: basic commands."
	HelpClient = "ℹ️ CityGreen help:\n" +
		"📋 *Masters list*: enter your city, then pick a category.\n" +
		"💬 *Contact manager*: a direct link to our manager.\n" +
		"🧱 *Building materials*: coming soon.\n" +
		"/start, /menu, /help: basic commands."

	Materials      = "🚧 The *Building materials* section is under construction. Coming soon!"
	ManagerMissing = "Manager contact is not configured yet."
)

// Greeting, MenuText and Help select the role-specific variant.
func Greeting(role domain.Role) string {
	if role == domain.RoleAdmin {
		return GreetingAdmin
	}
	return GreetingClient
}

func MenuText(role domain.Role) string {
	if role == domain.RoleAdmin {
		return MenuAdmin
	}
	return MenuClient
}

func Help(role domain.Role) string {
	if role == domain.RoleAdmin {
		return HelpAdmin
	}
	return HelpClient
}

func ContactManagerText(username string) string {
	return "Press the button below to chat with the manager:\n@" + strings.TrimPrefix(username, "@")
}

// AddProvider flow.
const (
	PromptCategory   = "🛠️ Choose the master *category* from the list:"
	UseCategoryBtns  = "⚠️ Please *choose a category with the buttons* below. Do not type it."
	PromptName       = "✍️ Now enter the master *name* (for example, John Smith)."
	NameRequired     = "⚠️ The name cannot be empty. Enter the master *name*."
	PromptCity       = "🏙️ Enter the *city* where the master works."
	PromptPrice      = "💰 Enter the *price* (for example, from 20 USD/hour or negotiable)."
	PromptContact    = "📞 Enter the master *contact* (phone or Telegram @username)."
	ContactRequired  = "⚠️ The contact cannot be empty. Enter a phone or @username."
	PromptPhotos     = "🖼️ Send *photos* of the master or their work. You can send several in a row.\n\nWhen finished, press *➡️ Done*."
	PhotoAccepted    = "✅ Photo accepted. Send more or press ➡️ Done."
	NoPhotosYet      = "⚠️ You have not sent any photos yet. Send at least one, or press ❌ Cancel to stop adding."
	AddCancelled     = "❌ *Adding the master was cancelled.*"
	AddCancelledAck  = "Adding cancelled."
	ProviderSaveFail = "❌ Could not save the master. Please try Done again."
)

func CategorySelected(category string) string {
	return fmt.Sprintf("✅ *Category selected:* %s.\n\n%s", md(category), PromptName)
}

// SearchProviders flow.
const (
	PromptSearchCity = "🏙️ Enter the *city* where you need a master.\n_(a full name or any part of it)_"
	NoProvidersYet   = "❌ There are no masters in the database yet."
	SearchAck        = "Searching masters in the chosen category..."
)

func PickSearchCategory(city string) string {
	return fmt.Sprintf("✅ *City accepted:* %s.\n\nChoose the master *category*:", md(city))
}

func NoMatches(city, category string) string {
	return fmt.Sprintf("❌ *No masters found.*\nCategory: %s\nCity: %s", md(category), md(city))
}

func MatchesHeader(city, category string, n int) string {
	return fmt.Sprintf("🛠️ *Found %d master(s).*\nCity: %s\nCategory: %s", n, md(city), md(category))
}

// Broadcast flow.
const PromptBroadcast = "✍️ Enter the *message text* to send to every client."

func BroadcastStarting(total int) string {
	return fmt.Sprintf("⏳ Starting the broadcast for %d client(s)...", total)
}

func BroadcastDone(delivered, total int) string {
	return fmt.Sprintf("✅ *Broadcast finished!*\nDelivered: %d of %d.", delivered, total)
}

// BatchImport flow.
const (
	PromptImport = "📂 *Bulk import of masters (CSV)*\n\n" +
		"Send a *CSV* file with these columns, in this order, without a header:\n\n" +
		"`category,name,price,contact`\n\n" +
		"*Example row:* `Plumber,John Smith,from 20 USD/hour,+15550001111`\n" +
		"Press ⬅️ Back to menu to cancel."
	ExpectCSV      = "⚠️ Please send a file in *CSV* format, or press ⬅️ Back to menu to cancel."
	ImportReceived = "⏳ File received, processing..."
)

// ImportReport summarises an import. errs are the per-row messages.
func ImportReport(inserted int, errs []string) string {
	report := "No errors."
	if len(errs) > 0 {
		report = strings.Join(errs, "\n")
	}
	if inserted == 0 {
		return "❌ *Import finished:* no valid rows were found.\nErrors:\n" + md(report)
	}
	return fmt.Sprintf("🎉 *Bulk import finished!*\nMasters added: *%d*.\nErrors:\n%s", inserted, md(report))
}

// ImportFailed reports an error that stopped the whole import.
func ImportFailed(reason string) string {
	return fmt.Sprintf("❌ *Critical error while reading the file:* %s. Make sure the file is UTF-8 encoded.", md(reason))
}

// Provider deletion.
const (
	NothingToDelete = "❌ There are no masters in the database to delete."
	DeleteAck       = "Deleting..."
)

func DeleteListHeader(n int) string {
	return fmt.Sprintf("🛠️ *Masters found:* %d. Press 🗑️ Delete permanently under the one to remove:", n)
}

func Deleted(id int64) string {
	return fmt.Sprintf("✅ *Master ID %d deleted.*", id)
}

func DeleteNotFound(id int64) string {
	return fmt.Sprintf("❌ *Error:* master ID %d was not found.", id)
}
