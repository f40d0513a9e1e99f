package presentation

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/citygreen/mastersbot/internal/domain"

	tele "gopkg.in/telebot.v4"
)

func inlineData(m *tele.ReplyMarkup) [][2]string {
	var out [][2]string
	for _, row := range m.InlineKeyboard {
		for _, b := range row {
			out = append(out, [2]string{b.Unique, b.Data})
		}
	}
	return out
}

func TestRootMenuByRole(t *testing.T) {
	labels := func(m *tele.ReplyMarkup) []string {
		var out []string
		for _, row := range m.ReplyKeyboard {
			for _, b := range row {
				out = append(out, b.Text)
			}
		}
		return out
	}
	admin := labels(RootMenu(domain.RoleAdmin))
	client := labels(RootMenu(domain.RoleClient))

	for _, l := range []string{LabelAddProvider, LabelDeleteProvider, LabelBroadcast, LabelImport} {
		if !contains(admin, l) {
			t.Errorf("admin menu lacks %q", l)
		}
		if contains(client, l) {
			t.Errorf("client menu exposes admin label %q", l)
		}
	}
	for _, l := range []string{LabelListProviders, LabelMaterials, LabelContactManager} {
		if !contains(client, l) {
			t.Errorf("client menu lacks %q", l)
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestCategoryPickerEndsWithCancel(t *testing.T) {
	got := inlineData(CategoryPicker([]string{"Plumber", "Tiler"}))
	want := [][2]string{
		{CBPickCategory, "Plumber"},
		{CBPickCategory, "Tiler"},
		{CBAddCancel, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("picker mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchCategoriesCarryIndex(t *testing.T) {
	long := strings.Repeat("Very long category name ", 4)
	got := inlineData(SearchCategories([]string{"Electrician", long}))
	want := [][2]string{
		{CBSearchCategory, "0"},
		{CBSearchCategory, "1"},
		{CBBackToMenu, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("search picker mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteButtonPayload(t *testing.T) {
	got := inlineData(DeleteButton(42))
	if diff := cmp.Diff([][2]string{{CBDeleteConfirm, "42"}}, got); diff != "" {
		t.Fatalf("delete button mismatch:\n%s", diff)
	}
}

func TestContactManager(t *testing.T) {
	if m := ContactManager(""); m != nil {
		t.Fatalf("expected nil markup without a manager")
	}
	m := ContactManager("@citygreen_manager")
	if url := m.InlineKeyboard[0][0].URL; url != "https://t.me/citygreen_manager" {
		t.Fatalf("url = %q", url)
	}
}

func TestProviderCard(t *testing.T) {
	p := domain.Provider{ID: 3, Category: "Plumber", Name: "John_Smith", City: "Moscow", Price: "100", Contact: "+1555", Photos: []string{"", "ph1"}}
	card := ProviderCard(p)
	if !card.HasPhoto() || card.Photo != "ph1" {
		t.Fatalf("photo = %q, want first non-empty", card.Photo)
	}
	if !strings.Contains(card.Text, `John\_Smith`) {
		t.Fatalf("name not escaped: %q", card.Text)
	}

	p.Photos = nil
	card = ProviderCard(p)
	if card.HasPhoto() || !strings.HasPrefix(card.Text, "Provider card:\n") {
		t.Fatalf("text card = %+v", card)
	}
	if del := DeletionCard(p); !strings.Contains(del.Text, "ID: *3*") {
		t.Fatalf("deletion card lacks id: %q", del.Text)
	}
}

func TestImportReport(t *testing.T) {
	ok := ImportReport(1, []string{"Row 2: not enough fields"})
	if !strings.Contains(ok, "*1*") || !strings.Contains(ok, "Row 2") {
		t.Fatalf("report = %q", ok)
	}
	if none := ImportReport(0, nil); !strings.Contains(none, "no valid rows") {
		t.Fatalf("empty report = %q", none)
	}
}

func TestFitsCallback(t *testing.T) {
	if !FitsCallback(CBPickCategory, "Electrician") {
		t.Fatal("short category should fit")
	}
	if FitsCallback(CBPickCategory, strings.Repeat("x", 60)) {
		t.Fatal("60-byte payload should not fit")
	}
}

// openEntities reports which legacy Markdown entities are still open at the
// end of s. Escaped characters do not count.
func openEntities(s string) string {
	var open []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' {
			i++
			continue
		}
		if c != '*' && c != '_' && c != '`' {
			continue
		}
		if n := len(open); n > 0 && open[n-1] == c {
			open = open[:n-1]
		} else {
			open = append(open, c)
		}
	}
	return string(open)
}

func TestUserValuesStayOutsideEntities(t *testing.T) {
	const city, category = "Moscow*", "St_Pete tiles"
	texts := map[string]string{
		"category selected": CategorySelected(category),
		"city accepted":     PickSearchCategory(city),
		"no matches":        NoMatches(city, category),
		"matches header":    MatchesHeader(city, category, 1),
	}
	for name, text := range texts {
		for _, v := range []string{city, category} {
			esc := md(v)
			idx := strings.Index(text, esc)
			if idx < 0 {
				if name == "category selected" && v == city || name == "city accepted" && v == category {
					continue
				}
				t.Errorf("%s: %q lacks %q", name, text, esc)
				continue
			}
			if open := openEntities(text[:idx]); open != "" {
				t.Errorf("%s: %q sits inside %q in %q", name, v, open, text)
			}
		}
		if open := openEntities(text); open != "" {
			t.Errorf("%s: unbalanced entities %q in %q", name, open, text)
		}
	}
}
