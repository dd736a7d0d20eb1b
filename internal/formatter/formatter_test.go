package formatter

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/spotify-stats/internal/models"
	"github.com/desertthunder/spotify-stats/internal/shared"
)

func trackItems(t *testing.T) *models.TopItems {
	t.Helper()

	items := models.NewTopItems()
	recent := []json.RawMessage{
		json.RawMessage(`{"name":"Song One","artists":[{"name":"Artist One"},{"name":"Guest"}],"album":{"name":"Album One","images":[{"url":"https://i.scdn.co/1"}]},"popularity":80,"external_urls":{"spotify":"https://open.spotify.com/track/1"}}`),
		json.RawMessage(`{"name":"Song Two","artists":[{"name":"Artist Two"}],"album":{"name":"Album, Two"},"popularity":42}`),
	}
	if err := items.Set("last4Weeks", recent); err != nil {
		t.Fatalf("failed to set items: %v", err)
	}
	if err := items.Set("allTime", recent[1:]); err != nil {
		t.Fatalf("failed to set items: %v", err)
	}
	return items
}

func TestSections(t *testing.T) {
	t.Run("Tracks", func(t *testing.T) {
		sections, err := Sections(models.CategoryTracks, trackItems(t), "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(sections) != 3 {
			t.Fatalf("expected 3 sections, got %d", len(sections))
		}

		for i, tr := range models.TimeRanges {
			if sections[i].Range.Key != tr.Key {
				t.Errorf("section %d: expected %s, got %s", i, tr.Key, sections[i].Range.Key)
			}
		}

		first := sections[0].Rows[0]
		if first.Rank != 1 || first.Name != "Song One" || first.Detail != "Artist One, Guest" {
			t.Errorf("unexpected first row %+v", first)
		}
		if first.Album != "Album One" || first.ImageURL != "https://i.scdn.co/1" {
			t.Errorf("unexpected album fields %+v", first)
		}
		if sections[0].Rows[1].Rank != 2 {
			t.Errorf("expected rank 2, got %d", sections[0].Rows[1].Rank)
		}
		if len(sections[1].Rows) != 0 {
			t.Errorf("expected empty middle section, got %d rows", len(sections[1].Rows))
		}
	})

	t.Run("Artists", func(t *testing.T) {
		items := models.NewTopItems()
		items.Set("last6Months", []json.RawMessage{
			json.RawMessage(`{"name":"Band","genres":["indie","rock"],"images":[{"url":"https://i.scdn.co/a"}],"popularity":12}`),
		})

		sections, err := Sections(models.CategoryArtists, items, "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		row := sections[1].Rows[0]
		if row.Name != "Band" || row.Detail != "indie, rock" || row.ImageURL != "https://i.scdn.co/a" {
			t.Errorf("unexpected row %+v", row)
		}
	})

	t.Run("Single Range", func(t *testing.T) {
		sections, err := Sections(models.CategoryTracks, trackItems(t), "allTime")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(sections) != 1 || sections[0].Range.Key != "allTime" {
			t.Errorf("expected only allTime, got %+v", sections)
		}
	})

	t.Run("Malformed Item", func(t *testing.T) {
		items := models.NewTopItems()
		items.Set("allTime", []json.RawMessage{json.RawMessage(`"just a string"`)})

		if _, err := Sections(models.CategoryTracks, items, ""); err == nil {
			t.Error("expected decode error")
		}
	})

	t.Run("Unknown Category", func(t *testing.T) {
		_, err := Sections(models.Category("albums"), trackItems(t), "")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestExporters(t *testing.T) {
	t.Run("ToCSV", func(t *testing.T) {
		data, err := Render(FormatCSV, models.CategoryTracks, trackItems(t), "")
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Range,Rank,Name,Detail,Album,Popularity,URL\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "last4Weeks,1,Song One,\"Artist One, Guest\",Album One,80,https://open.spotify.com/track/1") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
		if !strings.Contains(output, "allTime,1,Song Two,Artist Two,\"Album, Two\",42,") {
			t.Errorf("CSV missing allTime row, got: %s", output)
		}
		if lines := strings.Count(output, "\n"); lines != 4 {
			t.Errorf("expected 4 lines, got %d", lines)
		}
	})

	t.Run("ToMarkdown", func(t *testing.T) {
		data, err := Render(FormatMarkdown, models.CategoryTracks, trackItems(t), "")
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		output := string(data)
		tc := []string{
			"# Top Tracks\n",
			"## Last 4 Weeks",
			"1. [Song One](https://open.spotify.com/track/1) - Artist One, Guest",
			"2. Song Two - Artist Two",
			"## Last 6 Months\n\n_Nothing here yet._",
			"## All Time",
		}
		for _, want := range tc {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("ToText", func(t *testing.T) {
		data, err := Render(FormatText, models.CategoryArtists, models.NewTopItems(), "")
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Top Artists") {
			t.Errorf("text missing title, got: %s", output)
		}
		if strings.Count(output, "(none)") != 3 {
			t.Errorf("expected three empty sections, got: %s", output)
		}
	})

	t.Run("ToText Rows", func(t *testing.T) {
		data, err := Render("", models.CategoryTracks, trackItems(t), "last4Weeks")
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, " 1. Song One - Artist One, Guest") {
			t.Errorf("text missing row, got: %s", output)
		}
		if strings.Contains(output, "All Time") {
			t.Errorf("expected only the selected range, got: %s", output)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := Render(FormatJSON, models.CategoryTracks, models.NewTopItems(), "")
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		compact := strings.Join(strings.Fields(string(data)), "")
		if compact != `{"last4Weeks":[],"last6Months":[],"allTime":[]}` {
			t.Errorf("unexpected JSON %s", data)
		}
	})

	t.Run("JSON Single Range", func(t *testing.T) {
		data, err := Render(FormatJSON, models.CategoryTracks, trackItems(t), "allTime")
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.Contains(string(data), `"allTime"`) || strings.Contains(string(data), "last4Weeks") {
			t.Errorf("unexpected JSON %s", data)
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		_, err := Render("yaml", models.CategoryTracks, models.NewTopItems(), "")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestTitle(t *testing.T) {
	if Title(models.CategoryTracks) != "Top Tracks" {
		t.Error("unexpected tracks title")
	}
	if Title(models.CategoryArtists) != "Top Artists" {
		t.Error("unexpected artists title")
	}
	if Title(models.Category("x")) != "Top Items" {
		t.Error("unexpected fallback title")
	}
}
