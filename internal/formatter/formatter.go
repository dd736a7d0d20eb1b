// package formatter turns top items into rows for views and exports them to text, Markdown and CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/spotify-stats/internal/models"
	"github.com/desertthunder/spotify-stats/internal/services"
	"github.com/desertthunder/spotify-stats/internal/shared"
	"github.com/desertthunder/spotify-stats/internal/ui"
)

// Format names accepted by [Render].
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

// Row is one ranked item, flattened for display.
type Row struct {
	Rank       int
	Name       string
	Detail     string // artists for tracks, genres for artists
	Album      string
	Popularity int
	URL        string
	ImageURL   string
}

// Section holds the rows for one time range.
type Section struct {
	Range models.TimeRange
	Rows  []Row
}

// Sections decodes items into rows, one section per time range in response order.
//
// When only is non-empty, just that range is returned.
func Sections(category models.Category, items *models.TopItems, only string) ([]Section, error) {
	sections := make([]Section, 0, len(models.TimeRanges))

	for _, tr := range models.TimeRanges {
		if only != "" && only != tr.Key {
			continue
		}

		raw := items.Get(tr.Key)
		rows := make([]Row, 0, len(raw))
		for i, item := range raw {
			row, err := decodeRow(category, item)
			if err != nil {
				return nil, fmt.Errorf("failed to decode %s item %d: %w", tr.Key, i+1, err)
			}
			row.Rank = i + 1
			rows = append(rows, row)
		}

		sections = append(sections, Section{Range: tr, Rows: rows})
	}

	return sections, nil
}

func decodeRow(category models.Category, item json.RawMessage) (Row, error) {
	switch category {
	case models.CategoryTracks:
		var track services.SpotifyTrack
		if err := json.Unmarshal(item, &track); err != nil {
			return Row{}, err
		}

		row := Row{
			Name:       track.Name,
			Detail:     track.ArtistNames(),
			Album:      track.Album.Name,
			Popularity: track.Popularity,
			URL:        track.ExternalURLs.Spotify,
		}
		if len(track.Album.Images) > 0 {
			row.ImageURL = track.Album.Images[0].URL
		}
		return row, nil
	case models.CategoryArtists:
		var artist services.SpotifyArtist
		if err := json.Unmarshal(item, &artist); err != nil {
			return Row{}, err
		}

		row := Row{
			Name:       artist.Name,
			Detail:     strings.Join(artist.Genres, ", "),
			Popularity: artist.Popularity,
			URL:        artist.ExternalURLs.Spotify,
		}
		if len(artist.Images) > 0 {
			row.ImageURL = artist.Images[0].URL
		}
		return row, nil
	default:
		return Row{}, fmt.Errorf("%w: category %q", shared.ErrInvalidArgument, category)
	}
}

// Title returns the heading used for a category, e.g. "Top Tracks".
func Title(category models.Category) string {
	switch category {
	case models.CategoryTracks:
		return "Top Tracks"
	case models.CategoryArtists:
		return "Top Artists"
	}
	return "Top Items"
}

// Render writes items in the named format.
func Render(format string, category models.Category, items *models.TopItems, only string) ([]byte, error) {
	if format == FormatJSON {
		if only != "" {
			return shared.MarshalJSON(map[string]any{only: items.Get(only)}, true)
		}
		return shared.MarshalJSON(items, true)
	}

	sections, err := Sections(category, items, only)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatText, "":
		return ToText(Title(category), sections)
	case FormatMarkdown:
		return ToMarkdown(Title(category), sections)
	case FormatCSV:
		return ToCSV(sections)
	default:
		return nil, fmt.Errorf("%w: format %q", shared.ErrInvalidArgument, format)
	}
}

// ToCSV writes one record per row with columns: Range, Rank, Name, Detail, Album, Popularity, URL
func ToCSV(sections []Section) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Range", "Rank", "Name", "Detail", "Album", "Popularity", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range sections {
		for _, row := range s.Rows {
			record := []string{
				s.Range.Key,
				strconv.Itoa(row.Rank),
				row.Name,
				row.Detail,
				row.Album,
				strconv.Itoa(row.Popularity),
				row.URL,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown writes a heading per time range followed by a numbered list.
func ToMarkdown(title string, sections []Section) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n", title))

	for _, s := range sections {
		buf.WriteString(fmt.Sprintf("\n## %s\n\n", s.Range.Label))
		if len(s.Rows) == 0 {
			buf.WriteString("_Nothing here yet._\n")
			continue
		}

		for _, row := range s.Rows {
			name := row.Name
			if row.URL != "" {
				name = fmt.Sprintf("[%s](%s)", row.Name, row.URL)
			}
			if row.Detail != "" {
				buf.WriteString(fmt.Sprintf("%d. %s - %s\n", row.Rank, name, row.Detail))
			} else {
				buf.WriteString(fmt.Sprintf("%d. %s\n", row.Rank, name))
			}
		}
	}

	return buf.Bytes(), nil
}

// ToText writes a plain listing with styled headings.
func ToText(title string, sections []Section) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(ui.Styles.Title(title) + "\n")

	for _, s := range sections {
		buf.WriteString("\n" + ui.Styles.OK(s.Range.Label) + "\n")
		if len(s.Rows) == 0 {
			buf.WriteString(ui.Styles.Help("  (none)") + "\n")
			continue
		}

		for _, row := range s.Rows {
			if row.Detail != "" {
				buf.WriteString(fmt.Sprintf("%2d. %s - %s\n", row.Rank, row.Name, row.Detail))
			} else {
				buf.WriteString(fmt.Sprintf("%2d. %s\n", row.Rank, row.Name))
			}
		}
	}

	return buf.Bytes(), nil
}
