package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/chatbench/pkg/benchdir"
)

const (
	datasetPickerMaxShow    = 6
	datasetPickerMaxEntries = 1000
)

// datasetPickerModel lets the user choose a JSON dataset for fine-tuning.
// Typed characters narrow the list.
type datasetPickerModel struct {
	active   bool
	query    string
	entries  []string
	filtered []string
	cursor   int
	maxShow  int
	width    int
}

func newDatasetPicker() datasetPickerModel {
	return datasetPickerModel{maxShow: datasetPickerMaxShow}
}

// activate opens the picker and starts discovery when no entries are cached.
func (fp *datasetPickerModel) activate() tea.Cmd {
	fp.active = true
	fp.query = ""
	fp.cursor = 0
	if len(fp.entries) > 0 {
		fp.applyFilter()
		return nil
	}
	return discoverDatasetsCmd(".")
}

func (fp *datasetPickerModel) dismiss() {
	fp.active = false
	fp.query = ""
	fp.filtered = nil
	fp.cursor = 0
}

func (fp *datasetPickerModel) setEntries(entries []string) {
	fp.entries = entries
	if fp.active {
		fp.applyFilter()
	}
}

func (fp *datasetPickerModel) selected() string {
	if len(fp.filtered) == 0 {
		return ""
	}
	return fp.filtered[fp.cursor]
}

// handleKey processes a key while the picker is open. done is true when the
// picker closed; sel holds the chosen path, or "" on cancel.
func (fp *datasetPickerModel) handleKey(msg tea.KeyMsg) (done bool, sel string) {
	switch msg.Type {
	case tea.KeyUp:
		if fp.cursor > 0 {
			fp.cursor--
		}
	case tea.KeyDown:
		if fp.cursor < len(fp.filtered)-1 {
			fp.cursor++
		}
	case tea.KeyEnter, tea.KeyTab:
		sel := fp.selected()
		if sel == "" {
			return false, ""
		}
		fp.dismiss()
		return true, sel
	case tea.KeyEsc:
		fp.dismiss()
		return true, ""
	case tea.KeyBackspace:
		if q := []rune(fp.query); len(q) > 0 {
			fp.query = string(q[:len(q)-1])
			fp.cursor = 0
			fp.applyFilter()
		}
	case tea.KeyRunes:
		fp.query += string(msg.Runes)
		fp.cursor = 0
		fp.applyFilter()
	}
	return false, ""
}

func (fp datasetPickerModel) View() string {
	if !fp.active {
		return ""
	}

	innerWidth := max(fp.width-4, 20)

	var sb strings.Builder
	sb.WriteString(pickerHintStyle.Render("  datasets matching: " + fp.query))
	sb.WriteString("\n")

	if len(fp.filtered) == 0 {
		sb.WriteString(pickerDimStyle.Render("  No JSON files"))
	} else {
		show := min(len(fp.filtered), fp.maxShow)
		start := 0
		if fp.cursor >= show {
			start = fp.cursor - show + 1
		}
		end := min(start+show, len(fp.filtered))

		for i := start; i < end; i++ {
			entry := fp.filtered[i]
			if i == fp.cursor {
				sb.WriteString(pickerCurStyle.Render(entry))
			} else {
				sb.WriteString(pickerDimStyle.Render(entry))
			}
			if i < end-1 {
				sb.WriteString("\n")
			}
		}
	}

	return pickerBorder.Width(innerWidth).Render(sb.String())
}

func (fp *datasetPickerModel) applyFilter() {
	q := strings.ToLower(fp.query)
	if q == "" {
		fp.filtered = fp.entries
		return
	}

	var prefix, contains []string
	for _, e := range fp.entries {
		base := strings.ToLower(filepath.Base(e))
		if strings.HasPrefix(base, q) {
			prefix = append(prefix, e)
		} else if strings.Contains(strings.ToLower(e), q) {
			contains = append(contains, e)
		}
	}
	fp.filtered = append(prefix, contains...)
}

// discoverDatasetsCmd walks root for *.json files.
func discoverDatasetsCmd(root string) tea.Cmd {
	return func() tea.Msg {
		return datasetEntriesMsg{entries: discoverDatasets(root)}
	}
}

func discoverDatasets(root string) []string {
	var entries []string
	skipDirs := map[string]bool{
		".git":               true,
		"node_modules":       true,
		"vendor":             true,
		benchdir.DefaultName: true,
	}

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return filepath.SkipDir
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if len(entries) >= datasetPickerMaxEntries {
			return filepath.SkipAll
		}
		// Same suffix rule as the backend's fine-tune endpoint.
		if strings.HasSuffix(path, ".json") {
			entries = append(entries, path)
		}
		return nil
	})

	sort.Strings(entries)
	return entries
}
