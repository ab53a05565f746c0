// Command vidgate-tui is a terminal browser for a vidgate server's request
// history.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

type recordEntry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	URL       string    `json:"url"`
	FormatID  string    `json:"format_id"`
	Title     string    `json:"title"`
	Outcome   string    `json:"outcome"`
	Error     string    `json:"error"`
	Bytes     int64     `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
}

type historyPage struct {
	Records []recordEntry `json:"records"`
	Count   int           `json:"count"`
}

type viewer struct {
	app     *tview.Application
	table   *tview.Table
	status  *tview.TextView
	client  *http.Client
	baseURL string
	limit   int
}

func main() {
	baseURL := flag.String("addr", "http://127.0.0.1:8743", "vidgate server base URL")
	limit := flag.Int("limit", 100, "number of history records to fetch")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("vidgate-tui %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	v := &viewer{
		app:     tview.NewApplication(),
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: *baseURL,
		limit:   *limit,
	}
	v.setupUI()

	if err := v.app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "tui error:", err)
		os.Exit(1)
	}
}

func (v *viewer) setupUI() {
	v.table = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	v.table.SetBorder(true).SetTitle(" Request History - 'r' refresh, 'q' quit ")
	v.table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(tcell.ColorWhite).
		Background(tcell.ColorDarkCyan))

	v.status = tview.NewTextView().SetDynamicColors(true)
	v.status.SetBackgroundColor(tcell.ColorDarkBlue)

	v.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case 'q', 'Q':
				v.app.Stop()
				return nil
			case 'r', 'R':
				v.refresh()
				return nil
			}
		}
		return event
	})

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.table, 0, 1, true).
		AddItem(v.status, 1, 0, false)

	v.app.SetRoot(flex, true)
	v.refresh()
}

func (v *viewer) refresh() {
	page, err := v.fetchHistory()
	if err != nil {
		v.status.SetText(fmt.Sprintf("[red]fetch failed: %v", err))
		return
	}
	v.render(page)
	v.status.SetText(fmt.Sprintf("[white]%s - %d records - updated %s",
		v.baseURL, page.Count, time.Now().Format("15:04:05")))
}

func (v *viewer) fetchHistory() (*historyPage, error) {
	url := fmt.Sprintf("%s/history?limit=%d", v.baseURL, v.limit)
	resp, err := v.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	var page historyPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (v *viewer) render(page *historyPage) {
	v.table.Clear()

	headers := []string{"TIME", "KIND", "OUTCOME", "TITLE", "FORMAT", "BYTES", "URL"}
	for i, h := range headers {
		cell := tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1)
		v.table.SetCell(0, i, cell)
	}

	for i, rec := range page.Records {
		row := i + 1
		color := tcell.ColorWhite
		if rec.Outcome == "error" {
			color = tcell.ColorRed
		}

		title := rec.Title
		if title == "" && rec.Error != "" {
			title = rec.Error
		}

		cells := []string{
			rec.CreatedAt.Local().Format("01-02 15:04:05"),
			rec.Kind,
			rec.Outcome,
			truncate(title, 40),
			rec.FormatID,
			formatBytes(rec.Bytes),
			truncate(rec.URL, 50),
		}
		for col, text := range cells {
			v.table.SetCell(row, col, tview.NewTableCell(text).SetTextColor(color))
		}
	}

	if v.table.GetRowCount() > 1 {
		v.table.Select(1, 0)
	}
}

// truncate cuts on rune boundaries so multibyte titles and URLs never
// render a split character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1fG", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1fM", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fK", float64(n)/(1<<10))
	case n > 0:
		return fmt.Sprintf("%dB", n)
	default:
		return ""
	}
}
