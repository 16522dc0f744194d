// Package table extracts sports-reference stats tables from parsed HTML.
//
// The site's tables share one layout: the last row of thead names the columns,
// and tbody interleaves data rows with repeated header rows marked class="thead".
package table

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Table is a header row plus data rows. Every row has len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Info describes a table on a page, for diagnostics.
type Info struct {
	ID    string
	Class string
}

// Extract reads a <table> selection. Rows whose first cell is empty are
// dropped. Short rows are padded with "" and long rows truncated so every row
// matches the header width. If the table has no thead, the width of the first
// data row is used and Columns is left empty.
func Extract(sel *goquery.Selection) *Table {
	t := &Table{Rows: make([][]string, 0)}

	sel.Find("thead tr").Last().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		t.Columns = append(t.Columns, strings.TrimSpace(cell.Text()))
	})

	sel.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		if row.HasClass("thead") {
			return
		}

		cells := make([]string, 0, len(t.Columns))
		row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})

		if len(cells) == 0 || cells[0] == "" {
			return
		}
		t.Rows = append(t.Rows, cells)
	})

	t.normalize()
	return t
}

func (t *Table) normalize() {
	width := len(t.Columns)
	if width == 0 {
		return
	}
	for i, row := range t.Rows {
		switch {
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			t.Rows[i] = padded
		case len(row) > width:
			t.Rows[i] = row[:width]
		}
	}
}

// Index returns the position of the first column named name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Describe lists the id and class of every table in doc.
func Describe(doc *goquery.Document) []Info {
	infos := make([]Info, 0)
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		class, _ := sel.Attr("class")
		infos = append(infos, Info{ID: id, Class: class})
	})
	return infos
}
