package cpi

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"fininja/ib-tax/internal/logging"
)

// DefaultHilanURL is a public page listing the full monthly index history.
const DefaultHilanURL = "https://calculators.hilan.co.il/calc/ConsumerPriceIndexCalculator.aspx"

// FetchHilanSeries downloads the Hilan index page and scrapes the monthly
// series out of it. Each data row is a div with an "innerrow" class whose
// first cell is the month (MM/YYYY) and fifth cell the index value.
func FetchHilanSeries(url string, fallback bool) (*Series, error) {
	if url == "" {
		url = DefaultHilanURL
	}
	log.Info("Downloading index series", logging.Field{Key: logging.FieldSource, Value: url})

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download index page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download index page: received status %s", resp.Status)
	}

	return ParseHilanSeries(resp.Body, fallback)
}

// ParseHilanSeries scrapes the monthly index series from the page HTML.
func ParseHilanSeries(r io.Reader, fallback bool) (*Series, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index page: %w", err)
	}

	var obs []Observation
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "innerrow") {
			if o, ok := rowObservation(n); ok {
				obs = append(obs, o)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(obs) == 0 {
		return nil, fmt.Errorf("no index rows found in page")
	}

	log.Info("Scraped index series", logging.Field{Key: logging.FieldCount, Value: len(obs)})
	return NewSeries(obs, fallback), nil
}

// rowObservation reads the month and value cells out of one data row.
func rowObservation(row *html.Node) (Observation, bool) {
	var cells []string
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "div" {
			cells = append(cells, strings.TrimSpace(nodeText(c)))
		}
	}
	if len(cells) < 5 {
		return Observation{}, false
	}

	month, err := time.Parse("01/2006", cells[0])
	if err != nil {
		return Observation{}, false
	}
	value, err := decimal.NewFromString(cells[4])
	if err != nil {
		return Observation{}, false
	}
	return Observation{Month: month, Value: value}, true
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" && strings.Contains(attr.Val, class) {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
