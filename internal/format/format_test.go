package format

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	out := Markdown("Used for **research** synthesis.\nSee https://example.com\n\n<script>alert(1)</script>")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(out)))
	require.NoError(t, err)

	require.Equal(t, "research", doc.Find("strong").Text())
	href, _ := doc.Find("a").Attr("href")
	require.Equal(t, "https://example.com", href)
	require.Zero(t, doc.Find("script").Length())
	require.Equal(t, 1, doc.Find("br").Length())

	require.Empty(t, Markdown("   "))
}

func TestMonthYear(t *testing.T) {
	require.Equal(t, "May 2024", MonthYear("2024-05-17"))
	require.Equal(t, "Mar 2023", MonthYear("2023-03"))
	require.Equal(t, "Jan 2022", MonthYear("2022-01-09T10:00:00Z"))
	require.Equal(t, "Spring 2021", MonthYear(" Spring 2021 "))
}

func TestFmtDate(t *testing.T) {
	d := time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "Feb 3, 2025", FmtDate(d))
	require.Equal(t, 2025, Year(d))
}
