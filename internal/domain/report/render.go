package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/weatherwise/pkg/util"
)

var footer = [][]string{
	{"Data Source: Simulated historical weather probabilities"},
	{"Analysis Type: Historical Weather Probability"},
	{"Confidence Level: Indicative only"},
}

// Rows lays out the flat labelled record export.
func Rows(rec Record, generated time.Time) [][]string {
	m := rec.Metrics
	rows := [][]string{
		{"WeatherWise Report"},
		{"Generated:", generated.UTC().Format(time.RFC3339)},
		{""},
		{"Location:", placeName(rec)},
		{"Coordinates:", fmt.Sprintf("%.4f, %.4f", rec.Location.Lat, rec.Location.Lng)},
		{"Date:", util.ShortDate(rec.Date)},
		{"Profile:", rec.Profile.DisplayName()},
		{""},
		{"Weather Analysis:"},
		{"Very Hot Probability (%)", strconv.Itoa(m.Heat)},
		{"Very Wet Probability (%)", strconv.Itoa(m.Wet)},
		{"Very Windy Probability (%)", strconv.Itoa(m.Windy)},
		{"Very Cold Probability (%)", strconv.Itoa(m.Cold)},
		{"Comfort Index (%)", strconv.Itoa(m.Comfort)},
		{""},
	}
	return append(rows, footer...)
}

// EncodeCSV writes rows as comma separated values, quoting labels that need it.
func EncodeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ShareText renders the short summary used when sharing an analysis.
func ShareText(rec Record) string {
	m := rec.Metrics
	return fmt.Sprintf(`WeatherWise Analysis for %s on %s

Hot Risk: %d%%
Rain Risk: %d%%
Wind Risk: %d%%
Cold Risk: %d%%
Comfort Index: %d%%

Plan smarter with WeatherWise!`,
		placeName(rec), util.ShortDate(rec.Date), m.Heat, m.Wet, m.Windy, m.Cold, m.Comfort)
}

// FileName builds the download name, e.g. weatherwise-report-New-York-2025-03-05.csv.
func FileName(rec Record, ext string) string {
	label := strings.Join(strings.Fields(placeName(rec)), "-")
	return fmt.Sprintf("weatherwise-report-%s-%s.%s", label, rec.Date.Format(util.DateLayout), ext)
}

func placeName(rec Record) string {
	if label := strings.TrimSpace(rec.Location.Label); label != "" {
		return label
	}
	return fmt.Sprintf("%.4f, %.4f", rec.Location.Lat, rec.Location.Lng)
}
