// Package sheets fetches the raw spreadsheet grid the ingestion pipeline
// consumes: string cells, per-row background colors, and the sheet-year
// hint derived from the spreadsheet title.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/venuelog/sheetsync/internal/errors"
	"github.com/venuelog/sheetsync/internal/logging"
	"github.com/venuelog/sheetsync/internal/models"
)

// SheetData is the rectangular grid handed to the row parser. Rows includes
// the header row; RowColors is parallel to Rows, nil where a row carries no
// background color.
type SheetData struct {
	Title     string
	SheetYear string
	Rows      [][]string
	RowColors []*models.RawColor
}

// Source supplies sheet data to the sync engine.
type Source interface {
	Fetch(ctx context.Context) (*SheetData, error)
}

const defaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// yearRe extracts the sheet-year hint from a spreadsheet title like
// "Bookings 2025".
var yearRe = regexp.MustCompile(`\b(20\d{2})\b`)

// Client fetches a spreadsheet over the Sheets v4 REST API, requesting
// grid data so per-cell background colors come back with the values.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	spreadsheetID string
	sheetName     string
	apiKey        string
	now           func() time.Time
}

// NewClient creates a Client for one spreadsheet tab.
func NewClient(spreadsheetID, sheetName, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:       defaultBaseURL,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		apiKey:        apiKey,
		now:           time.Now,
	}
}

// apiResponse mirrors the subset of the Sheets API response we consume.
type apiResponse struct {
	Properties struct {
		Title string `json:"title"`
	} `json:"properties"`
	Sheets []struct {
		Data []struct {
			RowData []struct {
				Values []struct {
					FormattedValue  string `json:"formattedValue"`
					EffectiveFormat *struct {
						BackgroundColor *models.RawColor `json:"backgroundColor"`
					} `json:"effectiveFormat"`
				} `json:"values"`
			} `json:"rowData"`
		} `json:"data"`
	} `json:"sheets"`
}

// Fetch retrieves the grid and flattens it into SheetData.
func (c *Client) Fetch(ctx context.Context) (*SheetData, error) {
	endpoint := fmt.Sprintf("%s/%s?ranges=%s&includeGridData=true&key=%s",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.QueryEscape(c.sheetName), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrSheetFetch, "building request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrSheetFetch, "fetching spreadsheet", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrSheetFetch, "spreadsheet fetch returned status %d", resp.StatusCode)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(errors.ErrSheetFetch, "decoding spreadsheet response", err)
	}

	data := c.flatten(&decoded)

	logging.Info("spreadsheet fetched", map[string]interface{}{
		"title":      data.Title,
		"sheet_year": data.SheetYear,
		"rows":       len(data.Rows),
	})
	return data, nil
}

// flatten converts the API shape into the pipeline's grid.
func (c *Client) flatten(decoded *apiResponse) *SheetData {
	data := &SheetData{
		Title:     decoded.Properties.Title,
		SheetYear: c.sheetYear(decoded.Properties.Title),
	}

	if len(decoded.Sheets) == 0 || len(decoded.Sheets[0].Data) == 0 {
		return data
	}

	for _, rowData := range decoded.Sheets[0].Data[0].RowData {
		row := make([]string, len(rowData.Values))
		var color *models.RawColor
		for i, v := range rowData.Values {
			row[i] = v.FormattedValue
			// The row's color is taken from its first painted cell.
			if color == nil && v.EffectiveFormat != nil {
				color = backgroundColor(v.EffectiveFormat.BackgroundColor)
			}
		}
		data.Rows = append(data.Rows, row)
		data.RowColors = append(data.RowColors, color)
	}

	return data
}

// backgroundColor filters out the default white background, which the API
// reports even for unpainted cells.
func backgroundColor(raw *models.RawColor) *models.RawColor {
	if raw == nil {
		return nil
	}
	if raw.Red == 1 && raw.Green == 1 && raw.Blue == 1 {
		return nil
	}
	return raw
}

// sheetYear extracts the year hint from the spreadsheet title, falling
// back to the current calendar year.
func (c *Client) sheetYear(title string) string {
	if m := yearRe.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return strconv.Itoa(c.now().Year())
}
