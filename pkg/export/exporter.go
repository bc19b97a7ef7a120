// Package export renders run records as styled xlsx workbooks, one file per
// date, for the downstream dashboard to pick up.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"twitterai/pkg/logger"
	"twitterai/pkg/models"
)

// SheetName is the single worksheet holding the daily digest
const SheetName = "Twitter Summary"

// placeholderText fills the tweet column for accounts with no tweets
const placeholderText = "暂无推文"

var headers = []string{
	"日期",
	"用户名",
	"显示名称",
	"AI摘要",
	"推文内容",
	"原始链接",
	"点赞数",
	"转发数",
	"发布时间",
}

var columnWidths = map[string]float64{
	"A": 12, // date
	"B": 15, // username
	"C": 18, // display name
	"D": 50, // ai summary
	"E": 60, // tweet text
	"F": 40, // url
	"G": 10, // likes
	"H": 10, // retweets
	"I": 18, // created at
}

// Exporter writes workbooks into an export directory
type Exporter struct {
	exportDir string
	logger    logger.Logger
}

// NewExporter creates an exporter, creating the export directory if needed
func NewExporter(exportDir string, log logger.Logger) (*Exporter, error) {
	if log == nil {
		log = logger.Get()
	}
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &Exporter{exportDir: exportDir, logger: log}, nil
}

// Path returns the workbook path for a given date
func (e *Exporter) Path(date string) string {
	return filepath.Join(e.exportDir, fmt.Sprintf("%s.xlsx", date))
}

// Export renders the record and writes it to the export directory. The only
// fatal failure is the destination write; malformed per-tweet data has been
// handled upstream and anything still off renders blank with a warning.
func (e *Exporter) Export(record *models.RunRecord) (string, error) {
	workbook, err := e.BuildWorkbook(record)
	if err != nil {
		return "", err
	}
	defer workbook.Close()

	path := e.Path(record.Date)
	if err := workbook.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.InfoWithFields("exported workbook", map[string]interface{}{
		"path":     path,
		"accounts": len(record.Accounts),
		"tweets":   record.TweetCount(),
	})
	return path, nil
}

// cellStyles holds the style ids registered on one workbook
type cellStyles struct {
	header  int
	regular int
	center  int
	wrapped int
	summary int
	link    int
	number  int
}

// BuildWorkbook renders the record into an in-memory workbook. Output is
// deterministic for a given record.
func (e *Exporter) BuildWorkbook(record *models.RunRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	styles, err := registerStyles(f)
	if err != nil {
		return nil, err
	}

	if err := e.writeHeaders(f, styles); err != nil {
		return nil, err
	}

	row := 2
	for i := range record.Accounts {
		account := &record.Accounts[i]
		next, err := e.writeAccount(f, styles, record.Date, account, row)
		if err != nil {
			return nil, err
		}
		row = next
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	err = f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to freeze header row: %w", err)
	}

	return f, nil
}

func registerStyles(f *excelize.File) (*cellStyles, error) {
	thin := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}

	styles := &cellStyles{}
	specs := []struct {
		target *int
		style  *excelize.Style
	}{
		{&styles.header, &excelize.Style{
			Font:      &excelize.Font{Family: "Arial", Size: 11, Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C2185B"}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thin,
		}},
		{&styles.regular, &excelize.Style{
			Font:      &excelize.Font{Family: "Arial", Size: 10, Color: "1D1D1F"},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top"},
			Border:    thin,
		}},
		{&styles.center, &excelize.Style{
			Font:      &excelize.Font{Family: "Arial", Size: 10, Color: "1D1D1F"},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top"},
			Border:    thin,
		}},
		{&styles.wrapped, &excelize.Style{
			Font:      &excelize.Font{Family: "Arial", Size: 10, Color: "1D1D1F"},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
			Border:    thin,
		}},
		{&styles.summary, &excelize.Style{
			Font:      &excelize.Font{Family: "Arial", Size: 10, Bold: true, Color: "1D1D1F"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F8BBD0"}},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
			Border:    thin,
		}},
		{&styles.link, &excelize.Style{
			Font:      &excelize.Font{Family: "Arial", Size: 10, Color: "0563C1", Underline: "single"},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top"},
			Border:    thin,
		}},
		{&styles.number, &excelize.Style{
			Font:      &excelize.Font{Family: "Arial", Size: 10, Color: "1D1D1F"},
			Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "top"},
			Border:    thin,
			NumFmt:    3, // #,##0
		}},
	}

	for _, spec := range specs {
		id, err := f.NewStyle(spec.style)
		if err != nil {
			return nil, fmt.Errorf("failed to register style: %w", err)
		}
		*spec.target = id
	}
	return styles, nil
}

func (e *Exporter) writeHeaders(f *excelize.File, styles *cellStyles) error {
	for i, title := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, title); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := f.SetCellStyle(SheetName, "A1", "I1", styles.header); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return nil
}

// writeAccount writes one account's rows starting at row and returns the
// next free row. The first tweet row carries the highlighted summary cell;
// zero-tweet accounts collapse to a single placeholder row.
func (e *Exporter) writeAccount(f *excelize.File, styles *cellStyles, date string, account *models.AccountResult, row int) (int, error) {
	if len(account.Tweets) == 0 {
		err := e.writeRow(f, styles, row, rowData{
			date:        date,
			username:    account.Username,
			displayName: account.DisplayName,
			summary:     account.AISummary,
			text:        placeholderText,
		})
		if err != nil {
			return 0, err
		}
		return row + 1, nil
	}

	for i := range account.Tweets {
		tweet := &account.Tweets[i]
		data := rowData{
			date:        date,
			username:    account.Username,
			displayName: account.DisplayName,
			text:        tweet.Text,
			url:         tweet.URL,
			likes:       tweet.Likes,
			retweets:    tweet.Retweets,
			createdAt:   tweet.CreatedAt,
		}
		if i == 0 {
			data.summary = account.AISummary
			data.highlight = true
		}
		if data.createdAt != "" {
			if _, err := models.ParseCreatedAt(data.createdAt); err != nil {
				e.logger.WarnWithFields("rendering blank timestamp", map[string]interface{}{
					"username": account.Username,
					"tweet_id": tweet.ID,
					"error":    err.Error(),
				})
				data.createdAt = ""
			}
		}
		if err := e.writeRow(f, styles, row+i, data); err != nil {
			return 0, err
		}
	}
	return row + len(account.Tweets), nil
}

type rowData struct {
	date        string
	username    string
	displayName string
	summary     string
	highlight   bool
	text        string
	url         string
	likes       int
	retweets    int
	createdAt   string
}

func (e *Exporter) writeRow(f *excelize.File, styles *cellStyles, row int, data rowData) error {
	set := func(col int, value interface{}, style int) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
		return f.SetCellStyle(SheetName, cell, cell, style)
	}

	if err := set(1, data.date, styles.center); err != nil {
		return err
	}
	if err := set(2, "@"+data.username, styles.regular); err != nil {
		return err
	}
	if err := set(3, data.displayName, styles.regular); err != nil {
		return err
	}

	summaryStyle := styles.wrapped
	if data.highlight && data.summary != "" {
		summaryStyle = styles.summary
	}
	if err := set(4, data.summary, summaryStyle); err != nil {
		return err
	}

	if err := set(5, data.text, styles.wrapped); err != nil {
		return err
	}

	urlStyle := styles.regular
	if data.url != "" {
		urlStyle = styles.link
	}
	if err := set(6, data.url, urlStyle); err != nil {
		return err
	}
	if data.url != "" {
		cell, _ := excelize.CoordinatesToCellName(6, row)
		if err := f.SetCellHyperLink(SheetName, cell, data.url, "External"); err != nil {
			return fmt.Errorf("failed to set hyperlink: %w", err)
		}
	}

	if err := set(7, data.likes, styles.number); err != nil {
		return err
	}
	if err := set(8, data.retweets, styles.number); err != nil {
		return err
	}
	if err := set(9, data.createdAt, styles.center); err != nil {
		return err
	}

	if err := f.SetRowHeight(SheetName, row, 30); err != nil {
		return fmt.Errorf("failed to set row height: %w", err)
	}
	return nil
}
