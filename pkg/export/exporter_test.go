package export

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twitterai/pkg/logger"
	"twitterai/pkg/models"
)

func tweet(id, text string, likes, retweets int) models.Tweet {
	return models.Tweet{
		ID:        id,
		Text:      text,
		CreatedAt: "Mon Jan 06 15:04:05 +0000 2025",
		Likes:     likes,
		Retweets:  retweets,
		URL:       "https://x.com/u/status/" + id,
	}
}

func sampleRecord() *models.RunRecord {
	return &models.RunRecord{
		Date:       "2026-08-25",
		ScrapeTime: time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC),
		Accounts: []models.AccountResult{
			{
				Username:    "openai",
				DisplayName: "OpenAI",
				Category:    "ai",
				AISummary:   "今日发布了新模型及基准测试",
				Tweets: []models.Tweet{
					tweet("1", "first", 100, 20),
					tweet("2", "second", 50, 5),
					tweet("3", "third", 10, 1),
				},
			},
			{
				Username:    "vitalik",
				DisplayName: "Vitalik",
				Category:    "web3",
				AISummary:   "讨论了扩容路线图",
				Tweets: []models.Tweet{
					tweet("4", "rollups", 200, 40),
					tweet("5", "more rollups", 80, 10),
					tweet("6", "even more", 30, 2),
				},
			},
		},
	}
}

func newTestExporter(t *testing.T) *Exporter {
	t.Helper()
	e, err := NewExporter(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	return e
}

func TestExportRowLayout(t *testing.T) {
	e := newTestExporter(t)
	f, err := e.BuildWorkbook(sampleRecord())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 7, "header row plus one row per tweet")

	assert.Equal(t, headers, rows[0])

	// First tweet row carries the summary, the rest leave it blank
	assert.Equal(t, "@openai", rows[1][1])
	assert.Equal(t, "今日发布了新模型及基准测试", rows[1][3])
	assert.Equal(t, "first", rows[1][4])
	assert.Empty(t, rows[2][3])
	assert.Empty(t, rows[3][3])

	assert.Equal(t, "@vitalik", rows[4][1])
	assert.Equal(t, "讨论了扩容路线图", rows[4][3])

	// Date repeats on every data row
	for i := 1; i < len(rows); i++ {
		assert.Equal(t, "2026-08-25", rows[i][0])
	}
}

func TestExportZeroTweetPlaceholder(t *testing.T) {
	record := sampleRecord()
	record.Accounts = []models.AccountResult{
		{
			Username:    "ghost404",
			DisplayName: "Ghost",
			Category:    "ai",
			AISummary:   "该账号今日暂无推文",
			Tweets:      []models.Tweet{},
		},
	}

	e := newTestExporter(t)
	f, err := e.BuildWorkbook(record)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2, "one placeholder row for the empty account")

	assert.Equal(t, "@ghost404", rows[1][1])
	assert.Equal(t, "该账号今日暂无推文", rows[1][3])
	assert.Equal(t, "暂无推文", rows[1][4])

	link, _, err := f.GetCellHyperLink(SheetName, "F2")
	require.NoError(t, err)
	assert.False(t, link, "placeholder rows have no hyperlink")
}

func TestExportHyperlinks(t *testing.T) {
	e := newTestExporter(t)
	f, err := e.BuildWorkbook(sampleRecord())
	require.NoError(t, err)
	defer f.Close()

	link, target, err := f.GetCellHyperLink(SheetName, "F2")
	require.NoError(t, err)
	assert.True(t, link)
	assert.Equal(t, "https://x.com/u/status/1", target)
}

func TestExportDeterministic(t *testing.T) {
	// xlsx zip bytes embed timestamps, so compare cell content instead
	e := newTestExporter(t)
	record := sampleRecord()

	first, err := e.BuildWorkbook(record)
	require.NoError(t, err)
	defer first.Close()
	second, err := e.BuildWorkbook(record)
	require.NoError(t, err)
	defer second.Close()

	firstRows, err := first.GetRows(SheetName)
	require.NoError(t, err)
	secondRows, err := second.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, firstRows, secondRows)
}

func TestExportBlanksInvalidTimestamp(t *testing.T) {
	record := sampleRecord()
	record.Accounts[0].Tweets[0].CreatedAt = "not a time"

	e := newTestExporter(t)
	f, err := e.BuildWorkbook(record)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(SheetName, "I2")
	require.NoError(t, err)
	assert.Empty(t, value, "unparseable timestamps render blank")

	value, err = f.GetCellValue(SheetName, "I3")
	require.NoError(t, err)
	assert.NotEmpty(t, value)
}

func TestExportWritesFile(t *testing.T) {
	e := newTestExporter(t)

	path, err := e.Export(sampleRecord())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, e.Path("2026-08-25"), path)
}

func TestExportColumnWidths(t *testing.T) {
	e := newTestExporter(t)
	f, err := e.BuildWorkbook(sampleRecord())
	require.NoError(t, err)
	defer f.Close()

	width, err := f.GetColWidth(SheetName, "E")
	require.NoError(t, err)
	assert.InDelta(t, 60, width, 0.01)
}
