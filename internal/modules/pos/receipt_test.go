package pos

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReceipt(t *testing.T) {
	s := twoLineSale()
	s.ID = 41
	s.CreatedAt = time.Date(2024, 3, 9, 18, 30, 0, 0, time.Local)
	s.Cashier = "nadia"

	var buf bytes.Buffer
	require.NoError(t, Receipts{ShopName: "2M Market"}.Render(&buf, s))
	out := buf.String()

	assert.Contains(t, out, "2M Market")
	assert.Contains(t, out, "Ticket n° 41")
	assert.Contains(t, out, "09/03/2024 18:30")
	assert.Contains(t, out, "Caissier: nadia")
	assert.Contains(t, out, "Lait")
	assert.Contains(t, out, "2 x 7.00")
	assert.Contains(t, out, "14.00")
	assert.Contains(t, out, "TOTAL: 17.60")
	assert.Contains(t, out, "Articles: 5")
}

func TestSaveReceipt(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tickets")
	s := twoLineSale()
	s.ID = 12

	path, err := Receipts{ShopName: "2M Market", Dir: dir}.Save(s)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ticket_12.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(data)), "2M Market"))
}

func TestSaveWithoutDirIsNoop(t *testing.T) {
	path, err := Receipts{}.Save(twoLineSale())

	assert.NoError(t, err)
	assert.Empty(t, path)
}

func TestTruncateLongNames(t *testing.T) {
	name := strings.Repeat("é", 50)
	got := truncate(name, receiptWidth)

	assert.Equal(t, receiptWidth, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}
