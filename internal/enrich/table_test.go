package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	in := "\ufeff Ticker , FILED,Note\nAAPL,2024-01-02,\"a, b\"\n\nMSFT,2024-01-03\n"

	tbl, err := ReadTable(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"ticker", "filed", "note"}, tbl.Header)
	require.Len(t, tbl.Rows, 2, "blank lines are skipped")
	assert.Equal(t, "a, b", tbl.Rows[0][2])
	assert.Equal(t, []string{"MSFT", "2024-01-03", ""}, tbl.Rows[1], "short rows are padded")
	assert.Equal(t, 1, tbl.Index("filed"))
	assert.Equal(t, -1, tbl.Index("price"))
}

func TestTable_Bytes(t *testing.T) {
	tbl := &Table{
		Header: []string{"ticker", "note"},
		Rows:   [][]string{{"AAPL", "has, comma"}},
	}

	data, err := tbl.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "ticker,note\nAAPL,\"has, comma\"\n", string(data))
}
