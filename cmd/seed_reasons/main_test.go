package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Latin1(t *testing.T) {
	// "Vacunación" con ó en ISO-8859-1 (0xF3)
	raw := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<reasons><type code=\"discard\"><reason id=\"2\" title=\"Vacunaci\xf3n fallida\"/>" +
		"<reason id=\"1\" title=\"Otro\" other=\"true\"/></type>" +
		"<type code=\"transfer\"><reason id=\"9\" title=\"x\"/></type></reasons>")

	rows, err := parse(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].id)
	assert.True(t, rows[0].other)
	assert.Equal(t, "Vacunación fallida", rows[1].title)
}

func TestParse_DescartaDuplicadosEIncompletos(t *testing.T) {
	raw := `<reasons><type code="add_stock">
		<reason id="1" title="A"/><reason id="1" title="B"/><reason id="0" title="C"/><reason id="3" title=" "/>
	</type></reasons>`
	rows, err := parse(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].title)
}

func TestWriteSQL(t *testing.T) {
	var buf bytes.Buffer
	err := writeSQL(&buf, []row{
		{id: 1, txType: "add_stock", title: "Compra", purchase: true},
		{id: 2, txType: "discard", title: "Vial d'origen", other: true},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "(1, 'add_stock', 'Compra', false, true),\n")
	assert.Contains(t, out, "(2, 'discard', 'Vial d''origen', true, false)\n")
	assert.Contains(t, out, "ON CONFLICT (id)")
}
