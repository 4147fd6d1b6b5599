// seed_reasons genera el script SQL que puebla el catálogo de motivos de transacción
// a partir del XML del catálogo nacional (codificado en ISO-8859-1).
//
// Uso: go run ./cmd/seed_reasons [ruta/reasons.xml]
// Por defecto usa reasons.xml del directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/003_seed_transaction_reasons.sql
package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalog struct {
	Types []reasonType `xml:"type"`
}

type reasonType struct {
	Code    string   `xml:"code,attr"`
	Reasons []reason `xml:"reason"`
}

type reason struct {
	ID       int64  `xml:"id,attr"`
	Title    string `xml:"title,attr"`
	Other    bool   `xml:"other,attr"`
	Purchase bool   `xml:"purchase,attr"`
}

// row motivo listo para insertar.
type row struct {
	id       int64
	txType   string
	title    string
	other    bool
	purchase bool
}

var validTypes = map[string]bool{
	"add_stock": true, "reduce_stock": true, "discard": true, "consumption": true, "return": true,
}

func main() {
	xmlPath := "reasons.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parse(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "003_seed_transaction_reasons.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d motivos\n", outPath, len(rows))
}

// parse decodifica el catálogo; descarta tipos desconocidos y motivos sin id o título.
func parse(r io.Reader) ([]row, error) {
	var c catalog
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var rows []row
	for _, t := range c.Types {
		code := strings.TrimSpace(t.Code)
		if !validTypes[code] {
			continue
		}
		for _, rs := range t.Reasons {
			title := strings.TrimSpace(rs.Title)
			if rs.ID <= 0 || title == "" || seen[rs.ID] {
				continue
			}
			seen[rs.ID] = true
			rows = append(rows, row{id: rs.ID, txType: code, title: title, other: rs.Other, purchase: rs.Purchase})
		}
	}
	// Orden por id para salida estable
	sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })
	return rows, nil
}

func writeSQL(w io.Writer, rows []row) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de motivos de transacción\n")
	b.WriteString("-- Generado por cmd/seed_reasons desde reasons.xml\n\n")
	if len(rows) == 0 {
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("INSERT INTO transaction_reasons (id, transaction_type, title, is_other, is_purchase) VALUES\n")
	for i, r := range rows {
		sep := ","
		if i == len(rows)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  (%d, '%s', '%s', %t, %t)%s\n", r.id, r.txType, escapeSQL(r.title), r.other, r.purchase, sep)
	}
	b.WriteString("ON CONFLICT (id) DO UPDATE SET transaction_type = EXCLUDED.transaction_type, title = EXCLUDED.title,\n")
	b.WriteString("  is_other = EXCLUDED.is_other, is_purchase = EXCLUDED.is_purchase;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
