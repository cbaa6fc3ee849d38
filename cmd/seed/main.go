// seed carga proveedores y productos desde un CSV exportado del sistema anterior.
//
// Uso: go run ./cmd/seed [-latin1] [-dry-run] catalogo.csv
//
// Columnas: tipo;codigo;nombre;proveedor
//   - tipo "proveedor": nombre es el proveedor; codigo y proveedor se ignoran.
//   - tipo "producto": codigo puede ir vacío; proveedor es el nombre del proveedor habitual.
//
// Las exportaciones antiguas vienen en ISO-8859-1; con -latin1 se convierten a UTF-8.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type row struct {
	kind     string
	code     string
	name     string
	supplier string
}

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo viene en ISO-8859-1")
	dryRun := flag.Bool("dry-run", false, "solo valida el archivo")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [-latin1] [-dry-run] catalogo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	var r io.Reader = f
	if *latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	rows, err := readRows(r)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	log.Info().Int("filas", len(rows)).Msg("catálogo leído")
	if *dryRun {
		return
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	suppliers := postgres.NewSupplierRepository(pool)
	products := postgres.NewProductRepository(pool)
	now := time.Now()

	supplierIDs := make(map[string]string)
	var nSuppliers, nProducts, skipped int
	for _, rw := range rows {
		if rw.kind != "proveedor" {
			continue
		}
		s := &entity.Supplier{ID: uuid.New().String(), Name: rw.name, CreatedAt: now, UpdatedAt: now}
		if err := suppliers.Create(ctx, s); err != nil {
			log.Fatal().Err(err).Str("proveedor", rw.name).Msg("crear proveedor")
		}
		supplierIDs[strings.ToLower(rw.name)] = s.ID
		nSuppliers++
	}
	for _, rw := range rows {
		if rw.kind != "producto" {
			continue
		}
		p := &entity.Product{ID: uuid.New().String(), Code: rw.code, Name: rw.name, CreatedAt: now, UpdatedAt: now}
		if rw.supplier != "" {
			id, ok := supplierIDs[strings.ToLower(rw.supplier)]
			if !ok {
				log.Warn().Str("producto", rw.name).Str("proveedor", rw.supplier).Msg("proveedor desconocido, se omite")
			}
			p.MainSupplierID = id
		}
		if err := products.Create(ctx, p); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				log.Warn().Str("codigo", rw.code).Msg("código repetido, se omite")
				skipped++
				continue
			}
			log.Fatal().Err(err).Str("producto", rw.name).Msg("crear producto")
		}
		nProducts++
	}
	log.Info().
		Int("proveedores", nSuppliers).
		Int("productos", nProducts).
		Int("omitidos", skipped).
		Msg("catálogo cargado")
}

// readRows lee el CSV separado por ';' saltando la cabecera y las filas vacías.
func readRows(r io.Reader) ([]row, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []row
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "tipo") {
			continue
		}
		for len(rec) < 4 {
			rec = append(rec, "")
		}
		rw := row{
			kind:     strings.ToLower(strings.TrimSpace(rec[0])),
			code:     strings.TrimSpace(rec[1]),
			name:     strings.TrimSpace(rec[2]),
			supplier: strings.TrimSpace(rec[3]),
		}
		if rw.kind == "" && rw.name == "" {
			continue
		}
		if rw.kind != "proveedor" && rw.kind != "producto" {
			return nil, fmt.Errorf("línea %d: tipo desconocido %q", line, rec[0])
		}
		if rw.name == "" {
			return nil, fmt.Errorf("línea %d: nombre vacío", line)
		}
		out = append(out, rw)
	}
}
