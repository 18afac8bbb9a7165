package jtl

import (
	"context"
	"fmt"
	"time"

	"github.com/bl4ckh4nd/simplecrm/internal/config"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Customers live in tKunde with their default address in tAdresse;
// products in tArtikel with texts in tArtikelBeschreibung. Gross price
// is derived from the net price and the linked tax rate so the mapper
// has a fallback when fVKNetto does not come back as a number.
const (
	customerQuery = `
SELECT k.kKunde, a.cVorname, a.cName, a.cFirma, a.cMail, a.cTel, a.cMobil,
       a.cStrasse, a.cPLZ, a.cOrt, a.cLand, k.dErstellt, k.cSperre
FROM tKunde k
LEFT JOIN tAdresse a ON a.kKunde = k.kKunde AND a.nStandard = 1`

	productQuery = `
SELECT ar.kArtikel, ar.cArtNr, b.cName, b.cBeschreibung,
       ar.fVKNetto,
       ar.fVKNetto * (1 + ISNULL(s.fSteuersatz, 0) / 100) AS fVKBrutto,
       ar.cAktiv, ar.dErstellt
FROM tArtikel ar
LEFT JOIN tArtikelBeschreibung b ON b.kArtikel = ar.kArtikel AND b.kSprache = 1
LEFT JOIN tSteuersatz s ON s.kSteuersatz = ar.kSteuersatz`
)

// Client is a read-only connection to the JTL (eazybusiness) MSSQL database.
type Client struct {
	db *gorm.DB
}

// NewClient opens the MSSQL connection described by cfg.
func NewClient(cfg config.JTLConfig) (*Client, error) {
	dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := gorm.Open(sqlserver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to JTL database: %w", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return &Client{db: db}, nil
}

// FetchCustomers returns all customer rows with their default address.
func (c *Client) FetchCustomers(ctx context.Context) ([]Record, error) {
	return c.fetch(ctx, customerQuery, "customers")
}

// FetchProducts returns all product rows with texts and prices.
func (c *Client) FetchProducts(ctx context.Context) ([]Record, error) {
	return c.fetch(ctx, productQuery, "products")
}

func (c *Client) fetch(ctx context.Context, query, what string) ([]Record, error) {
	var rows []map[string]interface{}
	if err := c.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch %s from JTL: %w", what, err)
	}

	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = Record(row)
	}
	return records, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
