package jtl

import (
	"testing"
	"time"
)

func TestMapCustomerFullRow(t *testing.T) {
	created := time.Date(2023, 5, 17, 9, 30, 0, 0, time.UTC)
	c := MapCustomer(Record{
		"kKunde":    int64(42),
		"cVorname":  "Erika",
		"cName":     "Musterfrau",
		"cFirma":    "Muster GmbH",
		"cMail":     "erika@muster.de",
		"cTel":      "030 123456",
		"cMobil":    "0170 123456",
		"cStrasse":  "Musterstr. 1",
		"cPLZ":      "10115",
		"cOrt":      "Berlin",
		"cLand":     "DE",
		"dErstellt": created,
		"cSperre":   "Y",
	})

	if c.ExternalID == nil || *c.ExternalID != 42 {
		t.Fatalf("ExternalID = %v, want 42", c.ExternalID)
	}
	if c.Name != "Musterfrau" || c.FirstName != "Erika" {
		t.Errorf("name fields = %q %q", c.Name, c.FirstName)
	}
	if c.Email != "erika@muster.de" || c.City != "Berlin" {
		t.Errorf("contact fields = %q %q", c.Email, c.City)
	}
	if c.ExternalDateCreated == nil || !c.ExternalDateCreated.Equal(created) {
		t.Errorf("ExternalDateCreated = %v, want %v", c.ExternalDateCreated, created)
	}
	if !c.ExternalBlocked {
		t.Error("cSperre = Y should map to blocked")
	}
	if len(c.RawData) == 0 {
		t.Error("RawData should keep the original row")
	}
}

func TestMapCustomerEmptyRow(t *testing.T) {
	c := MapCustomer(Record{})

	if c.ExternalID != nil {
		t.Errorf("ExternalID = %v, want nil", c.ExternalID)
	}
	if c.Name != "" || c.Email != "" || c.Country != "" {
		t.Errorf("missing string columns should map to empty, got %q %q %q", c.Name, c.Email, c.Country)
	}
	if c.ExternalDateCreated != nil {
		t.Errorf("ExternalDateCreated = %v, want nil", c.ExternalDateCreated)
	}
	if c.ExternalBlocked {
		t.Error("missing cSperre should map to not blocked")
	}
}

func TestMapCustomerExternalIDCoercion(t *testing.T) {
	cases := []struct {
		name string
		val  interface{}
		want int64
		ok   bool
	}{
		{"int64", int64(7), 7, true},
		{"int", 7, 7, true},
		{"float64", float64(7), 7, true},
		{"numeric string", "7", 7, true},
		{"bytes", []byte("7"), 7, true},
		{"garbage", "seven", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := MapCustomer(Record{"kKunde": tc.val})
			if tc.ok {
				if c.ExternalID == nil || *c.ExternalID != tc.want {
					t.Fatalf("ExternalID = %v, want %d", c.ExternalID, tc.want)
				}
			} else if c.ExternalID != nil {
				t.Fatalf("ExternalID = %v, want nil", *c.ExternalID)
			}
		})
	}
}

func TestMapCustomerBlockedEncodings(t *testing.T) {
	cases := []struct {
		name string
		val  interface{}
		want bool
	}{
		{"upper Y", "Y", true},
		{"lower y", "y", true},
		{"string 1", "1", true},
		{"string true", "true", true},
		{"bool", true, true},
		{"int 1", 1, true},
		{"int64 1", int64(1), true},
		{"bytes Y", []byte("Y"), true},
		{"N", "N", false},
		{"int 0", 0, false},
		{"empty", "", false},
		{"missing", nil, false},
		{"other string", "blocked", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Record{}
			if tc.val != nil {
				r["cSperre"] = tc.val
			}
			if got := MapCustomer(r).ExternalBlocked; got != tc.want {
				t.Errorf("cSperre=%v: blocked = %v, want %v", tc.val, got, tc.want)
			}
		})
	}
}

func TestMapCustomerDateCoercion(t *testing.T) {
	native := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	cases := []struct {
		name string
		val  interface{}
		want *time.Time
	}{
		{"native time", native, &native},
		{"pointer", &native, &native},
		{"iso string", "2024-01-02T15:04:05Z", &native},
		{"sql string", "2024-01-02 15:04:05", &native},
		{"date only", "2024-01-02", timePtr(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))},
		{"bytes", []byte("2024-01-02 15:04:05"), &native},
		{"garbage", "yesterday", nil},
		{"zero time", time.Time{}, nil},
		{"empty string", "", nil},
		{"missing", nil, nil},
		{"wrong type", 12345, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Record{}
			if tc.val != nil {
				r["dErstellt"] = tc.val
			}
			got := MapCustomer(r).ExternalDateCreated
			if tc.want == nil {
				if got != nil {
					t.Fatalf("dErstellt=%v: got %v, want nil", tc.val, got)
				}
				return
			}
			if got == nil || !got.Equal(*tc.want) {
				t.Fatalf("dErstellt=%v: got %v, want %v", tc.val, got, tc.want)
			}
		})
	}
}

func TestMapProductFullRow(t *testing.T) {
	p := MapProduct(Record{
		"kArtikel":      int64(10),
		"cArtNr":        "ART-10",
		"cName":         "Widget",
		"cBeschreibung": "A fine widget",
		"fVKNetto":      10.0,
		"fVKBrutto":     11.9,
		"cAktiv":        "Y",
	})

	if p.ExternalID == nil || *p.ExternalID != 10 {
		t.Fatalf("ExternalID = %v, want 10", p.ExternalID)
	}
	if p.SKU == nil || *p.SKU != "ART-10" {
		t.Errorf("SKU = %v, want ART-10", p.SKU)
	}
	if p.Name != "Widget" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Description == nil || *p.Description != "A fine widget" {
		t.Errorf("Description = %v", p.Description)
	}
	if p.Price != 10.0 {
		t.Errorf("Price = %v, want net price 10.0", p.Price)
	}
	if !p.IsActive {
		t.Error("cAktiv = Y should map to active")
	}
}

func TestMapProductDefaults(t *testing.T) {
	p := MapProduct(Record{"kArtikel": int64(10)})

	if p.Name != ProductNamePlaceholder {
		t.Errorf("Name = %q, want placeholder %q", p.Name, ProductNamePlaceholder)
	}
	if p.SKU != nil {
		t.Errorf("SKU = %v, want nil for a missing column", *p.SKU)
	}
	if p.Description != nil {
		t.Errorf("Description = %v, want nil", *p.Description)
	}
	if p.Price != 0 {
		t.Errorf("Price = %v, want 0", p.Price)
	}
}

func TestMapProductPriceFallback(t *testing.T) {
	cases := []struct {
		name string
		row  Record
		want float64
	}{
		{"net preferred", Record{"fVKNetto": 10.0, "fVKBrutto": 11.9}, 10.0},
		{"net zero still wins", Record{"fVKNetto": 0.0, "fVKBrutto": 11.9}, 0},
		{"gross when net missing", Record{"fVKBrutto": 11.9}, 11.9},
		{"gross when net garbage", Record{"fVKNetto": "n/a", "fVKBrutto": 11.9}, 11.9},
		{"numeric string net", Record{"fVKNetto": "12.5"}, 12.5},
		{"neither", Record{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.row["kArtikel"] = int64(1)
			if got := MapProduct(tc.row).Price; got != tc.want {
				t.Errorf("Price = %v, want %v", got, tc.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
