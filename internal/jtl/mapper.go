package jtl

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/bl4ckh4nd/simplecrm/internal/models"
	"gorm.io/datatypes"
)

// ProductNamePlaceholder is stored when a JTL product row has no name.
// Display code assumes product names are non-empty.
const ProductNamePlaceholder = "Unknown Product"

// MapCustomer translates one raw JTL customer row into local customer
// fields. It is total: any missing or malformed column degrades to a
// default, never an error. Bookkeeping fields are left zero for the
// merge engine to fill.
func MapCustomer(r Record) models.Customer {
	c := models.Customer{
		Name:                stringField(r, "cName"),
		FirstName:           stringField(r, "cVorname"),
		Company:             stringField(r, "cFirma"),
		Email:               stringField(r, "cMail"),
		Phone:               stringField(r, "cTel"),
		Mobile:              stringField(r, "cMobil"),
		Street:              stringField(r, "cStrasse"),
		ZipCode:             stringField(r, "cPLZ"),
		City:                stringField(r, "cOrt"),
		Country:             stringField(r, "cLand"),
		ExternalDateCreated: timeField(r, "dErstellt"),
		ExternalBlocked:     boolField(r, "cSperre"),
		RawData:             rawJSON(r),
	}
	if id, ok := int64Field(r, "kKunde"); ok {
		c.ExternalID = &id
	}
	return c
}

// MapProduct translates one raw JTL product row into local product
// fields. Same total-function contract as MapCustomer.
func MapProduct(r Record) models.Product {
	p := models.Product{
		SKU:                 stringPtrField(r, "cArtNr"),
		Name:                stringField(r, "cName"),
		Description:         stringPtrField(r, "cBeschreibung"),
		Price:               priceField(r),
		IsActive:            boolField(r, "cAktiv"),
		ExternalDateCreated: timeField(r, "dErstellt"),
		RawData:             rawJSON(r),
	}
	if p.Name == "" {
		p.Name = ProductNamePlaceholder
	}
	if id, ok := int64Field(r, "kArtikel"); ok {
		p.ExternalID = &id
	}
	return p
}

// priceField prefers the net price; falls back to gross when net is
// absent or not numeric, then to 0.
func priceField(r Record) float64 {
	if net, ok := floatField(r, "fVKNetto"); ok {
		return net
	}
	if gross, ok := floatField(r, "fVKBrutto"); ok {
		return gross
	}
	return 0
}

func stringField(r Record, key string) string {
	s, _ := asString(r[key])
	return s
}

// stringPtrField keeps the absent/null distinction for columns that are
// semantically optional (product SKU and description).
func stringPtrField(r Record, key string) *string {
	if s, ok := asString(r[key]); ok {
		return &s
	}
	return nil
}

func int64Field(r Record, key string) (int64, bool) {
	return asInt64(r[key])
}

func floatField(r Record, key string) (float64, bool) {
	return asFloat(r[key])
}

// boolField folds the truthy encodings seen in JTL columns ('Y', 1,
// true) into a strict bool. Anything else is false.
func boolField(r Record, key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		s := strings.TrimSpace(v)
		return strings.EqualFold(s, "Y") || s == "1" || strings.EqualFold(s, "true")
	case []byte:
		s := strings.TrimSpace(string(v))
		return strings.EqualFold(s, "Y") || s == "1" || strings.EqualFold(s, "true")
	default:
		if n, ok := asInt64(r[key]); ok {
			return n == 1
		}
		return false
	}
}

// timeField coerces a date-like value to a timestamp. Native
// time.Time values convert directly; strings go through a set of
// layouts. Anything unparseable becomes nil, never an error.
func timeField(r Record, key string) *time.Time {
	switch v := r[key].(type) {
	case time.Time:
		if v.IsZero() {
			return nil
		}
		t := v
		return &t
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		t := *v
		return &t
	case string:
		return parseTime(v)
	case []byte:
		return parseTime(string(v))
	default:
		return nil
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func asString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	case float32:
		return int64(n), true
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, true
		}
	case []byte:
		if i, err := strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, true
		}
	case []byte:
		if f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// rawJSON keeps the original row alongside the mapped fields. A row
// that cannot be marshaled is stored without raw data.
func rawJSON(r Record) datatypes.JSON {
	data, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
