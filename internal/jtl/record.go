package jtl

// Record is one raw row from the JTL database. Values are whatever the
// driver produced: columns may be missing, nil, or of unexpected type
// (MSSQL date columns arrive as time.Time, string or []byte depending
// on column type and driver version), so every access must go through
// the coercion helpers in mapper.go.
type Record map[string]interface{}
