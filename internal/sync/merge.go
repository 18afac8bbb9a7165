package sync

import (
	"context"
	"time"

	"github.com/bl4ckh4nd/simplecrm/internal/jtl"
	"github.com/bl4ckh4nd/simplecrm/internal/models"
)

// upsertCustomerBatch merges mapped customer records into the store,
// one record at a time. Each record runs inside its own savepoint so
// a failed statement rolls back that record alone; the failure is
// collected and the rest of the batch proceeds on the still-healthy
// enclosing transaction. Callers wrap the whole batch in one atomic
// batch so a crash cannot leave a half-applied pass.
func upsertCustomerBatch(ctx context.Context, tx Storage, records []jtl.Record, now time.Time) BatchResult {
	var res BatchResult

	for _, rec := range records {
		mapped := jtl.MapCustomer(rec)
		if mapped.ExternalID == nil {
			res.Failed = append(res.Failed, FailedRecord{Error: "customer record has no kKunde"})
			continue
		}
		id := *mapped.ExternalID

		err := tx.RunIsolated(ctx, func(rtx Storage) error {
			existing, err := rtx.CustomerByExternalID(ctx, id)
			if err != nil {
				return err
			}
			if existing == nil {
				// First sync counts as an initial local modification.
				mapped.LastSyncedAt = &now
				mapped.LastModifiedLocallyAt = &now
				return rtx.SaveCustomer(ctx, &mapped)
			}
			if customerChanged(existing, &mapped) {
				applyCustomerFields(existing, &mapped)
				existing.LastModifiedLocallyAt = &now
			}
			existing.LastSyncedAt = &now
			return rtx.SaveCustomer(ctx, existing)
		})
		if err != nil {
			res.Failed = append(res.Failed, FailedRecord{ExternalID: id, Error: err.Error()})
			continue
		}
		res.Processed++
	}

	return res
}

// upsertProductBatch is the product counterpart of upsertCustomerBatch.
// Rows with a nil external id in the store are never matched, so
// locally created products stay untouched.
func upsertProductBatch(ctx context.Context, tx Storage, records []jtl.Record, now time.Time) BatchResult {
	var res BatchResult

	for _, rec := range records {
		mapped := jtl.MapProduct(rec)
		if mapped.ExternalID == nil {
			res.Failed = append(res.Failed, FailedRecord{Error: "product record has no kArtikel"})
			continue
		}
		id := *mapped.ExternalID

		err := tx.RunIsolated(ctx, func(rtx Storage) error {
			existing, err := rtx.ProductByExternalID(ctx, id)
			if err != nil {
				return err
			}
			if existing == nil {
				mapped.LastSyncedAt = &now
				mapped.LastModifiedLocallyAt = &now
				return rtx.SaveProduct(ctx, &mapped)
			}
			if productChanged(existing, &mapped) {
				applyProductFields(existing, &mapped)
				existing.LastModifiedLocallyAt = &now
			}
			existing.LastSyncedAt = &now
			return rtx.SaveProduct(ctx, existing)
		})
		if err != nil {
			res.Failed = append(res.Failed, FailedRecord{ExternalID: id, Error: err.Error()})
			continue
		}
		res.Processed++
	}

	return res
}

// customerChanged compares every ERP-sourced field, excluding the
// bookkeeping stamps and local-only fields.
func customerChanged(old, new *models.Customer) bool {
	return old.Name != new.Name ||
		old.FirstName != new.FirstName ||
		old.Company != new.Company ||
		old.Email != new.Email ||
		old.Phone != new.Phone ||
		old.Mobile != new.Mobile ||
		old.Street != new.Street ||
		old.ZipCode != new.ZipCode ||
		old.City != new.City ||
		old.Country != new.Country ||
		old.ExternalBlocked != new.ExternalBlocked ||
		!timePtrEqual(old.ExternalDateCreated, new.ExternalDateCreated)
}

// applyCustomerFields overwrites the ERP-sourced fields only. Notes
// and other local-only fields always win locally.
func applyCustomerFields(dst, src *models.Customer) {
	dst.Name = src.Name
	dst.FirstName = src.FirstName
	dst.Company = src.Company
	dst.Email = src.Email
	dst.Phone = src.Phone
	dst.Mobile = src.Mobile
	dst.Street = src.Street
	dst.ZipCode = src.ZipCode
	dst.City = src.City
	dst.Country = src.Country
	dst.ExternalBlocked = src.ExternalBlocked
	dst.ExternalDateCreated = src.ExternalDateCreated
	dst.RawData = src.RawData
}

func productChanged(old, new *models.Product) bool {
	return !stringPtrEqual(old.SKU, new.SKU) ||
		old.Name != new.Name ||
		!stringPtrEqual(old.Description, new.Description) ||
		old.Price != new.Price ||
		old.IsActive != new.IsActive ||
		!timePtrEqual(old.ExternalDateCreated, new.ExternalDateCreated)
}

func applyProductFields(dst, src *models.Product) {
	dst.SKU = src.SKU
	dst.Name = src.Name
	dst.Description = src.Description
	dst.Price = src.Price
	dst.IsActive = src.IsActive
	dst.ExternalDateCreated = src.ExternalDateCreated
	dst.RawData = src.RawData
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
