// Package store holds the hub scoped data access helpers shared by the
// property, tenant and lease handlers.
//
// Every query goes through Live or All. Live is the default scope: rows of the
// caller's hub that are not soft deleted. All drops the soft delete filter but
// never the hub filter.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

// Record is implemented by every hub scoped model.
type Record interface {
	TableName() string
}

func tableOf[T Record]() string {
	var m T
	return m.TableName()
}

// Live scopes a query to the non-deleted rows of hubID.
func Live[T Record](db *gorm.DB, hubID uuid.UUID) *gorm.DB {
	var m T
	t := m.TableName()
	return db.Model(&m).
		Where(t+".hub_id = ?", hubID).
		Where(t+".is_deleted = ?", false)
}

// All scopes a query to every row of hubID, soft deleted ones included.
func All[T Record](db *gorm.DB, hubID uuid.UUID) *gorm.DB {
	var m T
	return db.Model(&m).Where(m.TableName()+".hub_id = ?", hubID)
}

// FindLive loads a live row of hubID by its id. A malformed id, a row of
// another hub and a soft deleted row are all reported as ErrNotFound.
func FindLive[T Record](db *gorm.DB, hubID uuid.UUID, rawID string) (*T, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, ErrNotFound
	}

	var m T
	err = Live[T](db, hubID).Where(tableOf[T]()+".id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", tableOf[T](), err)
	}
	return &m, nil
}

// CountLive counts the live rows of hubID.
func CountLive[T Record](db *gorm.DB, hubID uuid.UUID) (int64, error) {
	var n int64
	if err := Live[T](db, hubID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", tableOf[T](), err)
	}
	return n, nil
}

// SoftDelete flags a loaded row as deleted. Only is_deleted, deleted_at and
// updated_at are written.
func SoftDelete(db *gorm.DB, rec any, now time.Time) error {
	return db.Model(rec).Omit(clause.Associations).Updates(map[string]any{
		"is_deleted": true,
		"deleted_at": now,
	}).Error
}

// SetActive writes is_active (and updated_at) on a loaded row.
func SetActive(db *gorm.DB, rec any, active bool) error {
	return db.Model(rec).Omit(clause.Associations).Update("is_active", active).Error
}

// BulkUpdate applies values to the live rows of hubID whose id is in ids, in
// a single statement. It returns the number of rows changed.
func BulkUpdate[T Record](db *gorm.DB, hubID uuid.UUID, ids []uuid.UUID, values map[string]any) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := Live[T](db, hubID).Where(tableOf[T]()+".id IN ?", ids).Updates(values)
	if res.Error != nil {
		return 0, fmt.Errorf("bulk update %s: %w", tableOf[T](), res.Error)
	}
	return res.RowsAffected, nil
}

// Differing returns the ids, among ids, of the live rows of hubID whose column
// is not value: the rows an update setting column to value would change.
func Differing[T Record](db *gorm.DB, hubID uuid.UUID, ids []uuid.UUID, column string, value any) ([]uuid.UUID, error) {
	changed := make([]uuid.UUID, 0, len(ids))
	if len(ids) == 0 {
		return changed, nil
	}
	t := tableOf[T]()
	err := Live[T](db, hubID).
		Where(t+".id IN ?", ids).
		Where(t+"."+column+" <> ?", value).
		Pluck(t+".id", &changed).Error
	if err != nil {
		return nil, fmt.Errorf("differing %s: %w", t, err)
	}
	return changed, nil
}

// ParseIDs splits a comma separated id list. Blank and malformed entries are
// dropped, duplicates collapse.
func ParseIDs(raw string) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
