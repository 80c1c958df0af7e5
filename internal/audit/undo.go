package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"propmgmt-backend/internal/models"
	"propmgmt-backend/internal/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrLogNotFound   = errors.New("audit log not found")
	ErrAlreadyUndone = errors.New("this change was already undone")
	ErrNotUndoable   = errors.New("this change cannot be undone")
	ErrEntityGone    = errors.New("the changed record no longer exists")
)

// undoable is how undo reaches the table of one entity type.
type undoable struct {
	scope func(db *gorm.DB, hubID uuid.UUID) *gorm.DB
	// columns decodes a full snapshot into the columns an edit writes.
	columns func(data string) (map[string]any, error)
}

var undoables = map[string]undoable{
	"property": {scope: store.All[models.Property], columns: propertyColumns},
	"tenant":   {scope: store.All[models.Tenant], columns: tenantColumns},
	"lease":    {scope: store.All[models.Lease], columns: leaseColumns},
}

func propertyColumns(data string) (map[string]any, error) {
	var p models.Property
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, err
	}
	return map[string]any{
		"name":          p.Name,
		"address":       p.Address,
		"property_type": p.PropertyType,
		"bedrooms":      p.Bedrooms,
		"bathrooms":     p.Bathrooms,
		"area_sqm":      p.AreaSqm,
		"monthly_rent":  p.MonthlyRent,
		"status":        p.Status,
		"is_active":     p.IsActive,
	}, nil
}

func tenantColumns(data string) (map[string]any, error) {
	var t models.Tenant
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, err
	}
	return map[string]any{
		"name":      t.Name,
		"email":     t.Email,
		"phone":     t.Phone,
		"id_number": t.IDNumber,
		"is_active": t.IsActive,
	}, nil
}

func leaseColumns(data string) (map[string]any, error) {
	var l models.Lease
	if err := json.Unmarshal([]byte(data), &l); err != nil {
		return nil, err
	}
	return map[string]any{
		"property_id":  l.PropertyID,
		"tenant_id":    l.TenantID,
		"start_date":   l.StartDate,
		"end_date":     l.EndDate,
		"monthly_rent": l.MonthlyRent,
		"deposit":      l.Deposit,
		"status":       l.Status,
	}, nil
}

type bulkSnapshot struct {
	Action string      `json:"action"`
	IDs    []uuid.UUID `json:"ids"`
}

type activeSnapshot struct {
	IsActive bool `json:"is_active"`
}

// reversal works out which rows of a logged change to write, and with what.
func reversal(log *models.AuditLog, u undoable, now time.Time) ([]uuid.UUID, map[string]any, error) {
	one := []uuid.UUID{log.EntityID}

	switch log.Action {
	case models.AuditActionCreate:
		return one, map[string]any{"is_deleted": true, "deleted_at": now}, nil

	case models.AuditActionDelete:
		return one, map[string]any{"is_deleted": false, "deleted_at": nil}, nil

	case models.AuditActionUpdate:
		values, err := u.columns(log.BeforeData)
		if err != nil {
			return nil, nil, fmt.Errorf("decode snapshot: %w", err)
		}
		return one, values, nil

	case models.AuditActionToggle:
		var before activeSnapshot
		if err := json.Unmarshal([]byte(log.BeforeData), &before); err != nil {
			return nil, nil, fmt.Errorf("decode snapshot: %w", err)
		}
		return one, map[string]any{"is_active": before.IsActive}, nil

	case models.AuditActionBulk:
		var bulk bulkSnapshot
		if err := json.Unmarshal([]byte(log.AfterData), &bulk); err != nil {
			return nil, nil, fmt.Errorf("decode snapshot: %w", err)
		}
		switch bulk.Action {
		case "activate":
			return bulk.IDs, map[string]any{"is_active": false}, nil
		case "deactivate":
			return bulk.IDs, map[string]any{"is_active": true}, nil
		case "delete":
			return bulk.IDs, map[string]any{"is_deleted": false, "deleted_at": nil}, nil
		}
	}
	return nil, nil, ErrNotUndoable
}

// UndoLog reverts the change logID recorded in hubID, marks the log undone
// and writes an undo entry, all in one transaction.
func UndoLog(db *gorm.DB, hubID, logID, userID uuid.UUID, userName string) (*models.AuditLog, error) {
	var undo *models.AuditLog

	err := db.Transaction(func(tx *gorm.DB) error {
		var log models.AuditLog
		err := tx.Where("id = ? AND hub_id = ?", logID, hubID).First(&log).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLogNotFound
		}
		if err != nil {
			return fmt.Errorf("load audit log: %w", err)
		}
		if log.IsUndone {
			return ErrAlreadyUndone
		}

		u, ok := undoables[log.EntityType]
		if !ok {
			return ErrNotUndoable
		}
		now := time.Now()
		ids, values, err := reversal(&log, u, now)
		if err != nil {
			return err
		}

		if len(ids) > 0 {
			res := u.scope(tx, hubID).Where("id IN ?", ids).Updates(values)
			if res.Error != nil {
				return fmt.Errorf("revert %s: %w", log.EntityType, res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrEntityGone
			}
		}

		res := tx.Model(&models.AuditLog{}).
			Where("id = ? AND is_undone = ?", log.ID, false).
			Updates(map[string]any{"is_undone": true, "undone_by": userID, "undone_at": now})
		if res.Error != nil {
			return fmt.Errorf("mark audit log undone: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyUndone
		}

		undo = &models.AuditLog{
			HubID:       hubID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  log.EntityType,
			EntityID:    log.EntityID,
			Action:      models.AuditActionUndo,
			Description: clip("Undone: " + log.Description),
			BeforeData:  log.AfterData,
			AfterData:   log.BeforeData,
		}
		if err := tx.Create(undo).Error; err != nil {
			return fmt.Errorf("write undo log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return undo, nil
}
