package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"regtrack/internal/domain"
	"regtrack/internal/port"
)

type recycleRepo struct {
	db *sqlx.DB
}

// NewRecycleRepo creates a new PostgreSQL-backed RecycleRepository.
func NewRecycleRepo(db *sqlx.DB) port.RecycleRepository {
	return &recycleRepo{db: db}
}

// recycleSource describes how one soft-deletable table appears in the bin.
type recycleSource struct {
	table string
	label string
	// parent is a query returning whether the row's parent is deleted; empty
	// for top-level entities.
	parent string
	// children are the tables whose rows belong to this one.
	children []childRef
}

// childRef names a child entity and its foreign key column to the parent.
type childRef struct {
	entity domain.EntityType
	fk     string
}

var recycleSources = map[domain.EntityType]recycleSource{
	domain.EntityProduct: {
		table:    "products",
		label:    "name",
		children: []childRef{{entity: domain.EntityRegistration, fk: "product_id"}},
	},
	domain.EntityRegistration: {
		table: "registrations",
		label: "COALESCE(NULLIF(registration_number, ''), id::text)",
		parent: `SELECT p.deleted_at IS NOT NULL FROM registrations r
			JOIN products p ON p.id = r.product_id WHERE r.id = $1 AND r.tenant_id = $2`,
		children: []childRef{
			{entity: domain.EntityRenewal, fk: "registration_id"},
			{entity: domain.EntityVariation, fk: "registration_id"},
		},
	},
	domain.EntityRenewal: {
		table: "renewals",
		label: "'renewal due ' || due_date::text",
		parent: `SELECT r.deleted_at IS NOT NULL FROM renewals n
			JOIN registrations r ON r.id = n.registration_id WHERE n.id = $1 AND n.tenant_id = $2`,
	},
	domain.EntityVariation: {
		table: "variations",
		label: "title",
		parent: `SELECT r.deleted_at IS NOT NULL FROM variations v
			JOIN registrations r ON r.id = v.registration_id WHERE v.id = $1 AND v.tenant_id = $2`,
	},
}

var recycleListOrder = []domain.EntityType{
	domain.EntityProduct, domain.EntityRegistration, domain.EntityRenewal, domain.EntityVariation,
}

// childGuard restricts a statement on src's table to rows without children.
// With liveOnly set, children in the recycle bin do not count.
func childGuard(src recycleSource, liveOnly bool) string {
	var b strings.Builder
	for _, child := range src.children {
		fmt.Fprintf(&b, " AND NOT EXISTS (SELECT 1 FROM %s c WHERE c.%s = %s.id",
			recycleSources[child.entity].table, child.fk, src.table)
		if liveOnly {
			b.WriteString(" AND c.deleted_at IS NULL")
		}
		b.WriteString(")")
	}
	return b.String()
}

// softDelete moves a live row into the recycle bin together with its live
// descendants. The whole tree shares one deleted_at stamp so Restore can
// bring it back as a unit.
func softDelete(ctx context.Context, db *sqlx.DB, entityType domain.EntityType, tenantID, id, deletedBy uuid.UUID) error {
	src, err := sourceFor(entityType)
	if err != nil {
		return err
	}
	stamp := time.Now().UTC().Truncate(time.Microsecond)
	return withTx(ctx, db, "softDelete "+src.table, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE "+src.table+" SET deleted_at = $1, deleted_by = $2 WHERE id = $3 AND tenant_id = $4 AND deleted_at IS NULL",
			stamp, deletedBy, id, tenantID)
		if err != nil {
			return fmt.Errorf("softDelete %s: %w", src.table, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrNotFound
		}
		return cascadeSoftDelete(ctx, tx, src, tenantID, id, deletedBy, stamp)
	})
}

func cascadeSoftDelete(ctx context.Context, tx *sqlx.Tx, parent recycleSource, tenantID, parentID, deletedBy uuid.UUID, stamp time.Time) error {
	for _, child := range parent.children {
		src := recycleSources[child.entity]
		var ids []uuid.UUID
		if err := tx.SelectContext(ctx, &ids,
			"UPDATE "+src.table+" SET deleted_at = $1, deleted_by = $2 WHERE "+child.fk+" = $3 AND tenant_id = $4 AND deleted_at IS NULL RETURNING id",
			stamp, deletedBy, parentID, tenantID); err != nil {
			return fmt.Errorf("softDelete %s: %w", src.table, err)
		}
		for _, id := range ids {
			if err := cascadeSoftDelete(ctx, tx, src, tenantID, id, deletedBy, stamp); err != nil {
				return err
			}
		}
	}
	return nil
}

// cascadeRestore brings back the descendants deleted together with the parent.
// Children deleted on their own before that keep their own stamp and stay put.
func cascadeRestore(ctx context.Context, tx *sqlx.Tx, parent recycleSource, tenantID, parentID uuid.UUID, stamp, now time.Time) error {
	for _, child := range parent.children {
		src := recycleSources[child.entity]
		var ids []uuid.UUID
		if err := tx.SelectContext(ctx, &ids,
			"UPDATE "+src.table+" SET deleted_at = NULL, deleted_by = NULL, updated_at = $1 WHERE "+child.fk+" = $2 AND tenant_id = $3 AND deleted_at = $4 RETURNING id",
			now, parentID, tenantID, stamp); err != nil {
			return restoreError(err)
		}
		for _, id := range ids {
			if err := cascadeRestore(ctx, tx, src, tenantID, id, stamp, now); err != nil {
				return err
			}
		}
	}
	return nil
}

func restoreError(err error) error {
	if isUniqueViolation(err) {
		return domain.ErrDuplicateRegistration
	}
	return fmt.Errorf("recycleRepo.Restore: %w", err)
}

// purgeOrder lists children before their parents.
var purgeOrder = []domain.EntityType{
	domain.EntityVariation, domain.EntityRenewal,
	domain.EntityRegistration, domain.EntityProduct,
}

func sourceFor(entityType domain.EntityType) (recycleSource, error) {
	src, ok := recycleSources[entityType]
	if !ok {
		return recycleSource{}, domain.ErrInvalidEntityType
	}
	return src, nil
}

// recycleUnion builds the UNION of deleted rows for the given entity types.
// Every branch binds $1 to the tenant.
func recycleUnion(types []domain.EntityType) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		src := recycleSources[t]
		parts = append(parts, fmt.Sprintf(
			"SELECT '%s' AS entity_type, id, %s AS label, deleted_at, deleted_by FROM %s WHERE tenant_id = $1 AND deleted_at IS NOT NULL",
			t, src.label, src.table))
	}
	return strings.Join(parts, " UNION ALL ")
}

func (r *recycleRepo) List(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, offset, limit int) ([]domain.RecycleItem, int, error) {
	types := recycleListOrder
	if entityType != "" {
		if _, err := sourceFor(entityType); err != nil {
			return nil, 0, err
		}
		types = []domain.EntityType{entityType}
	}
	union := recycleUnion(types)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM ("+union+") bin", tenantID); err != nil {
		return nil, 0, fmt.Errorf("recycleRepo.List count: %w", err)
	}

	offset, limit = clampPage(offset, limit)
	var items []domain.RecycleItem
	if err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM ("+union+") bin ORDER BY deleted_at DESC LIMIT $2 OFFSET $3",
		tenantID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("recycleRepo.List: %w", err)
	}
	return items, total, nil
}

func (r *recycleRepo) ParentDeleted(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) (bool, error) {
	src, err := sourceFor(entityType)
	if err != nil {
		return false, err
	}
	if src.parent == "" {
		return false, nil
	}
	var deleted bool
	if err := r.db.GetContext(ctx, &deleted, src.parent, id, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("recycleRepo.ParentDeleted: %w", err)
	}
	return deleted, nil
}

func (r *recycleRepo) Restore(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) error {
	src, err := sourceFor(entityType)
	if err != nil {
		return err
	}
	return withTx(ctx, r.db, "recycleRepo.Restore", func(tx *sqlx.Tx) error {
		var stamp time.Time
		if err := tx.GetContext(ctx, &stamp,
			"SELECT deleted_at FROM "+src.table+" WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NOT NULL FOR UPDATE",
			id, tenantID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("recycleRepo.Restore: %w", err)
		}
		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			"UPDATE "+src.table+" SET deleted_at = NULL, deleted_by = NULL, updated_at = $1 WHERE id = $2 AND tenant_id = $3",
			now, id, tenantID); err != nil {
			return restoreError(err)
		}
		return cascadeRestore(ctx, tx, src, tenantID, id, stamp, now)
	})
}

func (r *recycleRepo) HasLiveChildren(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) (bool, error) {
	src, err := sourceFor(entityType)
	if err != nil {
		return false, err
	}
	for _, child := range src.children {
		var live bool
		if err := r.db.GetContext(ctx, &live,
			"SELECT EXISTS (SELECT 1 FROM "+recycleSources[child.entity].table+" WHERE "+child.fk+" = $1 AND tenant_id = $2 AND deleted_at IS NULL)",
			id, tenantID); err != nil {
			return false, fmt.Errorf("recycleRepo.HasLiveChildren: %w", err)
		}
		if live {
			return true, nil
		}
	}
	return false, nil
}

func (r *recycleRepo) Purge(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, id uuid.UUID) error {
	src, err := sourceFor(entityType)
	if err != nil {
		return err
	}
	// Binned descendants go with the row; live ones block the purge.
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM "+src.table+" WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NOT NULL"+childGuard(src, true),
		id, tenantID)
	if err != nil {
		return fmt.Errorf("recycleRepo.Purge: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		live, err := r.HasLiveChildren(ctx, tenantID, entityType, id)
		if err != nil {
			return err
		}
		if live {
			return domain.ErrHasLiveChildren
		}
		return domain.ErrNotFound
	}
	return nil
}

// PurgeDeletedBefore hard-deletes rows of every tenant soft deleted before
// cutoff, children first. A parent waits while any child row remains, so
// nothing leaves the bin before its own retention runs out.
func (r *recycleRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	for _, t := range purgeOrder {
		src := recycleSources[t]
		result, err := r.db.ExecContext(ctx,
			"DELETE FROM "+src.table+" WHERE deleted_at IS NOT NULL AND deleted_at < $1"+childGuard(src, false), cutoff)
		if err != nil {
			return total, fmt.Errorf("recycleRepo.PurgeDeletedBefore %s: %w", t, err)
		}
		rows, _ := result.RowsAffected()
		total += rows
	}
	return total, nil
}
