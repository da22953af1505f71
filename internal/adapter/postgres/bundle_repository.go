package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rallygoods/internal/core/domain"
	"rallygoods/internal/core/port"
)

// BundleRepository implements port.BundleRepository using pgxpool for
// PostgreSQL. It is the primary catalog tier.
type BundleRepository struct {
	pool *pgxpool.Pool
}

// NewBundleRepository returns a new repository instance.
func NewBundleRepository(pool *pgxpool.Pool) *BundleRepository {
	return &BundleRepository{pool: pool}
}

// Tier identifies this repository as the primary read tier.
func (r *BundleRepository) Tier() domain.SourceTier {
	return domain.TierPrimary
}

const bundleColumns = `id, name, description, target_audience, budget_range,
       estimated_total, original_total, savings, popularity_score,
       is_active, is_featured, tags_json, created_at, updated_at`

func scanBundle(row pgx.CollectableRow) (domain.CampaignBundle, error) {
	var (
		b       domain.CampaignBundle
		tagsRaw []byte
	)
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Description,
		&b.TargetAudience,
		&b.BudgetRange,
		&b.EstimatedTotal,
		&b.OriginalTotal,
		&b.Savings,
		&b.PopularityScore,
		&b.IsActive,
		&b.IsFeatured,
		&tagsRaw,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return b, err
	}
	if len(tagsRaw) > 0 {
		if err = json.Unmarshal(tagsRaw, &b.Tags); err != nil {
			return b, fmt.Errorf("decode tags for bundle %s: %w", b.ID, err)
		}
	}
	return b, nil
}

// ListBundles returns every active bundle with its product references.
func (r *BundleRepository) ListBundles(ctx context.Context) ([]domain.CampaignBundle, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bundleColumns+`
        FROM campaign_bundles
        WHERE is_active
        ORDER BY popularity_score DESC, name`)
	if err != nil {
		return nil, err
	}
	bundles, err := pgx.CollectRows(rows, scanBundle)
	if err != nil {
		return nil, err
	}
	if len(bundles) == 0 {
		return bundles, nil
	}

	refRows, err := r.pool.Query(ctx, `SELECT id, bundle_id, product_id, quantity, custom_price, is_required, display_order
        FROM bundle_products
        ORDER BY bundle_id, display_order`)
	if err != nil {
		return nil, err
	}
	refs, err := pgx.CollectRows(refRows, scanReference)
	if err != nil {
		return nil, err
	}
	byBundle := make(map[string][]domain.BundleProduct, len(bundles))
	for _, ref := range refs {
		byBundle[ref.BundleID] = append(byBundle[ref.BundleID], ref)
	}
	for i := range bundles {
		bundles[i].Products = byBundle[bundles[i].ID]
	}
	return bundles, nil
}

// GetBundle returns one bundle by id with its references, or port.ErrNotFound.
func (r *BundleRepository) GetBundle(ctx context.Context, id string) (*domain.CampaignBundle, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bundleColumns+`
        FROM campaign_bundles WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	b, err := pgx.CollectOneRow(rows, scanBundle)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.Products, err = r.ListReferences(ctx, id); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBundle persists the bundle and its references in one transaction.
func (r *BundleRepository) CreateBundle(ctx context.Context, b *domain.CampaignBundle) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	tagsJSON, err := json.Marshal(tagsOrEmpty(b.Tags))
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `INSERT INTO campaign_bundles
        (id, name, description, target_audience, budget_range,
         estimated_total, original_total, savings, popularity_score,
         is_active, is_featured, tags_json, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		b.ID, b.Name, b.Description, b.TargetAudience, b.BudgetRange,
		b.EstimatedTotal, b.OriginalTotal, b.Savings, b.PopularityScore,
		b.IsActive, b.IsFeatured, tagsJSON, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return err
	}
	err = insertReferences(ctx, tx, b.ID, b.Products)
	return err
}

// DeleteBundle removes the bundle; references cascade at the schema level.
func (r *BundleRepository) DeleteBundle(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaign_bundles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}

// UpsertBundle inserts or updates a bundle during sync and replaces its
// reference set with the authoritative one. The xmax check reports whether
// the row was newly inserted.
func (r *BundleRepository) UpsertBundle(ctx context.Context, b *domain.CampaignBundle) (created bool, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	tagsJSON, err := json.Marshal(tagsOrEmpty(b.Tags))
	if err != nil {
		return false, err
	}
	err = tx.QueryRow(ctx, `INSERT INTO campaign_bundles
        (id, name, description, target_audience, budget_range,
         estimated_total, original_total, savings, popularity_score,
         is_active, is_featured, tags_json, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now(),now())
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            description = EXCLUDED.description,
            target_audience = EXCLUDED.target_audience,
            budget_range = EXCLUDED.budget_range,
            estimated_total = EXCLUDED.estimated_total,
            original_total = EXCLUDED.original_total,
            savings = EXCLUDED.savings,
            popularity_score = EXCLUDED.popularity_score,
            is_active = EXCLUDED.is_active,
            is_featured = EXCLUDED.is_featured,
            tags_json = EXCLUDED.tags_json,
            updated_at = now()
        RETURNING (xmax = 0)`,
		b.ID, b.Name, b.Description, b.TargetAudience, b.BudgetRange,
		b.EstimatedTotal, b.OriginalTotal, b.Savings, b.PopularityScore,
		b.IsActive, b.IsFeatured, tagsJSON).Scan(&created)
	if err != nil {
		return false, err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM bundle_products WHERE bundle_id = $1`, b.ID); err != nil {
		return false, err
	}
	err = insertReferences(ctx, tx, b.ID, b.Products)
	return created, err
}

func insertReferences(ctx context.Context, tx pgx.Tx, bundleID string, refs []domain.BundleProduct) error {
	for _, ref := range refs {
		_, err := tx.Exec(ctx, `INSERT INTO bundle_products
            (bundle_id, product_id, quantity, custom_price, is_required, display_order)
            VALUES ($1,$2,$3,$4,$5,$6)`,
			bundleID, ref.ProductID, ref.Quantity, ref.CustomPrice, ref.IsRequired, ref.DisplayOrder)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanReference(row pgx.CollectableRow) (domain.BundleProduct, error) {
	var ref domain.BundleProduct
	err := row.Scan(&ref.ID, &ref.BundleID, &ref.ProductID, &ref.Quantity,
		&ref.CustomPrice, &ref.IsRequired, &ref.DisplayOrder)
	return ref, err
}

// ListReferences returns the bundle's references in display order, orphaned
// or not.
func (r *BundleRepository) ListReferences(ctx context.Context, bundleID string) ([]domain.BundleProduct, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, bundle_id, product_id, quantity, custom_price, is_required, display_order
        FROM bundle_products
        WHERE bundle_id = $1
        ORDER BY display_order`, bundleID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanReference)
}

// ListPricedReferences returns only references whose product still resolves,
// with the effective unit price (custom override wins over base price).
// Inner join: orphaned references price nothing and contribute nothing.
func (r *BundleRepository) ListPricedReferences(ctx context.Context, bundleID string) ([]domain.PricedReference, error) {
	rows, err := r.pool.Query(ctx, `SELECT bp.product_id, bp.quantity,
               COALESCE(bp.custom_price, p.base_price)
        FROM bundle_products bp
        JOIN products p ON p.id = bp.product_id
        WHERE bp.bundle_id = $1
        ORDER BY bp.display_order`, bundleID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PricedReference, error) {
		var pr domain.PricedReference
		err := row.Scan(&pr.ProductID, &pr.Quantity, &pr.UnitPrice)
		return pr, err
	})
}

// DeleteReferences removes the given product references from the bundle.
func (r *BundleRepository) DeleteReferences(ctx context.Context, bundleID string, productIDs []string) (int, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM bundle_products
        WHERE bundle_id = $1 AND product_id = ANY($2)`, bundleID, productIDs)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// UpdateTotals overwrites the bundle's derived totals.
func (r *BundleRepository) UpdateTotals(ctx context.Context, bundleID string, totals domain.BundleTotals) error {
	tag, err := r.pool.Exec(ctx, `UPDATE campaign_bundles
        SET estimated_total = $1, original_total = $2, savings = $3, updated_at = now()
        WHERE id = $4`,
		totals.EstimatedTotal, totals.OriginalTotal, totals.Savings, bundleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}

// Ping reports store liveness.
func (r *BundleRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
