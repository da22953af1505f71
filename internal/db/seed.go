package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo catalog data for local development: a handful of
// merchandise products and two bundles referencing them, one of which
// carries a deliberately dangling reference so the integrity tooling has
// something to find.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	products := []struct {
		id       string
		name     string
		price    int64
		isActive bool
	}{
		{"yard-sign-classic", "Classic Yard Sign 18x24", 550, true},
		{"button-2in", "Campaign Button 2.25\"", 45, true},
		{"door-hanger", "Door Hanger (Full Color)", 32, true},
		{"tee-unisex", "Unisex Campaign Tee", 1400, true},
		{"vinyl-banner-3x8", "Vinyl Banner 3x8 ft", 5200, true},
		{"hand-flag", "Hand Flag 8x12", 60, true},
		{"bumper-sticker", "Bumper Sticker", 90, false},
	}
	for _, p := range products {
		_, err := db.Exec(ctx, `INSERT INTO products (id, name, base_price, is_active)
            VALUES ($1,$2,$3,$4) ON CONFLICT DO NOTHING`,
			p.id, p.name, p.price, p.isActive)
		if err != nil {
			return err
		}
	}

	categories := []struct {
		id    string
		name  string
		order int
	}{
		{"signage", "Signs & Banners", 1},
		{"apparel", "Apparel", 2},
		{"handouts", "Handouts & Giveaways", 3},
	}
	for _, c := range categories {
		_, err := db.Exec(ctx, `INSERT INTO categories (id, name, display_order)
            VALUES ($1,$2,$3) ON CONFLICT DO NOTHING`, c.id, c.name, c.order)
		if err != nil {
			return err
		}
	}

	type ref struct {
		productID   string
		quantity    int
		customPrice *int64
		required    bool
		order       int
	}
	price := func(v int64) *int64 { return &v }
	bundles := []struct {
		id       string
		name     string
		desc     string
		audience string
		budget   string
		featured bool
		tags     []string
		refs     []ref
	}{
		{
			id:       "local-launch",
			name:     "Local Launch Bundle",
			desc:     "Everything a city-council campaign needs for week one.",
			audience: "local",
			budget:   "low",
			featured: true,
			tags:     []string{"starter", "local"},
			refs: []ref{
				{"yard-sign-classic", 50, price(500), true, 1},
				{"button-2in", 200, nil, false, 2},
				{"door-hanger", 100, nil, false, 3},
			},
		},
		{
			id:       "county-blitz",
			name:     "County Blitz Bundle",
			desc:     "Field kit for county-wide canvassing pushes.",
			audience: "county",
			budget:   "medium",
			featured: false,
			tags:     []string{"canvassing"},
			refs: []ref{
				{"tee-unisex", 40, price(1250), true, 1},
				{"hand-flag", 300, nil, false, 2},
				// dangling on purpose: no such product row exists
				{"rally-poster-retired", 75, price(180), false, 3},
			},
		},
	}
	now := time.Now().UTC()
	for _, b := range bundles {
		tagsJSON, err := json.Marshal(b.tags)
		if err != nil {
			return err
		}
		_, err = db.Exec(ctx, `INSERT INTO campaign_bundles
            (id, name, description, target_audience, budget_range,
             estimated_total, original_total, savings, popularity_score,
             is_active, is_featured, tags_json, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5,0,0,0,50,TRUE,$6,$7,$8,$8)
            ON CONFLICT DO NOTHING`,
			b.id, b.name, b.desc, b.audience, b.budget, b.featured, tagsJSON, now)
		if err != nil {
			return err
		}
		for _, r := range b.refs {
			_, err = db.Exec(ctx, `INSERT INTO bundle_products
                (bundle_id, product_id, quantity, custom_price, is_required, display_order)
                VALUES ($1,$2,$3,$4,$5,$6) ON CONFLICT DO NOTHING`,
				b.id, r.productID, r.quantity, r.customPrice, r.required, r.order)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
