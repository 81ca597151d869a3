package migrate

import (
	"context"

	"storefront/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto, pg_trgm
	CreateChecks           bool // CHECK constraints
	CreateIndexes          bool // indexes and UNIQUE
	CreateFKsViaSQL        bool // FKs via Exec after AutoMigrate
	CreateUpdatedAtTrigger bool // updated_at triggers
	CreateSearchIndexes    bool // GIN trgm for name/slug search
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
		CreateSearchIndexes:    true,
	}
}

func MigrateStorefrontDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Starting storefront database migration")

	if opt.CreateExtensions {
		log.Info("Creating PostgreSQL extensions")
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("pgcrypto error", zap.Error(err))
			return err
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`).Error; err != nil {
			log.Error("pg_trgm error", zap.Error(err))
			return err
		}
		log.Info("Extensions created")
	}

	log.Info("Creating tables")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Error("AutoMigrate error", zap.Error(err))
		return err
	}
	log.Info("Tables created")

	if opt.CreateUpdatedAtTrigger {
		log.Info("Creating updated_at triggers")
		if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_users_updated ON users;
CREATE TRIGGER trg_users_updated BEFORE UPDATE ON users
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_addresses_updated ON addresses;
CREATE TRIGGER trg_addresses_updated BEFORE UPDATE ON addresses
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_products_updated ON products;
CREATE TRIGGER trg_products_updated BEFORE UPDATE ON products
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_product_variants_updated ON product_variants;
CREATE TRIGGER trg_product_variants_updated BEFORE UPDATE ON product_variants
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_cart_items_updated ON cart_items;
CREATE TRIGGER trg_cart_items_updated BEFORE UPDATE ON cart_items
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("triggers error", zap.Error(err))
			return err
		}
		log.Info("Triggers created")
	}

	if opt.CreateChecks {
		log.Info("Creating CHECK constraints")

		// Stock can never go below zero, the conditional decrement relies on it.
		if err := db.Exec(`
ALTER TABLE products
	DROP CONSTRAINT IF EXISTS chk_products_stock_non_negative,
	ADD CONSTRAINT chk_products_stock_non_negative
	CHECK (stock >= 0);
`).Error; err != nil {
			log.Error("chk products.stock", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE product_variants
	DROP CONSTRAINT IF EXISTS chk_variants_stock_non_negative,
	ADD CONSTRAINT chk_variants_stock_non_negative
	CHECK (stock >= 0);
`).Error; err != nil {
			log.Error("chk product_variants.stock", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE products
	DROP CONSTRAINT IF EXISTS chk_products_price_non_negative,
	ADD CONSTRAINT chk_products_price_non_negative
	CHECK (price >= 0);
`).Error; err != nil {
			log.Error("chk products.price", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE products
	DROP CONSTRAINT IF EXISTS chk_products_status_allowed,
	ADD CONSTRAINT chk_products_status_allowed
	CHECK (status IN ('draft','active','archived'));
`).Error; err != nil {
			log.Error("chk products.status", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE cart_items
	DROP CONSTRAINT IF EXISTS chk_cart_items_quantity_gt_zero,
	ADD CONSTRAINT chk_cart_items_quantity_gt_zero
	CHECK (quantity > 0);
`).Error; err != nil {
			log.Error("chk cart_items.quantity", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE order_items
	DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero,
	ADD CONSTRAINT chk_order_items_quantity_gt_zero
	CHECK (quantity > 0);
`).Error; err != nil {
			log.Error("chk order_items.quantity", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE orders
	DROP CONSTRAINT IF EXISTS chk_orders_status_allowed,
	ADD CONSTRAINT chk_orders_status_allowed
	CHECK (status IN ('pending','paid','shipped','completed','cancelled'));
`).Error; err != nil {
			log.Error("chk orders.status", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE orders
	DROP CONSTRAINT IF EXISTS chk_orders_payment_status_allowed,
	ADD CONSTRAINT chk_orders_payment_status_allowed
	CHECK (payment_status IN ('unpaid','paid','refunded'));
`).Error; err != nil {
			log.Error("chk orders.payment_status", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE orders
	DROP CONSTRAINT IF EXISTS chk_orders_amounts_non_negative,
	ADD CONSTRAINT chk_orders_amounts_non_negative
	CHECK (total_amount >= 0 AND shipping_fee >= 0 AND discount_amount >= 0 AND payment_amount >= 0);
`).Error; err != nil {
			log.Error("chk orders.amounts", zap.Error(err))
			return err
		}

		log.Info("CHECK constraints created")
	}

	if opt.CreateIndexes {
		log.Info("Creating indexes and unique constraints")

		// One cart line per (user, product) without a variant and per
		// (user, product, variant) with one. NULL variant_id needs a
		// partial index, a plain UNIQUE treats NULLs as distinct.
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_cart_items_user_product
ON cart_items (user_id, product_id) WHERE variant_id IS NULL;
`).Error; err != nil {
			log.Error("ux cart_items user_product", zap.Error(err))
			return err
		}
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_cart_items_user_product_variant
ON cart_items (user_id, product_id, variant_id) WHERE variant_id IS NOT NULL;
`).Error; err != nil {
			log.Error("ux cart_items user_product_variant", zap.Error(err))
			return err
		}

		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_orders_user_created
ON orders (user_id, created_at DESC);
`).Error; err != nil {
			log.Error("ix orders user_created", zap.Error(err))
			return err
		}
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_orders_status_created
ON orders (status, created_at DESC);
`).Error; err != nil {
			log.Error("ix orders status_created", zap.Error(err))
			return err
		}
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_products_category_created
ON products (category_id, created_at DESC);
`).Error; err != nil {
			log.Error("ix products category_created", zap.Error(err))
			return err
		}
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_products_seller_created
ON products (seller_id, created_at DESC);
`).Error; err != nil {
			log.Error("ix products seller_created", zap.Error(err))
			return err
		}

		log.Info("Indexes created")
	}

	if opt.CreateSearchIndexes {
		log.Info("Creating GIN(trgm) search indexes")
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS gin_products_name_trgm
ON products USING gin (name gin_trgm_ops);
`).Error; err != nil {
			log.Error("gin products.name", zap.Error(err))
			return err
		}
		log.Info("GIN indexes created")
	}

	if opt.CreateFKsViaSQL {
		log.Info("Creating foreign keys")

		if err := db.Exec(`
ALTER TABLE addresses
  DROP CONSTRAINT IF EXISTS fk_addresses_user,
  ADD CONSTRAINT fk_addresses_user
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk addresses.user_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS fk_products_category,
  ADD CONSTRAINT fk_products_category
    FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL;
`).Error; err != nil {
			log.Error("fk products.category_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE product_variants
  DROP CONSTRAINT IF EXISTS fk_variants_product,
  ADD CONSTRAINT fk_variants_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk product_variants.product_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE cart_items
  DROP CONSTRAINT IF EXISTS fk_cart_items_user,
  ADD CONSTRAINT fk_cart_items_user
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk cart_items.user_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE cart_items
  DROP CONSTRAINT IF EXISTS fk_cart_items_product,
  ADD CONSTRAINT fk_cart_items_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk cart_items.product_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS fk_orders_user,
  ADD CONSTRAINT fk_orders_user
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE RESTRICT;
`).Error; err != nil {
			log.Error("fk orders.user_id", zap.Error(err))
			return err
		}

		// Order lines survive product deletion, the snapshot keeps the
		// purchased details.
		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_order,
  ADD CONSTRAINT fk_order_items_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk order_items.order_id", zap.Error(err))
			return err
		}
		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_product,
  ADD CONSTRAINT fk_order_items_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE SET NULL;
`).Error; err != nil {
			log.Error("fk order_items.product_id", zap.Error(err))
			return err
		}

		log.Info("Foreign keys created")
	}

	log.Info("Storefront database migration finished")
	return nil
}
