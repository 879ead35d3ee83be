package repository

import (
	"context"
	"errors"

	"glowpos/internal/dto"
	"glowpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for the product
// catalog and its tones. Services depend on this interface, not on the
// concrete GORM implementation, enabling unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	ListBelowMinStock(ctx context.Context) ([]model.Product, error)

	// Tones
	CreateTone(ctx context.Context, t *model.Tone) error
	FindToneByID(ctx context.Context, id uuid.UUID) (*model.Tone, error)
	ListTones(ctx context.Context, productID uuid.UUID) ([]model.Tone, error)
	DeleteTone(ctx context.Context, id uuid.UUID) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Tones").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "product", Ref: id.String()}
	}
	return &p, err
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("code = ? AND active = true", code).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "product", Ref: code}
	}
	return &p, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	// Active filter: "false" = inactive, "all" = everything, default active only
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}

	if filter.Code != "" {
		q = q.Where("code = ?", filter.Code)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Tones").Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", false).Error
}

func (r *productRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", true).Error
}

// ListBelowMinStock returns active products whose effective stock is at or
// below the configured threshold. For toned products the tone counters are
// summed; the parent counter is unused.
func (r *productRepo) ListBelowMinStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Tones").
		Where("active = true").
		Where(`(SELECT COALESCE(SUM(t.quantity), products.quantity)
		        FROM tones t WHERE t.product_id = products.id) <= products.min_stock`).
		Find(&products).Error
	return products, err
}

func (r *productRepo) CreateTone(ctx context.Context, t *model.Tone) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *productRepo) FindToneByID(ctx context.Context, id uuid.UUID) (*model.Tone, error) {
	var t model.Tone
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "tone", Ref: id.String()}
	}
	return &t, err
}

func (r *productRepo) ListTones(ctx context.Context, productID uuid.UUID) ([]model.Tone, error) {
	var tones []model.Tone
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("name ASC").Find(&tones).Error
	return tones, err
}

func (r *productRepo) DeleteTone(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Tone{}, "id = ?", id).Error
}
