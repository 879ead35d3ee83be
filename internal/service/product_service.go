package service

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"time"

	"glowpos/internal/dto"
	"glowpos/internal/model"
	"glowpos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const priceCacheTTL = 5 * time.Minute

// ImageStore persists an uploaded product image and returns its public URL.
type ImageStore interface {
	Save(file *multipart.FileHeader) (string, error)
	Remove(url string) error
}

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest, image *multipart.FileHeader) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest, image *multipart.FileHeader) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	// PriceByCode is the cashier price lookup, cached in redis.
	PriceByCode(ctx context.Context, code string) (*dto.PriceResponse, error)

	AddTone(ctx context.Context, productID uuid.UUID, req dto.CreateToneRequest) (*dto.ToneResponse, error)
	ListTones(ctx context.Context, productID uuid.UUID) ([]dto.ToneResponse, error)
	RemoveTone(ctx context.Context, productID, toneID uuid.UUID) error

	// ListMovements returns a product's stock audit trail, newest first.
	ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]dto.StockMovementResponse, error)
}

type productService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	images    ImageStore
	cache     *redis.Client
}

func NewProductService(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	images ImageStore,
	cache *redis.Client,
) ProductService {
	return &productService{products: products, movements: movements, images: images, cache: cache}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest, image *multipart.FileHeader) (*dto.ProductResponse, error) {
	product := model.Product{
		Code:          req.Code,
		Name:          req.Name,
		Brand:         req.Brand,
		Description:   req.Description,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		Quantity:      req.Quantity,
		MinStock:      req.MinStock,
		Active:        true,
	}

	var err error
	if product.CategoryID, err = parseOptionalID(req.CategoryID, "category_id"); err != nil {
		return nil, err
	}
	if product.SubcategoryID, err = parseOptionalID(req.SubcategoryID, "subcategory_id"); err != nil {
		return nil, err
	}
	if product.SupplierID, err = parseOptionalID(req.SupplierID, "supplier_id"); err != nil {
		return nil, err
	}

	if image != nil {
		url, err := s.images.Save(image)
		if err != nil {
			return nil, err
		}
		product.ImageURL = &url
	}

	if err := s.products.Create(ctx, &product); err != nil {
		return nil, err
	}
	return productToResponse(&product), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest, image *multipart.FileHeader) (*dto.ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Brand = req.Brand
	product.Description = req.Description
	product.PurchasePrice = req.PurchasePrice
	product.SalePrice = req.SalePrice
	product.MinStock = req.MinStock

	if product.CategoryID, err = parseOptionalID(req.CategoryID, "category_id"); err != nil {
		return nil, err
	}
	if product.SubcategoryID, err = parseOptionalID(req.SubcategoryID, "subcategory_id"); err != nil {
		return nil, err
	}
	if product.SupplierID, err = parseOptionalID(req.SupplierID, "supplier_id"); err != nil {
		return nil, err
	}

	if image != nil {
		url, err := s.images.Save(image)
		if err != nil {
			return nil, err
		}
		if product.ImageURL != nil {
			if err := s.images.Remove(*product.ImageURL); err != nil {
				log.Warn().Err(err).Str("url", *product.ImageURL).Msg("failed to remove old product image")
			}
		}
		product.ImageURL = &url
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidatePrice(ctx, product.Code)
	return productToResponse(product), nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidatePrice(ctx, product.Code)
	return nil
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.products.Reactivate(ctx, id)
}

// PriceByCode serves the cashier's barcode lookup. The hit path goes through
// redis; misses fall back to the database and repopulate the key.
func (s *productService) PriceByCode(ctx context.Context, code string) (*dto.PriceResponse, error) {
	key := "price:" + code

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var cached dto.PriceResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Str("code", code).Msg("price cache read failed")
		}
	}

	product, err := s.products.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := &dto.PriceResponse{Code: product.Code, Name: product.Name, SalePrice: product.SalePrice}

	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, key, raw, priceCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("code", code).Msg("price cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *productService) invalidatePrice(ctx context.Context, code string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, "price:"+code).Err(); err != nil {
		log.Warn().Err(err).Str("code", code).Msg("price cache invalidation failed")
	}
}

func (s *productService) AddTone(ctx context.Context, productID uuid.UUID, req dto.CreateToneRequest) (*dto.ToneResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	tone := model.Tone{ProductID: productID, Name: req.Name, Quantity: req.Quantity}
	if err := s.products.CreateTone(ctx, &tone); err != nil {
		return nil, err
	}
	return &dto.ToneResponse{ID: tone.ID.String(), Name: tone.Name, Quantity: tone.Quantity}, nil
}

func (s *productService) ListTones(ctx context.Context, productID uuid.UUID) ([]dto.ToneResponse, error) {
	tones, err := s.products.ListTones(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ToneResponse, 0, len(tones))
	for _, t := range tones {
		out = append(out, dto.ToneResponse{ID: t.ID.String(), Name: t.Name, Quantity: t.Quantity})
	}
	return out, nil
}

func (s *productService) RemoveTone(ctx context.Context, productID, toneID uuid.UUID) error {
	tone, err := s.products.FindToneByID(ctx, toneID)
	if err != nil {
		return err
	}
	if tone.ProductID != productID {
		return &repository.NotFoundError{Entity: "tone", Ref: toneID.String()}
	}
	return s.products.DeleteTone(ctx, toneID)
}

func (s *productService) ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]dto.StockMovementResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	movements, err := s.movements.ListByProduct(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		resp := dto.StockMovementResponse{
			ID:          m.ID.String(),
			ProductID:   m.ProductID.String(),
			Type:        m.Type,
			Delta:       m.Delta,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
		}
		if m.ToneID != nil {
			tid := m.ToneID.String()
			resp.ToneID = &tid
		}
		if m.ReferenceID != nil {
			rid := m.ReferenceID.String()
			resp.ReferenceID = &rid
		}
		out = append(out, resp)
	}
	return out, nil
}

func parseOptionalID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, invalidInputf("bad %s %q", field, *raw)
	}
	return &id, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	quantity := p.Quantity
	tones := make([]dto.ToneResponse, 0, len(p.Tones))
	if len(p.Tones) > 0 {
		quantity = 0
		for _, t := range p.Tones {
			quantity += t.Quantity
			tones = append(tones, dto.ToneResponse{ID: t.ID.String(), Name: t.Name, Quantity: t.Quantity})
		}
	}

	resp := &dto.ProductResponse{
		ID:            p.ID.String(),
		Code:          p.Code,
		Name:          p.Name,
		Brand:         p.Brand,
		Description:   p.Description,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Quantity:      quantity,
		MinStock:      p.MinStock,
		ImageURL:      p.ImageURL,
		Active:        p.Active,
		Tones:         tones,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.CategoryID != nil {
		cid := p.CategoryID.String()
		resp.CategoryID = &cid
	}
	if p.SubcategoryID != nil {
		sid := p.SubcategoryID.String()
		resp.SubcategoryID = &sid
	}
	if p.SupplierID != nil {
		sid := p.SupplierID.String()
		resp.SupplierID = &sid
	}
	return resp
}
