package requests

import (
	"math"
	"strings"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/pkg/validate"
)

// Field caps applied on save.
const (
	MaxNameLen        = 500
	MaxImageLen       = 2000
	MaxCategoryLen    = 100
	MaxDescriptionLen = 5000
	MaxBulkOrderLen   = 100
	MaxImages         = 10
	MaxVariants       = 50

	// MaxProductID bounds posted ids so that max+1 stays representable.
	MaxProductID = math.MaxInt32
)

// ProductRequest is the body of POST/PUT /api/products.
type ProductRequest struct {
	Product *ProductInput `json:"product"`
}

// VariantInput is one posted variant.
type VariantInput struct {
	Weight        Text   `json:"weight"`
	Price         Number `json:"price"`
	OriginalPrice Number `json:"originalPrice"`
	IsMain        Flag   `json:"isMain"`
}

// ProductInput is a product as the admin panel or an import file sends it.
type ProductInput struct {
	ID               Number          `json:"id"`
	Name             Text            `json:"name"     validate:"required"`
	Image            Text            `json:"image"    validate:"required,safe_url"`
	Category         Text            `json:"category" validate:"required"`
	OriginalPrice    Number          `json:"originalPrice"`
	OfferPrice       Number          `json:"offerPrice"`
	Discount         Number          `json:"discount"`
	Rating           Number          `json:"rating"`
	ReviewCount      Number          `json:"reviewCount"`
	BestSelling      Flag            `json:"bestSelling"`
	Description      Text            `json:"description"`
	Images           []Text          `json:"images"`
	Variants         []VariantInput  `json:"variants"`
	TechnicalDetails map[string]Text `json:"technicalDetails"`
	BulkOrderNumber  Text            `json:"bulkOrderNumber"`
	CreatedAt        Text            `json:"createdAt"`
}

// Validate checks a product save and returns the sanitized model. The
// returned product has ID 0 when the store should assign one.
func (r ProductRequest) Validate() (models.Product, error) {
	if r.Product == nil {
		return models.Product{}, fieldError("product", "The product field is required.")
	}
	errs := validate.Struct(r.Product)
	p := r.Product.Sanitize()
	if len(p.Variants) == 0 {
		errs["variants"] = "At least one variant with a weight and a price is required."
	}
	if err := invalid(errs); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Sanitize caps lengths, clamps the rating, drops invalid variants and
// derives the flat prices from the main variant. It never fails.
func (in ProductInput) Sanitize() models.Product {
	p := models.Product{
		ID:               productID(in.ID),
		Name:             truncate(in.Name.String(), MaxNameLen),
		Image:            sanitizeImage(in.Image),
		Category:         truncate(in.Category.String(), MaxCategoryLen),
		Rating:           clampRating(in.Rating.Float()),
		ReviewCount:      in.ReviewCount.Int(),
		BestSelling:      bool(in.BestSelling),
		Description:      truncate(strings.TrimSpace(string(in.Description)), MaxDescriptionLen),
		Images:           sanitizeImages(in.Images),
		Variants:         sanitizeVariants(in.Variants),
		TechnicalDetails: sanitizeDetails(in.TechnicalDetails),
		BulkOrderNumber:  truncate(in.BulkOrderNumber.String(), MaxBulkOrderLen),
		CreatedAt:        in.CreatedAt.String(),
	}
	if p.ReviewCount < 0 {
		p.ReviewCount = 0
	}

	if main, ok := p.MainVariant(); ok {
		p.OfferPrice = roundPrice(main.Price)
		p.OriginalPrice = roundPrice(main.Original())
		p.Discount = main.Discount()
	} else {
		p.OriginalPrice = nonNegative(in.OriginalPrice.Int())
		p.OfferPrice = nonNegative(in.OfferPrice.Int())
		if p.OriginalPrice == 0 {
			p.OriginalPrice = p.OfferPrice
		}
		p.Discount = models.DiscountPercent(float64(p.OriginalPrice), float64(p.OfferPrice))
	}
	return p
}

// clampRating maps a missing rating to 4.0 and clamps the rest to [1, 5].
func clampRating(r float64) float64 {
	switch {
	case r == 0 || math.IsNaN(r):
		return 4.0
	case r < 1:
		return 1
	case r > 5:
		return 5
	}
	return r
}

// productID is 0, meaning "assign one", unless n is in [1, MaxProductID].
// The range check runs on the float so huge values never reach int.
func productID(n Number) int {
	if f := n.Float(); f >= 1 && f <= MaxProductID {
		return n.Int()
	}
	return 0
}

// sanitizeImage is "" for anything but an http(s) URL or a safe path.
func sanitizeImage(img Text) string {
	s := truncate(img.String(), MaxImageLen)
	if s == "" || !(validate.IsHTTPURL(s) || validate.IsSafePath(s)) {
		return ""
	}
	return s
}

func sanitizeImages(in []Text) []string {
	out := []string{}
	for _, img := range in {
		if len(out) == MaxImages {
			break
		}
		if s := sanitizeImage(img); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// sanitizeVariants keeps the first MaxVariants entries, drops the invalid
// ones and leaves exactly one variant marked main.
func sanitizeVariants(in []VariantInput) []models.Variant {
	if len(in) > MaxVariants {
		in = in[:MaxVariants]
	}
	out := []models.Variant{}
	for _, v := range in {
		variant := models.Variant{
			Weight:        truncate(v.Weight.String(), MaxCategoryLen),
			Price:         v.Price.Float(),
			OriginalPrice: v.OriginalPrice.Float(),
			IsMain:        bool(v.IsMain),
		}
		if variant.OriginalPrice < 0 {
			variant.OriginalPrice = 0
		}
		if variant.Valid() {
			out = append(out, variant)
		}
	}
	if len(out) == 0 {
		return out
	}
	_, main, _ := models.MainVariant(out)
	for i := range out {
		out[i].IsMain = i == main
	}
	return out
}

func sanitizeDetails(in map[string]Text) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		out[truncate(key, MaxCategoryLen)] = truncate(v.String(), MaxImageLen)
	}
	return out
}

func roundPrice(f float64) int { return int(math.Round(f)) }

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
