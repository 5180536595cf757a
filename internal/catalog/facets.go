package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/bazarly/catalog-backend/internal/models"
)

// SearchFacets carries the raw, all-optional filter dimensions of a product
// search. Values arrive as strings straight from the query layer; malformed
// numbers are treated as absent rather than rejected.
type SearchFacets struct {
	Name        string
	Vendor      string
	Owner       string
	Featured    string
	Promotional string
	MinPrice    string
	MaxPrice    string
	Rating      string
	Category    string
	Categories  []string
	Colors      []string
	Tag         string
	StartDate   string
	EndDate     string
	Status      string
	StatusClass string
	Locale      string
}

const (
	StatusClassPublished   = "published"
	StatusClassUnpublished = "unpublished"
	StatusClassSelling     = "selling"
	StatusClassOutOfStock  = "out-of-stock"
)

// Constraint nodes. Each facet compiles to one typed node; the interpreter in
// storeFilter renders the store-side ones as bson and skips the ones that can
// only be evaluated after price resolution.
type constraint interface {
	clause() bson.M
}

// textMatch is the compiled name facet: an OR across the localized text
// fields, the categories whose name matched the term, and the tags whose name
// matched the term. Resolved-empty id sets stay as false branches; they are
// simply not emitted, they never widen the OR.
type textMatch struct {
	locale     string
	term       string
	categories []primitive.ObjectID
	tags       []primitive.ObjectID
}

func (t textMatch) clause() bson.M {
	rx := bson.M{"$regex": regexp.QuoteMeta(t.term), "$options": "i"}
	or := []bson.M{
		{"title." + t.locale: rx},
		{"description." + t.locale: rx},
		{"shortDescription." + t.locale: rx},
		{"name": rx},
	}
	if len(t.categories) > 0 {
		or = append(or, bson.M{"categories": bson.M{"$in": t.categories}})
	}
	if len(t.tags) > 0 {
		or = append(or, bson.M{"tags": bson.M{"$in": t.tags}})
	}
	return bson.M{"$or": or}
}

type fieldEquals struct {
	field string
	value interface{}
}

func (f fieldEquals) clause() bson.M { return bson.M{f.field: f.value} }

type numericFloor struct {
	field string
	min   float64
}

func (n numericFloor) clause() bson.M { return bson.M{n.field: bson.M{"$gte": n.min}} }

// idSet is a supplied set facet. An empty resolved set is an impossible
// clause, not a no-op: a search for an unresolvable category or tag returns
// zero results for that branch.
type idSet struct {
	field string
	ids   []primitive.ObjectID
}

func (s idSet) clause() bson.M {
	if len(s.ids) == 0 {
		return impossibleClause()
	}
	return bson.M{s.field: bson.M{"$in": s.ids}}
}

// variantOption matches products selecting one of the resolved option ids on
// the corresponding attribute axis.
type variantOption struct {
	axes map[string][]string
}

func (v variantOption) clause() bson.M {
	if len(v.axes) == 0 {
		return impossibleClause()
	}
	var or []bson.M
	for axis, options := range v.axes {
		or = append(or, bson.M{"variants." + axis: bson.M{"$in": options}})
	}
	if len(or) == 1 {
		return or[0]
	}
	return bson.M{"$or": or}
}

type dateRange struct {
	from *time.Time
	to   *time.Time
}

func (d dateRange) clause() bson.M {
	bounds := bson.M{}
	if d.from != nil {
		bounds["$gte"] = *d.from
	}
	if d.to != nil {
		bounds["$lte"] = *d.to
	}
	return bson.M{"createdAt": bounds}
}

type stockAbove struct{ min int }

func (s stockAbove) clause() bson.M { return bson.M{"stock": bson.M{"$gt": s.min}} }

type stockBelow struct{ max int }

func (s stockBelow) clause() bson.M { return bson.M{"stock": bson.M{"$lt": s.max}} }

func impossibleClause() bson.M {
	return bson.M{"_id": bson.M{"$in": []primitive.ObjectID{}}}
}

// Query is a compiled search: store-side constraints plus the price bounds
// that, in price-ranked mode, are only applied after price resolution.
type Query struct {
	constraints []constraint

	minPrice     *float64
	maxPrice     *float64
	boundsOnBase bool
}

// StoreFilter renders every store-evaluable constraint as a single filter
// document. Price bounds are included only when they target the stored base
// price rather than the resolved effective price.
func (q *Query) StoreFilter() bson.M {
	var and []bson.M
	for _, c := range q.constraints {
		and = append(and, c.clause())
	}
	if q.boundsOnBase {
		bounds := bson.M{}
		if q.minPrice != nil {
			bounds["$gte"] = *q.minPrice
		}
		if q.maxPrice != nil {
			bounds["$lte"] = *q.maxPrice
		}
		if len(bounds) > 0 {
			and = append(and, bson.M{"prices.originalPrice": bounds})
		}
	}
	switch len(and) {
	case 0:
		return bson.M{}
	case 1:
		return and[0]
	default:
		return bson.M{"$and": and}
	}
}

// PostFilter evaluates the resolved-price bounds in price-ranked mode. It is
// always true when bounds are absent or already applied store-side.
func (q *Query) PostFilter(resolvedPrice float64) bool {
	if q.boundsOnBase {
		return true
	}
	if q.minPrice != nil && resolvedPrice < *q.minPrice {
		return false
	}
	if q.maxPrice != nil && resolvedPrice > *q.maxPrice {
		return false
	}
	return true
}

// Compiler resolves set facets (categories, tags, colors) against the store
// and assembles the constraint list.
type Compiler struct {
	categories CategoryStore
	tags       TagStore
	attributes AttributeStore
}

func NewCompiler(categories CategoryStore, tags TagStore, attributes AttributeStore) *Compiler {
	return &Compiler{categories: categories, tags: tags, attributes: attributes}
}

// Compile turns the facet set into a Query. Independent store lookups run
// concurrently and are joined before the constraint list is finalized. Store
// failures propagate; malformed facet values never do.
func (c *Compiler) Compile(ctx context.Context, f SearchFacets, priceRanked bool) (*Query, error) {
	locale := f.Locale
	if locale == "" {
		locale = "en"
	}

	var (
		nameCategories []primitive.ObjectID
		nameTags       []primitive.ObjectID
		slugTag        *primitive.ObjectID
		colorAxes      map[string][]string
	)

	g, gctx := errgroup.WithContext(ctx)

	if f.Name != "" {
		g.Go(func() error {
			ids, err := c.categoriesMatchingName(gctx, locale, f.Name)
			if err != nil {
				return fmt.Errorf("resolve categories for %q: %w", f.Name, err)
			}
			nameCategories = ids
			return nil
		})
		g.Go(func() error {
			ids, err := c.tagsMatchingName(gctx, locale, f.Name)
			if err != nil {
				return fmt.Errorf("resolve tags for %q: %w", f.Name, err)
			}
			nameTags = ids
			return nil
		})
	}
	if f.Tag != "" {
		g.Go(func() error {
			tags, err := c.tags.Find(gctx, bson.M{"slug": f.Tag})
			if err != nil {
				return fmt.Errorf("resolve tag slug %q: %w", f.Tag, err)
			}
			if len(tags) > 0 {
				slugTag = &tags[0].ID
			}
			return nil
		})
	}
	if len(f.Colors) > 0 {
		g.Go(func() error {
			axes, err := c.resolveColors(gctx, f.Colors)
			if err != nil {
				return fmt.Errorf("resolve colors: %w", err)
			}
			colorAxes = axes
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	q := &Query{boundsOnBase: !priceRanked}

	if f.Name != "" {
		q.constraints = append(q.constraints, textMatch{
			locale:     locale,
			term:       f.Name,
			categories: nameCategories,
			tags:       nameTags,
		})
	}
	if f.Vendor != "" {
		q.constraints = append(q.constraints, fieldEquals{field: "brand", value: f.Vendor})
	}
	if f.Owner != "" {
		q.constraints = append(q.constraints, fieldEquals{field: "owner", value: f.Owner})
	}
	if v, ok := parseFloat(f.Featured); ok {
		q.constraints = append(q.constraints, numericFloor{field: "featured", min: v})
	}
	if v, ok := parseFloat(f.Promotional); ok {
		q.constraints = append(q.constraints, numericFloor{field: "promotional", min: v})
	}
	if v, ok := parseFloat(f.Rating); ok {
		q.constraints = append(q.constraints, numericFloor{field: "rating", min: v})
	}
	if v, ok := parseFloat(f.MinPrice); ok {
		q.minPrice = &v
	}
	if v, ok := parseFloat(f.MaxPrice); ok {
		q.maxPrice = &v
	}

	// Explicit category ids (list plus single) form one ANDed membership
	// facet, distinct from the OR-branch the name facet may contribute.
	if len(f.Categories) > 0 || f.Category != "" {
		ids := parseObjectIDs(append(append([]string{}, f.Categories...), f.Category))
		q.constraints = append(q.constraints, idSet{field: "categories", ids: ids})
	}
	if f.Tag != "" {
		var ids []primitive.ObjectID
		if slugTag != nil {
			ids = append(ids, *slugTag)
		}
		q.constraints = append(q.constraints, idSet{field: "tags", ids: ids})
	}
	if len(f.Colors) > 0 {
		q.constraints = append(q.constraints, variantOption{axes: colorAxes})
	}

	if from, to, ok := parseDayRange(f.StartDate, f.EndDate); ok {
		q.constraints = append(q.constraints, dateRange{from: from, to: to})
	}

	switch f.StatusClass {
	case StatusClassPublished:
		q.constraints = append(q.constraints, fieldEquals{field: "status", value: models.ProductStatusShow})
	case StatusClassUnpublished:
		q.constraints = append(q.constraints, fieldEquals{field: "status", value: models.ProductStatusHide})
	case StatusClassSelling:
		q.constraints = append(q.constraints, stockAbove{min: 0})
	case StatusClassOutOfStock:
		q.constraints = append(q.constraints, stockBelow{max: 1})
	default:
		if f.Status != "" {
			q.constraints = append(q.constraints, fieldEquals{field: "status", value: models.ProductStatus(f.Status)})
		}
	}

	return q, nil
}

func (c *Compiler) categoriesMatchingName(ctx context.Context, locale, term string) ([]primitive.ObjectID, error) {
	filter := bson.M{"name." + locale: bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}}
	cats, err := c.categories.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(cats))
	for _, cat := range cats {
		ids = append(ids, cat.ID)
	}
	return ids, nil
}

func (c *Compiler) tagsMatchingName(ctx context.Context, locale, term string) ([]primitive.ObjectID, error) {
	filter := bson.M{"name." + locale: bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}}
	tags, err := c.tags.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

// resolveColors maps requested color names to option ids per attribute axis,
// restricted to visible attributes. Matching is case-insensitive over every
// locale of the option name.
func (c *Compiler) resolveColors(ctx context.Context, colors []string) (map[string][]string, error) {
	attrs, err := c.attributes.Find(ctx, bson.M{"isVisible": true})
	if err != nil {
		return nil, err
	}
	axes := make(map[string][]string)
	for _, attr := range attrs {
		for _, opt := range attr.Variants {
			if !optionNameMatches(opt, colors) {
				continue
			}
			axis := attr.ID.Hex()
			axes[axis] = append(axes[axis], opt.ID.Hex())
		}
	}
	return axes, nil
}

func optionNameMatches(opt models.AttributeOption, colors []string) bool {
	for _, localized := range opt.Name {
		for _, color := range colors {
			if strings.EqualFold(localized, color) {
				return true
			}
		}
	}
	return false
}

func parseFloat(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseObjectIDs(raw []string) []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, s := range raw {
		if s == "" {
			continue
		}
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// parseDayRange widens the supplied dates to whole days: start at midnight,
// end at 23:59:59.999.
func parseDayRange(start, end string) (*time.Time, *time.Time, bool) {
	var from, to *time.Time
	if t, err := time.ParseInLocation("2006-01-02", start, time.Local); err == nil {
		from = &t
	}
	if t, err := time.ParseInLocation("2006-01-02", end, time.Local); err == nil {
		eod := t.Add(24*time.Hour - time.Millisecond)
		to = &eod
	}
	return from, to, from != nil || to != nil
}
