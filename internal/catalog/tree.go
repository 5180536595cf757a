package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/bazarly/catalog-backend/internal/models"
)

// maxDepth caps tree recursion and ancestor walks. Parent pointers are not
// guaranteed acyclic, so every traversal carries a visited set and this cap.
const maxDepth = 100

// TreeService assembles category forests and ancestor chains from the flat
// parent-pointer collection. Stateless between calls.
type TreeService struct {
	categories CategoryStore
	products   ProductStore
}

func NewTreeService(categories CategoryStore, products ProductStore) *TreeService {
	return &TreeService{categories: categories, products: products}
}

// BuildTree partitions flat categories into a forest. Categories without a
// parent, or whose parent is missing from the input, become roots.
func BuildTree(categories []models.Category, counts map[primitive.ObjectID]int64) []*models.CategoryNode {
	byID := make(map[primitive.ObjectID]models.Category, len(categories))
	children := make(map[primitive.ObjectID][]models.Category)
	var roots []models.Category

	for _, cat := range categories {
		byID[cat.ID] = cat
	}
	for _, cat := range categories {
		if cat.ParentID == nil {
			roots = append(roots, cat)
			continue
		}
		if _, ok := byID[*cat.ParentID]; !ok {
			// Dangling parent pointer: treat as an orphaned root.
			roots = append(roots, cat)
			continue
		}
		children[*cat.ParentID] = append(children[*cat.ParentID], cat)
	}

	visited := make(map[primitive.ObjectID]bool)
	nodes := make([]*models.CategoryNode, 0, len(roots))
	for _, root := range roots {
		if node := buildNode(root, children, counts, visited, 0); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func buildNode(cat models.Category, children map[primitive.ObjectID][]models.Category, counts map[primitive.ObjectID]int64, visited map[primitive.ObjectID]bool, depth int) *models.CategoryNode {
	if depth > maxDepth || visited[cat.ID] {
		return nil
	}
	visited[cat.ID] = true

	node := &models.CategoryNode{
		ID:           cat.ID,
		Name:         cat.Name,
		Children:     []*models.CategoryNode{},
		ProductCount: counts[cat.ID],
	}
	for _, child := range children[cat.ID] {
		if childNode := buildNode(child, children, counts, visited, depth+1); childNode != nil {
			node.Children = append(node.Children, childNode)
		}
	}
	return node
}

// CategoryTree returns the full forest with live product counts per node.
func (t *TreeService) CategoryTree(ctx context.Context) ([]*models.CategoryNode, error) {
	categories, err := t.categories.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	counts, err := t.products.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products per category: %w", err)
	}
	return BuildTree(categories, counts), nil
}

// ResolveAncestors walks parent pointers upward from the given category and
// returns the chain root-first, excluding the starting category itself. Every
// ancestor carries its live product count, computed against the products'
// category references rather than the redundant back-reference lists. The walk
// stops cleanly on a missing parent or a cycle.
func (t *TreeService) ResolveAncestors(ctx context.Context, categoryID primitive.ObjectID) ([]*models.CategoryNode, error) {
	current, err := t.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("fetch category %s: %w", categoryID.Hex(), err)
	}
	if current == nil {
		return nil, nil
	}

	var chain []*models.CategoryNode
	visited := map[primitive.ObjectID]bool{categoryID: true}

	for depth := 0; current.ParentID != nil && depth < maxDepth; depth++ {
		parentID := *current.ParentID
		if visited[parentID] {
			break
		}
		visited[parentID] = true

		parent, err := t.categories.FindByID(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("fetch ancestor %s: %w", parentID.Hex(), err)
		}
		if parent == nil {
			break
		}

		count, err := t.products.Count(ctx, bson.M{"categories": parent.ID})
		if err != nil {
			return nil, fmt.Errorf("count products in %s: %w", parent.ID.Hex(), err)
		}

		chain = append([]*models.CategoryNode{{
			ID:           parent.ID,
			Name:         parent.Name,
			Children:     []*models.CategoryNode{},
			ProductCount: count,
		}}, chain...)

		current = parent
	}
	return chain, nil
}

// MergeAncestors unions many ancestor chains, keeping the first occurrence of
// each category so shared ancestors appear exactly once.
func MergeAncestors(lists [][]*models.CategoryNode) []*models.CategoryNode {
	seen := make(map[primitive.ObjectID]bool)
	var merged []*models.CategoryNode
	for _, list := range lists {
		for _, node := range list {
			if seen[node.ID] {
				continue
			}
			seen[node.ID] = true
			merged = append(merged, node)
		}
	}
	return merged
}

// CategoriesWithProducts restricts the forest to categories that currently
// have at least one associated product, plus their full ancestor chains.
// Ancestor resolution runs per leaf in parallel and is merged at the end.
func (t *TreeService) CategoriesWithProducts(ctx context.Context) ([]*models.CategoryNode, error) {
	counts, err := t.products.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products per category: %w", err)
	}

	var leafIDs []primitive.ObjectID
	for id, n := range counts {
		if n > 0 {
			leafIDs = append(leafIDs, id)
		}
	}
	if len(leafIDs) == 0 {
		return []*models.CategoryNode{}, nil
	}

	var (
		mu     sync.Mutex
		chains [][]*models.CategoryNode
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range leafIDs {
		id := id
		g.Go(func() error {
			chain, err := t.ResolveAncestors(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			chains = append(chains, chain)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ancestors := MergeAncestors(chains)

	// The member set is the leaves plus every merged ancestor; fetch their
	// records and assemble the forest from that subset.
	memberIDs := make(map[primitive.ObjectID]bool)
	for _, id := range leafIDs {
		memberIDs[id] = true
	}
	for _, node := range ancestors {
		memberIDs[node.ID] = true
	}
	ids := make([]primitive.ObjectID, 0, len(memberIDs))
	for id := range memberIDs {
		ids = append(ids, id)
	}

	categories, err := t.categories.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("fetch member categories: %w", err)
	}
	return BuildTree(categories, counts), nil
}
