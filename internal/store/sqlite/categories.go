package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/listenupapp/pressroom/internal/domain"
	"github.com/listenupapp/pressroom/internal/store"
)

// categoryColumns is the ordered list of columns selected in category queries.
// Must match the scan order in scanCategory.
const categoryColumns = `c.id, c.name, c.slug, c.description, c.created_at, c.updated_at`

// scanCategory scans a row into a domain.Category. Any lead destinations are
// scanned first, for queries that select extra columns before categoryColumns.
func scanCategory(scanner interface{ Scan(dest ...any) error }, lead ...any) (*domain.Category, error) {
	var c domain.Category

	var (
		description sql.NullString
		createdAt   string
		updatedAt   string
	)

	dest := append(lead, &c.ID, &c.Name, &c.Slug, &description, &createdAt, &updatedAt)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	c.Description = description.String

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a new category.
// Returns store.ErrAlreadyExists on duplicate slug.
func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, slug, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.Name,
		c.Slug,
		nullString(c.Description),
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// UpdateCategory overwrites name, slug and description.
func (s *Store) UpdateCategory(ctx context.Context, c *domain.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, slug = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		c.Name,
		c.Slug,
		nullString(c.Description),
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireAffected(res)
}

// DeleteCategory removes a category and its post links.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res)
}

// GetCategory retrieves a category by ID.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories c WHERE c.id = ?`, id)

	c, err := scanCategory(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// GetCategoryBySlug retrieves a category by slug.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories c WHERE c.slug = ?`, slug)

	c, err := scanCategory(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// ListCategories returns all categories ordered by name, each with the
// number of posts visible at now.
func (s *Store) ListCategories(ctx context.Context, now time.Time) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+visibleCount("post_categories", "category_id", "c.id")+`, `+categoryColumns+`
		FROM categories c ORDER BY c.name ASC, c.slug ASC`,
		formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		var count int
		c, err := scanCategory(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.PostCount = count
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return categories, nil
}

// ResolveCategoryRefs maps category ids or slugs to ids.
func (s *Store) ResolveCategoryRefs(ctx context.Context, refs []string) ([]string, []string, error) {
	return s.resolveRefs(ctx, "categories", refs)
}

// requireAffected returns store.ErrNotFound when an UPDATE or DELETE touched no rows.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
