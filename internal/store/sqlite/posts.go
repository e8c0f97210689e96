package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/listenupapp/pressroom/internal/domain"
	"github.com/listenupapp/pressroom/internal/store"
)

// postColumns is the ordered list of columns selected in post queries.
// Must match the scan order in scanPost.
const postColumns = `p.id, p.author_id, p.title, p.slug, p.excerpt, p.body, p.cover_image,
	p.status, p.published_at, p.publish_at, p.reading_time,
	p.meta_title, p.meta_description, p.canonical_url, p.version, p.created_at, p.updated_at`

// postOrder sorts newest publication first; unpublished posts go last.
const postOrder = ` ORDER BY p.published_at IS NULL, p.published_at DESC, p.created_at DESC, p.id`

// scanPost scans a sql.Row (or sql.Rows via its Scan method) into a domain.Post.
// Relations are left empty; see loadRelations.
func scanPost(scanner interface{ Scan(dest ...any) error }) (*domain.Post, error) {
	var p domain.Post

	var (
		coverImage      sql.NullString
		status          string
		publishedAt     sql.NullString
		publishAt       sql.NullString
		metaTitle       sql.NullString
		metaDescription sql.NullString
		canonicalURL    sql.NullString
		createdAt       string
		updatedAt       string
	)

	err := scanner.Scan(
		&p.ID,
		&p.AuthorID,
		&p.Title,
		&p.Slug,
		&p.Excerpt,
		&p.Body,
		&coverImage,
		&status,
		&publishedAt,
		&publishAt,
		&p.ReadingTime,
		&metaTitle,
		&metaDescription,
		&canonicalURL,
		&p.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CoverImage = coverImage.String
	p.Status = domain.PostStatus(status)
	p.MetaTitle = metaTitle.String
	p.MetaDescription = metaDescription.String
	p.CanonicalURL = canonicalURL.String

	if p.PublishedAt, err = parseNullableTime(publishedAt); err != nil {
		return nil, err
	}
	if p.PublishAt, err = parseNullableTime(publishAt); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	p.Categories = []*domain.Category{}
	p.Tags = []*domain.Tag{}

	return &p, nil
}

// CreatePost inserts a post and its category and tag links in one transaction.
// Returns store.ErrAlreadyExists on duplicate slug and store.ErrInvalidReference
// when the author or a linked category or tag does not exist.
func (s *Store) CreatePost(ctx context.Context, post *domain.Post, links store.PostLinks) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if post.Version == 0 {
		post.Version = 1
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO posts (
			id, author_id, title, slug, excerpt, body, cover_image,
			status, published_at, publish_at, reading_time,
			meta_title, meta_description, canonical_url, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.AuthorID,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.Body,
		nullString(post.CoverImage),
		string(post.Status),
		nullTimeString(post.PublishedAt),
		nullTimeString(post.PublishAt),
		post.ReadingTime,
		nullString(post.MetaTitle),
		nullString(post.MetaDescription),
		nullString(post.CanonicalURL),
		post.Version,
		formatTime(post.CreatedAt),
		formatTime(post.UpdatedAt),
	)
	switch {
	case isUniqueViolation(err):
		return store.ErrAlreadyExists
	case isForeignKeyViolation(err):
		return store.ErrInvalidReference
	case err != nil:
		return fmt.Errorf("insert post: %w", err)
	}

	if err := replacePostLinks(ctx, tx, post.ID, links); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdatePost writes every column of post and, for each non-nil set in links,
// replaces that relation. All of it happens in one transaction.
//
// When expectedVersion is set the write only applies if the stored version
// matches; otherwise store.ErrVersionMismatch is returned. On success
// post.Version holds the new version.
func (s *Store) UpdatePost(ctx context.Context, post *domain.Post, links store.PostLinks, expectedVersion *int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var expected sql.NullInt64
	if expectedVersion != nil {
		expected = sql.NullInt64{Int64: int64(*expectedVersion), Valid: true}
	}

	var version int
	err = tx.QueryRowContext(ctx, `
		UPDATE posts SET
			title = ?, slug = ?, excerpt = ?, body = ?, cover_image = ?,
			status = ?, published_at = ?, publish_at = ?, reading_time = ?,
			meta_title = ?, meta_description = ?, canonical_url = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND (? IS NULL OR version = ?)
		RETURNING version`,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.Body,
		nullString(post.CoverImage),
		string(post.Status),
		nullTimeString(post.PublishedAt),
		nullTimeString(post.PublishAt),
		post.ReadingTime,
		nullString(post.MetaTitle),
		nullString(post.MetaDescription),
		nullString(post.CanonicalURL),
		formatTime(post.UpdatedAt),
		post.ID,
		expected,
		expected,
	).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Either the post is gone or the version moved on.
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, post.ID).Scan(&exists); err != nil {
			return notFound(err)
		}
		return store.ErrVersionMismatch
	case isUniqueViolation(err):
		return store.ErrAlreadyExists
	case err != nil:
		return fmt.Errorf("update post: %w", err)
	}

	if err := replacePostLinks(ctx, tx, post.ID, links); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	post.Version = version
	return nil
}

// replacePostLinks replaces the category and tag sets that are non-nil.
func replacePostLinks(ctx context.Context, tx *sql.Tx, postID string, links store.PostLinks) error {
	if links.CategoryIDs != nil {
		if err := replaceLinks(ctx, tx, "post_categories", "category_id", postID, links.CategoryIDs); err != nil {
			return err
		}
	}
	if links.TagIDs != nil {
		if err := replaceLinks(ctx, tx, "post_tags", "tag_id", postID, links.TagIDs); err != nil {
			return err
		}
	}
	return nil
}

// replaceLinks deletes all rows for postID in table and inserts the new set.
func replaceLinks(ctx context.Context, tx *sql.Tx, table, column, postID string, ids []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE post_id = ?`, postID); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}

	for _, linkID := range ids {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO `+table+` (post_id, `+column+`) VALUES (?, ?)`,
			postID, linkID)
		if isForeignKeyViolation(err) {
			return store.ErrInvalidReference
		}
		if err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

// DeletePost removes a post. Links cascade.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetPost retrieves a post with its author, categories and tags.
func (s *Store) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.getPostWhere(ctx, `p.id = ?`, id)
}

// GetPostBySlug retrieves a post by slug regardless of status.
// Public callers must still apply the visibility rule.
func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return s.getPostWhere(ctx, `p.slug = ?`, slug)
}

func (s *Store) getPostWhere(ctx context.Context, cond string, arg any) (*domain.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE `+cond, arg)

	p, err := scanPost(row)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.loadRelations(ctx, []*domain.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPostsByIDs returns the posts that exist, in the order of ids.
func (s *Store) GetPostsByIDs(ctx context.Context, ids []string) ([]*domain.Post, error) {
	if len(ids) == 0 {
		return []*domain.Post{}, nil
	}

	posts, err := s.queryPosts(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE p.id IN (`+placeholders(len(ids))+`)`,
		stringArgs(ids)...)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]*domain.Post, 0, len(posts))
	for _, postID := range ids {
		if p, ok := byID[postID]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// buildPostWhere renders filter as a WHERE clause over alias p.
// The VisibleAt branch is the SQL form of domain.Visible.
func buildPostWhere(filter store.PostFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.Status != nil {
		conds = append(conds, `p.status = ?`)
		args = append(args, string(*filter.Status))
	}
	if filter.VisibleAt != nil {
		conds = append(conds, `p.status = ? AND p.published_at IS NOT NULL AND p.published_at <= ?`)
		args = append(args, string(domain.PostStatusPublished), formatTime(*filter.VisibleAt))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(fold(search)) + "%"
		conds = append(conds, `(`+foldFunc+`(p.title) LIKE ? ESCAPE '\' OR `+
			foldFunc+`(p.body) LIKE ? ESCAPE '\' OR `+
			foldFunc+`(p.excerpt) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if filter.CategoryID != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.id AND pc.category_id = ?)`)
		args = append(args, filter.CategoryID)
	}
	if filter.TagID != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = ?)`)
		args = append(args, filter.TagID)
	}
	if filter.AuthorID != "" {
		conds = append(conds, `p.author_id = ?`)
		args = append(args, filter.AuthorID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// escapeLike escapes LIKE wildcards so search terms match literally.
// SQLite's LIKE is case-insensitive for ASCII.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ListPosts returns one page of posts matching filter.
func (s *Store) ListPosts(ctx context.Context, filter store.PostFilter, page store.PageParams) (*store.Page[*domain.Post], error) {
	page.Validate()
	where, args := buildPostWhere(filter)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	var posts []*domain.Post
	if page.Offset() < total {
		var err error
		posts, err = s.queryPosts(ctx,
			`SELECT `+postColumns+` FROM posts p`+where+postOrder+` LIMIT ? OFFSET ?`,
			append(args, page.Limit, page.Offset())...)
		if err != nil {
			return nil, err
		}
	}

	return store.NewPage(posts, total, page), nil
}

// FindPosts returns posts matching filter in publication order.
// A limit of zero or less returns every match.
func (s *Store) FindPosts(ctx context.Context, filter store.PostFilter, limit int) ([]*domain.Post, error) {
	where, args := buildPostWhere(filter)
	query := `SELECT ` + postColumns + ` FROM posts p` + where + postOrder
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryPosts(ctx, query, args...)
}

// PostStats counts posts by status and returns the most recently created ones.
func (s *Store) PostStats(ctx context.Context, recent int) (*domain.PostStats, error) {
	var stats domain.PostStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(status = 'PUBLISHED'), 0),
			COALESCE(SUM(status = 'DRAFT'), 0),
			COALESCE(SUM(status = 'SCHEDULED'), 0)
		FROM posts`).Scan(&stats.Total, &stats.Published, &stats.Drafts, &stats.Scheduled)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	stats.Recent, err = s.queryPosts(ctx,
		`SELECT `+postColumns+` FROM posts p ORDER BY p.created_at DESC, p.id LIMIT ?`, recent)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// queryPosts runs a post query and loads relations for every row.
func (s *Store) queryPosts(ctx context.Context, query string, args ...any) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []*domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	if err := s.loadRelations(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// loadRelations fills Author, Categories and Tags with one query per relation.
func (s *Store) loadRelations(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Post, len(posts))
	postIDs := make([]string, 0, len(posts))
	authorSet := make(map[string]struct{})
	authorIDs := []string{}
	for _, p := range posts {
		byID[p.ID] = p
		postIDs = append(postIDs, p.ID)
		if _, seen := authorSet[p.AuthorID]; !seen {
			authorSet[p.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}
	in := placeholders(len(postIDs))

	// Categories.
	rows, err := s.db.QueryContext(ctx, `
		SELECT pc.post_id, `+categoryColumns+`
		FROM post_categories pc JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id IN (`+in+`)
		ORDER BY c.name`, stringArgs(postIDs)...)
	if err != nil {
		return fmt.Errorf("query post categories: %w", err)
	}
	for rows.Next() {
		var postID string
		c, err := scanCategory(rows, &postID)
		if err != nil {
			rows.Close()
			return fmt.Errorf("scan post category: %w", err)
		}
		byID[postID].Categories = append(byID[postID].Categories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}

	// Tags.
	rows, err = s.db.QueryContext(ctx, `
		SELECT pt.post_id, `+tagColumns+`
		FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id IN (`+in+`)
		ORDER BY t.name`, stringArgs(postIDs)...)
	if err != nil {
		return fmt.Errorf("query post tags: %w", err)
	}
	for rows.Next() {
		var postID string
		t, err := scanTag(rows, &postID)
		if err != nil {
			rows.Close()
			return fmt.Errorf("scan post tag: %w", err)
		}
		byID[postID].Tags = append(byID[postID].Tags, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}

	// Authors.
	rows, err = s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id IN (`+placeholders(len(authorIDs))+`)`,
		stringArgs(authorIDs)...)
	if err != nil {
		return fmt.Errorf("query post authors: %w", err)
	}
	defer rows.Close()

	authors := make(map[string]*domain.User, len(authorIDs))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return fmt.Errorf("scan post author: %w", err)
		}
		authors[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}
	for _, p := range posts {
		p.Author = authors[p.AuthorID]
	}

	return nil
}

// visibleCount is the correlated subquery counting visible posts linked through table.
func visibleCount(table, column, outer string) string {
	return `(SELECT COUNT(*) FROM ` + table + ` l JOIN posts p ON p.id = l.post_id
		WHERE l.` + column + ` = ` + outer + `
		AND p.status = 'PUBLISHED' AND p.published_at IS NOT NULL AND p.published_at <= ?)`
}

// resolveRefs maps each ref to an id by matching id first, then slug.
// Unmatched refs are returned in missing. Duplicates collapse.
func (s *Store) resolveRefs(ctx context.Context, table string, refs []string) ([]string, []string, error) {
	ids := []string{}
	if len(refs) == 0 {
		return ids, nil, nil
	}

	args := append(stringArgs(refs), stringArgs(refs)...)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug FROM `+table+`
		WHERE id IN (`+placeholders(len(refs))+`) OR slug IN (`+placeholders(len(refs))+`)`,
		args...)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve %s: %w", table, err)
	}
	defer rows.Close()

	byID := map[string]string{}
	bySlug := map[string]string{}
	for rows.Next() {
		var rowID, slug string
		if err := rows.Scan(&rowID, &slug); err != nil {
			return nil, nil, fmt.Errorf("scan %s: %w", table, err)
		}
		byID[rowID] = rowID
		bySlug[slug] = rowID
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows iteration: %w", err)
	}

	var missing []string
	seen := map[string]bool{}
	for _, ref := range refs {
		resolved, ok := byID[ref]
		if !ok {
			resolved, ok = bySlug[ref]
		}
		if !ok {
			missing = append(missing, ref)
			continue
		}
		if !seen[resolved] {
			seen[resolved] = true
			ids = append(ids, resolved)
		}
	}
	return ids, missing, nil
}
