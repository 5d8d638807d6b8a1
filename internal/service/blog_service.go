package service

import (
	"errors"
	"strings"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrBlogNotFound   = errors.New("blog not found")
	ErrNotBlogOwner   = errors.New("caller is not the blog author")
	ErrTitleRequired  = errors.New("title is required")
	ErrBodyRequired   = errors.New("body is required")
	ErrInvalidState   = errors.New("state must be draft or published")
	ErrDuplicateTitle = errors.New("title already used by this author")
)

// BlogService wraps blog related database operations.
type BlogService struct {
	db *gorm.DB
}

// NewBlogService creates a BlogService instance.
func NewBlogService(gdb *gorm.DB) *BlogService {
	return &BlogService{db: gdb}
}

// BlogInput represents the fields accepted when creating a blog.
type BlogInput struct {
	Title       string
	Description string
	Tags        []string
	Body        string
	State       string
	AuthorID    uint
}

// BlogUpdateInput represents a partial update: only non-nil fields are
// applied. An absent description and one set to the empty string are
// different requests.
type BlogUpdateInput struct {
	Title       *string
	Description *string
	Tags        *[]string
	Body        *string
	State       *string
}

// PublicFilter describes filters for the public published listing.
type PublicFilter struct {
	Title   string
	Author  string
	Tags    string
	OrderBy string
	Page    int
	Limit   int
}

// OwnerFilter describes filters for an author listing their own blogs.
type OwnerFilter struct {
	State string
	Page  int
	Limit int
}

// BlogListResult aggregates one page of blogs with pagination metadata.
type BlogListResult struct {
	Blogs      []db.Blog
	TotalPages int
	Page       int
	Limit      int
}

// CanModifyBlog reports whether callerID may mutate blog. Every mutating
// operation funnels through this single ownership check.
func CanModifyBlog(blog *db.Blog, callerID uint) bool {
	if blog == nil {
		return false
	}
	return blog.AuthorID == callerID
}

// Create validates and persists a new blog for its author. New blogs start
// as drafts unless the input names a state explicitly, and always start
// with a zero read count.
func (s *BlogService) Create(input BlogInput) (*db.Blog, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, ErrBodyRequired
	}

	state := strings.TrimSpace(input.State)
	if state == "" {
		state = db.StateDraft
	}
	if !db.IsValidState(state) {
		return nil, ErrInvalidState
	}

	blog := db.Blog{
		Title:       title,
		Description: input.Description,
		Body:        input.Body,
		AuthorID:    input.AuthorID,
		State:       state,
		ReadCount:   0,
		ReadingTime: EstimateReadingTime(input.Body),
	}

	tagNames := normalizeTagNames(input.Tags)

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Blog{}).
			Where("author_id = ? AND title = ?", input.AuthorID, title).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateTitle
		}

		return saveWithTags(tx, &blog, tagNames)
	}); err != nil {
		return nil, translateDuplicate(err)
	}

	blog.PopulateDerivedFields()
	return &blog, nil
}

// ListPublished returns one page of published blogs matching the public
// filters, with the author resolved for display. An author filter that
// matches no users short-circuits to an empty result without querying the
// blog table at all.
func (s *BlogService) ListPublished(filter PublicFilter) (*BlogListResult, error) {
	page := paginate(filter.Page, filter.Limit, 0)

	var authorIDs []uint
	if strings.TrimSpace(filter.Author) != "" {
		ids, err := s.resolveAuthorIDs(filter.Author)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return &BlogListResult{Blogs: []db.Blog{}, TotalPages: 0, Page: page.Page, Limit: page.Limit}, nil
		}
		authorIDs = ids
	}

	baseQuery := s.applyPublicFilters(s.db.Model(&db.Blog{}), filter, authorIDs)

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	page = paginate(filter.Page, filter.Limit, total)

	var blogs []db.Blog
	dataQuery := s.db.Model(&db.Blog{}).
		Preload("Tags").
		Preload("Author")
	dataQuery = s.applyPublicFilters(dataQuery, filter, authorIDs)

	if err := dataQuery.
		Order(parseOrderBy(filter.OrderBy)).
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&blogs).Error; err != nil {
		return nil, err
	}

	for i := range blogs {
		blogs[i].PopulateDerivedFields()
	}

	return &BlogListResult{Blogs: blogs, TotalPages: page.TotalPages, Page: page.Page, Limit: page.Limit}, nil
}

// GetPublished fetches a published blog by id and counts the read. Drafts
// and missing ids are indistinguishable to this path. The increment is a
// single UPDATE at the store, so concurrent reads never lose a count.
func (s *BlogService) GetPublished(id uint) (*db.Blog, error) {
	res := s.db.Model(&db.Blog{}).
		Where("id = ? AND state = ?", id, db.StatePublished).
		UpdateColumn("read_count", gorm.Expr("read_count + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrBlogNotFound
	}

	var blog db.Blog
	if err := s.db.Preload("Tags").Preload("Author").First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	blog.PopulateDerivedFields()
	return &blog, nil
}

// ListMine returns one page of the caller's own blogs in every state,
// newest first. The state filter is applied only when it names a valid
// state; anything else is ignored rather than rejected.
func (s *BlogService) ListMine(authorID uint, filter OwnerFilter) (*BlogListResult, error) {
	baseQuery := s.db.Model(&db.Blog{}).Where("author_id = ?", authorID)
	if db.IsValidState(filter.State) {
		baseQuery = baseQuery.Where("state = ?", filter.State)
	}

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	page := paginate(filter.Page, filter.Limit, total)

	dataQuery := s.db.Model(&db.Blog{}).
		Preload("Tags").
		Where("author_id = ?", authorID)
	if db.IsValidState(filter.State) {
		dataQuery = dataQuery.Where("state = ?", filter.State)
	}

	var blogs []db.Blog
	if err := dataQuery.
		Order("created_at desc").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&blogs).Error; err != nil {
		return nil, err
	}

	for i := range blogs {
		blogs[i].PopulateDerivedFields()
	}

	return &BlogListResult{Blogs: blogs, TotalPages: page.TotalPages, Page: page.Page, Limit: page.Limit}, nil
}

// Update applies the provided fields to an existing blog. Only the author
// may update, provided fields obey the same rules as Create, and a body
// change recomputes the reading time.
func (s *BlogService) Update(id, callerID uint, input BlogUpdateInput) (*db.Blog, error) {
	var existing db.Blog
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	if !CanModifyBlog(&existing, callerID) {
		return nil, ErrNotBlogOwner
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		existing.Title = title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Body != nil {
		if strings.TrimSpace(*input.Body) == "" {
			return nil, ErrBodyRequired
		}
		existing.Body = *input.Body
		existing.ReadingTime = EstimateReadingTime(*input.Body)
	}
	if input.State != nil {
		if !db.IsValidState(*input.State) {
			return nil, ErrInvalidState
		}
		existing.State = *input.State
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if input.Title != nil {
			var count int64
			if err := tx.Model(&db.Blog{}).
				Where("author_id = ? AND title = ? AND id <> ?", existing.AuthorID, existing.Title, existing.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicateTitle
			}
		}

		if input.Tags != nil {
			return saveWithTags(tx, &existing, normalizeTagNames(*input.Tags))
		}

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		return tx.Preload("Tags").First(&existing, existing.ID).Error
	}); err != nil {
		return nil, translateDuplicate(err)
	}

	existing.PopulateDerivedFields()
	return &existing, nil
}

// UpdateState changes only the publication state of a blog. Both
// directions are legal: draft to published and back.
func (s *BlogService) UpdateState(id, callerID uint, state string) (*db.Blog, error) {
	if !db.IsValidState(state) {
		return nil, ErrInvalidState
	}

	var existing db.Blog
	if err := s.db.Preload("Tags").First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	if !CanModifyBlog(&existing, callerID) {
		return nil, ErrNotBlogOwner
	}

	if err := s.db.Model(&existing).Update("state", state).Error; err != nil {
		return nil, err
	}

	existing.State = state
	existing.PopulateDerivedFields()
	return &existing, nil
}

// Delete permanently removes a blog and its tag associations.
func (s *BlogService) Delete(id, callerID uint) error {
	var existing db.Blog
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlogNotFound
		}
		return err
	}

	if !CanModifyBlog(&existing, callerID) {
		return ErrNotBlogOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&existing).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&db.Blog{}, existing.ID).Error
	})
}

// resolveAuthorIDs finds user ids whose first or last name contains the
// given fragment, case-insensitively.
func (s *BlogService) resolveAuthorIDs(fragment string) ([]uint, error) {
	pattern := "%" + strings.TrimSpace(fragment) + "%"

	var ids []uint
	if err := s.db.Model(&db.User{}).
		Where("first_name LIKE ? OR last_name LIKE ?", pattern, pattern).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *BlogService) applyPublicFilters(query *gorm.DB, filter PublicFilter, authorIDs []uint) *gorm.DB {
	query = query.Where("blogs.state = ?", db.StatePublished)

	if title := strings.TrimSpace(filter.Title); title != "" {
		query = query.Where("blogs.title LIKE ?", "%"+title+"%")
	}

	if len(authorIDs) > 0 {
		query = query.Where("blogs.author_id IN ?", authorIDs)
	}

	if tagNames := splitTagFilter(filter.Tags); len(tagNames) > 0 {
		subQuery := s.db.Model(&db.Blog{}).
			Select("blogs.id").
			Joins("JOIN blog_tags ON blogs.id = blog_tags.blog_id").
			Joins("JOIN tags ON tags.id = blog_tags.tag_id").
			Where("tags.name IN ?", tagNames).
			Distinct()

		query = query.Where("blogs.id IN (?)", subQuery)
	}

	return query
}

// parseOrderBy maps an order_by value of the form field:direction onto a
// sort clause. Unrecognized fields or directions fall back to the default
// of newest first.
func parseOrderBy(raw string) string {
	const defaultOrder = "blogs.created_at desc"

	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return defaultOrder
	}

	var column string
	switch parts[0] {
	case "read_count":
		column = "blogs.read_count"
	case "reading_time":
		column = "blogs.reading_time"
	case "createdAt":
		column = "blogs.created_at"
	default:
		return defaultOrder
	}

	switch parts[1] {
	case "asc", "desc":
		return column + " " + parts[1]
	default:
		return defaultOrder
	}
}

// saveWithTags persists the blog and replaces its tag set inside tx,
// creating missing tags by name, then reloads the associations.
func saveWithTags(tx *gorm.DB, blog *db.Blog, tagNames []string) error {
	if err := tx.Save(blog).Error; err != nil {
		return err
	}

	tags := make([]db.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		var tag db.Tag
		if err := tx.Where("name = ?", name).FirstOrCreate(&tag, db.Tag{Name: name}).Error; err != nil {
			return err
		}
		tags = append(tags, tag)
	}

	if err := tx.Model(blog).Association("Tags").Replace(tags); err != nil {
		return err
	}

	return tx.Preload("Tags").First(blog, blog.ID).Error
}

func normalizeTagNames(raw []string) []string {
	names := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, name := range raw {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		names = append(names, trimmed)
	}
	return names
}

// splitTagFilter parses the comma-separated public tags filter.
func splitTagFilter(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return normalizeTagNames(strings.Split(raw, ","))
}

// translateDuplicate maps the unique-index violation on (author_id, title)
// to the same error as the pre-check, so a race between two creates still
// surfaces as a title conflict rather than a server failure.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateTitle
	}
	return err
}
